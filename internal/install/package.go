package install

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"

	"github.com/hoardpkg/hoard/internal/download"
	"github.com/hoardpkg/hoard/internal/registry"
	"github.com/hoardpkg/hoard/util/common/errors"
	"github.com/hoardpkg/hoard/util/common/progress"
)

// Installer materializes one resolved package on disk and keeps the
// installed-packages record in sync. It is shared by concurrent install
// jobs; the record does its own locking.
type Installer struct {
	downloader *download.Downloader
	installed  *registry.InstalledPackages
	binDir     string
}

// NewInstaller creates an Installer writing binaries to binDir.
func NewInstaller(d *download.Downloader, installed *registry.InstalledPackages, binDir string) *Installer {
	return &Installer{
		downloader: d,
		installed:  installed,
		binDir:     binDir,
	}
}

// BinPath returns where a package's binary lives once installed.
func (in *Installer) BinPath(rp registry.ResolvedPackage) string {
	name := rp.Package.BinName
	if name == "" {
		name = rp.Package.Name
	}
	return filepath.Join(in.binDir, name)
}

// Install downloads the package artifact, marks it executable and records
// it as installed. Already-installed packages are skipped unless force or
// isUpdate is set.
func (in *Installer) Install(ctx context.Context, rp registry.ResolvedPackage, force, isUpdate bool) error {
	logger := log.With().
		Str("package", rp.Package.FullName('/')).
		Str("repository", rp.RepoName).
		Str("collection", rp.Collection).
		Logger()

	if !force && !isUpdate && in.installed.IsInstalled(rp) {
		pterm.Info.Println(fmt.Sprintf("%s is already installed, skipping (use --force to reinstall)",
			rp.Package.FullName('/')))
		return nil
	}

	if rp.Package.DownloadURL == "" {
		return errors.NewPackageError("install", rp.Package.Name, rp.Package.Variant, errors.ErrInvalidArgument)
	}

	target := in.BinPath(rp)
	tracker := progress.NewTracker(rp.Package.FullName('/'))
	defer tracker.Stop()

	logger.Debug().Str("url", rp.Package.DownloadURL).Str("target", target).Msg("Installing package")

	if _, err := in.downloader.Download(ctx, download.Options{
		URL:              rp.Package.DownloadURL,
		OutputPath:       target,
		ProgressCallback: tracker.Callback(),
	}); err != nil {
		return errors.NewPackageError("install", rp.Package.Name, rp.Package.Variant, err)
	}

	if err := os.Chmod(target, 0o755); err != nil {
		return errors.NewFileError(target, "chmod", err)
	}

	if err := in.installed.MarkInstalled(rp); err != nil {
		return errors.NewPackageError("record", rp.Package.Name, rp.Package.Variant, err)
	}

	pterm.Success.Println(fmt.Sprintf("Installed %s", rp.Package.FullName('/')))
	return nil
}

// Remove deletes the package binary and drops its installed record.
func (in *Installer) Remove(rp registry.ResolvedPackage) error {
	target := in.BinPath(rp)

	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return errors.NewFileError(target, "remove", err)
	}

	if err := in.installed.MarkRemoved(rp); err != nil {
		return errors.NewPackageError("record", rp.Package.Name, rp.Package.Variant, err)
	}

	pterm.Success.Println(fmt.Sprintf("Removed %s", rp.Package.FullName('/')))
	return nil
}
