package install

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hoardpkg/hoard/config"
	"github.com/hoardpkg/hoard/internal/download"
	"github.com/hoardpkg/hoard/internal/registry"
	"github.com/hoardpkg/hoard/util/common/errors"
	"github.com/hoardpkg/hoard/util/common/progress"
)

// Runner executes a package by name, downloading it into the cache first
// when needed. Packages absent from every loaded index are synthesized from
// a repository base URL; that fallback trades correctness guarantees for
// convenience and stays separate from primary resolution.
type Runner struct {
	storage      *registry.PackageStorage
	repositories []config.Repository
	downloader   *download.Downloader
	cacheDir     string
}

// NewRunner creates a Runner caching binaries under cacheDir.
func NewRunner(storage *registry.PackageStorage, repositories []config.Repository, d *download.Downloader, cacheDir string) *Runner {
	return &Runner{
		storage:      storage,
		repositories: repositories,
		downloader:   d,
		cacheDir:     cacheDir,
	}
}

// Run resolves command[0] to a package, ensures its binary is cached and
// executes it with the remaining arguments, wiring through stdio.
func (r *Runner) Run(ctx context.Context, command []string) error {
	if len(command) == 0 {
		return errors.Wrap(errors.ErrInvalidArgument, "run needs a package name")
	}

	if err := os.MkdirAll(r.cacheDir, 0o755); err != nil {
		return errors.NewFileError(r.cacheDir, "mkdir", err)
	}

	packageName := command[0]
	args := command[1:]

	rp, err := r.storage.ResolvePackage(packageName)
	if err != nil {
		log.Debug().Err(err).Str("package", packageName).Msg("Not in registry, synthesizing from repository base URL")
		rp, err = r.synthesize(packageName)
		if err != nil {
			return err
		}
	}

	binName := rp.Package.BinName
	if binName == "" {
		binName = rp.Package.Name
	}
	binPath := filepath.Join(r.cacheDir, binName)

	if _, err := os.Stat(binPath); os.IsNotExist(err) {
		tracker := progress.NewTracker(rp.Package.FullName('/'))
		if _, err := r.downloader.Download(ctx, download.Options{
			URL:              rp.Package.DownloadURL,
			OutputPath:       binPath,
			ProgressCallback: tracker.Callback(),
		}); err != nil {
			tracker.Stop()
			return errors.NewPackageError("run", rp.Package.Name, rp.Package.Variant, err)
		}
		tracker.Stop()
		if err := os.Chmod(binPath, 0o755); err != nil {
			return errors.NewFileError(binPath, "chmod", err)
		}
	}

	cmd := exec.CommandContext(ctx, binPath, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// synthesize builds an ad-hoc ResolvedPackage from the query alone, joining
// the first matching repository's collection base URL with the package's
// qualified name.
func (r *Runner) synthesize(packageName string) (registry.ResolvedPackage, error) {
	query := registry.ParsePackageQuery(packageName)

	var baseURL, collection string
	for _, repo := range r.repositories {
		if query.Collection != "" {
			if url, ok := repo.Sources[query.Collection]; ok {
				baseURL, collection = url, query.Collection
				break
			}
			continue
		}
		if name, url, ok := firstSource(repo.Sources); ok {
			baseURL, collection = url, name
			break
		}
	}
	if baseURL == "" {
		return registry.ResolvedPackage{}, errors.ErrNoRepository
	}

	pkg := registry.Package{
		Name:    query.Name,
		Variant: query.Variant,
		BinName: query.Name,
	}
	pkg.DownloadURL = strings.TrimSuffix(baseURL, "/") + "/" + pkg.FullName('/')

	return registry.ResolvedPackage{
		RepoName:   query.Repository,
		Collection: collection,
		Package:    pkg,
	}, nil
}

func firstSource(sources map[string]string) (string, string, bool) {
	if len(sources) == 0 {
		return "", "", false
	}
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names[0], sources[names[0]], true
}
