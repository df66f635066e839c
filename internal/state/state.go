// Package state assembles the per-invocation application state: loaded
// configuration, the shared HTTP client, the package catalog and the
// installed-packages record. Constructed once in the command factory and
// passed by reference everywhere.
package state

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"

	"github.com/hoardpkg/hoard/config"
	"github.com/hoardpkg/hoard/internal/download"
	"github.com/hoardpkg/hoard/internal/registry"
	"github.com/hoardpkg/hoard/internal/tui"
	"github.com/hoardpkg/hoard/util/common/errors"
)

// AppState holds everything a command needs. Immutable after New.
type AppState struct {
	Config     *config.Config
	Client     *retryablehttp.Client
	Downloader *download.Downloader
	Storage    *registry.PackageStorage
	Installed  *registry.InstalledPackages
}

// New loads configuration, the installed record and every repository's
// cached metadata (fetching on first use).
func New(ctx context.Context) (*AppState, error) {
	cfg, err := config.Load(config.Global.ConfigPath)
	if err != nil {
		return nil, err
	}

	client := download.NewHTTPClient()

	installed, err := registry.LoadInstalledPackages(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	s := &AppState{
		Config:     cfg,
		Client:     client,
		Downloader: download.NewDownloader(client),
		Installed:  installed,
	}
	s.Storage = registry.NewPackageStorage(selectVariant)

	for _, repo := range cfg.Repositories {
		packages, err := s.loadRepository(ctx, repo)
		if err != nil {
			log.Warn().Err(err).Str("repository", repo.Name).Msg("Skipping repository")
			continue
		}
		s.Storage.AddRepository(repo.Name, packages)
	}

	return s, nil
}

// selectVariant prompts for one of several matching packages. --yes picks
// the first candidate; prompting without a terminal is a caller error.
func selectVariant(candidates []registry.ResolvedPackage) (registry.ResolvedPackage, error) {
	if config.Global.Yes {
		return candidates[0], nil
	}
	if !tui.IsInteractive() {
		return registry.ResolvedPackage{}, errors.Wrap(errors.ErrAmbiguous,
			fmt.Sprintf("%d packages matched", len(candidates)))
	}

	options := make([]string, len(candidates))
	for i, rp := range candidates {
		label := fmt.Sprintf("%s#%s %s", rp.RepoName, rp.Collection, rp.Package.FullName('/'))
		if rp.Package.Version != "" {
			label += " " + rp.Package.Version
		}
		options[i] = label
	}

	idx, err := tui.SelectOption("Select a package", options)
	if err != nil {
		return registry.ResolvedPackage{}, err
	}
	return candidates[idx], nil
}
