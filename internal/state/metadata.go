package state

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"

	"github.com/hoardpkg/hoard/config"
	"github.com/hoardpkg/hoard/internal/registry"
	"github.com/hoardpkg/hoard/util/common/errors"
)

// metadataDocument is the wire shape of a repository index:
// collection name -> package name -> package records.
type metadataDocument map[string]map[string][]registry.Package

// loadRepository returns the repository's package data from the on-disk
// cache, fetching it first when no cached copy exists.
func (s *AppState) loadRepository(ctx context.Context, repo config.Repository) (registry.RepositoryPackages, error) {
	path := s.metadataPath(repo.Name)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := s.fetchMetadata(ctx, repo); err != nil {
			return registry.RepositoryPackages{}, err
		}
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return registry.RepositoryPackages{}, errors.NewFileError(path, "read", err)
	}

	return parseMetadata(path, data)
}

// Sync refreshes every configured repository's metadata cache and reloads
// the catalog from it.
func (s *AppState) Sync(ctx context.Context) error {
	for _, repo := range s.Config.Repositories {
		if err := s.fetchMetadata(ctx, repo); err != nil {
			log.Error().Err(err).Str("repository", repo.Name).Msg("Metadata refresh failed")
			continue
		}

		data, err := os.ReadFile(s.metadataPath(repo.Name))
		if err != nil {
			log.Error().Err(err).Str("repository", repo.Name).Msg("Cannot read refreshed metadata")
			continue
		}
		packages, err := parseMetadata(s.metadataPath(repo.Name), data)
		if err != nil {
			log.Error().Err(err).Str("repository", repo.Name).Msg("Cannot parse refreshed metadata")
			continue
		}

		s.Storage.AddRepository(repo.Name, packages)
		log.Info().Str("repository", repo.Name).Msg("Repository metadata refreshed")
	}
	return nil
}

func (s *AppState) fetchMetadata(ctx context.Context, repo config.Repository) error {
	if repo.MetadataURL == "" {
		return errors.Wrap(errors.ErrInvalidArgument, "repository has no metadata URL")
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, repo.MetadataURL, nil)
	if err != nil {
		return errors.NewParseError(repo.MetadataURL, err.Error())
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return errors.NewNetworkError(repo.MetadataURL, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.NewNetworkError(repo.MetadataURL, resp.StatusCode, nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewNetworkError(repo.MetadataURL, 0, err)
	}

	path := s.metadataPath(repo.Name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.NewFileError(path, "mkdir", err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return errors.NewFileError(path, "write", err)
	}
	return nil
}

func (s *AppState) metadataPath(repoName string) string {
	return filepath.Join(s.Config.CacheDir, "metadata", repoName+".json")
}

func parseMetadata(path string, data []byte) (registry.RepositoryPackages, error) {
	var doc metadataDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return registry.RepositoryPackages{}, errors.NewParseError(path, err.Error())
	}
	return registry.RepositoryPackages{Collection: doc}, nil
}
