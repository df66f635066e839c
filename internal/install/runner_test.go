package install

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/hoardpkg/hoard/config"
	"github.com/hoardpkg/hoard/internal/download"
	"github.com/hoardpkg/hoard/internal/registry"
	"github.com/hoardpkg/hoard/util/common/errors"
)

func newRunServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("#!/bin/sh\nexit 0\n"))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRunResolvedPackage(t *testing.T) {
	var hits atomic.Int32
	server := newRunServer(t, &hits)

	storage := registry.NewPackageStorage(nil)
	storage.AddRepository("main", registry.RepositoryPackages{
		Collection: map[string]map[string][]registry.Package{
			"bin": {
				"hello": {{Name: "hello", BinName: "hello", DownloadURL: server.URL + "/hello"}},
			},
		},
	})

	runner := NewRunner(storage, nil, download.NewDownloader(download.NewHTTPClient()), t.TempDir())
	ctx := context.Background()

	if err := runner.Run(ctx, []string{"hello"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("server hit %d times, want 1", hits.Load())
	}

	// Second invocation reuses the cached binary.
	if err := runner.Run(ctx, []string{"hello", "--version"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, cached binary must not be re-downloaded", hits.Load())
	}
}

func TestRunSynthesizesUnknownPackage(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte("#!/bin/sh\nexit 0\n"))
	}))
	t.Cleanup(server.Close)

	repos := []config.Repository{
		{
			Name: "main",
			Sources: map[string]string{
				"bin": server.URL + "/bin",
				"pkg": server.URL + "/pkg",
			},
		},
	}

	runner := NewRunner(registry.NewPackageStorage(nil), repos,
		download.NewDownloader(download.NewHTTPClient()), t.TempDir())

	if err := runner.Run(context.Background(), []string{"mystery#pkg"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if gotPath != "/pkg/mystery" {
		t.Errorf("download path = %q, want /pkg/mystery", gotPath)
	}
}

func TestRunWithoutRepositories(t *testing.T) {
	runner := NewRunner(registry.NewPackageStorage(nil), nil,
		download.NewDownloader(download.NewHTTPClient()), t.TempDir())

	err := runner.Run(context.Background(), []string{"mystery"})
	if !errors.Is(err, errors.ErrNoRepository) {
		t.Errorf("Run() error = %v, want ErrNoRepository", err)
	}
}

func TestRunNeedsACommand(t *testing.T) {
	runner := NewRunner(registry.NewPackageStorage(nil), nil,
		download.NewDownloader(download.NewHTTPClient()), t.TempDir())

	err := runner.Run(context.Background(), nil)
	if !errors.Is(err, errors.ErrInvalidArgument) {
		t.Errorf("Run() error = %v, want ErrInvalidArgument", err)
	}
}
