package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hoardpkg/hoard/internal/download"
	"github.com/hoardpkg/hoard/util/common/errors"
)

func TestGithubFetchReleases(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/owner/repo/releases" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Accept"); got != "application/vnd.github+json" {
			t.Errorf("Accept = %q", got)
		}
		fmt.Fprint(w, `[
			{
				"tag_name": "v2.0.0",
				"assets": [
					{"name": "tool-linux-x64", "size": 1024, "browser_download_url": "https://example.com/tool-linux-x64"}
				]
			},
			{"tag_name": "v1.0.0", "assets": []}
		]`)
	}))
	defer server.Close()

	g := NewGithub(download.NewHTTPClient(), server.URL)
	releases, err := g.FetchReleases(context.Background(), "owner/repo")
	if err != nil {
		t.Fatalf("FetchReleases() error = %v", err)
	}

	if len(releases) != 2 {
		t.Fatalf("FetchReleases() returned %d releases, want 2", len(releases))
	}
	if releases[0].Tag() != "v2.0.0" {
		t.Errorf("first release tag = %q, want v2.0.0", releases[0].Tag())
	}

	assets := releases[0].ReleaseAssets()
	if len(assets) != 1 {
		t.Fatalf("first release has %d assets, want 1", len(assets))
	}
	if assets[0].Name() != "tool-linux-x64" || assets[0].Size() != 1024 {
		t.Errorf("asset = %q/%d, want tool-linux-x64/1024", assets[0].Name(), assets[0].Size())
	}
	if assets[0].DownloadURL() != "https://example.com/tool-linux-x64" {
		t.Errorf("asset URL = %q", assets[0].DownloadURL())
	}
}

func TestGithubFetchReleasesNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	g := NewGithub(download.NewHTTPClient(), server.URL)
	_, err := g.FetchReleases(context.Background(), "owner/missing")

	var netErr *errors.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("FetchReleases() error = %T, want *errors.NetworkError", err)
	}
	if netErr.Status != http.StatusNotFound {
		t.Errorf("NetworkError.Status = %d, want 404", netErr.Status)
	}
}

func TestGitlabFetchReleases(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The project segment stays path-escaped on the wire.
		if r.URL.EscapedPath() != "/projects/owner%2Frepo/releases" {
			t.Errorf("unexpected path %q", r.URL.EscapedPath())
		}
		fmt.Fprint(w, `[
			{
				"tag_name": "v1.5.0",
				"assets": {
					"links": [
						{"name": "tool.tar.gz", "direct_asset_url": "https://example.com/direct", "url": "https://example.com/plain"}
					]
				}
			}
		]`)
	}))
	defer server.Close()

	g := NewGitlab(download.NewHTTPClient(), server.URL)
	releases, err := g.FetchReleases(context.Background(), "owner/repo")
	if err != nil {
		t.Fatalf("FetchReleases() error = %v", err)
	}

	if len(releases) != 1 || releases[0].Tag() != "v1.5.0" {
		t.Fatalf("FetchReleases() = %+v, want one v1.5.0 release", releases)
	}

	assets := releases[0].ReleaseAssets()
	if len(assets) != 1 {
		t.Fatalf("release has %d assets, want 1", len(assets))
	}
	if assets[0].DownloadURL() != "https://example.com/direct" {
		t.Errorf("asset URL = %q, want the direct asset URL", assets[0].DownloadURL())
	}
	if assets[0].Size() != 0 {
		t.Errorf("asset size = %d, want 0 for link assets", assets[0].Size())
	}
}
