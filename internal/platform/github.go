package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/hoardpkg/hoard/util/common/errors"
)

const githubAPIBase = "https://api.github.com"

// Github fetches releases through the GitHub REST API.
type Github struct {
	apiBase string
	client  *retryablehttp.Client
}

// NewGithub creates the GitHub platform adapter. An empty apiBase selects
// the public API endpoint.
func NewGithub(client *retryablehttp.Client, apiBase string) *Github {
	if apiBase == "" {
		apiBase = githubAPIBase
	}
	return &Github{apiBase: apiBase, client: client}
}

func (g *Github) Name() string { return "github" }

// GithubRelease is one entry of the releases API response.
type GithubRelease struct {
	TagName    string        `json:"tag_name"`
	Prerelease bool          `json:"prerelease"`
	Asset      []GithubAsset `json:"assets"`
}

// GithubAsset is one release asset.
type GithubAsset struct {
	AssetName          string `json:"name"`
	AssetSize          int64  `json:"size"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

func (r GithubRelease) Tag() string { return r.TagName }

func (r GithubRelease) ReleaseAssets() []Asset {
	assets := make([]Asset, len(r.Asset))
	for i, a := range r.Asset {
		assets[i] = a
	}
	return assets
}

func (a GithubAsset) Name() string        { return a.AssetName }
func (a GithubAsset) Size() int64         { return a.AssetSize }
func (a GithubAsset) DownloadURL() string { return a.BrowserDownloadURL }

// FetchReleases retrieves all releases for an owner/repo project.
func (g *Github) FetchReleases(ctx context.Context, project string) ([]Release, error) {
	url := fmt.Sprintf("%s/repos/%s/releases?per_page=100", g.apiBase, project)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.NewParseError(url, err.Error())
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, errors.NewNetworkError(url, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewNetworkError(url, resp.StatusCode, nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewNetworkError(url, 0, err)
	}

	var releases []GithubRelease
	if err := json.Unmarshal(body, &releases); err != nil {
		return nil, errors.NewParseError(url, err.Error())
	}

	out := make([]Release, len(releases))
	for i, r := range releases {
		out[i] = r
	}
	return out, nil
}
