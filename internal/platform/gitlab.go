package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/hoardpkg/hoard/util/common/errors"
)

const gitlabAPIBase = "https://gitlab.com/api/v4"

// Gitlab fetches releases through the GitLab REST API.
type Gitlab struct {
	apiBase string
	client  *retryablehttp.Client
}

// NewGitlab creates the GitLab platform adapter. An empty apiBase selects
// the gitlab.com endpoint.
func NewGitlab(client *retryablehttp.Client, apiBase string) *Gitlab {
	if apiBase == "" {
		apiBase = gitlabAPIBase
	}
	return &Gitlab{apiBase: apiBase, client: client}
}

func (g *Gitlab) Name() string { return "gitlab" }

// GitlabRelease is one entry of the releases API response. GitLab exposes
// downloadable files as asset links and reports no sizes for them.
type GitlabRelease struct {
	TagName string `json:"tag_name"`
	Assets  struct {
		Links []GitlabAssetLink `json:"links"`
	} `json:"assets"`
}

// GitlabAssetLink is one release asset link.
type GitlabAssetLink struct {
	LinkName       string `json:"name"`
	DirectAssetURL string `json:"direct_asset_url"`
	URL            string `json:"url"`
}

func (r GitlabRelease) Tag() string { return r.TagName }

func (r GitlabRelease) ReleaseAssets() []Asset {
	assets := make([]Asset, len(r.Assets.Links))
	for i, a := range r.Assets.Links {
		assets[i] = a
	}
	return assets
}

func (a GitlabAssetLink) Name() string { return a.LinkName }
func (a GitlabAssetLink) Size() int64  { return 0 }

func (a GitlabAssetLink) DownloadURL() string {
	if a.DirectAssetURL != "" {
		return a.DirectAssetURL
	}
	return a.URL
}

// FetchReleases retrieves all releases for an owner/repo project.
func (g *Gitlab) FetchReleases(ctx context.Context, project string) ([]Release, error) {
	endpoint := fmt.Sprintf("%s/projects/%s/releases", g.apiBase, url.PathEscape(project))

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.NewParseError(endpoint, err.Error())
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, errors.NewNetworkError(endpoint, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewNetworkError(endpoint, resp.StatusCode, nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewNetworkError(endpoint, 0, err)
	}

	var releases []GitlabRelease
	if err := json.Unmarshal(body, &releases); err != nil {
		return nil, errors.NewParseError(endpoint, err.Error())
	}

	out := make([]Release, len(releases))
	for i, r := range releases {
		out[i] = r
	}
	return out, nil
}
