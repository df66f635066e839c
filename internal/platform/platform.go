// Package platform abstracts over release-hosting platforms. GitHub and
// GitLab implement the release capability set; OCI references and direct
// URLs bypass release modelling and go straight to the download pipeline.
package platform

import (
	"context"
	"net/url"
	"strings"

	"github.com/hoardpkg/hoard/util/common/errors"
)

// Release is one tagged release with its downloadable assets.
type Release interface {
	Tag() string
	ReleaseAssets() []Asset
}

// Asset is a single downloadable file attached to a release. Size is zero
// when the platform does not report one.
type Asset interface {
	Name() string
	Size() int64
	DownloadURL() string
}

// ReleasePlatform fetches release metadata for one project. Filtering and
// download are shared across platforms via ReleaseHandler.
type ReleasePlatform interface {
	Name() string
	FetchReleases(ctx context.Context, project string) ([]Release, error)
}

// URLKind classifies a user-supplied link.
type URLKind int

const (
	KindDirectURL URLKind = iota
	KindGithub
	KindGitlab
	KindOci
)

// PlatformURL is a classified link: for Github/Gitlab the Value is the
// owner/repo project (with optional @tag suffix preserved), for Oci the
// reference, and for DirectURL the URL itself.
type PlatformURL struct {
	Kind  URLKind
	Value string
}

// ParsePlatformURL routes a link to its platform by shape. GitHub and
// GitLab web URLs become project identifiers; oci:// schemes and bare
// registry references (e.g. ghcr.io/...) become OCI; any other http(s) URL
// is a direct download.
func ParsePlatformURL(link string) (PlatformURL, error) {
	trimmed := strings.TrimSpace(link)
	if trimmed == "" {
		return PlatformURL{}, errors.NewParseError(link, "empty URL")
	}

	if strings.HasPrefix(trimmed, "oci://") {
		return PlatformURL{Kind: KindOci, Value: trimmed}, nil
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return PlatformURL{}, errors.NewParseError(link, err.Error())
	}

	switch u.Scheme {
	case "http", "https":
	case "":
		// Scheme-less registry references like ghcr.io/org/pkg:tag.
		if host, _, ok := strings.Cut(trimmed, "/"); ok && strings.Contains(host, ".") {
			return PlatformURL{Kind: KindOci, Value: trimmed}, nil
		}
		return PlatformURL{}, errors.NewParseError(link, "unsupported reference")
	default:
		return PlatformURL{}, errors.NewParseError(link, "unsupported scheme "+u.Scheme)
	}

	switch u.Hostname() {
	case "github.com", "www.github.com":
		if project, ok := projectFromPath(u.Path); ok {
			return PlatformURL{Kind: KindGithub, Value: project}, nil
		}
	case "gitlab.com", "www.gitlab.com":
		if project, ok := projectFromPath(u.Path); ok {
			return PlatformURL{Kind: KindGitlab, Value: project}, nil
		}
	case "ghcr.io":
		return PlatformURL{Kind: KindOci, Value: strings.TrimPrefix(trimmed, u.Scheme+"://")}, nil
	}

	return PlatformURL{Kind: KindDirectURL, Value: trimmed}, nil
}

// projectFromPath extracts "owner/repo" from a web URL path.
func projectFromPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", false
	}
	return parts[0] + "/" + parts[1], true
}

// SplitProjectTag splits "owner/repo@tag" on the last '@'. A missing or
// empty tag after trimming means "no tag requested".
func SplitProjectTag(project string) (string, string) {
	project = strings.TrimSpace(project)

	idx := strings.LastIndex(project, "@")
	if idx == -1 {
		return project, ""
	}

	tag := strings.TrimSpace(project[idx+1:])
	return strings.TrimSpace(project[:idx]), tag
}
