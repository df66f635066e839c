package platform

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
	"github.com/rs/zerolog/log"

	"github.com/hoardpkg/hoard/internal/download"
	"github.com/hoardpkg/hoard/internal/tui"
	"github.com/hoardpkg/hoard/util/common"
	"github.com/hoardpkg/hoard/util/common/errors"
)

// DownloadOptions configure release filtering and the final transfer.
type DownloadOptions struct {
	Tag             string
	RegexPatterns   []*regexp.Regexp
	GlobPatterns    []glob.Glob
	MatchKeywords   []string
	ExcludeKeywords []string
	ExactCase       bool
	OutputPath      string

	// AssumeYes picks the first candidate instead of prompting.
	AssumeYes bool

	ProgressCallback download.Callback
}

// ReleaseHandler drives fetch → filter → select → download for one
// platform. Filtering and selection are platform-independent.
type ReleaseHandler struct {
	platform   ReleasePlatform
	downloader *download.Downloader
}

// NewReleaseHandler creates a handler for the given platform adapter.
func NewReleaseHandler(p ReleasePlatform, d *download.Downloader) *ReleaseHandler {
	return &ReleaseHandler{platform: p, downloader: d}
}

// FetchReleases delegates to the platform adapter.
func (h *ReleaseHandler) FetchReleases(ctx context.Context, project string) ([]Release, error) {
	return h.platform.FetchReleases(ctx, project)
}

// FilterReleases selects the target release (requested tag, or the first
// platform-reported one) and filters its assets. An asset passes when it
// matches at least one regex/glob pattern (if any are given), contains at
// least one match keyword (if any), and contains no exclude keyword.
// Name matching is case-insensitive unless ExactCase is set. The result is
// deterministic for a given asset list and options.
func (h *ReleaseHandler) FilterReleases(releases []Release, opts DownloadOptions) ([]Asset, error) {
	if len(releases) == 0 {
		return nil, errors.Wrap(errors.ErrPackageNotFound, "no releases found")
	}

	release := releases[0]
	if opts.Tag != "" {
		release = nil
		for _, r := range releases {
			if r.Tag() == opts.Tag {
				release = r
				break
			}
		}
		if release == nil {
			return nil, errors.Wrap(errors.ErrPackageNotFound, fmt.Sprintf("release with tag %q", opts.Tag))
		}
	}

	var assets []Asset
	for _, asset := range release.ReleaseAssets() {
		if matchAsset(asset.Name(), opts) {
			assets = append(assets, asset)
		}
	}

	if len(assets) == 0 {
		return nil, errors.Wrap(errors.ErrPackageNotFound, fmt.Sprintf("no assets matched in release %s", release.Tag()))
	}
	return assets, nil
}

// SelectAsset picks one asset: the only candidate or the first one under
// AssumeYes, otherwise an interactive choice. Prompting without a terminal
// is a caller error and reported as ambiguous.
func (h *ReleaseHandler) SelectAsset(assets []Asset, opts DownloadOptions) (Asset, error) {
	if len(assets) == 1 || opts.AssumeYes {
		return assets[0], nil
	}

	if !tui.IsInteractive() {
		return nil, errors.Wrap(errors.ErrAmbiguous, fmt.Sprintf("%d assets matched", len(assets)))
	}

	options := make([]string, len(assets))
	for i, asset := range assets {
		label := asset.Name()
		if asset.Size() > 0 {
			label = fmt.Sprintf("%s (%s)", label, common.GetSize(asset.Size()))
		}
		options[i] = label
	}

	idx, err := tui.SelectOption("Select an asset", options)
	if err != nil {
		return nil, err
	}
	return assets[idx], nil
}

// Download streams the chosen asset to disk.
func (h *ReleaseHandler) Download(ctx context.Context, asset Asset, opts DownloadOptions) (string, error) {
	log.Info().
		Str("platform", h.platform.Name()).
		Str("asset", asset.Name()).
		Msg("Downloading asset")

	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = asset.Name()
	}

	return h.downloader.Download(ctx, download.Options{
		URL:              asset.DownloadURL(),
		OutputPath:       outputPath,
		ProgressCallback: opts.ProgressCallback,
	})
}

func matchAsset(name string, opts DownloadOptions) bool {
	cmpName := name
	if !opts.ExactCase {
		cmpName = strings.ToLower(name)
	}

	if len(opts.RegexPatterns) > 0 || len(opts.GlobPatterns) > 0 {
		matched := false
		for _, re := range opts.RegexPatterns {
			if re.MatchString(name) {
				matched = true
				break
			}
		}
		if !matched {
			for _, g := range opts.GlobPatterns {
				if g.Match(name) {
					matched = true
					break
				}
			}
		}
		if !matched {
			return false
		}
	}

	if len(opts.MatchKeywords) > 0 {
		matched := false
		for _, kw := range opts.MatchKeywords {
			if strings.Contains(cmpName, normalizeKeyword(kw, opts.ExactCase)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, kw := range opts.ExcludeKeywords {
		if strings.Contains(cmpName, normalizeKeyword(kw, opts.ExactCase)) {
			return false
		}
	}

	return true
}

func normalizeKeyword(kw string, exactCase bool) string {
	if exactCase {
		return kw
	}
	return strings.ToLower(kw)
}
