package command

import (
	"context"
	"fmt"
	"regexp"

	"github.com/gobwas/glob"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hoardpkg/hoard/cmd/hoard/cmdutils"
	"github.com/hoardpkg/hoard/config"
	"github.com/hoardpkg/hoard/internal/download"
	"github.com/hoardpkg/hoard/internal/platform"
	"github.com/hoardpkg/hoard/internal/state"
	"github.com/hoardpkg/hoard/util/common/errors"
	"github.com/hoardpkg/hoard/util/common/progress"
)

type downloadFlags struct {
	github    []string
	gitlab    []string
	ghcr      []string
	regexes   []string
	globs     []string
	match     []string
	exclude   []string
	output    string
	exactCase bool
}

// NewDownloadCmd wires up:
//
//	hoard download [links...] [--github p...] [--gitlab p...] [--ghcr ref...]
func NewDownloadCmd(f *cmdutils.Factory) *cobra.Command {
	var flags downloadFlags
	cmd := &cobra.Command{
		Use:     "download [links...]",
		Aliases: []string{"dl"},
		Short:   "Download release assets and direct URLs",
		Long: `Downloads files from direct URLs, GitHub/GitLab releases or OCI
registries. Web URLs are routed by shape: github.com and gitlab.com links
are treated as releases of that project, ghcr.io and oci:// references as
OCI artifacts, anything else as a direct download.

Projects use owner/repo or owner/repo@tag. Without a tag the latest
release is used. Asset candidates are narrowed by --regex, --glob,
--match and --exclude; remaining ties are resolved interactively unless
--yes picks the first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && len(flags.github) == 0 && len(flags.gitlab) == 0 && len(flags.ghcr) == 0 {
				return errors.Wrap(errors.ErrInvalidArgument, "nothing to download")
			}

			st, err := f.State(cmd.Context())
			if err != nil {
				return err
			}

			opts, err := flags.toOptions()
			if err != nil {
				return err
			}

			handleDirectDownloads(cmd.Context(), st, args, opts)
			handlePlatformDownloads(cmd.Context(), st, platform.NewGithub(st.Client, ""), flags.github, opts)
			handlePlatformDownloads(cmd.Context(), st, platform.NewGitlab(st.Client, ""), flags.gitlab, opts)
			handleOciDownloads(cmd.Context(), st, flags.ghcr, opts)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&flags.github, "github", nil, "GitHub projects (owner/repo[@tag])")
	cmd.Flags().StringSliceVar(&flags.gitlab, "gitlab", nil, "GitLab projects (owner/repo[@tag])")
	cmd.Flags().StringSliceVar(&flags.ghcr, "ghcr", nil, "OCI references (ghcr.io/owner/pkg[:tag])")
	cmd.Flags().StringSliceVar(&flags.regexes, "regex", nil, "keep assets matching any regex")
	cmd.Flags().StringSliceVar(&flags.globs, "glob", nil, "keep assets matching any glob")
	cmd.Flags().StringSliceVar(&flags.match, "match", nil, "keep assets containing any keyword")
	cmd.Flags().StringSliceVar(&flags.exclude, "exclude", nil, "drop assets containing any keyword")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output path")
	cmd.Flags().BoolVar(&flags.exactCase, "exact-case", false, "match asset names case-sensitively")

	return cmd
}

// toOptions compiles the pattern flags. Bad patterns fail the whole command
// before any download starts.
func (fl *downloadFlags) toOptions() (platform.DownloadOptions, error) {
	opts := platform.DownloadOptions{
		MatchKeywords:   fl.match,
		ExcludeKeywords: fl.exclude,
		ExactCase:       fl.exactCase,
		OutputPath:      fl.output,
		AssumeYes:       config.Global.Yes,
	}

	for _, pattern := range fl.regexes {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return opts, errors.NewParseError(pattern, err.Error())
		}
		opts.RegexPatterns = append(opts.RegexPatterns, re)
	}
	for _, pattern := range fl.globs {
		g, err := glob.Compile(pattern)
		if err != nil {
			return opts, errors.NewParseError(pattern, err.Error())
		}
		opts.GlobPatterns = append(opts.GlobPatterns, g)
	}
	return opts, nil
}

// handleDirectDownloads classifies each link and routes it. Per-URL errors
// are reported and the batch continues.
func handleDirectDownloads(ctx context.Context, st *state.AppState, links []string, opts platform.DownloadOptions) {
	for _, link := range links {
		parsed, err := platform.ParsePlatformURL(link)
		if err != nil {
			pterm.Error.Println(fmt.Sprintf("Error parsing URL %q: %v", link, err))
			continue
		}

		switch parsed.Kind {
		case platform.KindDirectURL:
			log.Info().Str("url", parsed.Value).Msg("Downloading using direct link")
			downloadDirect(ctx, st, parsed.Value, opts)
		case platform.KindGithub:
			log.Info().Str("project", parsed.Value).Msg("Detected GitHub URL, processing as GitHub release")
			downloadFromPlatform(ctx, st, platform.NewGithub(st.Client, ""), parsed.Value, opts)
		case platform.KindGitlab:
			log.Info().Str("project", parsed.Value).Msg("Detected GitLab URL, processing as GitLab release")
			downloadFromPlatform(ctx, st, platform.NewGitlab(st.Client, ""), parsed.Value, opts)
		case platform.KindOci:
			log.Info().Str("reference", parsed.Value).Msg("Downloading using OCI reference")
			downloadOci(ctx, st, parsed.Value, opts)
		}
	}
}

func handlePlatformDownloads(ctx context.Context, st *state.AppState, p platform.ReleasePlatform, projects []string, opts platform.DownloadOptions) {
	for _, project := range projects {
		log.Info().Str("platform", p.Name()).Str("project", project).Msg("Fetching releases")
		downloadFromPlatform(ctx, st, p, project, opts)
	}
}

func handleOciDownloads(ctx context.Context, st *state.AppState, references []string, opts platform.DownloadOptions) {
	for _, ref := range references {
		log.Info().Str("reference", ref).Msg("Downloading using OCI reference")
		downloadOci(ctx, st, ref, opts)
	}
}

// downloadFromPlatform runs fetch → filter → select → download for one
// project. Failures abort only this project's processing.
func downloadFromPlatform(ctx context.Context, st *state.AppState, p platform.ReleasePlatform, project string, opts platform.DownloadOptions) {
	project, tag := platform.SplitProjectTag(project)
	opts.Tag = tag

	handler := platform.NewReleaseHandler(p, st.Downloader)

	releases, err := handler.FetchReleases(ctx, project)
	if err != nil {
		pterm.Error.Println(fmt.Sprintf("%s: %v", project, err))
		return
	}

	assets, err := handler.FilterReleases(releases, opts)
	if err != nil {
		pterm.Error.Println(fmt.Sprintf("%s: %v", project, err))
		return
	}

	asset, err := handler.SelectAsset(assets, opts)
	if err != nil {
		pterm.Error.Println(fmt.Sprintf("%s: %v", project, err))
		return
	}

	tracker := progress.NewTracker(asset.Name())
	opts.ProgressCallback = tracker.Callback()
	path, err := handler.Download(ctx, asset, opts)
	tracker.Stop()
	if err != nil {
		pterm.Error.Println(fmt.Sprintf("%s: %v", project, err))
		return
	}
	pterm.Success.Println(fmt.Sprintf("Downloaded %s", path))
}

func downloadDirect(ctx context.Context, st *state.AppState, url string, opts platform.DownloadOptions) {
	tracker := progress.NewTracker(download.OutputName(url))
	path, err := st.Downloader.Download(ctx, download.Options{
		URL:              url,
		OutputPath:       opts.OutputPath,
		ProgressCallback: tracker.Callback(),
	})
	tracker.Stop()
	if err != nil {
		pterm.Error.Println(fmt.Sprintf("%s: %v", url, err))
		return
	}
	pterm.Success.Println(fmt.Sprintf("Downloaded %s", path))
}

func downloadOci(ctx context.Context, st *state.AppState, ref string, opts platform.DownloadOptions) {
	tracker := progress.NewTracker(download.OutputName(ref))
	path, err := st.Downloader.DownloadOCI(ctx, download.Options{
		URL:              ref,
		OutputPath:       opts.OutputPath,
		ProgressCallback: tracker.Callback(),
	})
	tracker.Stop()
	if err != nil {
		pterm.Error.Println(fmt.Sprintf("%s: %v", ref, err))
		return
	}
	pterm.Success.Println(fmt.Sprintf("Downloaded %s", path))
}
