package platform

import (
	"regexp"
	"testing"

	"github.com/gobwas/glob"

	"github.com/hoardpkg/hoard/util/common/errors"
)

type fakeAsset struct {
	name string
	size int64
	url  string
}

func (a fakeAsset) Name() string        { return a.name }
func (a fakeAsset) Size() int64         { return a.size }
func (a fakeAsset) DownloadURL() string { return a.url }

type fakeRelease struct {
	tag    string
	assets []Asset
}

func (r fakeRelease) Tag() string            { return r.tag }
func (r fakeRelease) ReleaseAssets() []Asset { return r.assets }

func releaseWith(tag string, names ...string) Release {
	assets := make([]Asset, len(names))
	for i, name := range names {
		assets[i] = fakeAsset{name: name, url: "https://example.com/" + name}
	}
	return fakeRelease{tag: tag, assets: assets}
}

func assetNames(assets []Asset) []string {
	names := make([]string, len(assets))
	for i, a := range assets {
		names[i] = a.Name()
	}
	return names
}

func TestFilterReleases(t *testing.T) {
	handler := NewReleaseHandler(nil, nil)
	releases := []Release{
		releaseWith("v2.0.0", "foo-linux-x64", "foo-darwin-x64", "foo-linux-arm64"),
		releaseWith("v1.0.0", "old-linux-x64"),
	}

	tests := []struct {
		name string
		opts DownloadOptions
		want []string
	}{
		{
			name: "no patterns keeps everything from the first release",
			opts: DownloadOptions{},
			want: []string{"foo-linux-x64", "foo-darwin-x64", "foo-linux-arm64"},
		},
		{
			name: "match and exclude compose",
			opts: DownloadOptions{
				MatchKeywords:   []string{"linux"},
				ExcludeKeywords: []string{"arm64"},
			},
			want: []string{"foo-linux-x64"},
		},
		{
			name: "regex patterns",
			opts: DownloadOptions{
				RegexPatterns: []*regexp.Regexp{regexp.MustCompile(`darwin`)},
			},
			want: []string{"foo-darwin-x64"},
		},
		{
			name: "glob patterns",
			opts: DownloadOptions{
				GlobPatterns: []glob.Glob{glob.MustCompile("*linux*")},
			},
			want: []string{"foo-linux-x64", "foo-linux-arm64"},
		},
		{
			name: "regex and glob matches union",
			opts: DownloadOptions{
				RegexPatterns: []*regexp.Regexp{regexp.MustCompile(`darwin`)},
				GlobPatterns:  []glob.Glob{glob.MustCompile("*arm64*")},
			},
			want: []string{"foo-darwin-x64", "foo-linux-arm64"},
		},
		{
			name: "keywords are case-insensitive by default",
			opts: DownloadOptions{MatchKeywords: []string{"LINUX"}},
			want: []string{"foo-linux-x64", "foo-linux-arm64"},
		},
		{
			name: "tag selects the matching release",
			opts: DownloadOptions{Tag: "v1.0.0"},
			want: []string{"old-linux-x64"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assets, err := handler.FilterReleases(releases, tt.opts)
			if err != nil {
				t.Fatalf("FilterReleases() error = %v", err)
			}
			got := assetNames(assets)
			if len(got) != len(tt.want) {
				t.Fatalf("FilterReleases() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("FilterReleases() = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}

	t.Run("exact case keywords", func(t *testing.T) {
		_, err := handler.FilterReleases(releases, DownloadOptions{
			MatchKeywords: []string{"LINUX"},
			ExactCase:     true,
		})
		if !errors.Is(err, errors.ErrPackageNotFound) {
			t.Errorf("FilterReleases() error = %v, want ErrPackageNotFound", err)
		}
	})

	t.Run("unknown tag", func(t *testing.T) {
		_, err := handler.FilterReleases(releases, DownloadOptions{Tag: "v9.9.9"})
		if !errors.Is(err, errors.ErrPackageNotFound) {
			t.Errorf("FilterReleases() error = %v, want ErrPackageNotFound", err)
		}
	})

	t.Run("no releases", func(t *testing.T) {
		_, err := handler.FilterReleases(nil, DownloadOptions{})
		if !errors.Is(err, errors.ErrPackageNotFound) {
			t.Errorf("FilterReleases() error = %v, want ErrPackageNotFound", err)
		}
	})
}

func TestSelectAsset(t *testing.T) {
	handler := NewReleaseHandler(nil, nil)

	t.Run("single candidate is returned", func(t *testing.T) {
		assets := []Asset{fakeAsset{name: "only"}}
		got, err := handler.SelectAsset(assets, DownloadOptions{})
		if err != nil {
			t.Fatalf("SelectAsset() error = %v", err)
		}
		if got.Name() != "only" {
			t.Errorf("SelectAsset() = %q, want only", got.Name())
		}
	})

	t.Run("assume yes picks the first", func(t *testing.T) {
		assets := []Asset{fakeAsset{name: "first"}, fakeAsset{name: "second"}}
		got, err := handler.SelectAsset(assets, DownloadOptions{AssumeYes: true})
		if err != nil {
			t.Fatalf("SelectAsset() error = %v", err)
		}
		if got.Name() != "first" {
			t.Errorf("SelectAsset() = %q, want first", got.Name())
		}
	})

	t.Run("ties without a terminal are ambiguous", func(t *testing.T) {
		assets := []Asset{fakeAsset{name: "first"}, fakeAsset{name: "second"}}
		_, err := handler.SelectAsset(assets, DownloadOptions{})
		if !errors.Is(err, errors.ErrAmbiguous) {
			t.Errorf("SelectAsset() error = %v, want ErrAmbiguous", err)
		}
	})
}
