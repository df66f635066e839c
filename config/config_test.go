package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
repositories:
  - name: main
    metadataUrl: https://example.com/index.json
    sources:
      bin: https://example.com/bin
      pkg: https://example.com/pkg
parallel: true
parallelLimit: 8
cacheDir: /tmp/hoard-cache
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Repositories) != 1 || cfg.Repositories[0].Name != "main" {
		t.Errorf("Repositories = %+v", cfg.Repositories)
	}
	if got := cfg.Repositories[0].Sources["pkg"]; got != "https://example.com/pkg" {
		t.Errorf("pkg source = %q", got)
	}
	if !cfg.Parallel || cfg.ParallelLimit != 8 {
		t.Errorf("parallel settings = %v/%d, want true/8", cfg.Parallel, cfg.ParallelLimit)
	}
	if cfg.CacheDir != "/tmp/hoard-cache" {
		t.Errorf("CacheDir = %q", cfg.CacheDir)
	}
	if cfg.BinDir == "" || cfg.DataDir == "" {
		t.Error("unset directories must receive defaults")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Repositories) == 0 {
		t.Error("default config must include a repository")
	}
	if cfg.ParallelLimit != DefaultParallelLimit {
		t.Errorf("ParallelLimit = %d, want %d", cfg.ParallelLimit, DefaultParallelLimit)
	}
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("HOARD_TEST_BASE", "https://mirror.example.com")

	path := writeConfig(t, `
repositories:
  - name: main
    metadataUrl: ${HOARD_TEST_BASE}/index.json
    sources:
      bin: ${HOARD_TEST_BASE}/bin
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := cfg.Repositories[0].MetadataURL; got != "https://mirror.example.com/index.json" {
		t.Errorf("MetadataURL = %q", got)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "no repositories",
			content: "parallel: true\n",
		},
		{
			name: "unnamed repository",
			content: `
repositories:
  - metadataUrl: https://example.com/index.json
    sources:
      bin: https://example.com/bin
`,
		},
		{
			name: "duplicate repository names",
			content: `
repositories:
  - name: main
    sources:
      bin: https://a.example.com/bin
  - name: main
    sources:
      bin: https://b.example.com/bin
`,
		},
		{
			name: "repository without sources",
			content: `
repositories:
  - name: main
    metadataUrl: https://example.com/index.json
`,
		},
		{
			name:    "malformed yaml",
			content: "repositories: [unclosed\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("Load() expected error")
			}
		})
	}
}
