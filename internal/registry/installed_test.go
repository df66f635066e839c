package registry

import (
	"testing"
)

func resolved(repo, collection, name, variant string) ResolvedPackage {
	return ResolvedPackage{
		RepoName:   repo,
		Collection: collection,
		Package:    Package{Name: name, Variant: variant, BinName: name},
	}
}

func TestInstalledPackagesRoundTrip(t *testing.T) {
	dataDir := t.TempDir()

	ip, err := LoadInstalledPackages(dataDir)
	if err != nil {
		t.Fatalf("LoadInstalledPackages() error = %v", err)
	}

	fd := resolved("main", "bin", "fd", "musl")
	rg := resolved("main", "bin", "ripgrep", "")

	if err := ip.MarkInstalled(fd); err != nil {
		t.Fatalf("MarkInstalled() error = %v", err)
	}
	if err := ip.MarkInstalled(rg); err != nil {
		t.Fatalf("MarkInstalled() error = %v", err)
	}

	// A fresh load must see both records.
	reloaded, err := LoadInstalledPackages(dataDir)
	if err != nil {
		t.Fatalf("LoadInstalledPackages() reload error = %v", err)
	}
	if got := len(reloaded.List()); got != 2 {
		t.Fatalf("reloaded %d records, want 2", got)
	}
	if !reloaded.IsInstalled(fd) || !reloaded.IsInstalled(rg) {
		t.Error("reloaded record misses installed packages")
	}
}

func TestMarkInstalledReplacesSameIdentity(t *testing.T) {
	ip, err := LoadInstalledPackages(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	rp := resolved("main", "bin", "fd", "musl")
	rp.Package.Version = "1.0.0"
	if err := ip.MarkInstalled(rp); err != nil {
		t.Fatal(err)
	}

	rp.Package.Version = "2.0.0"
	if err := ip.MarkInstalled(rp); err != nil {
		t.Fatal(err)
	}

	records := ip.List()
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Version != "2.0.0" {
		t.Errorf("Version = %q, want 2.0.0", records[0].Version)
	}
}

func TestVariantsAreDistinctIdentities(t *testing.T) {
	ip, err := LoadInstalledPackages(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	musl := resolved("main", "bin", "fd", "musl")
	glibc := resolved("main", "bin", "fd", "glibc")

	if err := ip.MarkInstalled(musl); err != nil {
		t.Fatal(err)
	}
	if err := ip.MarkInstalled(glibc); err != nil {
		t.Fatal(err)
	}
	if got := len(ip.List()); got != 2 {
		t.Fatalf("got %d records, want 2", got)
	}

	if err := ip.MarkRemoved(musl); err != nil {
		t.Fatal(err)
	}
	if ip.IsInstalled(musl) {
		t.Error("musl variant still installed after removal")
	}
	if !ip.IsInstalled(glibc) {
		t.Error("glibc variant must survive removal of musl")
	}
}
