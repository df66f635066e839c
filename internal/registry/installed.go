package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hoardpkg/hoard/util/common/errors"
)

// InstalledPackage is one record in the installed-packages file.
type InstalledPackage struct {
	RepoName    string    `json:"repo_name"`
	Collection  string    `json:"collection"`
	Name        string    `json:"name"`
	Variant     string    `json:"variant,omitempty"`
	BinName     string    `json:"bin_name"`
	Version     string    `json:"version,omitempty"`
	InstalledAt time.Time `json:"installed_at"`
}

// InstalledPackages is the shared record of what is on disk. Concurrent
// install tasks serialize their writes through the mutex; critical sections
// stay short and are never held across I/O to the network.
type InstalledPackages struct {
	mu       sync.Mutex
	path     string
	packages []InstalledPackage
}

// LoadInstalledPackages reads the record from dataDir, starting empty when
// the file does not exist yet.
func LoadInstalledPackages(dataDir string) (*InstalledPackages, error) {
	path := filepath.Join(dataDir, "installed.json")

	ip := &InstalledPackages{path: path}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return ip, nil
	}
	if err != nil {
		return nil, errors.NewFileError(path, "read", err)
	}
	if err := json.Unmarshal(data, &ip.packages); err != nil {
		return nil, errors.NewParseError(path, err.Error())
	}
	return ip, nil
}

// MarkInstalled records rp as installed, replacing any previous record with
// the same identity, and persists the file.
func (ip *InstalledPackages) MarkInstalled(rp ResolvedPackage) error {
	ip.mu.Lock()
	defer ip.mu.Unlock()

	ip.removeLocked(rp)
	ip.packages = append(ip.packages, InstalledPackage{
		RepoName:    rp.RepoName,
		Collection:  rp.Collection,
		Name:        rp.Package.Name,
		Variant:     rp.Package.Variant,
		BinName:     rp.Package.BinName,
		Version:     rp.Package.Version,
		InstalledAt: time.Now().UTC(),
	})
	return ip.saveLocked()
}

// MarkRemoved drops rp's record and persists the file.
func (ip *InstalledPackages) MarkRemoved(rp ResolvedPackage) error {
	ip.mu.Lock()
	defer ip.mu.Unlock()

	ip.removeLocked(rp)
	return ip.saveLocked()
}

// IsInstalled reports whether a record with rp's identity exists.
func (ip *InstalledPackages) IsInstalled(rp ResolvedPackage) bool {
	ip.mu.Lock()
	defer ip.mu.Unlock()

	for _, p := range ip.packages {
		if ip.sameIdentity(p, rp) {
			return true
		}
	}
	return false
}

// List returns a snapshot of all records.
func (ip *InstalledPackages) List() []InstalledPackage {
	ip.mu.Lock()
	defer ip.mu.Unlock()

	out := make([]InstalledPackage, len(ip.packages))
	copy(out, ip.packages)
	return out
}

func (ip *InstalledPackages) sameIdentity(p InstalledPackage, rp ResolvedPackage) bool {
	return p.RepoName == rp.RepoName &&
		p.Collection == rp.Collection &&
		p.Name == rp.Package.Name &&
		p.Variant == rp.Package.Variant
}

func (ip *InstalledPackages) removeLocked(rp ResolvedPackage) {
	kept := ip.packages[:0]
	for _, p := range ip.packages {
		if !ip.sameIdentity(p, rp) {
			kept = append(kept, p)
		}
	}
	ip.packages = kept
}

func (ip *InstalledPackages) saveLocked() error {
	if err := os.MkdirAll(filepath.Dir(ip.path), 0o755); err != nil {
		return errors.NewFileError(ip.path, "mkdir", err)
	}
	data, err := json.MarshalIndent(ip.packages, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(ip.path, data, 0o644); err != nil {
		return errors.NewFileError(ip.path, "write", err)
	}
	return nil
}
