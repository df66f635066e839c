// Package registry owns the in-memory package catalog merged from every
// configured repository, and the query logic that turns user input into
// concrete package records.
package registry

import "strings"

// Package is a single installable artifact as described by a repository
// index. Identity within a collection is (Name, Variant).
type Package struct {
	Name        string `json:"name"`
	Variant     string `json:"variant,omitempty"`
	BinName     string `json:"bin_name"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version,omitempty"`
	SizeBytes   int64  `json:"size_bytes,omitempty"`
	DownloadURL string `json:"download_url"`
	BuildLog    string `json:"build_log,omitempty"`
}

// FullName returns the variant-qualified name, e.g. "musl/ripgrep" for
// sep '/'. Repositories lay out artifacts under this path.
func (p Package) FullName(sep rune) string {
	if p.Variant == "" {
		return p.Name
	}
	return p.Variant + string(sep) + p.Name
}

// RepositoryPackages maps collection name -> package name -> package
// records. Multiple records per name represent variants or historical
// duplicates.
type RepositoryPackages struct {
	Collection map[string]map[string][]Package `json:"collection"`
}

// PackageQuery is the parsed form of user input addressing a package.
// Empty qualifier fields mean "unspecified".
type PackageQuery struct {
	Name       string
	Repository string
	Collection string
	Variant    string
}

// ResolvedPackage is a fully qualified (repository, collection, package)
// triple, the unit passed to install/remove/run. It is an independent
// snapshot; mutating it never affects the registry.
type ResolvedPackage struct {
	RepoName   string  `json:"repo_name"`
	Collection string  `json:"collection"`
	Package    Package `json:"package"`
}

// ParsePackageQuery parses the compact query syntax
//
//	[repository/]name[@variant][#collection]
//
// Qualifiers may appear in any combination; whitespace around tokens is
// ignored. An empty qualifier (trailing separator) counts as unspecified.
func ParsePackageQuery(input string) PackageQuery {
	var query PackageQuery

	rest := strings.TrimSpace(input)

	if idx := strings.LastIndex(rest, "#"); idx != -1 {
		query.Collection = strings.TrimSpace(rest[idx+1:])
		rest = rest[:idx]
	}
	if idx := strings.LastIndex(rest, "@"); idx != -1 {
		query.Variant = strings.TrimSpace(rest[idx+1:])
		rest = rest[:idx]
	}
	if idx := strings.Index(rest, "/"); idx != -1 {
		query.Repository = strings.TrimSpace(rest[:idx])
		rest = rest[idx+1:]
	}

	query.Name = strings.TrimSpace(rest)
	return query
}
