package registry

import (
	"sort"
	"strings"
	"sync"

	"github.com/hoardpkg/hoard/util/common/errors"
)

// VariantSelector disambiguates between multiple matching packages, usually
// by prompting. It receives at least two candidates.
type VariantSelector func(candidates []ResolvedPackage) (ResolvedPackage, error)

// PackageStorage is the queryable catalog of every known package. It is
// built once per invocation by loading all configured repositories and is
// read-only afterwards; resolve/search/list may run concurrently.
type PackageStorage struct {
	mu           sync.RWMutex
	repositories map[string]RepositoryPackages
	selectOne    VariantSelector
}

// NewPackageStorage creates an empty catalog. A nil selector turns every
// ambiguous resolution into ErrAmbiguous, which is the right behaviour for
// non-interactive callers.
func NewPackageStorage(selector VariantSelector) *PackageStorage {
	return &PackageStorage{
		repositories: make(map[string]RepositoryPackages),
		selectOne:    selector,
	}
}

// AddRepository inserts or overwrites one repository's package data.
func (s *PackageStorage) AddRepository(repoName string, packages RepositoryPackages) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repositories[repoName] = packages
}

// ResolvePackage turns a raw query string into exactly one package.
// Zero matches fail with ErrPackageNotFound; multiple matches go through
// the variant selector.
func (s *PackageStorage) ResolvePackage(input string) (ResolvedPackage, error) {
	query := ParsePackageQuery(input)

	packages, ok := s.GetPackages(query)
	if !ok {
		return ResolvedPackage{}, errors.NewPackageError("resolve", input, "", errors.ErrPackageNotFound)
	}

	if len(packages) == 1 {
		return packages[0], nil
	}

	if s.selectOne == nil {
		return ResolvedPackage{}, errors.NewPackageError("resolve", input, "", errors.ErrAmbiguous)
	}
	return s.selectOne(packages)
}

// GetPackages returns every package whose name exactly equals the query
// name (after trimming) and whose repository/collection/variant match the
// query's qualifiers when specified. The second return value is false when
// nothing matched, so callers can distinguish "no result" from an empty
// slice.
func (s *PackageStorage) GetPackages(query PackageQuery) ([]ResolvedPackage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pkgName := strings.TrimSpace(query.Name)

	var resolved []ResolvedPackage
	for _, repoName := range s.sortedRepoNames() {
		if query.Repository != "" && query.Repository != repoName {
			continue
		}
		packages := s.repositories[repoName]
		for _, collectionName := range sortedKeys(packages.Collection) {
			if query.Collection != "" && query.Collection != collectionName {
				continue
			}
			for _, pkg := range packages.Collection[collectionName][pkgName] {
				if pkg.Name != pkgName {
					continue
				}
				if query.Variant != "" && pkg.Variant != query.Variant {
					continue
				}
				resolved = append(resolved, ResolvedPackage{
					RepoName:   repoName,
					Collection: collectionName,
					Package:    pkg,
				})
			}
		}
	}

	if len(resolved) == 0 {
		return nil, false
	}
	return resolved, true
}

// ListPackages flattens every repository into one slice, optionally
// restricted to a single collection name. No dedup is performed.
func (s *PackageStorage) ListPackages(collection string) []ResolvedPackage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var resolved []ResolvedPackage
	for _, repoName := range s.sortedRepoNames() {
		packages := s.repositories[repoName]
		for _, collectionName := range sortedKeys(packages.Collection) {
			if collection != "" && collection != collectionName {
				continue
			}
			byName := packages.Collection[collectionName]
			for _, pkgName := range sortedKeys(byName) {
				for _, pkg := range byName[pkgName] {
					resolved = append(resolved, ResolvedPackage{
						RepoName:   repoName,
						Collection: collectionName,
						Package:    pkg,
					})
				}
			}
		}
	}
	return resolved
}

// Search scores every package against the query name: 2 for an exact match,
// 1 for substring containment, 0 excluded. A variant qualifier in the query
// is a hard filter on top of the score. Results come back ordered by
// descending score with encounter order preserved on ties. Case sensitivity
// affects only the name comparison.
func (s *PackageStorage) Search(input string, caseSensitive bool) []ResolvedPackage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := ParsePackageQuery(input)
	pkgName := strings.TrimSpace(query.Name)
	if !caseSensitive {
		pkgName = strings.ToLower(pkgName)
	}

	type scored struct {
		score int
		pkg   ResolvedPackage
	}
	var matches []scored

	for _, repoName := range s.sortedRepoNames() {
		packages := s.repositories[repoName]
		for _, collectionName := range sortedKeys(packages.Collection) {
			byName := packages.Collection[collectionName]
			for _, name := range sortedKeys(byName) {
				for _, pkg := range byName[name] {
					foundName := pkg.Name
					if !caseSensitive {
						foundName = strings.ToLower(foundName)
					}

					score := 0
					switch {
					case foundName == pkgName:
						score = 2
					case strings.Contains(foundName, pkgName):
						score = 1
					default:
						continue
					}
					if query.Variant != "" && pkg.Variant != query.Variant {
						continue
					}
					matches = append(matches, scored{
						score: score,
						pkg: ResolvedPackage{
							RepoName:   repoName,
							Collection: collectionName,
							Package:    pkg,
						},
					})
				}
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	resolved := make([]ResolvedPackage, 0, len(matches))
	for _, m := range matches {
		resolved = append(resolved, m.pkg)
	}
	return resolved
}

// sortedRepoNames keeps iteration deterministic so tie order and listings
// are stable across runs.
func (s *PackageStorage) sortedRepoNames() []string {
	names := make([]string, 0, len(s.repositories))
	for name := range s.repositories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
