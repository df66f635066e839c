package install

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"

	"github.com/hoardpkg/hoard/internal/registry"
)

// Orchestrator fans install/remove operations out over resolved packages.
// Execution mode is configuration-driven: sequential in input order, or
// bounded-parallel through the Engine.
type Orchestrator struct {
	storage       *registry.PackageStorage
	installer     *Installer
	parallel      bool
	parallelLimit int
}

// NewOrchestrator wires the orchestrator to the catalog and installer.
func NewOrchestrator(storage *registry.PackageStorage, installer *Installer, parallel bool, parallelLimit int) *Orchestrator {
	return &Orchestrator{
		storage:       storage,
		installer:     installer,
		parallel:      parallel,
		parallelLimit: parallelLimit,
	}
}

type installJob struct {
	installer *Installer
	pkg       registry.ResolvedPackage
	force     bool
	isUpdate  bool
}

func (j *installJob) Info() string {
	return fmt.Sprintf("%s/%s/%s", j.pkg.RepoName, j.pkg.Collection, j.pkg.Package.FullName('-'))
}

func (j *installJob) Run(ctx context.Context) error {
	return j.installer.Install(ctx, j.pkg, j.force, j.isUpdate)
}

// InstallPackages resolves every name up front and fails the whole batch
// before any install begins when a name does not resolve. Individual
// install failures are isolated and counted; the aggregate succeeded/
// attempted report is printed in both execution modes.
func (o *Orchestrator) InstallPackages(ctx context.Context, names []string, force, isUpdate bool) error {
	resolved := make([]registry.ResolvedPackage, 0, len(names))
	for _, name := range names {
		rp, err := o.storage.ResolvePackage(name)
		if err != nil {
			return err
		}
		resolved = append(resolved, rp)
	}

	var succeeded int
	if o.parallel {
		jobs := make([]Job, len(resolved))
		for i, rp := range resolved {
			jobs[i] = &installJob{installer: o.installer, pkg: rp, force: force, isUpdate: isUpdate}
		}

		limit := o.parallelLimit
		if limit > len(jobs) {
			limit = len(jobs)
		}
		succeeded, _ = NewEngine(limit, jobs).Execute(ctx)
	} else {
		for _, rp := range resolved {
			if err := o.installer.Install(ctx, rp, force, isUpdate); err != nil {
				log.Error().Err(err).Str("package", rp.Package.FullName('/')).Msg("Install failed")
				continue
			}
			succeeded++
		}
	}

	pterm.Println(fmt.Sprintf("Installed %d/%d packages", succeeded, len(resolved)))
	return nil
}

// RemovePackages resolves each name independently; names that do not
// resolve are skipped with a warning. Resolved packages are removed
// sequentially and a removal failure propagates.
func (o *Orchestrator) RemovePackages(names []string) error {
	var resolved []registry.ResolvedPackage
	for _, name := range names {
		rp, err := o.storage.ResolvePackage(name)
		if err != nil {
			log.Warn().Err(err).Str("package", name).Msg("Skipping unresolved package")
			continue
		}
		resolved = append(resolved, rp)
	}

	for _, rp := range resolved {
		if err := o.installer.Remove(rp); err != nil {
			return err
		}
	}
	return nil
}
