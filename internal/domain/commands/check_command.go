package commands

import (
	"context"
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rios0rios0/pubcheck/internal/domain/entities"
	"github.com/rios0rios0/pubcheck/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/pubcheck/internal/infrastructure/repositories"
)

// Check is the interface for the check command.
type Check interface {
	Execute(ctx context.Context, settings *entities.Settings, opts CheckOptions) (*entities.Report, error)
}

// CheckOptions holds runtime options for a single check.
type CheckOptions struct {
	Root    string // If set, overrides the root from settings (CLI argument)
	Verbose bool
}

// CheckCommand orchestrates the full check flow:
// locate manifests -> extract dependencies -> look up latest versions.
type CheckCommand struct {
	manifestRepository repositories.ManifestRepository
	registryCatalog    *infraRepos.RegistryCatalog
}

// NewCheckCommand creates a new CheckCommand with the given repositories.
func NewCheckCommand(
	manifestRepository repositories.ManifestRepository,
	registryCatalog *infraRepos.RegistryCatalog,
) *CheckCommand {
	return &CheckCommand{
		manifestRepository: manifestRepository,
		registryCatalog:    registryCatalog,
	}
}

// Execute runs one check and returns the report. Locating or parsing a
// manifest aborts the run; failed lookups are recorded in the report.
func (it *CheckCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts CheckOptions,
) (*entities.Report, error) {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}
	if settings == nil {
		settings = entities.DefaultSettings()
	}

	root := settings.Root
	if opts.Root != "" {
		root = opts.Root
	}

	registry, err := it.registryCatalog.Get(settings.Registry, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize registry: %w", err)
	}

	paths, err := it.manifestRepository.Find(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("failed to locate manifests: %w", err)
	}
	logger.Infof("Found %d manifests under %q", len(paths), root)

	dependencies, err := CollectDependencies(ctx, it.manifestRepository, paths)
	if err != nil {
		return nil, err
	}
	logger.Infof("Looking up %d dependencies on %s", dependencies.Len(), registry.Name())

	results := FetchLatestVersions(ctx, registry, dependencies, settings.Concurrency)
	report := entities.NewReport(results)

	for _, outdated := range report.Outdated() {
		logger.Debugf("%s is outdated: declared %s, latest %s", outdated.Name, outdated.Declared, outdated.Version)
	}

	logger.Infof(
		"Check complete: %d dependencies, %d resolved, %d outdated, %d failed",
		dependencies.Len(), len(report.Resolved), len(report.Outdated()), len(report.Failed),
	)
	return report, nil
}

// CollectDependencies extracts the dependencies of every manifest into one
// set. The first manifest to declare a name wins.
func CollectDependencies(
	ctx context.Context,
	manifestRepository repositories.ManifestRepository,
	paths []string,
) (*entities.DependencySet, error) {
	dependencies := entities.NewDependencySet()

	for _, path := range paths {
		deps, err := manifestRepository.Dependencies(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to extract dependencies: %w", err)
		}
		for _, dep := range deps {
			if !dependencies.Add(dep) {
				kept, _ := dependencies.Get(dep.Name)
				logger.Debugf("[pubspec] %s also declared in %s, keeping %s from %s",
					dep.Name, dep.Manifest, kept.Declared, kept.Manifest)
			}
		}
	}

	return dependencies, nil
}

// FetchLatestVersions looks up every dependency concurrently and waits for
// all lookups to finish. A concurrency of zero launches every lookup at once.
// Results keep the order of the set.
func FetchLatestVersions(
	ctx context.Context,
	registry repositories.RegistryRepository,
	dependencies *entities.DependencySet,
	concurrency int,
) []entities.VersionResult {
	deps := dependencies.All()
	results := make([]entities.VersionResult, len(deps))

	var group errgroup.Group
	if concurrency > 0 {
		group.SetLimit(concurrency)
	}

	for i, dep := range deps {
		i, dep := i, dep
		group.Go(func() error {
			results[i] = lookup(ctx, registry, dep)
			return nil
		})
	}
	_ = group.Wait() // lookups report failures through their results

	return results
}

func lookup(
	ctx context.Context,
	registry repositories.RegistryRepository,
	dep entities.Dependency,
) entities.VersionResult {
	result := entities.VersionResult{Name: dep.Name, Declared: dep.Declared}

	version, err := registry.LatestVersion(ctx, dep.Name)
	switch {
	case err != nil:
		result.Err = err
	case version == "":
		result.Err = errors.New("empty version")
	default:
		result.Version = version
		logger.Debugf("[%s] %s -> %s", registry.Name(), dep.Name, version)
		return result
	}

	logger.Warnf("[%s] Failed to resolve %q: %v", registry.Name(), dep.Name, result.Err)
	return result
}
