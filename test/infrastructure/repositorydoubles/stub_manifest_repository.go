//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. These are hand-crafted implementations, no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/rios0rios0/pubcheck/internal/domain/entities"
	"github.com/rios0rios0/pubcheck/internal/domain/repositories"
)

// SpyManifestRepository implements repositories.ManifestRepository as a configurable spy.
type SpyManifestRepository struct {
	// --- Find ---
	Paths   []string
	FindErr error
	// spy: roots that were walked
	FoundRoots []string

	// --- Dependencies ---
	DependenciesByPath map[string][]entities.Dependency
	DependenciesErr    error
	// spy: manifests that were parsed
	ParsedPaths []string

	mu sync.Mutex
}

var _ repositories.ManifestRepository = (*SpyManifestRepository)(nil)

func (s *SpyManifestRepository) Find(_ context.Context, root string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FoundRoots = append(s.FoundRoots, root)
	return s.Paths, s.FindErr
}

func (s *SpyManifestRepository) Dependencies(
	_ context.Context,
	path string,
) ([]entities.Dependency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ParsedPaths = append(s.ParsedPaths, path)
	if s.DependenciesErr != nil {
		return nil, s.DependenciesErr
	}
	return s.DependenciesByPath[path], nil
}
