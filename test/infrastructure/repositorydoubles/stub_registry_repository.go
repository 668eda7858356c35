//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"
	"sync"

	"github.com/rios0rios0/pubcheck/internal/domain/repositories"
)

// SpyRegistryRepository implements repositories.RegistryRepository as a
// configurable spy. It is safe for concurrent lookups.
type SpyRegistryRepository struct {
	// --- identity ---
	RegistryName string

	// --- LatestVersion ---
	Versions map[string]string // name -> latest version
	Errors   map[string]error  // name -> lookup error
	// spy: names that were looked up
	LookedUp []string

	mu sync.Mutex
}

var _ repositories.RegistryRepository = (*SpyRegistryRepository)(nil)

func (s *SpyRegistryRepository) Name() string { return s.RegistryName }

func (s *SpyRegistryRepository) LatestVersion(_ context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LookedUp = append(s.LookedUp, name)

	if err, ok := s.Errors[name]; ok {
		return "", err
	}
	if version, ok := s.Versions[name]; ok {
		return version, nil
	}
	return "", fmt.Errorf("package not found: %s", name)
}

// Calls returns a copy of the looked up names.
func (s *SpyRegistryRepository) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	calls := make([]string, len(s.LookedUp))
	copy(calls, s.LookedUp)
	return calls
}

// DummyRegistryRepository is a no-op implementation of repositories.RegistryRepository.
type DummyRegistryRepository struct{}

var _ repositories.RegistryRepository = (*DummyRegistryRepository)(nil)

func (d *DummyRegistryRepository) Name() string { return "dummy" }

func (d *DummyRegistryRepository) LatestVersion(_ context.Context, _ string) (string, error) {
	return "", nil
}
