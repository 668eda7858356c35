package repositories

import (
	"go.uber.org/dig"

	domainRepos "github.com/rios0rios0/pubcheck/internal/domain/repositories"
	pubdevRepo "github.com/rios0rios0/pubcheck/internal/infrastructure/repositories/pubdev"
	pubspecRepo "github.com/rios0rios0/pubcheck/internal/infrastructure/repositories/pubspec"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register registry catalog with all registry factories
	if err := container.Provide(func() *RegistryCatalog {
		catalog := NewRegistryCatalog()
		catalog.Register("pub.dev", pubdevRepo.NewPubDevRegistryRepository)
		return catalog
	}); err != nil {
		return err
	}

	if err := container.Provide(func() domainRepos.ManifestRepository {
		return pubspecRepo.NewPubspecManifestRepository()
	}); err != nil {
		return err
	}

	return nil
}
