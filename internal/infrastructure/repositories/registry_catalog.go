package repositories

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rios0rios0/pubcheck/internal/domain/entities"
	domainRepos "github.com/rios0rios0/pubcheck/internal/domain/repositories"
)

// RegistryFactory is a constructor function that creates a RegistryRepository from run settings.
type RegistryFactory func(settings *entities.Settings) domainRepos.RegistryRepository

// RegistryCatalog manages all registered package registry implementations.
type RegistryCatalog struct {
	factories map[string]RegistryFactory
}

// NewRegistryCatalog creates an empty registry catalog.
func NewRegistryCatalog() *RegistryCatalog {
	return &RegistryCatalog{
		factories: make(map[string]RegistryFactory),
	}
}

// Register adds a registry factory under the given name (e.g. "pub.dev").
func (c *RegistryCatalog) Register(name string, factory RegistryFactory) {
	c.factories[name] = factory
}

// Get returns a configured registry instance for the given name and settings.
func (c *RegistryCatalog) Get(
	name string,
	settings *entities.Settings,
) (domainRepos.RegistryRepository, error) {
	factory, ok := c.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown registry: %q (known: %s)", name, strings.Join(c.Names(), ", "))
	}
	return factory(settings), nil
}

// Names returns the sorted list of registered registry names.
func (c *RegistryCatalog) Names() []string {
	names := make([]string, 0, len(c.factories))
	for name := range c.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
