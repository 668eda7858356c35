package repositories

import "context"

// RegistryRepository abstracts a package registry that publishes version listings.
type RegistryRepository interface {
	// Name returns the registry identifier (e.g. "pub.dev").
	Name() string

	// LatestVersion returns the newest published version of the named package.
	LatestVersion(ctx context.Context, name string) (string, error)
}
