package repositories

import (
	"context"

	"github.com/rios0rios0/pubcheck/internal/domain/entities"
)

// ManifestRepository abstracts where dependency manifests live and how they are read.
type ManifestRepository interface {
	// Find returns the path of every manifest under root.
	Find(ctx context.Context, root string) ([]string, error)

	// Dependencies parses the manifest at path and returns the dependencies
	// whose declared version is a plain numeric pin.
	Dependencies(ctx context.Context, path string) ([]entities.Dependency, error)
}
