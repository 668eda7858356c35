package pubspec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/pubcheck/internal/domain/entities"
	"github.com/rios0rios0/pubcheck/internal/domain/repositories"
)

// ManifestName is the file name every Dart package manifest carries.
const ManifestName = "pubspec.yaml"

// ErrInvalidManifest is returned when a manifest is not a YAML mapping document.
var ErrInvalidManifest = errors.New("invalid manifest")

//nolint:gochecknoglobals // fixed section keys and matcher
var (
	dependencySections = []string{"dependencies", "dev_dependencies", "dependency_overrides"}

	// numericVersionPattern matches "name: 1..." as a prefix; no end anchor.
	// Whitespace and digits are matched in their Unicode sense.
	numericVersionPattern = regexp.MustCompile(`^.*:[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]*\p{Nd}+`)
)

// PubspecManifestRepository implements repositories.ManifestRepository for
// pubspec.yaml files on the local filesystem.
type PubspecManifestRepository struct{}

// NewPubspecManifestRepository creates a new pubspec manifest repository.
func NewPubspecManifestRepository() repositories.ManifestRepository {
	return &PubspecManifestRepository{}
}

// Find walks root and returns every file named pubspec.yaml. Walk errors
// are returned to the caller unchanged.
func (r *PubspecManifestRepository) Find(ctx context.Context, root string) ([]string, error) {
	var manifests []string

	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !entry.IsDir() && entry.Name() == ManifestName {
			manifests = append(manifests, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to walk %q: %w", root, walkErr)
	}

	return manifests, nil
}

// Dependencies parses the manifest at path and returns the entries of the
// dependency sections whose rendered "name: value" form starts with a
// numeric version.
func (r *PubspecManifestRepository) Dependencies(
	ctx context.Context,
	path string,
) ([]entities.Dependency, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %q: %w", path, err)
	}

	deps, parseErr := parseDependencies(data, path)
	if parseErr != nil {
		return nil, parseErr
	}

	logger.Debugf("[pubspec] %s: %d eligible dependencies", path, len(deps))
	return deps, nil
}

// parseDependencies extracts eligible dependencies from raw manifest content.
func parseDependencies(data []byte, path string) ([]entities.Dependency, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))

	var document yaml.Node
	if err := decoder.Decode(&document); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidManifest, path, err)
	}

	var extra yaml.Node
	if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
		if err == nil {
			return nil, fmt.Errorf("%w %q: expected a single document", ErrInvalidManifest, path)
		}
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidManifest, path, err)
	}

	// empty document
	if document.Kind == 0 || len(document.Content) == 0 {
		return nil, nil
	}
	if err := flattenMappings(&document, make(map[*yaml.Node]bool)); err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidManifest, path, err)
	}

	root := resolveAlias(document.Content[0])
	if isNull(root) {
		return nil, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w %q: top level is not a mapping", ErrInvalidManifest, path)
	}

	var deps []entities.Dependency
	for _, section := range dependencySections {
		sectionNode := lookupKey(root, section)
		if sectionNode == nil || isNull(sectionNode) {
			continue
		}
		if sectionNode.Kind != yaml.MappingNode {
			return nil, fmt.Errorf(
				"%w %q: section %q is not a mapping",
				ErrInvalidManifest, path, section,
			)
		}

		for i := 0; i+1 < len(sectionNode.Content); i += 2 {
			name := renderValue(sectionNode.Content[i])
			declared := renderValue(sectionNode.Content[i+1])
			if !IsNumericVersionEntry(name + ": " + declared) {
				continue
			}
			deps = append(deps, entities.Dependency{
				Name:     name,
				Declared: declared,
				Manifest: path,
			})
		}
	}

	return deps, nil
}

// IsNumericVersionEntry returns true if entry reads as "text: <digit>...".
func IsNumericVersionEntry(entry string) bool {
	return numericVersionPattern.MatchString(entry)
}

// lookupKey returns the value node of key in a flattened mapping.
func lookupKey(mapping *yaml.Node, key string) *yaml.Node {
	var found *yaml.Node
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		keyNode := resolveAlias(mapping.Content[i])
		if keyNode.Kind == yaml.ScalarNode && keyNode.Value == key {
			found = resolveAlias(mapping.Content[i+1])
		}
	}
	return found
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null"
}
