//go:build unit

package pubspec_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/pubcheck/internal/domain/entities"
	"github.com/rios0rios0/pubcheck/internal/infrastructure/repositories/pubspec"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func names(deps []entities.Dependency) []string {
	result := make([]string, 0, len(deps))
	for _, dep := range deps {
		result = append(result, dep.Name)
	}
	return result
}

func TestPubspecManifestRepositoryFind(t *testing.T) {
	t.Parallel()

	t.Run("should find every pubspec.yaml regardless of depth", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		expected := []string{
			filepath.Join(root, "pubspec.yaml"),
			filepath.Join(root, "packages", "core", "pubspec.yaml"),
			filepath.Join(root, "build", "deep", "nested", "tree", "pubspec.yaml"),
		}
		for _, path := range expected {
			writeFile(t, path, "name: test\n")
		}
		writeFile(t, filepath.Join(root, "pubspec.lock"), "")
		writeFile(t, filepath.Join(root, "packages", "core", "pubspec.yml"), "")
		writeFile(t, filepath.Join(root, "packages", "core", "my_pubspec.yaml"), "")
		require.NoError(t, os.MkdirAll(filepath.Join(root, "pubspec.yaml.d"), 0o755))
		repo := pubspec.NewPubspecManifestRepository()

		// when
		found, err := repo.Find(context.Background(), root)

		// then
		require.NoError(t, err)
		assert.ElementsMatch(t, expected, found)
	})

	t.Run("should not report a directory named pubspec.yaml", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "pubspec.yaml"), 0o755))
		repo := pubspec.NewPubspecManifestRepository()

		// when
		found, err := repo.Find(context.Background(), root)

		// then
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("should return error when root does not exist", func(t *testing.T) {
		t.Parallel()

		// given
		root := filepath.Join(t.TempDir(), "missing")
		repo := pubspec.NewPubspecManifestRepository()

		// when
		found, err := repo.Find(context.Background(), root)

		// then
		require.Error(t, err)
		assert.Nil(t, found)
		assert.Contains(t, err.Error(), "failed to walk")
	})

	t.Run("should stop when the context is cancelled", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "pubspec.yaml"), "name: test\n")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		repo := pubspec.NewPubspecManifestRepository()

		// when
		_, err := repo.Find(ctx, root)

		// then
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestPubspecManifestRepositoryDependencies(t *testing.T) {
	t.Parallel()

	t.Run("should keep numeric pins and drop nested and caret specifiers", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "pubspec.yaml")
		writeFile(t, path, `
name: app
dependencies:
  foo: 1.2.3
  bar:
    git:
      url: "https://github.com/example/bar.git"
  baz: "^2.0.0"
`)
		repo := pubspec.NewPubspecManifestRepository()

		// when
		deps, err := repo.Dependencies(context.Background(), path)

		// then
		require.NoError(t, err)
		require.Len(t, deps, 1)
		assert.Equal(t, "foo", deps[0].Name)
		assert.Equal(t, "1.2.3", deps[0].Declared)
		assert.Equal(t, path, deps[0].Manifest)
	})

	t.Run("should read all three dependency sections", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "pubspec.yaml")
		writeFile(t, path, `
name: app
environment:
  sdk: 3.0.0
dependencies:
  http: 1.1.0
  flutter:
    sdk: flutter
dev_dependencies:
  lints: 2.1.1
  test: any
dependency_overrides:
  meta: 1.9.1
`)
		repo := pubspec.NewPubspecManifestRepository()

		// when
		deps, err := repo.Dependencies(context.Background(), path)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"http", "lints", "meta"}, names(deps))
	})

	t.Run("should skip absent and empty sections", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "pubspec.yaml")
		writeFile(t, path, "name: app\ndev_dependencies:\n")
		repo := pubspec.NewPubspecManifestRepository()

		// when
		deps, err := repo.Dependencies(context.Background(), path)

		// then
		require.NoError(t, err)
		assert.Empty(t, deps)
	})

	t.Run("should return no dependencies for an empty file", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "pubspec.yaml")
		writeFile(t, path, "")
		repo := pubspec.NewPubspecManifestRepository()

		// when
		deps, err := repo.Dependencies(context.Background(), path)

		// then
		require.NoError(t, err)
		assert.Empty(t, deps)
	})

	t.Run("should fail on malformed YAML", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "pubspec.yaml")
		writeFile(t, path, "dependencies:\n  foo: [1.0.0\n")
		repo := pubspec.NewPubspecManifestRepository()

		// when
		_, err := repo.Dependencies(context.Background(), path)

		// then
		require.Error(t, err)
		assert.True(t, errors.Is(err, pubspec.ErrInvalidManifest))
	})

	t.Run("should fail when a section is not a mapping", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "pubspec.yaml")
		writeFile(t, path, "dependencies:\n  - foo\n")
		repo := pubspec.NewPubspecManifestRepository()

		// when
		_, err := repo.Dependencies(context.Background(), path)

		// then
		require.ErrorIs(t, err, pubspec.ErrInvalidManifest)
		assert.Contains(t, err.Error(), `section "dependencies"`)
	})

	t.Run("should fail when the document is not a mapping", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "pubspec.yaml")
		writeFile(t, path, "- just\n- a list\n")
		repo := pubspec.NewPubspecManifestRepository()

		// when
		_, err := repo.Dependencies(context.Background(), path)

		// then
		require.ErrorIs(t, err, pubspec.ErrInvalidManifest)
	})

	t.Run("should extract entries pulled in through a merge key", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "pubspec.yaml")
		writeFile(t, path, `
shared: &shared
  foo: 1.0.0
  bar: 2.0.0
dependencies:
  <<: *shared
  bar: 2.1.0
  baz: 3.0.0
`)
		repo := pubspec.NewPubspecManifestRepository()

		// when
		deps, err := repo.Dependencies(context.Background(), path)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"foo", "bar", "baz"}, names(deps))
		assert.Equal(t, "2.1.0", deps[1].Declared)
	})

	t.Run("should report a repeated name once with its last value", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "pubspec.yaml")
		writeFile(t, path, "dependencies:\n  foo: 1.0.0\n  http: 1.1.0\n  foo: 1.2.0\n")
		repo := pubspec.NewPubspecManifestRepository()

		// when
		deps, err := repo.Dependencies(context.Background(), path)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"foo", "http"}, names(deps))
		assert.Equal(t, "1.2.0", deps[0].Declared)
	})

	t.Run("should fail on an invalid merge value", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "pubspec.yaml")
		writeFile(t, path, "dependencies:\n  <<: 1.0.0\n")
		repo := pubspec.NewPubspecManifestRepository()

		// when
		_, err := repo.Dependencies(context.Background(), path)

		// then
		require.ErrorIs(t, err, pubspec.ErrInvalidManifest)
	})

	t.Run("should fail on a manifest with several documents", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "pubspec.yaml")
		writeFile(t, path, "dependencies:\n  foo: 1.0.0\n---\nother: 1\n")
		repo := pubspec.NewPubspecManifestRepository()

		// when
		deps, err := repo.Dependencies(context.Background(), path)

		// then
		require.ErrorIs(t, err, pubspec.ErrInvalidManifest)
		assert.Contains(t, err.Error(), "expected a single document")
		assert.Nil(t, deps)
	})

	t.Run("should return no dependencies for an explicitly empty document", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "pubspec.yaml")
		writeFile(t, path, "---\n# nothing yet\n")
		repo := pubspec.NewPubspecManifestRepository()

		// when
		deps, err := repo.Dependencies(context.Background(), path)

		// then
		require.NoError(t, err)
		assert.Empty(t, deps)
	})

	t.Run("should return error for missing file", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "pubspec.yaml")
		repo := pubspec.NewPubspecManifestRepository()

		// when
		_, err := repo.Dependencies(context.Background(), path)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read manifest")
	})
}

func TestIsNumericVersionEntry(t *testing.T) {
	t.Parallel()

	t.Run("should match entries with a digit right after the colon", func(t *testing.T) {
		t.Parallel()

		// given
		entries := []string{"foo: 1.2.3", "foo:1", "foo:   42", "foo: 1.0.0-dev.1", "foo: 0"}

		// when / then
		for _, entry := range entries {
			assert.True(t, pubspec.IsNumericVersionEntry(entry), entry)
		}
	})

	t.Run("should not match ranges, keywords or nested values", func(t *testing.T) {
		t.Parallel()

		// given
		entries := []string{
			"baz: ^2.0.0",
			"baz: >=1.0.0 <2.0.0",
			"baz: any",
			"baz: None",
			"baz: {'path': '../baz'}",
			"baz",
		}

		// when / then
		for _, entry := range entries {
			assert.False(t, pubspec.IsNumericVersionEntry(entry), entry)
		}
	})

	t.Run("should match Unicode whitespace and digits", func(t *testing.T) {
		t.Parallel()

		// given
		entries := []string{"foo: \u0661.0", "foo:\u00a01.0", "foo:\u30001", "foo:\v1", "foo:\u20282"}

		// when / then
		for _, entry := range entries {
			assert.True(t, pubspec.IsNumericVersionEntry(entry), entry)
		}
	})

	t.Run("should match a digit after any colon since the end is not anchored", func(t *testing.T) {
		t.Parallel()

		// given
		entry := "baz: {'git': 'ssh://git@example.com:2222/baz.git'}"

		// when / then
		assert.True(t, pubspec.IsNumericVersionEntry(entry))
	})
}
