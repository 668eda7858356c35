//go:build unit

package pubspec //nolint:testpackage // tests unexported functions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func valueNode(t *testing.T, content string) *yaml.Node {
	t.Helper()

	var document yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte("value: "+content), &document))
	return lookupKey(document.Content[0], "value")
}

func TestRenderValue(t *testing.T) {
	t.Parallel()

	t.Run("should render plain scalars bare", func(t *testing.T) {
		t.Parallel()

		// given
		cases := map[string]string{
			`1.2.3`:    "1.2.3",
			`"^2.0.0"`: "^2.0.0",
			`any`:      "any",
			`3`:        "3",
			`1.0`:      "1.0",
			`.5`:       "0.5",
			`0x1F`:     "31",
			`true`:     "True",
			`false`:    "False",
			`~`:        "None",
			`null`:     "None",
			`">=1 <2"`: ">=1 <2",
			`'1.0.0'`:  "1.0.0",
		}

		for input, expected := range cases {
			// when
			rendered := renderValue(valueNode(t, input))

			// then
			assert.Equal(t, expected, rendered, input)
		}
	})

	t.Run("should render an empty value as None", func(t *testing.T) {
		t.Parallel()

		// given
		var document yaml.Node
		require.NoError(t, yaml.Unmarshal([]byte("value:\n"), &document))

		// when
		rendered := renderValue(lookupKey(document.Content[0], "value"))

		// then
		assert.Equal(t, "None", rendered)
	})

	t.Run("should render nested mappings with quoted strings", func(t *testing.T) {
		t.Parallel()

		// given
		node := valueNode(t, `{git: {url: "https://example.com/x.git", ref: main}}`)

		// when
		rendered := renderValue(node)

		// then
		assert.Equal(t, "{'git': {'url': 'https://example.com/x.git', 'ref': 'main'}}", rendered)
	})

	t.Run("should render numbers bare inside collections", func(t *testing.T) {
		t.Parallel()

		// given
		node := valueNode(t, `{hosted: pub, version: 1}`)

		// when
		rendered := renderValue(node)

		// then
		assert.Equal(t, "{'hosted': 'pub', 'version': 1}", rendered)
	})

	t.Run("should render sequences", func(t *testing.T) {
		t.Parallel()

		// given
		node := valueNode(t, `[a, 2, null]`)

		// when
		rendered := renderValue(node)

		// then
		assert.Equal(t, "['a', 2, None]", rendered)
	})

	t.Run("should resolve aliases", func(t *testing.T) {
		t.Parallel()

		// given
		var document yaml.Node
		require.NoError(t, yaml.Unmarshal([]byte("pin: &pin 1.4.0\nvalue: *pin\n"), &document))

		// when
		rendered := renderValue(lookupKey(document.Content[0], "value"))

		// then
		assert.Equal(t, "1.4.0", rendered)
	})
}

func TestQuote(t *testing.T) {
	t.Parallel()

	t.Run("should prefer single quotes", func(t *testing.T) {
		t.Parallel()

		// given / when / then
		assert.Equal(t, "'main'", quote("main"))
	})

	t.Run("should switch to double quotes for strings with a single quote", func(t *testing.T) {
		t.Parallel()

		// given / when / then
		assert.Equal(t, `"it's"`, quote("it's"))
	})

	t.Run("should escape the delimiter when both quote kinds are present", func(t *testing.T) {
		t.Parallel()

		// given / when / then
		assert.Equal(t, `'a\'b"c'`, quote(`a'b"c`))
	})
}
