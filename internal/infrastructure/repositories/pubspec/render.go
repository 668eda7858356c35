package pubspec

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// renderValue renders a YAML node the way the text form of its loaded value
// reads: scalars bare, null as None, booleans capitalized, and collections
// in {'key': 'value'} / ['item'] notation with quoted strings.
func renderValue(node *yaml.Node) string {
	var sb strings.Builder
	writeNode(&sb, resolveAlias(node), false)
	return sb.String()
}

func writeNode(sb *strings.Builder, node *yaml.Node, nested bool) {
	if node == nil {
		sb.WriteString("None")
		return
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			sb.WriteString("None")
			return
		}
		writeNode(sb, resolveAlias(node.Content[0]), nested)
	case yaml.MappingNode:
		sb.WriteByte('{')
		for i := 0; i+1 < len(node.Content); i += 2 {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeNode(sb, resolveAlias(node.Content[i]), true)
			sb.WriteString(": ")
			writeNode(sb, resolveAlias(node.Content[i+1]), true)
		}
		sb.WriteByte('}')
	case yaml.SequenceNode:
		sb.WriteByte('[')
		for i, item := range node.Content {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeNode(sb, resolveAlias(item), true)
		}
		sb.WriteByte(']')
	case yaml.ScalarNode:
		sb.WriteString(renderScalar(node, nested))
	default:
		sb.WriteString(node.Value)
	}
}

func renderScalar(node *yaml.Node, nested bool) string {
	switch node.ShortTag() {
	case "!!null":
		return "None"
	case "!!bool":
		if parsed, err := strconv.ParseBool(strings.ToLower(node.Value)); err == nil && parsed {
			return "True"
		}
		return "False"
	case "!!int":
		return renderInt(node.Value)
	case "!!float":
		return renderFloat(node.Value)
	case "!!str":
		if nested {
			return quote(node.Value)
		}
		return node.Value
	default:
		return node.Value
	}
}

func renderInt(raw string) string {
	cleaned := strings.ReplaceAll(raw, "_", "")
	if parsed, err := strconv.ParseInt(cleaned, 0, 64); err == nil {
		return strconv.FormatInt(parsed, 10)
	}
	return raw
}

func renderFloat(raw string) string {
	cleaned := strings.ReplaceAll(raw, "_", "")
	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return raw
	}

	rendered := strconv.FormatFloat(parsed, 'f', -1, 64)
	if !strings.ContainsAny(rendered, ".eE") {
		rendered += ".0"
	}
	return rendered
}

// quote wraps s in single quotes, switching to double quotes when s holds a
// single quote but no double quote.
func quote(s string) string {
	delimiter := "'"
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		delimiter = `"`
	}

	var sb strings.Builder
	sb.WriteString(delimiter)
	for _, r := range s {
		switch {
		case r == '\\':
			sb.WriteString(`\\`)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\t':
			sb.WriteString(`\t`)
		case string(r) == delimiter:
			sb.WriteString(`\` + delimiter)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteString(delimiter)
	return sb.String()
}
