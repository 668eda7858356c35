package pubspec

import (
	"errors"
	"strings"

	"gopkg.in/yaml.v3"
)

var errInvalidMerge = errors.New("expected a mapping or list of mappings for merging")

// flattenMappings rewrites every mapping reachable from node so it holds the
// pairs of its loaded value: "<<" merge keys are expanded, merged entries come
// first and explicit keys override them, and a repeated key keeps its first
// position with its last value.
func flattenMappings(node *yaml.Node, visited map[*yaml.Node]bool) error {
	if node == nil || visited[node] {
		return nil
	}
	visited[node] = true

	switch node.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, child := range node.Content {
			if err := flattenMappings(child, visited); err != nil {
				return err
			}
		}
	case yaml.AliasNode:
		return flattenMappings(node.Alias, visited)
	case yaml.MappingNode:
		return flattenMapping(node, visited)
	default:
	}
	return nil
}

func flattenMapping(node *yaml.Node, visited map[*yaml.Node]bool) error {
	var merged, explicit []*yaml.Node

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if err := flattenMappings(value, visited); err != nil {
			return err
		}
		if !isMergeKey(key) {
			explicit = append(explicit, key, value)
			continue
		}

		pairs, err := mergeSources(value)
		if err != nil {
			return err
		}
		merged = append(merged, pairs...)
	}

	node.Content = collapsePairs(append(merged, explicit...))
	return nil
}

// mergeSources returns the pairs a merge value contributes. In a list, earlier
// mappings take precedence over later ones.
func mergeSources(value *yaml.Node) ([]*yaml.Node, error) {
	source := resolveAlias(value)
	switch source.Kind {
	case yaml.MappingNode:
		return source.Content, nil
	case yaml.SequenceNode:
		var pairs []*yaml.Node
		for i := len(source.Content) - 1; i >= 0; i-- {
			item := resolveAlias(source.Content[i])
			if item.Kind != yaml.MappingNode {
				return nil, errInvalidMerge
			}
			pairs = append(pairs, item.Content...)
		}
		return pairs, nil
	default:
		return nil, errInvalidMerge
	}
}

func collapsePairs(pairs []*yaml.Node) []*yaml.Node {
	positions := make(map[string]int, len(pairs)/2)
	result := make([]*yaml.Node, 0, len(pairs))

	for i := 0; i+1 < len(pairs); i += 2 {
		identity := keyIdentity(pairs[i])
		if at, seen := positions[identity]; seen {
			result[at+1] = pairs[i+1]
			continue
		}
		positions[identity] = len(result)
		result = append(result, pairs[i], pairs[i+1])
	}
	return result
}

// keyIdentity renders a key with strings quoted so 1 and "1" stay distinct.
func keyIdentity(key *yaml.Node) string {
	var sb strings.Builder
	writeNode(&sb, resolveAlias(key), true)
	return sb.String()
}

func isMergeKey(key *yaml.Node) bool {
	return key.Kind == yaml.ScalarNode && key.Value == "<<" && key.ShortTag() == "!!merge"
}
