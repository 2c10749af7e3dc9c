package template

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Expand returns an expanded deep copy of an ordered YAML tree. Mapping
// order and key nodes are preserved. Alias nodes are replaced by an
// expanded copy of their target, so the result carries no anchors.
func Expand(node *yaml.Node, vars Vars) (*yaml.Node, error) {
	if node == nil {
		return nil, nil
	}
	return newExpander(vars).node(node, nil)
}

func (e *expander) node(n *yaml.Node, path []any) (*yaml.Node, error) {
	switch n.Kind {
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("alias %q has no target", n.Value)
		}
		return e.node(n.Alias, path)

	case yaml.ScalarNode:
		return e.scalarNode(n, path)

	case yaml.MappingNode:
		out := shallowCopy(n)
		out.Content = make([]*yaml.Node, 0, len(n.Content))
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			val, err := e.node(n.Content[i+1], appendPath(path, keyName(key)))
			if err != nil {
				return nil, err
			}
			out.Content = append(out.Content, copyTree(key), val)
		}
		return out, nil

	default: // DocumentNode, SequenceNode
		out := shallowCopy(n)
		out.Content = make([]*yaml.Node, 0, len(n.Content))
		for i, child := range n.Content {
			childPath := path
			if n.Kind == yaml.SequenceNode {
				childPath = appendPath(path, i)
			}
			c, err := e.node(child, childPath)
			if err != nil {
				return nil, err
			}
			out.Content = append(out.Content, c)
		}
		return out, nil
	}
}

func (e *expander) scalarNode(n *yaml.Node, path []any) (*yaml.Node, error) {
	out := shallowCopy(n)
	if n.Tag != "" && n.ShortTag() != "!!str" {
		return out, nil
	}

	val, err := e.scalar(n.Value, path)
	if err != nil {
		return nil, err
	}

	if s, ok := val.(string); ok {
		out.Value = s
		return out, nil
	}

	encoded := &yaml.Node{}
	if err := encoded.Encode(val); err != nil {
		return nil, fmt.Errorf("encoding value for %s: %w", FormatPath(path), err)
	}
	encoded.Line, encoded.Column = n.Line, n.Column
	return encoded, nil
}

func keyName(key *yaml.Node) any {
	if key.Kind == yaml.AliasNode && key.Alias != nil {
		return key.Alias.Value
	}
	return key.Value
}

func shallowCopy(n *yaml.Node) *yaml.Node {
	out := *n
	out.Anchor = ""
	out.Content = nil
	return &out
}

func copyTree(n *yaml.Node) *yaml.Node {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		return copyTree(n.Alias)
	}
	out := shallowCopy(n)
	for _, c := range n.Content {
		out.Content = append(out.Content, copyTree(c))
	}
	return out
}
