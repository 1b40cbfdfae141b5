// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package footnotes

import (
	"github.com/mdhender/fnrenum/mdast"
)

// Apply returns a tree with every mapped reference and definition replaced
// by a copy carrying the new identifier as both identifier and label.
//
// References inside inline footnotes are rewritten too, although Collect
// does not number them.
//
// Nodes are only copied along paths that lead to a change. Anything else,
// including footnotes that already carry their new identifier, is returned
// as the same pointer.
func Apply(root *mdast.Node, m *Mapping) *mdast.Node {
	if root == nil || m.Len() == 0 {
		return root
	}
	return apply(root, m)
}

func apply(n *mdast.Node, m *Mapping) *mdast.Node {
	switch roleOf(n) {
	case roleReference, roleDefinition:
		id, ok := m.Lookup(n.Identifier)
		if !ok || (id == n.Identifier && id == n.Label) {
			return n
		}
		c := n.ShallowCopy()
		c.Identifier, c.Label = id, id
		return c
	case roleOpaque, roleInline:
		if n.Children == nil {
			return n
		}
	}

	var children []*mdast.Node // nil until a child changes
	for i, ch := range n.Children {
		if ch == nil {
			continue
		}
		nch := apply(ch, m)
		if nch == ch && children == nil {
			continue
		}
		if children == nil {
			children = make([]*mdast.Node, len(n.Children))
			copy(children, n.Children[:i])
		}
		children[i] = nch
	}
	if children == nil {
		return n
	}
	c := n.ShallowCopy()
	c.Children = children
	return c
}
