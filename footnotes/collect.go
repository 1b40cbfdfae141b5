// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package footnotes

import (
	"github.com/mdhender/fnrenum/mdast"
)

// role is the part a node plays in footnote numbering.
type role int

const (
	roleOpaque role = iota
	roleReference
	roleDefinition
	roleInline
)

func roleOf(n *mdast.Node) role {
	switch n.Type {
	case mdast.TypeFootnoteReference:
		return roleReference
	case mdast.TypeFootnoteDefinition:
		return roleDefinition
	case mdast.TypeFootnote:
		return roleInline
	}
	return roleOpaque
}

// Collect returns every reference, definition and inline footnote in the
// tree, in depth-first pre-order. Footnote nodes are not descended into.
//
// A reference or definition without an identifier is a malformed tree and
// is reported as a *MissingIdentifierError.
func Collect(root *mdast.Node) ([]*mdast.Node, error) {
	var nodes []*mdast.Node
	var walk func(n *mdast.Node) error
	walk = func(n *mdast.Node) error {
		if n == nil {
			return nil
		}
		switch roleOf(n) {
		case roleReference, roleDefinition:
			if n.Identifier == "" {
				return &MissingIdentifierError{Type: n.Type, Position: n.Position}
			}
			nodes = append(nodes, n)
			return nil
		case roleInline:
			nodes = append(nodes, n)
			return nil
		case roleOpaque:
			for _, ch := range n.Children {
				if err := walk(ch); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(root); err != nil {
		return nil, err
	}
	return nodes, nil
}
