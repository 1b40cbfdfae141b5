// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package mdast implements a unist-shaped markdown syntax tree.
//
// A Node is a plain struct so trees serialize to JSON without help and can be
// compared structurally in tests. Nodes are treated as immutable values once
// built; transforms return new nodes rather than editing existing ones, which
// lets unchanged subtrees be shared between the input and output trees.
package mdast

// Node types produced by the adapters and understood by the renderer.
// Any other string is a legal type; the footnote transform only cares about
// the three footnote types and whether a node has children.
const (
	TypeRoot          = "root"
	TypeParagraph     = "paragraph"
	TypeHeading       = "heading"
	TypeText          = "text"
	TypeEmphasis      = "emphasis"
	TypeStrong        = "strong"
	TypeDelete        = "delete"
	TypeInlineCode    = "inlineCode"
	TypeCode          = "code"
	TypeLink          = "link"
	TypeImage         = "image"
	TypeList          = "list"
	TypeListItem      = "listItem"
	TypeBlockquote    = "blockquote"
	TypeThematicBreak = "thematicBreak"
	TypeBreak         = "break"
	TypeHTML          = "html"

	TypeFootnoteReference  = "footnoteReference"
	TypeFootnoteDefinition = "footnoteDefinition"
	TypeFootnote           = "footnote" // inline footnote, ^[like this]
)

// Node is a single node in the tree.
//
// Children is nil for leaf nodes. A parent with no children has a non-nil,
// empty slice.
type Node struct {
	Type       string    `json:"type"`
	Children   []*Node   `json:"children,omitempty"`
	Value      string    `json:"value,omitempty"`
	Identifier string    `json:"identifier,omitempty"`
	Label      string    `json:"label,omitempty"`
	Depth      int       `json:"depth,omitempty"`
	Ordered    bool      `json:"ordered,omitempty"`
	Start      int       `json:"start,omitempty"`
	URL        string    `json:"url,omitempty"`
	Title      string    `json:"title,omitempty"`
	Alt        string    `json:"alt,omitempty"`
	Lang       string    `json:"lang,omitempty"`
	Position   *Position `json:"position,omitempty"`
}

// Point is a location in the source. Line and Column are 1-based,
// Offset is a 0-based byte offset.
type Point struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

// Position is the span of source text a node was built from.
type Position struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// IsParent reports whether the node carries a child sequence.
func (n *Node) IsParent() bool {
	return n != nil && n.Children != nil
}

// ShallowCopy returns a copy of the node that shares its children slice
// and position with the original.
func (n *Node) ShallowCopy() *Node {
	c := *n
	return &c
}

// Inspect traverses the tree rooted at n in depth-first pre-order.
// If fn returns false, the children of that node are skipped.
func Inspect(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, ch := range n.Children {
		Inspect(ch, fn)
	}
}
