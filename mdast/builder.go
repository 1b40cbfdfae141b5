// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package mdast

// New returns a parent node of the given type. The children slice is
// always non-nil so the node reports itself as a parent.
func New(typ string, children ...*Node) *Node {
	if children == nil {
		children = []*Node{}
	}
	return &Node{Type: typ, Children: children}
}

func Root(children ...*Node) *Node {
	return New(TypeRoot, children...)
}

func Paragraph(children ...*Node) *Node {
	return New(TypeParagraph, children...)
}

// Text returns a text leaf.
func Text(value string) *Node {
	return &Node{Type: TypeText, Value: value}
}

// Reference returns a footnote reference leaf with the label set to the
// identifier, which is how parsers emit them.
func Reference(identifier string) *Node {
	return &Node{Type: TypeFootnoteReference, Identifier: identifier, Label: identifier}
}

// Definition returns a footnote definition holding the footnote's content.
func Definition(identifier string, children ...*Node) *Node {
	n := New(TypeFootnoteDefinition, children...)
	n.Identifier, n.Label = identifier, identifier
	return n
}

// InlineFootnote returns a footnote whose content is written at its use site.
func InlineFootnote(children ...*Node) *Node {
	return New(TypeFootnote, children...)
}
