// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package adapters converts parser output into mdast trees.
package adapters

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mdhender/fnrenum/mdast"
	"github.com/mdhender/fnrenum/parsers"
	gast "github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

// GoldmarkToMdast converts a parsed document into an mdast tree.
//
// The FootnoteList wrapper goldmark puts around definitions is removed, so
// the definitions sit in the parent where the list was. Adjacent text nodes
// are merged.
func GoldmarkToMdast(doc *parsers.Document) (*mdast.Node, error) {
	if doc == nil || doc.Root == nil {
		return nil, fmt.Errorf("adapters: missing document")
	}

	c := &converter{
		src:    doc.Source,
		lines:  lineStarts(doc.Source),
		labels: map[int]string{},
	}

	// footnote links only carry the index goldmark gave the definition
	err := gast.Walk(doc.Root, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if fn, ok := n.(*east.Footnote); entering && ok && fn.Index > 0 {
			c.labels[fn.Index] = string(fn.Ref)
		}
		return gast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	nodes, err := c.convert(doc.Root)
	if err != nil {
		return nil, err
	} else if len(nodes) != 1 {
		return nil, fmt.Errorf("adapters: document converted to %d roots", len(nodes))
	}
	return nodes[0], nil
}

type converter struct {
	src    []byte
	lines  []int // offset of the first byte of each line
	labels map[int]string
}

// convert returns a slice because some goldmark nodes become more than one
// mdast node (or none).
func (c *converter) convert(n gast.Node) ([]*mdast.Node, error) {
	var node *mdast.Node

	switch n := n.(type) {
	case *gast.Document:
		node = &mdast.Node{Type: mdast.TypeRoot}
	case *gast.Paragraph, *gast.TextBlock:
		node = &mdast.Node{Type: mdast.TypeParagraph}
	case *gast.Heading:
		node = &mdast.Node{Type: mdast.TypeHeading, Depth: n.Level}
	case *gast.ThematicBreak:
		return c.leaf(&mdast.Node{Type: mdast.TypeThematicBreak}, n), nil
	case *gast.CodeBlock:
		return c.leaf(&mdast.Node{Type: mdast.TypeCode, Value: c.linesValue(n, false)}, n), nil
	case *gast.FencedCodeBlock:
		return c.leaf(&mdast.Node{Type: mdast.TypeCode, Lang: string(n.Language(c.src)), Value: c.linesValue(n, false)}, n), nil
	case *gast.HTMLBlock:
		value := c.linesValue(n, true)
		if n.HasClosure() {
			value += strings.TrimSuffix(string(n.ClosureLine.Value(c.src)), "\n")
		}
		return c.leaf(&mdast.Node{Type: mdast.TypeHTML, Value: value}, n), nil
	case *gast.Blockquote:
		node = &mdast.Node{Type: mdast.TypeBlockquote}
	case *gast.List:
		node = &mdast.Node{Type: mdast.TypeList, Ordered: n.IsOrdered()}
		if n.IsOrdered() {
			node.Start = n.Start
		}
	case *gast.ListItem:
		node = &mdast.Node{Type: mdast.TypeListItem}
	case *gast.Text:
		t := &mdast.Node{Type: mdast.TypeText, Value: string(n.Segment.Value(c.src))}
		t.Position = c.position(n.Segment.Start, n.Segment.Stop)
		if n.SoftLineBreak() {
			t.Value += "\n"
		}
		if n.HardLineBreak() {
			return []*mdast.Node{t, {Type: mdast.TypeBreak}}, nil
		}
		return []*mdast.Node{t}, nil
	case *gast.String:
		return []*mdast.Node{{Type: mdast.TypeText, Value: string(n.Value)}}, nil
	case *gast.CodeSpan:
		return []*mdast.Node{{Type: mdast.TypeInlineCode, Value: c.plainText(n)}}, nil
	case *gast.Emphasis:
		if n.Level >= 2 {
			node = &mdast.Node{Type: mdast.TypeStrong}
		} else {
			node = &mdast.Node{Type: mdast.TypeEmphasis}
		}
	case *gast.Link:
		node = &mdast.Node{Type: mdast.TypeLink, URL: string(n.Destination), Title: string(n.Title)}
	case *gast.AutoLink:
		return []*mdast.Node{{
			Type:     mdast.TypeLink,
			URL:      string(n.URL(c.src)),
			Children: []*mdast.Node{mdast.Text(string(n.Label(c.src)))},
		}}, nil
	case *gast.Image:
		return []*mdast.Node{{Type: mdast.TypeImage, URL: string(n.Destination), Title: string(n.Title), Alt: c.plainText(n)}}, nil
	case *gast.RawHTML:
		var sb strings.Builder
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			sb.Write(seg.Value(c.src))
		}
		return []*mdast.Node{{Type: mdast.TypeHTML, Value: sb.String()}}, nil
	case *east.Strikethrough:
		node = &mdast.Node{Type: mdast.TypeDelete}
	case *east.FootnoteList:
		// splice the definitions into the parent
		return c.children(n)
	case *east.Footnote:
		label := string(n.Ref)
		node = &mdast.Node{Type: mdast.TypeFootnoteDefinition, Identifier: label, Label: label}
	case *east.FootnoteLink:
		label, ok := c.labels[n.Index]
		if !ok {
			return nil, fmt.Errorf("adapters: footnote link %d: no definition", n.Index)
		}
		return []*mdast.Node{mdast.Reference(label)}, nil
	case *parsers.InlineFootnote:
		node = &mdast.Node{Type: mdast.TypeFootnote, Position: c.position(n.Segment.Start, n.Segment.Stop)}
	default:
		if !n.HasChildren() {
			return c.leaf(&mdast.Node{Type: lowerCamel(n.Kind().String())}, n), nil
		}
		node = &mdast.Node{Type: lowerCamel(n.Kind().String())}
	}

	children, err := c.children(n)
	if err != nil {
		return nil, err
	}
	node.Children = mergeText(children)
	if node.Position == nil {
		node.Position = c.blockPosition(n)
	}
	if node.Position == nil {
		node.Position = spanChildren(node.Children)
	}
	return []*mdast.Node{node}, nil
}

func (c *converter) children(n gast.Node) ([]*mdast.Node, error) {
	children := []*mdast.Node{}
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		nodes, err := c.convert(ch)
		if err != nil {
			return nil, err
		}
		children = append(children, nodes...)
	}
	return children, nil
}

func (c *converter) leaf(node *mdast.Node, n gast.Node) []*mdast.Node {
	node.Position = c.blockPosition(n)
	return []*mdast.Node{node}
}

func (c *converter) linesValue(n gast.Node, keepFinalEOL bool) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(c.src))
	}
	if keepFinalEOL {
		return sb.String()
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// plainText concatenates the text segments below n.
func (c *converter) plainText(n gast.Node) string {
	var sb strings.Builder
	_ = gast.Walk(n, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *gast.Text:
			sb.Write(n.Segment.Value(c.src))
		case *gast.String:
			sb.Write(n.Value)
		}
		return gast.WalkContinue, nil
	})
	return sb.String()
}

// blockPosition returns the span of a block's lines, or nil for inlines and
// for containers, which have no lines of their own.
func (c *converter) blockPosition(n gast.Node) *mdast.Position {
	if n.Type() != gast.TypeBlock {
		return nil
	}
	lines := n.Lines()
	if lines == nil || lines.Len() == 0 {
		return nil
	}
	first, last := lines.At(0), lines.At(lines.Len()-1)
	end := last.Stop
	if end > last.Start && c.src[end-1] == '\n' {
		end--
	}
	return c.position(first.Start, end)
}

func (c *converter) position(start, end int) *mdast.Position {
	return &mdast.Position{Start: c.point(start), End: c.point(end)}
}

func (c *converter) point(offset int) mdast.Point {
	// index of the last line starting at or before offset
	line := sort.Search(len(c.lines), func(i int) bool { return c.lines[i] > offset }) - 1
	if line < 0 {
		line = 0
	}
	lineStart := c.lines[line]
	column := 1
	if offset > lineStart && offset <= len(c.src) {
		column += utf8.RuneCount(c.src[lineStart:offset])
	}
	return mdast.Point{Line: line + 1, Column: column, Offset: offset}
}

func lineStarts(src []byte) []int {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func spanChildren(children []*mdast.Node) *mdast.Position {
	var first, last *mdast.Position
	for _, ch := range children {
		if ch.Position == nil {
			continue
		}
		if first == nil {
			first = ch.Position
		}
		last = ch.Position
	}
	if first == nil {
		return nil
	}
	return &mdast.Position{Start: first.Start, End: last.End}
}

// mergeText joins runs of adjacent text nodes. goldmark splits text at
// every character that might start an inline construct.
func mergeText(nodes []*mdast.Node) []*mdast.Node {
	merged := nodes[:0]
	for _, n := range nodes {
		if len(merged) > 0 {
			prev := merged[len(merged)-1]
			if prev.Type == mdast.TypeText && n.Type == mdast.TypeText {
				prev.Value += n.Value
				if prev.Position != nil && n.Position != nil {
					prev.Position.End = n.Position.End
				}
				continue
			}
		}
		merged = append(merged, n)
	}
	return merged
}

func lowerCamel(s string) string {
	r, w := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[w:]
}
