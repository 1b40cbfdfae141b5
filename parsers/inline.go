// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package parsers

import (
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// KindInlineFootnote is the NodeKind of an InlineFootnote.
var KindInlineFootnote = gast.NewNodeKind("InlineFootnote")

// InlineFootnote is a footnote written where it is used, ^[like this].
// It has a single Text child holding the note; the note is not parsed
// for further inline markup.
type InlineFootnote struct {
	gast.BaseInline
	Segment text.Segment // the whole ^[...] run
}

func (n *InlineFootnote) Kind() gast.NodeKind {
	return KindInlineFootnote
}

func (n *InlineFootnote) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, nil, nil)
}

type inlineFootnoteParser struct{}

// NewInlineFootnoteParser returns a parser for ^[inline notes].
func NewInlineFootnoteParser() parser.InlineParser {
	return &inlineFootnoteParser{}
}

func (s *inlineFootnoteParser) Trigger() []byte {
	return []byte{'^'}
}

func (s *inlineFootnoteParser) Parse(parent gast.Node, block text.Reader, pc parser.Context) gast.Node {
	line, segment := block.PeekLine()
	if len(line) < 4 || line[1] != '[' {
		return nil
	}
	depth := 0
	for i := 1; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '[':
			depth++
		case ']':
			depth--
			if depth != 0 {
				continue
			}
			if i == 2 { // ^[]
				return nil
			}
			n := &InlineFootnote{Segment: text.NewSegment(segment.Start, segment.Start+i+1)}
			n.AppendChild(n, gast.NewTextSegment(text.NewSegment(segment.Start+2, segment.Start+i)))
			block.Advance(i + 1)
			return n
		}
	}
	return nil
}
