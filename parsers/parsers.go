// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package parsers parses markdown with goldmark.
//
// Footnote definitions and references are recognized, but none of goldmark's
// footnote transforms run: definitions stay in document order, unreferenced
// definitions are kept, and nothing is renumbered. Definitions are grouped in
// a single FootnoteList placed where the first definition was found.
package parsers

import (
	"bytes"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Document is a parsed markdown document. Root's segments index into Source,
// which may differ from the input when line endings were normalized.
type Document struct {
	Source []byte
	Root   gast.Node
}

// Parser is safe for concurrent use.
type Parser struct {
	cfg Config
	md  goldmark.Markdown
}

func New(options ...Option) (*Parser, error) {
	p := &Parser{}
	for _, option := range options {
		if err := option(&p.cfg); err != nil {
			return nil, err
		}
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(
			parser.WithBlockParsers(
				util.Prioritized(extension.NewFootnoteBlockParser(), 999),
			),
			parser.WithInlineParsers(
				util.Prioritized(extension.NewFootnoteParser(), 101),
				util.Prioritized(NewInlineFootnoteParser(), 102),
			),
		),
	}
	if len(p.cfg.extensions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithExtensions(p.cfg.extensions...))
	}
	p.md = goldmark.New(engineOptions...)

	return p, nil
}

// Parse parses the markdown source.
func (p *Parser) Parse(source []byte) *Document {
	source = p.normalize(source)
	root := p.md.Parser().Parse(text.NewReader(source))
	return &Document{Source: source, Root: root}
}

func (p *Parser) normalize(data []byte) []byte {
	if p.cfg.autoEOL {
		data = bytes.ReplaceAll(data, []byte{'\r', '\n'}, []byte{'\n'})
		data = bytes.ReplaceAll(data, []byte{'\r'}, []byte{'\n'})
	} else if p.cfg.stripCR {
		data = bytes.ReplaceAll(data, []byte{'\r', '\n'}, []byte{'\n'})
	}
	return data
}
