// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package parsers

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

type Config struct {
	autoEOL    bool
	stripCR    bool
	extensions []goldmark.Extender
}

type Option func(c *Config) error

// WithAutoEOL converts CR+LF and lone CR line endings to LF before parsing.
func WithAutoEOL(flag bool) Option {
	return func(c *Config) error {
		c.autoEOL = flag
		return nil
	}
}

// WithStripCR converts CR+LF line endings to LF before parsing.
func WithStripCR(flag bool) Option {
	return func(c *Config) error {
		c.stripCR = flag
		return nil
	}
}

// WithExtensions enables goldmark extensions by name.
// Names are case-insensitive; unknown names are an error.
func WithExtensions(names ...string) Option {
	return func(c *Config) error {
		seen := map[string]bool{}
		for _, name := range names {
			key := strings.ToLower(strings.TrimSpace(name))
			if key == "" || seen[key] {
				continue
			}
			ext, ok := extensionRegistry[key]
			if !ok {
				return fmt.Errorf("parsers: unknown extension %q", name)
			}
			c.extensions = append(c.extensions, ext)
			seen[key] = true
		}
		return nil
	}
}

// footnotes are not in the registry. They are always on, and goldmark's own
// footnote extension would renumber them and drop unreferenced definitions.
var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
}
