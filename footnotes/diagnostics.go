// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package footnotes

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/mdhender/fnrenum/mdast"
)

// Diagnostic is a warning or note about the footnotes in a document.
// Diagnostics never change the result of Renumber.
type Diagnostic struct {
	Severity   slog.Level      // Warn or Info
	Message    string          // "footnote \"3\" is defined but never referenced"
	Identifier string          // original identifier
	Position   *mdast.Position // may be nil for hand-built trees
	Notes      []string
}

// Diagnose reports orphaned definitions, duplicate definitions, references
// without a definition, references inside a definition body, and footnotes
// skipped by the non-numeric filter.
//
// A reference inside a definition body keeps the definition it points at
// from being reported as orphaned.
func Diagnose(root *mdast.Node, opts Options) ([]Diagnostic, error) {
	nodes, err := Collect(root)
	if err != nil {
		return nil, err
	}

	referenced := map[string]bool{}
	defined := map[string]bool{}
	for _, n := range nodes {
		switch roleOf(n) {
		case roleReference:
			referenced[n.Identifier] = true
		case roleDefinition:
			defined[n.Identifier] = true
		}
	}
	nested := nestedReferences(nodes)
	for _, nr := range nested {
		referenced[nr.ref.Identifier] = true
	}

	var diags []Diagnostic
	skipped := map[string]bool{}
	seen := map[string]bool{}
	for _, n := range nodes {
		r := roleOf(n)
		if r != roleReference && r != roleDefinition {
			continue
		}
		id := n.Identifier
		if opts.IgnoreNonnumericFootnotes && !IsNumeric(id) && !skipped[id] {
			skipped[id] = true
			diags = append(diags, Diagnostic{
				Severity:   slog.LevelInfo,
				Message:    fmt.Sprintf("footnote %q is not numeric and keeps its identifier", id),
				Identifier: id,
				Position:   n.Position,
			})
		}
		switch r {
		case roleReference:
			if !defined[id] && !seen["ref:"+id] {
				seen["ref:"+id] = true
				diags = append(diags, Diagnostic{
					Severity:   slog.LevelWarn,
					Message:    fmt.Sprintf("footnote %q is referenced but never defined", id),
					Identifier: id,
					Position:   n.Position,
				})
			}
		case roleDefinition:
			if seen["def:"+id] {
				diags = append(diags, Diagnostic{
					Severity:   slog.LevelWarn,
					Message:    fmt.Sprintf("footnote %q is defined more than once", id),
					Identifier: id,
					Position:   n.Position,
					Notes:      []string{"every definition with this identifier gets the same number"},
				})
				continue
			}
			seen["def:"+id] = true
			if !referenced[id] {
				diags = append(diags, Diagnostic{
					Severity:   slog.LevelWarn,
					Message:    fmt.Sprintf("footnote %q is defined but never referenced", id),
					Identifier: id,
					Position:   n.Position,
					Notes:      []string{"orphaned definitions are numbered after all referenced footnotes"},
				})
			}
		}
	}

	for _, nr := range nested {
		diags = append(diags, Diagnostic{
			Severity:   slog.LevelWarn,
			Message:    fmt.Sprintf("footnote %q is referenced inside the definition of %q", nr.ref.Identifier, nr.parent),
			Identifier: nr.ref.Identifier,
			Position:   nr.ref.Position,
			Notes:      []string{"references inside a definition are not renumbered and keep their identifier"},
		})
	}
	return diags, nil
}

// nestedReference is a reference found in the body of a definition.
type nestedReference struct {
	parent string
	ref    *mdast.Node
}

// nestedReferences returns the references inside the bodies of the
// definitions in nodes, in document order.
func nestedReferences(nodes []*mdast.Node) []nestedReference {
	var list []nestedReference
	for _, n := range nodes {
		if roleOf(n) != roleDefinition {
			continue
		}
		for _, ch := range n.Children {
			mdast.Inspect(ch, func(c *mdast.Node) bool {
				if c.Type == mdast.TypeFootnoteReference {
					if c.Identifier != "" {
						list = append(list, nestedReference{parent: n.Identifier, ref: c})
					}
					return false
				}
				return true
			})
		}
	}
	return list
}

// PrintDiagnostic writes the diagnostic with the offending source line and
// a caret under the start column.
func PrintDiagnostic(w io.Writer, diag Diagnostic, filename string, src []byte) {
	line, column := 0, 0
	if diag.Position != nil {
		line, column = diag.Position.Start.Line, diag.Position.Start.Column
	}
	_, _ = fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", filename, line, column, diag.Severity.String(), diag.Message)

	if diag.Position != nil {
		text := findLine(src, diag.Position.Start.Offset)
		_, _ = fmt.Fprintf(w, "    %s\n", text)
		_, _ = fmt.Fprintf(w, "    %s^\n", caretPadding(text, column))
	}

	for _, note := range diag.Notes {
		_, _ = fmt.Fprintf(w, "    note: %s\n", note)
	}
}

// findLine returns the line containing the byte at offset, without the
// new-line. Returns an empty slice when offset is past the input.
func findLine(src []byte, offset int) []byte {
	if offset < 0 || offset >= len(src) {
		return []byte{}
	}
	lineStart := offset
	for lineStart > 0 && src[lineStart-1] != '\n' {
		lineStart--
	}
	lineEnd := offset
	for lineEnd < len(src) && src[lineEnd] != '\n' {
		lineEnd++
	}
	return src[lineStart:lineEnd]
}

// caretPadding returns whitespace that lines a caret up under the 1-based
// rune column of line. Tabs are kept so the caret lines up on a terminal.
func caretPadding(line []byte, column int) string {
	var sb strings.Builder
	for column > 1 && len(line) != 0 {
		r, w := utf8.DecodeRune(line)
		if r == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}
		line = line[w:]
		column--
	}
	return sb.String()
}
