// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package parsers_test

import (
	"testing"

	"github.com/mdhender/fnrenum/parsers"
	gast "github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

// kinds returns the kind names of the nodes below root, in document order.
func kinds(t *testing.T, root gast.Node) []string {
	t.Helper()
	var list []string
	err := gast.Walk(root, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if entering {
			list = append(list, n.Kind().String())
		}
		return gast.WalkContinue, nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	return list
}

func count(list []string, kind string) int {
	n := 0
	for _, k := range list {
		if k == kind {
			n++
		}
	}
	return n
}

func TestParse_Footnotes(t *testing.T) {
	p, err := parsers.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	doc := p.Parse([]byte("One[^b] two^[inline] three[^a].\n\n[^a]: A\n\n[^b]: B\n\n[^c]: C\n"))
	list := kinds(t, doc.Root)

	if got, want := count(list, "FootnoteList"), 1; got != want {
		t.Errorf("FootnoteList count = %d, want %d", got, want)
	}
	// unreferenced definitions are kept
	if got, want := count(list, "Footnote"), 3; got != want {
		t.Errorf("Footnote count = %d, want %d", got, want)
	}
	if got, want := count(list, "FootnoteLink"), 2; got != want {
		t.Errorf("FootnoteLink count = %d, want %d", got, want)
	}
	if got, want := count(list, "InlineFootnote"), 1; got != want {
		t.Errorf("InlineFootnote count = %d, want %d", got, want)
	}

	// definitions stay in document order
	var refs []string
	_ = gast.Walk(doc.Root, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if fn, ok := n.(*east.Footnote); ok && entering {
			refs = append(refs, string(fn.Ref))
		}
		return gast.WalkContinue, nil
	})
	if got, want := len(refs), 3; got != want {
		t.Fatalf("definitions = %q, want 3", refs)
	}
	for i, want := range []string{"a", "b", "c"} {
		if refs[i] != want {
			t.Errorf("definition %d = %q, want %q", i, refs[i], want)
		}
	}
}

func TestParse_InlineFootnote(t *testing.T) {
	p, err := parsers.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	source := []byte("See^[a [nested] note] here.\n")
	doc := p.Parse(source)

	var inline *parsers.InlineFootnote
	_ = gast.Walk(doc.Root, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if fn, ok := n.(*parsers.InlineFootnote); ok && entering {
			inline = fn
		}
		return gast.WalkContinue, nil
	})
	if inline == nil {
		t.Fatalf("no InlineFootnote")
	}
	if got, want := string(inline.Segment.Value(doc.Source)), "^[a [nested] note]"; got != want {
		t.Errorf("segment = %q, want %q", got, want)
	}
	txt, ok := inline.FirstChild().(*gast.Text)
	if !ok {
		t.Fatalf("child = %T, want *ast.Text", inline.FirstChild())
	}
	if got, want := string(txt.Segment.Value(doc.Source)), "a [nested] note"; got != want {
		t.Errorf("note = %q, want %q", got, want)
	}
}

func TestNew_Options(t *testing.T) {
	if _, err := parsers.New(parsers.WithExtensions("gfm", "Table", "definition")); err != nil {
		t.Errorf("WithExtensions(known): %v", err)
	}
	if _, err := parsers.New(parsers.WithExtensions("typographer")); err == nil {
		t.Errorf("WithExtensions(unknown): want error")
	}

	for _, tc := range []struct {
		name   string
		option parsers.Option
		input  string
		want   string
	}{
		{"auto-eol", parsers.WithAutoEOL(true), "a\r\nb\rc\n", "a\nb\nc\n"},
		{"strip-cr", parsers.WithStripCR(true), "a\r\nb\rc\n", "a\nb\rc\n"},
		{"none", parsers.WithAutoEOL(false), "a\r\nb\n", "a\r\nb\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p, err := parsers.New(tc.option)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if got := string(p.Parse([]byte(tc.input)).Source); got != tc.want {
				t.Errorf("Source = %q, want %q", got, tc.want)
			}
		})
	}
}
