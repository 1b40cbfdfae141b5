// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package adapters_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/mdhender/fnrenum/adapters"
	"github.com/mdhender/fnrenum/mdast"
	"github.com/mdhender/fnrenum/parsers"
)

var ignorePosition = cmpopts.IgnoreFields(mdast.Node{}, "Position")

func parse(t *testing.T, input string, options ...parsers.Option) *mdast.Node {
	t.Helper()
	p, err := parsers.New(options...)
	if err != nil {
		t.Fatalf("parsers.New: %v", err)
	}
	tree, err := adapters.GoldmarkToMdast(p.Parse([]byte(input)))
	if err != nil {
		t.Fatalf("GoldmarkToMdast: %v", err)
	}
	return tree
}

func TestGoldmarkToMdast_Footnotes(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  *mdast.Node
	}{
		{
			name:  "references and definitions",
			input: "This is a document[^2] with a couple[^1] of footnotes.\n\n[^2]: First\n\n[^1]: Second\n",
			want: mdast.Root(
				mdast.Paragraph(
					mdast.Text("This is a document"),
					mdast.Reference("2"),
					mdast.Text(" with a couple"),
					mdast.Reference("1"),
					mdast.Text(" of footnotes."),
				),
				mdast.Definition("2", mdast.Paragraph(mdast.Text("First"))),
				mdast.Definition("1", mdast.Paragraph(mdast.Text("Second"))),
			),
		},
		{
			name:  "inline footnote",
			input: "A document[^a] with^[inline note] notes.\n\n[^a]: Alpha\n",
			want: mdast.Root(
				mdast.Paragraph(
					mdast.Text("A document"),
					mdast.Reference("a"),
					mdast.Text(" with"),
					mdast.InlineFootnote(mdast.Text("inline note")),
					mdast.Text(" notes."),
				),
				mdast.Definition("a", mdast.Paragraph(mdast.Text("Alpha"))),
			),
		},
		{
			name:  "orphaned definition is kept",
			input: "Text[^2].\n\n[^1]: Zeroth\n\n[^2]: First\n",
			want: mdast.Root(
				mdast.Paragraph(
					mdast.Text("Text"),
					mdast.Reference("2"),
					mdast.Text("."),
				),
				mdast.Definition("1", mdast.Paragraph(mdast.Text("Zeroth"))),
				mdast.Definition("2", mdast.Paragraph(mdast.Text("First"))),
			),
		},
		{
			name:  "definitions are grouped at the first definition",
			input: "[^1]: Second\n\nThis is a document[^2] with[^2] a couple[^1].\n\n[^2]: First\n",
			want: mdast.Root(
				mdast.Definition("1", mdast.Paragraph(mdast.Text("Second"))),
				mdast.Definition("2", mdast.Paragraph(mdast.Text("First"))),
				mdast.Paragraph(
					mdast.Text("This is a document"),
					mdast.Reference("2"),
					mdast.Text(" with"),
					mdast.Reference("2"),
					mdast.Text(" a couple"),
					mdast.Reference("1"),
					mdast.Text("."),
				),
			),
		},
		{
			name:  "reference without definition stays text",
			input: "Nothing[^x] here.\n",
			want: mdast.Root(
				mdast.Paragraph(mdast.Text("Nothing[^x] here.")),
			),
		},
		{
			name:  "empty inline note is text",
			input: "Caret ^[] here.\n",
			want: mdast.Root(
				mdast.Paragraph(mdast.Text("Caret ^[] here.")),
			),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := parse(t, tc.input)
			if diff := cmp.Diff(tc.want, got, ignorePosition); diff != "" {
				t.Fatalf("GoldmarkToMdast mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGoldmarkToMdast_Blocks(t *testing.T) {
	input := "# Title\n\n> quoted *soft* and **strong**\n\n- one\n- two\n\n```go\nx := 1\n```\n\n---\n"
	want := mdast.Root(
		&mdast.Node{Type: mdast.TypeHeading, Depth: 1, Children: []*mdast.Node{mdast.Text("Title")}},
		mdast.New(mdast.TypeBlockquote,
			mdast.Paragraph(
				mdast.Text("quoted "),
				mdast.New(mdast.TypeEmphasis, mdast.Text("soft")),
				mdast.Text(" and "),
				mdast.New(mdast.TypeStrong, mdast.Text("strong")),
			),
		),
		mdast.New(mdast.TypeList,
			mdast.New(mdast.TypeListItem, mdast.Paragraph(mdast.Text("one"))),
			mdast.New(mdast.TypeListItem, mdast.Paragraph(mdast.Text("two"))),
		),
		&mdast.Node{Type: mdast.TypeCode, Lang: "go", Value: "x := 1"},
		&mdast.Node{Type: mdast.TypeThematicBreak},
	)
	got := parse(t, input)
	if diff := cmp.Diff(want, got, ignorePosition); diff != "" {
		t.Fatalf("GoldmarkToMdast mismatch (-want +got):\n%s", diff)
	}
}

func TestGoldmarkToMdast_Positions(t *testing.T) {
	got := parse(t, "Intro[^n].\n\n[^n]: Body\n")
	para := got.Children[0]
	if para.Position == nil {
		t.Fatalf("paragraph has no position")
	}
	if got, want := para.Position.Start, (mdast.Point{Line: 1, Column: 1, Offset: 0}); got != want {
		t.Fatalf("paragraph start = %+v, want %+v", got, want)
	}
	def := got.Children[1]
	if def.Type != mdast.TypeFootnoteDefinition {
		t.Fatalf("Children[1].Type = %q, want %q", def.Type, mdast.TypeFootnoteDefinition)
	}
	if def.Position == nil {
		t.Fatalf("definition has no position")
	}
	if got, want := def.Position.Start.Line, 3; got != want {
		t.Fatalf("definition line = %d, want %d", got, want)
	}
}

func TestGoldmarkToMdast_LineEndings(t *testing.T) {
	want := mdast.Root(
		mdast.Paragraph(mdast.Text("One"), mdast.Reference("1")),
		mdast.Definition("1", mdast.Paragraph(mdast.Text("Note"))),
	)
	for _, tc := range []struct {
		name   string
		input  string
		option parsers.Option
	}{
		{"auto-eol crlf", "One[^1]\r\n\r\n[^1]: Note\r\n", parsers.WithAutoEOL(true)},
		{"auto-eol cr", "One[^1]\r\r[^1]: Note\r", parsers.WithAutoEOL(true)},
		{"strip-cr", "One[^1]\r\n\r\n[^1]: Note\r\n", parsers.WithStripCR(true)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := parse(t, tc.input, tc.option)
			if diff := cmp.Diff(want, got, ignorePosition); diff != "" {
				t.Fatalf("GoldmarkToMdast mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGoldmarkToMdast_MissingDocument(t *testing.T) {
	if _, err := adapters.GoldmarkToMdast(nil); err == nil {
		t.Fatalf("GoldmarkToMdast(nil): want error")
	}
}
