// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package mdast_test

import (
	"encoding/json"
	"testing"

	"github.com/mdhender/fnrenum/mdast"
)

func TestNode_IsParent(t *testing.T) {
	for _, tc := range []struct {
		name string
		node *mdast.Node
		want bool
	}{
		{"nil", nil, false},
		{"leaf", mdast.Text("x"), false},
		{"empty parent", mdast.Paragraph(), true},
		{"parent", mdast.Paragraph(mdast.Text("x")), true},
		{"reference", mdast.Reference("1"), false},
		{"definition", mdast.Definition("1"), true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.node.IsParent(); got != tc.want {
				t.Fatalf("IsParent = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNode_ShallowCopy(t *testing.T) {
	orig := mdast.Definition("2", mdast.Paragraph(mdast.Text("body")))
	c := orig.ShallowCopy()
	if c == orig {
		t.Fatalf("ShallowCopy returned the same pointer")
	}
	c.Identifier = "1"
	if orig.Identifier != "2" {
		t.Fatalf("orig.Identifier = %q, want %q", orig.Identifier, "2")
	}
	if &c.Children[0] != &orig.Children[0] {
		t.Fatalf("ShallowCopy did not share children")
	}
}

func TestInspect_PreOrder(t *testing.T) {
	tree := mdast.Root(
		mdast.Paragraph(mdast.Text("a"), mdast.Reference("1")),
		mdast.Definition("1", mdast.Paragraph(mdast.Text("b"))),
	)
	var got []string
	mdast.Inspect(tree, func(n *mdast.Node) bool {
		got = append(got, n.Type)
		return n.Type != mdast.TypeFootnoteDefinition
	})
	want := []string{"root", "paragraph", "text", "footnoteReference", "footnoteDefinition"}
	if len(got) != len(want) {
		t.Fatalf("Inspect visited %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Inspect[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNode_JSON(t *testing.T) {
	data, err := json.Marshal(mdast.Reference("1"))
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	if got, want := string(data), `{"type":"footnoteReference","identifier":"1","label":"1"}`; got != want {
		t.Fatalf("json = %s, want %s", got, want)
	}
}
