// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package renderer

import (
	"sort"
	"strconv"

	"github.com/mdhender/fnrenum/mdast"
)

// note is one item in the footnote list at the end of the document.
type note struct {
	id      string
	content []*mdast.Node
	order   int // document order, used for non-numeric ids
}

// notes is the footnote list for a document, plus the identifiers given to
// inline footnotes, which have none of their own.
type notes struct {
	items  []*note
	inline map[*mdast.Node]string
}

// collectNotes gathers definitions and inline footnotes, including inline
// footnotes written inside a definition.
//
// An inline footnote gets the lowest positive number not already used by a
// definition or an earlier inline footnote. The first definition of an
// identifier wins. Items are ordered by number, then non-numeric
// identifiers in document order.
func collectNotes(root *mdast.Node) *notes {
	ns := &notes{inline: map[*mdast.Node]string{}}
	used := map[string]bool{}
	var inlines []*mdast.Node

	inline := func(n *mdast.Node) bool {
		switch n.Type {
		case mdast.TypeFootnote:
			inlines = append(inlines, n)
			return false
		case mdast.TypeFootnoteDefinition:
			return false
		}
		return true
	}
	mdast.Inspect(root, func(n *mdast.Node) bool {
		if n.Type != mdast.TypeFootnoteDefinition {
			return inline(n)
		}
		if !used[n.Identifier] {
			used[n.Identifier] = true
			ns.items = append(ns.items, &note{id: n.Identifier, content: n.Children, order: len(ns.items)})
		}
		// inline footnotes in the body still need a number
		for _, ch := range n.Children {
			mdast.Inspect(ch, inline)
		}
		return false
	})

	next := 1
	for _, n := range inlines {
		for used[strconv.Itoa(next)] {
			next++
		}
		id := strconv.Itoa(next)
		used[id] = true
		ns.inline[n] = id
		ns.items = append(ns.items, &note{id: id, content: n.Children, order: len(ns.items)})
	}

	sort.SliceStable(ns.items, func(i, j int) bool {
		a, aok := number(ns.items[i].id)
		b, bok := number(ns.items[j].id)
		switch {
		case aok && bok:
			return a < b
		case aok != bok:
			return aok
		}
		return ns.items[i].order < ns.items[j].order
	})

	return ns
}

func number(id string) (int, bool) {
	n, err := strconv.Atoi(id)
	if err != nil || n < 0 || id[0] == '+' {
		return 0, false
	}
	return n, true
}
