// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package footnotes

import (
	"strconv"

	"github.com/mdhender/fnrenum/mdast"
)

// Remap is one entry in a Mapping.
type Remap struct {
	Original   string `json:"original"`
	Renumbered string `json:"renumbered"`
	Orphan     bool   `json:"orphan,omitempty"` // definition with no reference
}

// Mapping maps original footnote identifiers to their new identifiers.
// Identifiers that are not in the mapping are left unchanged.
type Mapping struct {
	remaps []Remap
	index  map[string]int
	slots  int
}

// Lookup returns the new identifier for an original identifier.
func (m *Mapping) Lookup(identifier string) (string, bool) {
	if m == nil {
		return "", false
	}
	i, ok := m.index[identifier]
	if !ok {
		return "", false
	}
	return m.remaps[i].Renumbered, true
}

// Len returns the number of identifiers that will be rewritten.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.remaps)
}

// Remaps returns a copy of the entries in the order they were assigned.
func (m *Mapping) Remaps() []Remap {
	if m == nil {
		return nil
	}
	return append([]Remap(nil), m.remaps...)
}

// Slots returns the number of sequence numbers handed out, including the
// ones consumed by inline footnotes.
func (m *Mapping) Slots() int {
	if m == nil {
		return 0
	}
	return m.slots
}

func (m *Mapping) assign(identifier string, orphan bool) {
	m.slots++
	m.index[identifier] = len(m.remaps)
	m.remaps = append(m.remaps, Remap{
		Original:   identifier,
		Renumbered: strconv.Itoa(m.slots),
		Orphan:     orphan,
	})
}

// Assign numbers the collected footnote nodes.
//
// References are numbered in order of first appearance. Inline footnotes
// take a number but have no identifier to record. Definitions that nothing
// references are numbered last, in the order the definitions appear.
func Assign(nodes []*mdast.Node, opts Options) *Mapping {
	m := &Mapping{index: make(map[string]int)}

	for _, n := range nodes {
		switch roleOf(n) {
		case roleDefinition, roleOpaque:
			continue
		case roleInline:
			m.slots++
		case roleReference:
			if opts.IgnoreNonnumericFootnotes && !IsNumeric(n.Identifier) {
				continue
			}
			if _, ok := m.index[n.Identifier]; !ok {
				m.assign(n.Identifier, false)
			}
		}
	}

	for _, n := range nodes {
		if roleOf(n) != roleDefinition {
			continue
		} else if opts.IgnoreNonnumericFootnotes && !IsNumeric(n.Identifier) {
			continue
		}
		// two definitions may share an identifier
		if _, ok := m.index[n.Identifier]; !ok {
			m.assign(n.Identifier, true)
		}
	}

	return m
}

// IsNumeric reports whether s is one or more ASCII decimal digits.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
