// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package footnotes renumbers footnotes so that identifiers appear in
// ascending order of first appearance in the rendered text.
//
// The transform runs in three phases. Collect finds the footnote nodes in
// document order, Assign builds a Mapping from old identifiers to new ones,
// and Apply rewrites the tree. Renumber runs all three.
package footnotes

import (
	"github.com/mdhender/fnrenum/mdast"
)

// TransformFunc is the shape of a tree transform in a pipeline.
type TransformFunc func(root *mdast.Node) (*mdast.Node, error)

// Renumber returns a copy of the tree with footnote identifiers rewritten.
// The input tree is not modified; subtrees without footnotes are shared.
func Renumber(root *mdast.Node, opts Options) (*mdast.Node, error) {
	m, err := Plan(root, opts)
	if err != nil {
		return nil, err
	}
	return Apply(root, m), nil
}

// Plan collects the footnote nodes and assigns new identifiers without
// rewriting the tree.
func Plan(root *mdast.Node, opts Options) (*Mapping, error) {
	nodes, err := Collect(root)
	if err != nil {
		return nil, err
	}
	return Assign(nodes, opts), nil
}

// Transform returns Renumber bound to the options.
func Transform(opts Options) TransformFunc {
	return func(root *mdast.Node) (*mdast.Node, error) {
		return Renumber(root, opts)
	}
}
