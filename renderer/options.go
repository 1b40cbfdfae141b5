// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package renderer

import "fmt"

type Option func(p *Renderer) error

// WithBackrefs controls the link from each footnote back to its reference.
func WithBackrefs(flag bool) Option {
	return func(p *Renderer) error {
		p.backrefs = flag
		return nil
	}
}

// WithBackrefLabel sets the text of the back-reference link.
func WithBackrefLabel(label string) Option {
	return func(p *Renderer) error {
		if label == "" {
			return fmt.Errorf("renderer: empty backref label")
		}
		p.backrefLabel = label
		return nil
	}
}
