// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package footnotes

import (
	"fmt"

	"github.com/mdhender/fnrenum/mdast"
)

// MissingIdentifierError is returned when a footnote reference or definition
// has no identifier. The parser should never produce one.
type MissingIdentifierError struct {
	Type     string
	Position *mdast.Position
}

func (e *MissingIdentifierError) Error() string {
	if e.Position != nil {
		return fmt.Sprintf("%d:%d: %s: missing identifier", e.Position.Start.Line, e.Position.Start.Column, e.Type)
	}
	return fmt.Sprintf("%s: missing identifier", e.Type)
}
