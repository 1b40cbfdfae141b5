// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package model

import (
	"time"
)

// Document is one renumbering run over a markdown document.
type Document struct {
	ID               int64     `json:"id"               db:"id"`
	Name             string    `json:"name"             db:"name"` // file name as given on the command line
	SHA256           string    `json:"sha256"           db:"sha256"`
	IgnoreNonnumeric bool      `json:"ignoreNonnumeric" db:"ignore_nonnumeric"`
	Slots            int       `json:"slots"            db:"slots"` // numbers handed out, including inline footnotes
	CreatedAt        time.Time `json:"createdAt"        db:"created_at"`
	Remaps           []*Remap  `json:"remaps,omitempty"`
}

// Remap is one identifier change recorded for a Document.
type Remap struct {
	DocumentID int64  `json:"documentId" db:"document_id"`
	Seq        int    `json:"seq"        db:"seq"` // 1-based, in assignment order
	Original   string `json:"original"   db:"original"`
	Renumbered string `json:"renumbered" db:"renumbered"`
	Orphan     bool   `json:"orphan"     db:"orphan"` // defined but never referenced
}
