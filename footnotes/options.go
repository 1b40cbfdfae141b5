// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package footnotes

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Options configures the transform.
type Options struct {
	// IgnoreNonnumericFootnotes leaves identifiers that are not all digits
	// untouched. They do not take a number either.
	IgnoreNonnumericFootnotes bool `json:"ignoreNonnumericFootnotes"`
}

// DecodeOptions reads Options from a JSON document.
// Unknown keys are rejected and an empty document yields the defaults.
func DecodeOptions(r io.Reader) (Options, error) {
	var opts Options
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		if errors.Is(err, io.EOF) {
			return Options{}, nil
		}
		return Options{}, fmt.Errorf("footnotes: options: %w", err)
	}
	return opts, nil
}
