// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package fnrenum renumbers the footnotes of a markdown document so they
// count up from 1 in the order they are first referenced.
//
// The work is done by package footnotes on mdast trees. The other packages
// parse markdown into those trees, render them as HTML, and keep a history
// of runs.
package fnrenum

import (
	"github.com/maloquacious/semver"
)

var (
	version = semver.Version{
		Major: 0,
		Minor: 1,
		Patch: 0,
		Build: semver.Commit(),
	}
)

func Version() semver.Version {
	return version
}
