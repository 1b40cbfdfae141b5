// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package pipelines

import (
	"log"
	"path/filepath"
	"regexp"

	"github.com/spf13/afero"
)

var (
	// markdown files have names ending in .md or .markdown.
	rxMarkdownFile = regexp.MustCompile(`(?i)^[^.].*\.(md|markdown)$`)
)

// IsMarkdownFile reports whether name looks like a markdown file. Hidden
// files never do.
func IsMarkdownFile(name string) bool {
	return rxMarkdownFile.MatchString(name)
}

// CollectInputs returns the markdown files to process for path.
//
// A file is returned as is. A directory is scanned (not recursively) for
// files that look like markdown; the result is sorted by name.
func CollectInputs(fs afero.Fs, path string, debug bool) ([]string, error) {
	fi, err := fs.Stat(path)
	if err != nil {
		return nil, &ErrReadFile{Path: path, Err: err}
	} else if !fi.IsDir() {
		return []string{path}, nil
	}

	entries, err := afero.ReadDir(fs, path)
	if err != nil {
		return nil, &ErrReadFile{Path: path, Err: err}
	}
	var inputs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		} else if !IsMarkdownFile(entry.Name()) {
			if debug {
				log.Printf("inputs: %q: not a markdown file\n", entry.Name())
			}
			continue
		}
		inputs = append(inputs, filepath.Join(path, entry.Name()))
	}
	return inputs, nil
}
