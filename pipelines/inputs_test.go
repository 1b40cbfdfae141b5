// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package pipelines_test

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mdhender/fnrenum/pipelines"
	"github.com/spf13/afero"
)

func TestCollectInputs(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, name := range []string{"b.md", "a.markdown", "notes.txt", ".hidden.md", "C.MD", "sub/d.md"} {
		if err := afero.WriteFile(fs, filepath.Join("/docs", name), []byte("x\n"), 0o644); err != nil {
			t.Fatalf("WriteFile(%s): %v", name, err)
		}
	}

	got, err := pipelines.CollectInputs(fs, "/docs", false)
	if err != nil {
		t.Fatalf("CollectInputs: %v", err)
	}
	want := []string{
		filepath.Join("/docs", "C.MD"),
		filepath.Join("/docs", "a.markdown"),
		filepath.Join("/docs", "b.md"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("CollectInputs mismatch (-want +got):\n%s", diff)
	}

	// a file is taken as given, whatever its name
	got, err = pipelines.CollectInputs(fs, "/docs/notes.txt", false)
	if err != nil {
		t.Fatalf("CollectInputs(file): %v", err)
	}
	if diff := cmp.Diff([]string{"/docs/notes.txt"}, got); diff != "" {
		t.Fatalf("CollectInputs(file) mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectInputs_Missing(t *testing.T) {
	_, err := pipelines.CollectInputs(afero.NewMemMapFs(), "/nope", false)
	if err == nil {
		t.Fatalf("CollectInputs(missing): want error")
	}
	if got := pipelines.ErrorCode(err); got != pipelines.ErrCodeReadFile {
		t.Fatalf("ErrorCode = %q, want %q", got, pipelines.ErrCodeReadFile)
	}
}

func TestIsMarkdownFile(t *testing.T) {
	for _, tc := range []struct {
		name string
		want bool
	}{
		{"notes.md", true},
		{"NOTES.Markdown", true},
		{"skip.txt", false},
		{".hidden.md", false},
		{"md", false},
		{"", false},
	} {
		if got := pipelines.IsMarkdownFile(tc.name); got != tc.want {
			t.Errorf("IsMarkdownFile(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}
