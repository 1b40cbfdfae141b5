// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package handlers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mdhender/fnrenum/model"
	"github.com/mdhender/fnrenum/pipelines"
	"github.com/mdhender/fnrenum/web/handlers"
	"github.com/spf13/afero"
)

func newServer(t *testing.T, withHistory bool) (*httptest.Server, *model.Store) {
	t.Helper()
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"/docs/notes.md":  "Text[^b] and[^a].\n\n[^a]: Alpha\n\n[^b]: Beta\n",
		"/docs/readme.md": "No notes here.\n",
		"/docs/skip.txt":  "not markdown\n",
	}
	for name, text := range files {
		if err := afero.WriteFile(fs, name, []byte(text), 0o644); err != nil {
			t.Fatalf("WriteFile(%s): %v", name, err)
		}
	}

	options := []pipelines.Option{pipelines.WithFs(fs)}
	var store *model.Store
	var history handlers.HistoryStore
	if withHistory {
		var err error
		store, err = model.NewStore(context.Background(), ":memory:")
		if err != nil {
			t.Fatalf("NewStore: %v", err)
		}
		t.Cleanup(func() { _ = store.Close() })
		options = append(options, pipelines.WithRecorder(store))
		history = store
	}
	p, err := pipelines.New(options...)
	if err != nil {
		t.Fatalf("pipelines.New: %v", err)
	}

	srv := httptest.NewServer(handlers.New(fs, "/docs", p, history).Routes())
	t.Cleanup(srv.Close)
	return srv, store
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("GET %s: read body: %v", url, err)
	}
	return resp.StatusCode, string(body)
}

func TestIndex(t *testing.T) {
	srv, _ := newServer(t, false)

	code, body := get(t, srv.URL+"/")
	if code != http.StatusOK {
		t.Fatalf("GET /: status %d, want %d", code, http.StatusOK)
	}
	for _, want := range []string{`<a href="/doc/notes.md">notes.md</a>`, `<a href="/doc/readme.md">readme.md</a>`} {
		if !strings.Contains(body, want) {
			t.Errorf("GET /: body missing %q", want)
		}
	}
	if strings.Contains(body, "skip.txt") {
		t.Errorf("GET /: lists skip.txt")
	}
	if strings.Contains(body, `href="/history"`) {
		t.Errorf("GET /: links to history without a store")
	}

	if code, _ := get(t, srv.URL+"/nope"); code != http.StatusNotFound {
		t.Errorf("GET /nope: status %d, want %d", code, http.StatusNotFound)
	}
}

func TestDocument(t *testing.T) {
	srv, store := newServer(t, true)

	code, body := get(t, srv.URL+"/doc/notes.md")
	if code != http.StatusOK {
		t.Fatalf("GET /doc/notes.md: status %d, want %d", code, http.StatusOK)
	}
	for _, want := range []string{
		`Text<sup id="fnref-1"><a href="#fn-1" class="footnote-ref">1</a></sup>`,
		`<li id="fn-1">Beta<a href="#fnref-1" class="footnote-backref">↩</a></li>`,
		`<tr><td>b</td><td>1</td><td>false</td></tr>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("GET /doc/notes.md: body missing %q", want)
		}
	}

	docs, err := store.Documents(context.Background())
	if err != nil {
		t.Fatalf("Documents: %v", err)
	}
	if len(docs) != 1 || docs[0].Name != "notes.md" {
		t.Fatalf("Documents = %+v, want one run for notes.md", docs)
	}

	code, body = get(t, srv.URL+"/history")
	if code != http.StatusOK {
		t.Fatalf("GET /history: status %d, want %d", code, http.StatusOK)
	}
	if !strings.Contains(body, "<td>notes.md</td>") {
		t.Errorf("GET /history: body missing notes.md")
	}

	for _, path := range []string{"/doc/missing.md", "/doc/.hidden.md", "/doc/skip.txt", "/doc/..%2Fetc%2Fpasswd"} {
		if code, _ := get(t, srv.URL+path); code != http.StatusNotFound {
			t.Errorf("GET %s: status %d, want %d", path, code, http.StatusNotFound)
		}
	}
}

func TestHistory_NoStore(t *testing.T) {
	srv, _ := newServer(t, false)
	if code, _ := get(t, srv.URL+"/history"); code != http.StatusNotFound {
		t.Fatalf("GET /history: status %d, want %d", code, http.StatusNotFound)
	}
}
