// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package handlers serves previews of renumbered markdown documents.
package handlers

import (
	"context"
	"log"
	"net/http"
	"path/filepath"

	"github.com/mdhender/fnrenum"
	"github.com/mdhender/fnrenum/model"
	"github.com/mdhender/fnrenum/pipelines"
	"github.com/mdhender/fnrenum/web/templates"
	"github.com/spf13/afero"
)

// HistoryStore defines the store operations needed by the history page.
type HistoryStore interface {
	Documents(ctx context.Context) ([]*model.Document, error)
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	fs       afero.Fs
	dir      string
	pipeline *pipelines.Pipeline
	history  HistoryStore
}

// New creates a new Handlers serving the markdown files in dir. The history
// store may be nil.
func New(fs afero.Fs, dir string, pipeline *pipelines.Pipeline, history HistoryStore) *Handlers {
	return &Handlers{fs: fs, dir: dir, pipeline: pipeline, history: history}
}

// Routes returns a mux with every handler registered.
func (h *Handlers) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.Index)
	mux.HandleFunc("/doc/{name}", h.Document)
	mux.HandleFunc("/history", h.History)
	return mux
}

func (h *Handlers) layoutData(r *http.Request, title string) templates.LayoutData {
	return templates.LayoutData{
		Title:       title,
		CurrentPath: r.URL.Path,
		Version:     fnrenum.Version().String(),
		HasHistory:  h.history != nil,
	}
}

func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	inputs, err := pipelines.CollectInputs(h.fs, h.dir, false)
	if err != nil {
		log.Printf("handlers: index: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	names := make([]string, 0, len(inputs))
	for _, input := range inputs {
		names = append(names, filepath.Base(input))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.IndexPage(h.layoutData(r, "Documents"), names).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handlers) Document(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// only markdown files directly in the served directory
	name := r.PathValue("name")
	if name != filepath.Base(name) || !pipelines.IsMarkdownFile(name) {
		http.NotFound(w, r)
		return
	}

	result, err := h.pipeline.ProcessFile(r.Context(), filepath.Join(h.dir, name))
	if err != nil {
		switch pipelines.ErrorCode(err) {
		case pipelines.ErrCodeReadFile:
			http.NotFound(w, r)
		case pipelines.ErrCodeParse, pipelines.ErrCodeRenumber:
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			log.Printf("handlers: document %q: %v", name, err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	doc := templates.DocumentData{
		Name:        name,
		SHA256:      result.SHA256,
		HTML:        result.HTML,
		Remaps:      result.Mapping.Remaps(),
		Diagnostics: result.Diagnostics,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.DocumentPage(h.layoutData(r, name), doc).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handlers) History(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.history == nil {
		http.NotFound(w, r)
		return
	}

	docs, err := h.history.Documents(r.Context())
	if err != nil {
		log.Printf("handlers: history: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.HistoryPage(h.layoutData(r, "History"), docs).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
