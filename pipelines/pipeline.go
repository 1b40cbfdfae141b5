// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package pipelines runs markdown documents through the footnote
// renumbering stages: read, parse, convert, renumber, diagnose, render, and
// record.
package pipelines

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"time"

	"github.com/mdhender/fnrenum/adapters"
	"github.com/mdhender/fnrenum/footnotes"
	"github.com/mdhender/fnrenum/mdast"
	"github.com/mdhender/fnrenum/model"
	"github.com/mdhender/fnrenum/parsers"
	"github.com/mdhender/fnrenum/renderer"
	"github.com/spf13/afero"
)

// Recorder defines the store operations needed by a Pipeline.
type Recorder interface {
	RecordRun(ctx context.Context, doc *model.Document, remaps []*model.Remap) (int64, error)
}

// Pipeline renumbers the footnotes in markdown documents.
type Pipeline struct {
	fs       afero.Fs
	recorder Recorder
	opts     footnotes.Options
	parser   *parsers.Parser
	renderer *renderer.Renderer
}

type Option func(p *Pipeline) error

// WithFs sets the file system inputs are read from and outputs written to.
func WithFs(fs afero.Fs) Option {
	return func(p *Pipeline) error {
		if fs == nil {
			return fmt.Errorf("pipelines: nil file system")
		}
		p.fs = fs
		return nil
	}
}

// WithRecorder records every successful run.
func WithRecorder(r Recorder) Option {
	return func(p *Pipeline) error {
		p.recorder = r
		return nil
	}
}

func WithOptions(opts footnotes.Options) Option {
	return func(p *Pipeline) error {
		p.opts = opts
		return nil
	}
}

func WithParser(parser *parsers.Parser) Option {
	return func(p *Pipeline) error {
		if parser == nil {
			return fmt.Errorf("pipelines: nil parser")
		}
		p.parser = parser
		return nil
	}
}

func WithRenderer(r *renderer.Renderer) Option {
	return func(p *Pipeline) error {
		if r == nil {
			return fmt.Errorf("pipelines: nil renderer")
		}
		p.renderer = r
		return nil
	}
}

// New returns a pipeline that reads from the OS file system, parses with
// the default parser, renders with the default renderer, and records
// nothing.
func New(options ...Option) (*Pipeline, error) {
	p := &Pipeline{fs: afero.NewOsFs()}
	for _, option := range options {
		if err := option(p); err != nil {
			return nil, err
		}
	}
	if p.parser == nil {
		parser, err := parsers.New()
		if err != nil {
			return nil, err
		}
		p.parser = parser
	}
	if p.renderer == nil {
		r, err := renderer.New()
		if err != nil {
			return nil, err
		}
		p.renderer = r
	}
	return p, nil
}

// Result is the outcome of running one document through the pipeline.
type Result struct {
	Name        string
	SHA256      string // of the input as read, before line endings are normalized
	Source      []byte // normalized source; positions in the trees refer to it
	Tree        *mdast.Node
	Renumbered  *mdast.Node
	Mapping     *footnotes.Mapping
	Diagnostics []footnotes.Diagnostic
	HTML        []byte
	DocumentID  int64 // zero when no recorder is set
}

// ProcessFile reads and processes one file.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*Result, error) {
	data, err := afero.ReadFile(p.fs, path)
	if err != nil {
		return nil, &ErrReadFile{Path: path, Err: err}
	}
	return p.ProcessBytes(ctx, path, data)
}

// ProcessBytes processes a document held in memory. The name is used in
// errors and in the run history.
func (p *Pipeline) ProcessBytes(ctx context.Context, name string, src []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sum := sha256.Sum256(src)
	result := &Result{
		Name:   name,
		SHA256: hex.EncodeToString(sum[:]),
	}

	doc := p.parser.Parse(src)
	result.Source = doc.Source

	tree, err := adapters.GoldmarkToMdast(doc)
	if err != nil {
		return nil, &ErrParse{Name: name, Err: err}
	}
	result.Tree = tree

	m, err := footnotes.Plan(tree, p.opts)
	if err != nil {
		return nil, &ErrRenumber{Name: name, Err: err}
	}
	result.Mapping = m
	result.Renumbered = footnotes.Apply(tree, m)

	result.Diagnostics, err = footnotes.Diagnose(tree, p.opts)
	if err != nil {
		return nil, &ErrRenumber{Name: name, Err: err}
	}

	result.HTML, err = p.renderer.RenderHTML(ctx, result.Renumbered)
	if err != nil {
		return nil, &ErrRender{Name: name, Err: err}
	}

	if p.recorder != nil {
		rec := &model.Document{
			Name:             filepath.Base(name),
			SHA256:           result.SHA256,
			IgnoreNonnumeric: p.opts.IgnoreNonnumericFootnotes,
			Slots:            m.Slots(),
			CreatedAt:        time.Now().UTC(),
		}
		var remaps []*model.Remap
		for _, r := range m.Remaps() {
			remaps = append(remaps, &model.Remap{
				Original:   r.Original,
				Renumbered: r.Renumbered,
				Orphan:     r.Orphan,
			})
		}
		result.DocumentID, err = p.recorder.RecordRun(ctx, rec, remaps)
		if err != nil {
			return nil, &ErrDatabase{Op: "record run", Err: err}
		}
	}

	return result, nil
}

// Outcome is the result of one input in a batch.
type Outcome struct {
	Path      string
	Result    *Result // nil on failure
	Err       error
	ErrorCode string
}

// ProcessAll processes each path in order. A failing input does not stop
// the batch; its error is reported in its Outcome. Only a canceled context
// ends the batch early.
func (p *Pipeline) ProcessAll(ctx context.Context, paths []string) ([]Outcome, error) {
	var outcomes []Outcome
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		result, err := p.ProcessFile(ctx, path)
		outcome := Outcome{Path: path, Result: result}
		if err != nil {
			outcome.Err, outcome.ErrorCode = err, ErrorCode(err)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// WriteFile writes data to path, creating the parent directory if needed.
func (p *Pipeline) WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := p.fs.MkdirAll(dir, 0o755); err != nil {
			return &ErrWriteFile{Op: "mkdir", Path: dir, Err: err}
		}
	}
	if err := afero.WriteFile(p.fs, path, data, 0o644); err != nil {
		return &ErrWriteFile{Op: "write", Path: path, Err: err}
	}
	return nil
}
