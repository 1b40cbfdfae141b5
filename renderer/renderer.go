// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package renderer renders mdast trees to HTML.
//
// References become superscript links and definitions are moved to an
// ordered list at the end of the document:
//
//	<sup id="fnref-1"><a href="#fn-1" class="footnote-ref">1</a></sup>
//	...
//	<div class="footnotes">
//	<hr>
//	<ol>
//	<li id="fn-1">Note<a href="#fnref-1" class="footnote-backref">↩</a></li>
//	</ol>
//	</div>
package renderer

import (
	"bytes"
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
	templruntime "github.com/a-h/templ/runtime"
	"github.com/mdhender/fnrenum/mdast"
)

type Renderer struct {
	backrefs     bool
	backrefLabel string
}

func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		backrefs:     true,
		backrefLabel: "↩",
	}
	for _, option := range options {
		err := option(r)
		if err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Render writes the document as HTML.
func (r *Renderer) Render(ctx context.Context, w io.Writer, root *mdast.Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.Document(root).Render(ctx, w)
}

// RenderHTML returns the document as HTML.
func (r *Renderer) RenderHTML(ctx context.Context, root *mdast.Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(ctx, &buf, root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Document returns a component that renders the whole tree followed by
// the footnote list.
func (r *Renderer) Document(root *mdast.Node) templ.Component {
	return templruntime.GeneratedTemplate(func(templ_7745c5c3_Input templruntime.GeneratedComponentInput) (templ_7745c5c3_Err error) {
		templ_7745c5c3_W, ctx := templ_7745c5c3_Input.Writer, templ_7745c5c3_Input.Context
		if templ_7745c5c3_CtxErr := ctx.Err(); templ_7745c5c3_CtxErr != nil {
			return templ_7745c5c3_CtxErr
		}
		templ_7745c5c3_Buffer, templ_7745c5c3_IsBuffer := templruntime.GetBuffer(templ_7745c5c3_W)
		if !templ_7745c5c3_IsBuffer {
			defer func() {
				templ_7745c5c3_BufErr := templruntime.ReleaseBuffer(templ_7745c5c3_Buffer)
				if templ_7745c5c3_Err == nil {
					templ_7745c5c3_Err = templ_7745c5c3_BufErr
				}
			}()
		}
		ctx = templ.InitializeContext(ctx)
		if root == nil {
			return nil
		}
		ns := collectNotes(root)
		templ_7745c5c3_Err = r.content(ns, root).Render(ctx, templ_7745c5c3_Buffer)
		if templ_7745c5c3_Err != nil {
			return templ_7745c5c3_Err
		}
		if len(ns.items) != 0 {
			templ_7745c5c3_Err = r.footnoteList(ns).Render(ctx, templ_7745c5c3_Buffer)
			if templ_7745c5c3_Err != nil {
				return templ_7745c5c3_Err
			}
		}
		return nil
	})
}

// footnoteList renders the ordered list of notes at the end of the document.
func (r *Renderer) footnoteList(ns *notes) templ.Component {
	return templruntime.GeneratedTemplate(func(templ_7745c5c3_Input templruntime.GeneratedComponentInput) (templ_7745c5c3_Err error) {
		templ_7745c5c3_W, ctx := templ_7745c5c3_Input.Writer, templ_7745c5c3_Input.Context
		if templ_7745c5c3_CtxErr := ctx.Err(); templ_7745c5c3_CtxErr != nil {
			return templ_7745c5c3_CtxErr
		}
		templ_7745c5c3_Buffer, templ_7745c5c3_IsBuffer := templruntime.GetBuffer(templ_7745c5c3_W)
		if !templ_7745c5c3_IsBuffer {
			defer func() {
				templ_7745c5c3_BufErr := templruntime.ReleaseBuffer(templ_7745c5c3_Buffer)
				if templ_7745c5c3_Err == nil {
					templ_7745c5c3_Err = templ_7745c5c3_BufErr
				}
			}()
		}
		ctx = templ.InitializeContext(ctx)
		_, templ_7745c5c3_Err = templ_7745c5c3_Buffer.WriteString("<div class=\"footnotes\">\n<hr>\n<ol>\n")
		if templ_7745c5c3_Err != nil {
			return templ_7745c5c3_Err
		}
		for _, item := range ns.items {
			_, templ_7745c5c3_Err = templ_7745c5c3_Buffer.WriteString("<li id=\"")
			if templ_7745c5c3_Err != nil {
				return templ_7745c5c3_Err
			}
			_, templ_7745c5c3_Err = templ_7745c5c3_Buffer.WriteString(templ.EscapeString("fn-" + item.id))
			if templ_7745c5c3_Err != nil {
				return templ_7745c5c3_Err
			}
			_, templ_7745c5c3_Err = templ_7745c5c3_Buffer.WriteString("\">")
			if templ_7745c5c3_Err != nil {
				return templ_7745c5c3_Err
			}
			templ_7745c5c3_Err = r.noteBody(ns, item).Render(ctx, templ_7745c5c3_Buffer)
			if templ_7745c5c3_Err != nil {
				return templ_7745c5c3_Err
			}
			if r.backrefs {
				_, templ_7745c5c3_Err = templ_7745c5c3_Buffer.WriteString("<a href=\"")
				if templ_7745c5c3_Err != nil {
					return templ_7745c5c3_Err
				}
				var templ_7745c5c3_Var1 templ.SafeURL = templ.URL("#fnref-" + item.id)
				_, templ_7745c5c3_Err = templ_7745c5c3_Buffer.WriteString(templ.EscapeString(string(templ_7745c5c3_Var1)))
				if templ_7745c5c3_Err != nil {
					return templ_7745c5c3_Err
				}
				_, templ_7745c5c3_Err = templ_7745c5c3_Buffer.WriteString("\" class=\"footnote-backref\">")
				if templ_7745c5c3_Err != nil {
					return templ_7745c5c3_Err
				}
				_, templ_7745c5c3_Err = templ_7745c5c3_Buffer.WriteString(templ.EscapeString(r.backrefLabel))
				if templ_7745c5c3_Err != nil {
					return templ_7745c5c3_Err
				}
				_, templ_7745c5c3_Err = templ_7745c5c3_Buffer.WriteString("</a>")
				if templ_7745c5c3_Err != nil {
					return templ_7745c5c3_Err
				}
			}
			_, templ_7745c5c3_Err = templ_7745c5c3_Buffer.WriteString("</li>\n")
			if templ_7745c5c3_Err != nil {
				return templ_7745c5c3_Err
			}
		}
		_, templ_7745c5c3_Err = templ_7745c5c3_Buffer.WriteString("</ol>\n</div>\n")
		if templ_7745c5c3_Err != nil {
			return templ_7745c5c3_Err
		}
		return nil
	})
}

// content renders the tree without its definitions.
func (r *Renderer) content(ns *notes, root *mdast.Node) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w, notes: ns}
		if root.IsParent() {
			r.blocks(hw, root.Children)
		} else {
			r.node(hw, root)
		}
		return hw.err
	})
}

// noteBody renders the content of one note. A single paragraph is written
// without its wrapper.
func (r *Renderer) noteBody(ns *notes, item *note) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w, notes: ns}
		if len(item.content) == 1 && item.content[0].Type == mdast.TypeParagraph {
			r.inlines(hw, item.content[0].Children)
		} else if isInline(item.content) {
			r.inlines(hw, item.content)
		} else {
			hw.write("\n")
			r.blocks(hw, item.content)
		}
		return hw.err
	})
}

// htmlWriter holds the first write error so the node walkers stay simple.
type htmlWriter struct {
	w     io.Writer
	notes *notes
	err   error
}

func (hw *htmlWriter) write(ss ...string) {
	for _, s := range ss {
		if hw.err != nil {
			return
		}
		_, hw.err = io.WriteString(hw.w, s)
	}
}

// blocks renders block children, one per line. Definitions are rendered in
// the footer instead.
func (r *Renderer) blocks(hw *htmlWriter, nodes []*mdast.Node) {
	for _, n := range nodes {
		if n == nil || n.Type == mdast.TypeFootnoteDefinition {
			continue
		}
		r.node(hw, n)
		hw.write("\n")
	}
}

func (r *Renderer) inlines(hw *htmlWriter, nodes []*mdast.Node) {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		r.node(hw, n)
	}
}

func (r *Renderer) node(hw *htmlWriter, n *mdast.Node) {
	switch n.Type {
	case mdast.TypeParagraph:
		hw.write("<p>")
		r.inlines(hw, n.Children)
		hw.write("</p>")
	case mdast.TypeHeading:
		tag := "h" + strconv.Itoa(clamp(n.Depth, 1, 6))
		hw.write("<", tag, ">")
		r.inlines(hw, n.Children)
		hw.write("</", tag, ">")
	case mdast.TypeText:
		hw.write(templ.EscapeString(n.Value))
	case mdast.TypeEmphasis:
		r.wrap(hw, "em", n)
	case mdast.TypeStrong:
		r.wrap(hw, "strong", n)
	case mdast.TypeDelete:
		r.wrap(hw, "del", n)
	case mdast.TypeInlineCode:
		hw.write("<code>", templ.EscapeString(n.Value), "</code>")
	case mdast.TypeCode:
		hw.write("<pre><code")
		if n.Lang != "" {
			hw.write(" class=\"language-", templ.EscapeString(n.Lang), "\"")
		}
		hw.write(">", templ.EscapeString(n.Value))
		if n.Value != "" {
			hw.write("\n")
		}
		hw.write("</code></pre>")
	case mdast.TypeLink:
		hw.write("<a href=\"", templ.EscapeString(string(templ.URL(n.URL))), "\"")
		if n.Title != "" {
			hw.write(" title=\"", templ.EscapeString(n.Title), "\"")
		}
		hw.write(">")
		r.inlines(hw, n.Children)
		hw.write("</a>")
	case mdast.TypeImage:
		hw.write("<img src=\"", templ.EscapeString(string(templ.URL(n.URL))), "\" alt=\"", templ.EscapeString(n.Alt), "\"")
		if n.Title != "" {
			hw.write(" title=\"", templ.EscapeString(n.Title), "\"")
		}
		hw.write(">")
	case mdast.TypeList:
		tag := "ul"
		if n.Ordered {
			tag = "ol"
			if n.Start > 1 {
				hw.write("<ol start=\"", strconv.Itoa(n.Start), "\">\n")
			} else {
				hw.write("<ol>\n")
			}
		} else {
			hw.write("<ul>\n")
		}
		r.blocks(hw, n.Children)
		hw.write("</", tag, ">")
	case mdast.TypeListItem:
		hw.write("<li>")
		if len(n.Children) == 1 && n.Children[0].Type == mdast.TypeParagraph {
			r.inlines(hw, n.Children[0].Children)
		} else {
			hw.write("\n")
			r.blocks(hw, n.Children)
		}
		hw.write("</li>")
	case mdast.TypeBlockquote:
		hw.write("<blockquote>\n")
		r.blocks(hw, n.Children)
		hw.write("</blockquote>")
	case mdast.TypeThematicBreak:
		hw.write("<hr>")
	case mdast.TypeBreak:
		hw.write("<br>\n")
	case mdast.TypeHTML:
		hw.write(n.Value)
	case mdast.TypeFootnoteReference:
		label := n.Label
		if label == "" {
			label = n.Identifier
		}
		r.footnoteRef(hw, n.Identifier, label)
	case mdast.TypeFootnote:
		id := hw.notes.inline[n]
		r.footnoteRef(hw, id, id)
	case mdast.TypeFootnoteDefinition:
		// rendered in the footer
	default:
		if n.IsParent() {
			r.inlines(hw, n.Children)
		} else {
			hw.write(templ.EscapeString(n.Value))
		}
	}
}

func (r *Renderer) wrap(hw *htmlWriter, tag string, n *mdast.Node) {
	hw.write("<", tag, ">")
	r.inlines(hw, n.Children)
	hw.write("</", tag, ">")
}

func (r *Renderer) footnoteRef(hw *htmlWriter, id, label string) {
	id = templ.EscapeString(id)
	hw.write("<sup id=\"fnref-", id, "\"><a href=\"#fn-", id, "\" class=\"footnote-ref\">", templ.EscapeString(label), "</a></sup>")
}

// isInline reports whether nodes can be written without a block wrapper.
func isInline(nodes []*mdast.Node) bool {
	for _, n := range nodes {
		switch n.Type {
		case mdast.TypeParagraph, mdast.TypeHeading, mdast.TypeList, mdast.TypeBlockquote,
			mdast.TypeCode, mdast.TypeThematicBreak, mdast.TypeFootnoteDefinition:
			return false
		}
	}
	return true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
