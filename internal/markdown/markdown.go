// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown renders post bodies to HTML with goldmark and extracts
// the section outline the front end shows next to a post. Raw HTML in the
// source is dropped, so the output is safe to inject as-is.
package markdown

import (
	"bytes"
	"strings"

	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Outline levels. The h1 repeats the post title, so it is left out.
const (
	minOutlineLevel = 2
	maxOutlineLevel = 3
)

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
		highlighting.NewHighlighting(
			highlighting.WithStyle("monokai"),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
)

// Heading is one entry of a post outline. ID matches the anchor id
// rendered on the heading element.
type Heading struct {
	Level int    `json:"level"`
	ID    string `json:"id"`
	Text  string `json:"text"`
}

// Document is a rendered post body.
type Document struct {
	HTML    string
	Outline []Heading
}

// Render parses source once and returns both the HTML and the outline of
// its h2 and h3 headings in document order.
func Render(source string) (Document, error) {
	src := []byte(source)
	doc := md.Parser().Parse(text.NewReader(src))

	outline := []Heading{}
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		h, ok := n.(*ast.Heading)
		if !entering || !ok {
			return ast.WalkContinue, nil
		}
		if h.Level >= minOutlineLevel && h.Level <= maxOutlineLevel {
			outline = append(outline, Heading{
				Level: h.Level,
				ID:    headingID(h),
				Text:  plainText(h, src),
			})
		}
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return Document{}, err
	}

	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, src, doc); err != nil {
		return Document{}, err
	}
	return Document{HTML: buf.String(), Outline: outline}, nil
}

func headingID(h *ast.Heading) string {
	v, ok := h.AttributeString("id")
	if !ok {
		return ""
	}
	switch id := v.(type) {
	case []byte:
		return string(id)
	case string:
		return id
	}
	return ""
}

// plainText concatenates the text under n, dropping inline markup.
func plainText(n ast.Node, src []byte) string {
	var b strings.Builder
	ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
