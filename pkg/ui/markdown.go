package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Markdown renders entity descriptions to sanitized HTML.
type Markdown struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewMarkdown() *Markdown {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Table,
			extension.Strikethrough,
			extension.TaskList,
			extension.Linkify,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "span", "div", "pre")

	return &Markdown{md: md, policy: policy}
}

// ToHTML converts src and strips anything the policy does not allow.
func (m *Markdown) ToHTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}
	return m.policy.Sanitize(buf.String()), nil
}

// Description renders an optional description for a template. Conversion
// failures fall back to the escaped source text.
func (m *Markdown) Description(desc *string) template.HTML {
	if desc == nil || strings.TrimSpace(*desc) == "" {
		return ""
	}
	out, err := m.ToHTML(*desc)
	if err != nil {
		return template.HTML(template.HTMLEscapeString(*desc))
	}
	return template.HTML(out)
}
