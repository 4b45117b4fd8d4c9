// Package components holds the reusable HTML fragments of the web UI.
// Fragments are returned by htmx endpoints on their own and composed by
// the full pages.
package components

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Markup writes HTML fragments to w, remembering the first error.
type Markup struct {
	ctx context.Context
	w   io.Writer
	err error
}

func NewMarkup(ctx context.Context, w io.Writer) *Markup {
	return &Markup{ctx: ctx, w: w}
}

// Raw writes s unescaped.
func (m *Markup) Raw(s string) {
	if m.err == nil {
		_, m.err = io.WriteString(m.w, s)
	}
}

// Text writes s HTML-escaped; safe in element bodies and quoted attributes.
func (m *Markup) Text(s string) {
	m.Raw(templ.EscapeString(s))
}

func (m *Markup) Textf(format string, args ...any) {
	m.Text(fmt.Sprintf(format, args...))
}

func (m *Markup) Render(c templ.Component) {
	if m.err == nil && c != nil {
		m.err = c.Render(m.ctx, m.w)
	}
}

func (m *Markup) Err() error { return m.err }

func (m *Markup) Context() context.Context { return m.ctx }

// Component adapts a Markup-writing func into a templ.Component.
func Component(fn func(m *Markup)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := NewMarkup(ctx, w)
		fn(m)
		return m.Err()
	})
}
