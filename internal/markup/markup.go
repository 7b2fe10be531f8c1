// Package markup holds rich text attached to tasks, goals and checkout
// messages. A Text is either plain (never interpreted) or trusted markup that
// has been reduced to a small allow-list of inline tags.
package markup

import (
	"encoding/json"
	"html"
	"strings"
)

// Kind tags the origin of a Text.
type Kind uint8

const (
	KindPlain Kind = iota
	KindTrusted
)

// Text is a tagged rich-text value. The zero value is empty plain text.
type Text struct {
	kind Kind
	raw  string
}

// Plain wraps user-typed text. It is escaped on every output path.
func Plain(s string) Text {
	return Text{kind: KindPlain, raw: s}
}

// Trusted wraps markup from the data source after sanitizing it.
func Trusted(s string) Text {
	return Text{kind: KindTrusted, raw: Sanitize(s)}
}

func (t Text) Kind() Kind { return t.kind }

// IsZero reports whether the text carries no visible content.
func (t Text) IsZero() bool {
	return strings.TrimSpace(t.String()) == ""
}

// HTML renders the text as safe HTML.
func (t Text) HTML() string {
	if t.kind == KindPlain {
		return html.EscapeString(stripControl(t.raw))
	}
	return t.raw
}

// String returns the visible characters with all markup removed.
func (t Text) String() string {
	if t.kind == KindPlain {
		return stripControl(t.raw)
	}
	var b strings.Builder
	for _, s := range t.Spans() {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Spans splits the text into styled runs for terminal rendering.
func (t Text) Spans() []Span {
	if t.kind == KindPlain {
		if t.raw == "" {
			return nil
		}
		return []Span{{Text: stripControl(t.raw)}}
	}
	return spans(t.raw)
}

// MarshalJSON emits the HTML form, matching the htmlContent wire field.
func (t Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.HTML())
}

// UnmarshalJSON treats incoming content as trusted markup and sanitizes it.
func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = Trusted(s)
	return nil
}

// Or returns t when it has content, otherwise fallback.
func (t Text) Or(fallback Text) Text {
	if t.IsZero() {
		return fallback
	}
	return t
}

func stripControl(s string) string {
	clean := true
	for _, r := range s {
		if isControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}
	return strings.Map(func(r rune) rune {
		if isControl(r) {
			return -1
		}
		return r
	}, s)
}

func isControl(r rune) bool {
	if r == '\n' || r == '\t' {
		return false
	}
	return r < 0x20 || r == 0x7f || (r >= 0x80 && r <= 0x9f)
}
