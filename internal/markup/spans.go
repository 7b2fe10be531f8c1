package markup

import (
	"strings"

	xhtml "golang.org/x/net/html"
)

// Span is a run of text sharing one style.
type Span struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
	Strike    bool
	Code      bool
	Href      string
}

func (s Span) sameStyle(o Span) bool {
	return s.Bold == o.Bold && s.Italic == o.Italic && s.Underline == o.Underline &&
		s.Strike == o.Strike && s.Code == o.Code && s.Href == o.Href
}

// spans walks already-sanitized markup.
func spans(sanitized string) []Span {
	z := xhtml.NewTokenizer(strings.NewReader(sanitized))
	var out []Span
	var bold, italic, underline, strike, code int
	var links []string

	emit := func(text string) {
		if text == "" {
			return
		}
		s := Span{
			Text:      text,
			Bold:      bold > 0,
			Italic:    italic > 0,
			Underline: underline > 0,
			Strike:    strike > 0,
			Code:      code > 0,
		}
		if len(links) > 0 {
			s.Href = links[len(links)-1]
		}
		if n := len(out); n > 0 && out[n-1].sameStyle(s) {
			out[n-1].Text += s.Text
			return
		}
		out = append(out, s)
	}

	adjust := func(tag string, delta int) {
		switch tag {
		case "b", "strong":
			bold += delta
		case "i", "em":
			italic += delta
		case "u":
			underline += delta
		case "s":
			strike += delta
		case "code":
			code += delta
		}
	}

	for {
		tt := z.Next()
		if tt == xhtml.ErrorToken {
			break
		}
		switch tt {
		case xhtml.TextToken:
			emit(string(z.Text()))
		case xhtml.StartTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			switch tag {
			case "br":
				emit("\n")
			case "a":
				href := ""
				for hasAttr {
					var k, v []byte
					k, v, hasAttr = z.TagAttr()
					if string(k) == "href" {
						href = string(v)
					}
				}
				links = append(links, href)
			default:
				adjust(tag, 1)
			}
		case xhtml.SelfClosingTagToken:
			name, _ := z.TagName()
			if string(name) == "br" {
				emit("\n")
			}
		case xhtml.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			switch tag {
			case "a":
				if len(links) > 0 {
					links = links[:len(links)-1]
				}
			case "p":
				emit("\n")
			default:
				adjust(tag, -1)
			}
		}
	}

	// trailing paragraph breaks carry no information
	for len(out) > 0 {
		last := &out[len(out)-1]
		trimmed := strings.TrimRight(last.Text, "\n")
		if trimmed != "" {
			last.Text = trimmed
			break
		}
		out = out[:len(out)-1]
	}
	return out
}
