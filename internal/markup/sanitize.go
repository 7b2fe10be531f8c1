package markup

import (
	"html"
	"io"
	"net/url"
	"strings"

	xhtml "golang.org/x/net/html"
)

// allowed inline tags
var allowedTags = map[string]bool{
	"b": true, "strong": true,
	"i": true, "em": true,
	"u": true, "s": true,
	"a": true, "br": true,
	"p": true, "span": true, "code": true,
}

// tags whose body is dropped entirely
var droppedTags = map[string]bool{
	"script": true, "style": true, "iframe": true,
	"object": true, "noscript": true, "template": true,
}

// Sanitize reduces s to the allow-listed tags. Attributes are removed except
// href on links with an http, https, mailto or fragment target.
func Sanitize(s string) string {
	z := xhtml.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	skip := 0
	var open []string

	for {
		tt := z.Next()
		if tt == xhtml.ErrorToken {
			if z.Err() != io.EOF {
				return html.EscapeString(stripControl(s))
			}
			break
		}

		switch tt {
		case xhtml.TextToken:
			if skip > 0 {
				continue
			}
			b.WriteString(html.EscapeString(stripControl(string(z.Text()))))

		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			if droppedTags[tag] {
				if tt == xhtml.StartTagToken {
					skip++
				}
				continue
			}
			if skip > 0 || !allowedTags[tag] {
				continue
			}
			if tag == "br" {
				b.WriteString("<br>")
				continue
			}
			if tag == "a" {
				href := ""
				for hasAttr {
					var k, v []byte
					k, v, hasAttr = z.TagAttr()
					if string(k) == "href" && safeHref(string(v)) {
						href = string(v)
					}
				}
				if href != "" {
					b.WriteString(`<a href="` + html.EscapeString(href) + `">`)
				} else {
					b.WriteString("<a>")
				}
			} else {
				b.WriteString("<" + tag + ">")
			}
			if tt == xhtml.StartTagToken {
				open = append(open, tag)
			} else {
				b.WriteString("</" + tag + ">")
			}

		case xhtml.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if droppedTags[tag] {
				if skip > 0 {
					skip--
				}
				continue
			}
			if skip > 0 || !allowedTags[tag] || tag == "br" {
				continue
			}
			// close only tags that are open, innermost first
			for i := len(open) - 1; i >= 0; i-- {
				if open[i] != tag {
					continue
				}
				for j := len(open) - 1; j >= i; j-- {
					b.WriteString("</" + open[j] + ">")
				}
				open = open[:i]
				break
			}
		}
	}

	for i := len(open) - 1; i >= 0; i-- {
		b.WriteString("</" + open[i] + ">")
	}
	return b.String()
}

func safeHref(href string) bool {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "#") {
		return true
	}
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "mailto":
		return true
	}
	return false
}
