package markup

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"keeps inline tags", "<b>hi</b> <em>there</em>", "<b>hi</b> <em>there</em>"},
		{"drops script body", "<b>hi</b><script>alert(1)</script>", "<b>hi</b>"},
		{"drops style body", "<style>p{}</style>ok", "ok"},
		{"unwraps unknown tags", `<div onmouseover="x">Hi &amp; bye</div>`, "Hi &amp; bye"},
		{"strips unsafe href", `<a href="javascript:alert(1)" onclick="x">x</a>`, "<a>x</a>"},
		{"keeps safe href", `<a href="https://x.io/?a=1&b=2">go</a>`, `<a href="https://x.io/?a=1&amp;b=2">go</a>`},
		{"keeps fragment href", `<a href="#top">top</a>`, `<a href="#top">top</a>`},
		{"closes unclosed tags", "<i>unclosed", "<i>unclosed</i>"},
		{"normalizes br", "a<br/>b", "a<br>b"},
		{"ignores stray close", "a</b>b", "ab"},
		{"escapes text", "1 < 2", "1 &lt; 2"},
		{"keeps block and code tags", `<p><s>old</s> <code>x</code> <span class="hl">y</span></p>`, "<p><s>old</s> <code>x</code> <span>y</span></p>"},
		{"unwraps images and tables", `<table><tr><td><img src="x.png">cell</td></tr></table>`, "cell"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestPlain_IsNeverInterpreted(t *testing.T) {
	p := Plain("<b>bold?</b>")
	assert.Equal(t, "&lt;b&gt;bold?&lt;/b&gt;", p.HTML())
	assert.Equal(t, "<b>bold?</b>", p.String())
	require.Len(t, p.Spans(), 1)
	assert.False(t, p.Spans()[0].Bold)
}

func TestStripsControlCharacters(t *testing.T) {
	assert.Equal(t, "a[31mb", Plain("a\x1b[31mb").String())
	assert.Equal(t, "ab", Trusted("a\x1bb").String())
	assert.Equal(t, "line\nnext", Plain("line\nnext").String())
}

func TestTrusted_Spans(t *testing.T) {
	got := Trusted(`<b>Ship</b> the <a href="https://x.io">release</a>`).Spans()
	want := []Span{
		{Text: "Ship", Bold: true},
		{Text: " the "},
		{Text: "release", Href: "https://x.io"},
	}
	assert.Equal(t, want, got)
}

func TestTrusted_StringJoinsParagraphs(t *testing.T) {
	assert.Equal(t, "one\ntwo", Trusted("<p>one</p><p>two</p>").String())
	assert.Equal(t, "a\nb", Trusted("a<br>b").String())
}

func TestIsZeroAndOr(t *testing.T) {
	assert.True(t, Text{}.IsZero())
	assert.True(t, Trusted("<b> </b>").IsZero())
	assert.False(t, Plain("x").IsZero())

	assert.Equal(t, "title", Text{}.Or(Plain("title")).String())
	assert.Equal(t, "rich", Trusted("<i>rich</i>").Or(Plain("title")).String())
}

func TestJSON(t *testing.T) {
	type wrapper struct {
		Content Text `json:"htmlContent"`
	}

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"htmlContent":"<strong>ok</strong><script>x</script>"}`), &w))
	assert.Equal(t, KindTrusted, w.Content.Kind())
	assert.Equal(t, "<strong>ok</strong>", w.Content.HTML())

	data, err := json.Marshal(wrapper{Content: Plain("<b>")})
	require.NoError(t, err)
	var back wrapper
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "<b>", back.Content.String())
}
