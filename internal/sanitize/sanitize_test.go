package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextEscapesMarkup(t *testing.T) {
	got := Text(`<b>"hi" & 'bye'</b>`)
	assert.Equal(t, "&lt;b&gt;&#34;hi&#34; &amp; &#39;bye&#39;&lt;/b&gt;", got)
	assert.NotContains(t, got, "<")
	assert.NotContains(t, got, ">")
}

func TestTextIdempotent(t *testing.T) {
	inputs := []string{
		"plain text",
		`<script>alert(1)</script>`,
		"already &amp; escaped &lt;tag&gt;",
		`mixed & <raw> with &quot;entities&quot;`,
		"",
	}
	for _, in := range inputs {
		once := Text(in)
		assert.Equal(t, once, Text(once), "input %q", in)
	}
}

func TestBlockedPatterns(t *testing.T) {
	blocked := []string{
		Text("<script>alert(1)</script> hi"),
		Text("<script src=x>"),
		Text("click javascript:alert(1)"),
		Text("vbscript:msgbox"),
		Text("data:text/html;base64,xxx"),
		Text(`<img onerror=alert(1)>`),
		Text("onclick me"),
		Text("ONLOAD shouting"),
	}
	for _, s := range blocked {
		assert.True(t, Blocked(s), "expected blocked: %q", s)
	}

	allowed := []string{
		Text("hello world"),
		Text("I <3 this stream"),
		Text("tickets & prices"),
		Text("describe the script of the play"),
	}
	for _, s := range allowed {
		assert.False(t, Blocked(s), "expected allowed: %q", s)
	}
}

func TestIdentifier(t *testing.T) {
	require.Equal(t, "webinar", Identifier("  webinar "))
	require.Equal(t, "scriptalert(1)/script", Identifier("<script>alert(1)</script>"))
	require.Equal(t, "", Identifier("  "))

	long := make([]byte, 100)
	for i := range long {
		long[i] = 'a'
	}
	require.Len(t, Identifier(string(long)), 64)
}
