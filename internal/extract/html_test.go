package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text untouched",
			in:   "Hello Jane,\n\nI would love to join Acme.",
			want: "Hello Jane,\n\nI would love to join Acme.",
		},
		{
			name: "comparison is not markup",
			in:   "Salary < 50k and > 40k",
			want: "Salary < 50k and > 40k",
		},
		{
			name: "paragraphs lists and breaks",
			in:   `<p>Hello Jane,</p><p>I would love to <strong>join</strong> Acme &amp; Co.</p><ul><li>Go</li><li>SQL</li></ul><p>Best,<br>Sam</p>`,
			want: "Hello Jane,\n\nI would love to join Acme & Co.\n\n- Go\n- SQL\n\nBest,\nSam",
		},
		{
			name: "indented markup",
			in:   "<div>\n  <p>Bonjour,</p>\n  <p>Merci.</p>\n</div>",
			want: "Bonjour,\n\nMerci.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.in))
		})
	}
}

func TestLooksLikeHTML(t *testing.T) {
	assert.True(t, LooksLikeHTML("<p>x</p>"))
	assert.True(t, LooksLikeHTML("line<br/>break"))
	assert.True(t, LooksLikeHTML(`<a href="https://acme.example">Acme</a>`))
	assert.False(t, LooksLikeHTML("if a<10 then b>2"))
	assert.False(t, LooksLikeHTML("Subject: Hi\n\nBody"))
}
