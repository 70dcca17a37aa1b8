package conv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkdownToTelegramHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "success line",
			input:    "✅ **AR content dropped**",
			expected: "✅ <strong>AR content dropped</strong>\n",
		},
		{
			name:     "label with code value",
			input:    "**Mode**  ›  `scan`",
			expected: "<strong>Mode</strong>  ›  <code>scan</code>\n",
		},
		{
			name:     "headings are stripped",
			input:    "# Nearby",
			expected: "Nearby\n",
		},
		{
			name:     "script removed",
			input:    "<script>alert('xss')</script>",
			expected: "\n",
		},
		{
			name:     "usage block",
			input:    "```\n/pos <lat> <lng>\n```",
			expected: "<pre><code>/pos &lt;lat&gt; &lt;lng&gt;\n</code></pre>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, MarkdownToTelegramHTML([]byte(tt.input)))
		})
	}
}

func TestMarkdownToText(t *testing.T) {
	out := MarkdownToText([]byte("📍 **Nearby AR Content (1)**\n\n› `1` \"hi\" by _ana_ (#00ff88) · 12 m\n"))

	assert.Contains(t, out, "Nearby AR Content (1)")
	assert.Contains(t, out, `"hi" by`)
	assert.Contains(t, out, "12 m")
	assert.NotContains(t, out, "<strong>")
	assert.NotContains(t, out, "`")
}

func TestMarkdownToText_KeepsTypedPunctuation(t *testing.T) {
	out := MarkdownToText([]byte(`"meet here" -- 1/2 way... don't`))

	assert.Equal(t, `"meet here" -- 1/2 way... don't`, out)
}
