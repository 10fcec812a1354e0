package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUntrusted_RawIsVerbatim(t *testing.T) {
	raw := `<div id="plot"><script>alert(1)</script></div>`
	u := NewUntrusted(raw)

	assert.Equal(t, raw, u.Raw())
	assert.False(t, u.Empty())
}

func TestUntrusted_Sanitize(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		contains    []string
		notContains []string
	}{
		{
			name:        "drops script",
			raw:         `<div id="plot">chart<script>alert(1)</script></div>`,
			contains:    []string{`<div id="plot">`, "chart"},
			notContains: []string{"script", "alert"},
		},
		{
			name:        "drops event handlers",
			raw:         `<div onclick="steal()" class="plot">x</div>`,
			contains:    []string{`class="plot"`},
			notContains: []string{"onclick", "steal"},
		},
		{
			name:     "keeps svg paths",
			raw:      `<svg viewBox="0 0 10 10"><path d="M0 0L10 10"></path></svg>`,
			contains: []string{"<svg", `d="M0 0L10 10"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := string(NewUntrusted(tt.raw).Sanitize())
			for _, want := range tt.contains {
				assert.True(t, strings.Contains(out, want), "expected %q in %q", want, out)
			}
			for _, unwanted := range tt.notContains {
				assert.False(t, strings.Contains(out, unwanted), "unexpected %q in %q", unwanted, out)
			}
		})
	}
}

func TestUntrusted_EmptySanitizesToEmpty(t *testing.T) {
	u := NewUntrusted("   ")
	assert.True(t, u.Empty())
	assert.Equal(t, "", string(u.Sanitize()))
}
