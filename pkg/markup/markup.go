package markup

import (
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// Untrusted is markup produced by the remote analysis service. It is carried
// verbatim and only becomes displayable through Sanitize.
type Untrusted struct {
	raw string
}

func NewUntrusted(raw string) Untrusted {
	return Untrusted{raw: raw}
}

// Raw returns the payload exactly as received.
func (u Untrusted) Raw() string {
	return u.raw
}

func (u Untrusted) Empty() bool {
	return strings.TrimSpace(u.raw) == ""
}

// Sanitize strips scripts, event handlers and anything outside the UGC
// policy, plus the inline styling plot markup relies on.
func (u Untrusted) Sanitize() template.HTML {
	trimmed := strings.TrimSpace(u.raw)
	if trimmed == "" {
		return ""
	}
	cleaned := strings.TrimSpace(plotPolicy().Sanitize(trimmed))
	return template.HTML(cleaned)
}

func plotPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowElements("div", "span", "svg", "g", "path", "rect", "line", "text", "circle")
		p.AllowAttrs("class", "id").Globally()
		p.AllowAttrs("style").OnElements("div", "span")
		p.AllowAttrs(
			"viewBox", "width", "height", "fill", "stroke", "stroke-width",
			"d", "x", "y", "x1", "y1", "x2", "y2", "cx", "cy", "r",
		).OnElements("svg", "g", "path", "rect", "line", "text", "circle")
		policy = p
	})
	return policy
}
