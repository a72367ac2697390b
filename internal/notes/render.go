package notes

import (
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

// sanitizer strips anything the UGC policy disallows from rendered note
// bodies. Policies are safe for concurrent use after construction.
var sanitizer = bluemonday.UGCPolicy()

// RenderTextHTML converts a note body from markdown to sanitized HTML.
// Plain text passes through as paragraphs, so callers can render every
// note body with the same path.
func RenderTextHTML(text string) string {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse([]byte(text))

	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank,
	})
	raw := markdown.Render(doc, renderer)

	return string(sanitizer.SanitizeBytes(raw))
}
