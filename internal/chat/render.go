package chat

import (
	"bytes"
	"html"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Raw HTML in messages is dropped, never passed through.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(highlighting.WithStyle("monokai")),
	),
	goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
)

// Render converts message markdown to HTML. On failure the escaped text
// is returned in a paragraph.
func Render(content string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		log.Warnf("render message: %v", err)
		return "<p>" + html.EscapeString(content) + "</p>"
	}
	return buf.String()
}
