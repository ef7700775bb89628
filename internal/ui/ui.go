// Package ui holds the embedded HTML templates of the browser UI.
package ui

import "embed"

//go:embed templates/*.html
var TemplatesFS embed.FS
