// Package lang maps file names to editor language tags.
package lang

import "strings"

// Plaintext is the fallback language for unmapped extensions.
const Plaintext = "plaintext"

var byExtension = map[string]string{
	"js":   "javascript",
	"ts":   "typescript",
	"py":   "python",
	"html": "html",
	"css":  "css",
	"json": "json",
	"md":   "markdown",
	"txt":  Plaintext,
	"cpp":  "cpp",
	"c":    "c",
	"java": "java",
	"php":  "php",
	"rb":   "ruby",
	"go":   "go",
	"rs":   "rust",
	"lua":  "lua",
}

var displayNames = map[string]string{
	"javascript": "JavaScript",
	"typescript": "TypeScript",
	"python":     "Python",
	"html":       "HTML",
	"css":        "CSS",
	"json":       "JSON",
	"markdown":   "Markdown",
	Plaintext:    "Plain Text",
	"cpp":        "C++",
	"c":          "C",
	"java":       "Java",
	"php":        "PHP",
	"ruby":       "Ruby",
	"go":         "Go",
	"rust":       "Rust",
	"lua":        "Lua",
}

// ext returns the lower-cased text after the last dot. A name without a
// dot is returned whole.
func ext(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToLower(name)
}

// Infer returns the language tag for a file name, or Plaintext.
func Infer(name string) string {
	if l, ok := byExtension[ext(name)]; ok {
		return l
	}
	return Plaintext
}

// DisplayName returns the status bar label for a language tag. Unknown
// tags are returned unchanged.
func DisplayName(language string) string {
	if n, ok := displayNames[language]; ok {
		return n
	}
	return language
}

// Extension returns the extension used to pick a file tree icon.
func Extension(name string) string {
	if e := ext(name); e != "" {
		return e
	}
	return "txt"
}

// CopyName returns the name used for a duplicate: "<base>_copy<ext>".
// The extension is the last dot-suffix, if any.
func CopyName(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return name + "_copy"
	}
	return name[:i] + "_copy" + name[i:]
}
