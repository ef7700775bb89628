// Package assets serves the browser UI's stylesheet and script, minified
// once at startup.
package assets

import (
	"embed"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"
	"sync"

	logging "github.com/ipfs/go-log/v2"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/js"
)

var log = logging.Logger("codestudio/assets")

//go:embed app.css app.js
var rawFS embed.FS

var (
	once     sync.Once
	minified map[string][]byte
)

func build() {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("application/javascript", js.Minify)

	minified = make(map[string][]byte)
	_ = fs.WalkDir(rawFS, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		raw, err := rawFS.ReadFile(p)
		if err != nil {
			return nil
		}
		mediatype := ""
		switch strings.ToLower(path.Ext(p)) {
		case ".css":
			mediatype = "text/css"
		case ".js":
			mediatype = "application/javascript"
		}
		if mediatype == "" {
			minified[p] = raw
			return nil
		}
		out, err := m.Bytes(mediatype, raw)
		if err != nil {
			log.Warnf("minify %s: %v (using original)", p, err)
			minified[p] = raw
			return nil
		}
		minified[p] = out
		return nil
	})
}

// Bytes returns the served form of name.
func Bytes(name string) ([]byte, bool) {
	once.Do(build)
	b, ok := minified[strings.TrimPrefix(name, "/")]
	return b, ok
}

// Handler serves the assets. Mount it at /assets/ with a StripPrefix.
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/")
		data, ok := Bytes(name)
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", contentTypeForPath(name))
		w.Header().Set("X-Content-Type-Options", "nosniff")
		_, _ = w.Write(data)
	})
}

// contentTypeForPath overrides sniffing for .css/.js so browsers do not
// block them on a MIME mismatch.
func contentTypeForPath(name string) string {
	ext := strings.ToLower(path.Ext(name))
	switch ext {
	case ".css":
		return "text/css; charset=utf-8"
	case ".js":
		return "application/javascript; charset=utf-8"
	}
	if mt := mime.TypeByExtension(ext); mt != "" {
		return mt
	}
	return "application/octet-stream"
}
