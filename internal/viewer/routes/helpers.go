package routes

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/petervdpas/codestudio/internal/ui/viewmodels"
)

func baseVM(title, active, contentTmpl string, d Deps) viewmodels.BaseVM {
	return viewmodels.BaseVM{
		Title:       title,
		Active:      active,
		ContentTmpl: contentTmpl,
		BaseURL:     d.BaseURL,
		Theme:       d.Theme,
		Debug:       d.Debug,
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(v)
}

func handleGet(mux *http.ServeMux, pattern string, fn http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		fn(w, r)
	})
}

// queryInt reads a non-negative integer query parameter, falling back
// to def when it is absent or malformed.
func queryInt(r *http.Request, key string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 0 {
		return def
	}
	return n
}
