package routes

import (
	"net/http"

	"github.com/petervdpas/codestudio/internal/ui/render"
)

func registerHomeRoutes(mux *http.ServeMux, d Deps) {
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if d.Page == nil {
			http.Error(w, "workspace not ready", http.StatusServiceUnavailable)
			return
		}
		vm := d.Page()
		vm.BaseVM = baseVM("CodeStudio", "ide", "page.ide", d)
		render.Render(w, vm)
	})

	handleGet(mux, "/api/state", func(w http.ResponseWriter, r *http.Request) {
		if d.State == nil {
			http.Error(w, "workspace not ready", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, d.State())
	})
}
