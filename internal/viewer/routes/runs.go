package routes

import (
	"fmt"
	"net/http"

	"github.com/petervdpas/codestudio/internal/storage"
)

func registerRunRoutes(mux *http.ServeMux, d Deps) {
	handleGet(mux, "/api/runs", func(w http.ResponseWriter, r *http.Request) {
		if d.Runs == nil {
			writeJSON(w, []storage.RunRow{})
			return
		}
		rows, err := d.Runs(queryInt(r, "limit", 50))
		if err != nil {
			http.Error(w, fmt.Sprintf("list runs: %v", err), http.StatusInternalServerError)
			return
		}
		if rows == nil {
			rows = []storage.RunRow{}
		}
		writeJSON(w, rows)
	})
}
