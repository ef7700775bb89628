package routes

import (
	"net/http"

	"github.com/swaggo/swag"

	"github.com/petervdpas/codestudio/internal/apidocs"
)

func registerDocsRoutes(mux *http.ServeMux) {
	handleGet(mux, "/api/docs/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		doc, err := swag.ReadDoc(apidocs.SwaggerInfo.InstanceName())
		if err != nil {
			http.Error(w, "api docs unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(doc))
	})
}
