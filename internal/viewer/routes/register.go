package routes

import (
	"net/http"

	"github.com/petervdpas/codestudio/internal/storage"
	"github.com/petervdpas/codestudio/internal/ui/viewmodels"
)

// Logs is the process log tail.
type Logs interface {
	ServeLogsJSON(w http.ResponseWriter, r *http.Request)
	ServeLogsSSE(w http.ResponseWriter, r *http.Request)
}

// Output is the output panel buffer.
type Output interface {
	ServeJSON(w http.ResponseWriter, r *http.Request)
	ServeSSE(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	BaseURL string
	Theme   string
	Debug   bool

	// Page builds the first paint of the IDE.
	Page func() viewmodels.IDEVM
	// State is the full JSON snapshot served at /api/state.
	State func() any

	Logs   Logs
	Output Output
	Runs   func(limit int) ([]storage.RunRow, error)
}

func Register(mux *http.ServeMux, d Deps) {
	registerHomeRoutes(mux, d)
	registerAPILogRoutes(mux, d)
	registerRunRoutes(mux, d)
	registerDocsRoutes(mux)
}
