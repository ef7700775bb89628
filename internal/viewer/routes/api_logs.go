package routes

import "net/http"

func registerAPILogRoutes(mux *http.ServeMux, d Deps) {
	if d.Logs != nil {
		mux.HandleFunc("/api/logs", d.Logs.ServeLogsJSON)
		mux.HandleFunc("/api/logs/stream", d.Logs.ServeLogsSSE)
	}
	if d.Output != nil {
		mux.HandleFunc("/api/output", d.Output.ServeJSON)
		mux.HandleFunc("/api/output/stream", d.Output.ServeSSE)
	}
}
