// swaggo annotation stubs. The real handlers are the closures passed to
// handleGet/mux.HandleFunc; these functions only carry the comments that
// `swag init` turns into internal/apidocs.
package routes

// logEntry mirrors viewer.LogEntry.
type logEntry struct {
	TS     string `json:"ts"     example:"2026-01-02T15:04:05Z"`
	Level  string `json:"level"  example:"info"`
	Logger string `json:"logger" example:"codestudio/app"`
	Msg    string `json:"msg"    example:"viewer listening"`
}

// outputLine mirrors output.Line.
type outputLine struct {
	ID   string `json:"id"   example:"3f1c9a2e-..."`
	Time string `json:"time" example:"2026-01-02T15:04:05Z"`
	Kind string `json:"kind" example:"success"`
	Text string `json:"text" example:"Result: 2"`
}

// runRow mirrors storage.RunRow.
type runRow struct {
	ID         int64  `json:"id"          example:"17"`
	FileName   string `json:"file_name"   example:"welcome.js"`
	Language   string `json:"language"    example:"javascript"`
	Outcome    string `json:"outcome"     example:"ok"`
	DurationMS int64  `json:"duration_ms" example:"4"`
	StartedAt  string `json:"started_at"  example:"2026-01-02T15:04:05Z"`
}

// swagState documents GET /api/state.
//
//	@Summary	Workspace snapshot
//	@Description	Tabs, tree, status bar, editor buffer, recent files, layout, output and chat in one document.
//	@Tags		workspace
//	@Produce	json
//	@Success	200	{object}	object
//	@Failure	503	{string}	string	"workspace not ready"
//	@Router		/api/state [get]
func swagState() {}

// swagOutput documents GET /api/output.
//
//	@Summary	Output panel lines
//	@Tags		output
//	@Produce	json
//	@Success	200	{array}	outputLine
//	@Router		/api/output [get]
func swagOutput() {}

// swagOutputStream documents GET /api/output/stream.
//
//	@Summary	Output panel tail (SSE)
//	@Description	Server-Sent Events named "output", one per new line. No snapshot.
//	@Tags		output
//	@Produce	text/event-stream
//	@Success	200	{string}	string
//	@Router		/api/output/stream [get]
func swagOutputStream() {}

// swagLogs documents GET /api/logs.
//
//	@Summary	Process log tail
//	@Tags		logs
//	@Produce	json
//	@Success	200	{array}	logEntry
//	@Router		/api/logs [get]
func swagLogs() {}

// swagLogsStream documents GET /api/logs/stream.
//
//	@Summary	Process log stream (SSE)
//	@Tags		logs
//	@Produce	text/event-stream
//	@Success	200	{string}	string
//	@Router		/api/logs/stream [get]
func swagLogsStream() {}

// swagRuns documents GET /api/runs.
//
//	@Summary	Run history
//	@Description	Most recent runs first.
//	@Tags		runner
//	@Produce	json
//	@Param		limit	query	int	false	"maximum rows (default 50)"
//	@Success	200	{array}	runRow
//	@Failure	500	{string}	string
//	@Router		/api/runs [get]
func swagRuns() {}
