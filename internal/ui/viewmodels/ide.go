package viewmodels

import (
	"github.com/petervdpas/codestudio/internal/chat"
	"github.com/petervdpas/codestudio/internal/config"
	"github.com/petervdpas/codestudio/internal/layout"
	"github.com/petervdpas/codestudio/internal/output"
	"github.com/petervdpas/codestudio/internal/workspace"
)

// IDEVM is the server-rendered first paint of the IDE page. The script
// takes over from Boot once the socket is up.
type IDEVM struct {
	BaseVM

	View        workspace.View
	Recent      []string
	Layout      layout.State
	Panels      []string
	Output      []output.Line
	Chat        []*chat.Message
	Assistant   bool
	SuggestName string

	Boot Boot
}

// Boot is handed to app.js as JSON.
type Boot struct {
	WS        string        `json:"ws"`
	Theme     string        `json:"theme"`
	Editor    config.Editor `json:"editor"`
	Executors []string      `json:"executors"`
}

// Panels lists the bottom panels in tab order.
func Panels() []string {
	return []string{layout.PanelOutput, layout.PanelProblems, layout.PanelTerminal}
}
