package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/petervdpas/codestudio/internal/chat"
	"github.com/petervdpas/codestudio/internal/config"
	"github.com/petervdpas/codestudio/internal/editor"
	"github.com/petervdpas/codestudio/internal/layout"
	"github.com/petervdpas/codestudio/internal/output"
	"github.com/petervdpas/codestudio/internal/recent"
	"github.com/petervdpas/codestudio/internal/runner"
	"github.com/petervdpas/codestudio/internal/workspace"
)

// SampleName is the file seeded at startup.
const SampleName = "welcome.js"

// SampleContent is the body of the seeded file.
const SampleContent = `// Welcome to CodeStudio!
// A small IDE shell with tabs, a runner and an assistant panel.

console.log("Hello, CodeStudio!");

// Try these features:
// 1. Create new files with Ctrl+N
// 2. Run code with the Run button or Ctrl+R
// 3. Ask the assistant for help
// 4. Resize panels by dragging borders

function greet(name) {
    return ` + "`Hello, ${name}! Welcome to coding!`" + `;
}

const message = greet("Developer");
console.log(message);

// You can also try:
const numbers = [1, 2, 3, 4, 5];
const doubled = numbers.map(n => n * 2);
console.log("Doubled numbers:", doubled);
`

// Shell is the command surface. Every user action goes through one of
// its methods; none of them fails on bad input, they either act or
// ignore it.
type Shell struct {
	ws      *workspace.Workspace
	buf     *editor.Buffer
	ledger  *recent.Ledger
	runner  *runner.Runner
	console *output.Console
	chat    *chat.Manager
	layout  *layout.Layout

	editorCfg config.Editor
	assistant bool

	mu          sync.Mutex
	fileCounter int
}

// ShellDeps are the collaborators of a Shell.
type ShellDeps struct {
	Workspace *workspace.Workspace
	Buffer    *editor.Buffer
	Ledger    *recent.Ledger
	Runner    *runner.Runner
	Console   *output.Console
	Chat      *chat.Manager
	Layout    *layout.Layout

	Editor    config.Editor
	Assistant bool
}

func NewShell(d ShellDeps) *Shell {
	return &Shell{
		ws:          d.Workspace,
		buf:         d.Buffer,
		ledger:      d.Ledger,
		runner:      d.Runner,
		console:     d.Console,
		chat:        d.Chat,
		layout:      d.Layout,
		editorCfg:   d.Editor,
		assistant:   d.Assistant,
		fileCounter: 1,
	}
}

// Start seeds the sample file, activates it and greets in the
// assistant panel.
func (s *Shell) Start() {
	if f, ok := s.ws.AddFile(SampleName, SampleContent, ""); ok {
		s.ws.Select(f.ID)
	}
	if s.assistant {
		s.chat.Greet()
	}
}

// SuggestName is the name pre-filled in the new file dialog.
func (s *Shell) SuggestName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("untitled-%d.js", s.fileCounter)
}

// NewFile creates an empty file and activates it.
func (s *Shell) NewFile(name string) (workspace.FileRecord, bool) {
	f, ok := s.ws.AddFile(name, "", "")
	if !ok {
		return workspace.FileRecord{}, false
	}
	s.mu.Lock()
	s.fileCounter++
	s.mu.Unlock()

	s.ws.Select(f.ID)
	return s.ws.File(f.ID)
}

// Save commits the active file and reports it in the output panel.
func (s *Shell) Save() (workspace.FileRecord, bool) {
	f, ok := s.ws.Save()
	if ok {
		s.console.Append(output.Success, "File saved: "+f.Name)
	}
	return f, ok
}

// Run executes the active file's live content. It blocks until the
// program returns.
func (s *Shell) Run(ctx context.Context) []output.Line {
	f, ok := s.ws.Active()
	if !ok {
		return []output.Line{s.console.Append(output.Error, "No active file to run")}
	}
	code, _ := s.ws.LiveContent(f.ID)

	s.layout.SwitchPanel(layout.PanelOutput)
	return s.runner.Run(ctx, runner.Program{Name: f.Name, Language: f.Language, Code: code})
}

// ClearOutput empties the output panel.
func (s *Shell) ClearOutput() {
	s.console.Clear()
}

func (s *Shell) Rename(id workspace.FileID, name string) bool {
	return s.ws.RenameFile(id, name)
}

func (s *Shell) Delete(id workspace.FileID) bool {
	return s.ws.DeleteFile(id)
}

func (s *Shell) CloseTab(id workspace.FileID) bool {
	return s.ws.CloseTab(id)
}

func (s *Shell) Duplicate(id workspace.FileID) (workspace.FileRecord, bool) {
	return s.ws.DuplicateFile(id)
}

func (s *Shell) Select(id workspace.FileID) bool {
	return s.ws.Select(id)
}

// OpenRecent activates the named file, resurrecting it empty if it is
// no longer open.
func (s *Shell) OpenRecent(name string) (workspace.FileRecord, bool) {
	return s.ws.Open(name)
}

// Edit is the widget's change notification. Text typed against an older
// load is dropped.
func (s *Shell) Edit(version uint64, text string) bool {
	return s.ws.ApplyEdit(func() bool {
		return s.buf.Update(version, text)
	})
}

func (s *Shell) Cursor(p workspace.Position) {
	s.ws.CursorMoved(p)
}

func (s *Shell) Selection(sel workspace.Selection) {
	s.ws.SelectionChanged(sel)
}

func (s *Shell) SwitchPanel(name string) bool {
	return s.layout.SwitchPanel(name)
}

func (s *Shell) ToggleAssistant() bool {
	return s.layout.ToggleAssistant()
}

func (s *Shell) Resize(handle string, x, y, vw, vh int) bool {
	return s.layout.Resize(handle, x, y, vw, vh)
}

// SendChat posts a user message; the canned reply lands later.
func (s *Shell) SendChat(text string) bool {
	if !s.assistant {
		return false
	}
	_, ok := s.chat.Send(text)
	return ok
}

// RunGuide posts the quick-start guide and opens the assistant panel.
func (s *Shell) RunGuide() {
	if !s.assistant {
		return
	}
	s.chat.Guide()
	s.layout.ExpandAssistant()
}

// EditorState is what the widget needs to show the active file.
type EditorState struct {
	Value    string        `json:"value"`
	Language string        `json:"language"`
	Version  uint64        `json:"version"`
	Settings config.Editor `json:"settings"`
}

// State is a full snapshot for a newly connected client.
type State struct {
	View        workspace.View  `json:"view"`
	Editor      EditorState     `json:"editor"`
	Recent      []string        `json:"recent"`
	Layout      layout.State    `json:"layout"`
	Output      []output.Line   `json:"output"`
	Chat        []*chat.Message `json:"chat"`
	Assistant   bool            `json:"assistant"`
	Executors   []string        `json:"executors"`
	SuggestName string          `json:"suggestName"`
}

func (s *Shell) Snapshot() State {
	return State{
		View: s.ws.Snapshot(),
		Editor: EditorState{
			Value:    s.buf.Value(),
			Language: s.buf.Language(),
			Version:  s.buf.Version(),
			Settings: s.editorCfg,
		},
		Recent:      s.ledger.Names(),
		Layout:      s.layout.State(),
		Output:      s.console.Snapshot(),
		Chat:        s.chat.GetMessages(),
		Assistant:   s.assistant,
		Executors:   s.runner.Languages(),
		SuggestName: s.SuggestName(),
	}
}
