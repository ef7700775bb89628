// Package layout tracks the panel arrangement: which bottom panel is
// showing, whether the assistant panel is collapsed, and panel sizes.
package layout

import "sync"

// Bottom panels
const (
	PanelOutput   = "output"
	PanelProblems = "problems"
	PanelTerminal = "terminal"
)

// Resize handles
const (
	HandleLeft   = "left"
	HandleRight  = "right"
	HandleBottom = "bottom"
)

// Size limits in pixels.
const (
	LeftMin, LeftMax     = 200, 400
	RightMin, RightMax   = 250, 500
	BottomMin, BottomMax = 100, 400
)

// State is a snapshot of the layout.
type State struct {
	BottomPanel        string `json:"bottomPanel"`
	AssistantCollapsed bool   `json:"assistantCollapsed"`
	LeftWidth          int    `json:"leftWidth"`
	RightWidth         int    `json:"rightWidth"`
	BottomHeight       int    `json:"bottomHeight"`
}

// Default is the layout at startup.
func Default() State {
	return State{
		BottomPanel:  PanelOutput,
		LeftWidth:    250,
		RightWidth:   300,
		BottomHeight: 200,
	}
}

// Layout is safe for concurrent use.
type Layout struct {
	mu       sync.Mutex
	state    State
	onChange func(State)
}

func New(onChange func(State)) *Layout {
	return &Layout{state: Default(), onChange: onChange}
}

func (l *Layout) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// SwitchPanel shows the named bottom panel. Unknown names are ignored.
func (l *Layout) SwitchPanel(name string) bool {
	switch name {
	case PanelOutput, PanelProblems, PanelTerminal:
	default:
		return false
	}
	l.update(func(s *State) { s.BottomPanel = name })
	return true
}

// ToggleAssistant flips the assistant panel and returns the new
// collapsed flag.
func (l *Layout) ToggleAssistant() bool {
	var collapsed bool
	l.update(func(s *State) {
		s.AssistantCollapsed = !s.AssistantCollapsed
		collapsed = s.AssistantCollapsed
	})
	return collapsed
}

// ExpandAssistant opens the assistant panel if it is collapsed.
func (l *Layout) ExpandAssistant() {
	l.mu.Lock()
	collapsed := l.state.AssistantCollapsed
	l.mu.Unlock()
	if collapsed {
		l.update(func(s *State) { s.AssistantCollapsed = false })
	}
}

// Resize applies one drag update. x and y are the pointer position and
// vw, vh the viewport size. Unknown handles are ignored.
func (l *Layout) Resize(handle string, x, y, vw, vh int) bool {
	switch handle {
	case HandleLeft:
		l.update(func(s *State) { s.LeftWidth = clamp(x, LeftMin, LeftMax) })
	case HandleRight:
		l.update(func(s *State) { s.RightWidth = clamp(vw-x, RightMin, RightMax) })
	case HandleBottom:
		l.update(func(s *State) { s.BottomHeight = clamp(vh-y, BottomMin, BottomMax) })
	default:
		return false
	}
	return true
}

func (l *Layout) update(fn func(*State)) {
	l.mu.Lock()
	fn(&l.state)
	s := l.state
	l.mu.Unlock()

	if l.onChange != nil {
		l.onChange(s)
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
