// Package output is the output panel: a bounded, timestamped line log with
// live subscribers.
package output

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/petervdpas/codestudio/internal/util"
)

// Kind tags an output line.
type Kind string

const (
	Info    Kind = "info"
	Success Kind = "success"
	Warning Kind = "warning"
	Error   Kind = "error"
)

// Line is one output panel entry.
type Line struct {
	ID   string    `json:"id"`
	Time time.Time `json:"time"`
	Kind Kind      `json:"kind"`
	Text string    `json:"text"`
}

// Stamp formats the line time the way the panel shows it.
func (l Line) Stamp() string {
	return l.Time.Format("15:04:05")
}

// Console holds the output panel lines.
type Console struct {
	mu        sync.Mutex
	lines     *util.RingBuffer[Line]
	subs      map[chan Line]struct{}
	listeners map[int]func(Line)
	nextL     int
	now       func() time.Time

	// held while listeners run so they see lines in append order
	deliver sync.Mutex
}

func NewConsole(max int) *Console {
	if max <= 0 {
		max = 500
	}
	return &Console{
		lines: util.NewRingBuffer[Line](max),
		subs:      make(map[chan Line]struct{}),
		listeners: make(map[int]func(Line)),
		now:       time.Now,
	}
}

// Append adds a line and returns it.
func (c *Console) Append(kind Kind, text string) Line {
	l := Line{
		ID:   uuid.NewString(),
		Time: c.now(),
		Kind: kind,
		Text: text,
	}

	c.deliver.Lock()
	defer c.deliver.Unlock()

	c.mu.Lock()
	c.lines.Push(l)
	for ch := range c.subs {
		select {
		case ch <- l:
		default:
			// drop on slow subscriber
		}
	}
	fns := make([]func(Line), 0, len(c.listeners))
	for i := 0; i < c.nextL; i++ {
		if fn, ok := c.listeners[i]; ok {
			fns = append(fns, fn)
		}
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(l)
	}
	return l
}

// OnAppend registers fn to receive every line as it is appended. fn runs
// on the appending goroutine, so no line is ever skipped; it must not
// append to c.
func (c *Console) OnAppend(fn func(Line)) (cancel func()) {
	c.mu.Lock()
	id := c.nextL
	c.nextL++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// AppendAll adds lines in order.
func (c *Console) AppendAll(lines []Line) {
	for _, l := range lines {
		c.Append(l.Kind, l.Text)
	}
}

func (c *Console) Snapshot() []Line {
	return c.lines.Snapshot()
}

// Clear empties the panel.
func (c *Console) Clear() {
	c.mu.Lock()
	c.lines.Reset()
	c.mu.Unlock()
}

// Subscribe returns a buffered channel of new lines. A subscriber that
// falls behind loses lines; use OnAppend when every line matters.
func (c *Console) Subscribe() (ch chan Line, cancel func()) {
	ch = make(chan Line, 64)

	c.mu.Lock()
	c.subs[ch] = struct{}{}
	c.mu.Unlock()

	cancel = func() {
		c.mu.Lock()
		if _, ok := c.subs[ch]; ok {
			delete(c.subs, ch)
			close(ch)
		}
		c.mu.Unlock()
	}
	return ch, cancel
}

// ServeJSON serves the current lines.
func (c *Console) ServeJSON(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(c.Snapshot())
}

// ServeSSE streams new lines as Server-Sent Events. Tail only.
func (c *Console) ServeSSE(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := c.Subscribe()
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case l, ok := <-ch:
			if !ok {
				return
			}
			b, _ := json.Marshal(l)
			_, _ = w.Write([]byte("event: output\n"))
			_, _ = w.Write([]byte("data: " + string(b) + "\n\n"))
			flusher.Flush()
		}
	}
}
