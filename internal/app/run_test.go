package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	logging "github.com/ipfs/go-log/v2"

	"github.com/petervdpas/codestudio/internal/config"
	"github.com/petervdpas/codestudio/internal/storage"
	"github.com/petervdpas/codestudio/internal/viewer"
	"github.com/petervdpas/codestudio/internal/workspace"
)

type client struct {
	t      *testing.T
	conn   *websocket.Conn
	nextID int
	notes  []string
}

type reply struct {
	ID     int             `json:"id"`
	Method string          `json:"method"`
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// call sends one request and reads until its response, remembering the
// notifications that arrive in between.
func (c *client) call(method string, params any) reply {
	c.t.Helper()
	c.nextID++
	id := c.nextID
	if err := c.conn.WriteJSON(map[string]any{"id": id, "method": method, "params": params}); err != nil {
		c.t.Fatalf("write %s: %v", method, err)
	}
	for {
		_ = c.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var r reply
		if err := c.conn.ReadJSON(&r); err != nil {
			c.t.Fatalf("read %s: %v", method, err)
		}
		if r.Method != "" {
			c.notes = append(c.notes, r.Method)
			continue
		}
		if r.ID == id {
			return r
		}
	}
}

func (c *client) sawNote(method string) bool {
	for _, n := range c.notes {
		if n == method {
			return true
		}
	}
	return false
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Recent.Store = config.StoreJSON
	cfg.Recent.Watch = false
	cfg.Storage.RunHistory = 5
	cfg.Assistant.ReplyDelayMS = 1
	cfg.Runner.Languages = []string{"javascript", "lua"}
	return cfg
}

func startRuntime(t *testing.T, cfg config.Config) (*runtime, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	rt, err := build(ctx, t.TempDir(), cfg, viewer.NewLogBuffer(50))
	if err != nil {
		cancel()
		t.Fatalf("build: %v", err)
	}
	h, err := viewer.Handler(rt.viewer("http://test"))
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(h)
	t.Cleanup(func() {
		srv.Close()
		cancel()
		rt.Close()
	})
	return rt, srv
}

func dialRuntime(t *testing.T, srv *httptest.Server) *client {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return &client{t: t, conn: conn}
}

func TestRuntimeOverSocket(t *testing.T) {
	_, srv := startRuntime(t, testConfig())
	c := dialRuntime(t, srv)

	var st State
	r := c.call("state", nil)
	if err := json.Unmarshal(r.Result, &st); err != nil {
		t.Fatalf("state: %v", err)
	}
	if len(st.View.Tabs) != 1 || st.View.Tabs[0].Name != SampleName {
		t.Fatalf("tabs = %+v", st.View.Tabs)
	}
	if strings.Join(st.Executors, ",") != "javascript,lua" {
		t.Errorf("executors = %v", st.Executors)
	}

	var created fileResult
	r = c.call("newFile", map[string]string{"name": "calc.lua"})
	if err := json.Unmarshal(r.Result, &created); err != nil || !created.OK {
		t.Fatalf("newFile = %s, %v", r.Result, err)
	}
	if !c.sawNote("view") || !c.sawNote("editor.load") || !c.sawNote("editor.language") || !c.sawNote("recent") {
		t.Errorf("notifications = %v", c.notes)
	}

	// Re-read the buffer version the server handed out for calc.lua.
	_ = json.Unmarshal(c.call("state", nil).Result, &st)
	c.call("edit", map[string]any{"version": st.Editor.Version, "text": "return 6 * 7"})

	var lines []struct {
		Kind string `json:"kind"`
		Text string `json:"text"`
	}
	r = c.call("run", nil)
	if err := json.Unmarshal(r.Result, &lines); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(lines) != 2 || lines[1].Text != "Result: 42" {
		t.Errorf("run lines = %+v", lines)
	}
	if !c.sawNote("output") {
		t.Errorf("no output notification: %v", c.notes)
	}

	resp, err := http.Get(srv.URL + "/api/runs")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var runs []storage.RunRow
	if err := json.NewDecoder(resp.Body).Decode(&runs); err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].FileName != "calc.lua" || runs[0].Outcome != "ok" {
		t.Errorf("runs = %+v", runs)
	}
}

func (c *client) count(method string) int {
	n := 0
	for _, m := range c.notes {
		if m == method {
			n++
		}
	}
	return n
}

func TestRuntimeLongRunReachesSocket(t *testing.T) {
	_, srv := startRuntime(t, testConfig())
	c := dialRuntime(t, srv)

	c.call("newFile", map[string]string{"name": "loop.js"})
	var st State
	_ = json.Unmarshal(c.call("state", nil).Result, &st)
	c.call("edit", map[string]any{"version": st.Editor.Version, "text": "for (let i = 0; i < 300; i++) console.log(i)"})

	before := c.count("output")
	var lines []json.RawMessage
	if err := json.Unmarshal(c.call("run", nil).Result, &lines); err != nil {
		t.Fatal(err)
	}
	if len(lines) != 301 {
		t.Fatalf("run returned %d lines, want 301", len(lines))
	}
	// Every line is broadcast before the run reply is written.
	if got := c.count("output") - before; got != 301 {
		t.Errorf("socket received %d output notifications, want 301", got)
	}
}

func TestRuntimeRPCErrors(t *testing.T) {
	_, srv := startRuntime(t, testConfig())
	c := dialRuntime(t, srv)

	if r := c.call("nope", nil); r.Error == nil || r.Error.Code != viewer.CodeUnknownMethod {
		t.Errorf("unknown method = %+v", r.Error)
	}
	if r := c.call("select", map[string]string{"id": "one"}); r.Error == nil || r.Error.Code != viewer.CodeBadParams {
		t.Errorf("bad params = %+v", r.Error)
	}

	var ok okResult
	r := c.call("select", map[string]workspace.FileID{"id": 999})
	if err := json.Unmarshal(r.Result, &ok); err != nil {
		t.Fatal(err)
	}
	if ok.OK {
		t.Error("select of an unknown id succeeded")
	}
}

func TestRuntimeRecentPersists(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig()
	cfg.Storage.RunHistory = 0

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rt, err := build(ctx, dir, cfg, viewer.NewLogBuffer(10))
	if err != nil {
		t.Fatal(err)
	}
	if rt.db != nil {
		t.Error("database opened with run history disabled")
	}
	rt.shell.NewFile("b.js")
	rt.Close()

	rt2, err := build(ctx, dir, cfg, viewer.NewLogBuffer(10))
	if err != nil {
		t.Fatal(err)
	}
	defer rt2.Close()
	got := rt2.shell.Snapshot().Recent
	// welcome.js is recorded again on the second start.
	if len(got) < 2 || got[0] != SampleName || got[1] != "b.js" {
		t.Errorf("recent = %v", got)
	}
}

func TestRuntimeSQLiteLedger(t *testing.T) {
	cfg := testConfig()
	cfg.Recent.Store = config.StoreSQLite
	cfg.Storage.RunHistory = 0

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rt, err := build(ctx, t.TempDir(), cfg, viewer.NewLogBuffer(10))
	if err != nil {
		t.Fatal(err)
	}
	defer rt.Close()
	if rt.db == nil {
		t.Fatal("sqlite ledger without database")
	}
	if _, ok, err := rt.db.GetMeta("recentFiles"); err != nil || !ok {
		t.Errorf("ledger not stored in meta: ok=%v err=%v", ok, err)
	}
}

func TestCaptureLogs(t *testing.T) {
	early := logging.Logger("codestudio/test-early")
	buf := viewer.NewLogBuffer(50)
	stop := captureLogs(buf, "info")
	early.Info("early line")
	// Loggers created after capture starts take the configured level too.
	logging.Logger("codestudio/test").Info("captured line")
	stop()

	want := map[string]string{"early line": "codestudio/test-early", "captured line": "codestudio/test"}
	for _, e := range buf.Snapshot() {
		for msg, logger := range want {
			if strings.Contains(e.Msg, msg) {
				if e.Logger != logger || e.Level != "info" {
					t.Errorf("entry = %+v", e)
				}
				delete(want, msg)
			}
		}
	}
	if len(want) != 0 {
		t.Errorf("lines not captured %v: %+v", want, buf.Snapshot())
	}
}

func TestViewEventsLogFileID(t *testing.T) {
	buf := viewer.NewLogBuffer(200)
	stop := captureLogs(buf, "debug")
	t.Cleanup(func() { logging.SetAllLoggers(logging.LevelError) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cfg := testConfig()
	cfg.Recent.Store = config.StoreMemory
	cfg.Storage.RunHistory = 0
	rt, err := build(ctx, t.TempDir(), cfg, buf)
	if err != nil {
		t.Fatal(err)
	}
	rec, _ := rt.shell.NewFile("a.js")
	rt.Close()
	stop()

	want := fmt.Sprintf("file.added %d", rec.ID)
	found := false
	for _, e := range buf.Snapshot() {
		if strings.Contains(e.Msg, "%!") {
			t.Errorf("malformed log line: %q", e.Msg)
		}
		if e.Logger == "codestudio/app" && strings.TrimSpace(e.Msg) == want {
			found = true
		}
	}
	if !found {
		t.Errorf("no %q line in %+v", want, buf.Snapshot())
	}
}

func TestNormalizeLocalViewer(t *testing.T) {
	tests := []struct{ in, listen, url string }{
		{":7878", "127.0.0.1:7878", "http://127.0.0.1:7878"},
		{"0.0.0.0:80", "127.0.0.1:80", "http://127.0.0.1:80"},
		{" 127.0.0.1:1 ", "127.0.0.1:1", "http://127.0.0.1:1"},
	}
	for _, tt := range tests {
		listen, url, _ := NormalizeLocalViewer(tt.in)
		if listen != tt.listen || url != tt.url {
			t.Errorf("NormalizeLocalViewer(%q) = %q, %q", tt.in, listen, url)
		}
	}
}

func TestPageViewModel(t *testing.T) {
	rt, srv := startRuntime(t, testConfig())
	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), SampleName) {
		t.Error("page does not list the sample file")
	}
	if vm := rt.page(); vm.Boot.Editor.TabSize != testConfig().Editor.TabSize {
		t.Errorf("boot editor = %+v", vm.Boot.Editor)
	}
}
