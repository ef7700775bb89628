package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	logging "github.com/ipfs/go-log/v2"

	"github.com/petervdpas/codestudio/internal/chat"
	"github.com/petervdpas/codestudio/internal/config"
	"github.com/petervdpas/codestudio/internal/editor"
	"github.com/petervdpas/codestudio/internal/layout"
	"github.com/petervdpas/codestudio/internal/output"
	"github.com/petervdpas/codestudio/internal/recent"
	"github.com/petervdpas/codestudio/internal/runner"
	"github.com/petervdpas/codestudio/internal/storage"
	"github.com/petervdpas/codestudio/internal/ui/viewmodels"
	"github.com/petervdpas/codestudio/internal/util"
	"github.com/petervdpas/codestudio/internal/viewer"
	"github.com/petervdpas/codestudio/internal/workspace"
)

var log = logging.Logger("codestudio/app")

type Options struct {
	Dir     string
	CfgPath string
	Cfg     config.Config
	// Ready is called with the viewer URL once it accepts connections.
	Ready func(url string)
}

// runtime is one assembled workspace: the shell, its collaborators and
// the hub the browser talks to.
type runtime struct {
	cfg     config.Config
	shell   *Shell
	hub     *viewer.Hub
	logs    *viewer.LogBuffer
	console *output.Console
	chat    *chat.Manager
	db      *storage.DB

	stop []func()
}

func (rt *runtime) Close() {
	for i := len(rt.stop) - 1; i >= 0; i-- {
		rt.stop[i]()
	}
	rt.stop = nil
}

// Run assembles the workspace, serves the viewer and blocks until ctx
// is cancelled.
func Run(ctx context.Context, opt Options) error {
	logs := viewer.NewLogBuffer(800)
	stopLogs := captureLogs(logs, opt.Cfg.Logging.Level)
	defer stopLogs()

	logBanner(opt.Dir, opt.CfgPath)

	rt, err := build(ctx, opt.Dir, opt.Cfg, logs)
	if err != nil {
		return err
	}
	defer rt.Close()

	listenAddr, url, _ := NormalizeLocalViewer(opt.Cfg.Viewer.HTTPAddr)
	ready := make(chan string, 1)
	errc := make(chan error, 1)
	go func() { errc <- viewer.Start(ctx, listenAddr, rt.viewer(url), ready) }()

	select {
	case err := <-errc:
		return err
	case <-ready:
	}
	if opt.Ready != nil {
		opt.Ready(url)
	}
	if opt.Cfg.Viewer.OpenBrowser {
		if err := util.OpenURL(url); err != nil {
			log.Warnf("open browser: %v", err)
		}
	}

	return <-errc
}

// captureLogs applies level and copies every log line into dst until
// the returned stop is called.
func captureLogs(dst io.Writer, level string) (stop func()) {
	if lvl, err := logging.LevelFromString(level); err == nil {
		// Also the default for loggers created after this call.
		cfg := logging.GetConfig()
		cfg.Level = lvl
		logging.SetupLogging(cfg)
	}
	pr := logging.NewPipeReader(logging.PipeFormat(logging.PlaintextOutput))
	done := make(chan struct{})
	go func() {
		_, _ = io.Copy(dst, pr)
		close(done)
	}()
	return func() {
		_ = pr.Close()
		<-done
	}
}

func build(ctx context.Context, dir string, cfg config.Config, logs *viewer.LogBuffer) (*runtime, error) {
	rt := &runtime{
		cfg:  cfg,
		hub:  viewer.NewHub(),
		logs: logs,
	}
	hub := rt.hub

	if cfg.Recent.Store == config.StoreSQLite || cfg.Storage.RunHistory > 0 {
		db, err := storage.Open(util.ResolvePath(dir, cfg.Storage.DBDir))
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		rt.db = db
		rt.stop = append(rt.stop, func() { _ = db.Close() })
	}

	ledger, err := openLedger(ctx, dir, cfg, rt.db)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.stop = append(rt.stop, ledger.Subscribe(func(names []string) {
		hub.Broadcast("recent", names)
	}))

	rt.console = output.NewConsole(0)
	rt.stop = append(rt.stop, rt.console.OnAppend(func(l output.Line) {
		hub.Broadcast("output", l)
	}))

	var chatOpts []chat.Option
	if cfg.Assistant.ReplyDelayMS > 0 {
		chatOpts = append(chatOpts, chat.WithDelay(time.Duration(cfg.Assistant.ReplyDelayMS)*time.Millisecond))
	}
	rt.chat = chat.New(cfg.Assistant.History, chatOpts...)
	msgs := rt.chat.Subscribe()
	go func() {
		for m := range msgs {
			hub.Broadcast("chat", m)
		}
	}()
	// Pending replies must land before the transcript goes away.
	rt.stop = append(rt.stop, func() {
		rt.chat.Wait()
		rt.chat.Unsubscribe(msgs)
	})

	lay := layout.New(func(s layout.State) { hub.Broadcast("layout", s) })

	buf := editor.NewBuffer(editor.Hooks{
		OnLoad: func(text string, version uint64) {
			hub.Broadcast("editor.load", map[string]any{"value": text, "version": version})
		},
		OnLanguage: func(language string) {
			hub.Broadcast("editor.language", map[string]string{"language": language})
		},
	})

	ws := workspace.New(workspace.WithEditor(buf), workspace.WithRecorder(ledger))
	rt.stop = append(rt.stop, ws.Subscribe(func(ev workspace.Event, v workspace.View) {
		log.Debugf("%s %d", ev.Kind, ev.File)
		hub.Broadcast("view", v)
	}))

	rt.shell = NewShell(ShellDeps{
		Workspace: ws,
		Buffer:    buf,
		Ledger:    ledger,
		Runner:    newRunner(cfg, rt.console, rt.db),
		Console:   rt.console,
		Chat:      rt.chat,
		Layout:    lay,
		Editor:    cfg.Editor,
		Assistant: cfg.Assistant.Enabled,
	})
	RegisterRPC(hub, rt.shell)
	rt.shell.Start()
	return rt, nil
}

func openLedger(ctx context.Context, dir string, cfg config.Config, db *storage.DB) (*recent.Ledger, error) {
	switch cfg.Recent.Store {
	case config.StoreSQLite:
		if db == nil {
			return nil, errors.New("recent: sqlite store without database")
		}
		l := recent.New(recent.NewDBStore(db))
		l.Load()
		return l, nil

	case config.StoreJSON:
		fs := recent.NewFileStore(util.ResolvePath(dir, cfg.Recent.File))
		l := recent.New(fs)
		l.Load()
		if cfg.Recent.Watch {
			if err := fs.Watch(ctx, l); err != nil {
				log.Warnf("recent: watch disabled: %v", err)
			}
		}
		return l, nil

	default:
		return recent.New(nil), nil
	}
}

func newRunner(cfg config.Config, sink runner.Sink, db *storage.DB) *runner.Runner {
	opts := []runner.Option{runner.WithSink(sink)}
	if cfg.Runner.TimeoutSeconds > 0 {
		opts = append(opts, runner.WithTimeout(time.Duration(cfg.Runner.TimeoutSeconds)*time.Second))
	}
	if db != nil && cfg.Storage.RunHistory > 0 {
		opts = append(opts, runner.WithHistory(&runHistory{db: db, keep: cfg.Storage.RunHistory}))
	}
	for _, lang := range cfg.Runner.Languages {
		switch lang {
		case "javascript":
			opts = append(opts, runner.WithExecutor(runner.NewJavaScript()))
		case "lua":
			opts = append(opts, runner.WithExecutor(runner.NewLua(cfg.Runner.LuaMaxMemoryMB)))
		case "go":
			opts = append(opts, runner.WithExecutor(runner.NewGo()))
		}
	}
	return runner.New(opts...)
}

// runHistory records runs and keeps the table at keep rows.
type runHistory struct {
	db   *storage.DB
	keep int
}

func (h *runHistory) RecordRun(fileName, language, outcome string, started time.Time, dur time.Duration) error {
	if err := h.db.RecordRun(fileName, language, outcome, started, dur); err != nil {
		return err
	}
	return h.db.PruneRuns(h.keep)
}

// viewer describes the HTTP host for rt.
func (rt *runtime) viewer(baseURL string) viewer.Viewer {
	v := viewer.Viewer{
		Hub:     rt.hub,
		Logs:    rt.logs,
		Output:  rt.console,
		Page:    rt.page,
		State:   func() any { return rt.shell.Snapshot() },
		BaseURL: baseURL,
		Theme:   rt.cfg.Viewer.Theme,
		Debug:   rt.cfg.Viewer.Debug,
	}
	if rt.db != nil {
		v.Runs = rt.db.ListRuns
	}
	return v
}

func (rt *runtime) page() viewmodels.IDEVM {
	st := rt.shell.Snapshot()
	return viewmodels.IDEVM{
		View:        st.View,
		Recent:      st.Recent,
		Layout:      st.Layout,
		Panels:      viewmodels.Panels(),
		Output:      st.Output,
		Chat:        st.Chat,
		Assistant:   st.Assistant,
		SuggestName: st.SuggestName,
		Boot: viewmodels.Boot{
			Theme:     rt.cfg.Viewer.Theme,
			Editor:    st.Editor.Settings,
			Executors: st.Executors,
		},
	}
}
