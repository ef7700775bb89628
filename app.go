package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	studio "github.com/petervdpas/codestudio/internal/app"
	"github.com/petervdpas/codestudio/internal/config"
	"github.com/petervdpas/codestudio/internal/util"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

const (
	workspacesRoot = "./workspaces"
	uiPath         = "data/ui.json"
)

type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu sync.RWMutex

	dir       string
	name      string
	started   bool
	viewerURL string

	uiMu sync.Mutex
}

// WorkspaceInfo is returned by ListWorkspaces to the launcher.
type WorkspaceInfo struct {
	Name      string   `json:"name"`
	Executors []string `json:"executors"`
	Store     string   `json:"store"`
}

type uiState struct {
	Theme string `json:"theme"`
}

func NewApp() *App { return &App{} }

func (a *App) startup(ctx context.Context) {
	a.ctx, a.cancel = context.WithCancel(ctx)

	if _, err := a.GetTheme(); err != nil {
		log.Warnf("ui theme init: %v", err)
	}
}

func (a *App) shutdown(ctx context.Context) {
	if a.cancel == nil {
		return
	}
	log.Info("shutdown: stopping workspace")
	a.cancel()

	// Give the viewer time to close its sockets.
	time.Sleep(util.ShortTimeout / 4)
	log.Info("shutdown: complete")
}

// -------------------------
// Theme
// -------------------------

func (a *App) GetTheme() (string, error) {
	a.uiMu.Lock()
	defer a.uiMu.Unlock()

	s, err := readUIState(uiPath)
	if err != nil {
		return "dark", nil
	}
	return normalizeTheme(s.Theme), nil
}

func (a *App) SetTheme(theme string) error {
	a.uiMu.Lock()
	defer a.uiMu.Unlock()
	return writeUIState(uiPath, uiState{Theme: theme})
}

// OpenInBrowser opens a URL in the default browser.
func (a *App) OpenInBrowser(url string) {
	runtime.BrowserOpenURL(a.ctx, url)
}

// -------------------------
// Workspaces
// -------------------------

func (a *App) ListWorkspaces() ([]WorkspaceInfo, error) {
	return listWorkspaceInfos(workspacesRoot)
}

func (a *App) CreateWorkspace(name string) (string, error) {
	name, err := util.ValidateWorkspaceName(name)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(workspacesRoot, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if _, _, err := config.Ensure(filepath.Join(dir, config.FileName)); err != nil {
		return "", err
	}
	return name, nil
}

func (a *App) DeleteWorkspace(name string) error {
	name, err := util.ValidateWorkspaceName(name)
	if err != nil {
		return err
	}

	a.mu.RLock()
	running := a.started && a.name == name
	a.mu.RUnlock()
	if running {
		return errors.New("cannot delete the open workspace")
	}
	return os.RemoveAll(filepath.Join(workspacesRoot, name))
}

// StartWorkspace serves the named workspace on a free localhost port and
// returns once the viewer accepts connections.
func (a *App) StartWorkspace(name string) error {
	name, err := util.ValidateWorkspaceName(name)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started {
		return fmt.Errorf("workspace already started")
	}

	dir := filepath.Join(workspacesRoot, name)
	cfgPath := filepath.Join(dir, config.FileName)
	cfg, _, err := config.Ensure(cfgPath)
	if err != nil {
		return err
	}

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return err
	}
	port := l.Addr().(*net.TCPAddr).Port
	_ = l.Close()

	cfg.Viewer.HTTPAddr = fmt.Sprintf("127.0.0.1:%d", port)
	cfg.Viewer.OpenBrowser = false
	if theme, err := a.GetTheme(); err == nil {
		cfg.Viewer.Theme = theme
	}

	a.dir = dir
	a.name = name
	a.started = true
	a.viewerURL = "http://" + cfg.Viewer.HTTPAddr

	go func() {
		if err := studio.Run(a.ctx, studio.Options{
			Dir:     dir,
			CfgPath: cfgPath,
			Cfg:     cfg,
		}); err != nil {
			log.Errorf("workspace %s: %v", name, err)
			runtime.EventsEmit(a.ctx, "workspace:error", err.Error())
		}
	}()

	if err := studio.WaitTCP(cfg.Viewer.HTTPAddr, 10*time.Second); err != nil {
		runtime.EventsEmit(a.ctx, "workspace:error", "Viewer did not start in time")
		return fmt.Errorf("viewer did not start")
	}
	return nil
}

func (a *App) GetViewerURL() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.viewerURL
}

func (a *App) GetStatus() map[string]string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return map[string]string{
		"started":   fmt.Sprintf("%v", a.started),
		"workspace": a.name,
		"viewerURL": a.viewerURL,
	}
}

// -------------------------
// Helpers
// -------------------------

func normalizeTheme(t string) string {
	if t == "light" || t == "dark" {
		return t
	}
	return "dark"
}

func readUIState(path string) (uiState, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return uiState{Theme: "dark"}, writeUIState(path, uiState{Theme: "dark"})
		}
		return uiState{}, err
	}

	var s uiState
	if err := json.Unmarshal(b, &s); err != nil {
		return uiState{Theme: "dark"}, writeUIState(path, uiState{Theme: "dark"})
	}
	s.Theme = normalizeTheme(s.Theme)
	return s, nil
}

func writeUIState(path string, s uiState) error {
	s.Theme = normalizeTheme(s.Theme)
	return util.WriteJSONFile(path, s)
}

func listWorkspaceInfos(root string) ([]WorkspaceInfo, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return []WorkspaceInfo{}, nil
		}
		return nil, err
	}

	out := []WorkspaceInfo{}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		cfgPath := filepath.Join(root, e.Name(), config.FileName)
		if _, err := os.Stat(cfgPath); err != nil {
			continue
		}

		info := WorkspaceInfo{Name: e.Name()}
		// LoadPartial so a workspace with a broken config still shows up.
		if cfg, err := config.LoadPartial(cfgPath); err == nil {
			info.Executors = cfg.Runner.Languages
			info.Store = cfg.Recent.Store
		}
		out = append(out, info)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
