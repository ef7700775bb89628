// Package viewer is the local HTTP host of the browser UI: the IDE page,
// its assets, the JSON-RPC socket and a few read-only JSON endpoints.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/petervdpas/codestudio/internal/storage"
	viewerassets "github.com/petervdpas/codestudio/internal/ui/assets"
	"github.com/petervdpas/codestudio/internal/ui/render"
	"github.com/petervdpas/codestudio/internal/ui/viewmodels"
	"github.com/petervdpas/codestudio/internal/util"
	"github.com/petervdpas/codestudio/internal/viewer/routes"
)

type Viewer struct {
	Hub  *Hub
	Logs *LogBuffer
	// Output is the output panel; *output.Console satisfies it.
	Output routes.Output

	Page  func() viewmodels.IDEVM
	State func() any
	Runs  func(limit int) ([]storage.RunRow, error)

	// Canonical base URL for templates (e.g. http://127.0.0.1:7878).
	BaseURL string
	Theme   string
	Debug   bool
}

// Handler builds the viewer's mux.
func Handler(v Viewer) (http.Handler, error) {
	if err := render.InitTemplates(); err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/assets/", http.StripPrefix("/assets/",
		noCache(viewerassets.Handler()),
	))
	if v.Hub != nil {
		mux.Handle("/ws", v.Hub)
	}

	deps := routes.Deps{
		BaseURL: v.BaseURL,
		Theme:   v.Theme,
		Debug:   v.Debug,
		Page:    v.Page,
		State:   v.State,
		Output:  v.Output,
		Runs:    v.Runs,
	}
	if v.Logs != nil {
		deps.Logs = v.Logs
	}
	routes.Register(mux, deps)

	return noCache(mux), nil
}

// Start serves v on addr until ctx is cancelled. When ready is non-nil
// it receives the bound address once the listener is up.
func Start(ctx context.Context, addr string, v Viewer, ready chan<- string) error {
	h, err := Handler(v)
	if err != nil {
		return err
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		// Streams end with ctx instead of holding Shutdown open.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	log.Infof("viewer listening on http://%s", ln.Addr())
	if ready != nil {
		ready <- ln.Addr().String()
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	if v.Hub != nil {
		v.Hub.Close()
	}
	sctx, cancel := context.WithTimeout(context.Background(), util.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Infof("viewer stopped")
	return nil
}
