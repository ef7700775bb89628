// Package runner dispatches "run" requests to per-language executors.
//
// Executors evaluate code inside this process with its full privileges.
// None of them is a sandbox; each language has to be enabled explicitly.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	logging "github.com/ipfs/go-log/v2"

	"github.com/petervdpas/codestudio/internal/output"
)

var log = logging.Logger("codestudio/runner")

// ErrNoExecutor is returned by Runner.Executor for languages without one.
var ErrNoExecutor = errors.New("no executor for language")

// Program is the code handed to an executor.
type Program struct {
	Name     string
	Language string
	Code     string
}

// Result is what an executor captured from a successful run.
type Result struct {
	Logs     []string
	Value    string
	HasValue bool
}

// Executor evaluates programs of one language. A returned error is an
// execution fault; its message is shown to the user.
type Executor interface {
	Language() string
	Execute(ctx context.Context, p Program) (Result, error)
}

// Sink receives output lines as they are produced.
type Sink interface {
	Append(kind output.Kind, text string) output.Line
}

// History records one row per run.
type History interface {
	RecordRun(fileName, language, outcome string, started time.Time, dur time.Duration) error
}

// Run outcomes stored in the history.
const (
	OutcomeOK          = "ok"
	OutcomeFault       = "fault"
	OutcomeUnsupported = "unsupported"
)

// Runner owns the executor table.
type Runner struct {
	mu        sync.RWMutex
	executors map[string]Executor
	timeout   time.Duration
	sink      Sink
	history   History
}

type Option func(*Runner)

// WithTimeout bounds each run. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

// WithSink sends every produced line to s.
func WithSink(s Sink) Option {
	return func(r *Runner) { r.sink = s }
}

func WithHistory(h History) Option {
	return func(r *Runner) { r.history = h }
}

// WithExecutor registers e.
func WithExecutor(e Executor) Option {
	return func(r *Runner) { r.executors[e.Language()] = e }
}

func New(opts ...Option) *Runner {
	r := &Runner{executors: make(map[string]Executor)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds or replaces the executor for e.Language().
func (r *Runner) Register(e Executor) {
	r.mu.Lock()
	r.executors[e.Language()] = e
	r.mu.Unlock()
	log.Infof("executor enabled: %s", e.Language())
}

// Executor returns the executor for language, or ErrNoExecutor.
func (r *Runner) Executor(language string) (Executor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.executors[language]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoExecutor, language)
	}
	return e, nil
}

// Languages lists the enabled languages, sorted.
func (r *Runner) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.executors))
	for l := range r.executors {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Run evaluates p and returns the output lines it produced. Faults never
// escape: they become a single error line and any captured logs are
// dropped.
func (r *Runner) Run(ctx context.Context, p Program) []output.Line {
	var lines []output.Line
	emit := func(kind output.Kind, text string) {
		if r.sink != nil {
			lines = append(lines, r.sink.Append(kind, text))
			return
		}
		lines = append(lines, output.Line{Time: time.Now(), Kind: kind, Text: text})
	}

	emit(output.Info, fmt.Sprintf("Running %s...", p.Name))

	exec, err := r.Executor(p.Language)
	if err != nil {
		exec = NewUnsupported(p.Language)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	started := time.Now()
	res, err := execute(ctx, exec, p)
	dur := time.Since(started)

	switch {
	case errors.Is(err, ErrNoExecutor):
		if p.Language == "python" {
			emit(output.Warning, "Python execution not supported in this environment")
			emit(output.Info, "Consider using a Python runtime or server-side execution")
		} else {
			emit(output.Warning, fmt.Sprintf("Execution not supported for %s files", p.Language))
		}
		r.record(p, OutcomeUnsupported, started, dur)
		return lines
	case err != nil:
		log.Debugf("run %s failed after %s: %v", p.Name, dur, err)
		emit(output.Error, "Error: "+err.Error())
		r.record(p, OutcomeFault, started, dur)
		return lines
	}

	for _, l := range res.Logs {
		emit(output.Success, l)
	}
	if res.HasValue {
		emit(output.Success, "Result: "+res.Value)
	}
	r.record(p, OutcomeOK, started, dur)
	return lines
}

// execute shields the caller from executor panics.
func execute(ctx context.Context, e Executor, p Program) (res Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%v", rec)
		}
	}()
	return e.Execute(ctx, p)
}

func (r *Runner) record(p Program, outcome string, started time.Time, dur time.Duration) {
	if r.history == nil {
		return
	}
	if err := r.history.RecordRun(p.Name, p.Language, outcome, started, dur); err != nil {
		log.Warnf("record run: %v", err)
	}
}
