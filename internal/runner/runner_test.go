package runner

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/petervdpas/codestudio/internal/output"
)

type line struct {
	Kind output.Kind
	Text string
}

func simplify(lines []output.Line) []line {
	out := make([]line, len(lines))
	for i, l := range lines {
		out[i] = line{l.Kind, l.Text}
	}
	return out
}

func run(t *testing.T, r *Runner, name, language, code string) []line {
	t.Helper()
	return simplify(r.Run(context.Background(), Program{Name: name, Language: language, Code: code}))
}

func TestJavaScript(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	r := New(WithExecutor(NewJavaScript()))

	tests := []struct {
		name string
		code string
		want []line
	}{
		{"expression", "1+1", []line{
			{output.Info, "Running a.js..."},
			{output.Success, "Result: 2"},
		}},
		{"throw", "throw new Error('x')", []line{
			{output.Info, "Running a.js..."},
			{output.Error, "Error: x"},
		}},
		{"console", "console.log('hi')", []line{
			{output.Info, "Running a.js..."},
			{output.Success, "hi"},
		}},
		{"console joins args", "console.log('a', 1, true); 'done'", []line{
			{output.Info, "Running a.js..."},
			{output.Success, "a 1 true"},
			{output.Success, "Result: done"},
		}},
		{"logs dropped on fault", "console.log('before'); throw new TypeError('bad')", []line{
			{output.Info, "Running a.js..."},
			{output.Error, "Error: bad"},
		}},
		{"thrown string", "throw 'plain'", []line{
			{output.Info, "Running a.js..."},
			{output.Error, "Error: plain"},
		}},
		{"null result", "null", []line{
			{output.Info, "Running a.js..."},
			{output.Success, "Result: null"},
		}},
		{"declaration", "var x = 3", []line{
			{output.Info, "Running a.js..."},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := run(t, r, "a.js", "javascript", tt.code)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJavaScriptSyntaxError(t *testing.T) {
	r := New(WithExecutor(NewJavaScript()))
	got := run(t, r, "a.js", "javascript", "let = ;")
	if len(got) != 2 || got[1].Kind != output.Error || !strings.HasPrefix(got[1].Text, "Error: ") {
		t.Errorf("got %v", got)
	}
}

func TestTimeoutInterruptsJavaScript(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	r := New(WithExecutor(NewJavaScript()), WithTimeout(50*time.Millisecond))

	got := run(t, r, "loop.js", "javascript", "while (true) {}")
	if len(got) != 2 || got[1].Kind != output.Error || !strings.Contains(got[1].Text, "deadline") {
		t.Errorf("got %v", got)
	}
}

func TestUnsupportedLanguages(t *testing.T) {
	r := New(WithExecutor(NewJavaScript()))

	got := run(t, r, "main.py", "python", "print(1)")
	want := []line{
		{output.Info, "Running main.py..."},
		{output.Warning, "Python execution not supported in this environment"},
		{output.Info, "Consider using a Python runtime or server-side execution"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("python: got %v", got)
	}

	got = run(t, r, "main.rs", "rust", "fn main() {}")
	want = []line{
		{output.Info, "Running main.rs..."},
		{output.Warning, "Execution not supported for rust files"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("rust: got %v", got)
	}

	// An explicit Unsupported executor reports the same way.
	r.Register(NewUnsupported("lua"))
	got = run(t, r, "x.lua", "lua", "print(1)")
	if len(got) != 2 || got[1] != (line{output.Warning, "Execution not supported for lua files"}) {
		t.Errorf("lua: got %v", got)
	}
}

func TestLua(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	r := New(WithExecutor(NewLua(0)))

	tests := []struct {
		name string
		code string
		want []line
	}{
		{"expression", "1+1", []line{
			{output.Info, "Running a.lua..."},
			{output.Success, "Result: 2"},
		}},
		{"print", `print("hi", 2)`, []line{
			{output.Info, "Running a.lua..."},
			{output.Success, "hi\t2"},
		}},
		{"statements", "local x = 2\nprint(x * 3)", []line{
			{output.Info, "Running a.lua..."},
			{output.Success, "6"},
		}},
		{"os pruned", "os.execute == nil and io == nil", []line{
			{output.Info, "Running a.lua..."},
			{output.Success, "Result: true"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := run(t, r, "a.lua", "lua", tt.code)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	got := run(t, r, "a.lua", "lua", `error("boom")`)
	if len(got) != 2 || got[1].Kind != output.Error || !strings.Contains(got[1].Text, "boom") {
		t.Errorf("error: got %v", got)
	}
	if strings.Contains(got[1].Text, "stack traceback") {
		t.Errorf("traceback leaked: %q", got[1].Text)
	}
}

func TestLuaMemoryLimitMonitorDisabled(t *testing.T) {
	if m := newMemoryMonitor(0); m != nil || m.wasExceeded() {
		t.Error("monitor should be disabled for 0")
	}
	l := NewLua(64)
	if l.registryMaxSize() != 64*1024*1024/48 {
		t.Errorf("registry size = %d", l.registryMaxSize())
	}
	if NewLua(0).registryMaxSize() != 0 {
		t.Error("unlimited lua should not cap the registry")
	}
}

func TestGo(t *testing.T) {
	r := New(WithExecutor(NewGo()))

	got := run(t, r, "calc.go", "go", "1+1")
	want := []line{{output.Info, "Running calc.go..."}, {output.Success, "Result: 2"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expression: got %v", got)
	}

	prog := "package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"hi\")\n\tfmt.Println(\"there\")\n}\n"
	got = run(t, r, "main.go", "go", prog)
	want = []line{
		{output.Info, "Running main.go..."},
		{output.Success, "hi"},
		{output.Success, "there"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("program: got %v", got)
	}

	got = run(t, r, "bad.go", "go", "package main\n\nfunc main() { undefinedThing() }\n")
	if len(got) != 2 || got[1].Kind != output.Error {
		t.Errorf("compile error: got %v", got)
	}
}

type panicky struct{}

func (panicky) Language() string { return "javascript" }
func (panicky) Execute(context.Context, Program) (Result, error) {
	panic("kaboom")
}

func TestExecutorPanicBecomesErrorLine(t *testing.T) {
	r := New(WithExecutor(panicky{}))
	got := run(t, r, "a.js", "javascript", "")
	if len(got) != 2 || got[1] != (line{output.Error, "Error: kaboom"}) {
		t.Errorf("got %v", got)
	}
}

type historyRow struct {
	name, language, outcome string
}

type fakeHistory struct{ rows []historyRow }

func (h *fakeHistory) RecordRun(name, language, outcome string, _ time.Time, _ time.Duration) error {
	h.rows = append(h.rows, historyRow{name, language, outcome})
	return nil
}

func TestSinkAndHistory(t *testing.T) {
	console := output.NewConsole(50)
	hist := &fakeHistory{}
	r := New(WithExecutor(NewJavaScript()), WithSink(console), WithHistory(hist))

	lines := r.Run(context.Background(), Program{Name: "a.js", Language: "javascript", Code: "40+2"})
	r.Run(context.Background(), Program{Name: "b.js", Language: "javascript", Code: "throw new Error('no')"})
	r.Run(context.Background(), Program{Name: "c.md", Language: "markdown", Code: "# hi"})

	if len(lines) != 2 || lines[0].ID == "" {
		t.Errorf("lines not stamped by sink: %+v", lines)
	}
	if n := len(console.Snapshot()); n != 6 {
		t.Errorf("console has %d lines, want 6", n)
	}
	want := []historyRow{
		{"a.js", "javascript", OutcomeOK},
		{"b.js", "javascript", OutcomeFault},
		{"c.md", "markdown", OutcomeUnsupported},
	}
	if !reflect.DeepEqual(hist.rows, want) {
		t.Errorf("history = %v", hist.rows)
	}
}

func TestExecutorLookup(t *testing.T) {
	r := New(WithExecutor(NewLua(0)))
	r.Register(NewGo())
	r.Register(NewJavaScript())

	if got := r.Languages(); !reflect.DeepEqual(got, []string{"go", "javascript", "lua"}) {
		t.Errorf("languages = %v", got)
	}
	if _, err := r.Executor("cobol"); !errors.Is(err, ErrNoExecutor) {
		t.Errorf("err = %v", err)
	}
}
