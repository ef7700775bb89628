package runner

import (
	"bytes"
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// Go interprets code with yaegi. A "package main" program runs its main
// function; anything else is evaluated like a REPL line and the value of
// the last expression is the result. Standard output is captured.
type Go struct{}

func NewGo() *Go { return &Go{} }

func (*Go) Language() string { return "go" }

func (*Go) Execute(ctx context.Context, p Program) (Result, error) {
	var out bytes.Buffer
	i := interp.New(interp.Options{Stdout: &out, Stderr: &out})
	if err := i.Use(stdlib.Symbols); err != nil {
		return Result{}, fmt.Errorf("load stdlib: %w", err)
	}

	v, err := i.EvalWithContext(ctx, p.Code)
	res := Result{Logs: splitLines(out.String())}
	if err != nil {
		return Result{}, err
	}

	if isProgram(p.Code) || !v.IsValid() || !v.CanInterface() {
		return res, nil
	}
	if v.Kind() == reflect.Func {
		return res, nil
	}
	res.Value = fmt.Sprint(v.Interface())
	res.HasValue = true
	return res, nil
}

func isProgram(code string) bool {
	for _, line := range strings.Split(code, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		return strings.HasPrefix(line, "package ")
	}
	return false
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
