package runner

import (
	"context"
	"errors"
	"strings"

	"github.com/dop251/goja"
)

// JavaScript evaluates code in a fresh goja VM per run. console.log,
// info, warn and error are captured; the completion value of the script
// is the result.
type JavaScript struct{}

func NewJavaScript() *JavaScript { return &JavaScript{} }

func (*JavaScript) Language() string { return "javascript" }

func (*JavaScript) Execute(ctx context.Context, p Program) (Result, error) {
	vm := goja.New()

	var res Result
	capture := func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, a := range call.Arguments {
			parts[i] = a.String()
		}
		res.Logs = append(res.Logs, strings.Join(parts, " "))
		return goja.Undefined()
	}
	console := vm.NewObject()
	for _, name := range []string{"log", "info", "warn", "error", "debug"} {
		if err := console.Set(name, capture); err != nil {
			return Result{}, err
		}
	}
	if err := vm.Set("console", console); err != nil {
		return Result{}, err
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			vm.Interrupt(ctx.Err())
		case <-stop:
		}
	}()

	v, err := vm.RunString(p.Code)
	if err != nil {
		return Result{}, jsError(err)
	}
	if v != nil && !goja.IsUndefined(v) {
		res.Value = v.String()
		res.HasValue = true
	}
	return res, nil
}

// jsError turns a thrown value into an error carrying its message.
func jsError(err error) error {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		if cause, ok := interrupted.Value().(error); ok {
			return cause
		}
		return errors.New("execution interrupted")
	}

	var exc *goja.Exception
	if errors.As(err, &exc) {
		val := exc.Value()
		if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
			return errors.New(exc.Error())
		}
		if obj, ok := val.(*goja.Object); ok {
			if msg := obj.Get("message"); msg != nil && !goja.IsUndefined(msg) {
				return errors.New(msg.String())
			}
		}
		return errors.New(val.String())
	}

	var syntax *goja.CompilerSyntaxError
	if errors.As(err, &syntax) {
		return errors.New(syntax.Error())
	}
	return err
}
