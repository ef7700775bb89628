package runner

import (
	"context"
	"fmt"
)

// Unsupported is an executor that refuses to run anything. Registering it
// makes a language's refusal explicit in the executor table.
type Unsupported struct {
	language string
}

func NewUnsupported(language string) *Unsupported {
	return &Unsupported{language: language}
}

func (u *Unsupported) Language() string { return u.language }

func (u *Unsupported) Execute(context.Context, Program) (Result, error) {
	return Result{}, fmt.Errorf("%w: %s", ErrNoExecutor, u.language)
}
