package main

import (
	"context"
	"errors"
	"fmt"

	"dagger/billetera/internal/dagger"
)

// CheckGoModTidy fails when "go mod tidy" would change go.mod or go.sum.
//
// +check
func (b *Billetera) CheckGoModTidy(ctx context.Context) (string, error) {
	out, err := b.goContainer().
		WithExec([]string{"cp", "go.mod", "go.mod.HEAD"}).
		WithExec([]string{"cp", "go.sum", "go.sum.HEAD"}).
		WithExec([]string{"go", "mod", "tidy"}).
		WithExec([]string{"sh", "-c", "diff -u go.mod.HEAD go.mod && diff -u go.sum.HEAD go.sum"}).
		Stdout(ctx)

	var e *dagger.ExecError
	if errors.As(err, &e) {
		return "", fmt.Errorf("go.mod or go.sum are not tidy: run 'go mod tidy'\n\n%s", e.Stdout)
	} else if err != nil {
		return "", fmt.Errorf("unexpected error: %w", err)
	}

	return "go.mod and go.sum are tidy: " + out, nil
}
