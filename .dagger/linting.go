package main

import (
	"context"
	"fmt"

	"dagger/billetera/internal/dagger"
)

const golangciLintVersion = "v2.8.0"

func (b *Billetera) lintOpts() dagger.GolangcilintOpts {
	base := b.goContainer().
		WithExec([]string{
			"go",
			"install",
			fmt.Sprintf("github.com/golangci/golangci-lint/v2/cmd/golangci-lint@%s", golangciLintVersion),
		})

	return dagger.GolangcilintOpts{
		BaseCtr: base,
		Config:  b.Source.File(".golangci.yml"),
	}
}

// CheckLint runs golangci-lint without applying fixes.
func (b *Billetera) CheckLint(ctx context.Context) (string, error) {
	return dag.Golangcilint(b.Source, b.lintOpts()).Check(ctx)
}

// FixLint runs golangci-lint with --fix and returns the modified source.
func (b *Billetera) FixLint(ctx context.Context) *dagger.Directory {
	return dag.Golangcilint(b.Source, b.lintOpts()).Lint()
}
