// Billetera CI
//
// Package main provides reproducible builds, tests and checks for billetera,
// locally and in CI.
package main

import (
	"context"

	"dagger/billetera/internal/dagger"
)

// Billetera is the CI module for the billetera CLI
type Billetera struct {
	// Project source directory
	//
	// +private
	Source *dagger.Directory
}

// New creates a new Billetera CI module instance
func New(
	// Project source directory.
	//
	// +defaultPath="/"
	// +ignore=[".git", "build", "tmp", "*.sse"]
	source *dagger.Directory,
) *Billetera {
	return &Billetera{
		Source: source,
	}
}

// goContainer returns a Go container with module and build caches and the
// project source mounted. billetera is pure Go, so cgo stays off.
func (b *Billetera) goContainer() *dagger.Container {
	return dag.Container().
		From("golang:1.25-alpine").
		WithEnvVariable("CGO_ENABLED", "0").
		WithEnvVariable("PATH", "/go/bin:$PATH", dagger.ContainerWithEnvVariableOpts{Expand: true}).
		WithMountedCache("/go/pkg/mod", dag.CacheVolume("go-mod")).
		WithMountedCache("/root/.cache/go-build", dag.CacheVolume("go-build")).
		WithWorkdir("/src").
		WithDirectory("/src", b.Source)
}

// Test runs the ginkgo suites via "go test"
func (b *Billetera) Test(ctx context.Context) (string, error) {
	return b.goContainer().
		WithExec([]string{"go", "test", "./..."}).
		Stdout(ctx)
}
