package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dagger/billetera/internal/dagger"
)

const versionPkg = "github.com/papercomputeco/billetera/pkg/utils"

// Build returns a directory with the billetera binary for each platform
func (b *Billetera) Build(
	ctx context.Context,

	// Linker flags for go build
	// +optional
	// +default="-s -w"
	ldflags string,
) *dagger.Directory {
	platforms := [][2]string{
		{"linux", "amd64"},
		{"linux", "arm64"},
		{"darwin", "amd64"},
		{"darwin", "arm64"},
		{"windows", "amd64"},
	}

	outputs := dag.Directory()
	for _, p := range platforms {
		goos, goarch := p[0], p[1]
		path := fmt.Sprintf("%s/%s/", goos, goarch)

		build := b.goContainer().
			WithEnvVariable("GOOS", goos).
			WithEnvVariable("GOARCH", goarch).
			WithExec([]string{"go", "build", "-ldflags", ldflags, "-o", path, "./cli/billetera"})

		outputs = outputs.WithDirectory(path, build.Directory(path))
	}

	return outputs
}

// BuildRelease compiles release binaries stamped with version, commit and
// build time
func (b *Billetera) BuildRelease(
	ctx context.Context,

	// Version string of build
	version string,

	// Git commit SHA of build
	commit string,
) *dagger.Directory {
	ldflags := []string{
		"-s",
		"-w",
		fmt.Sprintf("-X '%s.Version=%s'", versionPkg, version),
		fmt.Sprintf("-X '%s.Sha=%s'", versionPkg, commit),
		fmt.Sprintf("-X '%s.Buildtime=%s'", versionPkg, time.Now().UTC().Format(time.RFC3339)),
	}

	return b.Build(ctx, strings.Join(ldflags, " "))
}
