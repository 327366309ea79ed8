package buildtool

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

const wasmTarget = "wasm32-unknown-unknown"

// Builder compiles a WASM contract project by shelling out to the Rust
// toolchain. The toolchain itself is an external collaborator; all this does
// is invoke it and surface its output on failure.
type Builder struct {
	log *zerolog.Logger
}

func NewBuilder(log *zerolog.Logger) *Builder {
	return &Builder{
		log: log,
	}
}

// EnsureToolchain verifies cargo is available before a build is attempted.
func (b *Builder) EnsureToolchain() error {
	if _, err := exec.LookPath("cargo"); err != nil {
		return fmt.Errorf("cargo is required to build WASM contracts but was not found in PATH; install from https://rustup.rs")
	}
	return nil
}

// Build compiles the contract project in dir and returns the path of the
// produced WASM binary, named after the project.
func (b *Builder) Build(ctx context.Context, dir, projectName string) (string, error) {
	if err := b.EnsureToolchain(); err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, "cargo", "build", "--target="+wasmTarget, "--release")
	cmd.Dir = dir

	b.log.Debug().
		Str("dir", dir).
		Str("command", cmd.String()).
		Msg("Executing build command")

	output, err := cmd.CombinedOutput()
	if err != nil {
		out := strings.TrimSpace(string(output))
		return "", fmt.Errorf("failed to build project %s: %w\nbuild output:\n%s", projectName, err, out)
	}

	binPath := filepath.Join(dir, "target", wasmTarget, "release", projectName+".wasm")
	if _, err := os.Stat(binPath); err != nil {
		out := strings.TrimSpace(string(output))
		return "", fmt.Errorf("binary not present after build at %s\nbuild output:\n%s", binPath, out)
	}

	return binPath, nil
}
