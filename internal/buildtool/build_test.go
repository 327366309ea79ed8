package buildtool

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/calderanet/caldera-cli/internal/testutil"
)

func TestBuildFailsInNonProjectDir(t *testing.T) {
	if _, err := exec.LookPath("cargo"); err != nil {
		t.Skip("cargo not installed")
	}

	b := NewBuilder(testutil.NewTestLogger())
	_, err := b.Build(context.Background(), t.TempDir(), "nothing_here")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "nothing_here")
}

func TestEnsureToolchainMessage(t *testing.T) {
	b := NewBuilder(testutil.NewTestLogger())

	err := b.EnsureToolchain()
	if _, lookErr := exec.LookPath("cargo"); lookErr != nil {
		assert.ErrorContains(t, err, "cargo is required")
	} else {
		assert.NoError(t, err)
	}
}
