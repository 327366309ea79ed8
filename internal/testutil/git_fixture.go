package testutil

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// GitFixture is a local remote repository used by synchronizer tests. It lives
// in a temp directory and is addressed by file path, so no network is needed.
type GitFixture struct {
	t *testing.T

	// RemotePath is the path of the repository acting as "origin".
	RemotePath string
}

// NewGitFixture creates a non-bare repository with an initial commit on
// defaultBranch, ready to be cloned via its file path.
func NewGitFixture(t *testing.T, defaultBranch string) *GitFixture {
	t.Helper()

	remote := filepath.Join(t.TempDir(), "origin")
	if err := os.MkdirAll(remote, 0750); err != nil {
		t.Fatalf("failed to create remote dir: %v", err)
	}

	f := &GitFixture{t: t, RemotePath: remote}
	f.git("init", "--initial-branch", defaultBranch)
	f.git("config", "user.email", "ci@example.com")
	f.git("config", "user.name", "ci")
	// Cloning from a checked-out repo requires the worktree to stay clean,
	// updates happen through plain commits in the remote worktree.
	f.git("config", "receive.denyCurrentBranch", "ignore")
	f.WriteFile("README.md", "seed\n")
	f.Commit("initial commit")

	return f
}

// WriteFile writes a file (creating parent directories) inside the remote worktree.
func (f *GitFixture) WriteFile(relPath, content string) {
	f.t.Helper()

	path := filepath.Join(f.RemotePath, relPath)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		f.t.Fatalf("failed to create dir for %s: %v", relPath, err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		f.t.Fatalf("failed to write %s: %v", relPath, err)
	}
}

// WriteDescriptor writes a template.toml descriptor under dir.
func (f *GitFixture) WriteDescriptor(dir, name, description string) {
	f.t.Helper()
	content := fmt.Sprintf("name = %q\ndescription = %q\n", name, description)
	f.WriteFile(filepath.Join(dir, "template.toml"), content)
}

// Commit stages everything and commits it on the current branch.
func (f *GitFixture) Commit(message string) {
	f.t.Helper()
	f.git("add", "-A")
	f.git("commit", "-m", message)
}

// SwitchBranch creates (if needed) and checks out a branch in the remote.
func (f *GitFixture) SwitchBranch(branch string) {
	f.t.Helper()
	f.git("checkout", "-B", branch)
}

// Head returns the commit hash the given branch points at.
func (f *GitFixture) Head(branch string) string {
	f.t.Helper()
	out, err := exec.Command("git", "-C", f.RemotePath, "rev-parse", branch).Output()
	if err != nil {
		f.t.Fatalf("rev-parse %s failed: %v", branch, err)
	}
	return string(out)
}

func (f *GitFixture) git(args ...string) {
	f.t.Helper()

	cmd := exec.Command("git", append([]string{"-C", f.RemotePath}, args...)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		f.t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
}
