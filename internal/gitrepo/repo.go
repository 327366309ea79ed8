package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

var (
	// ErrNotRepository means the local path exists but does not hold a git
	// repository. It is never auto-repaired: deleting whatever the user has at
	// that path is not this tool's call to make.
	ErrNotRepository = errors.New("directory exists but is not a git repository")

	// ErrNotLoaded means an operation that needs an opened repository was
	// called before Load or CloneAndCheckout.
	ErrNotLoaded = errors.New("git repository is not loaded")
)

// SyncError wraps a failed git operation together with its captured output.
type SyncError struct {
	Op     string
	Path   string
	Output string
	Err    error
}

func (e *SyncError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("git %s failed for %s: %v\n%s", e.Op, e.Path, e.Err, e.Output)
	}
	return fmt.Sprintf("git %s failed for %s: %v", e.Op, e.Path, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// Repo is a handle to one managed local mirror of a remote repository.
// It is constructed pointing at a path and becomes usable once Load or
// CloneAndCheckout succeeds. Handles live for a single CLI invocation.
type Repo struct {
	log       *zerolog.Logger
	localPath string
	loaded    bool
}

// New returns a handle for localPath without touching the filesystem.
func New(log *zerolog.Logger, localPath string) *Repo {
	return &Repo{
		log:       log,
		localPath: localPath,
	}
}

// LocalPath returns the working copy location.
func (r *Repo) LocalPath() string {
	return r.localPath
}

// Loaded reports whether the on-disk repository has been opened.
func (r *Repo) Loaded() bool {
	return r.loaded
}

// Load opens the existing repository at the local path. It returns
// ErrNotRepository when the directory is present but git does not recognize
// it, which callers must treat as fatal.
func (r *Repo) Load(ctx context.Context) error {
	out, err := r.run(ctx, "rev-parse", "--git-dir")
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotRepository, r.localPath)
	}

	r.log.Debug().Str("path", r.localPath).Str("git_dir", strings.TrimSpace(out)).Msg("Opened existing repository")
	r.loaded = true
	return nil
}

// Init creates a fresh repository at the local path. Used when scaffolding a
// standalone project, not for template mirrors.
func (r *Repo) Init(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "git", "init", r.localPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return &SyncError{Op: "init", Path: r.localPath, Output: strings.TrimSpace(string(out)), Err: err}
	}

	r.loaded = true
	return nil
}

// CloneAndCheckout clones url into the local path and checks out branch.
// This is the only operation that creates the directory.
func (r *Repo) CloneAndCheckout(ctx context.Context, url, branch string) error {
	r.log.Debug().Str("url", url).Str("branch", branch).Str("path", r.localPath).Msg("Cloning repository")

	cmd := exec.CommandContext(ctx, "git", "clone", "--branch", branch, url, r.localPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return &SyncError{Op: "clone", Path: r.localPath, Output: strings.TrimSpace(string(out)), Err: err}
	}

	r.loaded = true
	return nil
}

// CurrentBranch returns the branch name HEAD points at.
func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	if !r.loaded {
		return "", ErrNotLoaded
	}

	out, err := r.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}

	branch := strings.TrimSpace(out)
	if branch == "" || branch == "HEAD" {
		return "", fmt.Errorf("current reference of %s is not a branch", r.localPath)
	}

	return branch, nil
}

// Head returns the commit hash HEAD points at.
func (r *Repo) Head(ctx context.Context) (string, error) {
	if !r.loaded {
		return "", ErrNotLoaded
	}

	out, err := r.run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(out), nil
}

// Pull fast-forwards the working copy to the remote tip. With a non-empty
// branch it also switches to that branch first, creating a local tracking
// branch when needed. The checkout is forced, so the mirror always ends up
// matching the fetched head.
func (r *Repo) Pull(ctx context.Context, branch string) error {
	if !r.loaded {
		return ErrNotLoaded
	}

	if branch == "" {
		current, err := r.CurrentBranch(ctx)
		if err != nil {
			return err
		}
		branch = current
	}

	if _, err := r.run(ctx, "fetch", "--tags", "origin", branch); err != nil {
		return err
	}

	if _, err := r.run(ctx, "checkout", "--force", "-B", branch, "FETCH_HEAD"); err != nil {
		return err
	}

	r.log.Debug().Str("path", r.localPath).Str("branch", branch).Msg("Pulled latest changes")
	return nil
}

func (r *Repo) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", r.localPath}, args...)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", &SyncError{Op: args[0], Path: r.localPath, Output: strings.TrimSpace(string(out)), Err: err}
	}
	return string(out), nil
}
