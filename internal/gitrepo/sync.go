package gitrepo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"

	"github.com/calderanet/caldera-cli/internal/config"
	"github.com/calderanet/caldera-cli/internal/constants"
)

// Synchronizer keeps local mirrors of remote template repositories up to
// date. Mirrors live under <baseDir>/template_repositories/<owner>/<repo>.
// The base directory is passed in explicitly so tests can point it at a
// throwaway location.
type Synchronizer struct {
	log     *zerolog.Logger
	baseDir string
}

// NewSynchronizer returns a Synchronizer rooted at baseDir.
func NewSynchronizer(log *zerolog.Logger, baseDir string) *Synchronizer {
	return &Synchronizer{
		log:     log,
		baseDir: baseDir,
	}
}

// MirrorPath returns where the mirror for repo lives on disk.
func (s *Synchronizer) MirrorPath(repo config.TemplateRepository) (string, error) {
	owner, name, err := splitRepoURL(repo.URL)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, constants.TemplateReposFolderName, owner, name), nil
}

// Sync guarantees that, on success, the returned handle points at a working
// copy of repo.URL checked out at repo.Branch.
//
// Repository lifecycle per invocation: an absent path is cloned fresh; a
// present path is opened, its branch compared against the requested one, and
// the working copy fast-forwarded (switching branches first if they differ).
// A present path that is not a git repository fails with ErrNotRepository.
//
// An advisory file lock next to the mirror is held for the duration of the
// call, so concurrent CLI invocations do not interleave mutating git
// operations on the same mirror.
func (s *Synchronizer) Sync(ctx context.Context, repo config.TemplateRepository) (*Repo, error) {
	mirrorPath, err := s.MirrorPath(repo)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(mirrorPath), 0750); err != nil {
		return nil, fmt.Errorf("failed to create template repositories directory: %w", err)
	}

	lock := flock.New(mirrorPath + ".lock")
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("failed to lock mirror %s: %w", mirrorPath, err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			s.log.Warn().Err(err).Str("path", mirrorPath).Msg("Failed to release mirror lock")
		}
	}()

	r := New(s.log, mirrorPath)

	info, statErr := os.Stat(mirrorPath)
	switch {
	case os.IsNotExist(statErr):
		if err := r.CloneAndCheckout(ctx, repo.URL, repo.Branch); err != nil {
			return nil, err
		}
		s.log.Debug().Str("path", mirrorPath).Str("branch", repo.Branch).Msg("Cloned fresh mirror")

	case statErr != nil:
		return nil, fmt.Errorf("failed to stat mirror path %s: %w", mirrorPath, statErr)

	case !info.IsDir():
		return nil, fmt.Errorf("%w: %s", ErrNotRepository, mirrorPath)

	default:
		if err := r.Load(ctx); err != nil {
			return nil, err
		}

		current, err := r.CurrentBranch(ctx)
		if err != nil {
			return nil, err
		}

		if current != repo.Branch {
			s.log.Debug().Str("from", current).Str("to", repo.Branch).Msg("Switching mirror branch")
			if err := r.Pull(ctx, repo.Branch); err != nil {
				return nil, err
			}
		} else {
			if err := r.Pull(ctx, ""); err != nil {
				return nil, err
			}
		}
	}

	return r, nil
}

// splitRepoURL extracts the owner and repository name from a git remote URL,
// e.g. "https://github.com/calderanet/wasm-template" -> ("calderanet",
// "wasm-template").
func splitRepoURL(url string) (owner, name string, err error) {
	trimmed := strings.TrimSuffix(strings.TrimRight(url, "/"), ".git")
	parts := strings.Split(trimmed, "/")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("cannot derive owner and repository name from URL %q", url)
	}

	owner = parts[len(parts)-2]
	name = parts[len(parts)-1]
	if owner == "" || name == "" {
		return "", "", fmt.Errorf("cannot derive owner and repository name from URL %q", url)
	}

	return owner, name, nil
}
