package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"go.uber.org/zap"
)

// Sync brings the working copy at destPath to the tip of branch, cloning
// first when no copy exists. A failed pull of an existing copy is not fatal:
// the stale checkout is still scannable, so we log and continue. A failed
// clone is fatal, there is nothing to scan.
func Sync(ctx context.Context, l *zap.Logger, repoURL, destPath, branch string) error {
	provider := DefaultRegistry.Detect(repoURL)
	url := provider.CloneURL(repoURL)

	if _, err := os.Stat(filepath.Join(destPath, ".git")); err == nil {
		l.Info("working copy exists, pulling latest changes",
			zap.String("dest", destPath),
		)
		if err := pull(ctx, destPath, branch); err != nil {
			l.Warn("git pull failed, continuing with existing working copy",
				zap.String("dest", destPath),
				zap.Error(err),
			)
		}
		return nil
	}

	l.Info("cloning repository",
		zap.String("provider", provider.Name()),
		zap.String("url", url),
		zap.String("dest", destPath),
	)

	opts := &git.CloneOptions{
		URL: url,
	}
	if branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(branch)
	}

	repo, err := git.PlainCloneContext(ctx, destPath, false, opts)
	if err != nil && branch != "" {
		// The requested branch may not exist on this repository; fall back
		// to the remote's default branch.
		l.Warn("clone of requested branch failed, retrying with default branch",
			zap.String("branch", branch),
			zap.Error(err),
		)
		_ = os.RemoveAll(destPath)
		repo, err = git.PlainCloneContext(ctx, destPath, false, &git.CloneOptions{URL: url})
	}
	if err != nil {
		return fmt.Errorf("failed to clone repository: %w", err)
	}

	if head, err := repo.Head(); err == nil {
		l.Info("repository cloned", zap.String("ref", head.Name().Short()))
	}
	return nil
}

// DefaultBranch returns the branch the working copy currently has checked out.
func DefaultBranch(destPath string) (string, error) {
	repo, err := git.PlainOpen(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to open repository: %w", err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", errors.New("HEAD is not a branch")
	}
	return head.Name().Short(), nil
}

func pull(ctx context.Context, destPath, branch string) error {
	repo, err := git.PlainOpen(destPath)
	if err != nil {
		return fmt.Errorf("failed to open repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	opts := &git.PullOptions{RemoteName: "origin"}
	if branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(branch)
	}

	if err := wt.PullContext(ctx, opts); err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return err
	}
	return nil
}
