package sonar

import (
	"context"

	"go.uber.org/zap"
)

// ConfigOnlyDescription marks projects whose analysis covers configuration
// artifacts rather than application logic.
const ConfigOnlyDescription = "Configuration-only repository (no application code analyzed)"

// Registrar guarantees an analysis project exists before any scan runs, and
// performs the best-effort metadata updates around it.
type Registrar struct {
	client *Client
	l      *zap.Logger
}

// NewRegistrar creates a registrar on top of an API client
func NewRegistrar(client *Client, l *zap.Logger) *Registrar {
	return &Registrar{client: client, l: l}
}

// EnsureProject creates the project if it does not exist yet and reports
// whether creation happened. The prior existence check keeps creation
// idempotent from the caller's side; the server would reject a duplicate key.
func (r *Registrar) EnsureProject(ctx context.Context, key, name string) (created bool, err error) {
	exists, err := r.client.ProjectExists(ctx, key)
	if err != nil {
		return false, err
	}
	if exists {
		r.l.Info("project already exists", zap.String("key", key))
		return false, nil
	}

	if err := r.client.CreateProject(ctx, key, name); err != nil {
		return false, err
	}
	r.l.Info("project created", zap.String("key", key), zap.String("name", name))
	return true, nil
}

// SyncDefaultBranch renames the project's main branch to match the working
// copy. Best-effort: a stale branch name on the server never fails a job.
func (r *Registrar) SyncDefaultBranch(ctx context.Context, key, branch string) {
	if branch == "" {
		return
	}
	if err := r.client.RenameMainBranch(ctx, key, branch); err != nil {
		r.l.Warn("failed to sync default branch",
			zap.String("key", key),
			zap.String("branch", branch),
			zap.Error(err),
		)
		return
	}
	r.l.Info("default branch synced", zap.String("key", key), zap.String("branch", branch))
}

// MarkConfigOnly updates the project's display name and description so
// performance-test repositories are recognizable in the server UI.
// Best-effort, like SyncDefaultBranch.
func (r *Registrar) MarkConfigOnly(ctx context.Context, key, name string) {
	if err := r.client.UpdateProject(ctx, key, name+" (config-only)", ConfigOnlyDescription); err != nil {
		r.l.Warn("failed to update project metadata",
			zap.String("key", key),
			zap.Error(err),
		)
		return
	}
	r.l.Info("project marked config-only", zap.String("key", key))
}
