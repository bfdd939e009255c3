package scan

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"
)

// runGo tests and scans a Go repository with the same tolerance contract as
// Python: a failed test run is logged and the scan proceeds regardless.
func (s *Scanner) runGo(ctx context.Context, l *zap.Logger, t Target) error {
	_ = runPhases(ctx, l, []phase{
		{name: "go test", policy: policyTolerated, run: func(ctx context.Context) error {
			return s.runner.Run(ctx, t.Dir, "go", "test", "./...", "-coverprofile=coverage.out")
		}},
	})

	var extra []string
	if fileExists(filepath.Join(t.Dir, "coverage.out")) {
		extra = append(extra, "-Dsonar.go.coverage.reportPaths=coverage.out")
	} else {
		l.Warn("no coverage.out after test run, scanning without coverage")
	}

	return s.sourcesOnlyScan(ctx, t, extra)
}
