package scan

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"
)

// runPython tests and scans a Python repository. Test failure is tolerated;
// the analyzer reads source text and should always produce some signal.
func (s *Scanner) runPython(ctx context.Context, l *zap.Logger, t Target) error {
	_ = runPhases(ctx, l, []phase{
		{name: "pytest", policy: policyTolerated, run: func(ctx context.Context) error {
			return s.runner.Run(ctx, t.Dir, "python", "-m", "pytest", "--cov", "--cov-report=xml")
		}},
	})

	var extra []string
	if fileExists(filepath.Join(t.Dir, "coverage.xml")) {
		extra = append(extra, "-Dsonar.python.coverage.reportPaths=coverage.xml")
	} else {
		l.Warn("no coverage.xml after test run, scanning without coverage")
	}

	return s.sourcesOnlyScan(ctx, t, extra)
}
