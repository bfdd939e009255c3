package scan

import (
	"context"

	"go.uber.org/zap"
)

// runDotNet runs the .NET begin/build/end pipeline. The analyzer can work
// from source text, so the pipeline is tolerant: restore, build and test
// failures are logged and the finalize step still runs, submitting whatever
// a partial build produced. When begin or end themselves fail the bracketed
// submission is lost, and the last resort is a sources-only generic scan.
func (s *Scanner) runDotNet(ctx context.Context, l *zap.Logger, t Target) error {
	beginArgs := []string{
		"sonarscanner", "begin",
		"/k:" + t.Key,
		"/n:" + t.Name,
		"/d:sonar.host.url=" + s.host,
		"/d:sonar.login=" + s.token,
		// The scanner tolerates missing report files, so the globs are
		// passed whether or not tests ran.
		"/d:sonar.cs.vstest.reportsPaths=**/*.trx",
		"/d:sonar.cs.opencover.reportsPaths=**/coverage.opencover.xml",
	}

	if err := s.runner.Run(ctx, t.Dir, "dotnet", beginArgs...); err != nil {
		l.Warn("sonarscanner begin failed, falling back to sources-only scan", zap.Error(err))
		return s.sourcesOnlyScan(ctx, t, nil)
	}

	_ = runPhases(ctx, l, []phase{
		{name: "dotnet restore", policy: policyTolerated, run: func(ctx context.Context) error {
			return s.runner.Run(ctx, t.Dir, "dotnet", "restore")
		}},
		{name: "dotnet build", policy: policyTolerated, run: func(ctx context.Context) error {
			return s.runner.Run(ctx, t.Dir, "dotnet", "build", "--no-restore")
		}},
		{name: "dotnet test", policy: policyTolerated, run: func(ctx context.Context) error {
			return s.runner.Run(ctx, t.Dir, "dotnet", "test", "--no-build", "--logger", "trx")
		}},
	})

	if err := s.runner.Run(ctx, t.Dir, "dotnet", "sonarscanner", "end", "/d:sonar.login="+s.token); err != nil {
		l.Warn("sonarscanner end failed, falling back to sources-only scan", zap.Error(err))
		return s.sourcesOnlyScan(ctx, t, nil)
	}
	return nil
}
