package scan

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// runJava builds, tests and scans a Java repository. The pipeline is fatal:
// the analyzer resolves symbols against compiled bytecode, so scanning after
// a failed build would submit meaningless results. No scanner process runs
// unless the build succeeds.
func (s *Scanner) runJava(ctx context.Context, l *zap.Logger, t Target) error {
	tool, buildArgs, scanGoal := javaBuildTool(t.Dir)

	if err := s.runner.Run(ctx, t.Dir, tool, buildArgs...); err != nil {
		return fmt.Errorf("java build/test: %w: %v", ErrBuildFailed, err)
	}

	reports := findJacocoReports(t.Dir)
	if len(reports) == 0 {
		l.Warn("no jacoco coverage reports found, scanning without coverage")
	}

	args := []string{
		scanGoal,
		"-Dsonar.projectKey=" + t.Key,
		"-Dsonar.projectName=" + t.Name,
		"-Dsonar.host.url=" + s.host,
		"-Dsonar.login=" + s.token,
	}
	if len(reports) > 0 {
		args = append(args, "-Dsonar.coverage.jacoco.xmlReportPaths="+strings.Join(reports, ","))
	}

	if err := s.runner.Run(ctx, t.Dir, tool, args...); err != nil {
		return fmt.Errorf("java scan: %w", err)
	}
	return nil
}

// javaBuildTool picks maven or gradle from the root build descriptor.
func javaBuildTool(dir string) (tool string, buildArgs []string, scanGoal string) {
	if fileExists(filepath.Join(dir, "pom.xml")) {
		return "mvn", []string{"clean", "verify"}, "sonar:sonar"
	}
	tool = "gradle"
	if wrapper := filepath.Join(dir, "gradlew"); fileExists(wrapper) {
		// exec resolves relative paths against the process cwd, not the
		// command's Dir, so the wrapper path must be explicit.
		tool = wrapper
	}
	return tool, []string{"clean", "build"}, "sonar"
}
