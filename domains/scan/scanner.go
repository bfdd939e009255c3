// Package scan runs the per-ecosystem build/test/coverage/scan pipelines.
// Pipelines differ only in their phases and in how much failure each phase
// tolerates; the tolerance policy is declared per phase and applied
// uniformly, never inline.
package scan

import (
	"context"
	"errors"
	"fmt"

	"sonarfleet/domains/classify"

	"go.uber.org/zap"
)

// ErrBuildFailed marks a fatal build/test failure in an ecosystem whose
// analyzer cannot operate without compiled output.
var ErrBuildFailed = errors.New("build failed")

// Target identifies what one scan submits: the analysis project and the
// directory the scanner runs in.
type Target struct {
	Key  string
	Name string
	Dir  string
}

// Scanner dispatches a classified repository to its ecosystem pipeline.
type Scanner struct {
	host   string
	token  string
	runner CommandRunner
	l      *zap.Logger
}

// New creates a scanner submitting to the given SonarQube server
func New(host, token string, runner CommandRunner, l *zap.Logger) *Scanner {
	return &Scanner{host: host, token: token, runner: runner, l: l}
}

// RunCode detects the ecosystem of a code repository and runs its pipeline.
func (s *Scanner) RunCode(ctx context.Context, t Target) error {
	eco := classify.DetectEcosystem(t.Dir)
	l := s.l.With(zap.String("ecosystem", eco.String()), zap.String("key", t.Key))
	l.Info("ecosystem detected")

	switch eco {
	case classify.EcosystemJava:
		return s.runJava(ctx, l, t)
	case classify.EcosystemDotNet:
		return s.runDotNet(ctx, l, t)
	case classify.EcosystemPython:
		return s.runPython(ctx, l, t)
	case classify.EcosystemGo:
		return s.runGo(ctx, l, t)
	default:
		return s.sourcesOnlyScan(ctx, t, nil)
	}
}

// ScanConfig scans an infrastructure-as-code repository, restricted to the
// file kinds the classifier found.
func (s *Scanner) ScanConfig(ctx context.Context, t Target) error {
	s.l.Info("scanning config repository", zap.String("key", t.Key))
	return s.sourcesOnlyScan(ctx, t, []string{
		"-Dsonar.inclusions=**/*.yml,**/*.yaml,**/*.tf,**/*.tfvars",
	})
}

// ScanPerformanceTest scans a load-test repository: only test plans and
// their property files carry signal.
func (s *Scanner) ScanPerformanceTest(ctx context.Context, t Target) error {
	s.l.Info("scanning performance-test repository", zap.String("key", t.Key))
	return s.sourcesOnlyScan(ctx, t, []string{
		"-Dsonar.inclusions=**/*.jmx,**/*.properties",
	})
}

// sourcesOnlyScan invokes the plain scanner binary with no build phase.
func (s *Scanner) sourcesOnlyScan(ctx context.Context, t Target, extra []string) error {
	args := []string{
		"-Dsonar.projectKey=" + t.Key,
		"-Dsonar.sources=.",
		"-Dsonar.host.url=" + s.host,
		"-Dsonar.login=" + s.token,
	}
	args = append(args, extra...)

	if err := s.runner.Run(ctx, t.Dir, "sonar-scanner", args...); err != nil {
		return fmt.Errorf("sonar-scanner: %w", err)
	}
	return nil
}

// policy is the declared failure tolerance of a pipeline phase
type policy int

const (
	// policyFatal aborts the pipeline on failure
	policyFatal policy = iota
	// policyTolerated logs the failure and continues
	policyTolerated
)

// phase is one step of an ecosystem pipeline
type phase struct {
	name   string
	policy policy
	run    func(context.Context) error
}

// runPhases executes phases in order, applying each phase's declared policy.
func runPhases(ctx context.Context, l *zap.Logger, phases []phase) error {
	for _, p := range phases {
		if err := p.run(ctx); err != nil {
			if p.policy == policyFatal {
				return fmt.Errorf("%s: %w", p.name, err)
			}
			l.Warn("phase failed, continuing",
				zap.String("phase", p.name),
				zap.Error(err),
			)
		}
	}
	return nil
}
