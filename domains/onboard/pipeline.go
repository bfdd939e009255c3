package onboard

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"sonarfleet/config"
	"sonarfleet/domains/classify"
	"sonarfleet/domains/overrides"
	"sonarfleet/domains/scan"
	"sonarfleet/domains/sonar"
	"sonarfleet/libs/gitrepo"

	"go.uber.org/zap"
)

// Pipeline runs one job end to end: register, synchronize, prepare,
// classify, scan. Each worker owns its own pipeline so the HTTP client
// underneath is never shared.
type Pipeline struct {
	l         *zap.Logger
	registrar *sonar.Registrar
	scanner   *scan.Scanner
	runner    scan.CommandRunner
	overrides overrides.Map
	stats     *Stats
}

// NewPipeline wires a pipeline with its own Sonar client and command runner.
func NewPipeline(cfg config.Config, ov overrides.Map, stats *Stats, l *zap.Logger) *Pipeline {
	client := sonar.NewClient(cfg.SonarHost, cfg.SonarToken, l)
	runner := scan.NewExecRunner(l)
	return &Pipeline{
		l:         l,
		registrar: sonar.NewRegistrar(client, l),
		scanner:   scan.New(cfg.SonarHost, cfg.SonarToken, runner, l),
		runner:    runner,
		overrides: ov,
		stats:     stats,
	}
}

// Process runs the job and records exactly one terminal outcome.
func (p *Pipeline) Process(ctx context.Context, job Job) {
	l := p.l.With(
		zap.String("repo", job.Name),
		zap.String("key", job.Key),
	)
	l.Info("processing repository")

	outcome, err := p.run(ctx, l, job)
	if err != nil {
		l.Error("job failed", zap.Error(err))
		outcome = OutcomeFailed
	}
	p.stats.RecordOutcome(outcome)
}

func (p *Pipeline) run(ctx context.Context, l *zap.Logger, job Job) (Outcome, error) {
	// The analysis project must exist before any scan submits to it.
	// Creation failure is the one registrar error that fails the job.
	created, err := p.registrar.EnsureProject(ctx, job.Key, job.DisplayName)
	if err != nil {
		return OutcomeFailed, err
	}
	if created {
		p.stats.AddCreated()
	} else {
		p.stats.AddExisting()
	}

	if job.URL != "" {
		if err := gitrepo.Sync(ctx, l, job.URL, job.CheckoutPath, job.Branch); err != nil {
			return OutcomeFailed, err
		}
	}

	if branch, err := gitrepo.DefaultBranch(job.CheckoutPath); err == nil {
		p.registrar.SyncDefaultBranch(ctx, job.Key, branch)
	} else {
		l.Warn("could not determine checked-out branch", zap.Error(err))
	}

	scanPath := p.prepare(ctx, l, job)

	cl := classify.Classify(scanPath)
	l.Info("repository classified",
		zap.String("category", cl.Category.String()),
		zap.Strings("tags", cl.Tags),
	)

	target := scan.Target{Key: job.Key, Name: job.DisplayName, Dir: scanPath}

	switch cl.Category {
	case classify.CategoryCode:
		if err := p.scanner.RunCode(ctx, target); err != nil {
			return OutcomeFailed, err
		}
		return OutcomeScanned, nil

	case classify.CategoryConfig:
		if err := p.scanner.ScanConfig(ctx, target); err != nil {
			return OutcomeFailed, err
		}
		return OutcomeConfigOnly, nil

	case classify.CategoryPerformanceTest:
		p.registrar.MarkConfigOnly(ctx, job.Key, job.DisplayName)
		if err := p.scanner.ScanPerformanceTest(ctx, target); err != nil {
			return OutcomeFailed, err
		}
		return OutcomeConfigOnly, nil

	default:
		l.Info("nothing to scan")
		return OutcomeEmpty, nil
	}
}

// prepare applies the repository's override, if any: resolve the scan root
// and run the preparation commands there. The scan root is always inside
// the checkout; a missing workdir falls back to the checkout root.
func (p *Pipeline) prepare(ctx context.Context, l *zap.Logger, job Job) string {
	ov, ok := p.overrides[job.Name]
	if !ok {
		return job.CheckoutPath
	}

	scanPath := job.CheckoutPath
	if ov.Workdir != "" {
		candidate := filepath.Join(job.CheckoutPath, ov.Workdir)
		// The scan root must stay inside the checkout; a workdir like
		// "../elsewhere" would otherwise redirect both the scan and the
		// override commands outside it.
		rel, relErr := filepath.Rel(job.CheckoutPath, candidate)
		if relErr != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			l.Warn("override workdir escapes the checkout, falling back to repository root",
				zap.String("workdir", ov.Workdir),
			)
		} else if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			scanPath = candidate
		} else {
			l.Warn("override workdir missing, falling back to repository root",
				zap.String("workdir", ov.Workdir),
			)
		}
	}

	for _, cmd := range ov.Commands {
		if err := scan.RunShell(ctx, p.runner, scanPath, cmd); err != nil {
			l.Warn("override command failed, continuing",
				zap.String("command", cmd),
				zap.Error(err),
			)
		}
	}

	return scanPath
}
