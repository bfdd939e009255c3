package main

import (
	"context"
	"fmt"
	"os"

	"sonarfleet/api"
	"sonarfleet/config"
	"sonarfleet/domains/onboard"
	"sonarfleet/domains/overrides"
	"sonarfleet/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

var (
	flagLocalDir   string
	flagPrefix     string
	flagReposFile  string
	flagWorkers    int
	flagBranch     string
	flagOverrides  string
	flagStatusAddr string
	flagWorkDir    string
)

var rootCmd = &cobra.Command{
	Use:   "sonarfleet",
	Short: "Bulk-onboard repositories into SonarQube",
	Long: `Sonarfleet onboards fleets of heterogeneous repositories into a
SonarQube server unattended: it ensures each analysis project exists,
synchronizes the working copy, classifies the codebase and runs the
matching build/test/coverage/scan pipeline with per-ecosystem failure
tolerance.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		return run(cfg)
	},
}

func init() {
	rootCmd.Flags().StringVar(&flagLocalDir, "local", "", "onboard the repositories already checked out under this directory instead of a fleet list")
	rootCmd.Flags().StringVar(&flagPrefix, "prefix", "local", "project key prefix for local-directory mode")
	rootCmd.Flags().StringVar(&flagReposFile, "repos", "repos.txt", "fleet list file with prefix,repository-url lines")
	rootCmd.Flags().IntVar(&flagWorkers, "workers", 1, "number of concurrent workers")
	rootCmd.Flags().StringVar(&flagBranch, "branch", "", "branch to bring working copies to (default from SONARFLEET_BRANCH)")
	rootCmd.Flags().StringVar(&flagOverrides, "overrides", "", "yaml file with per-repository workdir/command overrides")
	rootCmd.Flags().StringVar(&flagStatusAddr, "status-addr", "", "serve live run statistics on this address (e.g. :8080)")
	rootCmd.Flags().StringVar(&flagWorkDir, "work-dir", "", "directory for working copies (default from SONARFLEET_WORK_DIR)")
}

func run(cfg config.Config) error {
	app := fx.New(
		fx.Supply(cfg),
		fx.Supply(api.Params{Addr: flagStatusAddr}),
		fx.Provide(
			logger.New,
			onboard.NewStats,
		),
		fx.Decorate(func(l *zap.Logger) *zap.Logger {
			return l.With(zap.String("service", "sonarfleet"))
		}),
		fx.Invoke(
			api.Run,
			runBatch,
		),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{
				Logger: l,
			}
		}),
	)
	if err := app.Err(); err != nil {
		return err
	}
	app.Run()
	return nil
}

// runBatch enumerates jobs at startup, so a bad list or overrides file fails
// before anything is processed, then drives the batch on the fx lifecycle
// and shuts the app down once the summary is printed.
func runBatch(lc fx.Lifecycle, sd fx.Shutdowner, l *zap.Logger, cfg config.Config, stats *onboard.Stats) error {
	ov, err := overrides.Load(flagOverrides)
	if err != nil {
		return err
	}

	branch := flagBranch
	if branch == "" {
		branch = cfg.DefaultBranch
	}
	workDir := flagWorkDir
	if workDir == "" {
		workDir = cfg.WorkDir
	}

	var jobs []onboard.Job
	if flagLocalDir != "" {
		jobs, err = onboard.JobsFromLocalDir(l, flagLocalDir, flagPrefix, branch)
	} else {
		jobs, err = onboard.JobsFromListFile(l, flagReposFile, workDir, branch)
	}
	if err != nil {
		return err
	}

	runner := onboard.NewRunner(flagWorkers, func() onboard.Processor {
		return onboard.NewPipeline(cfg, ov, stats, l)
	}, stats, l)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				l.Info("starting batch", zap.Int("jobs", len(jobs)), zap.Int("workers", flagWorkers))
				snap := runner.Run(context.Background(), jobs)
				onboard.PrintSummary(snap)
				_ = sd.Shutdown()
			}()
			return nil
		},
	})

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
