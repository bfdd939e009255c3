// Package onboard drives the end-to-end onboarding of repositories: job
// enumeration, the per-job sync/classify/scan pipeline, the bounded worker
// pool and the run statistics.
package onboard

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sonarfleet/libs/gitrepo"

	"go.uber.org/zap"
)

// Job binds one repository to its analysis-server identity and filesystem
// location. Immutable once created; jobs carry no state between runs.
type Job struct {
	// Prefix is the logical namespace from the fleet list.
	Prefix string
	// Name is derived from the repository origin.
	Name string
	// Key is the stable analysis-server identity: prefix_name.
	Key string
	// DisplayName is the human-facing project name: prefix-name.
	DisplayName string
	// URL is the repository origin. Empty in local-directory mode, where the
	// checkout already exists and is never synchronized.
	URL string
	// CheckoutPath is where the working copy lives.
	CheckoutPath string
	// Branch is the branch the working copy is brought to.
	Branch string
}

// NewJob builds a job for one repository.
func NewJob(prefix, name, url, checkoutPath, branch string) Job {
	return Job{
		Prefix:       prefix,
		Name:         name,
		Key:          prefix + "_" + name,
		DisplayName:  prefix + "-" + name,
		URL:          url,
		CheckoutPath: checkoutPath,
		Branch:       branch,
	}
}

// JobsFromListFile enumerates jobs from a newline-delimited fleet list of
// `prefix,repository-url` records. Blank lines and lines without a separator
// are skipped with a warning. Duplicate project keys are dropped, first
// entry wins, so concurrent workers never race to create the same project.
func JobsFromListFile(l *zap.Logger, path, workDir, branch string) ([]Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository list: %w", err)
	}
	defer f.Close()

	var jobs []Job
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			l.Warn("skipping blank repository list line", zap.Int("line", lineNo))
			continue
		}
		prefix, url, ok := strings.Cut(line, ",")
		if !ok {
			l.Warn("skipping malformed repository list line",
				zap.Int("line", lineNo),
				zap.String("content", line),
			)
			continue
		}
		prefix = strings.TrimSpace(prefix)
		url = strings.TrimSpace(url)

		name := gitrepo.RepoNameFromURL(url)
		if name == "" {
			l.Warn("skipping repository with underivable name",
				zap.Int("line", lineNo),
				zap.String("url", url),
			)
			continue
		}

		job := NewJob(prefix, name, url, filepath.Join(workDir, name), branch)
		if seen[job.Key] {
			l.Warn("skipping duplicate project key", zap.String("key", job.Key))
			continue
		}
		seen[job.Key] = true
		jobs = append(jobs, job)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read repository list: %w", err)
	}

	return jobs, nil
}

// JobsFromLocalDir enumerates the immediate subdirectories of dir that hold
// a git working copy. No synchronization happens for these jobs.
func JobsFromLocalDir(l *zap.Logger, dir, prefix, branch string) ([]Job, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read local directory: %w", err)
	}

	var jobs []Job
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		checkout := filepath.Join(dir, e.Name())
		if _, err := os.Stat(filepath.Join(checkout, ".git")); err != nil {
			l.Debug("skipping non-repository directory", zap.String("dir", checkout))
			continue
		}
		jobs = append(jobs, NewJob(prefix, e.Name(), "", checkout, branch))
	}

	return jobs, nil
}
