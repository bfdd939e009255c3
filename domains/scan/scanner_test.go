package scan

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeRunner records invocations and fails those matching failOn.
type fakeRunner struct {
	calls  []string
	failOn []string
}

func (f *fakeRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	call := name + " " + strings.Join(args, " ")
	f.calls = append(f.calls, call)
	for _, fail := range f.failOn {
		if strings.HasPrefix(call, fail) {
			return errors.New("exit status 1")
		}
	}
	return nil
}

func (f *fakeRunner) calledWithPrefix(prefix string) bool {
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

func newTestScanner(runner CommandRunner) *Scanner {
	return New("http://sonar.local:9000", "secret", runner, zap.NewNop())
}

func writeFiles(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("x"), 0o644))
	}
}

func TestJavaBuildFailureAbortsBeforeScan(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "pom.xml", "src/main/java/App.java")

	runner := &fakeRunner{failOn: []string{"mvn clean verify"}}
	err := newTestScanner(runner).RunCode(context.Background(), Target{Key: "k", Name: "n", Dir: dir})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBuildFailed))
	assert.False(t, runner.calledWithPrefix("mvn sonar:sonar"))
	assert.False(t, runner.calledWithPrefix("sonar-scanner"))
}

func TestJavaScanRunsAfterBuildWithCoverage(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "pom.xml", "src/main/java/App.java", "target/site/jacoco/jacoco.xml")

	runner := &fakeRunner{}
	err := newTestScanner(runner).RunCode(context.Background(), Target{Key: "k", Name: "n", Dir: dir})

	require.NoError(t, err)
	assert.True(t, runner.calledWithPrefix("mvn clean verify"))
	assert.True(t, runner.calledWithPrefix("mvn sonar:sonar"))
	joined := strings.Join(runner.calls, "\n")
	assert.Contains(t, joined, "-Dsonar.coverage.jacoco.xmlReportPaths="+filepath.Join("target", "site", "jacoco", "jacoco.xml"))
}

func TestDotNetBuildFailureStillFinalizes(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "App.sln", "src/Program.cs")

	runner := &fakeRunner{failOn: []string{"dotnet build", "dotnet test"}}
	err := newTestScanner(runner).RunCode(context.Background(), Target{Key: "k", Name: "n", Dir: dir})

	require.NoError(t, err)
	assert.True(t, runner.calledWithPrefix("dotnet sonarscanner begin"))
	assert.True(t, runner.calledWithPrefix("dotnet sonarscanner end"))
}

func TestDotNetBeginFailureFallsBackToSourcesOnly(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "src/Program.cs")

	runner := &fakeRunner{failOn: []string{"dotnet sonarscanner begin"}}
	err := newTestScanner(runner).RunCode(context.Background(), Target{Key: "k", Name: "n", Dir: dir})

	require.NoError(t, err)
	assert.True(t, runner.calledWithPrefix("sonar-scanner"))
	assert.False(t, runner.calledWithPrefix("dotnet build"))
	assert.False(t, runner.calledWithPrefix("dotnet sonarscanner end"))
}

func TestGoTestFailureScansWithoutCoverage(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "go.mod", "main.go")

	runner := &fakeRunner{failOn: []string{"go test"}}
	err := newTestScanner(runner).RunCode(context.Background(), Target{Key: "k", Name: "n", Dir: dir})

	require.NoError(t, err)
	assert.True(t, runner.calledWithPrefix("sonar-scanner"))
	assert.NotContains(t, strings.Join(runner.calls, "\n"), "sonar.go.coverage.reportPaths")
}

func TestPythonCoverageAttachedWhenPresent(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "app.py", "coverage.xml")

	runner := &fakeRunner{}
	err := newTestScanner(runner).RunCode(context.Background(), Target{Key: "k", Name: "n", Dir: dir})

	require.NoError(t, err)
	assert.Contains(t, strings.Join(runner.calls, "\n"), "-Dsonar.python.coverage.reportPaths=coverage.xml")
}

func TestScanConfigRestrictsInclusions(t *testing.T) {
	runner := &fakeRunner{}
	err := newTestScanner(runner).ScanConfig(context.Background(), Target{Key: "k", Name: "n", Dir: t.TempDir()})

	require.NoError(t, err)
	joined := strings.Join(runner.calls, "\n")
	assert.Contains(t, joined, "-Dsonar.inclusions=**/*.yml,**/*.yaml,**/*.tf,**/*.tfvars")
}

func TestScanPerformanceTestRestrictsInclusions(t *testing.T) {
	runner := &fakeRunner{}
	err := newTestScanner(runner).ScanPerformanceTest(context.Background(), Target{Key: "k", Name: "n", Dir: t.TempDir()})

	require.NoError(t, err)
	assert.Contains(t, strings.Join(runner.calls, "\n"), "-Dsonar.inclusions=**/*.jmx,**/*.properties")
}

func TestScannerFailurePropagates(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "lib/core.rb")

	runner := &fakeRunner{failOn: []string{"sonar-scanner"}}
	err := newTestScanner(runner).RunCode(context.Background(), Target{Key: "k", Name: "n", Dir: dir})
	assert.Error(t, err)
}
