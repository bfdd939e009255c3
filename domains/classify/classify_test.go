package classify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree creates the given relative file paths (empty files) under a
// fresh temp dir and returns the root.
func writeTree(t *testing.T, paths ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("x"), 0o644))
	}
	return root
}

func TestClassifyPerformanceTestBeatsCode(t *testing.T) {
	root := writeTree(t, "src/main.go", "plans/load.jmx")
	c := Classify(root)
	assert.Equal(t, CategoryPerformanceTest, c.Category)
	assert.Empty(t, c.Tags)
}

func TestClassifyPerformanceTestBeatsCodeRegardlessOfWalkOrder(t *testing.T) {
	// the source file sorts before the test plan; the plan must still win
	root := writeTree(t, "app.py", "plan.jmx")
	assert.Equal(t, CategoryPerformanceTest, Classify(root).Category)

	root = writeTree(t, "aaa/main.go", "zzz/load.jmx")
	assert.Equal(t, CategoryPerformanceTest, Classify(root).Category)
}

func TestClassifyCode(t *testing.T) {
	root := writeTree(t, "deploy/app.yaml", "src/app/Main.java")
	c := Classify(root)
	assert.Equal(t, CategoryCode, c.Category)
}

func TestClassifyCodeDeepInTreeBeatsConfig(t *testing.T) {
	// yaml at the root must not decide the category while a source file
	// exists further down
	root := writeTree(t, "ci.yml", "a/b/c/d/script.py")
	c := Classify(root)
	assert.Equal(t, CategoryCode, c.Category)
}

func TestClassifyConfigTags(t *testing.T) {
	root := writeTree(t, "deploy/app.yaml", "infra/main.tf")
	c := Classify(root)
	assert.Equal(t, CategoryConfig, c.Category)
	assert.ElementsMatch(t, []string{"yaml", "terraform"}, c.Tags)

	root = writeTree(t, "pipeline.yml")
	c = Classify(root)
	assert.Equal(t, CategoryConfig, c.Category)
	assert.Equal(t, []string{"yaml"}, c.Tags)
}

func TestClassifyEmpty(t *testing.T) {
	root := writeTree(t, "README.md", "LICENSE")
	c := Classify(root)
	assert.Equal(t, CategoryEmpty, c.Category)
	assert.Empty(t, c.Tags)
}

func TestClassifyIgnoresGitDir(t *testing.T) {
	root := writeTree(t, ".git/hooks/pre-commit.sample.py", "notes.txt")
	c := Classify(root)
	assert.Equal(t, CategoryEmpty, c.Category)
}

func TestDetectEcosystemJavaDescriptorWins(t *testing.T) {
	// Java build descriptor at the root beats any other source present
	root := writeTree(t, "pom.xml", "scripts/tool.py", "Program.cs")
	assert.Equal(t, EcosystemJava, DetectEcosystem(root))

	root = writeTree(t, "build.gradle.kts", "main.go")
	assert.Equal(t, EcosystemJava, DetectEcosystem(root))
}

func TestDetectEcosystemDotNet(t *testing.T) {
	root := writeTree(t, "src/App/App.csproj", "src/App/Program.cs")
	assert.Equal(t, EcosystemDotNet, DetectEcosystem(root))

	// sources without a project file still route to .NET
	root = writeTree(t, "src/Program.cs")
	assert.Equal(t, EcosystemDotNet, DetectEcosystem(root))
}

func TestDetectEcosystemPythonBeforeGo(t *testing.T) {
	root := writeTree(t, "tools/gen.py", "main.go")
	assert.Equal(t, EcosystemPython, DetectEcosystem(root))
}

func TestDetectEcosystemGo(t *testing.T) {
	root := writeTree(t, "go.mod")
	assert.Equal(t, EcosystemGo, DetectEcosystem(root))

	root = writeTree(t, "pkg/util/util.go")
	assert.Equal(t, EcosystemGo, DetectEcosystem(root))
}

func TestDetectEcosystemGenericFallback(t *testing.T) {
	root := writeTree(t, "lib/core.rb")
	assert.Equal(t, EcosystemGeneric, DetectEcosystem(root))
}
