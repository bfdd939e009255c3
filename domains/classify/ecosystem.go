package classify

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Ecosystem is the language/build-tool family that decides which scan
// pipeline runs for a code repository.
type Ecosystem string

const (
	EcosystemJava    Ecosystem = "java"
	EcosystemDotNet  Ecosystem = "dotnet"
	EcosystemPython  Ecosystem = "python"
	EcosystemGo      Ecosystem = "go"
	EcosystemGeneric Ecosystem = "generic"
)

// String returns the string representation of the ecosystem
func (e Ecosystem) String() string {
	return string(e)
}

// Java build descriptors checked at the repository root only.
var javaBuildFiles = []string{"pom.xml", "build.gradle", "build.gradle.kts"}

// DetectEcosystem picks the executor for a repository already classified as
// code. Marker checks run in strength order, first match wins:
//
//  1. Java build descriptor at the root
//  2. .NET solution/project anywhere, or .NET sources even without one
//  3. Python sources anywhere
//  4. Go module descriptor at the root, or Go sources anywhere
//  5. generic sources-only fallback
//
// Build descriptors are the strongest signal and broad source-extension
// presence the weakest, so a repository with a real build system plus a few
// scattered scripts is still routed to the build system.
func DetectEcosystem(root string) Ecosystem {
	for _, f := range javaBuildFiles {
		if fileExists(filepath.Join(root, f)) {
			return EcosystemJava
		}
	}

	m := collectMarkers(root)
	switch {
	case m.dotnetProject || m.dotnetSource:
		return EcosystemDotNet
	case m.pythonSource:
		return EcosystemPython
	case fileExists(filepath.Join(root, "go.mod")) || m.goSource:
		return EcosystemGo
	default:
		return EcosystemGeneric
	}
}

type markers struct {
	dotnetProject bool
	dotnetSource  bool
	pythonSource  bool
	goSource      bool
}

// collectMarkers records which ecosystem markers exist anywhere in the tree.
// One walk covers every check below the root; the ordering between markers
// is applied afterwards by DetectEcosystem.
func collectMarkers(root string) markers {
	var m markers

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}

		switch strings.ToLower(filepath.Ext(path)) {
		case ".sln", ".csproj", ".vbproj", ".fsproj":
			m.dotnetProject = true
		case ".cs", ".vb":
			m.dotnetSource = true
		case ".py":
			m.pythonSource = true
		case ".go":
			m.goSource = true
		}

		// Everything below the strongest remaining marker is settled once a
		// .NET project file shows up.
		if m.dotnetProject {
			return filepath.SkipAll
		}
		return nil
	})

	return m
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
