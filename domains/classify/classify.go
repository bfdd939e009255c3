// Package classify inspects a repository's file tree to decide what kind of
// codebase it is and which scan pipeline applies.
package classify

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Category is the kind of repository derived from a single tree walk.
type Category string

const (
	// CategoryCode contains recognized source files and gets a full
	// build/test/scan pipeline.
	CategoryCode Category = "code"
	// CategoryConfig contains only infrastructure-as-code files.
	CategoryConfig Category = "config"
	// CategoryPerformanceTest contains load-test plans. Takes priority over
	// code: the value of scanning these repositories is their test-plan
	// schema, not any stray source file.
	CategoryPerformanceTest Category = "performance-test"
	// CategoryEmpty contains nothing we recognize.
	CategoryEmpty Category = "empty"
)

// String returns the string representation of the category
func (c Category) String() string {
	return string(c)
}

// Classification is the result of inspecting a repository tree: its category
// plus descriptive tags (for config repositories, which kinds were found).
type Classification struct {
	Category Category
	Tags     []string
}

// performance-test marker extensions (JMeter test plans)
var perfTestExtensions = map[string]bool{
	".jmx": true,
}

// source code extensions across mainstream compiled and interpreted languages
var codeExtensions = map[string]bool{
	".go":     true,
	".java":   true,
	".kt":     true,
	".kts":    true,
	".scala":  true,
	".groovy": true,
	".py":     true,
	".rb":     true,
	".php":    true,
	".js":     true,
	".jsx":    true,
	".ts":     true,
	".tsx":    true,
	".cs":     true,
	".vb":     true,
	".fs":     true,
	".c":      true,
	".cc":     true,
	".cpp":    true,
	".cxx":    true,
	".h":      true,
	".hpp":    true,
	".m":      true,
	".mm":     true,
	".swift":  true,
	".rs":     true,
	".dart":   true,
	".lua":    true,
	".pl":     true,
	".r":      true,
	".sql":    true,
}

// Classify walks the tree once and categorizes it. Priority order, highest
// first: performance-test, code, config, empty. Only a performance-test hit
// short-circuits the walk: a code or infrastructure file just sets a flag,
// because a test-plan file anywhere else in the tree must still win.
// Unreadable entries are skipped, never fatal.
func Classify(root string) Classification {
	var foundCode, foundYAML, foundTerraform bool
	var category Category

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
		if !d.Type().IsRegular() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		switch {
		case perfTestExtensions[ext]:
			category = CategoryPerformanceTest
			return filepath.SkipAll
		case codeExtensions[ext]:
			foundCode = true
		case ext == ".yml" || ext == ".yaml":
			foundYAML = true
		case ext == ".tf" || ext == ".tfvars":
			foundTerraform = true
		}
		return nil
	})

	if category != "" {
		return Classification{Category: category}
	}
	if foundCode {
		return Classification{Category: CategoryCode}
	}

	var tags []string
	if foundYAML {
		tags = append(tags, "yaml")
	}
	if foundTerraform {
		tags = append(tags, "terraform")
	}
	if len(tags) > 0 {
		return Classification{Category: CategoryConfig, Tags: tags}
	}
	return Classification{Category: CategoryEmpty}
}
