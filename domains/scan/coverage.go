package scan

import (
	"io/fs"
	"os"
	"path/filepath"
)

// findJacocoReports returns jacoco XML reports relative to root, in the
// conventional maven/gradle output locations.
func findJacocoReports(root string) []string {
	var reports []string

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
		if d.Name() != "jacoco.xml" {
			return nil
		}
		parent := filepath.Base(filepath.Dir(path))
		if parent != "jacoco" && parent != "jacocoTestReport" {
			return nil
		}
		if rel, relErr := filepath.Rel(root, path); relErr == nil {
			reports = append(reports, rel)
		}
		return nil
	})

	return reports
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
