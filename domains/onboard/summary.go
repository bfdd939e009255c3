package onboard

import (
	"fmt"

	"github.com/fatih/color"
)

// PrintSummary writes the final aggregate block for the whole run.
func PrintSummary(s Snapshot) {
	bold := color.New(color.Bold)
	bold.Println("\n=== Summary ===")

	fmt.Printf("Projects created:         %d\n", s.Created)
	fmt.Printf("Projects already existed: %d\n", s.Existing)
	fmt.Printf("Repos scanned:            %d\n", s.Scanned)
	fmt.Printf("Config-only repos:        %d\n", s.ConfigOnly)
	fmt.Printf("Empty repos:              %d\n", s.Empty)

	if s.Failed > 0 {
		color.New(color.FgRed).Printf("Failures:                 %d\n", s.Failed)
	} else {
		fmt.Printf("Failures:                 %d\n", s.Failed)
	}
}
