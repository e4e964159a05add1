package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/sells-group/bikesafety-cli/internal/cleaner"
	"github.com/sells-group/bikesafety-cli/internal/crash"
)

var crashesAnalyzeVerbose bool

var crashesAnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Clean the crash data and print casualty statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cleaned, report, err := loadCleanedCrashes(cfg.Data.CrashFile)
		if err != nil {
			return err
		}
		printCleaningReport(report)

		a := crash.Analyze(cleaned)

		out.Println("\n===== BIKE CRASH ANALYSIS =====")
		out.Printf("Crashes involving cyclists: %d\n", a.Crashes)
		out.Printf("Cyclists injured: %d\n", a.CyclistsInjured)
		out.Printf("Cyclists killed:  %d\n", a.CyclistsKilled)
		out.Printf("Total casualties: %d\n", a.TotalCasualties)

		if len(a.ByMonth) > 0 {
			out.Println("\nCrashes by month:")
			for _, m := range a.ByMonth {
				out.Printf("  %-10s %d\n", m.Month, m.Count)
			}
		}
		if len(a.ByBorough) > 0 {
			out.Println("\nCrashes by borough:")
			for _, b := range a.ByBorough {
				out.Printf("  %-15s %d\n", b.Label, b.Count)
			}
		}
		if len(a.TopFactors) > 0 {
			out.Println("\nTop contributing factors:")
			for _, f := range a.TopFactors {
				out.Printf("  %-40s %d\n", f.Label, f.Count)
			}
		}
		return nil
	},
}

// printCleaningReport surfaces the per-stage counts, which is how schema
// drift in a new dataset version shows up first.
func printCleaningReport(report cleaner.Report) {
	out.Printf("Cleaned %d records: %d with cyclist casualties, %d with coordinates\n",
		report.Input, report.AfterCasualty, report.AfterCoordinates)
	if report.DateParseFailures > 0 {
		out.Printf("Warning: %d crash dates could not be parsed\n", report.DateParseFailures)
	}
	if crashesAnalyzeVerbose {
		out.Printf("Columns after aliasing: %s\n", strings.Join(report.Columns, ", "))
	}
}

func init() {
	crashesAnalyzeCmd.Flags().BoolVar(&crashesAnalyzeVerbose, "columns", false, "print the column inventory after aliasing")
	crashesCmd.AddCommand(crashesAnalyzeCmd)
}
