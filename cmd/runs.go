package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/sells-group/bikesafety-cli/internal/proximity"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List saved proximity analysis runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		runs, err := st.ListRuns(cmd.Context(), runsLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			out.Println("No saved runs.")
			return nil
		}

		for _, run := range runs {
			var summary proximity.Summary
			if err := json.Unmarshal(run.Summary, &summary); err != nil {
				out.Printf("%s  %s  (unreadable summary)\n", run.CreatedAt.Format("2006-01-02 15:04"), run.ID)
				continue
			}
			out.Printf("%s  %s  stations=%d crashes=%d mean=%.1fm median=%.1fm\n",
				run.CreatedAt.Format("2006-01-02 15:04"), run.ID,
				run.Stations, run.Crashes, summary.MeanM, summary.MedianM)
		}
		return nil
	},
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum runs to list")
	rootCmd.AddCommand(runsCmd)
}
