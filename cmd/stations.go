package main

import "github.com/spf13/cobra"

var stationsCmd = &cobra.Command{
	Use:   "stations",
	Short: "Fetch and analyze bike-share station data",
}

func init() { rootCmd.AddCommand(stationsCmd) }
