package main

import "github.com/spf13/cobra"

var crashesCmd = &cobra.Command{
	Use:   "crashes",
	Short: "Fetch and analyze traffic-crash data",
}

func init() { rootCmd.AddCommand(crashesCmd) }
