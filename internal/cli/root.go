package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "retention",
	Short: "Memory-retention learning simulator",
	Long:  "Retention models forgetting and reinforcement of learned concepts over simulated time, and surfaces the concepts most in need of review.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(queueCmd)
	rootCmd.AddCommand(conceptsCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(reviseCmd)
	rootCmd.AddCommand(advanceCmd)
	rootCmd.AddCommand(rateCmd)
}
