package cmd

import (
	"github.com/spf13/cobra"
)

// Version is recorded in every audit log entry.
const Version = "v1.0.0"

var rootCmd = &cobra.Command{
	Use:   "audit45",
	Short: "On/offline LLM-based ISO 45001 audit assistant",
	Long: `audit45 runs ISO 45001 internal-audit checks over collected evidence using
interchangeable LLM backends (hosted or local), and degrades to a deterministic
offline rule baseline when no backend is reachable.`,
}

var DebugMode bool

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&DebugMode, "debug", false, "Enable debug logging")
}
