// Package cmd provides the command-line interface of chartline.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chartline",
	Short: "Chartline plays chart timelines of segments and triggers.",
	Long: `Chartline plays chart timelines of segments and triggers. ` +
		`It can replay a chart at given clock values (replay), list what a ` +
		`chart contains (inspect) and play a chart in real time behind an ` +
		`HTTP monitor (monitor).`,
	SilenceUsage: true,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.String("log-level", "info", "quiet, info or debug")
	f.String("record-path", "", "SQLite file to record crossings to, without suffix")
	f.Int("tick-ms", 16, "real-time tick period in milliseconds")
	f.Int("monitor-port", 0, "port of the monitor, 0 for a random port")
	f.Bool("open-browser", false, "open the monitor in the default browser")
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
