package cmd

import (
	"github.com/spf13/cobra"
	"github.com/weftlabs/weft/core"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scenario",
	Long:  `Loads a scenario file, wires the topology and drives the event clock to the configured end time.`,
	Run: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		err := core.Bootstrap(configPath, logPath, verbose)
		if err != nil {
			panic(err)
		}
	},
	GroupID: "wf",
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("verbose", "v", false, "Verbose output")
}
