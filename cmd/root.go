package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath = "scenario.yaml"
	logPath    = ""
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "weft",
	Short: "Weft Network Simulation CLI",
	Long: `Weft is a discrete-event simulator for enterprise networks.
It models hybrid TCP/UDP hosts with congestion control and SYN-flood defense,
priority transmission schedulers on every link, and routers speaking static,
distance-vector and link-state protocols.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddGroup(&cobra.Group{
		ID:    "init",
		Title: "Initialize Weft",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "wf",
		Title: "Weft Commands",
	})
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", configPath, "scenario config")
	rootCmd.PersistentFlags().StringVarP(&logPath, "log", "l", logPath, "also write logs to this file")
}
