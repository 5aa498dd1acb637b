package cmd

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/weftlabs/weft/mock"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a sample scenario",
	Long:  `Writes a ready-to-run scenario file with a pc, two routers and the four standard servers.`,
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := os.Stat(configPath); err == nil {
			fmt.Printf("%s already exists, refusing to overwrite\n", configPath)
			os.Exit(-1)
		}
		cfg := mock.MockCfg()
		out, err := yaml.Marshal(&cfg)
		if err != nil {
			panic(err)
		}
		err = os.WriteFile(configPath, out, 0644)
		if err != nil {
			panic(err)
		}
		fmt.Printf("Wrote %s\n", configPath)
	},
	GroupID: "init",
}

func init() {
	rootCmd.AddCommand(initCmd)
}
