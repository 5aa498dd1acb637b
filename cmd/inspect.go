package cmd

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/weftlabs/weft/state"
)

var inspectCmd = &cobra.Command{
	Use:     "inspect",
	Aliases: []string{"i"},
	Short:   "Inspect a scenario file",
	Run: func(cmd *cobra.Command, args []string) {
		var cfg state.CentralCfg
		file, err := os.ReadFile(configPath)
		if err != nil {
			fmt.Println("Error:", err.Error())
			return
		}
		err = yaml.Unmarshal(file, &cfg)
		if err != nil {
			fmt.Println("Error:", err.Error())
			return
		}
		state.ExpandConfig(&cfg)
		err = state.CentralConfigValidator(&cfg)
		if err != nil {
			fmt.Println("Invalid scenario:", err.Error())
			return
		}

		fmt.Printf("scenario: %d nodes, %d links, runs for %s\n", len(cfg.Nodes), len(cfg.Links), cfg.RunFor)
		for _, n := range cfg.Nodes {
			if n.Role == state.RoleRouter {
				fmt.Printf("  %-10s addr=%-5d %s routing=%s\n", n.Id, n.Address, n.Role, n.Routing)
				for _, sr := range n.StaticRoutes {
					fmt.Printf("      route %d via port %d\n", sr.Dest, sr.Port)
				}
			} else {
				fmt.Printf("  %-10s addr=%-5d %s\n", n.Id, n.Address, n.Role)
			}
		}
		for _, l := range cfg.Links {
			fmt.Printf("  %s <-> %s  %gMbps %s\n", l.A, l.B, l.Bandwidth, l.Delay)
		}
	},
	GroupID: "wf",
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
