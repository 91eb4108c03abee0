package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/napolitain/solver-oasis/internal/loader"
	"github.com/napolitain/solver-oasis/internal/models"
	"github.com/napolitain/solver-oasis/internal/report"
)

func main() {
	var dataDir, faction string

	rootCmd := &cobra.Command{
		Use:   "units",
		Short: "List attacking units and oasis animals",
		Long: `Prints the unit tables of every faction (attack per upgrade level,
category and resource cost) and the oasis animal defense values.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listUnits(dataDir, faction)
		},
	}
	rootCmd.Flags().StringVarP(&dataDir, "data", "d", "", "Directory with roster.yaml and oasis.yaml (built-in tables when empty)")
	rootCmd.Flags().StringVarP(&faction, "faction", "f", "", "Only show this faction")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func listUnits(dataDir, faction string) error {
	titleColor := color.New(color.FgCyan, color.Bold)

	roster, catalog, err := loader.LoadAll(dataDir)
	if err != nil {
		return fmt.Errorf("loading data: %w", err)
	}

	if faction != "" {
		f, ok := roster[faction]
		if !ok {
			return fmt.Errorf("unknown faction %q (known: %v)", faction, roster.FactionNames())
		}
		roster = models.Roster{faction: f}
	}

	titleColor.Println("\n📋 Attacking units:")
	if err := report.WriteRoster(os.Stdout, roster); err != nil {
		return err
	}

	titleColor.Println("\n🐾 Oasis animals:")
	return report.WriteDefenders(os.Stdout, catalog)
}
