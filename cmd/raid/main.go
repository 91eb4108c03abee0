package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/napolitain/solver-oasis/internal/converter"
	"github.com/napolitain/solver-oasis/internal/loader"
	"github.com/napolitain/solver-oasis/internal/models"
	"github.com/napolitain/solver-oasis/internal/report"
	"github.com/napolitain/solver-oasis/internal/solver/raid"
	"github.com/napolitain/solver-oasis/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "raid",
		Short: "Oasis raid troop optimizer",
		Long: `Finds the army composition that clears an oasis while losing the
fewest resources, with a penalty on army size that weighs cavalry heavier.`,
		SilenceUsage: true,
	}
	bindDataFlags(rootCmd.PersistentFlags(), opts)

	optimizeCmd := &cobra.Command{
		Use:   "optimize",
		Short: "Optimize an army and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptimize(cmd, opts)
		},
	}
	bindRequestFlags(optimizeCmd.Flags(), opts)
	optimizeCmd.Flags().StringVarP(&opts.xlsxPath, "xlsx", "x", "", "Also write the result to this .xlsx file")
	optimizeCmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Print the result as JSON")
	optimizeCmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Minimal output")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "Interactive raid planner",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}
	bindRequestFlags(tuiCmd.Flags(), opts)

	rootCmd.AddCommand(optimizeCmd, tuiCmd)
	return rootCmd
}

func runOptimize(cmd *cobra.Command, opts *options) error {
	titleColor := color.New(color.FgCyan, color.Bold)
	successColor := color.New(color.FgGreen, color.Bold)
	infoColor := color.New(color.FgYellow)

	roster, catalog, err := loader.LoadAll(opts.dataDir)
	if err != nil {
		return fmt.Errorf("loading data: %w", err)
	}

	req, err := buildRequest(cmd.Flags(), opts, roster, catalog)
	if err != nil {
		return err
	}

	verbose := !opts.quiet && !opts.jsonOut
	if verbose {
		titleColor.Println("\n╭───────────────────────────╮")
		titleColor.Println("│  Oasis Raid Optimizer     │")
		titleColor.Println("╰───────────────────────────╯")
		fmt.Println()
		infoColor.Printf("⚔️  %s: %v\n", req.Faction, req.Units)
		infoColor.Printf("🔄 %d iterations × %d run(s), seed %d\n\n", req.Budget, opts.restarts, req.Seed)

		if req.Defense.Total() > 0 {
			fmt.Println("🐾 Oasis:")
			if err := report.WriteOasis(os.Stdout, catalog, req.Defense); err != nil {
				return err
			}
			fmt.Println()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	solver := raid.NewSolver(roster, catalog)
	var res *models.OptimizationResult
	if opts.restarts > 1 {
		res, err = solver.OptimizeRestarts(ctx, req, opts.restarts)
	} else {
		res, err = solver.OptimizeContext(ctx, req)
	}
	if err != nil {
		return err
	}

	if opts.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(converter.ResultToResponse(res)); err != nil {
			return err
		}
	} else {
		if verbose {
			successColor.Println("✓ Best army found")
		}
		if err := report.WriteResult(os.Stdout, roster, req, res); err != nil {
			return err
		}
		printSummary(res)
	}

	if opts.xlsxPath != "" {
		if err := report.ExportXLSX(opts.xlsxPath, roster, req, res); err != nil {
			return err
		}
		if verbose {
			infoColor.Printf("\n📄 Wrote %s\n", opts.xlsxPath)
		}
	}
	return nil
}

func printSummary(res *models.OptimizationResult) {
	errorColor := color.New(color.FgRed)

	if res.TotalUnits() == 0 {
		errorColor.Println("\nNo feasible army within the given maximums")
		return
	}

	fmt.Println("\n📊 Summary:")
	fmt.Printf("   Units sent: %d\n", res.TotalUnits())
	fmt.Printf("   Expected losses: %s\n", report.FormatPercent(res.LossPercent))
	fmt.Printf("   Resources lost: %d\n", res.TotalResourceCostLost)
	fmt.Printf("   Objective score: %s\n", report.FormatScore(res.ObjectiveScore))
	fmt.Printf("   Evaluations: %d (seed %d)\n", res.Evaluations, res.Seed)
}

func runTUI(cmd *cobra.Command, opts *options) error {
	roster, catalog, err := loader.LoadAll(opts.dataDir)
	if err != nil {
		return fmt.Errorf("loading data: %w", err)
	}

	req, err := buildRequest(cmd.Flags(), opts, roster, catalog)
	if err != nil {
		return err
	}
	if _, ok := roster[req.Faction]; !ok {
		return fmt.Errorf("unknown faction %q", req.Faction)
	}

	model := tui.New(raid.NewSolver(roster, catalog), req)
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
