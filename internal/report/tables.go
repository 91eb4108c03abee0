// Package report renders optimization results for terminals and spreadsheets
package report

import (
	"fmt"
	"io"
	"math"

	"github.com/olekukonko/tablewriter"

	"github.com/napolitain/solver-oasis/internal/models"
)

// FormatPercent formats a loss percentage, "∞" when the army has no offense
func FormatPercent(v float64) string {
	if math.IsInf(v, 1) {
		return "∞"
	}
	return fmt.Sprintf("%.2f%%", v)
}

// FormatScore formats an objective score, "∞" when nothing feasible was found
func FormatScore(v float64) string {
	if math.IsInf(v, 1) {
		return "∞"
	}
	return fmt.Sprintf("%.0f", v)
}

// WriteResult prints one row per selected unit with its count and losses
func WriteResult(w io.Writer, roster models.Roster, req *models.AttackRequest, res *models.OptimizationResult) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Unit", "Type", "Level", "Count", "Max", "Attack", "Lost", "Resources Lost"}),
	)

	for _, name := range req.Units {
		def, ok := roster.Unit(req.Faction, name)
		if !ok {
			return fmt.Errorf("unit %s not in %s", name, req.Faction)
		}
		level := req.Levels[name]
		count := res.BestCounts[name]
		lost := res.ExpectedLosses[name]

		row := []string{
			name,
			def.Category.String(),
			fmt.Sprintf("%d", level),
			fmt.Sprintf("%d", count),
			fmt.Sprintf("%d", req.Ceilings[name]),
			fmt.Sprintf("%.0f", float64(count)*def.Attack(level)),
			fmt.Sprintf("%d", lost),
			fmt.Sprintf("%d", lost*def.ResourceCost),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// WriteOasis prints the oasis garrison with its defense totals
func WriteOasis(w io.Writer, catalog models.DefenderCatalog, composition models.DefenseComposition) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Animal", "Count", "Def Inf", "Def Cav"}),
	)

	for _, d := range catalog {
		count := composition[d.Name]
		if count == 0 {
			continue
		}
		row := []string{
			d.Name,
			fmt.Sprintf("%d", count),
			fmt.Sprintf("%.0f", float64(count)*d.InfantryDefense),
			fmt.Sprintf("%.0f", float64(count)*d.CavalryDefense),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// WriteRoster prints every unit of every faction
func WriteRoster(w io.Writer, roster models.Roster) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Faction", "Unit", "Type", "Cost", "Levels", "Attack"}),
	)

	for _, factionName := range roster.FactionNames() {
		faction := roster[factionName]
		for _, name := range faction.UnitNames() {
			def := faction[name]
			row := []string{
				factionName,
				name,
				def.Category.String(),
				fmt.Sprintf("%d", def.ResourceCost),
				fmt.Sprintf("%d", def.MaxLevel()),
				fmt.Sprintf("%.1f → %.1f", def.Attack(1), def.Attack(def.MaxLevel())),
			}
			if err := table.Append(row); err != nil {
				return err
			}
		}
	}
	return table.Render()
}

// WriteDefenders prints the oasis animal catalog
func WriteDefenders(w io.Writer, catalog models.DefenderCatalog) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Animal", "Def Inf", "Def Cav"}),
	)
	for _, d := range catalog {
		row := []string{
			d.Name,
			fmt.Sprintf("%.0f", d.InfantryDefense),
			fmt.Sprintf("%.0f", d.CavalryDefense),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}
