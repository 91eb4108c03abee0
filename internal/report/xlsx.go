package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/napolitain/solver-oasis/internal/models"
)

const (
	resultSheet = "Result"
	inputSheet  = "Request"
)

// ExportXLSX writes the request and its result to an .xlsx workbook
func ExportXLSX(path string, roster models.Roster, req *models.AttackRequest, res *models.OptimizationResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(inputSheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	headers := []string{"Unit", "Type", "Level", "Count", "Max", "Lost", "Resources Lost"}
	if err := writeRow(f, resultSheet, 1, headers); err != nil {
		return err
	}
	if err := f.SetCellStyle(resultSheet, "A1", "G1", headerStyle); err != nil {
		return err
	}

	row := 2
	for _, name := range req.Units {
		def, ok := roster.Unit(req.Faction, name)
		if !ok {
			return fmt.Errorf("unit %s not in %s", name, req.Faction)
		}
		lost := res.ExpectedLosses[name]
		values := []any{
			name,
			def.Category.String(),
			req.Levels[name],
			res.BestCounts[name],
			req.Ceilings[name],
			lost,
			lost * def.ResourceCost,
		}
		if err := writeRow(f, resultSheet, row, values); err != nil {
			return err
		}
		row++
	}

	row++
	summary := [][]any{
		{"Objective score", FormatScore(res.ObjectiveScore)},
		{"Loss percent", FormatPercent(res.LossPercent)},
		{"Resources lost", res.TotalResourceCostLost},
		{"Evaluations", res.Evaluations},
		{"Seed", res.Seed},
	}
	for _, values := range summary {
		if err := writeRow(f, resultSheet, row, values); err != nil {
			return err
		}
		row++
	}

	if err := writeRequest(f, req, headerStyle); err != nil {
		return err
	}

	if err := f.SetColWidth(resultSheet, "A", "A", 20); err != nil {
		return err
	}
	if err := f.SetColWidth(resultSheet, "B", "G", 14); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func writeRequest(f *excelize.File, req *models.AttackRequest, headerStyle int) error {
	params := [][]any{
		{"Faction", req.Faction},
		{"Army size coefficient", req.ArmySizePenalty},
		{"Cavalry coefficient", req.CavalryPenalty},
		{"Iterations", req.Budget},
		{"Seed", req.Seed},
	}
	row := 1
	for _, values := range params {
		if err := writeRow(f, inputSheet, row, values); err != nil {
			return err
		}
		row++
	}

	row++
	if err := writeRow(f, inputSheet, row, []string{"Animal", "Count"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(inputSheet, cell(1, row), cell(2, row), headerStyle); err != nil {
		return err
	}
	row++
	for _, name := range req.Defense.SortedNames() {
		if req.Defense[name] == 0 {
			continue
		}
		if err := writeRow(f, inputSheet, row, []any{name, req.Defense[name]}); err != nil {
			return err
		}
		row++
	}

	return f.SetColWidth(inputSheet, "A", "A", 24)
}

func writeRow[T any](f *excelize.File, sheet string, row int, values []T) error {
	for i, v := range values {
		if err := f.SetCellValue(sheet, cell(i+1, row), v); err != nil {
			return err
		}
	}
	return nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
