package report

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/napolitain/solver-oasis/internal/models"
)

func testRoster() models.Roster {
	return models.Roster{
		"Teuton": {
			"Clubswinger":     {Name: "Clubswinger", Category: models.Infantry, AttackByLevel: []float64{40.0, 40.6}, ResourceCost: 250},
			"Teutonic_Knight": {Name: "Teutonic_Knight", Category: models.Cavalry, AttackByLevel: []float64{150.0, 152.2}, ResourceCost: 1525},
		},
	}
}

func testResult() (*models.AttackRequest, *models.OptimizationResult) {
	req := models.NewAttackRequest("Teuton")
	req.Units = []string{"Clubswinger", "Teutonic_Knight"}
	req.Levels = map[string]int{"Clubswinger": 2, "Teutonic_Knight": 1}
	req.Ceilings = map[string]int{"Clubswinger": 500, "Teutonic_Knight": 20}
	req.Defense = models.DefenseComposition{"Rat": 22, "Spider": 0}

	res := &models.OptimizationResult{
		BestCounts:            map[string]int{"Clubswinger": 120, "Teutonic_Knight": 3},
		ObjectiveScore:        1875,
		LossPercent:           4.1234,
		ExpectedLosses:        map[string]int{"Clubswinger": 5, "Teutonic_Knight": 0},
		TotalResourceCostLost: 1250,
		Evaluations:           812,
		Seed:                  42,
	}
	return req, res
}

func TestFormat(t *testing.T) {
	if got := FormatPercent(math.Inf(1)); got != "∞" {
		t.Errorf("FormatPercent(+Inf) = %q", got)
	}
	if got := FormatPercent(4.1234); got != "4.12%" {
		t.Errorf("FormatPercent(4.1234) = %q", got)
	}
	if got := FormatScore(math.Inf(1)); got != "∞" {
		t.Errorf("FormatScore(+Inf) = %q", got)
	}
	if got := FormatScore(1875); got != "1875" {
		t.Errorf("FormatScore(1875) = %q", got)
	}
}

func TestWriteResult(t *testing.T) {
	req, res := testResult()
	var buf bytes.Buffer
	if err := WriteResult(&buf, testRoster(), req, res); err != nil {
		t.Fatalf("WriteResult: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Clubswinger", "Teutonic_Knight", "120", "4872", "1250", "cavalry"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteResultUnknownUnit(t *testing.T) {
	req, res := testResult()
	req.Units = append(req.Units, "Axeman")
	if err := WriteResult(&bytes.Buffer{}, testRoster(), req, res); err == nil {
		t.Error("expected error for unit outside the roster")
	}
}

func TestWriteOasisSkipsEmpty(t *testing.T) {
	catalog := models.DefenderCatalog{
		{Name: "Rat", InfantryDefense: 25, CavalryDefense: 20},
		{Name: "Spider", InfantryDefense: 35, CavalryDefense: 40},
	}
	var buf bytes.Buffer
	if err := WriteOasis(&buf, catalog, models.DefenseComposition{"Rat": 22}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "550") || strings.Contains(out, "Spider") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestWriteRosterAndDefenders(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRoster(&buf, testRoster()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "150.0 → 152.2") {
		t.Errorf("attack range missing:\n%s", buf.String())
	}

	buf.Reset()
	if err := WriteDefenders(&buf, models.DefenderCatalog{{Name: "Elephant", InfantryDefense: 440, CavalryDefense: 520}}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Elephant") || !strings.Contains(buf.String(), "520") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestExportXLSX(t *testing.T) {
	req, res := testResult()
	path := filepath.Join(t.TempDir(), "raid.xlsx")

	if err := ExportXLSX(path, testRoster(), req, res); err != nil {
		t.Fatalf("ExportXLSX: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	tests := []struct {
		sheet, cell, want string
	}{
		{resultSheet, "A1", "Unit"},
		{resultSheet, "A2", "Clubswinger"},
		{resultSheet, "D2", "120"},
		{resultSheet, "G2", "1250"},
		{resultSheet, "B3", "cavalry"},
		{resultSheet, "B5", "1875"},
		{inputSheet, "B1", "Teuton"},
		{inputSheet, "A8", "Rat"},
		{inputSheet, "B8", "22"},
	}
	for _, tc := range tests {
		got, err := f.GetCellValue(tc.sheet, tc.cell)
		if err != nil || got != tc.want {
			t.Errorf("%s!%s: got %q (%v), want %q", tc.sheet, tc.cell, got, err, tc.want)
		}
	}
}
