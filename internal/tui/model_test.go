package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/napolitain/solver-oasis/internal/loader"
	"github.com/napolitain/solver-oasis/internal/models"
	"github.com/napolitain/solver-oasis/internal/solver/raid"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	roster, catalog, err := loader.LoadAll("")
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	req := models.NewAttackRequest("Teuton")
	req.Units = []string{"Clubswinger", "Teutonic_Knight"}
	req.Levels = map[string]int{"Clubswinger": 1, "Teutonic_Knight": 1}
	req.Ceilings = map[string]int{"Clubswinger": 300, "Teutonic_Knight": 30}
	req.Budget = 20
	return New(raid.NewSolver(roster, catalog), req)
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func TestFieldsCoverEveryUnit(t *testing.T) {
	m := newTestModel(t)
	if len(m.fields) != 4+2*2 {
		t.Fatalf("fields: got %d, want 8", len(m.fields))
	}
	if m.fields[4].label != "Clubswinger level" || m.fields[7].label != "Teutonic_Knight max" {
		t.Errorf("unit fields out of order: %q / %q", m.fields[4].label, m.fields[7].label)
	}
}

func TestEditField(t *testing.T) {
	m := newTestModel(t)

	// Iterations is the third field
	m, _ = send(m, key(tea.KeyDown), key(tea.KeyDown), key(tea.KeyEnter))
	if m.mode != editing || m.input != "20" {
		t.Fatalf("editing: mode %d input %q", m.mode, m.input)
	}

	m, _ = send(m, key(tea.KeyBackspace), key(tea.KeyBackspace), runes("75"), key(tea.KeyEnter))
	if m.req.Budget != 75 {
		t.Errorf("Budget: got %d, want 75", m.req.Budget)
	}
	if m.mode != browsing || m.Err() != nil {
		t.Errorf("after commit: mode %d err %v", m.mode, m.Err())
	}
}

func TestEditFieldRejectsGarbage(t *testing.T) {
	m := newTestModel(t)
	m, _ = send(m, key(tea.KeyEnter), runes("x"), key(tea.KeyEnter))

	if m.Err() == nil {
		t.Error("expected parse error")
	}
	if m.req.ArmySizePenalty != models.DefaultArmySizePenalty {
		t.Errorf("value changed on bad input: %g", m.req.ArmySizePenalty)
	}
}

func TestEditCancel(t *testing.T) {
	m := newTestModel(t)
	m, _ = send(m, key(tea.KeyEnter), runes("9"), key(tea.KeyEsc))
	if m.req.ArmySizePenalty != models.DefaultArmySizePenalty || m.mode != browsing {
		t.Errorf("esc should discard the edit, got %g", m.req.ArmySizePenalty)
	}
}

func TestPasteOasis(t *testing.T) {
	m := newTestModel(t)
	m, _ = send(m, runes("p"), runes("12"), key(tea.KeySpace), runes("Rats"), key(tea.KeyEnter), runes("Bear 2"), key(tea.KeyCtrlD))

	if m.mode != browsing {
		t.Fatalf("mode: got %d, want browsing", m.mode)
	}
	if m.req.Defense["Rat"] != 12 || m.req.Defense["Bear"] != 2 {
		t.Errorf("Defense: got %v", m.req.Defense)
	}
	if !strings.Contains(m.View(), "Bear") {
		t.Error("view should list the parsed oasis")
	}
}

func TestRunOptimization(t *testing.T) {
	m := newTestModel(t)
	m.req.Defense = models.DefenseComposition{"Rat": 10}

	m, cmd := send(m, runes("r"))
	if m.mode != running || cmd == nil {
		t.Fatalf("expected running mode and a command")
	}

	m, _ = send(m, cmd())
	if m.Err() != nil {
		t.Fatalf("optimize: %v", m.Err())
	}
	res := m.Result()
	if res == nil || res.TotalUnits() == 0 {
		t.Fatalf("expected a non-empty army, got %+v", res)
	}
	if !strings.Contains(m.View(), "Best army") {
		t.Error("view should show the result")
	}
}

func TestRunReportsValidationError(t *testing.T) {
	m := newTestModel(t)
	m.req.Levels["Clubswinger"] = 99

	m, cmd := send(m, runes("r"))
	m, _ = send(m, cmd())
	if m.Err() == nil || !strings.Contains(m.View(), "Error") {
		t.Errorf("expected validation error in view, got %v", m.Err())
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)
	if _, cmd := send(m, runes("q")); cmd == nil {
		t.Error("q should quit")
	}
	if _, cmd := send(m, key(tea.KeyCtrlC)); cmd == nil {
		t.Error("ctrl+c should quit")
	}
}
