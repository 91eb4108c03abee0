// Package tui is an interactive form for planning a raid: edit the army,
// paste the oasis report, run the optimizer and read the result
package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/napolitain/solver-oasis/internal/loader"
	"github.com/napolitain/solver-oasis/internal/models"
	"github.com/napolitain/solver-oasis/internal/report"
	"github.com/napolitain/solver-oasis/internal/solver/raid"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")).MarginBottom(1)
	labelStyle   = lipgloss.NewStyle().Width(28)
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	editStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).MarginTop(1)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

type mode int

const (
	browsing mode = iota
	editing
	pasting
	running
)

// field is one editable line of the form
type field struct {
	label string
	get   func() string
	set   func(string) error
}

type resultMsg struct {
	res *models.OptimizationResult
	err error
}

// Model is the bubbletea model of the form
type Model struct {
	solver *raid.Solver
	req    *models.AttackRequest

	fields []field
	focus  int
	mode   mode
	input  string
	oasis  string

	result *models.OptimizationResult
	err    error
}

// New builds the form around a request; req.Units fixes which units are shown
func New(solver *raid.Solver, req *models.AttackRequest) Model {
	m := Model{solver: solver, req: req}
	m.fields = m.buildFields()
	return m
}

func (m Model) buildFields() []field {
	req := m.req
	fields := []field{
		{
			label: "Army size coefficient",
			get:   func() string { return strconv.FormatFloat(req.ArmySizePenalty, 'g', -1, 64) },
			set:   setFloat(&req.ArmySizePenalty),
		},
		{
			label: "Cavalry coefficient",
			get:   func() string { return strconv.FormatFloat(req.CavalryPenalty, 'g', -1, 64) },
			set:   setFloat(&req.CavalryPenalty),
		},
		{
			label: "Iterations",
			get:   func() string { return strconv.Itoa(req.Budget) },
			set:   setInt(func(v int) { req.Budget = v }),
		},
		{
			label: "Seed",
			get:   func() string { return strconv.FormatInt(req.Seed, 10) },
			set: func(s string) error {
				v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
				if err != nil {
					return fmt.Errorf("seed: %w", err)
				}
				req.Seed = v
				return nil
			},
		},
	}

	for _, name := range req.Units {
		unit := name
		fields = append(fields,
			field{
				label: unit + " level",
				get:   func() string { return strconv.Itoa(req.Levels[unit]) },
				set:   setInt(func(v int) { req.Levels[unit] = v }),
			},
			field{
				label: unit + " max",
				get:   func() string { return strconv.Itoa(req.Ceilings[unit]) },
				set:   setInt(func(v int) { req.Ceilings[unit] = v }),
			},
		)
	}
	return fields
}

func setFloat(dst *float64) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("not a number: %q", s)
		}
		*dst = v
		return nil
	}
}

func setInt(apply func(int)) func(string) error {
	return func(s string) error {
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("not an integer: %q", s)
		}
		apply(v)
		return nil
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		m.mode = browsing
		m.result, m.err = msg.res, msg.err
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case editing:
			return m.updateEditing(msg), nil
		case pasting:
			return m.updatePasting(msg), nil
		case running:
			return m, nil
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.focus > 0 {
			m.focus--
		}
	case "down", "j":
		if m.focus < len(m.fields)-1 {
			m.focus++
		}
	case "enter":
		m.mode = editing
		m.input = m.fields[m.focus].get()
	case "p":
		m.mode = pasting
		m.oasis = ""
	case "r":
		m.mode = running
		m.err = nil
		return m, m.optimize()
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) Model {
	switch msg.Type {
	case tea.KeyEnter:
		if err := m.fields[m.focus].set(m.input); err != nil {
			m.err = err
		} else {
			m.err = nil
		}
		m.mode = browsing
	case tea.KeyEsc:
		m.mode = browsing
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return m
}

// updatePasting collects the oasis report until ctrl+d, then parses it
func (m Model) updatePasting(msg tea.KeyMsg) Model {
	switch msg.Type {
	case tea.KeyCtrlD:
		m.req.Defense = loader.ParseOasisText(m.oasis, m.solver.Catalog())
		m.mode = browsing
	case tea.KeyEsc:
		m.mode = browsing
	case tea.KeyEnter:
		m.oasis += "\n"
	case tea.KeyBackspace:
		if len(m.oasis) > 0 {
			m.oasis = m.oasis[:len(m.oasis)-1]
		}
	case tea.KeySpace:
		m.oasis += " "
	case tea.KeyRunes:
		m.oasis += string(msg.Runes)
	}
	return m
}

func (m Model) optimize() tea.Cmd {
	solver, req := m.solver, m.req
	return func() tea.Msg {
		res, err := solver.Optimize(req)
		return resultMsg{res: res, err: err}
	}
}

// Result returns the last optimization result, nil before the first run
func (m Model) Result() *models.OptimizationResult {
	return m.result
}

// Err returns the last input or validation error
func (m Model) Err() error {
	return m.err
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Oasis raid planner · %s", m.req.Faction)))
	b.WriteString("\n")

	for i, f := range m.fields {
		value := f.get()
		line := labelStyle.Render(f.label) + value
		if i == m.focus {
			if m.mode == editing {
				line = labelStyle.Render(f.label) + editStyle.Render(m.input+"_")
			}
			line = focusStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	if m.mode == pasting {
		b.WriteString(boxStyle.Render("Paste the oasis report, ctrl+d to parse\n\n" + m.oasis + "_"))
		b.WriteString("\n")
	} else if m.req.Defense.Total() > 0 {
		var t strings.Builder
		_ = report.WriteOasis(&t, m.solver.Catalog(), m.req.Defense)
		b.WriteString(t.String())
	} else {
		b.WriteString(helpStyle.Render("Empty oasis, press p to paste a report"))
		b.WriteString("\n")
	}

	switch {
	case m.mode == running:
		b.WriteString("\nOptimizing...\n")
	case m.err != nil:
		b.WriteString("\n" + errorStyle.Render("Error: "+m.err.Error()) + "\n")
	case m.result != nil:
		b.WriteString("\n" + successStyle.Render("Best army") + "\n")
		var t strings.Builder
		_ = report.WriteResult(&t, m.solver.Roster(), m.req, m.result)
		b.WriteString(t.String())
		b.WriteString(fmt.Sprintf("Loss %s · resources lost %d · score %s · %d evaluations\n",
			report.FormatPercent(m.result.LossPercent),
			m.result.TotalResourceCostLost,
			report.FormatScore(m.result.ObjectiveScore),
			m.result.Evaluations))
	}

	b.WriteString(helpStyle.Render("↑/↓ move · enter edit · p paste oasis · r run · q quit"))
	return b.String()
}
