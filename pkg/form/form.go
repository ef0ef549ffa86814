// Package form is the interactive entry screen: a grid of text fields for
// the trial count and each unit's funnel, a spinner while the scenario runs,
// and a scrollable results view.
package form

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dkoosis/funnel/pkg/entry"
	"github.com/dkoosis/funnel/pkg/funnel"
	"github.com/dkoosis/funnel/pkg/mapper"
	"github.com/dkoosis/funnel/pkg/render"
)

// Options configures a form session.
type Options struct {
	Sheet entry.Sheet // initial field values
	Seed  uint64      // 0 seeds from entropy
	Bins  int
	Theme render.Theme
}

// Run starts the form and blocks until the user quits. It returns the
// results of the last completed run, or nil if none ran.
func Run(ctx context.Context, opts Options, in io.Reader, out io.Writer) ([]funnel.Result, error) {
	program := tea.NewProgram(New(opts),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	final, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("form: %w", err)
	}
	return final.(Model).Results(), nil
}

type state int

const (
	stateEditing state = iota
	stateRunning
	stateResults
)

// Field widths in cells, matching the original entry boxes.
const (
	trialsWidth     = 10
	applicantsWidth = 10
	rateWidth       = 6
)

// resultsMsg carries a finished scenario back to the UI loop.
type resultsMsg struct {
	results []funnel.Result
	elapsed time.Duration
}

// Model is the bubbletea model for the form.
type Model struct {
	keys     keyMap
	theme    render.Theme
	sim      *funnel.Simulator
	bins     int
	labels   []string
	inputs   []textinput.Model // trials, then per unit: applicants + one per stage
	invalid  map[int]bool
	focus    int
	state    state
	spinner  spinner.Model
	viewport viewport.Model
	errs     entry.ValidationErrors
	results  []funnel.Result
	elapsed  time.Duration
	width    int
	height   int
}

// New builds a form pre-filled from opts.Sheet.
func New(opts Options) Model {
	bins := opts.Bins
	if bins <= 0 {
		bins = 20
	}
	m := Model{
		keys:     defaultKeyMap(),
		theme:    opts.Theme,
		sim:      funnel.NewSimulator(opts.Seed),
		bins:     bins,
		invalid:  map[int]bool{},
		viewport: viewport.New(80, 20),
		width:    80,
		height:   24,
	}
	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot

	m.inputs = append(m.inputs, newInput(opts.Sheet.Trials, trialsWidth))
	for i, u := range opts.Sheet.Units {
		label := strings.TrimSpace(u.Label)
		if label == "" {
			label = fmt.Sprintf("Unit %d", i+1)
		}
		m.labels = append(m.labels, label)
		m.inputs = append(m.inputs, newInput(u.Applicants, applicantsWidth))
		for j := range funnel.Stages {
			v := ""
			if j < len(u.Rates) {
				v = u.Rates[j]
			}
			m.inputs = append(m.inputs, newInput(v, rateWidth))
		}
	}
	m.inputs[0].Focus()
	return m
}

func newInput(value string, width int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 12
	ti.Width = width
	ti.SetValue(value)
	return ti
}

// fieldIndex maps a unit and column (0 = applicants, 1.. = stages) to an input.
func fieldIndex(unit, col int) int {
	return 1 + unit*(1+len(funnel.Stages)) + col
}

// Results returns the last completed run.
func (m Model) Results() []funnel.Result { return m.results }

// Sheet returns the current field values.
func (m Model) Sheet() entry.Sheet {
	sh := entry.Sheet{Trials: m.inputs[0].Value()}
	for i, label := range m.labels {
		u := entry.RawUnit{Label: label, Applicants: m.inputs[fieldIndex(i, 0)].Value()}
		for j := range funnel.Stages {
			u.Rates = append(u.Rates, m.inputs[fieldIndex(i, j+1)].Value())
		}
		sh.Units = append(sh.Units, u)
	}
	return sh
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-3, 5)
		if m.state == stateResults {
			m.viewport.SetContent(m.renderResults())
		}
		return m, nil

	case resultsMsg:
		m.results, m.elapsed = msg.results, msg.elapsed
		m.state = stateResults
		m.viewport.SetContent(m.renderResults())
		m.viewport.GotoTop()
		return m, nil

	case spinner.TickMsg:
		if m.state != stateRunning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		switch m.state {
		case stateEditing:
			return m.updateEditing(msg)
		case stateResults:
			if key.Matches(msg, m.keys.Back) {
				m.state = stateEditing
				return m, m.inputs[m.focus].Focus()
			}
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.state == stateEditing {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Next):
		return m, m.setFocus((m.focus + 1) % len(m.inputs))
	case key.Matches(msg, m.keys.Prev):
		return m, m.setFocus((m.focus - 1 + len(m.inputs)) % len(m.inputs))
	case key.Matches(msg, m.keys.Run):
		sc, err := m.Sheet().Scenario()
		if err != nil {
			m.markInvalid(err)
			return m, nil
		}
		m.errs, m.invalid = nil, map[int]bool{}
		m.state = stateRunning
		m.inputs[m.focus].Blur()
		return m, tea.Batch(m.spinner.Tick, m.runCmd(sc))
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

// markInvalid records validation errors and the fields they point at.
func (m *Model) markInvalid(err error) {
	m.errs = nil
	m.invalid = map[int]bool{}
	var verrs entry.ValidationErrors
	if !errors.As(err, &verrs) {
		m.errs = entry.ValidationErrors{{Index: -1, Field: "form", Reason: err.Error()}}
		return
	}
	m.errs = verrs
	for _, fe := range verrs {
		if fe.Field == entry.FieldTrials {
			m.invalid[0] = true
			continue
		}
		i := fe.Index
		if i < 0 || i >= len(m.labels) {
			continue
		}
		if fe.Field == entry.FieldApplicants {
			m.invalid[fieldIndex(i, 0)] = true
		}
		for j, st := range funnel.Stages {
			if fe.Field == string(st) {
				m.invalid[fieldIndex(i, j+1)] = true
			}
		}
	}
}

// runCmd evaluates the scenario off the UI loop.
func (m Model) runCmd(sc funnel.Scenario) tea.Cmd {
	sim, bins := m.sim, m.bins
	return func() tea.Msg {
		start := time.Now()
		results := sim.Evaluate(sc, bins)
		return resultsMsg{results: results, elapsed: time.Since(start)}
	}
}

func (m Model) renderResults() string {
	out := render.NewTerminal(m.theme, m.width).Render(mapper.FromResults(m.results))
	return out + "\n" + m.theme.Muted.Render(fmt.Sprintf("simulated in %s", m.elapsed.Round(time.Millisecond)))
}

func (m Model) View() string {
	switch m.state {
	case stateRunning:
		trials := strings.TrimSpace(m.inputs[0].Value())
		return fmt.Sprintf("\n %s Simulating %s trials for %d units...\n", m.spinner.View(), trials, len(m.labels))
	case stateResults:
		help := m.theme.Muted.Render(helpLine(m.keys.Up, m.keys.Back, m.keys.Quit))
		return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), help)
	}
	return m.viewEditing()
}

func (m Model) viewEditing() string {
	labelWidth := lipgloss.Width("Number of simulations:")
	for _, l := range m.labels {
		labelWidth = max(labelWidth, lipgloss.Width(l))
	}
	labelCol := lipgloss.NewStyle().Width(labelWidth + 2)

	var rows []string
	rows = append(rows, m.theme.Bold.Render("Recruitment Simulation"), "")
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
		labelCol.Render("Number of simulations:"), m.cell(0, trialsWidth)))
	rows = append(rows, "")

	header := []string{labelCol.Render(""), m.header("Applicants", applicantsWidth)}
	for _, st := range funnel.Stages {
		header = append(header, m.header(string(st)+" (%)", rateWidth))
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, header...))

	for i, label := range m.labels {
		cells := []string{labelCol.Render(label), m.cellCol(fieldIndex(i, 0), "Applicants", applicantsWidth)}
		for j, st := range funnel.Stages {
			cells = append(cells, m.cellCol(fieldIndex(i, j+1), string(st)+" (%)", rateWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	if len(m.errs) > 0 {
		rows = append(rows, "")
		for _, fe := range m.errs {
			rows = append(rows, m.theme.Error.Render(m.theme.Icons.Fail+" "+fe.Error()))
		}
	}
	rows = append(rows, "", m.theme.Muted.Render(helpLine(m.keys.Next, m.keys.Prev, m.keys.Run, m.keys.Quit)))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) header(title string, width int) string {
	return m.theme.Muted.Width(max(lipgloss.Width(title), width) + 2).Render(title)
}

// cellCol renders input i in a column as wide as its header.
func (m Model) cellCol(i int, title string, width int) string {
	return m.cell(i, max(lipgloss.Width(title), width))
}

func (m Model) cell(i, width int) string {
	marker := " "
	style := lipgloss.NewStyle()
	switch {
	case m.invalid[i]:
		marker = "!"
		style = m.theme.Error
	case i == m.focus:
		marker = ">"
		style = m.theme.Primary
	}
	return lipgloss.NewStyle().Width(width + 2).Render(style.Render(marker) + m.inputs[i].View())
}
