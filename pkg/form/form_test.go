package form

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/funnel/pkg/entry"
	"github.com/dkoosis/funnel/pkg/render"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	sheet := entry.DefaultSheet()
	sheet.Trials = "200"
	return New(Options{Sheet: sheet, Seed: 1, Bins: 10, Theme: render.MonoTheme()})
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	next, ok := updated.(Model)
	require.True(t, ok, "Update returned %T", updated)
	return next, cmd
}

func TestNew_LaysOutOneFieldPerEntry(t *testing.T) {
	m := newTestModel(t)

	// trials + 2 units × (applicants + 5 stages)
	require.Len(t, m.inputs, 13)
	assert.Equal(t, "200", m.inputs[0].Value())
	assert.Equal(t, "46630", m.inputs[fieldIndex(1, 0)].Value())
	assert.Equal(t, "100", m.inputs[fieldIndex(1, 3)].Value())
	assert.True(t, m.inputs[0].Focused())

	view := m.View()
	for _, want := range []string{"Number of simulations:", "Office A", "Office B", "Interview (%)", "Billed (%)"} {
		assert.Contains(t, view, want)
	}
}

func TestUpdate_TabCyclesFocus(t *testing.T) {
	m := newTestModel(t)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 1, m.focus)
	assert.False(t, m.inputs[0].Focused())
	assert.True(t, m.inputs[1].Focused())

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, len(m.inputs)-1, m.focus, "shift+tab wraps to the last field")
}

func TestUpdate_TypingEditsFocusedField(t *testing.T) {
	m := newTestModel(t)
	m.inputs[0].SetValue("")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("75")})
	assert.Equal(t, "75", m.Sheet().Trials)
}

func TestUpdate_InvalidFieldsRejectRun(t *testing.T) {
	m := newTestModel(t)
	m.inputs[fieldIndex(0, 2)].SetValue("150")
	m.inputs[fieldIndex(1, 0)].SetValue("-3")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, stateEditing, m.state)
	require.Len(t, m.errs, 2)
	assert.True(t, m.invalid[fieldIndex(0, 2)])
	assert.True(t, m.invalid[fieldIndex(1, 0)])

	view := m.View()
	assert.Contains(t, view, "must be between 0 and 100")
	assert.Contains(t, view, "must not be negative")
}

func TestUpdate_InvalidFieldMarksOnlyItsUnit_When_LabelsRepeat(t *testing.T) {
	sheet := entry.DefaultSheet()
	sheet.Units[1].Label = sheet.Units[0].Label
	sheet.Units[1].Rates[4] = "abc"
	m := New(Options{Sheet: sheet, Seed: 1, Theme: render.MonoTheme()})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, m.errs, 1)
	assert.True(t, m.invalid[fieldIndex(1, 5)])
	assert.False(t, m.invalid[fieldIndex(0, 5)], "same-label unit should stay valid")
	assert.Len(t, m.invalid, 1)
}

func TestUpdate_RunShowsResults(t *testing.T) {
	m := newTestModel(t)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, stateRunning, m.state)
	assert.Contains(t, m.View(), "Simulating 200 trials for 2 units")

	// keys other than quit are ignored while running
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, stateRunning, m.state)

	sc, err := m.Sheet().Scenario()
	require.NoError(t, err)
	msg := m.runCmd(sc)()
	updated, _ := m.Update(msg)
	m = updated.(Model)

	assert.Equal(t, stateResults, m.state)
	require.Len(t, m.Results(), 2)
	assert.Equal(t, 200, m.Results()[0].Summary.N)
	assert.Contains(t, m.View(), "Office A")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, stateEditing, m.state)
	assert.Len(t, m.Results(), 2, "results survive returning to the form")
}

func TestUpdate_QuitKeys(t *testing.T) {
	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyRunes, Runes: []rune("q")},
	} {
		m := newTestModel(t)
		_, cmd := press(t, m, msg)
		require.NotNil(t, cmd, msg.String())
		_, ok := cmd().(tea.QuitMsg)
		assert.True(t, ok, "%s should quit", msg.String())
	}
}

func TestUpdate_WindowSizeResizesViewport(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = updated.(Model)

	assert.Equal(t, 120, m.viewport.Width)
	assert.Equal(t, 37, m.viewport.Height)
}

func TestHelpLine(t *testing.T) {
	k := defaultKeyMap()
	assert.Equal(t, "tab next field • q quit", helpLine(k.Next, k.Down, k.Quit))
	assert.False(t, strings.Contains(helpLine(k.Down), "•"))
}
