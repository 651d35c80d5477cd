package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/carbonscope/internal/emissions"
)

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *FormModel, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func TestNewFormModel(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		m := NewFormModel(Options{})
		assert.Equal(t, emissions.RegionTW, m.region)
		assert.Equal(t, emissions.ModeQuick, m.mode)
		assert.Equal(t, 0, m.focus)
		assert.Equal(t, "5000", m.quick[0].input.Value())
		assert.Equal(t, "4.4", m.quick[1].input.Value())
		assert.Equal(t, "NTD", m.quick[1].unit)
		assert.Equal(t, "5", m.quick[2].input.Value())
		assert.Equal(t, "10", m.quick[3].input.Value())
		assert.Equal(t, "500000", m.detail[0].input.Value())
		assert.True(t, m.detail[5].on)
		assert.Nil(t, m.Init())
	})

	t.Run("Options", func(t *testing.T) {
		m := NewFormModel(Options{Region: emissions.RegionJP, Mode: emissions.ModeDetail, Precision: 4})
		assert.Equal(t, emissions.RegionJP, m.region)
		assert.Equal(t, emissions.ModeDetail, m.mode)
		assert.Equal(t, 4, m.precision)
		assert.Equal(t, "25", m.quick[1].input.Value())
	})

	t.Run("UnknownRegionFallsBack", func(t *testing.T) {
		m := NewFormModel(Options{Region: "XX", Precision: -1})
		assert.Equal(t, emissions.RegionTW, m.region)
		assert.Equal(t, defaultPrecision, m.precision)
		assert.Equal(t, ".", m.reportDir)
	})
}

func TestFormModel_CalculateQuick(t *testing.T) {
	m := NewFormModel(Options{Precision: 2})
	press(m, key(tea.KeyEnter))

	require.NoError(t, m.err)
	doc := m.Result()
	require.NotNil(t, doc)
	assert.InDelta(t, 6.75, doc.Result.Scope2Electricity, 1e-9)
	assert.InDelta(t, 13.8, doc.Result.Scope1Vehicles, 1e-9)
	assert.InDelta(t, 20.55, doc.Result.TotalS1S2, 1e-9)

	view := m.View()
	assert.Contains(t, view, "20.55 tCO2e")
	assert.Contains(t, view, "Equivalent to driving")
}

func TestFormModel_CalculateDetail(t *testing.T) {
	m := NewFormModel(Options{})
	press(m, key(tea.KeyRight), key(tea.KeyCtrlT), key(tea.KeyEnter))

	assert.Equal(t, emissions.RegionUS, m.region)
	assert.Equal(t, emissions.ModeDetail, m.mode)
	require.NoError(t, m.err)
	doc := m.Result()
	require.NotNil(t, doc)
	assert.InDelta(t, 247.65, doc.Result.TotalS1S2, 1e-9)
	assert.InDelta(t, 23.648, doc.Result.Scope3Minor, 1e-9)
	assert.InDelta(t, 271.298, doc.Result.TotalWithS3, 1e-9)

	t.Run("Scope3Toggle", func(t *testing.T) {
		// Region row, then five fields down to the toggle.
		press(m, key(tea.KeyTab), key(tea.KeyTab), key(tea.KeyTab), key(tea.KeyTab), key(tea.KeyTab), key(tea.KeyTab))
		require.Equal(t, 6, m.focus)
		press(m, key(tea.KeySpace))
		assert.False(t, m.detail[5].on)
		assert.Nil(t, m.Result(), "editing clears the result")

		press(m, key(tea.KeyEnter))
		require.NotNil(t, m.Result())
		assert.InDelta(t, 247.65, m.Result().Result.TotalWithS3, 1e-9)
		assert.False(t, m.Result().Result.HasScope3())
	})
}

func TestFormModel_Navigation(t *testing.T) {
	m := NewFormModel(Options{})

	press(m, key(tea.KeyShiftTab))
	assert.Equal(t, len(m.quick), m.focus, "wraps to the last field")

	press(m, key(tea.KeyDown))
	assert.Equal(t, 0, m.focus, "wraps back to the region row")

	press(m, key(tea.KeyTab))
	assert.Equal(t, 1, m.focus)
	assert.True(t, m.quick[0].input.Focused())

	press(m, key(tea.KeyUp))
	assert.Equal(t, 0, m.focus)
	assert.False(t, m.quick[0].input.Focused())
}

func TestFormModel_RegionResetsPrice(t *testing.T) {
	m := NewFormModel(Options{})
	m.quick[1].input.SetValue("9.9")

	press(m, key(tea.KeyLeft))
	assert.Equal(t, emissions.RegionJP, m.region, "left wraps to the last region")
	assert.Equal(t, "25", m.quick[1].input.Value())
	assert.Equal(t, "JPY", m.quick[1].unit)
	assert.Contains(t, m.status, "Japan")

	press(m, key(tea.KeyRight), key(tea.KeyRight))
	assert.Equal(t, emissions.RegionUS, m.region)
	assert.Equal(t, "0.12", m.quick[1].input.Value())
}

func TestFormModel_Typing(t *testing.T) {
	m := NewFormModel(Options{})
	press(m, key(tea.KeyTab), runes("0"))
	assert.Equal(t, "50000", m.quick[0].input.Value())

	// Keys on the region row do not reach the inputs.
	m = NewFormModel(Options{})
	press(m, runes("7"))
	assert.Equal(t, "5000", m.quick[0].input.Value())
}

func TestFormModel_InvalidInput(t *testing.T) {
	t.Run("NotANumber", func(t *testing.T) {
		m := NewFormModel(Options{})
		m.quick[0].input.SetValue("lots")
		press(m, key(tea.KeyEnter))

		require.Error(t, m.err)
		assert.Nil(t, m.Result())
		assert.Contains(t, m.err.Error(), "Monthly electricity bill")
		assert.Contains(t, m.View(), "is not a number")
	})

	t.Run("Negative", func(t *testing.T) {
		m := NewFormModel(Options{})
		m.quick[2].input.SetValue("-3")
		press(m, key(tea.KeyEnter))

		require.ErrorIs(t, m.err, emissions.ErrNegativeInput)
		fields := emissions.FieldErrors(m.err)
		require.Len(t, fields, 1)
		assert.Equal(t, "quick.car_count", fields[0].Field)
		assert.Contains(t, m.View(), "Invalid input:")
	})

	t.Run("EmptyIsZero", func(t *testing.T) {
		m := NewFormModel(Options{})
		m.quick[2].input.SetValue("")
		m.quick[3].input.SetValue("")
		m.quick[0].input.SetValue("1,000")
		in, err := m.Input()
		require.NoError(t, err)
		assert.Equal(t, 0, in.Quick.CarCount)
		assert.InDelta(t, 1000.0, in.Quick.MonthlyBill, 1e-9)
	})
}

func TestFormModel_ResetDefaults(t *testing.T) {
	m := NewFormModel(Options{})
	m.quick[0].input.SetValue("1")
	m.detail[5].on = false
	press(m, key(tea.KeyCtrlR))

	assert.Equal(t, "5000", m.quick[0].input.Value())
	assert.True(t, m.detail[5].on)
	assert.Equal(t, "Defaults restored", m.status)
}

func TestFormModel_SaveReport(t *testing.T) {
	dir := t.TempDir()
	m := NewFormModel(Options{ReportDir: dir})

	cmd := press(m, key(tea.KeyCtrlS))
	require.NotNil(t, cmd, "saving calculates first")
	require.NotNil(t, m.Result())
	press(m, cmd())

	path := filepath.Join(dir, ReportFileName)
	assert.Equal(t, "Report saved to "+path, m.status)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Carbon Emission Calculation Report"))
	assert.Contains(t, string(data), "Region: Taiwan (TW)")

	t.Run("InvalidFormSavesNothing", func(t *testing.T) {
		m := NewFormModel(Options{ReportDir: dir})
		m.quick[0].input.SetValue("-1")
		assert.Nil(t, press(m, key(tea.KeyCtrlS)))
		assert.Error(t, m.err)
	})

	t.Run("WriteError", func(t *testing.T) {
		m := NewFormModel(Options{})
		press(m, reportSavedMsg{path: "x", err: errors.New("disk full")})
		assert.EqualError(t, m.err, "disk full")
		assert.Empty(t, m.status)
	})
}

func TestFormModel_Quit(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		m := NewFormModel(Options{})
		cmd := press(m, key(k))
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
		assert.Empty(t, m.View())
	}
}

func TestFormModel_View(t *testing.T) {
	m := NewFormModel(Options{})
	press(m, tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Equal(t, 100, m.width)

	view := m.View()
	assert.Contains(t, view, "Carbon Emission Calculator")
	assert.Contains(t, view, "Taiwan (TW)")
	assert.Contains(t, view, "Monthly electricity bill (NTD/month)")
	assert.Contains(t, view, "enter: calculate")
	assert.NotContains(t, view, "Annual electricity")

	press(m, key(tea.KeyCtrlT))
	view = m.View()
	assert.Contains(t, view, "Annual electricity (kWh)")
	assert.Contains(t, view, "[x]")
}

func TestRenderFormHelp(t *testing.T) {
	help := RenderFormHelp()
	assert.Contains(t, help, "ctrl+s: save")
	assert.Equal(t, 7, strings.Count(help, " | "))
}
