// Package tui provides the interactive estimation form.
//
// FormModel is a Bubble Tea model with a region selector, quick and detail
// tabs of numeric fields, and a result panel. Changing the region resets
// the quick-mode electricity price to the region's default.
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/carbonscope/internal/emissions"
	"github.com/rshade/carbonscope/internal/report"
)

// ReportFileName is the file ctrl+s writes the text report to.
const ReportFileName = report.DefaultFileName

const (
	fieldInputWidth = 14
	fieldCharLimit  = 16
	defaultWidth    = 80
)

// fieldKind selects how a form field is edited and parsed.
type fieldKind int

const (
	kindNumber fieldKind = iota
	kindCount
	kindToggle
)

// formField is one row of a form tab.
type formField struct {
	key   string
	label string
	unit  string
	kind  fieldKind
	def   string
	input textinput.Model
	on    bool
}

func newField(key, label, unit string, kind fieldKind, def string) formField {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = fieldCharLimit
	ti.Width = fieldInputWidth
	f := formField{key: key, label: label, unit: unit, kind: kind, def: def, input: ti}
	f.reset()
	return f
}

func (f *formField) reset() {
	if f.kind == kindToggle {
		f.on = f.def == "true"
		return
	}
	f.input.SetValue(f.def)
}

func (f *formField) float() (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(f.input.Value()), ",", "")
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", f.label, f.input.Value())
	}
	return v, nil
}

func (f *formField) count() (int, error) {
	s := strings.TrimSpace(f.input.Value())
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a whole number", f.label, f.input.Value())
	}
	return v, nil
}

// reportSavedMsg is sent when the ctrl+s write completes.
type reportSavedMsg struct {
	path string
	err  error
}

// FormModel is the Bubble Tea model for the estimation form.
type FormModel struct {
	region emissions.Region
	mode   emissions.Mode

	quick  []formField
	detail []formField
	// focus is 0 for the region selector, i+1 for field i of the current tab.
	focus int

	precision int
	reportDir string

	doc    *report.Document
	err    error
	status string

	width    int
	quitting bool
	now      func() time.Time
}

// NewFormModel creates a FormModel from opts, with every field at its default.
func NewFormModel(opts Options) *FormModel {
	opts = opts.withDefaults()
	m := &FormModel{
		region:    opts.Region,
		mode:      opts.Mode,
		precision: opts.Precision,
		reportDir: opts.ReportDir,
		width:     defaultWidth,
		now:       func() time.Time { return time.Now().UTC() },
	}
	m.quick = []formField{
		newField("monthly_bill", "Monthly electricity bill", "", kindNumber, "5000"),
		newField("price_per_kwh", "Price per kWh", "", kindNumber, ""),
		newField("car_count", "Company cars", "", kindCount, "5"),
		newField("motorcycle_count", "Company motorcycles", "", kindCount, "10"),
	}
	m.detail = []formField{
		newField("annual_kwh", "Annual electricity", "kWh", kindNumber, "500000"),
		newField("gasoline_liters_year", "Gasoline", "L/year", kindNumber, "15000"),
		newField("diesel_liters_year", "Diesel", "L/year", kindNumber, "5000"),
		newField("refrigerant_leak_kg", "Refrigerant leakage", "kg/year", kindNumber, "5"),
		newField("refrigerant_gwp", "Refrigerant GWP", "", kindNumber, "1430"),
		newField("include_scope3", "Include Scope 3 (water, waste)", "", kindToggle, "true"),
		newField("water_m3_year", "Water", "m³/year", kindNumber, "2000"),
		newField("waste_ton_year", "Waste", "t/year", kindNumber, "50"),
	}
	m.resetPrice()
	return m
}

// Init initializes the model.
func (m *FormModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m *FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case reportSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.status = ""
			return m, nil
		}
		m.status = "Report saved to " + msg.path
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

// handleKeyMsg processes keyboard input.
func (m *FormModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "tab", "down":
		return m, m.setFocus((m.focus + 1) % (len(m.fields()) + 1))

	case "shift+tab", "up":
		n := len(m.fields()) + 1
		return m, m.setFocus((m.focus + n - 1) % n)

	case "enter":
		m.calculate()
		return m, nil

	case "ctrl+t":
		if m.mode == emissions.ModeQuick {
			m.mode = emissions.ModeDetail
		} else {
			m.mode = emissions.ModeQuick
		}
		m.clearResult()
		return m, m.setFocus(0)

	case "ctrl+r":
		for i := range m.quick {
			m.quick[i].reset()
		}
		for i := range m.detail {
			m.detail[i].reset()
		}
		m.resetPrice()
		m.clearResult()
		m.status = "Defaults restored"
		return m, nil

	case "ctrl+s":
		return m, m.save()
	}

	if m.focus == 0 {
		switch msg.String() {
		case "left":
			m.cycleRegion(-1)
		case "right":
			m.cycleRegion(1)
		}
		return m, nil
	}

	f := &m.fields()[m.focus-1]
	if f.kind == kindToggle {
		if msg.String() == " " || msg.String() == "x" {
			f.on = !f.on
			m.clearResult()
		}
		return m, nil
	}

	var cmd tea.Cmd
	before := f.input.Value()
	f.input, cmd = f.input.Update(msg)
	if f.input.Value() != before {
		m.clearResult()
	}
	return m, cmd
}

// fields returns the rows of the current tab.
func (m *FormModel) fields() []formField {
	if m.mode == emissions.ModeDetail {
		return m.detail
	}
	return m.quick
}

// setFocus moves the focus and updates the text inputs' focus state.
func (m *FormModel) setFocus(i int) tea.Cmd {
	m.focus = i
	var cmd tea.Cmd
	for _, tab := range [][]formField{m.quick, m.detail} {
		for j := range tab {
			tab[j].input.Blur()
		}
	}
	if i > 0 {
		f := &m.fields()[i-1]
		if f.kind != kindToggle {
			cmd = f.input.Focus()
		}
	}
	return cmd
}

// cycleRegion moves the region selector by delta and resets the price.
func (m *FormModel) cycleRegion(delta int) {
	regions := emissions.Regions()
	i := slices.Index(regions, m.region)
	m.region = regions[(i+delta+len(regions))%len(regions)]
	m.resetPrice()
	m.clearResult()

	if info, ok := emissions.DefaultPrice(m.region); ok {
		m.status = fmt.Sprintf("Region set to %s; electricity price reset to %s%s per kWh",
			emissions.RegionName(m.region), info.Symbol, strconv.FormatFloat(info.PricePerKWh, 'f', -1, 64))
	}
}

// resetPrice sets the quick-mode price to the region's default and labels
// the currency fields.
func (m *FormModel) resetPrice() {
	info, ok := emissions.DefaultPrice(m.region)
	if !ok {
		return
	}
	m.quick[0].unit = info.Currency + "/month"
	m.quick[1].unit = info.Currency
	m.quick[1].def = strconv.FormatFloat(info.PricePerKWh, 'f', -1, 64)
	m.quick[1].reset()
}

func (m *FormModel) clearResult() {
	m.doc = nil
	m.err = nil
	m.status = ""
}

// Input builds the input record from the form. It fails when a field does
// not parse; range checks are left to emissions.Validate.
func (m *FormModel) Input() (emissions.Input, error) {
	in := emissions.Input{Region: m.region, Mode: m.mode}
	if m.mode == emissions.ModeQuick {
		q := &in.Quick
		q.UseRuleOfThumb = true
		var err error
		if q.MonthlyBill, err = m.quick[0].float(); err != nil {
			return in, err
		}
		if q.PricePerKWh, err = m.quick[1].float(); err != nil {
			return in, err
		}
		if q.CarCount, err = m.quick[2].count(); err != nil {
			return in, err
		}
		if q.MotorcycleCount, err = m.quick[3].count(); err != nil {
			return in, err
		}
		return in, nil
	}

	d := &in.Detail
	targets := []*float64{
		&d.AnnualKWh, &d.GasolineLitersYear, &d.DieselLitersYear,
		&d.RefrigerantLeakKg, &d.RefrigerantGWP, nil, &d.WaterM3Year, &d.WasteTonYear,
	}
	for i, dst := range targets {
		f := &m.detail[i]
		if f.kind == kindToggle {
			d.IncludeScope3 = f.on
			continue
		}
		v, err := f.float()
		if err != nil {
			return in, err
		}
		*dst = v
	}
	return in, nil
}

// calculate estimates the form contents and stores the result or error.
func (m *FormModel) calculate() {
	m.clearResult()
	in, err := m.Input()
	if err != nil {
		m.err = err
		return
	}
	res, err := emissions.ValidateAndEstimate(in)
	if err != nil {
		m.err = err
		return
	}
	doc := report.NewDocument(in, res, m.precision, true)
	doc.GeneratedAt = m.now()
	m.doc = &doc
}

// Result returns the last calculated document, or nil.
func (m *FormModel) Result() *report.Document {
	return m.doc
}

// save returns a command writing the text report, calculating first if the
// form has no current result.
func (m *FormModel) save() tea.Cmd {
	if m.doc == nil {
		m.calculate()
	}
	if m.doc == nil {
		return nil
	}
	doc := *m.doc
	path := filepath.Join(m.reportDir, ReportFileName)
	return func() tea.Msg {
		return reportSavedMsg{path: path, err: writeReport(path, doc)}
	}
}

func writeReport(path string, doc report.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	if err := report.Render(f, report.FormatText, doc); err != nil {
		_ = f.Close()
		return fmt.Errorf("saving report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	return nil
}
