package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/carbonscope/internal/emissions"
	"github.com/rshade/carbonscope/internal/greenops"
	"github.com/rshade/carbonscope/internal/report"
)

const labelWidth = 34

// View renders the form, the last result and the help line.
func (m *FormModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	title := lipgloss.NewStyle().Bold(true).Foreground(ColorHeader)
	b.WriteString(title.Render("Carbon Emission Calculator"))
	b.WriteString("\n\n")

	b.WriteString(m.renderRegion())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(m.renderFields())

	if m.doc != nil {
		b.WriteString("\n")
		b.WriteString(RenderResult(*m.doc, m.width))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(RenderError(m.err))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(ColorSelected).Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(RenderFormHelp())
	return b.String()
}

func (m *FormModel) renderRegion() string {
	label := fmt.Sprintf("%s (%s)", emissions.RegionName(m.region), m.region)
	style := lipgloss.NewStyle().Foreground(ColorValue)
	cursor := "  "
	if m.focus == 0 {
		style = style.Bold(true).Foreground(ColorHighlight)
		cursor = "> "
		label = "◀ " + label + " ▶"
	}
	ef, _ := emissions.GridEmissionFactor(m.region)
	muted := lipgloss.NewStyle().Foreground(ColorMuted)
	return cursor + padLabel("Region") + style.Render(label) +
		muted.Render(fmt.Sprintf("  grid EF %g kg CO2/kWh", ef))
}

func (m *FormModel) renderTabs() string {
	active := lipgloss.NewStyle().Bold(true).Foreground(ColorSelected).Underline(true)
	inactive := lipgloss.NewStyle().Foreground(ColorMuted)
	quick, detail := inactive.Render("Quick"), inactive.Render("Detail")
	if m.mode == emissions.ModeDetail {
		detail = active.Render("Detail")
	} else {
		quick = active.Render("Quick")
	}
	return "  " + quick + "  " + detail
}

func (m *FormModel) renderFields() string {
	failed := make(map[string]bool)
	for _, fe := range emissions.FieldErrors(m.err) {
		failed[fe.Field] = true
	}

	var b strings.Builder
	for i, f := range m.fields() {
		focused := m.focus == i+1
		cursor := "  "
		if focused {
			cursor = "> "
		}

		label := f.label
		if f.unit != "" {
			label += " (" + f.unit + ")"
		}
		labelStyle := lipgloss.NewStyle().Foreground(ColorLabel)
		switch {
		case failed[string(m.mode)+"."+f.key]:
			labelStyle = labelStyle.Foreground(ColorError)
		case focused:
			labelStyle = labelStyle.Foreground(ColorHighlight)
		}

		var value string
		if f.kind == kindToggle {
			box := "[ ]"
			if f.on {
				box = "[x]"
			}
			value = lipgloss.NewStyle().Foreground(ColorValue).Render(box)
		} else {
			value = f.input.View()
		}

		b.WriteString(cursor + labelStyle.Render(padLabel(label)) + value + "\n")
	}
	return b.String()
}

func padLabel(s string) string {
	if w := lipgloss.Width(s); w < labelWidth {
		return s + strings.Repeat(" ", labelWidth-w)
	}
	return s + " "
}

// RenderResult renders the result panel for doc.
func RenderResult(doc report.Document, width int) string {
	r := doc.Result
	p := doc.Precision
	labelStyle := lipgloss.NewStyle().Foreground(ColorLabel)
	valueStyle := lipgloss.NewStyle().Foreground(ColorValue)
	totalStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorHighlight)

	line := func(label string, tons, share float64, withShare bool) string {
		s := labelStyle.Render(padLabel(label)) + valueStyle.Render(greenops.FormatTons(tons, p))
		if withShare {
			s += labelStyle.Render("  " + greenops.FormatPercent(share, 2))
		}
		return s
	}

	lines := []string{
		line("Scope 2 (Electricity)", r.Scope2Electricity, r.SharePercent.Electricity, true),
		line("Scope 1 (Vehicles)", r.Scope1Vehicles, r.SharePercent.Vehicles, true),
		line("Scope 1 (Refrigerant)", r.Scope1Refrigerant, r.SharePercent.Refrigerant, true),
		line("Scope 1 Total", r.Scope1Total, 0, false),
		totalStyle.Render(padLabel("Total (Scope 1+2)") + greenops.FormatTons(r.TotalS1S2, p)),
	}
	if r.HasScope3() {
		lines = append(lines,
			line("Scope 3 (Minor)", r.Scope3Minor, 0, false),
			totalStyle.Render(padLabel("Total (with Scope 3)")+greenops.FormatTons(r.TotalWithS3, p)),
		)
	}
	if !doc.Equivalencies.Empty && doc.Equivalencies.Summary != "" {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(ColorMuted).Render(doc.Equivalencies.Summary))
	}

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1)
	if width > 4 {
		panel = panel.MaxWidth(width)
	}
	return panel.Render(strings.Join(lines, "\n"))
}

// RenderError renders a calculation error, one rejected field per line.
func RenderError(err error) string {
	style := lipgloss.NewStyle().Foreground(ColorError)
	fields := emissions.FieldErrors(err)
	if len(fields) == 0 {
		return style.Render("Error: " + err.Error())
	}
	lines := make([]string, 0, len(fields)+1)
	lines = append(lines, "Invalid input:")
	for _, fe := range fields {
		lines = append(lines, "  "+fe.Error())
	}
	return style.Render(strings.Join(lines, "\n"))
}

// RenderFormHelp renders the keyboard shortcuts.
func RenderFormHelp() string {
	shortcuts := []string{
		"tab/↓: next",
		"shift+tab/↑: previous",
		"←/→: region",
		"ctrl+t: mode",
		"enter: calculate",
		"ctrl+s: save",
		"ctrl+r: defaults",
		"esc: quit",
	}
	return lipgloss.NewStyle().Foreground(ColorMuted).Render(strings.Join(shortcuts, " | "))
}
