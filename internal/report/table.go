package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/rshade/carbonscope/internal/emissions"
	"github.com/rshade/carbonscope/internal/greenops"
)

const (
	boxWidth      = 64
	shareBarWidth = 20
)

func boxBorderColor() lipgloss.Color { return lipgloss.Color("240") }
func boxTitleColor() lipgloss.Color  { return lipgloss.Color("39") }
func sectionColor() lipgloss.Color   { return lipgloss.Color("33") }
func shareBarColor() lipgloss.Color  { return lipgloss.Color("42") }
func totalColor() lipgloss.Color     { return lipgloss.Color("214") }

// IsWriterTerminal reports whether w is a terminal file.
func IsWriterTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

func renderTable(w io.Writer, doc Document) error {
	if IsWriterTerminal(w) {
		return renderStyledTable(w, doc)
	}
	return renderPlainTable(w, doc)
}

type tableRow struct {
	label string
	value float64
	share float64
	// hasShare marks rows that carry a share of Total_S1S2.
	hasShare bool
}

func resultRows(r emissions.Result) []tableRow {
	rows := []tableRow{
		{"Scope 2 (Electricity)", r.Scope2Electricity, r.SharePercent.Electricity, true},
		{"Scope 1 (Vehicles)", r.Scope1Vehicles, r.SharePercent.Vehicles, true},
		{"Scope 1 (Refrigerant)", r.Scope1Refrigerant, r.SharePercent.Refrigerant, true},
		{"Scope 1 Total", r.Scope1Total, 0, false},
		{"Total (Scope 1+2)", r.TotalS1S2, 0, false},
	}
	if r.HasScope3() {
		rows = append(rows,
			tableRow{"Scope 3 (Minor)", r.Scope3Minor, 0, false},
			tableRow{"Total (with Scope 3)", r.TotalWithS3, 0, false},
		)
	}
	return rows
}

func renderPlainTable(w io.Writer, doc Document) error {
	r := doc.Result
	p := doc.precision()

	var b strings.Builder
	b.WriteString("GHG Emission Estimate\n")
	b.WriteString("=====================\n\n")
	if doc.Name != "" {
		fmt.Fprintf(&b, "Scenario:   %s\n", doc.Name)
	}
	fmt.Fprintf(&b, "Region:     %s\n", regionLabel(r.Region))
	fmt.Fprintf(&b, "Mode:       %s\n", r.Mode)
	fmt.Fprintf(&b, "Grid EF:    %g kg CO2/kWh\n", r.GridEF)
	fmt.Fprintf(&b, "Annual kWh: %s\n\n", greenops.FormatFloat(r.AnnualKWh, 2))

	fmt.Fprintf(&b, "%-24s %18s %9s\n", "SOURCE", "tCO2e", "SHARE")
	for _, row := range resultRows(r) {
		share := ""
		if row.hasShare {
			share = greenops.FormatPercent(row.share, 2)
		}
		fmt.Fprintf(&b, "%-24s %18s %9s\n", row.label, greenops.FormatFloat(row.value, p), share)
	}

	if !doc.Equivalencies.Empty && doc.Equivalencies.Summary != "" {
		fmt.Fprintf(&b, "\n%s\n", doc.Equivalencies.Summary)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderStyledTable(w io.Writer, doc Document) error {
	r := doc.Result
	p := doc.precision()

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(boxTitleColor())
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(sectionColor())
	totalStyle := lipgloss.NewStyle().Bold(true).Foreground(totalColor())
	barStyle := lipgloss.NewStyle().Foreground(shareBarColor())
	boxStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(boxBorderColor()).
		Padding(0, 1).
		Width(boxWidth)

	var content strings.Builder
	title := "GHG EMISSION ESTIMATE"
	if doc.Name != "" {
		title += " · " + doc.Name
	}
	content.WriteString(titleStyle.Render(title))
	content.WriteString("\n")
	fmt.Fprintf(&content, "%s · %s mode · %g kg CO2/kWh\n\n", regionLabel(r.Region), r.Mode, r.GridEF)

	content.WriteString(sectionStyle.Render("BY SOURCE"))
	content.WriteString("\n")
	for _, row := range resultRows(r) {
		value := greenops.FormatTons(row.value, p)
		if !row.hasShare {
			fmt.Fprintf(&content, "%-22s %s\n", row.label, totalStyle.Render(value))
			continue
		}
		fmt.Fprintf(&content, "%-22s %-18s %s %s\n", row.label, value,
			barStyle.Render(shareBar(row.share)), greenops.FormatPercent(row.share, 1))
	}

	if !doc.Equivalencies.Empty && len(doc.Equivalencies.Items) > 0 {
		content.WriteString("\n")
		content.WriteString(sectionStyle.Render("EQUIVALENT TO"))
		content.WriteString("\n")
		for _, item := range doc.Equivalencies.Items {
			fmt.Fprintf(&content, "%s %s\n", item.Approx(), item.Label)
		}
	}

	_, err := fmt.Fprintln(w, boxStyle.Render(strings.TrimRight(content.String(), "\n")))
	return err
}

// shareBar draws a fixed-width bar for a 0-100 percentage.
func shareBar(pct float64) string {
	filled := int(pct / 100 * shareBarWidth)
	filled = min(max(filled, 0), shareBarWidth)
	return strings.Repeat("█", filled) + strings.Repeat("░", shareBarWidth-filled)
}

func renderBatchTable(w io.Writer, entries []BatchEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No scenarios")
		return err
	}

	p := DefaultPrecision
	for _, e := range entries {
		if e.Err == nil {
			p = e.precision()
			break
		}
	}

	var b strings.Builder
	b.WriteString("GHG Emission Estimates\n")
	b.WriteString("======================\n\n")
	fmt.Fprintf(&b, "%-20s %-6s %-7s %14s %14s %14s %14s\n",
		"SCENARIO", "REGION", "MODE", "SCOPE 1", "SCOPE 2", "SCOPE 1+2", "WITH SCOPE 3")

	for _, e := range entries {
		if e.Err != nil {
			fmt.Fprintf(&b, "%-20s %-6s %-7s ERROR: %v\n", truncate(e.Name, 20), e.Input.Region, e.Input.Mode, e.Err)
			continue
		}
		r := e.Result
		fmt.Fprintf(&b, "%-20s %-6s %-7s %14s %14s %14s %14s\n",
			truncate(e.Name, 20), r.Region, r.Mode,
			greenops.FormatFloat(r.Scope1Total, p),
			greenops.FormatFloat(r.Scope2Electricity, p),
			greenops.FormatFloat(r.TotalS1S2, p),
			greenops.FormatFloat(r.TotalWithS3, p))
	}

	t := SumEntries(entries)
	fmt.Fprintf(&b, "%-20s %-6s %-7s %14s %14s %14s %14s\n", "TOTAL", "", "",
		greenops.FormatFloat(t.Scope1Total, p),
		greenops.FormatFloat(t.Scope2Total, p),
		greenops.FormatFloat(t.TotalS1S2, p),
		greenops.FormatFloat(t.TotalWithS3, p))
	fmt.Fprintf(&b, "\n%d scenario(s), %d failed\n", t.Scenarios, t.Failed)

	_, err := io.WriteString(w, b.String())
	return err
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
