package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// renderText writes the plain-text calculation report.
//
// Scope 3 lines appear only when the result carries Scope 3 emissions.
func renderText(w io.Writer, doc Document) error {
	_, err := io.WriteString(w, textReport(doc))
	return err
}

func textReport(doc Document) string {
	r := doc.Result
	p := doc.precision()
	t := func(v float64) string { return strconv.FormatFloat(v, 'f', p, 64) }
	pct := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

	var b strings.Builder
	b.WriteString("Carbon Emission Calculation Report\n")
	b.WriteString("===================================\n\n")
	if doc.Name != "" {
		fmt.Fprintf(&b, "Scenario: %s\n", doc.Name)
	}
	fmt.Fprintf(&b, "Region: %s\n", regionLabel(r.Region))
	fmt.Fprintf(&b, "Grid Emission Factor: %s kg CO2/kWh\n", strconv.FormatFloat(r.GridEF, 'f', -1, 64))
	fmt.Fprintf(&b, "Mode: %s\n\n", r.Mode)

	b.WriteString("RESULTS\n")
	b.WriteString("-------\n")
	fmt.Fprintf(&b, "Scope 2 (Electricity): %s tCO2e (%s%%)\n", t(r.Scope2Electricity), pct(r.SharePercent.Electricity))
	fmt.Fprintf(&b, "Scope 1 (Vehicles): %s tCO2e (%s%%)\n", t(r.Scope1Vehicles), pct(r.SharePercent.Vehicles))
	fmt.Fprintf(&b, "Scope 1 (Refrigerant): %s tCO2e (%s%%)\n", t(r.Scope1Refrigerant), pct(r.SharePercent.Refrigerant))
	fmt.Fprintf(&b, "Scope 1 Total: %s tCO2e\n\n", t(r.Scope1Total))
	fmt.Fprintf(&b, "Total Emissions (Scope 1+2): %s tCO2e\n", t(r.TotalS1S2))

	if r.HasScope3() {
		fmt.Fprintf(&b, "Scope 3 (Minor): %s tCO2e\n", t(r.Scope3Minor))
		fmt.Fprintf(&b, "Total Emissions (with Scope 3): %s tCO2e\n", t(r.TotalWithS3))
	}

	if !doc.Equivalencies.Empty && len(doc.Equivalencies.Items) > 0 {
		b.WriteString("\nEQUIVALENT TO\n")
		b.WriteString("-------------\n")
		for _, item := range doc.Equivalencies.Items {
			fmt.Fprintf(&b, "%s %s\n", item.Approx(), item.Label)
		}
	}

	if !doc.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "\nGenerated: %s\n", doc.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	}
	return b.String()
}

func renderBatchText(w io.Writer, entries []BatchEntry) error {
	for i, e := range entries {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if e.Err != nil {
			if _, err := fmt.Fprintf(w, "Scenario %s: rejected: %v\n", e.Name, e.Err); err != nil {
				return err
			}
			continue
		}
		if err := renderText(w, e.Document); err != nil {
			return err
		}
	}
	return nil
}
