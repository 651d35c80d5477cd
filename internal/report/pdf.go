package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/rshade/carbonscope/internal/emissions"
)

// ErrNothingToRender is returned when a PDF would contain no results.
var ErrNothingToRender = errors.New("no successful results to render")

func renderPDF(w io.Writer, docs []Document) error {
	if len(docs) == 0 {
		return ErrNothingToRender
	}

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)
	for i, doc := range docs {
		if i > 0 {
			m.AddRow(15, col.New(12))
		}
		addPDFDocument(m, doc)
	}

	out, err := m.Generate()
	if err != nil {
		return fmt.Errorf("generating PDF: %w", err)
	}
	_, err = w.Write(out.GetBytes())
	return err
}

func addPDFDocument(m core.Maroto, doc Document) {
	r := doc.Result
	p := doc.precision()
	tons := func(v float64) string { return strconv.FormatFloat(v, 'f', p, 64) + " tCO2e" }
	pct := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) + "%" }

	title := "Carbon Emission Calculation Report"
	if doc.Name != "" {
		title += ": " + doc.Name
	}
	m.AddRow(16, text.NewCol(12, title, props.Text{
		Size:  18,
		Style: fontstyle.Bold,
		Align: align.Left,
	}))

	m.AddRow(22,
		col.New(6).Add(
			text.New("Region: "+regionLabel(r.Region), props.Text{Top: 0, Size: 10}),
			text.New("Mode: "+string(r.Mode), props.Text{Top: 5, Size: 10}),
			text.New("Grid Emission Factor: "+strconv.FormatFloat(r.GridEF, 'f', -1, 64)+" kg CO2/kWh",
				props.Text{Top: 10, Size: 10}),
		),
		col.New(6).Add(
			text.New("Factor set: "+emissions.FactorSetVersion, props.Text{Top: 0, Size: 10, Align: align.Right}),
			text.New(generatedLabel(doc), props.Text{Top: 5, Size: 10, Align: align.Right}),
		),
	)

	header := props.Text{Style: fontstyle.Bold, Size: 10}
	m.AddRow(10,
		text.NewCol(6, "Source", header),
		text.NewCol(3, "Emissions", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
		text.NewCol(3, "Share of Scope 1+2", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	)

	for _, row := range resultRows(r) {
		share := ""
		style := props.Text{Size: 10}
		if row.hasShare {
			share = pct(row.share)
		} else {
			style.Style = fontstyle.Bold
		}
		m.AddRow(8,
			text.NewCol(6, row.label, style),
			text.NewCol(3, tons(row.value), props.Text{Size: 10, Style: style.Style, Align: align.Right}),
			text.NewCol(3, share, props.Text{Size: 10, Align: align.Right}),
		)
	}

	if !doc.Equivalencies.Empty && len(doc.Equivalencies.Items) > 0 {
		m.AddRow(10, text.NewCol(12, "Equivalent to", props.Text{Top: 4, Style: fontstyle.Bold, Size: 10}))
		for _, item := range doc.Equivalencies.Items {
			m.AddRow(6, text.NewCol(12, item.Approx()+" "+item.Label, props.Text{Size: 9}))
		}
	}
}

func generatedLabel(doc Document) string {
	if doc.GeneratedAt.IsZero() {
		return ""
	}
	return "Generated: " + doc.GeneratedAt.Format("2006-01-02 15:04 MST")
}
