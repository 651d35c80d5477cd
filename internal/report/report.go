// Package report renders emission results for people and machines.
//
// A Document bundles one emissions.Result with the input that produced it
// and optional equivalencies. Render writes it as a terminal table, JSON,
// NDJSON, the plain-text "Carbon Emission Calculation Report", or a PDF.
// RenderBatch does the same for a list of named results.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rshade/carbonscope/internal/emissions"
	"github.com/rshade/carbonscope/internal/greenops"
)

// Format is an output format name.
type Format string

// Supported formats.
const (
	FormatTable  Format = "table"
	FormatJSON   Format = "json"
	FormatNDJSON Format = "ndjson"
	FormatText   Format = "text"
	FormatPDF    Format = "pdf"
)

// DefaultPrecision is used when a Document has a negative precision.
const DefaultPrecision = 4

// DefaultFileName is the file name used when a text report is saved.
const DefaultFileName = "carbon_emission_report.txt"

// ErrUnsupportedFormat is returned for unknown format names.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatTable, FormatJSON, FormatNDJSON, FormatText, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// IsBinary reports whether the format produces non-text output.
func (f Format) IsBinary() bool { return f == FormatPDF }

// Document is one rendered estimate.
type Document struct {
	// Name labels the scenario in batch output; empty for single estimates.
	Name   string
	Input  emissions.Input
	Result emissions.Result
	// Equivalencies is shown when non-empty.
	Equivalencies greenops.Output
	// Precision is the number of decimals shown for tCO2e values.
	Precision   int
	GeneratedAt time.Time
}

// NewDocument builds a Document for res, computing equivalencies for the
// total with Scope 3 when withEquivalents is set.
func NewDocument(in emissions.Input, res emissions.Result, precision int, withEquivalents bool) Document {
	doc := Document{
		Input:       in,
		Result:      res,
		Precision:   precision,
		GeneratedAt: time.Now().UTC(),
	}
	if withEquivalents {
		if eq, err := greenops.ForTons(res.TotalWithS3); err == nil {
			doc.Equivalencies = eq
		}
	}
	return doc
}

func (d Document) precision() int {
	if d.Precision < 0 {
		return DefaultPrecision
	}
	return d.Precision
}

// Render writes doc to w in format.
func Render(w io.Writer, format Format, doc Document) error {
	switch format {
	case FormatTable:
		return renderTable(w, doc)
	case FormatJSON:
		return renderJSON(w, doc)
	case FormatNDJSON:
		return renderNDJSON(w, doc)
	case FormatText:
		return renderText(w, doc)
	case FormatPDF:
		return renderPDF(w, []Document{doc})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// BatchEntry is one scenario in batch output. Err is set when the scenario
// was rejected; Document is then zero apart from Name and Input.
type BatchEntry struct {
	Document
	Err error
}

// RenderBatch writes entries to w in format.
func RenderBatch(w io.Writer, format Format, entries []BatchEntry) error {
	switch format {
	case FormatTable:
		return renderBatchTable(w, entries)
	case FormatJSON:
		return renderBatchJSON(w, entries)
	case FormatNDJSON:
		return renderBatchNDJSON(w, entries)
	case FormatText:
		return renderBatchText(w, entries)
	case FormatPDF:
		docs := make([]Document, 0, len(entries))
		for _, e := range entries {
			if e.Err == nil {
				docs = append(docs, e.Document)
			}
		}
		return renderPDF(w, docs)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Totals sums the successful entries.
type Totals struct {
	Scenarios   int     `json:"scenarios"`
	Failed      int     `json:"failed"`
	Scope1Total float64 `json:"Scope1_Total"`
	Scope2Total float64 `json:"Scope2_Electricity"`
	TotalS1S2   float64 `json:"Total_S1S2"`
	Scope3Minor float64 `json:"Scope3_Minor"`
	TotalWithS3 float64 `json:"Total_With_S3"`
}

// SumEntries computes batch totals.
func SumEntries(entries []BatchEntry) Totals {
	t := Totals{Scenarios: len(entries)}
	for _, e := range entries {
		if e.Err != nil {
			t.Failed++
			continue
		}
		r := e.Result
		t.Scope1Total += r.Scope1Total
		t.Scope2Total += r.Scope2Electricity
		t.TotalS1S2 += r.TotalS1S2
		t.Scope3Minor += r.Scope3Minor
		t.TotalWithS3 += r.TotalWithS3
	}
	return t
}

// regionLabel returns "Taiwan (TW)".
func regionLabel(r emissions.Region) string {
	return fmt.Sprintf("%s (%s)", emissions.RegionName(r), r)
}
