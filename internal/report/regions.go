package report

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/goccy/go-json"

	"github.com/rshade/carbonscope/internal/emissions"
)

// RegionInfo is one row of the reference data listing.
type RegionInfo struct {
	Code        emissions.Region `json:"code"`
	Name        string           `json:"name"`
	GridEF      float64          `json:"grid_ef"`
	PricePerKWh float64          `json:"price_per_kwh"`
	Currency    string           `json:"currency"`
	Symbol      string           `json:"symbol"`
	Note        string           `json:"note,omitempty"`
}

// RegionListing is the JSON shape of the reference data.
type RegionListing struct {
	FactorSetVersion string             `json:"factor_set_version"`
	Regions          []RegionInfo       `json:"regions"`
	Refrigerants     map[string]float64 `json:"refrigerant_gwp"`
}

// Regions collects the reference tables in display order.
func Regions() RegionListing {
	codes := emissions.Regions()
	out := RegionListing{
		FactorSetVersion: emissions.FactorSetVersion,
		Regions:          make([]RegionInfo, 0, len(codes)),
		Refrigerants:     make(map[string]float64),
	}
	for _, r := range codes {
		ef, _ := emissions.GridEmissionFactor(r)
		price, _ := emissions.DefaultPrice(r)
		out.Regions = append(out.Regions, RegionInfo{
			Code:        r,
			Name:        emissions.RegionName(r),
			GridEF:      ef,
			PricePerKWh: price.PricePerKWh,
			Currency:    price.Currency,
			Symbol:      price.Symbol,
			Note:        price.Note,
		})
	}
	for _, name := range emissions.Refrigerants() {
		gwp, _ := emissions.RefrigerantGWP(name)
		out.Refrigerants[name] = gwp
	}
	return out
}

// RenderRegions writes the listing as a table or JSON.
func RenderRegions(w io.Writer, format Format, listing RegionListing) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(listing)
	case FormatTable, FormatText:
		return renderRegionTable(w, listing)
	default:
		return fmt.Errorf("%w for regions: %q", ErrUnsupportedFormat, format)
	}
}

func renderRegionTable(w io.Writer, listing RegionListing) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tGRID EF (kg CO2/kWh)\tDEFAULT PRICE\tCURRENCY")
	for _, r := range listing.Regions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s%s\t%s\n",
			r.Code, r.Name,
			strconv.FormatFloat(r.GridEF, 'f', -1, 64),
			r.Symbol, strconv.FormatFloat(r.PricePerKWh, 'f', -1, 64),
			r.Currency)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\nFactor set %s\n", listing.FactorSetVersion)
	return err
}
