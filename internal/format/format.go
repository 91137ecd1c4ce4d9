// Package format renders dashboard values the way the table and totals
// card display them (en-US grouping, two decimals).
package format

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/AngelCh415/marketing-dashboard/internal/metrics"
	"github.com/AngelCh415/marketing-dashboard/internal/models"
)

var printer = message.NewPrinter(language.AmericanEnglish)

func Currency(v float64) string { return printer.Sprintf("$%.2f", v) }

func Number(v int) string { return printer.Sprintf("%d", v) }

func Decimal(v float64) string { return printer.Sprintf("%.2f", v) }

func Percent(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) + "%" }

type Row struct {
	Label       string `json:"label"`
	Spend       string `json:"spend"`
	Impressions string `json:"impressions"`
	Conversions string `json:"conversions"`
	Clicks      string `json:"clicks"`
	CTR         string `json:"ctr"`
}

type RegionRow struct {
	Row
	Expanded bool  `json:"expanded"`
	Channels []Row `json:"channels,omitempty"`
}

type TotalsCard struct {
	Spend       string `json:"total_spend"`
	Impressions string `json:"total_impressions"`
	Conversions string `json:"total_conversions"`
	Clicks      string `json:"total_clicks"`
	CTR         string `json:"overall_ctr"`
}

// Table builds one row per region in the state's current order. Expanded
// regions carry a sub-row per channel, in first-seen order within the region.
func Table(st models.DashboardState) []RegionRow {
	out := make([]RegionRow, 0, len(st.RegionAggregates))
	for _, a := range st.RegionAggregates {
		rr := RegionRow{
			Row:      row(a.Region, a.Spend, a.Impressions, a.Conversions, a.Clicks),
			Expanded: st.ExpandedRegions[a.Region],
		}
		if rr.Expanded {
			for _, c := range metrics.AggregateByChannel(a.Channels) {
				rr.Channels = append(rr.Channels, row(c.Channel, c.Spend, c.Impressions, c.Conversions, c.Clicks))
			}
		}
		out = append(out, rr)
	}
	return out
}

func Totals(t models.DashboardTotals) TotalsCard {
	return TotalsCard{
		Spend:       Currency(t.Spend),
		Impressions: Decimal(float64(t.Impressions)),
		Conversions: Decimal(float64(t.Conversions)),
		Clicks:      Decimal(float64(t.Clicks)),
		CTR:         Decimal(t.CTR) + "%",
	}
}

func row(label string, spend float64, impressions, conversions, clicks int) Row {
	return Row{
		Label:       label,
		Spend:       Currency(spend),
		Impressions: Number(impressions),
		Conversions: Number(conversions),
		Clicks:      Number(clicks),
		CTR:         Percent(metrics.CalculateCTR(conversions, impressions)),
	}
}
