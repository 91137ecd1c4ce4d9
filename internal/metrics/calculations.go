package metrics

import (
	"github.com/AngelCh415/marketing-dashboard/internal/models"
)

// CalculateCTR returns conversions per impression as a percentage.
// Despite the name this is a conversion rate; zero impressions yields 0.
func CalculateCTR(conversions, impressions int) float64 {
	if impressions == 0 {
		return 0
	}
	return float64(conversions) / float64(impressions) * 100
}

// AggregateByRegion groups records by region in first-seen order.
// Each aggregate keeps its records in input order.
func AggregateByRegion(records []models.MarketingRecord) []models.RegionAggregate {
	idx := make(map[string]int)
	out := []models.RegionAggregate{}
	for _, r := range records {
		i, ok := idx[r.Region]
		if !ok {
			i = len(out)
			idx[r.Region] = i
			out = append(out, models.RegionAggregate{Region: r.Region})
		}
		agg := &out[i]
		agg.Spend += r.Spend
		agg.Impressions += r.Impressions
		agg.Conversions += r.Conversions
		agg.Clicks += r.Clicks
		agg.Channels = append(agg.Channels, r)
	}
	return out
}

// AggregateByChannel groups records by channel in first-seen order,
// ignoring region.
func AggregateByChannel(records []models.MarketingRecord) []models.ChannelAggregate {
	idx := make(map[string]int)
	out := []models.ChannelAggregate{}
	for _, r := range records {
		i, ok := idx[r.Channel]
		if !ok {
			i = len(out)
			idx[r.Channel] = i
			out = append(out, models.ChannelAggregate{Channel: r.Channel})
		}
		agg := &out[i]
		agg.Spend += r.Spend
		agg.Impressions += r.Impressions
		agg.Conversions += r.Conversions
		agg.Clicks += r.Clicks
		agg.RecordCount++
	}
	return out
}

func CalculateChannelTotals(records []models.MarketingRecord) models.Totals {
	var t models.Totals
	for _, r := range records {
		t.Spend += r.Spend
		t.Impressions += r.Impressions
		t.Conversions += r.Conversions
		t.Clicks += r.Clicks
	}
	return t
}

// WithCTR attaches the derived CTR to a set of totals.
func WithCTR(t models.Totals) models.DashboardTotals {
	return models.DashboardTotals{Totals: t, CTR: CalculateCTR(t.Conversions, t.Impressions)}
}
