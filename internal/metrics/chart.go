package metrics

import (
	"math"
	"sort"
	"strconv"

	"github.com/AngelCh415/marketing-dashboard/internal/models"
)

// RegionChart projects the top regions by spend for the chart renderer.
// The input slice is not reordered.
func RegionChart(aggs []models.RegionAggregate, limit int) []models.ChartPoint {
	rows := make([]models.RegionAggregate, len(aggs))
	copy(rows, aggs)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Spend > rows[j].Spend })
	rows = truncate(rows, limit)

	out := make([]models.ChartPoint, 0, len(rows))
	for _, a := range rows {
		out = append(out, point(a.Region, a.Spend, a.Conversions, a.Impressions))
	}
	return out
}

// ChannelChart aggregates records by channel and projects the top channels
// by spend.
func ChannelChart(records []models.MarketingRecord, limit int) []models.ChartPoint {
	rows := AggregateByChannel(records)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Spend > rows[j].Spend })
	rows = truncate(rows, limit)

	out := make([]models.ChartPoint, 0, len(rows))
	for _, a := range rows {
		out = append(out, point(a.Channel, a.Spend, a.Conversions, a.Impressions))
	}
	return out
}

func point(name string, spend float64, conversions, impressions int) models.ChartPoint {
	return models.ChartPoint{
		Name:        name,
		Spend:       int64(math.Round(spend)),
		Conversions: conversions,
		CTR:         strconv.FormatFloat(CalculateCTR(conversions, impressions), 'f', 2, 64),
	}
}

func truncate[T any](rows []T, limit int) []T {
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}
