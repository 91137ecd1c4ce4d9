package format

import (
	"testing"

	"github.com/AngelCh415/marketing-dashboard/internal/metrics"
	"github.com/AngelCh415/marketing-dashboard/internal/models"
)

func TestFormatters(t *testing.T) {
	cases := []struct{ got, want string }{
		{Currency(1234.5), "$1,234.50"},
		{Currency(0), "$0.00"},
		{Number(1234567), "1,234,567"},
		{Number(12), "12"},
		{Decimal(3000), "3,000.00"},
		{Percent(50.0 / 3000.0 * 100), "1.67%"},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("got %q, want %q", c.got, c.want)
		}
	}
}

func TestTableExpandsChannels(t *testing.T) {
	recs := []models.MarketingRecord{
		{ID: 1, Channel: "Email", Region: "US", Spend: 100, Impressions: 1000, Conversions: 10, Clicks: 50},
		{ID: 2, Channel: "Social", Region: "US", Spend: 200, Impressions: 2000, Conversions: 40, Clicks: 100},
		{ID: 3, Channel: "Email", Region: "US", Spend: 50, Impressions: 1000, Conversions: 5, Clicks: 10},
		{ID: 4, Channel: "Email", Region: "EU", Spend: 10, Impressions: 0, Conversions: 0, Clicks: 0},
	}
	st := models.DashboardState{
		RegionAggregates: metrics.AggregateByRegion(recs),
		ExpandedRegions:  map[string]bool{"US": true},
	}
	rows := Table(st)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	us := rows[0]
	if us.Label != "US" || us.Spend != "$350.00" || us.Impressions != "4,000" || !us.Expanded {
		t.Fatalf("unexpected US row %+v", us)
	}
	if len(us.Channels) != 2 {
		t.Fatalf("expected 2 channel rows, got %d", len(us.Channels))
	}
	email := us.Channels[0]
	if email.Label != "Email" || email.Spend != "$150.00" || email.Conversions != "15" || email.CTR != "0.75%" {
		t.Fatalf("unexpected email row %+v", email)
	}

	eu := rows[1]
	if eu.Expanded || len(eu.Channels) != 0 || eu.CTR != "0.00%" {
		t.Fatalf("unexpected EU row %+v", eu)
	}
}

func TestTotalsCard(t *testing.T) {
	card := Totals(metrics.WithCTR(models.Totals{Spend: 2500, Impressions: 10000, Conversions: 150, Clicks: 700}))
	if card.Spend != "$2,500.00" || card.Impressions != "10,000.00" || card.CTR != "1.50%" {
		t.Fatalf("unexpected card %+v", card)
	}
}
