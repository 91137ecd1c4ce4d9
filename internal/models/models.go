package models

import (
	"errors"
	"strings"
)

// MarketingRecord is one (channel, region) observation from the dataset.
// Records are created once at load time and never mutated.
type MarketingRecord struct {
	ID          int     `json:"id"`
	Channel     string  `json:"channel"`
	Region      string  `json:"region"`
	Spend       float64 `json:"spend"`
	Impressions int     `json:"impressions"`
	Conversions int     `json:"conversions"`
	Clicks      int     `json:"clicks"`
}

type RegionAggregate struct {
	Region      string            `json:"region"`
	Spend       float64           `json:"spend"`
	Impressions int               `json:"impressions"`
	Conversions int               `json:"conversions"`
	Clicks      int               `json:"clicks"`
	Channels    []MarketingRecord `json:"channels"`
}

type ChannelAggregate struct {
	Channel     string  `json:"channel"`
	Spend       float64 `json:"spend"`
	Impressions int     `json:"impressions"`
	Conversions int     `json:"conversions"`
	Clicks      int     `json:"clicks"`
	RecordCount int     `json:"record_count"`
}

type Totals struct {
	Spend       float64 `json:"spend"`
	Impressions int     `json:"impressions"`
	Conversions int     `json:"conversions"`
	Clicks      int     `json:"clicks"`
}

// DashboardTotals is Totals plus the derived CTR over the same records.
type DashboardTotals struct {
	Totals
	CTR float64 `json:"ctr"`
}

type SortColumn string

const (
	SortNone        SortColumn = ""
	SortRegion      SortColumn = "region"
	SortChannel     SortColumn = "channel"
	SortSpend       SortColumn = "spend"
	SortImpressions SortColumn = "impressions"
	SortConversions SortColumn = "conversions"
	SortClicks      SortColumn = "clicks"
	SortCTR         SortColumn = "ctr"
)

type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

var ErrUnknownSortColumn = errors.New("unknown sort column")

func ParseSortColumn(s string) (SortColumn, error) {
	switch c := SortColumn(strings.ToLower(strings.TrimSpace(s))); c {
	case SortRegion, SortChannel, SortSpend, SortImpressions, SortConversions, SortClicks, SortCTR:
		return c, nil
	}
	return SortNone, ErrUnknownSortColumn
}

type SortState struct {
	Column    SortColumn    `json:"column"`
	Direction SortDirection `json:"direction"`
}

// FilterState.Channel is matched as a case-insensitive substring.
type FilterState struct {
	Channel string `json:"channel"`
}

// FilterPatch is a partial FilterState; nil fields keep the current value.
type FilterPatch struct {
	Channel *string `json:"channel,omitempty"`
}

// DashboardState is a read-only snapshot of the dashboard.
type DashboardState struct {
	RawData          []MarketingRecord `json:"raw_data"`
	FilteredData     []MarketingRecord `json:"filtered_data"`
	RegionAggregates []RegionAggregate `json:"region_aggregates"`
	ExpandedRegions  map[string]bool   `json:"expanded_regions"`
	Sort             SortState         `json:"sort"`
	Filter           FilterState       `json:"filter"`
}

type ChartPoint struct {
	Name        string `json:"name"`
	Spend       int64  `json:"spend"`
	Conversions int    `json:"conversions"`
	CTR         string `json:"ctr"`
}
