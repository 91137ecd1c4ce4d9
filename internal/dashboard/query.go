package dashboard

import (
	"net/url"
	"strconv"

	"github.com/AngelCh415/marketing-dashboard/internal/models"
)

type RegionPage struct {
	Data   []models.RegionAggregate `json:"data"`
	Total  int                      `json:"total"`
	Limit  int                      `json:"limit"`
	Offset int                      `json:"offset"`
}

// QueryRegions pages through the sorted region view.
func (d *Dashboard) QueryRegions(v url.Values) RegionPage {
	rows := d.State().RegionAggregates
	limit := atoiDef(v.Get("limit"), 0)
	offset := atoiDef(v.Get("offset"), 0)
	limit, offset = clampLimitOffset(limit, offset, len(rows))
	return RegionPage{Data: paginate(rows, limit, offset), Total: len(rows), Limit: limit, Offset: offset}
}

func paginate[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

func atoiDef(s string, d int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}
func clampLimitOffset(limit, offset, n int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = n
	}
	if limit > 1000 {
		limit = 1000
	} // tope sano
	if offset > n {
		offset = n
	}
	return limit, offset
}
