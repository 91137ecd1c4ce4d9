package dashboard

import (
	"cmp"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/AngelCh415/marketing-dashboard/internal/metrics"
	"github.com/AngelCh415/marketing-dashboard/internal/models"
)

// Observer receives the duration of each derivation stage and the name of
// each mutation. Either may be nil.
type Observer struct {
	Stage    func(stage string, d time.Duration)
	Mutation func(op string)
}

type Option func(*Dashboard)

func WithLogger(log *slog.Logger) Option { return func(d *Dashboard) { d.log = log } }

func WithObserver(o Observer) Option { return func(d *Dashboard) { d.obs = o } }

// Dashboard is the single source of truth for the dashboard views.
// Derived fields are a pure function of (raw, filter, sort) and are only
// ever replaced, never patched.
type Dashboard struct {
	mu       sync.RWMutex
	raw      []models.MarketingRecord
	filter   models.FilterState
	sort     models.SortState
	expanded map[string]struct{}

	filtered   []models.MarketingRecord
	aggregates []models.RegionAggregate // first-seen order
	sorted     []models.RegionAggregate
	totals     models.DashboardTotals

	collator *collate.Collator
	subs     map[int]chan struct{}
	nextSub  int

	log *slog.Logger
	obs Observer
}

// New sets the raw dataset once and derives every view from it.
func New(records []models.MarketingRecord, opts ...Option) *Dashboard {
	d := &Dashboard{
		raw:      records,
		sort:     models.SortState{Column: models.SortNone, Direction: models.Asc},
		expanded: make(map[string]struct{}),
		collator: collate.New(language.English),
		subs:     make(map[int]chan struct{}),
		log:      slog.Default(),
	}
	for _, o := range opts {
		o(d)
	}
	d.deriveFiltered()
	return d
}

// SetFilter merges p into the current filter and re-runs the whole cascade.
func (d *Dashboard) SetFilter(p models.FilterPatch) {
	d.mu.Lock()
	if p.Channel != nil {
		d.filter.Channel = *p.Channel
	}
	d.deriveFiltered()
	d.log.Debug("filter set", slog.String("channel", d.filter.Channel), slog.Int("records", len(d.filtered)), slog.Int("regions", len(d.sorted)))
	d.mu.Unlock()
	d.mutated("set_filter")
}

// SetSort flips the direction when column is already active, otherwise
// selects column ascending. Only the sort stage is recomputed.
func (d *Dashboard) SetSort(column models.SortColumn) {
	d.mu.Lock()
	dir := models.Asc
	if d.sort.Column == column && d.sort.Direction == models.Asc {
		dir = models.Desc
	}
	d.sort = models.SortState{Column: column, Direction: dir}
	d.deriveSorted()
	d.log.Debug("sort set", slog.String("column", string(column)), slog.String("direction", string(dir)))
	d.mu.Unlock()
	d.mutated("set_sort")
}

// ToggleRegion adds region to the expanded set if absent, removes it if present.
func (d *Dashboard) ToggleRegion(region string) {
	d.mu.Lock()
	if _, ok := d.expanded[region]; ok {
		delete(d.expanded, region)
	} else {
		d.expanded[region] = struct{}{}
	}
	d.mu.Unlock()
	d.mutated("toggle_region")
}

// State returns a snapshot. Slices in the snapshot are shared with the
// dashboard and must be treated as read-only.
func (d *Dashboard) State() models.DashboardState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	exp := make(map[string]bool, len(d.expanded))
	for k := range d.expanded {
		exp[k] = true
	}
	return models.DashboardState{
		RawData:          d.raw,
		FilteredData:     d.filtered,
		RegionAggregates: d.sorted,
		ExpandedRegions:  exp,
		Sort:             d.sort,
		Filter:           d.filter,
	}
}

func (d *Dashboard) Totals() models.DashboardTotals {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.totals
}

func (d *Dashboard) Expanded(region string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.expanded[region]
	return ok
}

// Subscribe returns a channel that receives a value after every mutation.
// Notifications coalesce: a slow reader sees at most one pending signal.
func (d *Dashboard) Subscribe() (<-chan struct{}, func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextSub
	d.nextSub++
	ch := make(chan struct{}, 1)
	d.subs[id] = ch
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.subs, id)
			d.mu.Unlock()
		})
	}
}

func (d *Dashboard) mutated(op string) {
	if d.obs.Mutation != nil {
		d.obs.Mutation(op)
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, ch := range d.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// deriveFiltered runs filter -> aggregate -> sort -> totals. Caller holds mu.
func (d *Dashboard) deriveFiltered() {
	d.stage("filter", func() { d.filtered = filterByChannel(d.raw, d.filter.Channel) })
	d.stage("aggregate", func() { d.aggregates = metrics.AggregateByRegion(d.filtered) })
	d.deriveSorted()
	d.stage("totals", func() { d.totals = metrics.WithCTR(metrics.CalculateChannelTotals(d.filtered)) })
}

// deriveSorted re-sorts the current aggregates. Caller holds mu.
func (d *Dashboard) deriveSorted() {
	d.stage("sort", func() { d.sorted = d.sortRegions(d.aggregates, d.sort) })
}

func (d *Dashboard) stage(name string, fn func()) {
	start := time.Now()
	fn()
	if d.obs.Stage != nil {
		d.obs.Stage(name, time.Since(start))
	}
}

func filterByChannel(records []models.MarketingRecord, channel string) []models.MarketingRecord {
	if channel == "" {
		return records
	}
	needle := strings.ToLower(channel)
	out := make([]models.MarketingRecord, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Channel), needle) {
			out = append(out, r)
		}
	}
	return out
}

// sortRegions returns aggs unchanged when no column is selected, else a
// sorted copy. Unknown columns compare equal and keep first-seen order.
func (d *Dashboard) sortRegions(aggs []models.RegionAggregate, s models.SortState) []models.RegionAggregate {
	if s.Column == models.SortNone {
		return aggs
	}
	out := slices.Clone(aggs)
	slices.SortStableFunc(out, func(a, b models.RegionAggregate) int {
		c := d.compare(a, b, s.Column)
		if s.Direction == models.Desc {
			return -c
		}
		return c
	})
	return out
}

func (d *Dashboard) compare(a, b models.RegionAggregate, col models.SortColumn) int {
	switch col {
	case models.SortRegion:
		return d.collator.CompareString(a.Region, b.Region)
	case models.SortSpend:
		return cmp.Compare(a.Spend, b.Spend)
	case models.SortImpressions:
		return cmp.Compare(a.Impressions, b.Impressions)
	case models.SortConversions:
		return cmp.Compare(a.Conversions, b.Conversions)
	case models.SortClicks:
		return cmp.Compare(a.Clicks, b.Clicks)
	case models.SortCTR:
		return cmp.Compare(metrics.CalculateCTR(a.Conversions, a.Impressions), metrics.CalculateCTR(b.Conversions, b.Impressions))
	}
	return 0
}
