package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AngelCh415/marketing-dashboard/internal/dashboard"
	"github.com/AngelCh415/marketing-dashboard/internal/format"
	"github.com/AngelCh415/marketing-dashboard/internal/metrics"
	"github.com/AngelCh415/marketing-dashboard/internal/models"
	"github.com/AngelCh415/marketing-dashboard/internal/utils"
)

type Options struct {
	ChartLimit     int
	FilterDebounce time.Duration
	Gatherer       prometheus.Gatherer
	Metrics        *utils.Metrics
}

type snapshot struct {
	State  models.DashboardState  `json:"state"`
	Totals models.DashboardTotals `json:"totals"`
}

func NewRouter(log *slog.Logger, d *dashboard.Dashboard, opt Options) http.Handler {
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log, opt.Metrics))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	if opt.Gatherer != nil {
		mux.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opt.Gatherer, promhttp.HandlerOpts{}))
	}

	mux.Group(func(r chi.Router) {
		r.Use(provide(d))

		r.Get("/dashboard", func(w http.ResponseWriter, r *http.Request) {
			d := dashboard.FromContext(r.Context())
			writeJSON(w, snapshot{State: d.State(), Totals: d.Totals()})
		})

		r.Get("/dashboard/totals", func(w http.ResponseWriter, r *http.Request) {
			t := dashboard.FromContext(r.Context()).Totals()
			writeJSON(w, map[string]any{"totals": t, "formatted": format.Totals(t)})
		})

		r.Get("/dashboard/table", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, format.Table(dashboard.FromContext(r.Context()).State()))
		})

		r.Get("/dashboard/regions", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, dashboard.FromContext(r.Context()).QueryRegions(r.URL.Query()))
		})

		r.Post("/dashboard/filter", func(w http.ResponseWriter, r *http.Request) {
			var p models.FilterPatch
			if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&p); err != nil {
				http.Error(w, "bad filter body", 400)
				return
			}
			d := dashboard.FromContext(r.Context())
			d.SetFilter(p)
			writeJSON(w, d.State().Filter)
		})

		r.Post("/dashboard/sort/{column}", func(w http.ResponseWriter, r *http.Request) {
			col, err := models.ParseSortColumn(chi.URLParam(r, "column"))
			if errors.Is(err, models.ErrUnknownSortColumn) {
				http.Error(w, err.Error(), 400)
				return
			}
			d := dashboard.FromContext(r.Context())
			d.SetSort(col)
			writeJSON(w, d.State().Sort)
		})

		r.Post("/dashboard/regions/{region}/toggle", func(w http.ResponseWriter, r *http.Request) {
			region := chi.URLParam(r, "region")
			d := dashboard.FromContext(r.Context())
			d.ToggleRegion(region)
			writeJSON(w, map[string]any{"region": region, "expanded": d.Expanded(region)})
		})

		r.Get("/charts/regions", func(w http.ResponseWriter, r *http.Request) {
			st := dashboard.FromContext(r.Context()).State()
			writeJSON(w, metrics.RegionChart(st.RegionAggregates, opt.ChartLimit))
		})

		r.Get("/charts/channels", func(w http.ResponseWriter, r *http.Request) {
			st := dashboard.FromContext(r.Context()).State()
			writeJSON(w, metrics.ChannelChart(st.FilteredData, opt.ChartLimit))
		})

		r.Get("/ws", serveWS(log, opt.FilterDebounce))
	})

	return mux
}

func provide(d *dashboard.Dashboard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(dashboard.WithDashboard(r.Context(), d)))
		})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
