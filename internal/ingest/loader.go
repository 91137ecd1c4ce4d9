package ingest

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/AngelCh415/marketing-dashboard/internal/config"
	"github.com/AngelCh415/marketing-dashboard/internal/models"
	"github.com/AngelCh415/marketing-dashboard/internal/store"
)

//go:embed data/marketing_dashboard_data.json
var bundled []byte

type Loader struct {
	c   HTTPClient
	st  *store.MemoryStore
	log *slog.Logger
	cfg config.Config
}

func NewLoader(c HTTPClient, st *store.MemoryStore, log *slog.Logger, cfg config.Config) *Loader {
	return &Loader{c: c, st: st, log: log, cfg: cfg}
}

type recordResp []struct {
	ID          int     `json:"id"`
	Channel     string  `json:"channel"`
	Region      string  `json:"region"`
	Spend       float64 `json:"spend"`
	Impressions int     `json:"impressions"`
	Conversions int     `json:"conversions"`
	Clicks      int     `json:"clicks"`
}

// Load reads the dataset once, from DATA_URL, DATA_PATH or the bundled
// asset in that order of preference, and returns the number of records kept.
func (l *Loader) Load(ctx context.Context) (int, error) {
	var resp recordResp
	source := "bundled"
	switch {
	case l.cfg.DataURL != "":
		source = l.cfg.DataURL
		if err := GetJSONWithRetry(ctx, l.c, l.cfg.DataURL, &resp); err != nil {
			return 0, fmt.Errorf("fetch dataset: %w", err)
		}
	case l.cfg.DataPath != "":
		source = l.cfg.DataPath
		b, err := os.ReadFile(l.cfg.DataPath)
		if err != nil {
			return 0, fmt.Errorf("read dataset: %w", err)
		}
		if err := decode(b, &resp); err != nil {
			return 0, err
		}
	default:
		if err := decode(bundled, &resp); err != nil {
			return 0, err
		}
	}

	kept, dup := 0, 0
	for _, r := range resp {
		ok := l.st.Add(models.MarketingRecord{
			ID:          r.ID,
			Channel:     strings.TrimSpace(r.Channel),
			Region:      strings.TrimSpace(r.Region),
			Spend:       r.Spend,
			Impressions: r.Impressions,
			Conversions: r.Conversions,
			Clicks:      r.Clicks,
		})
		if !ok {
			dup++
			continue
		}
		kept++
	}
	if dup > 0 {
		l.log.Warn("duplicate record ids skipped", slog.Int("count", dup))
	}
	l.log.Info("dataset loaded", slog.String("source", source), slog.Int("records", kept))
	return kept, nil
}

func decode(b []byte, v any) error {
	if err := json.NewDecoder(bytes.NewReader(b)).Decode(v); err != nil {
		return fmt.Errorf("decode dataset: %w", err)
	}
	return nil
}
