package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/wanderplan/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultSchedule refreshes the rate table at the start of every hour.
const DefaultSchedule = "0 * * * *"

// RateSource fetches a fresh set of exchange rates relative to the base
// currency.
type RateSource interface {
	Fetch(ctx context.Context) (map[string]decimal.Decimal, error)
}

// HTTPSource fetches rates from an HTTP endpoint returning a JSON document
// of the form {"rates": {"USD": 1.09, ...}}.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

type ratesDocument struct {
	Rates map[string]decimal.Decimal `json:"rates"`
}

func (s HTTPSource) Fetch(ctx context.Context) (map[string]decimal.Decimal, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate source returned HTTP %d", resp.StatusCode)
	}

	var document ratesDocument
	if err := json.NewDecoder(resp.Body).Decode(&document); err != nil {
		return nil, fmt.Errorf("could not parse rate source response: %w", err)
	}

	return document.Rates, nil
}

// StaticSource returns a fixed set of rates. Used when no rate endpoint is
// configured and in tests.
type StaticSource struct {
	Rates map[string]decimal.Decimal
}

func (s StaticSource) Fetch(_ context.Context) (map[string]decimal.Decimal, error) {
	return s.Rates, nil
}

// Refresher periodically pulls rates from a source, persists them and swaps
// the in-memory snapshot. A failed refresh keeps the previous snapshot.
type Refresher struct {
	cron   *cron.Cron
	db     *gorm.DB
	source RateSource
	base   string
}

// NewRefresher creates a refresher for the given source and base currency.
func NewRefresher(db *gorm.DB, source RateSource, base string) *Refresher {
	return &Refresher{
		cron:   cron.New(),
		db:     db,
		source: source,
		base:   base,
	}
}

// Register adds the refresh job with the given cron schedule.
func (r *Refresher) Register(schedule string) error {
	if _, err := r.cron.AddFunc(schedule, func() {
		if err := r.Refresh(context.Background()); err != nil {
			log.Error().Err(err).Msg("currency rate refresh failed, keeping previous rates")
		}
	}); err != nil {
		return fmt.Errorf("register rate refresh: %w", err)
	}

	return nil
}

// Start starts the cron scheduler.
func (r *Refresher) Start() {
	r.cron.Start()
	log.Info().Str("base", r.base).Msg("currency rate refresher started")
}

// Stop stops the cron scheduler gracefully.
func (r *Refresher) Stop() {
	r.cron.Stop()
	log.Info().Msg("currency rate refresher stopped")
}

// Refresh fetches rates once, folds them into the database with a fresh
// LastUpdated stamp and replaces the in-memory snapshot.
func (r *Refresher) Refresh(ctx context.Context) error {
	rates, err := r.source.Fetch(ctx)
	if err != nil {
		return err
	}

	now := time.Now().In(time.UTC)
	records := make([]models.CurrencyRate, 0, len(rates))
	for code, rate := range rates {
		records = append(records, models.CurrencyRate{
			Code:        code,
			Rate:        rate,
			LastUpdated: now,
		})
	}

	if len(records) > 0 {
		err = r.db.
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(&records).Error
		if err != nil {
			return fmt.Errorf("could not persist currency rates: %w", err)
		}
	}

	return LoadSnapshot(r.db, r.base)
}

// LoadSnapshot builds the active snapshot from the persisted rates.
func LoadSnapshot(db *gorm.DB, base string) error {
	var rates []models.CurrencyRate
	if err := db.Find(&rates).Error; err != nil {
		return err
	}

	SetCurrent(TableFromRates(base, rates))
	return nil
}
