package model

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/userdeck/userdeck/internal/dao"
	"github.com/userdeck/userdeck/internal/telemetry"
)

type settings struct {
	limit     int
	sortBy    dao.SortField
	order     dao.SortOrder
	prefs     PrefsSink
	telemetry telemetry.Collector
	log       zerolog.Logger
	readOnly  bool
	now       func() time.Time
}

// Option configures a UserStore.
type Option func(*settings) error

// WithLogger provides a custom logger instance for the store.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *settings) error {
		cfg.log = logger
		return nil
	}
}

// WithTelemetry installs a metrics collector.
func WithTelemetry(c telemetry.Collector) Option {
	return func(cfg *settings) error {
		if c != nil {
			cfg.telemetry = c
		}
		return nil
	}
}

// WithPrefs seeds the list settings and persists later changes to sink.
func WithPrefs(limit int, sortBy dao.SortField, order dao.SortOrder, sink PrefsSink) Option {
	return func(cfg *settings) error {
		if limit < 1 {
			return fmt.Errorf("invalid limit %d: %w", limit, dao.ErrInvalidArg)
		}
		if _, err := dao.ParseSortField(string(sortBy)); err != nil {
			return err
		}
		if _, err := dao.ParseSortOrder(string(order)); err != nil {
			return err
		}
		cfg.limit, cfg.sortBy, cfg.order, cfg.prefs = limit, sortBy, order, sink
		return nil
	}
}

// WithReadOnly disables mutations.
func WithReadOnly(b bool) Option {
	return func(cfg *settings) error {
		cfg.readOnly = b
		return nil
	}
}

// WithClock overrides the time source used to default dates.
func WithClock(now func() time.Time) Option {
	return func(cfg *settings) error {
		if now != nil {
			cfg.now = now
		}
		return nil
	}
}
