package config

import (
	"strings"
	"sync"
	"time"

	"github.com/userdeck/userdeck/internal/api"
	"github.com/userdeck/userdeck/internal/config/data"
	"github.com/userdeck/userdeck/internal/dao"
	"github.com/userdeck/userdeck/internal/render"
)

// UI defaults. Heights are in screen lines.
const (
	DefaultRowHeight      = render.CardLines
	DefaultFallbackHeight = 24
	DefaultLogFormat      = "json"
)

// Deck represents the userdeck global configuration.
type Deck struct {
	API      data.API      `yaml:"api"`
	UI       data.UI       `yaml:"ui"`
	Logger   data.Logger   `yaml:"logger"`
	Metrics  data.Metrics  `yaml:"metrics"`
	Defaults data.Defaults `yaml:"defaults"`

	mx sync.RWMutex
}

// NewDeck creates a Deck with default settings.
func NewDeck() *Deck {
	return &Deck{
		API: data.API{
			URL:     api.DefaultURL,
			Timeout: data.Duration{Duration: api.DefaultTimeout},
		},
		UI: data.UI{
			EnableMouse:    true,
			RowHeight:      DefaultRowHeight,
			FallbackHeight: DefaultFallbackHeight,
			BufferRows:     render.DefaultBufferRows,
			Columns:        render.DefaultColumns,
		},
		Logger: data.Logger{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Defaults: data.Defaults{
			Limit:  dao.DefaultLimit,
			SortBy: string(dao.DefaultSortBy),
			Order:  string(dao.DefaultOrder),
		},
	}
}

// Validate resets invalid settings to their defaults.
func (d *Deck) Validate() {
	d.mx.Lock()
	defer d.mx.Unlock()

	if d.API.Timeout.Duration <= 0 {
		d.API.Timeout.Duration = api.DefaultTimeout
	}
	if d.UI.RowHeight <= 0 {
		d.UI.RowHeight = DefaultRowHeight
	}
	if d.UI.FallbackHeight <= 0 {
		d.UI.FallbackHeight = DefaultFallbackHeight
	}
	if d.UI.BufferRows < 0 {
		d.UI.BufferRows = render.DefaultBufferRows
	}
	if d.UI.Columns <= 0 {
		d.UI.Columns = render.DefaultColumns
	}
	if d.Logger.Level == "" {
		d.Logger.Level = DefaultLogLevel
	}
	if d.Logger.Format == "" {
		d.Logger.Format = DefaultLogFormat
	}

	p := d.prefs().Sanitize(data.DefaultPrefs())
	d.Defaults = data.Defaults{Limit: p.Limit, SortBy: string(p.SortBy), Order: string(p.Order)}
}

// Override applies CLI flags on top of the loaded settings.
func (d *Deck) Override(f *data.Flags) {
	if f == nil {
		return
	}
	d.mx.Lock()
	defer d.mx.Unlock()

	if IsStringSet(f.URL) {
		d.API.URL = *f.URL
	}
	if IsStringSet(f.Profile) {
		d.API.Profile = *f.Profile
	}
	if IsBoolSet(f.ReadOnly) {
		d.API.ReadOnly = true
	}
	if IsStringSet(f.LogLevel) {
		d.Logger.Level = *f.LogLevel
	}
	if IsStringSet(f.LogFile) {
		d.Logger.File = *f.LogFile
	}
	if IsStringSet(f.MetricsAddr) {
		d.Metrics.Addr = *f.MetricsAddr
	}
	if IsIntSet(f.Limit) {
		d.Defaults.Limit = *f.Limit
	}
	if IsStringSet(f.SortBy) {
		d.Defaults.SortBy = *f.SortBy
	}
	if IsStringSet(f.Order) {
		d.Defaults.Order = strings.ToLower(*f.Order)
	}
}

// IsReadOnly returns true if mutations are disabled.
func (d *Deck) IsReadOnly() bool {
	d.mx.RLock()
	defer d.mx.RUnlock()
	return d.API.ReadOnly
}

// APITimeout returns the per request timeout.
func (d *Deck) APITimeout() time.Duration {
	d.mx.RLock()
	defer d.mx.RUnlock()
	return d.API.Timeout.Duration
}

// DefaultPrefs returns the configured list defaults.
func (d *Deck) DefaultPrefs() data.Prefs {
	d.mx.RLock()
	defer d.mx.RUnlock()
	return d.prefs().Sanitize(data.DefaultPrefs())
}

func (d *Deck) prefs() data.Prefs {
	return data.Prefs{
		Limit:  d.Defaults.Limit,
		SortBy: dao.SortField(d.Defaults.SortBy),
		Order:  dao.SortOrder(d.Defaults.Order),
	}
}
