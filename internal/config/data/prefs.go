package data

import (
	"fmt"
	"os"
	"sync"

	"github.com/userdeck/userdeck/internal/dao"
)

// Prefs are the list settings persisted between runs.
type Prefs struct {
	Limit  int           `yaml:"limit"`
	SortBy dao.SortField `yaml:"sortBy"`
	Order  dao.SortOrder `yaml:"order"`
}

// DefaultPrefs returns the built in list settings.
func DefaultPrefs() Prefs {
	return Prefs{
		Limit:  dao.DefaultLimit,
		SortBy: dao.DefaultSortBy,
		Order:  dao.DefaultOrder,
	}
}

// Sanitize replaces invalid settings with the matching fallback value.
func (p Prefs) Sanitize(fallback Prefs) Prefs {
	if p.Limit < 1 {
		p.Limit = fallback.Limit
	}
	if f, err := dao.ParseSortField(string(p.SortBy)); err != nil {
		p.SortBy = fallback.SortBy
	} else {
		p.SortBy = f
	}
	if o, err := dao.ParseSortOrder(string(p.Order)); err != nil {
		p.Order = fallback.Order
	} else {
		p.Order = o
	}

	return p
}

// PrefsStore persists Prefs to a YAML file.
type PrefsStore struct {
	path     string
	fallback Prefs
	mx       sync.Mutex
}

// NewPrefsStore returns a store at path. fallback applies when the file is
// missing or carries invalid values.
func NewPrefsStore(path string, fallback Prefs) *PrefsStore {
	return &PrefsStore{
		path:     path,
		fallback: fallback.Sanitize(DefaultPrefs()),
	}
}

// Load reads the stored prefs. A missing file yields the fallback.
func (s *PrefsStore) Load() (Prefs, error) {
	s.mx.Lock()
	defer s.mx.Unlock()

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return s.fallback, nil
	}

	var p Prefs
	if err := LoadYAML(s.path, &p); err != nil {
		return s.fallback, fmt.Errorf("failed to load prefs: %w", err)
	}

	return p.Sanitize(s.fallback), nil
}

// Persist writes the list settings.
func (s *PrefsStore) Persist(limit int, sortBy dao.SortField, order dao.SortOrder) error {
	s.mx.Lock()
	defer s.mx.Unlock()

	p := Prefs{Limit: limit, SortBy: sortBy, Order: order}
	if err := SaveYAML(s.path, p); err != nil {
		return fmt.Errorf("failed to save prefs: %w", err)
	}

	return nil
}
