package model

import (
	"github.com/userdeck/userdeck/internal/dao"
)

// Status tracks the fetch lifecycle.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Snapshot is an immutable copy of the store state.
type Snapshot struct {
	Status     Status
	Users      []dao.User
	Pagination dao.Pagination
	SortBy     dao.SortField
	Order      dao.SortOrder
	Err        string
	FromCache  bool
	Selected   *dao.User
}

// Query returns the key of the page the snapshot describes.
func (s Snapshot) Query() dao.Query {
	return dao.Query{
		Page:   s.Pagination.Page,
		Limit:  s.Pagination.Limit,
		SortBy: s.SortBy,
		Order:  s.Order,
	}
}

// StoreListener represents a user store listener.
type StoreListener interface {
	// StoreLoading notifies a fetch was dispatched.
	StoreLoading(Snapshot)

	// StoreChanged notifies the store data changed.
	StoreChanged(Snapshot)

	// StoreFailed notifies the fetch failed. Previous rows are kept.
	StoreFailed(Snapshot, error)
}

// PrefsSink persists list settings.
type PrefsSink interface {
	Persist(limit int, sortBy dao.SortField, order dao.SortOrder) error
}
