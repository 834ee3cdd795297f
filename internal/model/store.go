package model

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/userdeck/userdeck/internal/api"
	"github.com/userdeck/userdeck/internal/dao"
	"github.com/userdeck/userdeck/internal/telemetry"
)

// ErrReadOnly is returned for mutations in read-only mode.
const ErrReadOnly = dao.Error("read-only mode")

// Mutation kinds reported to telemetry.
const (
	MutationCreate = "create"
	MutationUpdate = "update"
	MutationDelete = "delete"
)

// UserStore owns the page cache and the list state. It is the only place
// list state is mutated.
type UserStore struct {
	svc       api.Service
	cache     *dao.PageCache
	prefs     PrefsSink
	telemetry telemetry.Collector
	log       zerolog.Logger
	readOnly  bool
	now       func() time.Time

	status    Status
	users     []dao.User
	page      dao.Pagination
	sortBy    dao.SortField
	order     dao.SortOrder
	err       string
	fromCache bool
	selected  string
	gen       uint64
	listeners []StoreListener
	mx        sync.RWMutex
}

// NewUserStore returns a store backed by svc.
func NewUserStore(svc api.Service, opts ...Option) (*UserStore, error) {
	if svc == nil {
		return nil, errors.New("service cannot be nil")
	}
	cfg := settings{
		limit:     dao.DefaultLimit,
		sortBy:    dao.DefaultSortBy,
		order:     dao.DefaultOrder,
		log:       zerolog.Nop(),
		telemetry: telemetry.Noop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &UserStore{
		svc:       svc,
		cache:     dao.NewPageCache(),
		prefs:     cfg.prefs,
		telemetry: cfg.telemetry,
		log:       cfg.log.With().Str("component", "store").Logger(),
		readOnly:  cfg.readOnly,
		now:       cfg.now,
		status:    StatusIdle,
		page:      dao.Pagination{Page: 1, Limit: cfg.limit},
		sortBy:    cfg.sortBy,
		order:     cfg.order,
	}, nil
}

// AddListener registers a store listener.
func (s *UserStore) AddListener(l StoreListener) {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.listeners = append(s.listeners, l)
}

// RemoveListener unregisters a store listener.
func (s *UserStore) RemoveListener(l StoreListener) {
	s.mx.Lock()
	defer s.mx.Unlock()

	for i, listener := range s.listeners {
		if listener == l {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}

// Snapshot returns a copy of the current state.
func (s *UserStore) Snapshot() Snapshot {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return s.snapshotLocked()
}

// Query returns the key of the page currently requested.
func (s *UserStore) Query() dao.Query {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return s.queryLocked()
}

// CacheStats returns page cache counters.
func (s *UserStore) CacheStats() dao.CacheStats {
	return s.cache.Stats()
}

// IsReadOnly returns true if mutations are disabled.
func (s *UserStore) IsReadOnly() bool {
	return s.readOnly
}

// Fetch loads the current page, from the cache when possible. Results of a
// fetch superseded by a later one are discarded.
func (s *UserStore) Fetch(ctx context.Context) error {
	s.mx.Lock()
	s.gen++
	gen, q := s.gen, s.queryLocked()
	s.status = StatusLoading
	snap := s.snapshotLocked()
	s.mx.Unlock()
	s.notifyLoading(snap)

	start := time.Now()
	if uu, ok := s.cache.Get(q); ok {
		s.telemetry.IncCache(true)
		s.mx.Lock()
		if gen != s.gen {
			s.mx.Unlock()
			s.log.Debug().Stringer("query", q).Msg("stale cached fetch dropped")
			return nil
		}
		s.users, s.fromCache, s.status, s.err = uu, true, StatusSucceeded, ""
		snap := s.snapshotLocked()
		s.mx.Unlock()

		s.telemetry.ObserveFetch(telemetry.SourceCache, time.Since(start), nil)
		s.log.Debug().Stringer("query", q).Msg("page served from cache")
		s.notifyChanged(snap)
		return nil
	}
	s.telemetry.IncCache(false)

	epoch := s.cache.Epoch()
	uu, total, err := s.load(ctx, q)
	s.telemetry.ObserveFetch(telemetry.SourceNetwork, time.Since(start), err)

	s.mx.Lock()
	if gen != s.gen {
		s.mx.Unlock()
		s.log.Debug().Stringer("query", q).Err(err).Msg("stale fetch dropped")
		return nil
	}
	if err != nil {
		s.status, s.err = StatusFailed, err.Error()
		snap := s.snapshotLocked()
		s.mx.Unlock()

		s.log.Error().Err(err).Stringer("query", q).Msg("fetch failed")
		s.notifyFailed(snap, err)
		return err
	}
	s.users, s.fromCache, s.status, s.err = uu, false, StatusSucceeded, ""
	s.page.Total = total
	snap = s.snapshotLocked()
	s.mx.Unlock()

	if !s.cache.Put(q, uu, epoch) {
		s.log.Debug().Stringer("query", q).Msg("cache invalidated during fetch, result not cached")
	}
	s.telemetry.SetTotal(total)
	s.log.Debug().Stringer("query", q).Int("rows", len(uu)).Int("total", total).Msg("page fetched")
	s.notifyChanged(snap)

	return nil
}

func (s *UserStore) load(ctx context.Context, q dao.Query) ([]dao.User, int, error) {
	var (
		page  api.Page
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.svc.List(gctx, q)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		page = p
		return nil
	})
	g.Go(func() error {
		n, err := s.svc.Count(gctx)
		if err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		total = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	if page.HasTotal && page.Total != total {
		s.log.Debug().Int("header", page.Total).Int("count", total).Msg("total count mismatch")
	}

	return page.Users, total, nil
}

// SetPage moves to page n, clamped to at least 1.
func (s *UserStore) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	s.mx.Lock()
	s.page.Page = n
	s.mx.Unlock()
	s.persist()
}

// SetLimit changes the page size and resets to the first page.
func (s *UserStore) SetLimit(n int) error {
	if n < 1 {
		return fmt.Errorf("invalid limit %d: %w", n, dao.ErrInvalidArg)
	}
	s.mx.Lock()
	s.page.Limit, s.page.Page = n, 1
	s.mx.Unlock()
	s.persist()

	return nil
}

// SetSorting changes the sort and resets to the first page.
func (s *UserStore) SetSorting(by dao.SortField, order dao.SortOrder) error {
	if _, err := dao.ParseSortField(string(by)); err != nil {
		return err
	}
	if _, err := dao.ParseSortOrder(string(order)); err != nil {
		return err
	}
	s.mx.Lock()
	s.sortBy, s.order, s.page.Page = by, order, 1
	s.mx.Unlock()
	s.persist()

	return nil
}

// Select marks a user as the current selection. An empty id clears it.
func (s *UserStore) Select(id string) {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.selected = id
}

// Selected returns the selected user if it is on the current page.
func (s *UserStore) Selected() (dao.User, bool) {
	s.mx.RLock()
	defer s.mx.RUnlock()
	return s.selectedLocked()
}

// InvalidateAll drops every cached page and resets the total.
func (s *UserStore) InvalidateAll() {
	s.cache.Clear()
	s.mx.Lock()
	s.page.Total = 0
	snap := s.snapshotLocked()
	s.mx.Unlock()

	s.log.Debug().Msg("cache invalidated")
	s.notifyChanged(snap)
}

// Create submits a new user.
func (s *UserStore) Create(ctx context.Context, u dao.User) (dao.User, error) {
	if err := s.checkMutation(MutationCreate); err != nil {
		return dao.User{}, err
	}
	u.NormalizeDob(s.now())
	if err := dao.Check(u); err != nil {
		return dao.User{}, err
	}

	created, err := s.svc.Create(ctx, u)
	s.telemetry.IncMutation(MutationCreate, err)
	if err != nil {
		s.log.Error().Err(err).Msg("create failed")
		return dao.User{}, fmt.Errorf("create user: %w", err)
	}

	s.cache.Clear()
	s.mx.Lock()
	s.page.Total++
	snap := s.snapshotLocked()
	s.mx.Unlock()

	s.log.Info().Str("id", created.ID).Msg("user created")
	s.notifyChanged(snap)

	return created, nil
}

// Update submits a full or partial record for the identified user. Empty
// patch fields keep the value of the loaded record when there is one.
func (s *UserStore) Update(ctx context.Context, id string, patch dao.User) (dao.User, error) {
	if err := s.checkMutation(MutationUpdate); err != nil {
		return dao.User{}, err
	}
	if patch.Dob != "" {
		patch.NormalizeDob(s.now())
	}

	u, check := patch, dao.CheckPatch
	if base, ok := s.lookup(id); ok {
		merged, err := base.Merge(patch)
		if err != nil {
			return dao.User{}, fmt.Errorf("update user %s: %w", id, err)
		}
		u, check = merged, dao.Check
	}
	if err := check(u); err != nil {
		return dao.User{}, err
	}

	updated, err := s.svc.Update(ctx, id, u)
	s.telemetry.IncMutation(MutationUpdate, err)
	if err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("update failed")
		return dao.User{}, fmt.Errorf("update user %s: %w", id, err)
	}

	s.cache.Clear()
	s.mx.Lock()
	s.selected = ""
	snap := s.snapshotLocked()
	s.mx.Unlock()

	s.log.Info().Str("id", id).Msg("user updated")
	s.notifyChanged(snap)

	return updated, nil
}

// Delete removes the identified user. The local list changes only once the
// server confirmed the deletion.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	if err := s.checkMutation(MutationDelete); err != nil {
		return err
	}

	err := s.svc.Delete(ctx, id)
	s.telemetry.IncMutation(MutationDelete, err)
	if err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("delete failed")
		return fmt.Errorf("delete user %s: %w", id, err)
	}

	s.cache.Clear()
	s.mx.Lock()
	kept := make([]dao.User, 0, len(s.users))
	for _, u := range s.users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	s.users = kept
	if s.page.Total > 0 {
		s.page.Total--
	}
	if s.selected == id {
		s.selected = ""
	}
	snap := s.snapshotLocked()
	s.mx.Unlock()

	s.log.Info().Str("id", id).Msg("user deleted")
	s.notifyChanged(snap)

	return nil
}

func (s *UserStore) checkMutation(kind string) error {
	if s.readOnly {
		return fmt.Errorf("%s: %w", kind, ErrReadOnly)
	}
	return nil
}

func (s *UserStore) persist() {
	if s.prefs == nil {
		return
	}
	s.mx.RLock()
	limit, by, order := s.page.Limit, s.sortBy, s.order
	s.mx.RUnlock()

	if err := s.prefs.Persist(limit, by, order); err != nil {
		s.log.Warn().Err(err).Msg("unable to persist list settings")
	}
}

func (s *UserStore) queryLocked() dao.Query {
	return dao.Query{
		Page:   s.page.Page,
		Limit:  s.page.Limit,
		SortBy: s.sortBy,
		Order:  s.order,
	}
}

// lookup returns the loaded user with the given id.
func (s *UserStore) lookup(id string) (dao.User, bool) {
	s.mx.RLock()
	defer s.mx.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return dao.User{}, false
}

func (s *UserStore) selectedLocked() (dao.User, bool) {
	if s.selected == "" {
		return dao.User{}, false
	}
	for _, u := range s.users {
		if u.ID == s.selected {
			return u, true
		}
	}
	return dao.User{}, false
}

func (s *UserStore) snapshotLocked() Snapshot {
	users := make([]dao.User, len(s.users))
	copy(users, s.users)
	snap := Snapshot{
		Status:     s.status,
		Users:      users,
		Pagination: s.page,
		SortBy:     s.sortBy,
		Order:      s.order,
		Err:        s.err,
		FromCache:  s.fromCache,
	}
	if u, ok := s.selectedLocked(); ok {
		snap.Selected = &u
	}

	return snap
}

func (s *UserStore) listenersCopy() []StoreListener {
	s.mx.RLock()
	defer s.mx.RUnlock()

	ll := make([]StoreListener, len(s.listeners))
	copy(ll, s.listeners)
	return ll
}

func (s *UserStore) notifyLoading(snap Snapshot) {
	for _, l := range s.listenersCopy() {
		l.StoreLoading(snap)
	}
}

func (s *UserStore) notifyChanged(snap Snapshot) {
	for _, l := range s.listenersCopy() {
		l.StoreChanged(snap)
	}
}

func (s *UserStore) notifyFailed(snap Snapshot, err error) {
	for _, l := range s.listenersCopy() {
		l.StoreFailed(snap, err)
	}
}
