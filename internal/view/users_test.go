package view

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/userdeck/userdeck/internal/api"
	"github.com/userdeck/userdeck/internal/dao"
	"github.com/userdeck/userdeck/internal/model"
	"github.com/userdeck/userdeck/internal/ui"
)

type fakeService struct {
	mx      sync.Mutex
	users   []dao.User
	lists   int
	listErr error
}

func newFakeService(n int) *fakeService {
	var f fakeService
	for i := 1; i <= n; i++ {
		f.users = append(f.users, dao.User{
			ID:    strconv.Itoa(i),
			Name:  fmt.Sprintf("user%d", i),
			Email: fmt.Sprintf("u%d@acme.io", i),
			Job:   "Engineer",
		})
	}
	if n > 0 {
		f.users[0].Job = "Pilot"
	}
	return &f
}

func (f *fakeService) List(_ context.Context, q dao.Query) (api.Page, error) {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.lists++
	if f.listErr != nil {
		return api.Page{}, f.listErr
	}
	start := min((q.Page-1)*q.Limit, len(f.users))
	end := min(start+q.Limit, len(f.users))
	out := make([]dao.User, end-start)
	copy(out, f.users[start:end])

	return api.Page{Users: out, Total: len(f.users), HasTotal: true}, nil
}

func (f *fakeService) Count(context.Context) (int, error) {
	f.mx.Lock()
	defer f.mx.Unlock()
	return len(f.users), nil
}

func (f *fakeService) Create(_ context.Context, u dao.User) (dao.User, error) {
	f.mx.Lock()
	defer f.mx.Unlock()
	u.ID = strconv.Itoa(len(f.users) + 100)
	f.users = append(f.users, u)
	return u, nil
}

func (f *fakeService) Update(_ context.Context, id string, u dao.User) (dao.User, error) {
	f.mx.Lock()
	defer f.mx.Unlock()
	for i := range f.users {
		if f.users[i].ID == id {
			u.ID = id
			f.users[i] = u
			return u, nil
		}
	}
	return dao.User{}, &api.HTTPError{Method: http.MethodPut, Status: http.StatusNotFound}
}

func (f *fakeService) Delete(_ context.Context, id string) error {
	f.mx.Lock()
	defer f.mx.Unlock()
	for i := range f.users {
		if f.users[i].ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return &api.HTTPError{Method: http.MethodDelete, Status: http.StatusNotFound}
}

func newTestUsersView(t *testing.T, svc api.Service, opts ...model.Option) *UsersView {
	t.Helper()
	store, err := model.NewUserStore(svc, opts...)
	require.NoError(t, err)
	v := NewUsersView(nil, store)
	require.NoError(t, v.Init(context.Background()))

	return v
}

func TestUsersViewInitialRender(t *testing.T) {
	v := newTestUsersView(t, newFakeService(0))

	assert.Equal(t, "users", v.Name())
	assert.Equal(t, 0, v.List().Len())
	assert.Equal(t, model.StatusIdle, v.Snapshot().Status)
}

func TestUsersViewLoad(t *testing.T) {
	svc := newFakeService(25)
	v := newTestUsersView(t, svc)

	v.load()

	snap := v.Snapshot()
	assert.Equal(t, model.StatusSucceeded, snap.Status)
	assert.Len(t, snap.Users, dao.DefaultLimit)
	assert.Equal(t, 25, snap.Pagination.Total)
	assert.Equal(t, dao.DefaultLimit, v.List().Len())
	assert.Equal(t, 3, v.pager.Pagination().PageCount())
	assert.Contains(t, v.status.GetText(true), "page 1/3")
	assert.Contains(t, v.status.GetText(true), "network")

	v.load()
	assert.True(t, v.Snapshot().FromCache)
	assert.Contains(t, v.status.GetText(true), "cache")
	assert.Equal(t, 1, svc.lists)
}

func TestUsersViewGotoPage(t *testing.T) {
	v := newTestUsersView(t, newFakeService(25))

	v.store.SetPage(3)
	v.load()

	snap := v.Snapshot()
	assert.Equal(t, 3, snap.Pagination.Page)
	require.Len(t, snap.Users, 5)
	assert.Equal(t, "21", snap.Users[0].ID)
}

func TestUsersViewLoadingText(t *testing.T) {
	v := newTestUsersView(t, newFakeService(3))

	v.StoreLoading(model.Snapshot{Status: model.StatusLoading})
	assert.Equal(t, loadingText, v.List().EmptyText())

	v.StoreChanged(model.Snapshot{Status: model.StatusSucceeded})
	assert.Equal(t, emptyText, v.List().EmptyText())
}

func TestUsersViewFailureKeepsRows(t *testing.T) {
	svc := newFakeService(25)
	v := newTestUsersView(t, svc)
	v.load()

	svc.mx.Lock()
	svc.listErr = errors.New("boom")
	svc.mx.Unlock()
	v.store.SetPage(2)
	v.load()

	snap := v.Snapshot()
	assert.Equal(t, model.StatusFailed, snap.Status)
	assert.Len(t, snap.Users, dao.DefaultLimit)
	assert.Contains(t, v.status.GetText(true), "boom")
	assert.Contains(t, v.flash.GetText(true), retryHint)
}

func TestUsersViewFilter(t *testing.T) {
	v := newTestUsersView(t, newFakeService(12))
	v.load()

	v.SetFilter("pilot")
	assert.Equal(t, 1, v.List().Len())
	assert.Contains(t, v.GetTitle(), "pilot")

	v.SetFilter(`=id in ["2", "3"]`)
	assert.Equal(t, 2, v.List().Len())

	v.SetFilter("=")
	assert.Equal(t, 2, v.List().Len())
	assert.Contains(t, v.flash.GetText(true), "Invalid filter")

	v.SetFilter("")
	assert.Equal(t, dao.DefaultLimit, v.List().Len())
	assert.Len(t, v.Snapshot().Users, dao.DefaultLimit)
}

func TestUsersViewDelete(t *testing.T) {
	svc := newFakeService(12)
	v := newTestUsersView(t, svc)
	v.load()

	require.NoError(t, v.Delete("1"))

	snap := v.Snapshot()
	assert.Equal(t, 11, snap.Pagination.Total)
	assert.Equal(t, "2", snap.Users[0].ID)
	assert.Contains(t, v.flash.GetText(true), "User 1 deleted")

	assert.Error(t, v.Delete("1"))
}

func TestUsersViewReadOnlyActions(t *testing.T) {
	v := newTestUsersView(t, newFakeService(3), model.WithReadOnly(true))

	_, ok := v.Actions().Get(ui.KeyD)
	assert.False(t, ok)
	_, ok = v.Actions().Get(ui.KeyA)
	assert.False(t, ok)
	_, ok = v.Actions().Get(ui.KeyS)
	assert.True(t, ok)

	assert.ErrorIs(t, v.Delete("1"), model.ErrReadOnly)
}

func TestUsersViewSaveAsync(t *testing.T) {
	svc := newFakeService(3)
	v := newTestUsersView(t, svc)
	v.load()

	done := make(chan error, 1)
	v.Save(dao.User{ID: "2", Name: "renamed"}, false, func(err error) { done <- err })
	require.NoError(t, <-done)

	svc.mx.Lock()
	defer svc.mx.Unlock()
	assert.Equal(t, "renamed", svc.users[1].Name)
	assert.Equal(t, "u2@acme.io", svc.users[1].Email)
}

func TestUsersViewSaveAsyncError(t *testing.T) {
	v := newTestUsersView(t, newFakeService(3))
	v.load()

	done := make(chan error, 1)
	v.Save(dao.User{ID: "2", Email: "nope"}, false, func(err error) { done <- err })
	assert.ErrorIs(t, <-done, dao.ErrInvalidUser)
	assert.Equal(t, "user2", v.Snapshot().Users[1].Name)
}
