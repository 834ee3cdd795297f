// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of userdeck

package view

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"github.com/rs/zerolog"

	"github.com/userdeck/userdeck/internal/config"
	"github.com/userdeck/userdeck/internal/dao"
	"github.com/userdeck/userdeck/internal/model"
	"github.com/userdeck/userdeck/internal/ui"
)

const (
	usersTitle   = "users"
	loadingText  = "LOADING..."
	emptyText    = "No users"
	retryHint    = "(ctrl-r to retry)"
	deletePrompt = "Delete user %s (%s)?"
)

// UsersView lists one page of users as cards with a pager below.
type UsersView struct {
	*tview.Flex

	app     *App
	store   *model.UserStore
	list    *ui.VirtualList
	pager   *ui.Pager
	status  *tview.TextView
	flash   *Flash
	actions *ui.KeyActions
	filter  *dao.Filter
	snap    model.Snapshot
	timeout time.Duration
	ctx     context.Context
	log     zerolog.Logger
	mx      sync.RWMutex
}

var _ model.StoreListener = (*UsersView)(nil)

// NewUsersView returns a users view. app may be nil in headless use.
func NewUsersView(app *App, store *model.UserStore) *UsersView {
	deck := config.NewDeck()
	flash := NewFlash(nil)
	log := zerolog.Nop()
	if app != nil {
		deck, flash, log = app.cfg.Deck, app.Flash(), app.log
	}

	v := UsersView{
		Flex:    tview.NewFlex().SetDirection(tview.FlexRow),
		app:     app,
		store:   store,
		list:    ui.NewVirtualList(deck.UI.RowHeight, deck.UI.FallbackHeight, deck.UI.BufferRows, deck.UI.Columns),
		pager:   ui.NewPager(),
		status:  tview.NewTextView(),
		flash:   flash,
		actions: ui.NewKeyActions(),
		timeout: deck.APITimeout(),
		ctx:     context.Background(),
		log:     log,
		snap:    store.Snapshot(),
	}
	v.SetBorder(true)
	v.SetBorderPadding(0, 0, 1, 1)
	v.SetBackgroundColor(tcell.ColorDefault)
	v.status.SetDynamicColors(true)
	v.status.SetBackgroundColor(tcell.ColorDefault)
	v.list.SetEmptyText(emptyText)

	v.AddItem(v.list, 0, 1, true)
	v.AddItem(v.pager, 1, 0, false)
	v.AddItem(v.status, 1, 0, false)

	return &v
}

// Init binds the keys and registers with the store.
func (v *UsersView) Init(ctx context.Context) error {
	if ctx != nil {
		v.ctx = ctx
	}
	v.bindKeys()
	v.SetInputCapture(v.keyboard)
	v.list.SetSelectedFunc(v.describe)
	v.list.SetChangedFunc(func(u dao.User) {
		v.store.Select(u.ID)
	})
	v.store.AddListener(v)
	v.render(v.store.Snapshot())

	return nil
}

// Start loads the current page.
func (v *UsersView) Start() {
	v.Refresh()
}

// Stop is a no-op. The view keeps following the store while covered.
func (*UsersView) Stop() {}

// Name returns the view name.
func (*UsersView) Name() string {
	return usersTitle
}

// Hints returns the menu hints.
func (v *UsersView) Hints() ui.MenuHints {
	return v.actions.Hints()
}

// Actions returns the bound key actions.
func (v *UsersView) Actions() *ui.KeyActions {
	return v.actions
}

// Refresh fetches the current page in the background.
func (v *UsersView) Refresh() {
	go v.load()
}

func (v *UsersView) load() {
	ctx, cancel := context.WithTimeout(v.ctx, v.timeout)
	defer cancel()

	if err := v.store.Fetch(ctx); err != nil {
		v.log.Debug().Err(err).Msg("fetch returned an error")
	}
}

// StoreLoading notifies a fetch was dispatched.
func (v *UsersView) StoreLoading(snap model.Snapshot) {
	v.queue(func() { v.render(snap) })
}

// StoreChanged notifies the store data changed.
func (v *UsersView) StoreChanged(snap model.Snapshot) {
	v.queue(func() { v.render(snap) })

	pg := snap.Pagination
	if snap.Status == model.StatusSucceeded && len(snap.Users) == 0 && pg.Total > 0 && pg.Page > pg.PageCount() {
		v.store.SetPage(pg.PageCount())
		v.Refresh()
	}
}

// StoreFailed notifies the fetch failed. The rows on screen are kept.
func (v *UsersView) StoreFailed(snap model.Snapshot, err error) {
	v.queue(func() { v.render(snap) })
	v.flash.Errf("%s %s", err, retryHint)
}

func (v *UsersView) queue(fn func()) {
	if v.app == nil {
		fn()
		return
	}
	v.app.QueueUpdateDraw(fn)
}

// SetFilter narrows the displayed page. Invalid expressions keep the
// previous filter.
func (v *UsersView) SetFilter(text string) {
	f, err := dao.NewFilter(text)
	if err != nil {
		v.flash.Warnf("Invalid filter: %v", err)
		return
	}
	v.mx.Lock()
	v.filter = f
	snap := v.snap
	v.mx.Unlock()

	v.render(snap)
}

// Snapshot returns the last rendered store snapshot.
func (v *UsersView) Snapshot() model.Snapshot {
	v.mx.RLock()
	defer v.mx.RUnlock()
	return v.snap
}

// List returns the card list.
func (v *UsersView) List() *ui.VirtualList {
	return v.list
}

func (v *UsersView) render(snap model.Snapshot) {
	v.mx.Lock()
	v.snap = snap
	filter := v.filter
	v.mx.Unlock()

	users, err := filter.Apply(snap.Users)
	if err != nil {
		v.flash.Warnf("Filter failed: %v", err)
		users = snap.Users
	}
	if snap.Status == model.StatusLoading && len(snap.Users) == 0 {
		v.list.SetEmptyText(loadingText)
	} else {
		v.list.SetEmptyText(emptyText)
	}
	v.list.SetUsers(users)
	v.pager.Update(snap.Pagination)
	v.SetTitle(v.title(snap, len(users)))
	v.status.SetText(statusLine(snap))

	if v.app != nil {
		v.app.updateHeader(snap)
	}
}

func (v *UsersView) title(snap model.Snapshot, shown int) string {
	title := fmt.Sprintf(" [aqua::b]Users[-::-] [gray::][%d/%d][-::] ", shown, snap.Pagination.Total)
	if f := v.filterText(); f != "" {
		title += fmt.Sprintf("[yellow::]</%s>[-::] ", tview.Escape(f))
	}
	return title
}

func (v *UsersView) filterText() string {
	v.mx.RLock()
	defer v.mx.RUnlock()
	if v.filter.IsEmpty() {
		return ""
	}
	return v.filter.String()
}

func statusLine(snap model.Snapshot) string {
	pg := snap.Pagination
	source := "network"
	if snap.FromCache {
		source = "cache"
	}
	line := fmt.Sprintf("page %d/%d [gray::]|[-::] %d per page [gray::]|[-::] sort %s %s [gray::]|[-::] %s",
		pg.ForcePage()+1, pg.PageCount(), pg.Limit, snap.SortBy, snap.Order, source)
	if snap.Status == model.StatusFailed {
		line += fmt.Sprintf(" [red::]Error: %s[-::]", tview.Escape(snap.Err))
	}
	return line
}

func (v *UsersView) bindKeys() {
	v.actions.Clear()
	v.actions.Bulk(ui.KeyMap{
		ui.KeyRightBracket: ui.NewKeyAction("Next Page", v.nextPageCmd, true),
		ui.KeyLeftBracket:  ui.NewKeyAction("Prev Page", v.prevPageCmd, true),
		ui.KeyL:            ui.NewKeyAction("Limit", v.limitCmd, true),
		ui.KeyS:            ui.NewKeyAction("Sort", v.sortCmd, true),
		ui.KeyO:            ui.NewKeyAction("Order", v.orderCmd, true),
		ui.KeyR:            ui.NewKeyAction("Refresh", v.refreshCmd, true),
		ui.KeyV:            ui.NewKeyAction("View", v.viewCmd, true),
		ui.KeyA:            ui.NewDangerousKeyAction("Add", v.addCmd, true),
		ui.KeyE:            ui.NewDangerousKeyAction("Edit", v.editCmd, true),
		ui.KeyShiftE:       ui.NewDangerousKeyAction("Edit JSON", v.editJSONCmd, true),
		ui.KeyD:            ui.NewDangerousKeyAction("Delete", v.deleteCmd, true),
		tcell.KeyEnter:     ui.NewSharedKeyAction("Describe", v.describeCmd, false),
	})
	if v.store.IsReadOnly() {
		v.actions.Filter()
	}
}

func (v *UsersView) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	if a, ok := v.actions.Get(ui.AsKey(evt)); ok {
		return a.Action(evt)
	}
	return evt
}

// GotoPage moves to page n and fetches it.
func (v *UsersView) GotoPage(n int) {
	v.store.SetPage(n)
	v.Refresh()
}

// SetLimit changes the page size and fetches the first page.
func (v *UsersView) SetLimit(n int) error {
	if err := v.store.SetLimit(n); err != nil {
		return err
	}
	v.Refresh()
	return nil
}

// SetSorting changes the sort and fetches the first page.
func (v *UsersView) SetSorting(by dao.SortField, order dao.SortOrder) error {
	if err := v.store.SetSorting(by, order); err != nil {
		return err
	}
	v.Refresh()
	return nil
}

// Invalidate drops every cached page and refetches.
func (v *UsersView) Invalidate() {
	v.store.InvalidateAll()
	v.Refresh()
}

func (v *UsersView) nextPageCmd(*tcell.EventKey) *tcell.EventKey {
	pg := v.Snapshot().Pagination
	if pg.Page < pg.PageCount() {
		v.GotoPage(pg.Page + 1)
	}
	return nil
}

func (v *UsersView) prevPageCmd(*tcell.EventKey) *tcell.EventKey {
	pg := v.Snapshot().Pagination
	if pg.Page > 1 {
		v.GotoPage(pg.Page - 1)
	}
	return nil
}

func (v *UsersView) limitCmd(*tcell.EventKey) *tcell.EventKey {
	next := dao.NextLimit(v.Snapshot().Pagination.Limit)
	if err := v.SetLimit(next); err != nil {
		v.flash.Err(err)
		return nil
	}
	v.flash.Infof("Showing %d users per page", next)
	return nil
}

func (v *UsersView) sortCmd(*tcell.EventKey) *tcell.EventKey {
	snap := v.Snapshot()
	if err := v.SetSorting(snap.SortBy.Next(), snap.Order); err != nil {
		v.flash.Err(err)
	}
	return nil
}

func (v *UsersView) orderCmd(*tcell.EventKey) *tcell.EventKey {
	snap := v.Snapshot()
	if err := v.SetSorting(snap.SortBy, snap.Order.Toggle()); err != nil {
		v.flash.Err(err)
	}
	return nil
}

func (v *UsersView) refreshCmd(*tcell.EventKey) *tcell.EventKey {
	v.Refresh()
	return nil
}

func (v *UsersView) describeCmd(*tcell.EventKey) *tcell.EventKey {
	if u, ok := v.list.Selected(); ok {
		v.describe(u)
	}
	return nil
}

func (v *UsersView) describe(u dao.User) {
	if v.app == nil {
		return
	}
	d := NewDescribe(u)
	d.SetBackFn(v.app.back)
	d.SetEditFn(func(u dao.User) { v.openForm(&u, true) })
	v.app.inject(d)
}

func (v *UsersView) viewCmd(*tcell.EventKey) *tcell.EventKey {
	if u, ok := v.list.Selected(); ok {
		v.openForm(&u, false)
	}
	return nil
}

func (v *UsersView) addCmd(*tcell.EventKey) *tcell.EventKey {
	v.openForm(nil, true)
	return nil
}

func (v *UsersView) editCmd(*tcell.EventKey) *tcell.EventKey {
	if u, ok := v.list.Selected(); ok {
		v.openForm(&u, true)
	}
	return nil
}

func (v *UsersView) openForm(u *dao.User, edit bool) {
	if v.app == nil {
		return
	}
	f := NewFormView(u, v.store.IsReadOnly())
	if edit && u != nil {
		f.SetEditing(true)
	}
	f.SetSaveFn(func(u dao.User, done func(error)) {
		v.Save(u, f.IsNew(), func(err error) {
			done(err)
			if err == nil {
				v.app.back()
			}
		})
	})
	f.SetCloseFn(v.app.back)
	v.app.inject(f)
}

// Save creates or updates a user in the background. done receives the
// outcome on the UI goroutine.
func (v *UsersView) Save(u dao.User, isNew bool, done func(error)) {
	go func() {
		err := v.save(u, isNew)
		v.queue(func() { done(err) })
		if err == nil {
			v.Refresh()
		}
	}()
}

func (v *UsersView) save(u dao.User, isNew bool) error {
	ctx, cancel := context.WithTimeout(v.ctx, v.timeout)
	defer cancel()

	if isNew {
		created, err := v.store.Create(ctx, u)
		if err != nil {
			return err
		}
		v.flash.Infof("User %s created", created.Name)
		return nil
	}
	if _, err := v.store.Update(ctx, u.ID, u); err != nil {
		return err
	}
	v.flash.Infof("User %s updated", u.Name)

	return nil
}

func (v *UsersView) editJSONCmd(*tcell.EventKey) *tcell.EventKey {
	u, ok := v.list.Selected()
	if !ok || v.app == nil {
		return nil
	}
	err := EditUser(v.ctx, v.app.Application, u, func(ctx context.Context, edited dao.User) error {
		_, err := v.store.Update(ctx, u.ID, edited)
		return err
	})
	switch {
	case errors.Is(err, ErrEditorCancelled):
		v.flash.Info("Edit cancelled")
	case errors.Is(err, ErrNoChanges):
		v.flash.Info("No changes detected")
	case err != nil:
		v.flash.Err(err)
		d := ui.ErrorDialog(v.app.Content, fmt.Sprintf("Edit of %s failed:\n%v", u.Name, err))
		d.SetDoneFn(v.app.focusTop).Show()
		v.app.SetFocus(d)
	default:
		v.flash.Infof("User %s updated", u.Name)
		v.Refresh()
	}

	return nil
}

func (v *UsersView) deleteCmd(*tcell.EventKey) *tcell.EventKey {
	u, ok := v.list.Selected()
	if !ok || v.app == nil {
		return nil
	}
	c := ui.NewConfirm(v.app.Content, fmt.Sprintf(deletePrompt, u.Name, u.ID))
	c.SetDangerous(true)
	c.SetOnConfirm(func() {
		go func() {
			if err := v.Delete(u.ID); err != nil {
				v.flash.Err(err)
			}
		}()
		v.app.focusTop()
	})
	c.SetOnCancel(v.app.focusTop)
	c.Show()
	v.app.SetFocus(c)

	return nil
}

// Delete removes a user, then refetches the current page.
func (v *UsersView) Delete(id string) error {
	ctx, cancel := context.WithTimeout(v.ctx, v.timeout)
	defer cancel()

	if err := v.store.Delete(ctx, id); err != nil {
		return err
	}
	v.flash.Infof("User %s deleted", id)
	v.load()

	return nil
}
