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

	"github.com/userdeck/userdeck/internal/api"
	"github.com/userdeck/userdeck/internal/config"
	"github.com/userdeck/userdeck/internal/model"
	"github.com/userdeck/userdeck/internal/ui"
)

const (
	// FlashDelay sets the flash auto-clear delay.
	FlashDelay = 5 * time.Second
)

// FlashLevel represents flash message severity.
type FlashLevel int

const (
	// FlashInfo represents an info message.
	FlashInfo FlashLevel = iota
	// FlashWarn represents a warning message.
	FlashWarn
	// FlashErr represents an error message.
	FlashErr
)

// Flash handles flash messages in the application.
type Flash struct {
	*tview.TextView
	app    *App
	cancel context.CancelFunc
	mx     sync.RWMutex
}

// NewFlash creates a new Flash instance.
func NewFlash(app *App) *Flash {
	f := &Flash{
		TextView: tview.NewTextView(),
		app:      app,
	}
	f.SetDynamicColors(true)
	f.SetTextAlign(tview.AlignLeft)
	f.SetBorderPadding(0, 0, 1, 1)
	f.SetBackgroundColor(tcell.ColorDefault)
	return f
}

// Info displays an informational message.
func (f *Flash) Info(msg string) {
	f.setMessage(FlashInfo, msg)
}

// Infof displays a formatted informational message.
func (f *Flash) Infof(format string, args ...interface{}) {
	f.Info(fmt.Sprintf(format, args...))
}

// Warn displays a warning message.
func (f *Flash) Warn(msg string) {
	f.setMessage(FlashWarn, msg)
}

// Warnf displays a formatted warning message.
func (f *Flash) Warnf(format string, args ...interface{}) {
	f.Warn(fmt.Sprintf(format, args...))
}

// Err displays an error message.
func (f *Flash) Err(err error) {
	if err != nil {
		f.setMessage(FlashErr, err.Error())
	}
}

// Errf displays a formatted error message.
func (f *Flash) Errf(format string, args ...interface{}) {
	f.setMessage(FlashErr, fmt.Sprintf(format, args...))
}

// Clear clears the flash message.
func (f *Flash) Clear() {
	f.mx.Lock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.mx.Unlock()

	if f.app != nil {
		f.app.QueueUpdateDraw(func() {
			f.TextView.Clear()
		})
	} else {
		f.TextView.Clear()
	}
}

func (f *Flash) setMessage(level FlashLevel, msg string) {
	f.mx.Lock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.mx.Unlock()

	if msg == "" {
		f.Clear()
		return
	}

	updateFn := func() {
		f.TextView.Clear()
		f.SetTextColor(flashColor(level))
		_, _ = fmt.Fprintf(f.TextView, "%s %s", flashPrefix(level), tview.Escape(msg))
	}
	if f.app != nil {
		f.app.QueueUpdateDraw(updateFn)
	} else {
		updateFn()
	}

	ctx, cancel := context.WithCancel(context.Background())
	f.mx.Lock()
	f.cancel = cancel
	f.mx.Unlock()

	go f.autoClear(ctx)
}

func (f *Flash) autoClear(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(FlashDelay):
		f.Clear()
	}
}

func flashColor(level FlashLevel) tcell.Color {
	switch level {
	case FlashWarn:
		return tcell.ColorYellow
	case FlashErr:
		return tcell.ColorRed
	default:
		return tcell.ColorGreen
	}
}

func flashPrefix(level FlashLevel) string {
	switch level {
	case FlashWarn:
		return "Warn:"
	case FlashErr:
		return "Error:"
	default:
		return "Info:"
	}
}

// inputCapturer is implemented by views that need raw keystrokes, such as
// forms being edited.
type inputCapturer interface {
	CapturesInput() bool
}

// App represents the main application container.
type App struct {
	*tview.Application

	version string
	cfg     *config.Config
	store   *model.UserStore
	client  *api.Client
	log     zerolog.Logger
	Main    *tview.Pages
	Content *ui.Pages
	header  *tview.TextView
	command *Command
	cmdBar  *ui.CmdBar
	menu    *ui.Menu
	crumbs  *ui.Crumbs
	flash   *Flash
	users   *UsersView
	ctx     context.Context
	cancel  context.CancelFunc
	running bool
	mx      sync.RWMutex
}

// NewApp creates a new application instance.
func NewApp(cfg *config.Config, store *model.UserStore, version string, log zerolog.Logger) *App {
	if cfg == nil {
		cfg = config.NewConfig(nil)
	}
	ctx, cancel := context.WithCancel(context.Background())
	app := App{
		Application: tview.NewApplication(),
		version:     version,
		cfg:         cfg,
		store:       store,
		log:         log.With().Str("component", "view").Logger(),
		Main:        tview.NewPages(),
		Content:     ui.NewPages(),
		header:      tview.NewTextView(),
		ctx:         ctx,
		cancel:      cancel,
	}

	app.flash = NewFlash(&app)
	app.menu = ui.NewMenu()
	app.crumbs = ui.NewCrumbs()
	app.cmdBar = ui.NewCmdBar()
	app.Content.AddListener(app.menu)
	app.Content.AddListener(app.crumbs)

	app.header.SetDynamicColors(true)
	app.header.SetBackgroundColor(tcell.ColorDefault)
	app.header.SetBorderPadding(0, 0, 1, 1)

	app.Application.SetInputCapture(app.keyboard)
	app.cmdBar.SetActiveFn(func(active bool) {
		if active {
			app.SetFocus(app.cmdBar)
			return
		}
		app.focusTop()
	})
	app.cmdBar.SetCommandFn(func(cmd string) {
		if err := app.command.Run(cmd); err != nil {
			app.flash.Err(err)
		}
	})
	app.cmdBar.SetFilterFn(app.applyFilter)
	app.cmdBar.SetCancelFn(func() {
		app.applyFilter("")
	})

	return &app
}

// SetClient sets the API client used for endpoint switching.
func (a *App) SetClient(c *api.Client) {
	a.mx.Lock()
	defer a.mx.Unlock()
	a.client = c
}

// Init builds the layout and the users view.
func (a *App) Init() error {
	if a.store == nil {
		return errors.New("no user store")
	}
	a.Application.EnableMouse(a.cfg.Deck.UI.EnableMouse)

	a.command = NewCommand(a)
	if err := a.command.Init(); err != nil {
		return fmt.Errorf("failed to initialize command: %w", err)
	}
	a.cmdBar.SetCommands(a.command.Names())

	a.users = NewUsersView(a, a.store)
	if err := a.users.Init(a.ctx); err != nil {
		return fmt.Errorf("failed to initialize users view: %w", err)
	}

	a.Main.AddPage("main", a.buildLayout(), true, true)
	a.SetRoot(a.Main, true)
	a.updateHeader(a.store.Snapshot())

	return nil
}

// Run starts the application.
func (a *App) Run() error {
	a.mx.Lock()
	a.running = true
	a.mx.Unlock()

	a.Content.Push(a.users)
	a.SetFocus(a.users)
	a.users.Start()

	return a.Application.Run()
}

// Stop stops the application.
func (a *App) Stop() {
	a.mx.Lock()
	defer a.mx.Unlock()

	a.running = false
	a.cancel()
	a.Application.Stop()
}

// IsRunning returns whether the application is currently running.
func (a *App) IsRunning() bool {
	a.mx.RLock()
	defer a.mx.RUnlock()

	return a.running
}

// Flash returns the flash message handler.
func (a *App) Flash() *Flash {
	return a.flash
}

// Users returns the users view.
func (a *App) Users() *UsersView {
	return a.users
}

// Context returns the application lifetime context.
func (a *App) Context() context.Context {
	return a.ctx
}

// QueueUpdateDraw queues a function to be executed on the UI thread.
func (a *App) QueueUpdateDraw(fn func()) {
	go a.Application.QueueUpdateDraw(fn)
}

// SwitchEndpoint points the client at the named endpoint profile. Every
// cached page belongs to the previous endpoint and is dropped.
func (a *App) SwitchEndpoint(name string) error {
	ep, err := a.cfg.Profiles().Get(name)
	if err != nil {
		return err
	}

	a.mx.RLock()
	client := a.client
	a.mx.RUnlock()
	if client == nil {
		return errors.New("no api client")
	}
	if err := client.SwitchURL(ep.URL); err != nil {
		return fmt.Errorf("failed to switch endpoint: %w", err)
	}
	a.log.Info().Str("endpoint", ep.Name).Str("url", ep.URL).Msg("endpoint switched")
	a.store.InvalidateAll()
	a.store.SetPage(1)

	return nil
}

// Endpoint returns the current API url.
func (a *App) Endpoint() string {
	a.mx.RLock()
	defer a.mx.RUnlock()
	if a.client != nil {
		return a.client.URL()
	}
	return a.cfg.Deck.API.URL
}

// inject initializes a component, pushes it on the content stack and
// starts it.
func (a *App) inject(c ui.Component) {
	if err := c.Init(a.ctx); err != nil {
		a.flash.Err(err)
		return
	}
	a.Content.Push(c)
	a.SetFocus(c)
	c.Start()
}

// back pops the top component unless it is the users list.
func (a *App) back() {
	if a.Content.Len() <= 1 {
		return
	}
	a.Content.Pop()
	a.focusTop()
}

func (a *App) focusTop() {
	if top := a.Content.Top(); top != nil {
		a.SetFocus(top)
	}
}

func (a *App) updateHeader(snap model.Snapshot) {
	stats := a.store.CacheStats()
	mode := ""
	if a.store.IsReadOnly() {
		mode = " [red::b]RO[-::-]"
	}
	a.header.Clear()
	_, _ = fmt.Fprintf(a.header,
		"[orange::b]userdeck[-::-] [gray::]%s[-::] [aqua::]%s[-::] [white::]%s[-::] [gray::]cache %d pages, %d hits, %d misses[-::]%s",
		a.version,
		tview.Escape(a.Endpoint()),
		snap.Status,
		stats.Entries, stats.Hits, stats.Misses,
		mode,
	)
}

func (a *App) buildLayout() *tview.Flex {
	top := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(a.header, 0, 1, false)

	bottomBar := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.crumbs, 1, 0, false).
		AddItem(a.flash, 1, 0, false).
		AddItem(a.menu, ui.MenuRows, 0, false)

	return tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(top, 1, 0, false).
		AddItem(a.cmdBar, 3, 0, false).
		AddItem(a.Content, 0, 1, true).
		AddItem(bottomBar, 2+ui.MenuRows, 0, false)
}

// keyboard handles global keyboard events.
func (a *App) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	if a.cmdBar.IsActive() || a.Content.IsTopDialog() {
		return evt
	}
	if c, ok := a.Content.Top().(inputCapturer); ok && c.CapturesInput() {
		if evt.Key() == tcell.KeyCtrlC {
			a.Stop()
			return nil
		}
		return evt
	}

	switch ui.AsKey(evt) {
	case ui.KeyColon:
		a.cmdBar.Activate(ui.ModeCommand)
		return nil
	case ui.KeySlash:
		if a.Content.Top() == ui.Component(a.users) {
			a.cmdBar.Activate(ui.ModeFilter)
		}
		return nil
	case ui.KeyHelp:
		a.showHelp()
		return nil
	case ui.KeyQ:
		if a.Content.Len() > 1 {
			a.back()
			return nil
		}
		a.Stop()
		return nil
	case tcell.KeyCtrlC:
		a.Stop()
		return nil
	case tcell.KeyCtrlR:
		a.users.Refresh()
		return nil
	case tcell.KeyEsc:
		if a.cmdBar.FilterText() != "" {
			a.cmdBar.ClearFilter()
			return nil
		}
		a.back()
		return nil
	}
	if cmd, ok := a.command.HotKey(evt); ok {
		if err := a.command.Run(cmd); err != nil {
			a.flash.Err(err)
		}
		return nil
	}

	return evt
}

func (a *App) applyFilter(text string) {
	if a.users != nil {
		a.users.SetFilter(text)
	}
}

func (a *App) showHelp() {
	if _, ok := a.Content.Top().(*Help); ok {
		a.back()
		return
	}
	h := NewHelp()
	h.SetCloseFn(a.back)
	a.inject(h)
}
