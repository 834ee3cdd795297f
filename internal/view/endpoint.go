// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of userdeck

package view

import (
	"context"
	"fmt"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"

	"github.com/userdeck/userdeck/internal/ui"
)

// EndpointSwitcher lists the configured API endpoints.
type EndpointSwitcher struct {
	*tview.Table

	app   *App
	names []string
}

// NewEndpointSwitcher creates a new endpoint switcher view.
func NewEndpointSwitcher(app *App) *EndpointSwitcher {
	e := &EndpointSwitcher{
		Table: tview.NewTable(),
		app:   app,
	}

	e.SetBorder(true)
	e.SetTitle(" Endpoints ")
	e.SetTitleAlign(tview.AlignCenter)
	e.SetBorderColor(tcell.ColorAqua)
	e.SetBackgroundColor(tcell.ColorDefault)
	e.SetSelectable(true, false)
	e.SetFixed(1, 0)

	return e
}

// Init initializes the switcher.
func (e *EndpointSwitcher) Init(context.Context) error {
	e.SetInputCapture(e.keyboard)
	return nil
}

// Start loads the endpoints.
func (e *EndpointSwitcher) Start() {
	e.load()
}

// Stop ends the view lifecycle.
func (*EndpointSwitcher) Stop() {}

// Name returns the view name.
func (*EndpointSwitcher) Name() string {
	return "endpoint"
}

// Hints returns menu hints.
func (*EndpointSwitcher) Hints() ui.MenuHints {
	return ui.MenuHints{
		{Mnemonic: "enter", Description: "Switch", Visible: true},
		{Mnemonic: "esc", Description: "Back", Visible: true},
	}
}

func (e *EndpointSwitcher) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	row, col := e.GetSelection()
	last := e.GetRowCount() - 1

	switch ui.AsKey(evt) {
	case tcell.KeyEnter:
		e.switchTo(row)
		return nil
	case tcell.KeyDown, ui.KeyJ:
		if row < last {
			e.Select(row+1, col)
		}
		return nil
	case tcell.KeyUp, ui.KeyK:
		if row > 1 {
			e.Select(row-1, col)
		}
		return nil
	case ui.KeyG:
		if last > 0 {
			e.Select(1, col)
		}
		return nil
	case ui.KeyShiftG:
		if last > 0 {
			e.Select(last, col)
		}
		return nil
	}

	return evt
}

func (e *EndpointSwitcher) load() {
	e.Clear()
	for col, h := range []string{"", "NAME", "URL", "TIMEOUT"} {
		e.SetCell(0, col, tview.NewTableCell(h).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false).
			SetExpansion(1))
	}

	profiles := e.app.cfg.Profiles()
	e.names = profiles.Names()
	current := e.app.Endpoint()
	for i, name := range e.names {
		ep, err := profiles.Get(name)
		if err != nil {
			continue
		}
		active := ep.URL == current
		indicator, color := "", tcell.ColorWhite
		if active {
			indicator, color = "●", tcell.ColorGreen
		}
		timeout := ep.Timeout
		if timeout == "" {
			timeout = "(default)"
		}

		row := i + 1
		e.SetCell(row, 0, tview.NewTableCell(indicator).
			SetTextColor(tcell.ColorGreen).
			SetAlign(tview.AlignCenter))
		e.SetCell(row, 1, tview.NewTableCell(name).
			SetTextColor(color).
			SetExpansion(1).
			SetReference(name))
		e.SetCell(row, 2, tview.NewTableCell(ep.URL).
			SetTextColor(color).
			SetExpansion(2))
		e.SetCell(row, 3, tview.NewTableCell(timeout).
			SetTextColor(tcell.ColorGray).
			SetExpansion(1))
	}

	e.SetTitle(fmt.Sprintf(" Endpoints [%d] ", len(e.names)))
	if e.GetRowCount() > 1 {
		e.Select(1, 0)
	}
}

func (e *EndpointSwitcher) switchTo(row int) {
	if row < 1 || row > len(e.names) {
		return
	}
	name := e.names[row-1]
	if err := e.app.SwitchEndpoint(name); err != nil {
		e.app.Flash().Errf("Failed to switch endpoint: %v", err)
		return
	}
	e.app.Flash().Infof("Switched to endpoint: %s", name)
	e.app.back()
}
