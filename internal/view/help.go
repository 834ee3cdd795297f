// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of userdeck

package view

import (
	"context"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"

	"github.com/userdeck/userdeck/internal/ui"
)

// HelpBind represents a single keybinding.
type HelpBind struct {
	Key  string
	Desc string
}

var helpSections = []struct {
	title string
	binds []HelpBind
}{
	{"LIST", []HelpBind{
		{"<]>", "Next Page"},
		{"<[>", "Prev Page"},
		{"<l>", "Page Size"},
		{"<s>", "Sort Field"},
		{"<o>", "Sort Order"},
		{"<r>", "Refresh"},
		{"<C-r>", "Retry"},
	}},
	{"GENERAL", []HelpBind{
		{"<:>", "Command"},
		{"</>", "Filter"},
		{"<?>", "Help"},
		{"<esc>", "Back"},
		{"<q>", "Quit"},
	}},
	{"NAVIGATION", []HelpBind{
		{"<j>", "Down"},
		{"<k>", "Up"},
		{"<h/←>", "Left"},
		{"<→>", "Right"},
		{"<g>", "Top"},
		{"<G>", "Bottom"},
		{"<enter>", "Describe"},
	}},
	{"RECORDS", []HelpBind{
		{"<v>", "View"},
		{"<a>", "Add"},
		{"<e>", "Edit"},
		{"<E>", "Edit JSON"},
		{"<d>", "Delete"},
		{"<C-s>", "Save"},
	}},
}

// Help displays the keybindings.
type Help struct {
	*tview.Table
	closeFn func()
}

// NewHelp creates a new help view.
func NewHelp() *Help {
	h := &Help{
		Table: tview.NewTable(),
	}
	h.build()
	return h
}

// Init initializes the view.
func (*Help) Init(context.Context) error {
	return nil
}

// Start starts the view.
func (*Help) Start() {}

// Stop stops the view.
func (*Help) Stop() {}

// Name returns the view name.
func (*Help) Name() string {
	return "help"
}

// Hints returns the menu hints.
func (*Help) Hints() ui.MenuHints {
	return ui.MenuHints{
		{Mnemonic: "esc", Description: "Close", Visible: true},
	}
}

// SetCloseFn sets the callback when help is closed.
func (h *Help) SetCloseFn(fn func()) {
	h.closeFn = fn
}

func (h *Help) build() {
	h.SetBorder(true)
	h.SetTitle(" Help ")
	h.SetTitleAlign(tview.AlignCenter)
	h.SetBorderColor(tcell.ColorYellow)
	h.SetBackgroundColor(tcell.ColorDefault)
	h.SetSelectable(false, false)

	h.populate()

	h.SetInputCapture(func(evt *tcell.EventKey) *tcell.EventKey {
		switch ui.AsKey(evt) {
		case tcell.KeyEsc, tcell.KeyEnter, ui.KeyHelp, ui.KeyQ:
			if h.closeFn != nil {
				h.closeFn()
			}
			return nil
		}
		return evt
	})
}

// populate lays each section out as a key and description column pair.
func (h *Help) populate() {
	maxRows := 0
	for _, s := range helpSections {
		if len(s.binds) > maxRows {
			maxRows = len(s.binds)
		}
	}

	const colWidth = 3
	for i, s := range helpSections {
		base := i * colWidth
		h.SetCell(0, base, tview.NewTableCell(s.title).
			SetTextColor(tcell.ColorAqua).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false))

		for r, b := range s.binds {
			h.SetCell(r+1, base, tview.NewTableCell(b.Key).
				SetTextColor(tcell.ColorYellow).
				SetSelectable(false))
			h.SetCell(r+1, base+1, tview.NewTableCell(b.Desc).
				SetTextColor(tcell.ColorWhite).
				SetSelectable(false).
				SetExpansion(1))
		}

		if i < len(helpSections)-1 {
			for row := 0; row <= maxRows; row++ {
				h.SetCell(row, base+2, tview.NewTableCell("").
					SetSelectable(false).
					SetExpansion(1))
			}
		}
	}

	h.SetCell(maxRows+2, 0, tview.NewTableCell("<esc> to close").
		SetTextColor(tcell.ColorGray).
		SetSelectable(false))
}
