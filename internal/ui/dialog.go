// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of userdeck

package ui

import (
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

const dialogPage = "dialog"

// Dialog is a single button message modal.
type Dialog struct {
	*tview.Modal

	pages  *Pages
	onDone func()
}

func newDialog(pages *Pages, msg string, text, bg, fg tcell.Color) *Dialog {
	d := Dialog{
		Modal: tview.NewModal(),
		pages: pages,
	}
	d.SetText(msg)
	d.SetBackgroundColor(tcell.ColorDefault)
	d.SetTextColor(text)
	d.SetButtonBackgroundColor(bg)
	d.SetButtonTextColor(fg)
	d.AddButtons([]string{"OK"})
	d.SetDoneFunc(func(int, string) {
		d.Dismiss()
	})

	return &d
}

// ErrorDialog returns a dialog styled for errors.
func ErrorDialog(pages *Pages, msg string) *Dialog {
	return newDialog(pages, msg, tcell.ColorRed, tcell.ColorRed, tcell.ColorWhite)
}

// SetDoneFn sets the callback for when the dialog closes.
func (d *Dialog) SetDoneFn(fn func()) *Dialog {
	d.onDone = fn
	return d
}

// Show displays the dialog as a modal overlay.
func (d *Dialog) Show() {
	if d.pages != nil {
		d.pages.AddPage(dialogPage, d, false, true)
	}
}

// Dismiss removes the dialog from display.
func (d *Dialog) Dismiss() {
	if d.pages != nil {
		d.pages.RemovePage(dialogPage)
	}
	if d.onDone != nil {
		d.onDone()
	}
}
