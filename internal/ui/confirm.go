// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of userdeck

package ui

import (
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

const (
	confirmPage = "confirm"
	confirmYes  = "Yes"
	confirmNo   = "No"
)

// Confirm represents a yes/no modal.
type Confirm struct {
	*tview.Modal

	pages     *Pages
	onConfirm func()
	onCancel  func()
}

// NewConfirm creates a new confirmation dialog.
func NewConfirm(pages *Pages, msg string) *Confirm {
	c := Confirm{
		Modal: tview.NewModal(),
		pages: pages,
	}
	c.SetText(msg)
	c.SetBackgroundColor(tcell.ColorDefault)
	c.AddButtons([]string{confirmYes, confirmNo})
	c.SetDoneFunc(c.done)
	c.SetInputCapture(c.keyboard)
	c.dangerous(false)

	return &c
}

// SetDangerous styles the dialog for destructive commands.
func (c *Confirm) SetDangerous(b bool) *Confirm {
	c.dangerous(b)
	return c
}

// SetOnConfirm sets the callback for when user confirms.
func (c *Confirm) SetOnConfirm(fn func()) *Confirm {
	c.onConfirm = fn
	return c
}

// SetOnCancel sets the callback for when user cancels.
func (c *Confirm) SetOnCancel(fn func()) *Confirm {
	c.onCancel = fn
	return c
}

// Show displays the dialog on top of the current page.
func (c *Confirm) Show() {
	if c.pages != nil {
		c.pages.AddPage(confirmPage, c, false, true)
	}
}

// Dismiss removes the dialog.
func (c *Confirm) Dismiss() {
	if c.pages != nil {
		c.pages.RemovePage(confirmPage)
	}
}

func (c *Confirm) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	switch AsKey(evt) {
	case KeyY:
		c.done(0, confirmYes)
		return nil
	case KeyN, tcell.KeyEsc:
		c.done(1, confirmNo)
		return nil
	}
	return evt
}

func (c *Confirm) done(_ int, label string) {
	c.Dismiss()
	if label == confirmYes {
		if c.onConfirm != nil {
			c.onConfirm()
		}
		return
	}
	if c.onCancel != nil {
		c.onCancel()
	}
}

func (c *Confirm) dangerous(b bool) {
	if b {
		c.SetTextColor(tcell.ColorRed)
		c.SetButtonBackgroundColor(tcell.ColorRed)
		c.SetButtonTextColor(tcell.ColorWhite)
		return
	}
	c.SetTextColor(tcell.ColorWhite)
	c.SetButtonBackgroundColor(tcell.ColorBlue)
	c.SetButtonTextColor(tcell.ColorWhite)
}
