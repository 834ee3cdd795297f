// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of userdeck

package ui

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

const (
	menuIndexFmt  = " [yellow::b]<%d>[white::-] %s "
	menuPlainFmt  = " [yellow::b]<%s>[white::-] %s "
	menuDangerFmt = " [red::b]<%s>[white::-] %s "

	// MenuRows is the number of hint rows per column.
	MenuRows = 2
)

// Menu presents the key hints of the top component.
type Menu struct {
	*tview.Table

	danger map[string]struct{}
}

// NewMenu returns a new menu.
func NewMenu() *Menu {
	m := Menu{
		Table:  tview.NewTable(),
		danger: make(map[string]struct{}),
	}
	m.SetBackgroundColor(tcell.ColorDefault)
	m.SetBorderPadding(0, 0, 1, 1)

	return &m
}

// MarkDangerous highlights the given mnemonics.
func (m *Menu) MarkDangerous(mnemonics ...string) {
	for _, k := range mnemonics {
		m.danger[k] = struct{}{}
	}
}

// HydrateMenu populates the menu from hints, column first.
func (m *Menu) HydrateMenu(hh MenuHints) {
	m.Clear()
	sort.Sort(hh)

	var row, col int
	for _, h := range hh {
		if !h.Visible || h.IsBlank() {
			continue
		}
		c := tview.NewTableCell(m.formatMenu(h))
		c.SetBackgroundColor(tcell.ColorDefault)
		m.SetCell(row, col, c)
		row++
		if row >= MenuRows {
			row, col = 0, col+1
		}
	}
}

func (m *Menu) formatMenu(h MenuHint) string {
	if h.Mnemonic == "" || h.Description == "" {
		return ""
	}
	if i, err := strconv.Atoi(h.Mnemonic); err == nil {
		return fmt.Sprintf(menuIndexFmt, i, h.Description)
	}
	if _, ok := m.danger[h.Mnemonic]; ok {
		return fmt.Sprintf(menuDangerFmt, h.Mnemonic, h.Description)
	}

	return fmt.Sprintf(menuPlainFmt, h.Mnemonic, h.Description)
}

// StackPushed notifies a component was added.
func (m *Menu) StackPushed(c Component) {
	m.HydrateMenu(c.Hints())
}

// StackPopped notifies a component was removed.
func (m *Menu) StackPopped(_, top Component) {
	if top == nil {
		m.Clear()
		return
	}
	m.HydrateMenu(top.Hints())
}

// StackTop notifies the top component.
func (m *Menu) StackTop(t Component) {
	m.HydrateMenu(t.Hints())
}
