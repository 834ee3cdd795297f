// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of userdeck

package ui

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"github.com/fvbommel/sortorder"
)

// BarMode represents the current input mode.
type BarMode int

const (
	// ModeNormal is the default navigation mode.
	ModeNormal BarMode = iota
	// ModeCommand is for entering commands (: prefix).
	ModeCommand
	// ModeFilter is for filtering the current page (/ prefix).
	ModeFilter
)

const (
	iconNormal  = "👤"
	iconCommand = "👤"
	iconFilter  = "🔍"
)

// CmdBar is a bordered command and filter input bar with ghost text
// completion.
type CmdBar struct {
	*tview.TextView

	mode              BarMode
	cmdFn             func(string)
	filterFn          func(string)
	cancelFn          func()
	activeFn          func(bool)
	isActive          bool
	filterText        string
	text              []rune
	suggestions       []string
	suggestionIdx     int
	currentSuggestion string
	commands          []string
	mx                sync.RWMutex
}

// NewCmdBar creates a new command bar.
func NewCmdBar() *CmdBar {
	c := CmdBar{
		TextView:      tview.NewTextView(),
		mode:          ModeNormal,
		suggestionIdx: -1,
	}

	c.SetBorder(true)
	c.SetBorderColor(tcell.ColorDarkCyan)
	c.SetBackgroundColor(tcell.ColorDefault)
	c.SetTextColor(tcell.ColorWhite)
	c.SetDynamicColors(true)
	c.SetWrap(false)
	c.SetInputCapture(c.keyboard)
	c.render()

	return &c
}

func (c *CmdBar) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	if !c.IsActive() {
		return evt
	}

	switch evt.Key() {
	case tcell.KeyBackspace, tcell.KeyBackspace2, tcell.KeyDelete:
		c.mx.Lock()
		if len(c.text) > 0 {
			c.text = c.text[:len(c.text)-1]
		}
		c.mx.Unlock()
		c.changed()
		return nil

	case tcell.KeyEnter:
		c.execute()
		return nil

	case tcell.KeyEsc:
		c.cancel()
		return nil

	case tcell.KeyTab, tcell.KeyRight:
		c.mx.Lock()
		if c.currentSuggestion != "" {
			c.text = []rune(c.currentSuggestion)
		}
		c.mx.Unlock()
		c.clearSuggestions()
		c.render()
		return nil

	case tcell.KeyUp:
		c.cycle(-1)
		return nil

	case tcell.KeyDown:
		c.cycle(1)
		return nil

	case tcell.KeyCtrlU, tcell.KeyCtrlW:
		c.mx.Lock()
		c.text = c.text[:0]
		c.mx.Unlock()
		c.changed()
		return nil

	case tcell.KeyRune:
		c.mx.Lock()
		c.text = append(c.text, evt.Rune())
		c.mx.Unlock()
		c.changed()
		return nil
	}

	return evt
}

func (c *CmdBar) changed() {
	c.updateSuggestions()
	c.render()
	if c.Mode() == ModeFilter && c.filterFn != nil {
		c.filterFn(c.GetText())
	}
}

func (c *CmdBar) cycle(delta int) {
	c.mx.Lock()
	if n := len(c.suggestions); n > 0 {
		c.suggestionIdx = (c.suggestionIdx + delta + n) % n
		c.currentSuggestion = c.suggestions[c.suggestionIdx]
	}
	c.mx.Unlock()
	c.render()
}

func (c *CmdBar) render() {
	c.mx.RLock()
	text := string(c.text)
	suggestion := c.currentSuggestion
	mode := c.mode
	c.mx.RUnlock()

	c.Clear()
	var icon, prefix string
	switch mode {
	case ModeCommand:
		icon, prefix = iconCommand, ":"
	case ModeFilter:
		icon, prefix = iconFilter, "/"
	default:
		icon, prefix = iconNormal, ">"
	}

	if strings.HasPrefix(suggestion, text) && len(suggestion) > len(text) {
		_, _ = fmt.Fprintf(c.TextView, "%s%s [::b]%s[gray::]%s[-::]", icon, prefix, tview.Escape(text), suggestion[len(text):])
		return
	}
	_, _ = fmt.Fprintf(c.TextView, "%s%s [::b]%s", icon, prefix, tview.Escape(text))
}

// Suggest returns the known commands completing text.
func (c *CmdBar) Suggest(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ToLower(text)

	c.mx.RLock()
	defer c.mx.RUnlock()
	var matches []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, text) && cmd != text {
			matches = append(matches, cmd)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return sortorder.NaturalLess(matches[i], matches[j])
	})

	return matches
}

func (c *CmdBar) updateSuggestions() {
	if c.Mode() != ModeCommand {
		c.clearSuggestions()
		return
	}
	ss := c.Suggest(c.GetText())

	c.mx.Lock()
	defer c.mx.Unlock()
	c.suggestions, c.suggestionIdx, c.currentSuggestion = ss, -1, ""
	if len(ss) > 0 {
		c.suggestionIdx, c.currentSuggestion = 0, ss[0]
	}
}

func (c *CmdBar) clearSuggestions() {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.suggestions = nil
	c.suggestionIdx = -1
	c.currentSuggestion = ""
}

// SetCommands sets the full list of available commands.
func (c *CmdBar) SetCommands(cmds []string) {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.commands = append([]string(nil), cmds...)
	sort.Slice(c.commands, func(i, j int) bool {
		return sortorder.NaturalLess(c.commands[i], c.commands[j])
	})
}

// GetText returns the current input text.
func (c *CmdBar) GetText() string {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return string(c.text)
}

// SetText sets the input text.
func (c *CmdBar) SetText(s string) {
	c.mx.Lock()
	c.text = []rune(s)
	c.mx.Unlock()
	c.render()
}

// Activate enters command or filter mode.
func (c *CmdBar) Activate(mode BarMode) {
	c.mx.Lock()
	c.mode, c.isActive = mode, true
	c.text = c.text[:0]
	c.mx.Unlock()
	c.clearSuggestions()
	c.render()

	if c.activeFn != nil {
		c.activeFn(true)
	}
}

// Deactivate exits input mode and returns to normal.
func (c *CmdBar) Deactivate() {
	c.mx.Lock()
	c.mode, c.isActive = ModeNormal, false
	c.text = c.text[:0]
	c.mx.Unlock()
	c.clearSuggestions()
	c.render()

	if c.activeFn != nil {
		c.activeFn(false)
	}
}

func (c *CmdBar) execute() {
	text := strings.TrimSpace(c.GetText())
	switch c.Mode() {
	case ModeCommand:
		c.Deactivate()
		if c.cmdFn != nil && text != "" {
			c.cmdFn(text)
		}
		return
	case ModeFilter:
		c.mx.Lock()
		c.filterText = text
		c.mx.Unlock()
	}
	c.Deactivate()
}

func (c *CmdBar) cancel() {
	if c.Mode() == ModeFilter {
		c.mx.Lock()
		c.filterText = ""
		c.mx.Unlock()
		if c.cancelFn != nil {
			c.cancelFn()
		}
	}
	c.Deactivate()
}

// IsActive returns whether the command bar is accepting input.
func (c *CmdBar) IsActive() bool {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.isActive
}

// Mode returns the current mode.
func (c *CmdBar) Mode() BarMode {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.mode
}

// SetCommandFn sets the callback for command execution.
func (c *CmdBar) SetCommandFn(fn func(string)) {
	c.cmdFn = fn
}

// SetFilterFn sets the callback for filter text changes.
func (c *CmdBar) SetFilterFn(fn func(string)) {
	c.filterFn = fn
}

// SetCancelFn sets the callback for when filter is cancelled.
func (c *CmdBar) SetCancelFn(fn func()) {
	c.cancelFn = fn
}

// SetActiveFn sets the callback for when active state changes.
func (c *CmdBar) SetActiveFn(fn func(bool)) {
	c.activeFn = fn
}

// FilterText returns the last confirmed filter.
func (c *CmdBar) FilterText() string {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.filterText
}

// ClearFilter resets the confirmed filter.
func (c *CmdBar) ClearFilter() {
	c.mx.Lock()
	c.filterText = ""
	c.mx.Unlock()
	if c.filterFn != nil {
		c.filterFn("")
	}
}
