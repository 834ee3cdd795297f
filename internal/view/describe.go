// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of userdeck

package view

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"gopkg.in/yaml.v3"

	"github.com/userdeck/userdeck/internal/dao"
	"github.com/userdeck/userdeck/internal/render"
	"github.com/userdeck/userdeck/internal/ui"
)

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

var hexColorRX = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Describe displays every field of a user.
type Describe struct {
	*tview.TextView

	user    dao.User
	format  string
	actions *ui.KeyActions
	backFn  func()
	editFn  func(dao.User)
	wrapOn  bool
}

// NewDescribe creates a new user detail view.
func NewDescribe(u dao.User) *Describe {
	d := &Describe{
		TextView: tview.NewTextView(),
		user:     u,
		format:   formatYAML,
		actions:  ui.NewKeyActions(),
	}

	d.SetDynamicColors(true)
	d.SetWrap(false)
	d.SetWordWrap(false)
	d.SetScrollable(true)
	d.SetBorder(true)
	d.SetBorderPadding(0, 0, 1, 1)
	d.SetBorderColor(tcell.ColorAqua)
	d.SetBackgroundColor(tcell.ColorDefault)

	return d
}

// Init initializes the describe view.
func (d *Describe) Init(context.Context) error {
	d.bindKeys()
	d.SetInputCapture(d.keyboard)
	return nil
}

// Start renders the user.
func (d *Describe) Start() {
	d.Refresh()
}

// Stop stops the describe view.
func (*Describe) Stop() {}

// Name returns the view name.
func (*Describe) Name() string {
	return "describe"
}

// Hints returns menu hints.
func (d *Describe) Hints() ui.MenuHints {
	return d.actions.Hints()
}

// SetBackFn sets the function called to go back.
func (d *Describe) SetBackFn(fn func()) {
	d.backFn = fn
}

// SetEditFn sets the function called to edit the user.
func (d *Describe) SetEditFn(fn func(dao.User)) {
	d.editFn = fn
}

// Refresh redraws the content.
func (d *Describe) Refresh() {
	d.Clear()
	d.SetText(d.generateContent())
	d.updateTitle()
	d.ScrollToBeginning()
}

func (d *Describe) bindKeys() {
	d.actions.Clear()
	d.actions.Bulk(ui.KeyMap{
		ui.KeyY:        ui.NewKeyAction("YAML", d.formatCmd(formatYAML), true),
		ui.KeyShiftJ:   ui.NewKeyAction("JSON", d.formatCmd(formatJSON), true),
		ui.KeyW:        ui.NewKeyAction("Wrap", d.toggleWrap, true),
		tcell.KeyEsc:   ui.NewKeyAction("Back", d.backCmd, true),
		tcell.KeyEnter: ui.NewSharedKeyAction("Back", d.backCmd, false),
	})
	if d.editFn != nil {
		d.actions.Add(ui.KeyE, ui.NewDangerousKeyAction("Edit", d.editCmd, true))
	}
}

func (d *Describe) toggleWrap(*tcell.EventKey) *tcell.EventKey {
	d.wrapOn = !d.wrapOn
	d.SetWrap(d.wrapOn)
	d.SetWordWrap(d.wrapOn)
	return nil
}

func (d *Describe) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	row, _ := d.GetScrollOffset()
	switch ui.AsKey(evt) {
	case tcell.KeyDown, ui.KeyJ:
		d.ScrollTo(row+1, 0)
		return nil
	case tcell.KeyUp, ui.KeyK:
		if row > 0 {
			d.ScrollTo(row-1, 0)
		}
		return nil
	case tcell.KeyHome, ui.KeyG:
		d.ScrollToBeginning()
		return nil
	case tcell.KeyEnd, ui.KeyShiftG:
		d.ScrollToEnd()
		return nil
	}

	if a, ok := d.actions.Get(ui.AsKey(evt)); ok {
		return a.Action(evt)
	}

	return evt
}

func (d *Describe) formatCmd(format string) ui.ActionHandler {
	return func(*tcell.EventKey) *tcell.EventKey {
		d.format = format
		d.Refresh()
		return nil
	}
}

func (d *Describe) backCmd(*tcell.EventKey) *tcell.EventKey {
	if d.backFn != nil {
		d.backFn()
	}
	return nil
}

func (d *Describe) editCmd(*tcell.EventKey) *tcell.EventKey {
	if d.editFn != nil {
		d.editFn(d.user)
	}
	return nil
}

func (d *Describe) updateTitle() {
	d.SetTitle(fmt.Sprintf(" %s [gray::]#%s[-::] [%s] ", tview.Escape(render.Missing(d.user.Name)), d.user.ID, strings.ToUpper(d.format)))
}

func (d *Describe) generateContent() string {
	if d.format == formatJSON {
		return d.generateJSON()
	}
	return d.generateYAML()
}

// generateYAML renders the fields in natural key order.
func (d *Describe) generateYAML() string {
	doc := yaml.Node{Kind: yaml.MappingNode}
	for _, kv := range (render.User{}).Describe(d.user) {
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: kv[0]},
			&yaml.Node{Kind: yaml.ScalarNode, Value: kv[1]},
		)
	}

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Sprintf("[red::]# Error generating YAML: %v[-::]", err)
	}

	return highlightYAML(string(out))
}

func (d *Describe) generateJSON() string {
	out, err := json.MarshalIndent(d.user, "", "  ")
	if err != nil {
		return fmt.Sprintf("// Error generating JSON: %v", err)
	}

	return tview.Escape(string(out))
}

// highlightYAML colors keys and values of a flat YAML document.
func highlightYAML(content string) string {
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		idx := strings.Index(line, ":")
		if idx <= 0 {
			b.WriteString(tview.Escape(line) + "\n")
			continue
		}
		key, value := line[:idx+1], strings.TrimSpace(line[idx+1:])
		if value == "" {
			_, _ = fmt.Fprintf(&b, "[aqua::]%s[-::]\n", key)
			continue
		}
		_, _ = fmt.Fprintf(&b, "[aqua::]%s[-::] %s\n", key, colorizeValue(value))
	}

	return b.String()
}

// colorizeValue applies color based on value type.
func colorizeValue(value string) string {
	trimmed := strings.Trim(value, "\"'")
	escaped := tview.Escape(value)

	switch {
	case trimmed == render.MissingValue || trimmed == render.NAValue:
		return "[gray::]" + escaped + "[-::]"
	case hexColorRX.MatchString(trimmed):
		return "[" + trimmed + "::]" + escaped + "[-::]"
	case trimmed == "true":
		return "[green::]" + escaped + "[-::]"
	case trimmed == "false":
		return "[red::]" + escaped + "[-::]"
	}
	if _, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return "[fuchsia::]" + escaped + "[-::]"
	}

	return escaped
}
