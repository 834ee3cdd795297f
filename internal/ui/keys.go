// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of userdeck

package ui

import (
	"sort"
	"sync"

	"github.com/derailed/tcell/v2"
)

// Rune keys are mapped onto tcell.Key so they share the action table with
// named keys.
const (
	KeyA tcell.Key = iota + 97
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
)

const (
	KeyShiftA tcell.Key = iota + 65
	KeyShiftB
	KeyShiftC
	KeyShiftD
	KeyShiftE
	KeyShiftF
	KeyShiftG
	KeyShiftH
	KeyShiftI
	KeyShiftJ
	KeyShiftK
	KeyShiftL
	KeyShiftM
	KeyShiftN
	KeyShiftO
	KeyShiftP
	KeyShiftQ
	KeyShiftR
	KeyShiftS
	KeyShiftT
	KeyShiftU
	KeyShiftV
	KeyShiftW
	KeyShiftX
	KeyShiftY
	KeyShiftZ
)

const (
	KeySlash        tcell.Key = '/'
	KeyColon        tcell.Key = ':'
	KeyHelp         tcell.Key = '?'
	KeyLeftBracket  tcell.Key = '['
	KeyRightBracket tcell.Key = ']'
	KeySpace        tcell.Key = ' '
)

// AsKey maps a key event onto the action table key space.
func AsKey(evt *tcell.EventKey) tcell.Key {
	if evt.Key() != tcell.KeyRune {
		return evt.Key()
	}
	return tcell.Key(evt.Rune())
}

// ActionHandler handles a keyboard command.
type ActionHandler func(*tcell.EventKey) *tcell.EventKey

// ActionOpts tracks various action options.
type ActionOpts struct {
	Visible   bool
	Shared    bool
	Dangerous bool
}

// KeyAction represents a keyboard action.
type KeyAction struct {
	Description string
	Action      ActionHandler
	Opts        ActionOpts
}

// KeyMap tracks key to action mappings.
type KeyMap map[tcell.Key]KeyAction

// NewKeyAction returns a new keyboard action.
func NewKeyAction(d string, a ActionHandler, display bool) KeyAction {
	return NewKeyActionWithOpts(d, a, ActionOpts{Visible: display})
}

// NewSharedKeyAction returns a keyboard action that is hidden from the menu.
func NewSharedKeyAction(d string, a ActionHandler, display bool) KeyAction {
	return NewKeyActionWithOpts(d, a, ActionOpts{Visible: display, Shared: true})
}

// NewDangerousKeyAction returns a keyboard action for a destructive command.
func NewDangerousKeyAction(d string, a ActionHandler, display bool) KeyAction {
	return NewKeyActionWithOpts(d, a, ActionOpts{Visible: display, Dangerous: true})
}

// NewKeyActionWithOpts returns a new keyboard action.
func NewKeyActionWithOpts(d string, a ActionHandler, opts ActionOpts) KeyAction {
	return KeyAction{
		Description: d,
		Action:      a,
		Opts:        opts,
	}
}

// KeyActions tracks mappings between keystrokes and actions.
type KeyActions struct {
	actions KeyMap
	mx      sync.RWMutex
}

// NewKeyActions returns a new instance.
func NewKeyActions() *KeyActions {
	return &KeyActions{
		actions: make(KeyMap),
	}
}

// NewKeyActionsFromMap constructs actions from a key map.
func NewKeyActionsFromMap(mm KeyMap) *KeyActions {
	aa := NewKeyActions()
	aa.Bulk(mm)
	return aa
}

// Get fetches an action given a key.
func (a *KeyActions) Get(key tcell.Key) (KeyAction, bool) {
	a.mx.RLock()
	defer a.mx.RUnlock()

	v, ok := a.actions[key]
	return v, ok
}

// Len returns the number of registered actions.
func (a *KeyActions) Len() int {
	a.mx.RLock()
	defer a.mx.RUnlock()

	return len(a.actions)
}

// Clear removes all actions.
func (a *KeyActions) Clear() {
	a.mx.Lock()
	defer a.mx.Unlock()

	a.actions = make(KeyMap)
}

// Add adds a new key action.
func (a *KeyActions) Add(k tcell.Key, ka KeyAction) {
	a.mx.Lock()
	defer a.mx.Unlock()

	a.actions[k] = ka
}

// Bulk adds multiple actions, replacing existing keys.
func (a *KeyActions) Bulk(mm KeyMap) {
	a.mx.Lock()
	defer a.mx.Unlock()

	for k, v := range mm {
		a.actions[k] = v
	}
}

// Delete removes actions bound to the given keys.
func (a *KeyActions) Delete(kk ...tcell.Key) {
	a.mx.Lock()
	defer a.mx.Unlock()

	for _, k := range kk {
		delete(a.actions, k)
	}
}

// Filter removes the dangerous actions. It is applied in read-only mode.
func (a *KeyActions) Filter() {
	a.mx.Lock()
	defer a.mx.Unlock()

	for k, v := range a.actions {
		if v.Opts.Dangerous {
			delete(a.actions, k)
		}
	}
}

// Hints returns the menu hints of the visible, non shared actions.
func (a *KeyActions) Hints() MenuHints {
	a.mx.RLock()
	defer a.mx.RUnlock()

	kk := make([]int, 0, len(a.actions))
	for k, v := range a.actions {
		if !v.Opts.Shared {
			kk = append(kk, int(k))
		}
	}
	sort.Ints(kk)

	hh := make(MenuHints, 0, len(kk))
	for _, k := range kk {
		name, ok := KeyName(tcell.Key(k))
		if !ok {
			continue
		}
		act := a.actions[tcell.Key(k)]
		hh = append(hh, MenuHint{
			Mnemonic:    name,
			Description: act.Description,
			Visible:     act.Opts.Visible,
		})
	}

	return hh
}

// KeyName returns the display name of a key.
func KeyName(k tcell.Key) (string, bool) {
	if k > 32 && k < 127 {
		return string(rune(k)), true
	}
	if k == KeySpace {
		return "space", true
	}
	name, ok := tcell.KeyNames[k]
	return name, ok
}
