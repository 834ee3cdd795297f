package ui

import (
	"testing"

	"github.com/derailed/tcell/v2"
	"github.com/stretchr/testify/assert"
)

func TestAsKey(t *testing.T) {
	assert.Equal(t, KeyA, AsKey(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone)))
	assert.Equal(t, KeyShiftG, AsKey(tcell.NewEventKey(tcell.KeyRune, 'G', tcell.ModNone)))
	assert.Equal(t, KeyLeftBracket, AsKey(tcell.NewEventKey(tcell.KeyRune, '[', tcell.ModNone)))
	assert.Equal(t, tcell.KeyEnter, AsKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)))
}

func TestKeyActionsFilter(t *testing.T) {
	aa := NewKeyActionsFromMap(KeyMap{
		KeyA: NewKeyAction("Add", nil, true),
		KeyD: NewDangerousKeyAction("Delete", nil, true),
		KeyE: NewDangerousKeyAction("Edit", nil, true),
	})
	assert.Equal(t, 3, aa.Len())

	aa.Filter()
	assert.Equal(t, 1, aa.Len())
	_, ok := aa.Get(KeyD)
	assert.False(t, ok)
	_, ok = aa.Get(KeyA)
	assert.True(t, ok)
}

func TestKeyActionsHints(t *testing.T) {
	aa := NewKeyActions()
	aa.Add(KeyS, NewKeyAction("Sort", nil, true))
	aa.Add(KeyA, NewKeyAction("Add", nil, true))
	aa.Add(tcell.KeyCtrlR, NewKeyAction("Refresh", nil, true))
	aa.Add(KeyHelp, NewSharedKeyAction("Help", nil, false))

	hh := aa.Hints()
	assert.Equal(t, MenuHints{
		{Mnemonic: "Ctrl-R", Description: "Refresh", Visible: true},
		{Mnemonic: "a", Description: "Add", Visible: true},
		{Mnemonic: "s", Description: "Sort", Visible: true},
	}, hh)

	aa.Delete(KeyS, KeyA)
	assert.Equal(t, 2, aa.Len())
	aa.Clear()
	assert.Equal(t, 0, aa.Len())
}

func TestKeyName(t *testing.T) {
	uu := map[string]struct {
		k tcell.Key
		e string
	}{
		"rune":  {k: KeyZ, e: "z"},
		"shift": {k: KeyShiftA, e: "A"},
		"space": {k: KeySpace, e: "space"},
		"named": {k: tcell.KeyEnter, e: "Enter"},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			n, ok := KeyName(u.k)
			assert.True(t, ok)
			assert.Equal(t, u.e, n)
		})
	}
}
