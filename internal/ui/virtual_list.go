// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of userdeck

package ui

import (
	"sync"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"

	"github.com/userdeck/userdeck/internal/dao"
	"github.com/userdeck/userdeck/internal/render"
)

const cursorGlyph = '▌'

// VirtualList draws user cards in a grid and only renders the grid rows
// intersecting the viewport plus a small buffer.
type VirtualList struct {
	*tview.Box

	renderer   render.User
	viewport   *render.Viewport
	rowHeight  int
	buffer     int
	columns    int
	users      []dao.User
	cursor     int
	selected   string
	offset     int
	emptyText  string
	drawn      []int
	selectedFn func(dao.User)
	changedFn  func(dao.User)
	mx         sync.RWMutex
}

// NewVirtualList returns a list with rows of rowHeight lines and columns
// cards per row. fallback is the viewport height used until the list is
// laid out.
func NewVirtualList(rowHeight, fallback, buffer, columns int) *VirtualList {
	if rowHeight < 1 {
		rowHeight = render.CardLines
	}
	if columns < 1 {
		columns = render.DefaultColumns
	}
	if buffer < 0 {
		buffer = render.DefaultBufferRows
	}
	l := VirtualList{
		Box:       tview.NewBox(),
		viewport:  render.NewViewport(fallback),
		rowHeight: rowHeight,
		buffer:    buffer,
		columns:   columns,
	}
	l.SetBackgroundColor(tcell.ColorDefault)

	return &l
}

// SetEmptyText sets the text drawn when the list has no rows.
func (l *VirtualList) SetEmptyText(s string) {
	l.mx.Lock()
	defer l.mx.Unlock()
	l.emptyText = s
}

// EmptyText returns the text drawn when the list has no rows.
func (l *VirtualList) EmptyText() string {
	l.mx.RLock()
	defer l.mx.RUnlock()
	return l.emptyText
}

// SetSelectedFunc sets the callback fired when a card is activated.
func (l *VirtualList) SetSelectedFunc(fn func(dao.User)) {
	l.selectedFn = fn
}

// SetChangedFunc sets the callback fired when the cursor moves.
func (l *VirtualList) SetChangedFunc(fn func(dao.User)) {
	l.changedFn = fn
}

// SetUsers replaces the list content. The cursor follows the selected record
// key when it is still present.
func (l *VirtualList) SetUsers(uu []dao.User) {
	l.mx.Lock()
	defer l.mx.Unlock()

	l.users = uu
	cursor := -1
	if l.selected != "" {
		for i, u := range uu {
			if u.Key(i) == l.selected {
				cursor = i
				break
			}
		}
	}
	if cursor < 0 {
		cursor = l.clampCursor(l.cursor)
	}
	l.cursor = cursor
	l.selected = ""
	if len(uu) > 0 {
		l.selected = uu[cursor].Key(cursor)
	}
	l.offset = l.windowLocked().ClampOffset(l.rowsLocked(), l.offset)
}

// Len returns the number of records.
func (l *VirtualList) Len() int {
	l.mx.RLock()
	defer l.mx.RUnlock()
	return len(l.users)
}

// Rows returns the number of grid rows.
func (l *VirtualList) Rows() int {
	l.mx.RLock()
	defer l.mx.RUnlock()
	return l.rowsLocked()
}

// Offset returns the scroll offset in lines.
func (l *VirtualList) Offset() int {
	l.mx.RLock()
	defer l.mx.RUnlock()
	return l.offset
}

// Viewport returns the tracked viewport.
func (l *VirtualList) Viewport() *render.Viewport {
	return l.viewport
}

// VisibleRange returns the inclusive grid row range to render.
func (l *VirtualList) VisibleRange() (int, int, bool) {
	l.mx.RLock()
	defer l.mx.RUnlock()
	return l.windowLocked().Range(l.rowsLocked(), l.offset)
}

// DrawnRange returns the grid rows rendered by the last draw.
func (l *VirtualList) DrawnRange() (int, int, bool) {
	l.mx.RLock()
	defer l.mx.RUnlock()
	if len(l.drawn) != 2 {
		return 0, -1, false
	}
	return l.drawn[0], l.drawn[1], true
}

// Selected returns the record under the cursor.
func (l *VirtualList) Selected() (dao.User, bool) {
	l.mx.RLock()
	defer l.mx.RUnlock()
	if l.cursor < 0 || l.cursor >= len(l.users) {
		return dao.User{}, false
	}
	return l.users[l.cursor], true
}

// Select moves the cursor to the record with the given key.
func (l *VirtualList) Select(key string) bool {
	l.mx.Lock()
	idx := -1
	for i, u := range l.users {
		if u.Key(i) == key {
			idx = i
			break
		}
	}
	l.mx.Unlock()
	if idx < 0 {
		return false
	}
	l.setCursor(idx)

	return true
}

// ScrollBy scrolls the viewport by n lines without moving the cursor.
func (l *VirtualList) ScrollBy(n int) {
	l.mx.Lock()
	defer l.mx.Unlock()
	l.offset = l.windowLocked().ClampOffset(l.rowsLocked(), l.offset+n)
}

// MoveCursor moves the cursor by delta cards.
func (l *VirtualList) MoveCursor(delta int) {
	l.mx.RLock()
	c := l.cursor + delta
	l.mx.RUnlock()
	l.setCursor(c)
}

// PageDown moves the cursor one viewport down.
func (l *VirtualList) PageDown() {
	l.MoveCursor(l.pageCards())
}

// PageUp moves the cursor one viewport up.
func (l *VirtualList) PageUp() {
	l.MoveCursor(-l.pageCards())
}

// Home moves the cursor to the first card.
func (l *VirtualList) Home() {
	l.setCursor(0)
}

// End moves the cursor to the last card.
func (l *VirtualList) End() {
	l.setCursor(l.Len() - 1)
}

func (l *VirtualList) pageCards() int {
	rows := l.viewport.Height() / l.rowHeight
	if rows < 1 {
		rows = 1
	}
	return rows * l.columns
}

func (l *VirtualList) setCursor(c int) {
	l.mx.Lock()
	if len(l.users) == 0 {
		l.mx.Unlock()
		return
	}
	c = l.clampCursor(c)
	changed := c != l.cursor
	l.cursor, l.selected = c, l.users[c].Key(c)
	l.ensureVisibleLocked()
	u := l.users[c]
	l.mx.Unlock()

	if changed && l.changedFn != nil {
		l.changedFn(u)
	}
}

func (l *VirtualList) clampCursor(c int) int {
	if c >= len(l.users) {
		c = len(l.users) - 1
	}
	if c < 0 {
		c = 0
	}
	return c
}

func (l *VirtualList) ensureVisibleLocked() {
	w := l.windowLocked()
	top := w.RowOffset(l.cursor / l.columns)
	bottom := top + l.rowHeight
	switch {
	case top < l.offset:
		l.offset = top
	case bottom > l.offset+w.ViewportHeight:
		l.offset = bottom - w.ViewportHeight
	}
	l.offset = w.ClampOffset(l.rowsLocked(), l.offset)
}

func (l *VirtualList) rowsLocked() int {
	return (len(l.users) + l.columns - 1) / l.columns
}

func (l *VirtualList) windowLocked() render.Window {
	return render.NewWindow(l.rowHeight, l.viewport.Height(), l.buffer)
}

// Draw renders the visible cards.
func (l *VirtualList) Draw(screen tcell.Screen) {
	l.Box.Draw(screen)
	x, y, width, height := l.GetInnerRect()

	l.mx.Lock()
	defer l.mx.Unlock()
	if l.viewport.Measured(height) {
		l.offset = l.windowLocked().ClampOffset(l.rowsLocked(), l.offset)
	}
	l.drawn = nil
	if width <= 0 || height <= 0 {
		return
	}
	if len(l.users) == 0 {
		tview.Print(screen, l.emptyText, x, y+height/2, width, tview.AlignCenter, tcell.ColorGray)
		return
	}

	w := l.windowLocked()
	start, end, ok := w.Range(l.rowsLocked(), l.offset)
	if !ok {
		return
	}
	cardWidth := width / l.columns
	grid := render.Chunk(l.users[start*l.columns:min((end+1)*l.columns, len(l.users))], l.columns)
	for r := start; r-start < len(grid); r++ {
		top := y + w.RowOffset(r) - l.offset
		for c := range grid[r-start] {
			l.drawCard(screen, r*l.columns+c, x+c*cardWidth, top, cardWidth, y, y+height)
		}
	}
	l.drawn = []int{start, end}
}

func (l *VirtualList) drawCard(screen tcell.Screen, i, x, top, width, minY, maxY int) {
	color, focus := tcell.ColorWhite, i == l.cursor
	if focus {
		color = tcell.ColorAqua
	}
	for j, line := range l.renderer.Card(l.users[i]) {
		ly := top + j
		if ly < minY || ly >= maxY {
			continue
		}
		if focus {
			screen.SetContent(x, ly, cursorGlyph, nil, tcell.StyleDefault.Foreground(tcell.ColorAqua))
		}
		tview.Print(screen, line, x+2, ly, width-3, tview.AlignLeft, color)
	}
}

// InputHandler returns the handler for this primitive.
func (l *VirtualList) InputHandler() func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
	return l.WrapInputHandler(func(evt *tcell.EventKey, _ func(p tview.Primitive)) {
		switch AsKey(evt) {
		case tcell.KeyDown, KeyJ:
			l.MoveCursor(l.columns)
		case tcell.KeyUp, KeyK:
			l.MoveCursor(-l.columns)
		case tcell.KeyLeft, KeyH:
			l.MoveCursor(-1)
		case tcell.KeyRight:
			l.MoveCursor(1)
		case tcell.KeyPgDn, tcell.KeyCtrlF:
			l.PageDown()
		case tcell.KeyPgUp, tcell.KeyCtrlB:
			l.PageUp()
		case tcell.KeyHome, KeyG:
			l.Home()
		case tcell.KeyEnd, KeyShiftG:
			l.End()
		case tcell.KeyEnter:
			l.activate()
		}
	})
}

// MouseHandler returns the mouse handler for this primitive.
func (l *VirtualList) MouseHandler() func(action tview.MouseAction, event *tcell.EventMouse, setFocus func(p tview.Primitive)) (bool, tview.Primitive) {
	return l.WrapMouseHandler(func(action tview.MouseAction, event *tcell.EventMouse, setFocus func(p tview.Primitive)) (bool, tview.Primitive) {
		mx, my := event.Position()
		if !l.InRect(mx, my) {
			return false, nil
		}
		switch action {
		case tview.MouseScrollUp:
			l.ScrollBy(-l.rowHeight)
		case tview.MouseScrollDown:
			l.ScrollBy(l.rowHeight)
		case tview.MouseLeftClick:
			setFocus(l)
			l.clickAt(mx, my)
		case tview.MouseLeftDoubleClick:
			if l.clickAt(mx, my) {
				l.activate()
			}
		default:
			return false, nil
		}
		return true, nil
	})
}

func (l *VirtualList) clickAt(mx, my int) bool {
	x, y, width, _ := l.GetInnerRect()
	cardWidth := width / l.columns
	if cardWidth <= 0 || mx < x || my < y {
		return false
	}
	col := (mx - x) / cardWidth
	if col >= l.columns {
		return false
	}
	row := (my - y + l.Offset()) / l.rowHeight
	i := row*l.columns + col
	if i >= l.Len() {
		return false
	}
	l.setCursor(i)

	return true
}

func (l *VirtualList) activate() {
	if u, ok := l.Selected(); ok && l.selectedFn != nil {
		l.selectedFn(u)
	}
}
