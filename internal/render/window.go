// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of userdeck

package render

import "sync"

// DefaultBufferRows is the number of rows drawn past the visible edge.
const DefaultBufferRows = 2

// Window computes which rows of a fixed row height list intersect a viewport.
type Window struct {
	RowHeight      int
	ViewportHeight int
	Buffer         int
}

// NewWindow returns a window. A non positive row height is coerced to 1.
func NewWindow(rowHeight, viewportHeight, buffer int) Window {
	if rowHeight < 1 {
		rowHeight = 1
	}
	if viewportHeight < 0 {
		viewportHeight = 0
	}
	if buffer < 0 {
		buffer = 0
	}
	return Window{RowHeight: rowHeight, ViewportHeight: viewportHeight, Buffer: buffer}
}

// VisibleCount returns ceil(viewport/rowHeight).
func (w Window) VisibleCount() int {
	if w.ViewportHeight <= 0 {
		return 0
	}
	return (w.ViewportHeight + w.rowHeight() - 1) / w.rowHeight()
}

// Range returns the inclusive index range of rows to draw for n rows
// scrolled by offset. ok is false when there is nothing to draw.
func (w Window) Range(n, offset int) (start, end int, ok bool) {
	if n <= 0 {
		return 0, -1, false
	}
	if offset < 0 {
		offset = 0
	}
	start = offset / w.rowHeight()
	if start > n-1 {
		start = n - 1
	}
	end = start + w.VisibleCount() + w.Buffer
	if end > n-1 {
		end = n - 1
	}

	return start, end, true
}

// TotalHeight returns the scrollable height of n rows.
func (w Window) TotalHeight(n int) int {
	if n <= 0 {
		return 0
	}
	return n * w.rowHeight()
}

// RowOffset returns the vertical offset of row i.
func (w Window) RowOffset(i int) int {
	return i * w.rowHeight()
}

// MaxOffset returns the largest useful scroll offset for n rows.
func (w Window) MaxOffset(n int) int {
	m := w.TotalHeight(n) - w.ViewportHeight
	if m < 0 {
		return 0
	}
	return m
}

// ClampOffset keeps offset within [0, MaxOffset(n)].
func (w Window) ClampOffset(n, offset int) int {
	if offset < 0 {
		return 0
	}
	if m := w.MaxOffset(n); offset > m {
		return m
	}
	return offset
}

func (w Window) rowHeight() int {
	if w.RowHeight < 1 {
		return 1
	}
	return w.RowHeight
}

// Viewport tracks the measured height of a list container. The fallback
// height applies until the first nonzero measurement arrives.
type Viewport struct {
	fallback int
	height   int
	laidOut  bool
	mx       sync.RWMutex
}

// NewViewport returns a viewport using fallback until measured.
func NewViewport(fallback int) *Viewport {
	return &Viewport{fallback: fallback}
}

// Measured records a layout measurement. Zero heights are ignored. It
// returns true when the effective height changed.
func (v *Viewport) Measured(h int) bool {
	if h <= 0 {
		return false
	}
	v.mx.Lock()
	defer v.mx.Unlock()

	prev := v.effective()
	v.height, v.laidOut = h, true

	return prev != h
}

// Height returns the effective viewport height.
func (v *Viewport) Height() int {
	v.mx.RLock()
	defer v.mx.RUnlock()
	return v.effective()
}

// LaidOut reports whether a real measurement has been seen.
func (v *Viewport) LaidOut() bool {
	v.mx.RLock()
	defer v.mx.RUnlock()
	return v.laidOut
}

func (v *Viewport) effective() int {
	if v.laidOut {
		return v.height
	}
	return v.fallback
}
