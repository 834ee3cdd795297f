package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowRange(t *testing.T) {
	uu := map[string]struct {
		n, rh, vh, buff, offset int
		start, end              int
		ok                      bool
	}{
		"empty":         {n: 0, rh: 4, vh: 20, buff: 2, ok: false, end: -1},
		"top":           {n: 100, rh: 4, vh: 20, buff: 2, start: 0, end: 7, ok: true},
		"partial-row":   {n: 100, rh: 4, vh: 21, buff: 2, start: 0, end: 8, ok: true},
		"scrolled":      {n: 100, rh: 4, vh: 20, buff: 2, offset: 41, start: 10, end: 17, ok: true},
		"bottom":        {n: 100, rh: 4, vh: 20, buff: 2, offset: 400, start: 99, end: 99, ok: true},
		"large-view":    {n: 5, rh: 4, vh: 200, buff: 2, start: 0, end: 4, ok: true},
		"negative":      {n: 10, rh: 4, vh: 8, buff: 0, offset: -10, start: 0, end: 2, ok: true},
		"no-buffer":     {n: 10, rh: 1, vh: 3, buff: 0, offset: 2, start: 2, end: 5, ok: true},
		"past-the-end":  {n: 3, rh: 2, vh: 2, buff: 1, offset: 100, start: 2, end: 2, ok: true},
		"one-row-cards": {n: 9, rh: 10, vh: 13, buff: 2, offset: 25, start: 2, end: 6, ok: true},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			w := NewWindow(u.rh, u.vh, u.buff)
			s, e, ok := w.Range(u.n, u.offset)
			assert.Equal(t, u.ok, ok)
			assert.Equal(t, u.start, s)
			assert.Equal(t, u.end, e)
		})
	}
}

func TestWindowRangeProperty(t *testing.T) {
	for _, rh := range []int{1, 2, 3, 7} {
		for _, vh := range []int{1, 5, 13, 40} {
			for _, buff := range []int{0, 2, 4} {
				for n := 0; n <= 30; n++ {
					w := NewWindow(rh, vh, buff)
					for offset := 0; offset <= n*rh; offset++ {
						s, e, ok := w.Range(n, offset)
						if n == 0 {
							require.False(t, ok)
							continue
						}
						require.True(t, ok)
						require.GreaterOrEqual(t, s, 0)
						require.LessOrEqual(t, e, n-1)
						require.LessOrEqual(t, s, e)
						size := e - s + 1
						require.LessOrEqual(t, size, w.VisibleCount()+buff+1,
							"rh=%d vh=%d buff=%d n=%d off=%d", rh, vh, buff, n, offset)
					}
				}
			}
		}
	}
}

func TestWindowGeometry(t *testing.T) {
	w := NewWindow(4, 10, 2)
	assert.Equal(t, 0, w.TotalHeight(0))
	assert.Equal(t, 40, w.TotalHeight(10))
	assert.Equal(t, 12, w.RowOffset(3))
	assert.Equal(t, 30, w.MaxOffset(10))
	assert.Equal(t, 0, w.MaxOffset(2))
	assert.Equal(t, 30, w.ClampOffset(10, 99))
	assert.Equal(t, 0, w.ClampOffset(10, -1))
	assert.Equal(t, 3, w.VisibleCount())
}

func TestNewWindowCoerces(t *testing.T) {
	w := NewWindow(0, -5, -1)
	assert.Equal(t, 1, w.RowHeight)
	assert.Equal(t, 0, w.ViewportHeight)
	assert.Equal(t, 0, w.Buffer)

	s, e, ok := w.Range(10, 0)
	assert.True(t, ok)
	assert.Equal(t, 0, s)
	assert.Equal(t, 0, e)
}

func TestViewport(t *testing.T) {
	v := NewViewport(24)
	assert.Equal(t, 24, v.Height())
	assert.False(t, v.LaidOut())

	assert.False(t, v.Measured(0))
	assert.Equal(t, 24, v.Height())

	assert.True(t, v.Measured(30))
	assert.True(t, v.LaidOut())
	assert.Equal(t, 30, v.Height())

	assert.False(t, v.Measured(30))
	assert.False(t, v.Measured(0))
	assert.Equal(t, 30, v.Height())

	assert.True(t, v.Measured(12))
	assert.Equal(t, 12, v.Height())
}

func TestViewportMeasuredMatchesFallback(t *testing.T) {
	v := NewViewport(24)
	assert.False(t, v.Measured(24))
	assert.True(t, v.LaidOut())
}
