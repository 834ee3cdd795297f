package model1

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortRows(t *testing.T) {
	h := Header{{Name: "NAME"}, {Name: "AGE", Attrs: Attrs{Time: true}}}
	rr := Rows{
		{ID: "1", Fields: Fields{"user10", "3d"}},
		{ID: "2", Fields: Fields{"user2", "5h"}},
		{ID: "3", Fields: Fields{"User1", "1y"}},
	}

	SortRows(h, rr, 0, true)
	assert.Equal(t, []string{"3", "2", "1"}, ids(rr))

	SortRows(h, rr, 1, true)
	assert.Equal(t, []string{"2", "1", "3"}, ids(rr))

	SortRows(h, rr, 1, false)
	assert.Equal(t, []string{"3", "1", "2"}, ids(rr))
}

func TestDurationToSeconds(t *testing.T) {
	assert.Equal(t, int64(90), durationToSeconds("1m30s"))
	assert.Equal(t, int64(86400), durationToSeconds("1d"))
	assert.Equal(t, int64(0), durationToSeconds(NAValue))
	assert.Equal(t, int64(0), durationToSeconds("<unknown>"))
}

func TestRowCustomize(t *testing.T) {
	r := Row{ID: "1", Fields: Fields{"a", "b", "c"}}
	out := r.Customize([]int{2, 0, 7})
	assert.Equal(t, "1", out.ID)
	assert.Equal(t, Fields{"c", "a", ""}, out.Fields)
}

func TestHeaderColumns(t *testing.T) {
	h := Header{{Name: "A"}, {Name: "B", Attrs: Attrs{Wide: true}}, {Name: "AGE", Attrs: Attrs{Time: true}}}
	assert.Equal(t, []int{0, 2}, h.Columns(false))
	assert.Equal(t, []string{"A", "B", "AGE"}, h.ColumnNames(true))
	assert.True(t, h.HasAge())
	idx, ok := h.IndexOf("B", false)
	assert.False(t, ok)
	assert.Equal(t, -1, idx)
}

func ids(rr Rows) []string {
	out := make([]string, 0, len(rr))
	for _, r := range rr {
		out = append(out, r.ID)
	}
	return out
}
