package ui

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/userdeck/userdeck/internal/dao"
)

func layout(items []PageItem) string {
	ss := make([]string, 0, len(items))
	for _, it := range items {
		if it.Break {
			ss = append(ss, "…")
			continue
		}
		s := strconv.Itoa(it.Page())
		if it.Current {
			s = "(" + s + ")"
		}
		ss = append(ss, s)
	}
	return strings.Join(ss, " ")
}

func TestPageItems(t *testing.T) {
	uu := map[string]struct {
		count, selected int
		e               string
	}{
		"empty":      {count: 0, e: ""},
		"single":     {count: 1, e: "(1)"},
		"few":        {count: 3, selected: 1, e: "1 (2) 3"},
		"first":      {count: 10, selected: 0, e: "(1) 2 3 … 10"},
		"third":      {count: 10, selected: 2, e: "1 2 (3) 4 … 10"},
		"fourth":     {count: 10, selected: 3, e: "1 2 3 (4) 5 … 10"},
		"middle":     {count: 10, selected: 4, e: "1 … 4 (5) 6 … 10"},
		"last":       {count: 10, selected: 9, e: "1 … 8 9 (10)"},
		"overflow":   {count: 10, selected: 42, e: "1 … 8 9 (10)"},
		"underflow":  {count: 10, selected: -3, e: "(1) 2 3 … 10"},
		"near-end":   {count: 10, selected: 7, e: "1 … 7 (8) 9 10"},
		"two-breaks": {count: 20, selected: 10, e: "1 … 10 (11) 12 … 20"},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			assert.Equal(t, u.e, layout(PageItems(u.count, u.selected, PageRange, PageMargin)))
		})
	}
}

func TestFormatPager(t *testing.T) {
	s := FormatPager(dao.Pagination{Page: 1, Limit: 10, Total: 0})
	assert.Contains(t, s, "[gray::d]‹")
	assert.Contains(t, s, "[black:aqua:b] 1 [-:-:-]")
	assert.Contains(t, s, "[gray::d]›")

	s = FormatPager(dao.Pagination{Page: 2, Limit: 10, Total: 35})
	assert.Contains(t, s, "[yellow::b]‹")
	assert.Contains(t, s, "[black:aqua:b] 2 [-:-:-]")
	assert.Contains(t, s, "[yellow::b]›")
	assert.Contains(t, s, " 4")
}

func TestPagerUpdate(t *testing.T) {
	p := NewPager()
	pg := dao.Pagination{Page: 3, Limit: 20, Total: 100}
	p.Update(pg)

	assert.Equal(t, pg, p.Pagination())
	assert.Contains(t, p.GetText(true), " 3 ")
}
