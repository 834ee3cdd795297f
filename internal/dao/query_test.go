package dao

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginationPageCount(t *testing.T) {
	uu := map[string]struct {
		total, limit, want int
	}{
		"empty":      {total: 0, limit: 10, want: 1},
		"exact":      {total: 20, limit: 10, want: 2},
		"remainder":  {total: 25, limit: 10, want: 3},
		"single":     {total: 1, limit: 100, want: 1},
		"limit-one":  {total: 7, limit: 1, want: 7},
		"bad-limit":  {total: 7, limit: 0, want: 1},
		"negative":   {total: -3, limit: 10, want: 1},
		"just-over":  {total: 101, limit: 50, want: 3},
		"just-under": {total: 99, limit: 50, want: 2},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			p := Pagination{Page: 1, Limit: u.limit, Total: u.total}
			assert.Equal(t, u.want, p.PageCount())
		})
	}
}

func TestPaginationPageCountProperty(t *testing.T) {
	for total := 0; total <= 250; total++ {
		for _, limit := range []int{1, 3, 10, 20, 50, 100} {
			p := Pagination{Limit: limit, Total: total}
			want := (total + limit - 1) / limit
			if want < 1 {
				want = 1
			}
			require.Equal(t, want, p.PageCount(), "total=%d limit=%d", total, limit)
		}
	}
}

func TestPaginationForcePage(t *testing.T) {
	p := Pagination{Page: 4, Limit: 10, Total: 25}
	assert.Equal(t, 3, p.PageCount())
	assert.Equal(t, 2, p.ForcePage())

	p.Page = 1
	assert.Equal(t, 0, p.ForcePage())

	p.Page = 0
	assert.Equal(t, 0, p.ForcePage())

	p = Pagination{Page: 3, Limit: 10, Total: 0}
	assert.Equal(t, 0, p.ForcePage())
}

func TestQueryKeyEquality(t *testing.T) {
	a := Query{Page: 1, Limit: 10, SortBy: "created-at", Order: OrderAsc}
	b := Query{Page: 1, Limit: 10, SortBy: "created", Order: "at-asc"}

	assert.Equal(t, a.String(), b.String())
	assert.NotEqual(t, a, b)

	m := map[Query]int{a: 1}
	_, ok := m[b]
	assert.False(t, ok)
	_, ok = m[Query{Page: 1, Limit: 10, SortBy: "created-at", Order: OrderAsc}]
	assert.True(t, ok)
}

func TestParseSort(t *testing.T) {
	f, err := ParseSortField("Name")
	require.NoError(t, err)
	assert.Equal(t, SortName, f)

	_, err = ParseSortField("age")
	require.ErrorIs(t, err, ErrInvalidArg)

	o, err := ParseSortOrder("ASC")
	require.NoError(t, err)
	assert.Equal(t, OrderAsc, o)

	_, err = ParseSortOrder("up")
	require.ErrorIs(t, err, ErrInvalidArg)
}

func TestCycles(t *testing.T) {
	assert.Equal(t, SortName, SortCreatedAt.Next())
	assert.Equal(t, SortEmail, SortName.Next())
	assert.Equal(t, SortCreatedAt, SortEmail.Next())
	assert.Equal(t, SortCreatedAt, SortField("bozo").Next())

	assert.Equal(t, OrderAsc, OrderDesc.Toggle())
	assert.Equal(t, OrderDesc, OrderAsc.Toggle())

	assert.Equal(t, 20, NextLimit(10))
	assert.Equal(t, 10, NextLimit(100))
	assert.Equal(t, 10, NextLimit(7))
}
