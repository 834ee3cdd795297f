package dao

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageCacheGetPut(t *testing.T) {
	c := NewPageCache()
	q := Query{Page: 1, Limit: 10, SortBy: SortName, Order: OrderAsc}

	_, ok := c.Get(q)
	require.False(t, ok)

	require.True(t, c.Put(q, []User{{ID: "1"}, {ID: "2"}}, c.Epoch()))
	uu, ok := c.Get(q)
	require.True(t, ok)
	assert.Len(t, uu, 2)

	s := c.Stats()
	assert.Equal(t, uint64(1), s.Hits)
	assert.Equal(t, uint64(1), s.Misses)
	assert.Equal(t, 1, s.Entries)
}

func TestPageCacheReturnsCopies(t *testing.T) {
	c := NewPageCache()
	q := Query{Page: 1, Limit: 10, SortBy: SortName, Order: OrderAsc}
	src := []User{{ID: "1", Name: "fred"}}
	c.Put(q, src, c.Epoch())
	src[0].Name = "blee"

	uu, _ := c.Get(q)
	assert.Equal(t, "fred", uu[0].Name)
	uu[0].Name = "zorg"

	uu, _ = c.Get(q)
	assert.Equal(t, "fred", uu[0].Name)
}

func TestPageCacheClear(t *testing.T) {
	c := NewPageCache()
	q1 := Query{Page: 1, Limit: 10, SortBy: SortName, Order: OrderAsc}
	q2 := Query{Page: 2, Limit: 10, SortBy: SortName, Order: OrderAsc}
	c.Put(q1, []User{{ID: "1"}}, c.Epoch())
	c.Put(q2, []User{{ID: "2"}}, c.Epoch())
	require.Equal(t, 2, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	_, ok := c.Get(q1)
	assert.False(t, ok)
}

func TestPageCacheStaleEpoch(t *testing.T) {
	c := NewPageCache()
	q := Query{Page: 1, Limit: 10, SortBy: SortName, Order: OrderAsc}

	epoch := c.Epoch()
	c.Clear()
	assert.False(t, c.Put(q, []User{{ID: "1"}}, epoch))
	assert.Equal(t, 0, c.Len())

	assert.True(t, c.Put(q, []User{{ID: "1"}}, c.Epoch()))
}
