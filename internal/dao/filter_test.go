package dao

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUsers() []User {
	return []User{
		{ID: "1", Name: "Fred Blee", Email: "fred@acme.io", Genre: "male", Country: "VN", Job: "Engineer"},
		{ID: "2", Name: "Jane Zorg", Email: "jane@zorg.io", Genre: "female", Country: "VN", Company: "Acme"},
		{ID: "3", Name: "Bozo", Email: "bozo@circus.io", Genre: "other", Country: "US"},
	}
}

func TestFilterText(t *testing.T) {
	f, err := NewFilter("ACME")
	require.NoError(t, err)

	uu, err := f.Apply(testUsers())
	require.NoError(t, err)
	require.Len(t, uu, 2)
	assert.Equal(t, "1", uu[0].ID)
	assert.Equal(t, "2", uu[1].ID)
}

func TestFilterEmpty(t *testing.T) {
	f, err := NewFilter("  ")
	require.NoError(t, err)
	assert.True(t, f.IsEmpty())

	uu, err := f.Apply(testUsers())
	require.NoError(t, err)
	assert.Len(t, uu, 3)

	var nf *Filter
	assert.True(t, nf.IsEmpty())
}

func TestFilterExpr(t *testing.T) {
	f, err := NewFilter(`=genre == "female" && country == "VN"`)
	require.NoError(t, err)

	uu, err := f.Apply(testUsers())
	require.NoError(t, err)
	require.Len(t, uu, 1)
	assert.Equal(t, "2", uu[0].ID)
}

func TestFilterExprInvalid(t *testing.T) {
	_, err := NewFilter("=")
	require.ErrorIs(t, err, ErrInvalidArg)

	_, err = NewFilter("=genre ==")
	require.Error(t, err)
}
