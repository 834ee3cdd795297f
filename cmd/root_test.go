package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/userdeck/userdeck/internal/dao"
	"github.com/userdeck/userdeck/internal/model"
)

func TestPrintPage(t *testing.T) {
	snap := model.Snapshot{
		Status: model.StatusSucceeded,
		Users: []dao.User{
			{ID: "1", Name: "zed", Email: "z@acme.io"},
			{ID: "2", Name: "amy", Email: "a@acme.io"},
		},
		Pagination: dao.Pagination{Page: 1, Limit: 10, Total: 12},
		SortBy:     dao.SortName,
		Order:      dao.OrderAsc,
		FromCache:  true,
	}

	uu := map[string]struct {
		col   string
		first string
		err   bool
	}{
		"server-order": {first: "zed"},
		"by-name":      {col: "name", first: "amy"},
		"bad-column":   {col: "bozo", err: true},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			var buf bytes.Buffer
			err := printPage(&buf, snap, false, u.col, true)
			if u.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			lines := strings.Split(buf.String(), "\n")
			require.GreaterOrEqual(t, len(lines), 4)
			assert.Contains(t, lines[0], "NAME")
			assert.NotContains(t, lines[0], "PHONE")
			assert.Contains(t, lines[1], u.first)
			assert.Contains(t, buf.String(), "page 1/2")
			assert.Contains(t, buf.String(), "source cache")
		})
	}
}
