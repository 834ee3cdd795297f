package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/userdeck/userdeck/internal/dao"
)

func TestCommandExpand(t *testing.T) {
	uu := map[string]struct {
		line string
		cmd  string
		args []string
	}{
		"empty":       {line: "  "},
		"plain":       {line: "limit 20", cmd: "limit", args: []string{"20"}},
		"colon":       {line: ":sort name asc", cmd: "sort", args: []string{"name", "asc"}},
		"alias":       {line: "l 50", cmd: "limit", args: []string{"50"}},
		"alias-args":  {line: "next", cmd: "page", args: []string{"+1"}},
		"quit-bang":   {line: "q!", cmd: "quit", args: []string{}},
		"upper-case":  {line: "REFRESH", cmd: "refresh", args: []string{}},
		"passthrough": {line: "bozo 1", cmd: "bozo", args: []string{"1"}},
	}

	c := NewCommand(nil)
	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			cmd, args := c.expand(u.line)
			assert.Equal(t, u.cmd, cmd)
			if u.args == nil {
				assert.Empty(t, args)
				return
			}
			assert.Equal(t, u.args, append([]string{}, args...))
		})
	}
}

func TestCommandNames(t *testing.T) {
	nn := NewCommand(nil).Names()

	assert.Contains(t, nn, "page")
	assert.Contains(t, nn, "invalidate")
	assert.Contains(t, nn, "inv")
	assert.Contains(t, nn, "ep")
}

func TestResolvePage(t *testing.T) {
	pg := dao.Pagination{Page: 2, Limit: 10, Total: 45}

	uu := map[string]struct {
		arg  string
		page int
		err  bool
	}{
		"absolute": {arg: "4", page: 4},
		"next":     {arg: "+1", page: 3},
		"prev":     {arg: "-1", page: 1},
		"last":     {arg: "5", page: 5},
		"past":     {arg: "6", err: true},
		"before":   {arg: "-2", err: true},
		"zero":     {arg: "0", err: true},
		"junk":     {arg: "x", err: true},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			n, err := resolvePage(u.arg, pg)
			if u.err {
				require.ErrorIs(t, err, dao.ErrInvalidArg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, u.page, n)
		})
	}
}
