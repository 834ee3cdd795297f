// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of userdeck

package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/derailed/tcell/v2"

	"github.com/userdeck/userdeck/internal/config"
	"github.com/userdeck/userdeck/internal/dao"
	"github.com/userdeck/userdeck/internal/ui"
)

// Canonical command names.
const (
	cmdPage       = "page"
	cmdLimit      = "limit"
	cmdSort       = "sort"
	cmdOrder      = "order"
	cmdInvalidate = "invalidate"
	cmdRefresh    = "refresh"
	cmdAdd        = "add"
	cmdEndpoint   = "endpoint"
	cmdHelp       = "help"
	cmdQuit       = "quit"
)

var commands = []string{
	cmdPage, cmdLimit, cmdSort, cmdOrder, cmdInvalidate,
	cmdRefresh, cmdAdd, cmdEndpoint, cmdHelp, cmdQuit,
}

// Command handles user command interpretation and execution.
type Command struct {
	app     *App
	aliases *config.Aliases
	hotKeys *config.HotKeys
}

// NewCommand creates a new command interpreter.
func NewCommand(app *App) *Command {
	return &Command{
		app:     app,
		aliases: config.NewAliases(),
		hotKeys: config.NewHotKeys(),
	}
}

// Init loads the user aliases and hotkeys.
func (c *Command) Init() error {
	if err := c.aliases.Load(); err != nil {
		return fmt.Errorf("failed to load aliases: %w", err)
	}
	if err := c.hotKeys.Load(); err != nil {
		return fmt.Errorf("failed to load hotkeys: %w", err)
	}

	return nil
}

// Names returns every command and alias name, for completion.
func (c *Command) Names() []string {
	nn := append([]string{}, commands...)
	return append(nn, c.aliases.Names()...)
}

// HotKey returns the command bound to the key in evt.
func (c *Command) HotKey(evt *tcell.EventKey) (string, bool) {
	name, ok := ui.KeyName(ui.AsKey(evt))
	if !ok {
		return "", false
	}
	for _, n := range c.hotKeys.Names() {
		hk := c.hotKeys.Get(n)
		if hk == nil || hk.Command == "" {
			continue
		}
		if hk.ShortCut == name || (len(name) > 1 && strings.EqualFold(hk.ShortCut, name)) {
			return hk.Command, true
		}
	}

	return "", false
}

// Run parses and executes a command line.
func (c *Command) Run(line string) error {
	name, args := c.expand(line)
	if name == "" {
		return nil
	}

	users := c.app.Users()
	switch name {
	case cmdPage:
		if len(args) != 1 {
			return errors.New("usage: page <n|+n|-n>")
		}
		n, err := resolvePage(args[0], users.Snapshot().Pagination)
		if err != nil {
			return err
		}
		users.GotoPage(n)
	case cmdLimit:
		if len(args) != 1 {
			return fmt.Errorf("usage: limit <%s>", joinInts(dao.Limits, "|"))
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid limit %q: %w", args[0], dao.ErrInvalidArg)
		}
		if err := users.SetLimit(n); err != nil {
			return err
		}
		c.app.Flash().Infof("Showing %d users per page", n)
	case cmdSort:
		return c.sortCmd(args)
	case cmdOrder:
		snap := users.Snapshot()
		order := snap.Order.Toggle()
		if len(args) > 0 {
			o, err := dao.ParseSortOrder(args[0])
			if err != nil {
				return err
			}
			order = o
		}
		return users.SetSorting(snap.SortBy, order)
	case cmdInvalidate:
		users.Invalidate()
		c.app.Flash().Info("Cache invalidated")
	case cmdRefresh:
		users.Refresh()
	case cmdAdd:
		users.addCmd(nil)
	case cmdEndpoint:
		if len(args) == 0 {
			c.app.inject(NewEndpointSwitcher(c.app))
			return nil
		}
		return c.endpointCmd(args[0])
	case cmdHelp:
		c.app.showHelp()
	case cmdQuit:
		c.app.Stop()
	default:
		return fmt.Errorf("unknown command %q", name)
	}

	return nil
}

func (c *Command) sortCmd(args []string) error {
	users := c.app.Users()
	snap := users.Snapshot()
	by, order := snap.SortBy.Next(), snap.Order
	if len(args) > 0 {
		f, err := dao.ParseSortField(args[0])
		if err != nil {
			return err
		}
		by = f
	}
	if len(args) > 1 {
		o, err := dao.ParseSortOrder(args[1])
		if err != nil {
			return err
		}
		order = o
	}

	return users.SetSorting(by, order)
}

func (c *Command) endpointCmd(name string) error {
	if err := c.app.SwitchEndpoint(name); err != nil {
		return err
	}
	c.app.Flash().Infof("Switched to endpoint: %s", name)
	c.app.Users().Refresh()

	return nil
}

// expand resolves the alias in the first word. An alias may carry
// arguments of its own, which come before the typed ones.
func (c *Command) expand(line string) (string, []string) {
	parts := strings.Fields(strings.TrimPrefix(strings.TrimSpace(line), ":"))
	if len(parts) == 0 {
		return "", nil
	}
	head := strings.Fields(c.aliases.Get(parts[0]))
	if len(head) == 0 {
		return "", nil
	}

	return strings.ToLower(head[0]), append(head[1:], parts[1:]...)
}

// resolvePage returns the page an absolute or relative argument points to.
func resolvePage(arg string, pg dao.Pagination) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid page %q: %w", arg, dao.ErrInvalidArg)
	}
	if strings.HasPrefix(arg, "+") || strings.HasPrefix(arg, "-") {
		n += pg.Page
	}
	if n < 1 || n > pg.PageCount() {
		return 0, fmt.Errorf("page %d out of range 1-%d: %w", n, pg.PageCount(), dao.ErrInvalidArg)
	}

	return n, nil
}

func joinInts(ii []int, sep string) string {
	ss := make([]string, 0, len(ii))
	for _, i := range ii {
		ss = append(ss, strconv.Itoa(i))
	}
	return strings.Join(ss, sep)
}
