package config

import (
	"os"
	"sort"
	"sync"

	"github.com/userdeck/userdeck/internal/config/data"
)

// Aliases maps short command names to canonical commands.
type Aliases struct {
	Alias map[string]string `yaml:"aliases"`
	mx    sync.RWMutex      `yaml:"-"`
}

// DefaultAliases are the built-in command aliases.
var DefaultAliases = map[string]string{
	"p":      "page",
	"pg":     "page",
	"next":   "page +1",
	"prev":   "page -1",
	"l":      "limit",
	"size":   "limit",
	"s":      "sort",
	"o":      "order",
	"inv":    "invalidate",
	"flush":  "invalidate",
	"r":      "refresh",
	"reload": "refresh",
	"new":    "add",
	"ep":     "endpoint",
	"h":      "help",
	"q":      "quit",
	"q!":     "quit",
}

// NewAliases creates an Aliases with default aliases loaded.
func NewAliases() *Aliases {
	a := &Aliases{
		Alias: make(map[string]string, len(DefaultAliases)),
	}
	for k, v := range DefaultAliases {
		a.Alias[k] = v
	}
	return a
}

// Load loads aliases from the default config file.
func (a *Aliases) Load() error {
	return a.LoadFrom(AppAliasesFile)
}

// LoadFrom merges aliases from path. File aliases take precedence.
func (a *Aliases) LoadFrom(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	loaded := &Aliases{
		Alias: make(map[string]string),
	}
	if err := data.LoadYAML(path, loaded); err != nil {
		return err
	}

	a.mx.Lock()
	defer a.mx.Unlock()
	for k, v := range loaded.Alias {
		a.Alias[k] = v
	}

	return nil
}

// Get returns the command for an alias, or the original if not found.
func (a *Aliases) Get(alias string) string {
	a.mx.RLock()
	defer a.mx.RUnlock()

	if cmd, ok := a.Alias[alias]; ok {
		return cmd
	}
	return alias
}

// Set sets an alias.
func (a *Aliases) Set(alias, cmd string) {
	a.mx.Lock()
	defer a.mx.Unlock()

	a.Alias[alias] = cmd
}

// Names returns all alias names sorted.
func (a *Aliases) Names() []string {
	a.mx.RLock()
	defer a.mx.RUnlock()

	nn := make([]string, 0, len(a.Alias))
	for k := range a.Alias {
		nn = append(nn, k)
	}
	sort.Strings(nn)

	return nn
}
