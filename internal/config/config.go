package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/userdeck/userdeck/internal/api"
	"github.com/userdeck/userdeck/internal/config/data"
)

// Config is the root configuration for the application.
type Config struct {
	Deck *Deck `yaml:"userdeck"`

	profiles *api.Profiles
	mx       sync.RWMutex
}

// NewConfig creates a new Config with the given endpoint profiles.
func NewConfig(profiles *api.Profiles) *Config {
	if profiles == nil {
		profiles = api.NewProfiles()
	}
	return &Config{
		Deck:     NewDeck(),
		profiles: profiles,
	}
}

// Load loads the configuration from the given path.
// If the file doesn't exist, the current config is kept.
func (c *Config) Load(path string, force bool) error {
	c.mx.Lock()
	defer c.mx.Unlock()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if !force {
			return nil
		}
		return fmt.Errorf("config file does not exist: %s", path)
	}

	if err := data.LoadYAML(path, c); err != nil {
		return fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	if c.Deck == nil {
		c.Deck = NewDeck()
	}
	c.Deck.Validate()

	return nil
}

// Save saves the configuration to path.
// If force is false, only saves if the file already exists.
func (c *Config) Save(path string, force bool) error {
	c.mx.RLock()
	defer c.mx.RUnlock()

	if path == "" {
		return fmt.Errorf("no config file path configured")
	}
	if _, err := os.Stat(path); err != nil && !force {
		return nil
	}
	if err := data.SaveYAML(path, c); err != nil {
		return fmt.Errorf("failed to save config to %s: %w", path, err)
	}

	return nil
}

// Refine applies CLI flags and resolves the API endpoint.
// URL precedence: --url > --profile > config url > config profile > default.
func (c *Config) Refine(flags *data.Flags) error {
	c.mx.Lock()
	defer c.mx.Unlock()

	if c.Deck == nil {
		return fmt.Errorf("config.Deck is nil")
	}
	if flags == nil {
		flags = data.NewFlags()
	}
	fileURL := c.Deck.API.URL
	c.Deck.Override(flags)
	if err := c.resolveURL(flags, fileURL); err != nil {
		return err
	}
	c.Deck.Validate()

	return nil
}

func (c *Config) resolveURL(flags *data.Flags, fileURL string) error {
	d := c.Deck
	d.mx.Lock()
	defer d.mx.Unlock()

	switch {
	case IsStringSet(flags.URL):
	case IsStringSet(flags.Profile) || (d.API.Profile != "" && fileURL == api.DefaultURL):
		ep, err := c.profiles.Get(d.API.Profile)
		if err != nil {
			return err
		}
		d.API.URL = ep.URL
		if ep.Timeout != "" {
			t, err := time.ParseDuration(ep.Timeout)
			if err != nil {
				return fmt.Errorf("endpoint %q: invalid timeout %q: %w", ep.Name, ep.Timeout, err)
			}
			d.API.Timeout.Duration = t
		}
	case d.API.URL == "":
		d.API.URL = api.DefaultURL
	}

	return nil
}

// Profiles returns the endpoint profiles.
func (c *Config) Profiles() *api.Profiles {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.profiles
}
