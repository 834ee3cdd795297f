package api

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/ini.v1"
)

// DefaultProfile names the built in endpoint.
const DefaultProfile = "default"

// Profiles holds named API endpoints loaded from an INI file:
//
//	[staging]
//	url = https://example.mockapi.io/v2/users
//	timeout = 10s
type Profiles struct {
	entries map[string]Endpoint
	mx      sync.RWMutex
}

// Endpoint is a named API location.
type Endpoint struct {
	Name    string
	URL     string
	Timeout string
}

// NewProfiles returns profiles holding only the default endpoint.
func NewProfiles() *Profiles {
	return &Profiles{
		entries: map[string]Endpoint{
			DefaultProfile: {Name: DefaultProfile, URL: DefaultURL},
		},
	}
}

// Load merges endpoints from path. A missing file is not an error.
func (p *Profiles) Load(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to access endpoints file: %w", err)
	}

	f, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load endpoints file: %w", err)
	}

	p.mx.Lock()
	defer p.mx.Unlock()
	for _, s := range f.Sections() {
		name := s.Name()
		if name == ini.DefaultSection {
			if !s.HasKey("url") {
				continue
			}
			name = DefaultProfile
		}
		if !s.HasKey("url") {
			return fmt.Errorf("endpoint %q: missing url", name)
		}
		u := s.Key("url").String()
		if _, err := parseBase(u); err != nil {
			return fmt.Errorf("endpoint %q: %w", name, err)
		}
		p.entries[name] = Endpoint{
			Name:    name,
			URL:     u,
			Timeout: s.Key("timeout").String(),
		}
	}

	return nil
}

// Get returns the named endpoint.
func (p *Profiles) Get(name string) (Endpoint, error) {
	if name == "" {
		name = DefaultProfile
	}
	p.mx.RLock()
	defer p.mx.RUnlock()

	e, ok := p.entries[name]
	if !ok {
		return Endpoint{}, fmt.Errorf("endpoint profile %q not found", name)
	}

	return e, nil
}

// Names returns the profile names sorted.
func (p *Profiles) Names() []string {
	p.mx.RLock()
	defer p.mx.RUnlock()

	nn := make([]string, 0, len(p.entries))
	for k := range p.entries {
		nn = append(nn, k)
	}
	sort.Strings(nn)

	return nn
}
