// Package registry is the catalog of microgames. Games register a
// descriptor and a constructor from their init() functions, so the
// orchestrator can discover and instantiate them without importing them.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vovakirdan/microware/internal/microgame"
)

var (
	ErrUnknownKey        = errors.New("registry: unknown microgame")
	ErrDuplicateKey      = errors.New("registry: duplicate key")
	ErrDuplicatePrompt   = errors.New("registry: duplicate prompt")
	ErrInvalidDescriptor = errors.New("registry: invalid descriptor")
)

// Descriptor is the immutable catalog entry for one microgame.
type Descriptor struct {
	Key         string
	Name        string
	Prompt      string
	Duration    time.Duration
	Description string
	Controls    string
}

// Factory creates a fresh microgame instance.
type Factory func() microgame.Microgame

// Band is the range of sane round durations.
type Band struct {
	Min, Max time.Duration
}

// DefaultBand is 2 to 7 seconds.
var DefaultBand = Band{Min: 2 * time.Second, Max: 7 * time.Second}

// Contains reports whether d lies inside the band, bounds included.
func (b Band) Contains(d time.Duration) bool {
	return d >= b.Min && d <= b.Max
}

type entry struct {
	desc    Descriptor
	factory Factory
}

// Catalog holds registered microgames. It is safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]entry
	prompts map[string]string
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		entries: make(map[string]entry),
		prompts: make(map[string]string),
	}
}

// Register adds a descriptor together with its constructor. Either both are
// stored or neither is.
func (c *Catalog) Register(d Descriptor, f Factory) error {
	d.Key = strings.TrimSpace(d.Key)
	d.Prompt = strings.TrimSpace(d.Prompt)
	switch {
	case d.Key == "":
		return fmt.Errorf("%w: empty key", ErrInvalidDescriptor)
	case d.Prompt == "":
		return fmt.Errorf("%w: %q has an empty prompt", ErrInvalidDescriptor, d.Key)
	case f == nil:
		return fmt.Errorf("%w: %q has no constructor", ErrInvalidDescriptor, d.Key)
	}
	if d.Name == "" {
		d.Name = d.Key
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[d.Key]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, d.Key)
	}
	if owner, ok := c.prompts[d.Prompt]; ok {
		return fmt.Errorf("%w: %q used by %q and %q", ErrDuplicatePrompt, d.Prompt, owner, d.Key)
	}
	c.entries[d.Key] = entry{desc: d, factory: f}
	c.prompts[d.Prompt] = d.Key
	return nil
}

// List returns every descriptor, sorted by key.
func (c *Catalog) List() []Descriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Descriptor, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.desc)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key < out[j].Key
	})
	return out
}

// Resolve returns the constructor for key.
func (c *Catalog) Resolve(key string) (Factory, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return e.factory, nil
}

// Describe returns the descriptor for key.
func (c *Catalog) Describe(key string) (Descriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	return e.desc, ok
}

// Exists reports whether key is registered.
func (c *Catalog) Exists(key string) bool {
	_, ok := c.Describe(key)
	return ok
}

// Len returns the number of registered microgames.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Default is the catalog games register into from init().
var Default = NewCatalog()

// Register adds a microgame to the Default catalog.
// It panics on an invalid or duplicate registration, which is a programming
// error in the game package.
func Register(d Descriptor, f Factory) {
	if err := Default.Register(d, f); err != nil {
		panic(err)
	}
}

// List returns the Default catalog's descriptors.
func List() []Descriptor {
	return Default.List()
}

// Create instantiates a microgame from the Default catalog.
func Create(key string) (microgame.Microgame, error) {
	f, err := Default.Resolve(key)
	if err != nil {
		return nil, err
	}
	return f(), nil
}

// Exists reports whether key is in the Default catalog.
func Exists(key string) bool {
	return Default.Exists(key)
}
