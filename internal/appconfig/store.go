package appconfig

import "sync/atomic"

// Store holds the current configuration snapshot. Settings updated at
// runtime take effect on the next operation that reads the store, never
// retroactively on operations already in flight.
type Store struct {
	ptr atomic.Pointer[Config]
}

// NewStore returns a store seeded with cfg.
func NewStore(cfg Config) *Store {
	s := &Store{}
	s.ptr.Store(&cfg)
	return s
}

// Current returns the active configuration snapshot.
func (s *Store) Current() Config {
	return *s.ptr.Load()
}

// Update replaces the active configuration.
func (s *Store) Update(cfg Config) {
	cfg.Normalize()
	s.ptr.Store(&cfg)
}
