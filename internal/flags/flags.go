package flags

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Store holds key-tagged values attached to one noted area. Values must be
// JSON-encodable. An entry with a non-zero expiry disappears once the clock
// passes it.
type Store struct {
	mu       sync.RWMutex
	entries  map[string]entry
	now      func() time.Time
	onChange func(key string, removed bool)
}

type entry struct {
	Value   any       `json:"value"`
	Expires time.Time `json:"expires,omitempty"`
}

func (e entry) expired(now time.Time) bool {
	return !e.Expires.IsZero() && !now.Before(e.Expires)
}

// New returns an empty store. A nil clock uses time.Now.
func New(clock func() time.Time) *Store {
	if clock == nil {
		clock = time.Now
	}
	return &Store{entries: map[string]entry{}, now: clock}
}

func normKey(k string) string { return strings.ToLower(strings.TrimSpace(k)) }

// OnChange registers a callback invoked after every Set/Remove, outside the lock.
func (s *Store) OnChange(fn func(key string, removed bool)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Store) notify(key string, removed bool) {
	s.mu.RLock()
	fn := s.onChange
	s.mu.RUnlock()
	if fn != nil {
		fn(key, removed)
	}
}

// SetFor stores value under key for ttl, measured on the store's clock. A
// ttl <= 0 never expires.
func (s *Store) SetFor(key string, value any, ttl time.Duration) error {
	var exp time.Time
	if ttl > 0 {
		exp = s.now().Add(ttl)
	}
	return s.Set(key, value, exp)
}

// Set stores value under key. A zero expires never expires.
func (s *Store) Set(key string, value any, expires time.Time) error {
	key = normKey(key)
	if key == "" {
		return fmt.Errorf("flags: empty key")
	}
	if _, err := json.Marshal(value); err != nil {
		return fmt.Errorf("flags: value for %q: %w", key, err)
	}
	s.mu.Lock()
	s.entries[key] = entry{Value: value, Expires: expires}
	s.mu.Unlock()
	s.notify(key, false)
	return nil
}

func (s *Store) Get(key string) (any, bool) {
	key = normKey(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok || e.expired(s.now()) {
		return nil, false
	}
	return e.Value, true
}

// Expiry returns the expiry of a live flag (zero: never).
func (s *Store) Expiry(key string) (time.Time, bool) {
	key = normKey(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok || e.expired(s.now()) {
		return time.Time{}, false
	}
	return e.Expires, true
}

func (s *Store) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Remove deletes key and reports whether a live flag was removed.
func (s *Store) Remove(key string) bool {
	key = normKey(key)
	s.mu.Lock()
	e, ok := s.entries[key]
	delete(s.entries, key)
	s.mu.Unlock()
	if !ok {
		return false
	}
	s.notify(key, true)
	return !e.expired(s.now())
}

// Keys lists live keys, sorted.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.now()
	keys := make([]string, 0, len(s.entries))
	for k, e := range s.entries {
		if e.expired(now) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *Store) Len() int { return len(s.Keys()) }

// Prune drops expired entries and returns how many were dropped.
func (s *Store) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for k, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, k)
			n++
		}
	}
	return n
}

// MarshalJSON writes live entries only.
func (s *Store) MarshalJSON() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.now()
	out := make(map[string]entry, len(s.entries))
	for k, e := range s.entries {
		if e.expired(now) {
			continue
		}
		out[k] = e
	}
	return json.Marshal(out)
}

// UnmarshalJSON replaces the store's contents.
func (s *Store) UnmarshalJSON(b []byte) error {
	in := map[string]entry{}
	if err := json.Unmarshal(b, &in); err != nil {
		return fmt.Errorf("flags: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.now == nil {
		s.now = time.Now
	}
	s.entries = make(map[string]entry, len(in))
	for k, e := range in {
		s.entries[normKey(k)] = e
	}
	return nil
}
