// Package prefs stores local display preferences.
package prefs

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/existflow/teamplan/internal/logger"
)

const (
	// HiddenPeopleKey is the storage key of the hidden-people set.
	HiddenPeopleKey = "StatsAware_ignoredPeople"
	// HiddenPeopleChanged names the change notification.
	HiddenPeopleChanged = "hiddenPeopleChanged"
)

// Store is a durable string key/value store.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// IDSet is a set of person ids.
type IDSet map[string]struct{}

// NewIDSet builds a set from ids.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the ids in ascending order.
func (s IDSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s IDSet) clone() IDSet {
	c := make(IDSet, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// HiddenPeople is the observable hidden-people preference. Subscribers are
// called synchronously after each mutation has been persisted, and once on
// subscribe with the current set.
type HiddenPeople struct {
	store Store

	mu      sync.Mutex
	current IDSet
	subs    map[int]func(IDSet)
	nextSub int
}

// NewHiddenPeople loads the persisted set from store.
func NewHiddenPeople(store Store) *HiddenPeople {
	h := &HiddenPeople{store: store, subs: map[int]func(IDSet){}}
	h.current = h.read()
	return h
}

// Load re-reads the persisted set, picking up writes from other processes.
func (h *HiddenPeople) Load() IDSet {
	set := h.read()
	h.mu.Lock()
	h.current = set
	h.mu.Unlock()
	return set.clone()
}

// Current returns a copy of the in-memory set.
func (h *HiddenPeople) Current() IDSet {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current.clone()
}

// IsHidden reports whether id is hidden.
func (h *HiddenPeople) IsHidden(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current.Has(id)
}

// Toggle flips id's membership.
func (h *HiddenPeople) Toggle(id string) error {
	return h.mutate(func(s IDSet) {
		if s.Has(id) {
			delete(s, id)
		} else {
			s[id] = struct{}{}
		}
	})
}

// ShowAll clears the set.
func (h *HiddenPeople) ShowAll() error {
	return h.mutate(func(s IDSet) {
		for id := range s {
			delete(s, id)
		}
	})
}

// HideAll replaces the set with ids, the currently known people.
func (h *HiddenPeople) HideAll(ids []string) error {
	return h.mutate(func(s IDSet) {
		for id := range s {
			delete(s, id)
		}
		for _, id := range ids {
			s[id] = struct{}{}
		}
	})
}

// Subscribe registers fn and immediately calls it with the current set.
// The returned func removes the subscription.
func (h *HiddenPeople) Subscribe(fn func(IDSet)) (unsubscribe func()) {
	h.mu.Lock()
	id := h.nextSub
	h.nextSub++
	h.subs[id] = fn
	snapshot := h.current.clone()
	h.mu.Unlock()

	fn(snapshot)

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}

func (h *HiddenPeople) mutate(fn func(IDSet)) error {
	h.mu.Lock()
	next := h.current.clone()
	fn(next)

	data, err := json.Marshal(next.Sorted())
	if err != nil {
		h.mu.Unlock()
		return fmt.Errorf("failed to encode hidden people: %w", err)
	}
	if err := h.store.Set(HiddenPeopleKey, string(data)); err != nil {
		h.mu.Unlock()
		return fmt.Errorf("failed to persist hidden people: %w", err)
	}
	h.current = next

	subs := make([]func(IDSet), 0, len(h.subs))
	for _, fn := range h.subs {
		subs = append(subs, fn)
	}
	h.mu.Unlock()

	logger.Debug(HiddenPeopleChanged, logger.F("hidden", len(next)), logger.F("subscribers", len(subs)))
	for _, fn := range subs {
		fn(next.clone())
	}
	return nil
}

func (h *HiddenPeople) read() IDSet {
	raw, ok, err := h.store.Get(HiddenPeopleKey)
	if err != nil {
		logger.Warn("Failed to read hidden people", logger.F("error", err))
		return IDSet{}
	}
	if !ok || raw == "" {
		return IDSet{}
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		logger.Warn("Ignoring corrupt hidden people value", logger.F("error", err))
		return IDSet{}
	}
	return NewIDSet(ids...)
}
