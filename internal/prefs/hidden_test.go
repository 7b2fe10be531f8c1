package prefs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHiddenPeople_HideAllThenShowAll(t *testing.T) {
	h := NewHiddenPeople(NewMemoryStore())
	require.NoError(t, h.Toggle("stale"))

	require.NoError(t, h.HideAll([]string{"p1", "p2"}))
	assert.Equal(t, []string{"p1", "p2"}, h.Current().Sorted())

	require.NoError(t, h.ShowAll())
	assert.Empty(t, h.Current())
}

func TestHiddenPeople_ToggleTwiceIsNoop(t *testing.T) {
	h := NewHiddenPeople(NewMemoryStore())
	require.NoError(t, h.HideAll([]string{"p1"}))
	before := h.Current()

	require.NoError(t, h.Toggle("p2"))
	assert.True(t, h.IsHidden("p2"))
	require.NoError(t, h.Toggle("p2"))

	assert.Equal(t, before, h.Current())
}

func TestHiddenPeople_PersistsSortedJSON(t *testing.T) {
	store := NewMemoryStore()
	h := NewHiddenPeople(store)
	require.NoError(t, h.HideAll([]string{"b", "a", "c"}))

	raw, ok, err := store.Get(HiddenPeopleKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `["a","b","c"]`, raw)

	reloaded := NewHiddenPeople(store)
	assert.True(t, reloaded.IsHidden("b"))
}

func TestHiddenPeople_CorruptValueIsEmpty(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(HiddenPeopleKey, "{not json"))

	h := NewHiddenPeople(store)
	assert.Empty(t, h.Current())

	require.NoError(t, h.Toggle("p1"))
	assert.Equal(t, []string{"p1"}, h.Load().Sorted())
}

func TestHiddenPeople_SubscribeReplaysAndNotifies(t *testing.T) {
	h := NewHiddenPeople(NewMemoryStore())
	require.NoError(t, h.Toggle("early"))

	var seen [][]string
	unsubscribe := h.Subscribe(func(s IDSet) { seen = append(seen, s.Sorted()) })

	require.Len(t, seen, 1)
	assert.Equal(t, []string{"early"}, seen[0])

	require.NoError(t, h.Toggle("late"))
	require.Len(t, seen, 2)
	assert.Equal(t, []string{"early", "late"}, seen[1])

	unsubscribe()
	unsubscribe()
	require.NoError(t, h.ShowAll())
	assert.Len(t, seen, 2)
}

func TestHiddenPeople_LoadSeesExternalWrites(t *testing.T) {
	store := NewMemoryStore()
	a := NewHiddenPeople(store)
	b := NewHiddenPeople(store)

	require.NoError(t, a.Toggle("p9"))
	assert.False(t, b.IsHidden("p9"))
	assert.True(t, b.Load().Has("p9"))
	assert.True(t, b.IsHidden("p9"))
}

type failingStore struct{ *MemoryStore }

func (f *failingStore) Set(string, string) error { return errors.New("disk full") }

func TestHiddenPeople_PersistFailureKeepsState(t *testing.T) {
	h := NewHiddenPeople(&failingStore{MemoryStore: NewMemoryStore()})

	notified := 0
	h.Subscribe(func(IDSet) { notified++ })

	err := h.Toggle("p1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.False(t, h.IsHidden("p1"))
	assert.Equal(t, 1, notified)
}
