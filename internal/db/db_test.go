package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/teamplan/internal/model"
	"github.com/existflow/teamplan/internal/prefs"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	d, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestPreferences_GetSet(t *testing.T) {
	d := testDB(t)

	_, ok, err := d.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, d.Set("k", "one"))
	require.NoError(t, d.Set("k", "two"))
	v, ok, err := d.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "two", v)
}

func TestPreferences_BackHiddenPeople(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teamplan.db")
	d, err := Open(path)
	require.NoError(t, err)

	h := prefs.NewHiddenPeople(d)
	require.NoError(t, h.HideAll([]string{"p2", "p1"}))
	require.NoError(t, d.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	raw, ok, err := reopened.Get(prefs.HiddenPeopleKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `["p1","p2"]`, raw)
	assert.True(t, prefs.NewHiddenPeople(reopened).IsHidden("p2"))
}

func TestSnapshots(t *testing.T) {
	d := testDB(t)

	var week model.TeamWeek
	_, err := d.GetSnapshot("team-week", &week)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	in := model.TeamWeek{
		WeekStart: "2024-09-02",
		Members:   []model.TeamMember{{ID: "till", Name: "Till"}},
	}
	require.NoError(t, d.PutSnapshot("team-week", in))

	at, err := d.GetSnapshot("team-week", &week)
	require.NoError(t, err)
	assert.False(t, at.IsZero())
	assert.Equal(t, "2024-09-02", week.WeekStart)
	require.Len(t, week.Members, 1)
	assert.Equal(t, "Till", week.Members[0].Name)
}
