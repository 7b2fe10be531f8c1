package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowEditor_CommitTrims(t *testing.T) {
	e := NewRowEditor(EditorOptions{})
	e.Begin("task-1", "old")
	assert.Equal(t, Editing, e.State())

	e.SetValue("  new  ")
	v, changed, err := e.Commit()
	assert.NoError(t, err)
	assert.Equal(t, "new", v)
	assert.True(t, changed)
	assert.Equal(t, Viewing, e.State())
}

func TestRowEditor_EmptyKeepsEditorOpen(t *testing.T) {
	e := NewRowEditor(EditorOptions{})
	e.Begin("task-1", "old")
	e.SetValue("   ")

	outcome, target, _ := e.HandleKey("enter")
	assert.Equal(t, Invalid, outcome)
	assert.Equal(t, "task-1", target)
	assert.Equal(t, Editing, e.State())
	assert.EqualError(t, e.Err(), "this field cannot be empty")

	e.SetValue("fixed")
	assert.NoError(t, e.Err())
	outcome, target, v := e.HandleKey("enter")
	assert.Equal(t, Committed, outcome)
	assert.Equal(t, "task-1", target)
	assert.Equal(t, "fixed", v)
}

func TestRowEditor_AllowEmpty(t *testing.T) {
	e := NewRowEditor(EditorOptions{AllowEmpty: true})
	e.Begin("x", "old")
	e.SetValue("")
	v, changed, err := e.Commit()
	assert.NoError(t, err)
	assert.Equal(t, "", v)
	assert.True(t, changed)
}

func TestRowEditor_Numeric(t *testing.T) {
	e := NewRowEditor(EditorOptions{Numeric: true})
	e.Begin("hours", "8")
	e.SetValue("eight")
	_, _, err := e.Commit()
	assert.ErrorIs(t, err, ErrInvalidNumber)
	assert.Equal(t, Editing, e.State())

	e.SetValue("8.5")
	v, _, err := e.Commit()
	assert.NoError(t, err)
	assert.Equal(t, "8.5", v)
}

func TestRowEditor_EscapeCancels(t *testing.T) {
	e := NewRowEditor(EditorOptions{})
	e.Begin("goal-1", "keep me")
	e.SetValue("discard me")

	outcome, target, _ := e.HandleKey("esc")
	assert.Equal(t, Canceled, outcome)
	assert.Equal(t, "goal-1", target)
	assert.Equal(t, Viewing, e.State())
	assert.Equal(t, "", e.Value())
}

func TestRowEditor_DropOnDelete(t *testing.T) {
	e := NewRowEditor(EditorOptions{})
	e.Begin("a", "v")
	e.Drop("b")
	assert.Equal(t, Editing, e.State())
	e.Drop("a")
	assert.Equal(t, Viewing, e.State())

	outcome, _, _ := e.HandleKey("enter")
	assert.Equal(t, Unhandled, outcome)
}

func TestRowEditor_UnchangedCommit(t *testing.T) {
	e := NewRowEditor(EditorOptions{})
	e.Begin("a", "same")
	_, changed, err := e.Commit()
	assert.NoError(t, err)
	assert.False(t, changed)
}
