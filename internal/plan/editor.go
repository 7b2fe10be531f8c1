package plan

import (
	"errors"
	"strconv"
	"strings"
)

// EditState is the state of an inline editable row.
type EditState int

const (
	Viewing EditState = iota
	Editing
)

func (s EditState) String() string {
	if s == Editing {
		return "editing"
	}
	return "viewing"
}

var (
	ErrEmptyValue    = errors.New("this field cannot be empty")
	ErrInvalidNumber = errors.New("please enter a valid number")
)

// EditorOptions tune validation.
type EditorOptions struct {
	AllowEmpty bool
	Numeric    bool
}

// RowEditor tracks viewing/editing for one row. Commit hands the trimmed
// value back to the caller; a failed commit leaves the row in Editing.
type RowEditor struct {
	opts     EditorOptions
	state    EditState
	target   string
	original string
	value    string
	err      error
}

// NewRowEditor returns an editor in the Viewing state.
func NewRowEditor(opts EditorOptions) *RowEditor {
	return &RowEditor{opts: opts}
}

func (e *RowEditor) State() EditState { return e.state }

// Target is the id of the row being edited.
func (e *RowEditor) Target() string { return e.target }

// Value is the current typed value.
func (e *RowEditor) Value() string { return e.value }

// Err is the last validation error.
func (e *RowEditor) Err() error { return e.err }

// Begin starts editing target with its current value.
func (e *RowEditor) Begin(target, current string) {
	e.state = Editing
	e.target = target
	e.original = current
	e.value = current
	e.err = nil
}

// SetValue records typed input.
func (e *RowEditor) SetValue(v string) {
	if e.state != Editing {
		return
	}
	e.value = v
	e.err = nil
}

// Commit validates the typed value. On success the editor returns to Viewing
// and the trimmed value is returned with changed reporting whether it differs
// from the original.
func (e *RowEditor) Commit() (value string, changed bool, err error) {
	if e.state != Editing {
		return "", false, nil
	}
	v := strings.TrimSpace(e.value)
	if v == "" && !e.opts.AllowEmpty {
		e.err = ErrEmptyValue
		return "", false, e.err
	}
	if e.opts.Numeric && v != "" {
		if _, perr := strconv.ParseFloat(v, 64); perr != nil {
			e.err = ErrInvalidNumber
			return "", false, e.err
		}
	}
	changed = v != e.original
	e.reset()
	return v, changed, nil
}

// Cancel discards typed changes.
func (e *RowEditor) Cancel() {
	e.reset()
}

// Drop ends editing if target is the row being edited, e.g. after a delete.
func (e *RowEditor) Drop(target string) {
	if e.state == Editing && e.target == target {
		e.reset()
	}
}

// Outcome is the result of a key press while editing.
type Outcome int

const (
	Unhandled Outcome = iota
	Committed
	Canceled
	Invalid
)

// HandleKey maps enter to Commit and esc to Cancel. target is the row the
// key applied to.
func (e *RowEditor) HandleKey(key string) (outcome Outcome, target, value string) {
	if e.state != Editing {
		return Unhandled, "", ""
	}
	target = e.target
	switch key {
	case "enter":
		v, _, err := e.Commit()
		if err != nil {
			return Invalid, target, ""
		}
		return Committed, target, v
	case "esc":
		e.Cancel()
		return Canceled, target, ""
	}
	return Unhandled, target, ""
}

func (e *RowEditor) reset() {
	e.state = Viewing
	e.target = ""
	e.original = ""
	e.value = ""
	e.err = nil
}
