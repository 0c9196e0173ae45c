package models

import "strings"

// ControlValue is the categorical choice for one cell of an authored control
// column. The empty value means the cell has not been defined yet.
type ControlValue string

const (
	ValueEmpty     ControlValue = ""
	ValueMatch     ControlValue = "MATCH"
	ValueAbsent    ControlValue = "ABSENT"
	ValueDifferent ControlValue = "DIFFERENT"
)

// Valid reports whether v is one of the four legal cell values.
func (v ControlValue) Valid() bool {
	switch v {
	case ValueEmpty, ValueMatch, ValueAbsent, ValueDifferent:
		return true
	}
	return false
}

// ControlSelection is one cell of one authored control column. Description is
// required (trimmed non-empty) and Color set only when Value is DIFFERENT.
type ControlSelection struct {
	Value       ControlValue `json:"value"`
	Description string       `json:"description"`
	Color       string       `json:"color,omitempty"`
}

// Complete reports whether the cell satisfies the submit invariant: a
// non-empty value, and for DIFFERENT a non-empty trimmed description.
func (s ControlSelection) Complete() bool {
	switch s.Value {
	case ValueMatch, ValueAbsent:
		return true
	case ValueDifferent:
		return strings.TrimSpace(s.Description) != ""
	default:
		return false
	}
}

// DefaultControlName is used when a submission arrives without a name.
const DefaultControlName = "NEW CONTROL"

// Submission is one persisted control column. Selections are in feature-row
// order for the question. Documents are created and deleted, never updated.
type Submission struct {
	ID                   string             `json:"_id,omitempty"`
	QuestionID           int                `json:"questionId"`
	NewControlSelections []ControlSelection `json:"newControlSelections"`
	ControlName          string             `json:"controlName"`
	SessionID            string             `json:"sessionId,omitempty"`
	CreatedAt            string             `json:"createdAt"`
}
