// Package workflow drives the control-authoring wizard: pick a question,
// lock it, author up to six control columns against the feature checklist,
// submit them, and review what the rest of the session submitted. The
// context is an explicit state machine so every transition can be tested
// without a rendering environment; the UI layer only renders it.
package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bioedlabs/controlbench/internal/models"
)

type State int

const (
	SelectingQuestion State = iota
	DetailsShown
	Locked
	Reviewing
)

func (s State) String() string {
	switch s {
	case SelectingQuestion:
		return "SelectingQuestion"
	case DetailsShown:
		return "DetailsShown"
	case Locked:
		return "Locked"
	case Reviewing:
		return "Reviewing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MaxControlColumns caps user-added columns per authoring pass.
const MaxControlColumns = 6

// PeerPageLimit bounds the review table to the most recent submissions.
const PeerPageLimit = 15

// ColorPalette is the fixed set of colors offered for DIFFERENT cells.
var ColorPalette = []string{
	"#ff7ef2",
	"#ee8d7f",
	"#39e1f8",
	"#f03add",
	"#00a3ff",
	"#00c802",
	"#ff5a00",
	"#a0ff00",
}

// DefaultColor is preselected when a DIFFERENT edit opens.
const DefaultColor = "#ff7ef2"

// Gateway is the submission-store surface the workflow talks to. The HTTP
// client implements it for real use; tests plug in a fake.
type Gateway interface {
	Questions() ([]models.Question, error)
	Submit(questionID int, column []models.ControlSelection, name, sessionID string) (models.Submission, error)
	List(questionID int, sessionID string, page, limit int) ([]models.Submission, int, error)
	Delete(ids []string) (int, error)
}

var (
	ErrWrongState       = errors.New("action not available in current state")
	ErrUnknownQuestion  = errors.New("unknown question")
	ErrColumnLimit      = errors.New("control column limit reached")
	ErrAbsentNotAllowed = errors.New("ABSENT is not offered for this feature")
	ErrNotEligible      = errors.New("control columns are not ready to submit")
	ErrNoOpenEdit       = errors.New("no DIFFERENT edit in progress")
	ErrEmptyDescription = errors.New("description is required for DIFFERENT")
	ErrBadColor         = errors.New("color is not in the palette")
)

// DifferentEdit is an open DIFFERENT sub-dialog for one cell. The cell is
// only written on commit, so canceling leaves its previous value intact.
type DifferentEdit struct {
	Col         int
	Row         int
	Description string
	Color       string
}

// Context is the full authoring state: session token, catalog, the locked
// question, authored columns, the ids created by the last submit pass, and
// the peer submissions shown while reviewing.
type Context struct {
	Session   string
	Questions []models.Question
	Question  *models.Question
	State     State

	Names   []string
	Columns [][]models.ControlSelection
	Edit    *DifferentEdit

	BatchIDs  []string
	Peers     []models.Submission
	PeerTotal int
}

func New(sessionToken string) *Context {
	return &Context{Session: sessionToken, State: SelectingQuestion}
}

// LoadQuestions fetches the catalog. Safe to call in any state.
func (c *Context) LoadQuestions(gw Gateway) error {
	qs, err := gw.Questions()
	if err != nil {
		return err
	}
	c.Questions = qs
	return nil
}

// Rows returns the number of feature rows for the selected question.
func (c *Context) Rows() int {
	if c.Question == nil {
		return 0
	}
	return len(c.Question.MethodologicalConsiderations)
}

// SelectQuestion picks a question and shows its details.
func (c *Context) SelectQuestion(id int) error {
	if c.State != SelectingQuestion {
		return ErrWrongState
	}
	for i := range c.Questions {
		if c.Questions[i].ID == id {
			c.Question = &c.Questions[i]
			c.State = DetailsShown
			return nil
		}
	}
	return ErrUnknownQuestion
}

// BackToSelection returns to the question list and clears all authored
// columns.
func (c *Context) BackToSelection() error {
	if c.State != DetailsShown {
		return ErrWrongState
	}
	c.Question = nil
	c.clearColumns()
	c.State = SelectingQuestion
	return nil
}

// Lock fixes the question and opens the authoring table.
func (c *Context) Lock() error {
	if c.State != DetailsShown {
		return ErrWrongState
	}
	c.State = Locked
	return nil
}

// AddColumn appends an empty control column. At the cap it is a rejected
// no-op.
func (c *Context) AddColumn() error {
	if c.State != Locked {
		return ErrWrongState
	}
	if len(c.Columns) >= MaxControlColumns {
		return ErrColumnLimit
	}
	c.Names = append(c.Names, "")
	c.Columns = append(c.Columns, make([]models.ControlSelection, c.Rows()))
	return nil
}

// DeleteColumn removes the column at index i, compacting the rest in order.
func (c *Context) DeleteColumn(i int) error {
	if c.State != Locked {
		return ErrWrongState
	}
	if i < 0 || i >= len(c.Columns) {
		return fmt.Errorf("no control column %d", i)
	}
	c.Names = append(c.Names[:i], c.Names[i+1:]...)
	c.Columns = append(c.Columns[:i], c.Columns[i+1:]...)
	if c.Edit != nil {
		switch {
		case c.Edit.Col == i:
			c.Edit = nil
		case c.Edit.Col > i:
			c.Edit.Col--
		}
	}
	return nil
}

// RenameColumn sets a column's control name.
func (c *Context) RenameColumn(i int, name string) error {
	if c.State != Locked {
		return ErrWrongState
	}
	if i < 0 || i >= len(c.Names) {
		return fmt.Errorf("no control column %d", i)
	}
	c.Names[i] = name
	return nil
}

// SetCell writes MATCH or ABSENT directly, clearing any prior description
// and color. ABSENT is only legal on rows whose feature allows it.
// DIFFERENT goes through BeginDifferent/CommitDifferent instead.
func (c *Context) SetCell(col, row int, v models.ControlValue) error {
	if c.State != Locked {
		return ErrWrongState
	}
	if err := c.checkCell(col, row); err != nil {
		return err
	}
	switch v {
	case models.ValueMatch:
	case models.ValueAbsent:
		if !c.Question.MethodologicalConsiderations[row].AllowsAbsent() {
			return ErrAbsentNotAllowed
		}
	default:
		return fmt.Errorf("cannot set cell to %q directly", v)
	}
	c.Columns[col][row] = models.ControlSelection{Value: v}
	return nil
}

// BeginDifferent opens the description/color dialog for one cell, seeded
// from the cell's current DIFFERENT values if it has any.
func (c *Context) BeginDifferent(col, row int) error {
	if c.State != Locked {
		return ErrWrongState
	}
	if err := c.checkCell(col, row); err != nil {
		return err
	}
	edit := &DifferentEdit{Col: col, Row: row, Color: DefaultColor}
	if cur := c.Columns[col][row]; cur.Value == models.ValueDifferent {
		edit.Description = cur.Description
		if cur.Color != "" {
			edit.Color = cur.Color
		}
	}
	c.Edit = edit
	return nil
}

// SetDifferentColor picks a palette color for the open edit.
func (c *Context) SetDifferentColor(color string) error {
	if c.Edit == nil {
		return ErrNoOpenEdit
	}
	for _, p := range ColorPalette {
		if p == color {
			c.Edit.Color = color
			return nil
		}
	}
	return ErrBadColor
}

// SetDifferentDescription updates the description of the open edit.
func (c *Context) SetDifferentDescription(s string) error {
	if c.Edit == nil {
		return ErrNoOpenEdit
	}
	c.Edit.Description = s
	return nil
}

// CommitDifferent writes the edited cell. The description must be
// non-empty after trimming.
func (c *Context) CommitDifferent() error {
	if c.Edit == nil {
		return ErrNoOpenEdit
	}
	desc := strings.TrimSpace(c.Edit.Description)
	if desc == "" {
		return ErrEmptyDescription
	}
	c.Columns[c.Edit.Col][c.Edit.Row] = models.ControlSelection{
		Value:       models.ValueDifferent,
		Description: desc,
		Color:       c.Edit.Color,
	}
	c.Edit = nil
	return nil
}

// CancelDifferent discards the open edit; the cell keeps its pre-edit
// value.
func (c *Context) CancelDifferent() {
	c.Edit = nil
}

// ColumnEligible reports whether column i could be submitted on its own:
// named, every row defined, every DIFFERENT row described.
func (c *Context) ColumnEligible(i int) bool {
	if i < 0 || i >= len(c.Columns) {
		return false
	}
	if strings.TrimSpace(c.Names[i]) == "" {
		return false
	}
	for _, sel := range c.Columns[i] {
		if !sel.Complete() {
			return false
		}
	}
	return true
}

// CanSubmit is the validity predicate gating the submit action: at least
// one column, and every column eligible.
func (c *Context) CanSubmit() bool {
	if c.State != Locked || len(c.Columns) == 0 {
		return false
	}
	for i := range c.Columns {
		if !c.ColumnEligible(i) {
			return false
		}
	}
	return true
}

// SubmitReport collects the outcome of one submit pass: the ids created
// and, per column index, any failure. Failures do not abort the remaining
// columns.
type SubmitReport struct {
	IDs    []string
	Failed map[int]error
}

// PartialFailure reports whether some columns failed to store.
func (r *SubmitReport) PartialFailure() bool {
	return len(r.Failed) > 0
}

// Submit sends one create request per authored column, sequentially, and
// enters Reviewing regardless of partial failure. The created ids are kept
// so BackToAuthoring can undo exactly this batch.
func (c *Context) Submit(gw Gateway) (*SubmitReport, error) {
	if c.State != Locked {
		return nil, ErrWrongState
	}
	if !c.CanSubmit() {
		return nil, ErrNotEligible
	}

	report := &SubmitReport{Failed: map[int]error{}}
	for i, column := range c.Columns {
		sub, err := gw.Submit(c.Question.ID, column, strings.TrimSpace(c.Names[i]), c.Session)
		if err != nil {
			report.Failed[i] = err
			continue
		}
		report.IDs = append(report.IDs, sub.ID)
	}

	c.BatchIDs = report.IDs
	c.State = Reviewing
	return report, nil
}

// Skip bypasses authoring and goes straight to reviewing peer submissions.
func (c *Context) Skip() error {
	if c.State != Locked {
		return ErrWrongState
	}
	c.BatchIDs = nil
	c.State = Reviewing
	return nil
}

// Refresh re-fetches the peer submissions for the locked question and
// session. Valid while reviewing; a failure leaves the current page as-is.
func (c *Context) Refresh(gw Gateway) error {
	if c.State != Reviewing {
		return ErrWrongState
	}
	subs, total, err := gw.List(c.Question.ID, c.Session, 1, PeerPageLimit)
	if err != nil {
		return err
	}
	c.Peers = subs
	c.PeerTotal = total
	return nil
}

// BackToAuthoring returns to the table and deletes only the submissions
// created by this pass, so an edit/resubmit cycle does not accumulate
// duplicates. Peer data from others is never touched.
func (c *Context) BackToAuthoring(gw Gateway) error {
	if c.State != Reviewing {
		return ErrWrongState
	}
	if len(c.BatchIDs) > 0 {
		if _, err := gw.Delete(c.BatchIDs); err != nil {
			return err
		}
		c.BatchIDs = nil
	}
	c.Peers = nil
	c.PeerTotal = 0
	c.State = Locked
	return nil
}

// StartOver resets to question selection. Committed submissions stay.
func (c *Context) StartOver() {
	c.Question = nil
	c.clearColumns()
	c.BatchIDs = nil
	c.Peers = nil
	c.PeerTotal = 0
	c.State = SelectingQuestion
}

func (c *Context) clearColumns() {
	c.Names = nil
	c.Columns = nil
	c.Edit = nil
}

func (c *Context) checkCell(col, row int) error {
	if col < 0 || col >= len(c.Columns) {
		return fmt.Errorf("no control column %d", col)
	}
	if row < 0 || row >= c.Rows() {
		return fmt.Errorf("no feature row %d", row)
	}
	return nil
}
