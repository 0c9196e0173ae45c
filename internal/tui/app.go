// Package tui is the terminal authoring wizard. It renders and drives the
// workflow context; all transition rules live in the workflow package, the
// model here only maps keys to actions and paints the result.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/bioedlabs/controlbench/internal/models"
	"github.com/bioedlabs/controlbench/internal/session"
	"github.com/bioedlabs/controlbench/internal/workflow"
)

// Run starts the wizard against the given gateway. token may be empty, in
// which case the session step asks the user to choose a mode. shareBase is
// the URL group share links point at.
func Run(gw workflow.Gateway, token, shareBase string, log *zap.Logger) error {
	m := newModel(gw, token, shareBase, log)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// Screens. The session screen runs before the workflow context exists; the
// rest mirror the workflow states.
const (
	screenSession = iota
	screenQuestions
	screenDetails
	screenTable
	screenReview
)

// Overlay input modes on the table screen.
const (
	modeCells = iota
	modeRename
	modeDifferent
)

type model struct {
	gw        workflow.Gateway
	ctx       *workflow.Context
	log       *zap.Logger
	shareBase string

	screen int
	mode   int

	// session screen
	groupMode  bool
	groupToken string

	// question list cursor
	qCursor int

	// table cursors
	col int
	row int

	renameInput textinput.Model
	descInput   textarea.Model
	colorCursor int

	busy   bool
	status string
	isErr  bool

	styles styles
	width  int
	height int

	quitting bool
}

func newModel(gw workflow.Gateway, token, shareBase string, log *zap.Logger) model {
	ri := textinput.New()
	ri.Placeholder = "control name"
	ri.CharLimit = 60
	ri.Width = 30

	ta := textarea.New()
	ta.Placeholder = "How does this control differ?"
	ta.ShowLineNumbers = false
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.CharLimit = 300

	m := model{
		gw:          gw,
		log:         log,
		shareBase:   shareBase,
		renameInput: ri,
		descInput:   ta,
		styles:      newStyles(),
		groupToken:  session.NewGroupToken(),
	}

	token = session.Resolve(token)
	if token != "" {
		m.ctx = workflow.New(token)
		m.screen = screenQuestions
		m.busy = true
	} else {
		m.screen = screenSession
	}
	return m
}

// Messages produced by gateway commands.
type questionsLoadedMsg struct{ err error }
type submitDoneMsg struct {
	report *workflow.SubmitReport
	err    error
}
type peersLoadedMsg struct{ err error }
type batchRemovedMsg struct{ err error }

func (m model) loadQuestionsCmd() tea.Cmd {
	ctx := m.ctx
	gw := m.gw
	return func() tea.Msg { return questionsLoadedMsg{err: ctx.LoadQuestions(gw)} }
}

func (m model) submitCmd() tea.Cmd {
	ctx := m.ctx
	gw := m.gw
	return func() tea.Msg {
		report, err := ctx.Submit(gw)
		return submitDoneMsg{report: report, err: err}
	}
}

func (m model) refreshCmd() tea.Cmd {
	ctx := m.ctx
	gw := m.gw
	return func() tea.Msg { return peersLoadedMsg{err: ctx.Refresh(gw)} }
}

func (m model) backToAuthoringCmd() tea.Cmd {
	ctx := m.ctx
	gw := m.gw
	return func() tea.Msg { return batchRemovedMsg{err: ctx.BackToAuthoring(gw)} }
}

func (m model) Init() tea.Cmd {
	if m.ctx != nil {
		return m.loadQuestionsCmd()
	}
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case questionsLoadedMsg:
		m.busy = false
		if msg.err != nil {
			return m.fail("loading questions", msg.err), nil
		}
		m.status = ""
		return m, nil

	case submitDoneMsg:
		m.busy = false
		if msg.err != nil {
			return m.fail("submitting", msg.err), nil
		}
		if msg.report.PartialFailure() {
			m.isErr = true
			m.status = fmt.Sprintf("stored %d columns, %d failed", len(msg.report.IDs), len(msg.report.Failed))
			for i, err := range msg.report.Failed {
				m.log.Warn("column not stored", zap.Int("column", i), zap.Error(err))
			}
		} else {
			m.isErr = false
			m.status = fmt.Sprintf("stored %d control columns", len(msg.report.IDs))
		}
		m.screen = screenReview
		m.busy = true
		return m, m.refreshCmd()

	case peersLoadedMsg:
		m.busy = false
		if msg.err != nil {
			return m.fail("loading submissions", msg.err), nil
		}
		return m, nil

	case batchRemovedMsg:
		m.busy = false
		if msg.err != nil {
			return m.fail("removing batch", msg.err), nil
		}
		m.screen = screenTable
		m.isErr = false
		m.status = "batch removed, edit and resubmit"
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		return m.handleKey(msg)
	}

	if m.mode == modeRename {
		var cmd tea.Cmd
		m.renameInput, cmd = m.renameInput.Update(msg)
		return m, cmd
	}
	if m.mode == modeDifferent {
		var cmd tea.Cmd
		m.descInput, cmd = m.descInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.screen {
	case screenSession:
		return m.handleSessionKey(msg)
	case screenQuestions:
		return m.handleQuestionsKey(msg)
	case screenDetails:
		return m.handleDetailsKey(msg)
	case screenTable:
		switch m.mode {
		case modeRename:
			return m.handleRenameKey(msg)
		case modeDifferent:
			return m.handleDifferentKey(msg)
		default:
			return m.handleTableKey(msg)
		}
	case screenReview:
		return m.handleReviewKey(msg)
	}
	return m, nil
}

func (m model) handleSessionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "j", "down", "k", "up", "tab", "g", "i":
		m.groupMode = !m.groupMode
		return m, nil
	case "enter":
		token := session.Individual
		if m.groupMode {
			token = m.groupToken
		}
		m.ctx = workflow.New(token)
		m.screen = screenQuestions
		m.busy = true
		return m, m.loadQuestionsCmd()
	}
	return m, nil
}

func (m model) handleQuestionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "k", "up":
		if m.qCursor > 0 {
			m.qCursor--
		}
	case "j", "down":
		if m.qCursor < len(m.ctx.Questions)-1 {
			m.qCursor++
		}
	case "enter":
		if len(m.ctx.Questions) == 0 {
			return m, nil
		}
		if err := m.ctx.SelectQuestion(m.ctx.Questions[m.qCursor].ID); err != nil {
			return m.fail("selecting question", err), nil
		}
		m.screen = screenDetails
		m.status = ""
	}
	return m, nil
}

func (m model) handleDetailsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "b", "esc":
		if err := m.ctx.BackToSelection(); err != nil {
			return m.fail("going back", err), nil
		}
		m.screen = screenQuestions
	case "enter":
		if err := m.ctx.Lock(); err != nil {
			return m.fail("locking question", err), nil
		}
		m.screen = screenTable
		m.mode = modeCells
		m.col, m.row = 0, 0
		if len(m.ctx.Columns) == 0 {
			m.ctx.AddColumn()
		}
		m.status = ""
	}
	return m, nil
}

func (m model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "k", "up":
		if m.row > 0 {
			m.row--
		}
	case "j", "down":
		if m.row < m.ctx.Rows()-1 {
			m.row++
		}
	case "h", "left":
		if m.col > 0 {
			m.col--
		}
	case "l", "right":
		if m.col < len(m.ctx.Columns)-1 {
			m.col++
		}

	case "m":
		if err := m.ctx.SetCell(m.col, m.row, models.ValueMatch); err != nil {
			return m.fail("setting cell", err), nil
		}
		m.clearStatus()
	case "a":
		if err := m.ctx.SetCell(m.col, m.row, models.ValueAbsent); err != nil {
			return m.fail("setting cell", err), nil
		}
		m.clearStatus()
	case "d":
		if err := m.ctx.BeginDifferent(m.col, m.row); err != nil {
			return m.fail("opening dialog", err), nil
		}
		m.mode = modeDifferent
		m.descInput.SetValue(m.ctx.Edit.Description)
		m.descInput.Focus()
		m.colorCursor = paletteIndex(m.ctx.Edit.Color)
		return m, textarea.Blink

	case "n":
		if err := m.ctx.AddColumn(); err != nil {
			return m.fail("adding column", err), nil
		}
		m.col = len(m.ctx.Columns) - 1
		m.clearStatus()
	case "x":
		if err := m.ctx.DeleteColumn(m.col); err != nil {
			return m.fail("deleting column", err), nil
		}
		if m.col >= len(m.ctx.Columns) && m.col > 0 {
			m.col--
		}
		m.clearStatus()
	case "r":
		if len(m.ctx.Columns) == 0 {
			return m, nil
		}
		m.mode = modeRename
		m.renameInput.SetValue(m.ctx.Names[m.col])
		m.renameInput.Focus()
		return m, textinput.Blink

	case "s":
		if !m.ctx.CanSubmit() {
			m.isErr = true
			m.status = "name every column and fill every cell before submitting"
			return m, nil
		}
		m.busy = true
		m.status = "submitting..."
		m.isErr = false
		return m, m.submitCmd()

	case "v":
		if err := m.ctx.Skip(); err != nil {
			return m.fail("skipping", err), nil
		}
		m.screen = screenReview
		m.busy = true
		return m, m.refreshCmd()
	}
	return m, nil
}

func (m model) handleRenameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeCells
		m.renameInput.Blur()
		return m, nil
	case "enter":
		if err := m.ctx.RenameColumn(m.col, m.renameInput.Value()); err != nil {
			return m.fail("renaming column", err), nil
		}
		m.mode = modeCells
		m.renameInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.renameInput, cmd = m.renameInput.Update(msg)
	return m, cmd
}

func (m model) handleDifferentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.ctx.CancelDifferent()
		m.mode = modeCells
		m.descInput.Blur()
		return m, nil

	case "tab":
		m.colorCursor = (m.colorCursor + 1) % len(workflow.ColorPalette)
		m.ctx.SetDifferentColor(workflow.ColorPalette[m.colorCursor])
		return m, nil
	case "shift+tab":
		m.colorCursor = (m.colorCursor + len(workflow.ColorPalette) - 1) % len(workflow.ColorPalette)
		m.ctx.SetDifferentColor(workflow.ColorPalette[m.colorCursor])
		return m, nil

	case "enter":
		m.ctx.SetDifferentDescription(m.descInput.Value())
		if err := m.ctx.CommitDifferent(); err != nil {
			m.isErr = true
			m.status = "a description is required"
			return m, nil
		}
		m.mode = modeCells
		m.descInput.Blur()
		m.clearStatus()
		return m, nil
	}

	var cmd tea.Cmd
	m.descInput, cmd = m.descInput.Update(msg)
	return m, cmd
}

func (m model) handleReviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "r":
		m.busy = true
		return m, m.refreshCmd()
	case "b":
		m.busy = true
		m.status = "removing this batch..."
		return m, m.backToAuthoringCmd()
	case "o":
		m.ctx.StartOver()
		m.screen = screenQuestions
		m.qCursor = 0
		m.clearStatus()
	}
	return m, nil
}

func (m model) fail(action string, err error) model {
	m.log.Warn(action+" failed", zap.Error(err))
	m.isErr = true
	m.status = err.Error()
	return m
}

func (m *model) clearStatus() {
	m.status = ""
	m.isErr = false
}

func paletteIndex(color string) int {
	for i, c := range workflow.ColorPalette {
		if c == color {
			return i
		}
	}
	return 0
}
