package tui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/bioedlabs/controlbench/internal/models"
	"github.com/bioedlabs/controlbench/internal/session"
	"github.com/bioedlabs/controlbench/internal/workflow"
)

const (
	featureColWidth = 28
	cellWidth       = 14
)

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.title.Render("NEGATIVE CONTROL BENCH"))
	if m.ctx != nil {
		b.WriteString("  ")
		if session.IsIndividual(m.ctx.Session) {
			b.WriteString(m.styles.faint.Render("individual"))
		} else {
			b.WriteString(m.styles.faint.Render("group " + m.ctx.Session))
		}
	}
	b.WriteString("\n")
	b.WriteString(m.styles.helpSep.Render(strings.Repeat("─", 60)))
	b.WriteString("\n\n")

	switch m.screen {
	case screenSession:
		b.WriteString(m.viewSession())
	case screenQuestions:
		b.WriteString(m.viewQuestions())
	case screenDetails:
		b.WriteString(m.viewDetails())
	case screenTable:
		b.WriteString(m.viewTable())
	case screenReview:
		b.WriteString(m.viewReview())
	}

	b.WriteString("\n")
	if m.busy {
		b.WriteString(m.styles.faint.Render("working..."))
		b.WriteString("\n")
	} else if m.status != "" {
		if m.isErr {
			b.WriteString(m.styles.errLine.Render(m.status))
		} else {
			b.WriteString(m.styles.okLine.Render(m.status))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.renderHelp())

	return m.styles.container.Render(b.String())
}

func (m model) viewSession() string {
	var b strings.Builder
	b.WriteString(m.styles.subtitle.Render("HOW ARE YOU WORKING TODAY?"))
	b.WriteString("\n\n")

	options := []string{"Work individually", "Start a group session"}
	for i, opt := range options {
		active := (i == 1) == m.groupMode
		if active {
			b.WriteString("  " + m.styles.cursor.Render(" "+opt+" "))
		} else {
			b.WriteString("   " + m.styles.unselected.Render(opt))
		}
		b.WriteString("\n")
	}

	if m.groupMode {
		b.WriteString("\n")
		b.WriteString(m.styles.faint.Render("  share this link with your group:"))
		b.WriteString("\n  ")
		b.WriteString(m.styles.selected.Render(session.ShareLink(m.shareBase, m.groupToken)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) viewQuestions() string {
	var b strings.Builder
	b.WriteString(m.styles.subtitle.Render("PICK A RESEARCH QUESTION"))
	b.WriteString("\n\n")

	if len(m.ctx.Questions) == 0 {
		b.WriteString(m.styles.faint.Render("  no questions loaded"))
		b.WriteString("\n")
		return b.String()
	}
	for i, q := range m.ctx.Questions {
		line := fmt.Sprintf("%d. %s", q.ID, q.Question)
		if i == m.qCursor {
			b.WriteString("  " + m.styles.cursor.Render(" "+line+" "))
		} else {
			b.WriteString("   " + m.styles.unselected.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) viewDetails() string {
	q := m.ctx.Question
	var b strings.Builder
	b.WriteString(m.styles.subtitle.Render(q.Question))
	b.WriteString("\n\n")
	b.WriteString(m.styles.faint.Render("  independent variable: "))
	b.WriteString(q.IndependentVariable)
	b.WriteString("\n")
	b.WriteString(m.styles.faint.Render("  dependent variable:   "))
	b.WriteString(q.DependentVariable)
	b.WriteString("\n\n")
	b.WriteString(m.styles.subtitle.Render("FEATURES AND THE COMPLETE NEGATIVE CONTROL"))
	b.WriteString("\n")
	for _, f := range q.MethodologicalConsiderations {
		b.WriteString("  • " + m.styles.selected.Render(f.Feature))
		b.WriteString("  ")
		b.WriteString(m.styles.completeStyle(f.Option1).Render(" " + strings.ToUpper(f.Option1) + " "))
		if f.Option1Text != "" {
			b.WriteString(m.styles.faint.Render("  " + f.Option1Text))
		}
		b.WriteString("\n")
		if f.Description != "" {
			b.WriteString(m.styles.faint.Render("      " + f.Description))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(m.styles.faint.Render("  once locked, the question cannot be changed"))
	b.WriteString("\n")
	return b.String()
}

func (m model) viewTable() string {
	var b strings.Builder
	b.WriteString(m.styles.subtitle.Render("AUTHOR YOUR NEGATIVE CONTROLS"))
	b.WriteString("  ")
	b.WriteString(m.styles.faint.Render(fmt.Sprintf("%d/%d columns", len(m.ctx.Columns), workflow.MaxControlColumns)))
	b.WriteString("\n\n")

	// header row: two fixed reference columns, then the authored ones
	b.WriteString(pad("", featureColWidth))
	b.WriteString(m.styles.faint.Render(pad("INTERVENTION", cellWidth)))
	b.WriteString(" ")
	b.WriteString(m.styles.faint.Render(pad("COMPLETE", cellWidth)))
	b.WriteString(" ")
	for i, name := range m.ctx.Names {
		label := name
		if strings.TrimSpace(label) == "" {
			label = "(unnamed)"
		}
		cell := pad(label, cellWidth)
		if i == m.col && m.mode == modeCells {
			b.WriteString(m.styles.cursor.Render(cell))
		} else {
			b.WriteString(m.styles.selected.Render(cell))
		}
		b.WriteString(" ")
	}
	b.WriteString("\n")

	for r, f := range m.ctx.Question.MethodologicalConsiderations {
		label := f.Feature
		if f.AllowsAbsent() {
			label += " *"
		}
		b.WriteString(m.styles.unselected.Render(pad(label, featureColWidth)))
		b.WriteString(m.styles.intervention.Render(pad("BASE", cellWidth)))
		b.WriteString(" ")
		b.WriteString(m.styles.completeStyle(f.Option1).Render(pad(strings.ToUpper(f.Option1), cellWidth)))
		b.WriteString(" ")
		for c := range m.ctx.Columns {
			b.WriteString(m.renderCell(c, r))
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}
	b.WriteString(m.styles.faint.Render("\n  * rows where ABSENT may be chosen\n"))

	switch m.mode {
	case modeRename:
		b.WriteString("\n")
		b.WriteString(m.styles.subtitle.Render("RENAME COLUMN"))
		b.WriteString("\n  ")
		b.WriteString(m.renameInput.View())
		b.WriteString("\n")
	case modeDifferent:
		b.WriteString("\n")
		b.WriteString(m.styles.subtitle.Render("HOW IS IT DIFFERENT?"))
		b.WriteString("\n")
		b.WriteString(m.descInput.View())
		b.WriteString("\n\n  ")
		for i, color := range workflow.ColorPalette {
			swatch := "  "
			if i == m.colorCursor {
				swatch = "▐▌"
			}
			b.WriteString(m.styles.differentStyle(color).Render(swatch))
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) renderCell(c, r int) string {
	sel := m.ctx.Columns[c][r]
	var text string
	switch sel.Value {
	case models.ValueMatch:
		text = "MATCH"
	case models.ValueAbsent:
		text = "ABSENT"
	case models.ValueDifferent:
		text = "DIFFERENT"
	default:
		text = "-"
	}
	cell := pad(text, cellWidth)

	if c == m.col && r == m.row && m.mode == modeCells {
		return m.styles.cursor.Render(cell)
	}
	switch sel.Value {
	case models.ValueMatch:
		return m.styles.match.Render(cell)
	case models.ValueAbsent:
		return m.styles.absent.Render(cell)
	case models.ValueDifferent:
		color := sel.Color
		if color == "" {
			color = workflow.DefaultColor
		}
		return m.styles.differentStyle(color).Render(cell)
	default:
		return m.styles.cellBase.Render(cell)
	}
}

func (m model) viewReview() string {
	var b strings.Builder
	b.WriteString(m.styles.subtitle.Render("SUBMISSIONS FOR THIS QUESTION"))
	b.WriteString("  ")
	b.WriteString(m.styles.faint.Render(fmt.Sprintf("showing %d of %d", len(m.ctx.Peers), m.ctx.PeerTotal)))
	b.WriteString("\n\n")

	if len(m.ctx.Peers) == 0 {
		b.WriteString(m.styles.faint.Render("  nothing submitted yet"))
		b.WriteString("\n")
		return b.String()
	}

	mine := map[string]bool{}
	for _, id := range m.ctx.BatchIDs {
		mine[id] = true
	}

	b.WriteString(pad("", featureColWidth))
	b.WriteString(m.styles.faint.Render(pad("COMPLETE", cellWidth)))
	b.WriteString("\n")

	for r, f := range m.ctx.Question.MethodologicalConsiderations {
		b.WriteString(m.styles.unselected.Render(pad(f.Feature, featureColWidth)))
		b.WriteString(m.styles.completeStyle(f.Option1).Render(pad(strings.ToUpper(f.Option1), cellWidth)))
		b.WriteString(" ")
		for _, sub := range m.ctx.Peers {
			if r < len(sub.NewControlSelections) {
				b.WriteString(m.renderPeerCell(sub.NewControlSelections[r]))
			} else {
				b.WriteString(m.styles.cellBase.Render(pad("-", cellWidth)))
			}
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}

	b.WriteString(pad("", featureColWidth))
	b.WriteString(pad("", cellWidth))
	b.WriteString(" ")
	for _, sub := range m.ctx.Peers {
		name := pad(sub.ControlName, cellWidth)
		if mine[sub.ID] {
			b.WriteString(m.styles.selected.Render(name))
		} else {
			b.WriteString(m.styles.unselected.Render(name))
		}
		b.WriteString(" ")
	}
	b.WriteString("\n")
	return b.String()
}

func (m model) renderPeerCell(sel models.ControlSelection) string {
	switch sel.Value {
	case models.ValueMatch:
		return m.styles.match.Render(pad("MATCH", cellWidth))
	case models.ValueAbsent:
		return m.styles.absent.Render(pad("ABSENT", cellWidth))
	case models.ValueDifferent:
		color := sel.Color
		if color == "" {
			color = workflow.DefaultColor
		}
		text := sel.Description
		if text == "" {
			text = "DIFFERENT"
		}
		return m.styles.differentStyle(color).Render(pad(text, cellWidth))
	default:
		return m.styles.cellBase.Render(pad("-", cellWidth))
	}
}

type keyBinding struct {
	key  string
	desc string
}

func (m model) keyBindings() []keyBinding {
	switch m.screen {
	case screenSession:
		return []keyBinding{{"j/k", "toggle"}, {"⏎", "start"}, {"q", "quit"}}
	case screenQuestions:
		return []keyBinding{{"j/k", "move"}, {"⏎", "select"}, {"q", "quit"}}
	case screenDetails:
		return []keyBinding{{"⏎", "lock & author"}, {"b", "back"}, {"q", "quit"}}
	case screenTable:
		switch m.mode {
		case modeRename:
			return []keyBinding{{"⏎", "save"}, {"esc", "cancel"}}
		case modeDifferent:
			return []keyBinding{{"tab", "color"}, {"⏎", "save"}, {"esc", "cancel"}}
		default:
			return []keyBinding{
				{"hjkl", "move"}, {"m/a/d", "set cell"}, {"r", "rename"},
				{"n/x", "add/remove column"}, {"s", "submit"}, {"v", "view all"}, {"q", "quit"},
			}
		}
	case screenReview:
		return []keyBinding{{"r", "refresh"}, {"b", "back to authoring"}, {"o", "start over"}, {"q", "quit"}}
	}
	return nil
}

func (m model) renderHelp() string {
	var parts []string
	for _, kb := range m.keyBindings() {
		parts = append(parts, m.styles.helpKey.Render(kb.key)+m.styles.helpDesc.Render(":"+kb.desc))
	}
	return strings.Join(parts, m.styles.helpSep.Render("  /  "))
}

// pad fits s to a fixed display width. Control names and descriptions are
// free text, so truncation and fill must count cells, not bytes.
func pad(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		return runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}
