package tui

import (
	"context"
	"fmt"
	"unicode"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tripay/tripay/internal/payable"
)

// ---------------------------------------------------------------------------
// Table key handler
// ---------------------------------------------------------------------------

func (m model) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "Q":
		return m, m.signOutCmd()
	case "up", "k", "ctrl+p":
		if m.cursor > 0 {
			m.cursor--
		}
		m.ensureCursorInWindow()
		return m, nil
	case "down", "j", "ctrl+n":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
		m.ensureCursorInWindow()
		return m, nil
	case "left", "h":
		if m.col > 0 {
			m.col--
		}
		return m, nil
	case "right", "l":
		if m.col < len(editableColumns)-1 {
			m.col++
		}
		return m, nil
	case "enter":
		rec := m.currentRecord()
		if rec == nil {
			return m, nil
		}
		field := editableColumns[m.col]
		if field == payable.FieldStatus {
			// Status cycles in place rather than opening a text edit.
			next := nextStatus(rec.Status)
			id := rec.ID
			return m, m.mutateCmd(mutationDoneMsg{op: "update status", done: "Status: " + string(next)}, func(ctx context.Context) error {
				return m.backend.UpdateField(ctx, id, payable.StatusUpdate{Value: next})
			})
		}
		m.beginEdit(rec.ID, field)
		return m, nil
	case "a":
		draft := payable.NewDraft(m.now(), fmt.Sprintf("INV-%d", m.now().Unix()))
		return m, m.mutateCmd(mutationDoneMsg{op: "create", done: "Record added"}, func(ctx context.Context) error {
			return m.backend.Create(ctx, draft)
		})
	case "d":
		rec := m.currentRecord()
		if rec == nil {
			return m, nil
		}
		id := rec.ID
		return m, m.mutateCmd(mutationDoneMsg{op: "delete", done: "Record deleted"}, func(ctx context.Context) error {
			return m.backend.Remove(ctx, id)
		})
	case "/":
		m.searchMode = true
		return m, nil
	case "f":
		m.filter.Status = nextStatusFilter(m.filter.Status)
		m.applyFilter()
		return m, nil
	case "v":
		rec := m.currentRecord()
		if rec == nil {
			return m, nil
		}
		m.showDetail = true
		m.detailID = rec.ID
		m.detailField = ""
		return m, nil
	case "c":
		m.viewMode = viewCalendar
		return m, nil
	case "r":
		return m, m.saveReportCmd()
	case "esc":
		if m.filter.Search != "" {
			m.filter.Search = ""
			m.applyFilter()
		}
		return m, nil
	}
	return m, nil
}

// nextStatusFilter cycles all -> pending -> approved -> paid -> all.
func nextStatusFilter(cur string) string {
	order := []string{payable.StatusAll, string(payable.StatusPending), string(payable.StatusApproved), string(payable.StatusPaid)}
	for i, s := range order {
		if s == cur {
			return order[(i+1)%len(order)]
		}
	}
	return payable.StatusAll
}

// ---------------------------------------------------------------------------
// Inline edit key handler
// ---------------------------------------------------------------------------

func (m model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Cancel: drop the buffer, no mutation.
		m.clearEdit()
		return m, nil
	case "enter":
		return m.commitEdit()
	case "backspace":
		m.editBuf = trimLastRune(m.editBuf)
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	default:
		if r, ok := printableKey(msg); ok {
			m.editBuf += r
		}
		return m, nil
	}
}

// printableKey returns the pressed key as text when it is a single
// printable rune. Multi-rune strings like "enter" or "ctrl+c" are key
// names, not input.
func printableKey(msg tea.KeyMsg) (string, bool) {
	s := msg.String()
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r == utf8.RuneError || !unicode.IsPrint(r) {
		return "", false
	}
	return s, true
}

// trimLastRune drops the final rune rather than the final byte; stored
// values can hold multibyte text written by other clients.
func trimLastRune(s string) string {
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}

// commitEdit issues exactly one field update for the current target and
// clears the target whether or not the mutation later fails.
func (m model) commitEdit() (tea.Model, tea.Cmd) {
	id := m.editID
	field := m.editField
	buf := m.editBuf
	m.clearEdit()

	done := mutationDoneMsg{op: "update " + string(field), done: fieldLabel(field) + " saved"}
	switch field {
	case payable.FieldAmount:
		if !payable.AmountParsedClean(buf) {
			done.done = "Amount not a number, saved as 0.00"
			done.warn = true
		}
	case payable.FieldVendor:
		if match, ok := payable.SimilarVendor(m.state.Records, buf); ok {
			done.done = fmt.Sprintf("Vendor saved. Similar vendor exists: %q", match)
		}
	}

	upd := payable.ParseField(field, buf)
	return m, m.mutateCmd(done, func(ctx context.Context) error {
		return m.backend.UpdateField(ctx, id, upd)
	})
}

// ---------------------------------------------------------------------------
// Search key handler
// ---------------------------------------------------------------------------

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchMode = false
		m.filter.Search = ""
		m.applyFilter()
		return m, nil
	case "enter":
		// Keep the query active, just exit input mode.
		m.searchMode = false
		return m, nil
	case "backspace":
		if m.filter.Search != "" {
			m.filter.Search = trimLastRune(m.filter.Search)
			m.applyFilter()
		}
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	default:
		if r, ok := printableKey(msg); ok {
			m.filter.Search += r
			m.applyFilter()
		}
		return m, nil
	}
}

// ---------------------------------------------------------------------------
// Detail modal key handler
// ---------------------------------------------------------------------------

func (m model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.detailField != "" {
		return m.updateDetailEdit(msg)
	}
	switch msg.String() {
	case "esc", "v":
		m.showDetail = false
		return m, nil
	case "ctrl+c", "q":
		return m, tea.Quit
	case "n":
		m.detailField = payable.FieldNotes
		m.beginEdit(m.detailID, payable.FieldNotes)
		return m, nil
	case "o":
		m.detailField = payable.FieldContact
		m.beginEdit(m.detailID, payable.FieldContact)
		return m, nil
	case "d":
		id := m.detailID
		m.showDetail = false
		return m, m.mutateCmd(mutationDoneMsg{op: "delete", done: "Record deleted"}, func(ctx context.Context) error {
			return m.backend.Remove(ctx, id)
		})
	}
	return m, nil
}

func (m model) updateDetailEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.detailField = ""
		m.clearEdit()
		return m, nil
	case "enter":
		m.detailField = ""
		return m.commitEdit()
	case "backspace":
		m.editBuf = trimLastRune(m.editBuf)
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	default:
		if r, ok := printableKey(msg); ok {
			m.editBuf += r
		}
		return m, nil
	}
}

// ---------------------------------------------------------------------------
// Calendar key handler
// ---------------------------------------------------------------------------

func (m model) updateCalendar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "Q":
		return m, m.signOutCmd()
	case "c", "esc":
		m.viewMode = viewTable
		return m, nil
	case "[":
		m.calMonth--
		if m.calMonth < 1 {
			m.calMonth = 12
			m.calYear--
		}
		return m, nil
	case "]":
		m.calMonth++
		if m.calMonth > 12 {
			m.calMonth = 1
			m.calYear++
		}
		return m, nil
	case "r":
		return m, m.saveReportCmd()
	case "f":
		m.filter.Status = nextStatusFilter(m.filter.Status)
		m.applyFilter()
		return m, nil
	}
	return m, nil
}
