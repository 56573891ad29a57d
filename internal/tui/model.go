// Package tui is the dashboard surface: a table of payables with inline cell
// editing, a calendar view, a detail modal, live refresh from the record
// adapter, and a session gate that drops back to the login prompt when the
// session ends.
package tui

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tripay/tripay/internal/adapter"
	"github.com/tripay/tripay/internal/identity"
	"github.com/tripay/tripay/internal/logging"
	"github.com/tripay/tripay/internal/payable"
)

const appName = "Tripay"

// View modes
const (
	viewTable = iota
	viewCalendar
)

const noticeTTL = 3 * time.Second

// noticeTick is a test seam for tea.Tick.
var noticeTick = tea.Tick

// editableColumns are the table columns, in display order. Notes and contact
// are edited from the detail modal instead.
var editableColumns = []payable.Field{
	payable.FieldVendor,
	payable.FieldAmount,
	payable.FieldDueDate,
	payable.FieldStatus,
	payable.FieldCategory,
	payable.FieldInvoiceNumber,
}

// Backend is the slice of the record adapter the dashboard consumes. Tests
// substitute a fake; production passes *adapter.Adapter.
type Backend interface {
	Snapshot() adapter.State
	Changes() <-chan struct{}
	Refresh()
	FocusRegained()
	Create(ctx context.Context, d payable.Draft) error
	UpdateField(ctx context.Context, id string, upd payable.FieldUpdate) error
	Remove(ctx context.Context, id string) error
}

// ---------------------------------------------------------------------------
// Bubble Tea messages
// ---------------------------------------------------------------------------

type recordsChangedMsg struct{}

type sessionMsg struct {
	event identity.Event
	ok    bool
}

type mutationDoneMsg struct {
	op   string
	done string
	warn bool
	err  error
}

type signOutDoneMsg struct {
	err error
}

type reportSavedMsg struct {
	path string
	err  error
}

type noticeExpiredMsg struct {
	seq int
}

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

type model struct {
	backend Backend
	auth    identity.Service
	user    identity.User
	log     logging.Logger
	money   moneyFormatter

	state   adapter.State
	visible []payable.Payable
	filter  payable.Filter

	cursor   int
	topIndex int
	col      int

	// Inline edit target. editID is empty when nothing is being edited;
	// there is never more than one target.
	editID    string
	editField payable.Field
	editBuf   string

	searchMode bool

	showDetail  bool
	detailID    string
	detailField payable.Field // modal sub-edit target, "" when browsing

	viewMode int
	calYear  int
	calMonth time.Month

	notice    string
	noticeErr bool
	noticeSeq int

	events       <-chan identity.Event
	cancelEvents func()
	signedOut    bool

	width  int
	height int
	keys   keyMap

	now func() time.Time
}

// Options carries the dashboard's collaborators and display settings.
type Options struct {
	Backend  Backend
	Auth     identity.Service
	User     identity.User
	Logger   logging.Logger
	Currency string
	Locale   string
}

func newModel(opts Options) model {
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	events, cancel := opts.Auth.Subscribe()
	now := time.Now()
	m := model{
		backend:      opts.Backend,
		auth:         opts.Auth,
		user:         opts.User,
		log:          opts.Logger,
		money:        newMoneyFormatter(opts.Locale, opts.Currency),
		filter:       payable.Filter{Status: payable.StatusAll},
		viewMode:     viewTable,
		calYear:      now.Year(),
		calMonth:     now.Month(),
		events:       events,
		cancelEvents: cancel,
		keys:         newKeyMap(),
		now:          time.Now,
	}
	m.applySnapshot(opts.Backend.Snapshot())
	return m
}

// Run starts the dashboard program and blocks until it exits. It reports
// whether the user signed out (as opposed to quitting the app).
func Run(opts Options) (signedOut bool, err error) {
	m := newModel(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus())
	final, err := p.Run()
	m.cancelEvents()
	if err != nil {
		return false, fmt.Errorf("run dashboard: %w", err)
	}
	if fm, ok := final.(model); ok {
		return fm.signedOut, nil
	}
	return false, nil
}

// ---------------------------------------------------------------------------
// Bubble Tea interface: Init / Update / View
// ---------------------------------------------------------------------------

func (m model) Init() tea.Cmd {
	return tea.Batch(m.watchRecords(), m.watchSession())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case recordsChangedMsg:
		m.applySnapshot(m.backend.Snapshot())
		return m, m.watchRecords()
	case sessionMsg:
		return m.handleSession(msg)
	case mutationDoneMsg:
		return m.handleMutationDone(msg)
	case signOutDoneMsg:
		if msg.err != nil {
			return m.withNotice(fmt.Sprintf("Sign out failed: %v", msg.err), true)
		}
		return m, nil
	case reportSavedMsg:
		if msg.err != nil {
			return m.withNotice(fmt.Sprintf("Report failed: %v", msg.err), true)
		}
		return m.withNotice("Report saved to "+msg.path, false)
	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
			m.noticeErr = false
		}
		return m, nil
	case tea.FocusMsg:
		m.backend.FocusRegained()
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorInWindow()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showDetail {
		return m.updateDetail(msg)
	}
	if m.editID != "" {
		return m.updateEdit(msg)
	}
	if m.searchMode {
		return m.updateSearch(msg)
	}
	if m.viewMode == viewCalendar {
		return m.updateCalendar(msg)
	}
	return m.updateTable(msg)
}

func (m model) View() string {
	header := renderHeader(appName, m.user.Email, m.viewMode, m.width)
	statusLine := m.renderStatus()
	footer := m.renderFooter(m.footerBindings())

	var body string
	switch m.viewMode {
	case viewCalendar:
		body = m.calendarView()
	default:
		body = m.tableView()
	}

	main := header + "\n\n" + m.renderSection("Overview", m.renderStats()) + "\n\n" + body

	if m.showDetail {
		return m.composeOverlay(main, statusLine, footer, m.detailView())
	}
	return m.placeWithFooter(main, statusLine, footer)
}

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

// watchRecords waits for the next coalesced change signal from the adapter.
func (m model) watchRecords() tea.Cmd {
	ch := m.backend.Changes()
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return recordsChangedMsg{}
	}
}

func (m model) watchSession() tea.Cmd {
	ch := m.events
	return func() tea.Msg {
		e, ok := <-ch
		return sessionMsg{event: e, ok: ok}
	}
}

func (m model) signOutCmd() tea.Cmd {
	auth := m.auth
	return func() tea.Msg {
		return signOutDoneMsg{err: auth.SignOut(context.Background())}
	}
}

func (m model) saveReportCmd() tea.Cmd {
	content := payable.Report(m.visible)
	return func() tea.Msg {
		path := "payables-report.txt"
		err := os.WriteFile(path, []byte(content), 0o644)
		return reportSavedMsg{path: path, err: err}
	}
}

func (m model) mutateCmd(msg mutationDoneMsg, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		msg.err = fn(ctx)
		return msg
	}
}

// ---------------------------------------------------------------------------
// Message handlers
// ---------------------------------------------------------------------------

func (m model) handleSession(msg sessionMsg) (tea.Model, tea.Cmd) {
	if !msg.ok {
		return m, nil
	}
	if msg.event == identity.SignedOut {
		m.signedOut = true
		return m, tea.Quit
	}
	return m, m.watchSession()
}

func (m model) handleMutationDone(msg mutationDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Warn(context.Background(), "mutation failed", "op", msg.op, "error", msg.err)
		return m.withNotice(fmt.Sprintf("%s failed: %v", msg.op, msg.err), true)
	}
	return m.withNotice(msg.done, msg.warn)
}

// fieldLabel is the human name of a column, for notices.
func fieldLabel(f payable.Field) string {
	switch f {
	case payable.FieldVendor:
		return "Vendor"
	case payable.FieldAmount:
		return "Amount"
	case payable.FieldDueDate:
		return "Due date"
	case payable.FieldStatus:
		return "Status"
	case payable.FieldCategory:
		return "Category"
	case payable.FieldInvoiceNumber:
		return "Invoice number"
	case payable.FieldNotes:
		return "Notes"
	case payable.FieldContact:
		return "Contact"
	}
	return string(f)
}

// ---------------------------------------------------------------------------
// State helpers
// ---------------------------------------------------------------------------

// applySnapshot replaces the displayed records and re-applies the filter.
// The edit target survives a refresh unless its record disappeared.
func (m *model) applySnapshot(s adapter.State) {
	m.state = s
	m.applyFilter()
	if m.editID != "" && m.findRecord(m.editID) == nil {
		m.clearEdit()
	}
	if m.showDetail && m.findRecord(m.detailID) == nil {
		m.showDetail = false
		m.detailField = ""
	}
}

func (m *model) applyFilter() {
	m.visible = m.filter.Apply(m.state.Records)
	m.ensureCursorInWindow()
}

func (m *model) findRecord(id string) *payable.Payable {
	for i := range m.state.Records {
		if m.state.Records[i].ID == id {
			return &m.state.Records[i]
		}
	}
	return nil
}

func (m model) currentRecord() *payable.Payable {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return nil
	}
	return &m.visible[m.cursor]
}

func (m *model) clearEdit() {
	m.editID = ""
	m.editField = ""
	m.editBuf = ""
}

// beginEdit makes (id, field) the sole edit target and seeds the buffer from
// the record's current value. Any prior buffer is discarded.
func (m *model) beginEdit(id string, field payable.Field) {
	rec := m.findRecord(id)
	if rec == nil {
		return
	}
	m.editID = id
	m.editField = field
	m.editBuf = fieldText(*rec, field)
}

// withNotice sets the transient status message and arms its expiry tick.
func (m model) withNotice(text string, isErr bool) (tea.Model, tea.Cmd) {
	m.notice = text
	m.noticeErr = isErr
	m.noticeSeq++
	seq := m.noticeSeq
	return m, noticeTick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

// fieldText returns the display/edit text of one field.
func fieldText(p payable.Payable, f payable.Field) string {
	switch f {
	case payable.FieldVendor:
		return p.Vendor
	case payable.FieldAmount:
		return p.Amount.StringFixed(2)
	case payable.FieldDueDate:
		return p.DueDate
	case payable.FieldStatus:
		return string(p.Status)
	case payable.FieldCategory:
		return p.Category
	case payable.FieldInvoiceNumber:
		return p.InvoiceNumber
	case payable.FieldNotes:
		return p.Notes
	case payable.FieldContact:
		return p.Contact
	}
	return ""
}

// nextStatus cycles pending -> approved -> paid -> pending.
func nextStatus(s payable.Status) payable.Status {
	order := payable.Statuses()
	for i, st := range order {
		if st == s {
			return order[(i+1)%len(order)]
		}
	}
	return payable.StatusPending
}
