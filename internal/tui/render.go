package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/tripay/tripay/internal/payable"
)

// ---------------------------------------------------------------------------
// Styles: Catppuccin Mocha themed
// ---------------------------------------------------------------------------

var (
	titleStyle = lipgloss.NewStyle().Foreground(colorBrand).Bold(true)

	headerBarStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorMantle).
			Padding(0, 2)

	headerAppStyle = lipgloss.NewStyle().
			Foreground(colorBrand).
			Bold(true)

	headerUserStyle = lipgloss.NewStyle().
			Foreground(colorOverlay1).
			Background(colorMantle)

	activeViewStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Background(colorSurface0).
			Bold(true).
			Padding(0, 1)

	inactiveViewStyle = lipgloss.NewStyle().
				Foreground(colorOverlay1).
				Background(colorMantle).
				Padding(0, 1)

	viewSepStyle = lipgloss.NewStyle().
			Foreground(colorOverlay0).
			Background(colorMantle)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorMantle).
			Padding(0, 2)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorSubtext1).
			Background(colorSurface0).
			Padding(0, 2)

	statusErrStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Background(colorSurface0).
			Padding(0, 2)

	listBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0)

	tableHeaderStyle = lipgloss.NewStyle().
				Foreground(colorSubtext0).
				Bold(true)

	cursorStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	selectedCellStyle = lipgloss.NewStyle().
				Foreground(colorBase).
				Background(colorFocus)

	editCellStyle = lipgloss.NewStyle().
			Foreground(colorBase).
			Background(colorPeach)

	overdueStyle = lipgloss.NewStyle().Foreground(colorError)

	scrollStyle = lipgloss.NewStyle().Foreground(colorOverlay1)

	searchPromptStyle = lipgloss.NewStyle().Foreground(colorSky)
)

var viewNames = []string{"Table", "Calendar"}

// ---------------------------------------------------------------------------
// Chrome
// ---------------------------------------------------------------------------

func renderHeader(appName, userEmail string, activeView, width int) string {
	name := headerAppStyle.Render(appName)

	var views []string
	for i, v := range viewNames {
		if i == activeView {
			views = append(views, activeViewStyle.Render(v))
		} else {
			views = append(views, inactiveViewStyle.Render(v))
		}
	}
	viewBar := viewSepStyle.Render(" ") + strings.Join(views, viewSepStyle.Render("│"))

	content := name + "  " + viewBar
	if userEmail != "" {
		content += viewSepStyle.Render("  ") + headerUserStyle.Render(userEmail)
	}

	if width <= 0 {
		return headerBarStyle.Render(content)
	}
	return headerBarStyle.Width(width).Render(content)
}

func (m model) renderSection(title, content string) string {
	contentWidth := m.sectionContentWidth()
	header := padRight(titleStyle.Render(title), contentWidth)
	sepStyle := lipgloss.NewStyle().Foreground(colorSurface2)
	separator := sepStyle.Render(strings.Repeat("─", contentWidth))
	sectionContent := header + "\n" + separator + "\n" + content
	section := listBoxStyle.Width(m.sectionWidth()).Render(sectionContent)
	if m.width == 0 {
		return section
	}
	return lipgloss.Place(m.width, lipgloss.Height(section), lipgloss.Center, lipgloss.Top, section)
}

func (m model) renderFooter(bindings []key.Binding) string {
	bg := colorMantle
	keyStyle := helpKeyStyle.Background(bg)
	descStyle := helpDescStyle.Background(bg)
	space := lipgloss.NewStyle().Background(bg).Render(" ")
	sep := lipgloss.NewStyle().Background(bg).Render("  ")

	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		if help.Key == "" && help.Desc == "" {
			continue
		}
		parts = append(parts, keyStyle.Render(help.Key)+space+descStyle.Render(help.Desc))
	}
	content := strings.Join(parts, sep)

	if m.width == 0 {
		return footerStyle.Render(content)
	}
	return footerStyle.Width(m.width).Render(content)
}

// renderStatus shows, in priority order: the search prompt while typing, the
// transient notice, the load error, or the active filter summary.
func (m model) renderStatus() string {
	style := statusBarStyle
	var text string
	switch {
	case m.searchMode:
		text = searchPromptStyle.Render("Search: ") + m.filter.Search + "▌"
	case m.notice != "":
		text = m.notice
		if m.noticeErr {
			style = statusErrStyle
		}
	case m.state.Err != nil:
		text = fmt.Sprintf("Load failed: %v", m.state.Err)
		style = statusErrStyle
	default:
		text = m.filterSummary()
	}
	flat := strings.ReplaceAll(text, "\n", " ")
	if m.width == 0 {
		return style.Render(flat)
	}
	return style.Width(m.width).Render(flat)
}

func (m model) filterSummary() string {
	parts := []string{fmt.Sprintf("%d payables", len(m.visible))}
	if m.filter.Search != "" {
		parts = append(parts, fmt.Sprintf("search %q", m.filter.Search))
	}
	if m.filter.Status != "" && m.filter.Status != payable.StatusAll {
		parts = append(parts, "status "+m.filter.Status)
	}
	if m.state.Loading {
		parts = append(parts, "refreshing…")
	}
	return strings.Join(parts, "  ·  ")
}

func (m model) footerBindings() []key.Binding {
	switch {
	case m.showDetail && m.detailField != "":
		return m.keys.editHelp()
	case m.showDetail:
		return m.keys.detailHelp()
	case m.editID != "":
		return m.keys.editHelp()
	case m.searchMode:
		return m.keys.searchHelp()
	case m.viewMode == viewCalendar:
		return m.keys.calendarHelp()
	}
	return m.keys.tableHelp()
}

// ---------------------------------------------------------------------------
// Overview strip
// ---------------------------------------------------------------------------

func (m model) renderStats() string {
	stats := payable.Summarize(m.visible)
	labelStyle := lipgloss.NewStyle().Foreground(colorSubtext0)
	valueStyle := lipgloss.NewStyle().Foreground(colorPeach)
	pendingStyle := lipgloss.NewStyle().Foreground(colorWarning)

	lines := []string{
		labelStyle.Render(fmt.Sprintf("%-14s", "Total Owed")) + " " + valueStyle.Render(m.money.Format(stats.Total)),
		labelStyle.Render(fmt.Sprintf("%-14s", "Pending")) + " " + pendingStyle.Render(m.money.Format(stats.PendingTotal)) + labelStyle.Render(fmt.Sprintf("  (%d invoices)", stats.PendingCount)),
		labelStyle.Render(fmt.Sprintf("%-14s", "Vendors")) + " " + valueStyle.Render(fmt.Sprintf("%d", stats.VendorCount)),
	}
	width := m.listContentWidth()
	for i, line := range lines {
		lines[i] = padRight(line, width)
	}
	return strings.Join(lines, "\n")
}

func overviewLineCount() int {
	return 3
}

// ---------------------------------------------------------------------------
// Table view
// ---------------------------------------------------------------------------

type column struct {
	field payable.Field
	title string
	width int
}

func (m model) columns() []column {
	width := m.listContentWidth()
	vendorWidth := width - 12 - 12 - 10 - 14 - 14 - 2 - 12
	if vendorWidth < 10 {
		vendorWidth = 10
	}
	return []column{
		{payable.FieldVendor, "Vendor", vendorWidth},
		{payable.FieldAmount, "Amount", 12},
		{payable.FieldDueDate, "Due", 12},
		{payable.FieldStatus, "Status", 10},
		{payable.FieldCategory, "Category", 14},
		{payable.FieldInvoiceNumber, "Invoice", 14},
	}
}

func (m model) tableView() string {
	cols := m.columns()

	headerCells := make([]string, len(cols))
	for i, c := range cols {
		headerCells[i] = padRight(c.title, c.width)
	}
	header := tableHeaderStyle.Render("  " + strings.Join(headerCells, "  "))
	lines := []string{header}

	visible := m.visibleRows()
	end := m.topIndex + visible
	if end > len(m.visible) {
		end = len(m.visible)
	}
	today := m.now().Format(payable.DateLayout)

	for i := m.topIndex; i < end; i++ {
		rec := m.visible[i]
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}
		cells := make([]string, len(cols))
		for j, c := range cols {
			cells[j] = m.renderCell(rec, c, i == m.cursor && j == m.col, today)
		}
		lines = append(lines, prefix+strings.Join(cells, "  "))
	}

	total := len(m.visible)
	if total > 0 && visible > 0 {
		start := m.topIndex + 1
		endIdx := m.topIndex + visible
		if endIdx > total {
			endIdx = total
		}
		lines = append(lines, scrollStyle.Render(fmt.Sprintf("── showing %d-%d of %d ──", start, endIdx, total)))
	}
	if total == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(colorOverlay1).Render("No payables. Press a to add one."))
	}

	return m.renderSection("Payables", strings.Join(lines, "\n"))
}

func (m model) renderCell(rec payable.Payable, c column, selected bool, today string) string {
	if m.editID == rec.ID && m.editField == c.field {
		return editCellStyle.Render(padRight(truncate(m.editBuf+"▌", c.width), c.width))
	}

	text := fieldText(rec, c.field)
	cell := padRight(truncate(text, c.width), c.width)

	if selected {
		return selectedCellStyle.Render(cell)
	}
	switch c.field {
	case payable.FieldStatus:
		return lipgloss.NewStyle().Foreground(statusColor(rec.Status)).Render(cell)
	case payable.FieldDueDate:
		if rec.Status != payable.StatusPaid && rec.DueDate < today {
			return overdueStyle.Render(cell)
		}
	}
	return cell
}

// ---------------------------------------------------------------------------
// Calendar view
// ---------------------------------------------------------------------------

var weekdayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

func (m model) calendarView() string {
	grid := payable.BuildMonth(m.visible, m.calYear, m.calMonth)
	cellWidth := 9

	title := cursorStyle.Render(grid.Title())
	headerCells := make([]string, len(weekdayNames))
	for i, d := range weekdayNames {
		headerCells[i] = padRight(d, cellWidth)
	}
	lines := []string{title, tableHeaderStyle.Render(strings.Join(headerCells, " "))}

	dayStyle := lipgloss.NewStyle().Foreground(colorSubtext0)
	busyStyle := lipgloss.NewStyle().Foreground(colorPeach).Bold(true)

	day := 1 - grid.Leading
	for day <= len(grid.Days) {
		cells := make([]string, 7)
		for wd := 0; wd < 7; wd++ {
			cell := ""
			if day >= 1 && day <= len(grid.Days) {
				due := grid.On(day)
				if len(due) > 0 {
					total := payable.Summarize(due).Total
					cell = busyStyle.Render(padRight(fmt.Sprintf("%2d %s", day, truncate(m.money.Format(total), cellWidth-3)), cellWidth))
				} else {
					cell = dayStyle.Render(padRight(fmt.Sprintf("%2d", day), cellWidth))
				}
			} else {
				cell = padRight("", cellWidth)
			}
			cells[wd] = cell
			day++
		}
		lines = append(lines, strings.Join(cells, " "))
	}

	return m.renderSection("Due Calendar", strings.Join(lines, "\n"))
}

// ---------------------------------------------------------------------------
// Detail modal
// ---------------------------------------------------------------------------

func (m model) detailView() string {
	rec := m.findRecord(m.detailID)
	if rec == nil {
		return "Record no longer exists."
	}

	labelStyle := lipgloss.NewStyle().Foreground(colorSubtext0)
	label := func(s string) string { return labelStyle.Render(fmt.Sprintf("%-10s", s)) }

	notes := rec.Notes
	contact := rec.Contact
	if m.detailField == payable.FieldNotes {
		notes = m.editBuf + "▌"
	}
	if m.detailField == payable.FieldContact {
		contact = m.editBuf + "▌"
	}

	lines := []string{
		titleStyle.Render(rec.Vendor),
		"",
		label("Amount") + m.money.Format(rec.Amount),
		label("Due") + rec.DueDate,
		label("Status") + lipgloss.NewStyle().Foreground(statusColor(rec.Status)).Render(string(rec.Status)),
		label("Category") + rec.Category,
		label("Invoice") + rec.InvoiceNumber,
		label("Contact") + contact,
		label("Notes") + notes,
		"",
		helpDescStyle.Render("n notes  o contact  d delete  esc close"),
	}
	return strings.Join(lines, "\n")
}

// ---------------------------------------------------------------------------
// Layout
// ---------------------------------------------------------------------------

func (m model) placeWithFooter(body, statusLine, footer string) string {
	if m.height == 0 {
		return body + "\n\n" + statusLine + "\n" + footer
	}
	contentHeight := m.height - 2
	if contentHeight < 1 {
		contentHeight = 1
	}
	if lipgloss.Height(body) >= contentHeight {
		return body + "\n" + statusLine + "\n" + footer
	}
	main := lipgloss.Place(m.width, contentHeight, lipgloss.Left, lipgloss.Top, body)
	// Full-width lines prevent ghosting from previous frames.
	lines := splitLines(main)
	for i, line := range lines {
		lines[i] = padRight(line, m.width)
	}
	main = strings.Join(lines, "\n")
	return main + "\n" + statusLine + "\n" + footer
}

func (m model) composeOverlay(base, statusLine, footer, content string) string {
	baseView := m.placeWithFooter(base, statusLine, footer)
	if m.height == 0 || m.width == 0 {
		return baseView + "\n\n" + content
	}
	modalContent := lipgloss.NewStyle().Width(min(60, m.width-10)).Render(content)
	modal := modalStyle.Render(modalContent)
	lines := splitLines(modal)
	modalWidth := maxLineWidth(lines)
	modalHeight := len(lines)

	targetHeight := m.height - 2
	if targetHeight < 1 {
		targetHeight = 1
	}
	x := (m.width - modalWidth) / 2
	if x < 0 {
		x = 0
	}
	y := (targetHeight - modalHeight) / 2
	if y < 0 {
		y = 0
	}
	return overlayAt(baseView, modal, x, y, m.width, targetHeight)
}

func (m *model) visibleRows() int {
	if m.height == 0 {
		return 10
	}
	frameV := listBoxStyle.GetVerticalFrameSize()
	headerHeight := 1
	headerGap := 1
	sectionHeaderHeight := sectionHeaderLineCount()
	overviewHeight := frameV + sectionHeaderHeight + overviewLineCount()
	sectionGap := 1
	tableHeaderHeight := 1
	scrollIndicator := 1
	available := m.height - 2 - headerHeight - headerGap - overviewHeight - sectionGap - frameV - sectionHeaderHeight - tableHeaderHeight - scrollIndicator
	if available < 3 {
		available = 3
	}
	if available > 20 {
		available = 20
	}
	return available
}

func (m *model) listContentWidth() int {
	if m.width == 0 {
		return 100
	}
	contentWidth := m.sectionContentWidth()
	if contentWidth < 20 {
		return 20
	}
	return contentWidth
}

func (m *model) sectionContentWidth() int {
	if m.width == 0 {
		return 100
	}
	frameH := listBoxStyle.GetHorizontalFrameSize()
	contentWidth := m.sectionWidth() - frameH
	if contentWidth < 1 {
		contentWidth = 1
	}
	return contentWidth
}

func (m *model) sectionWidth() int {
	if m.width == 0 {
		return 100
	}
	width := m.width - 4
	if width < 20 {
		width = m.width
	}
	return width
}

func (m *model) ensureCursorInWindow() {
	visible := m.visibleRows()
	if visible <= 0 {
		return
	}
	total := len(m.visible)
	if m.cursor >= total {
		m.cursor = total - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor < m.topIndex {
		m.topIndex = m.cursor
	} else if m.cursor >= m.topIndex+visible {
		m.topIndex = m.cursor - visible + 1
	}
	maxTop := total - visible
	if maxTop < 0 {
		maxTop = 0
	}
	if m.topIndex > maxTop {
		m.topIndex = maxTop
	}
	if m.topIndex < 0 {
		m.topIndex = 0
	}
}

func sectionHeaderLineCount() int {
	return 2
}
