package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/asheshgoplani/chat-sweep/internal/catalog"
	"github.com/asheshgoplani/chat-sweep/internal/logging"
	"github.com/asheshgoplani/chat-sweep/internal/purge"
)

var uiLog = logging.ForComponent(logging.CompUI)

// mode is the controller state machine. Browsing is the initial state; the
// confirm states gate deletion; the report state shows the outcome before a
// fresh browsing state or quit.
type mode int

const (
	modeBrowsing mode = iota
	modeFiltering
	modeConfirmActive
	modeConfirming
	modeReport
	modeDone
)

const timeColWidth = 19 // "2006-01-02 15:04:05"

// chromeLines is the screen space around the entry viewport: title, status,
// blank, column header, rule, rule, footer.
const chromeLines = 7

// RescanFunc rebuilds the catalog after a deletion batch.
type RescanFunc func() (*catalog.Result, error)

// Model is the interactive conversation list.
type Model struct {
	entries  []*catalog.Entry // current catalog, scan order
	visible  []*catalog.Entry // after filter
	warnings int

	cursor     int
	viewOffset int
	width      int
	height     int

	selected map[catalog.Key]bool

	mode      mode
	ackActive bool

	filter      textinput.Model
	filterQuery string

	outcome      *purge.Outcome
	titleWidth   int
	activeWindow time.Duration
	rescan       RescanFunc
	rescanErr    error
}

// New builds the interactive list over a scanned catalog. activeWindow is the
// recency window shown in the status line; rescan is invoked after every
// deletion batch to rebuild the list, nil means the entries are reused with
// deleted records dropped.
func New(res *catalog.Result, titleWidth int, activeWindow time.Duration, rescan RescanFunc) *Model {
	ti := textinput.New()
	ti.Placeholder = "filter by title or project"
	ti.Prompt = "/ "
	ti.CharLimit = 80

	if titleWidth <= 0 {
		titleWidth = 48
	}
	if activeWindow <= 0 {
		activeWindow = catalog.DefaultActiveWindow
	}

	m := &Model{
		entries:      res.Entries,
		warnings:     res.Warnings,
		selected:     make(map[catalog.Key]bool),
		filter:       ti,
		titleWidth:   titleWidth,
		activeWindow: activeWindow,
		rescan:       rescan,
	}
	m.visible = m.entries
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. One input event, one transition.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeBrowsing:
			return m.updateBrowsing(msg)
		case modeFiltering:
			return m.updateFiltering(msg)
		case modeConfirmActive:
			return m.updateConfirmActive(msg)
		case modeConfirming:
			return m.updateConfirming(msg)
		case modeReport:
			return m.updateReport(msg)
		}
	}
	return m, nil
}

func (m *Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "pgup":
		m.moveCursor(-m.viewportHeight())
	case "pgdown":
		m.moveCursor(m.viewportHeight())
	case "g", "home":
		m.cursor = 0
		m.clampCursor()
	case "G", "end":
		m.cursor = len(m.visible) - 1
		m.clampCursor()
	case " ":
		m.toggleSelection()
	case "a":
		for _, e := range m.visible {
			m.selected[e.Key()] = true
		}
	case "n":
		m.selected = make(map[catalog.Key]bool)
	case "/":
		m.mode = modeFiltering
		m.filter.SetValue(m.filterQuery)
		m.filter.Focus()
		return m, textinput.Blink
	case "enter":
		sel := m.selectedEntries()
		if len(sel) == 0 {
			return m, nil
		}
		if m.anyActive(sel) && !m.ackActive {
			m.mode = modeConfirmActive
		} else {
			m.mode = modeConfirming
		}
	case "q", "esc", "ctrl+c":
		m.mode = modeDone
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) updateFiltering(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filterQuery = m.filter.Value()
		m.filter.Blur()
		m.applyFilter()
		m.mode = modeBrowsing
		return m, nil
	case "esc":
		m.filter.Blur()
		m.filter.SetValue(m.filterQuery)
		m.mode = modeBrowsing
		return m, nil
	case "ctrl+c":
		m.mode = modeDone
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	return m, cmd
}

func (m *Model) updateConfirmActive(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		// Explicit acknowledgment for this batch only.
		m.ackActive = true
		m.mode = modeConfirming
	case "n", "N", "esc", "q":
		m.mode = modeBrowsing
	}
	return m, nil
}

func (m *Model) updateConfirming(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.deleteSelected()
	case "n", "N", "esc", "q":
		// Selection survives a declined confirmation.
		m.mode = modeBrowsing
	}
	return m, nil
}

func (m *Model) updateReport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.mode = modeDone
		return m, tea.Quit
	default:
		m.outcome = nil
		m.mode = modeBrowsing
	}
	return m, nil
}

// deleteSelected runs the planner synchronously: deletion blocks the input
// loop, there is no mid-batch cancellation.
func (m *Model) deleteSelected() {
	sel := m.selectedEntries()

	plans, err := purge.Plan(sel, m.ackActive)
	if err != nil {
		// Active entries without acknowledgment: back to the gate.
		m.mode = modeConfirmActive
		return
	}

	m.outcome = purge.Execute(plans)
	uiLog.Info("batch_deleted",
		"entries", len(plans),
		"files", m.outcome.DeletedCount(),
		"failures", len(m.outcome.Failures()))

	m.ackActive = false
	m.selected = make(map[catalog.Key]bool)

	if m.rescan != nil {
		res, err := m.rescan()
		if err != nil {
			// Keep the stale catalog but say so in the status line.
			uiLog.Warn("rescan_failed", "error", err.Error())
			m.rescanErr = err
		} else {
			m.rescanErr = nil
			m.entries = res.Entries
			m.warnings = res.Warnings
		}
	} else {
		deleted := make(map[catalog.Key]bool, len(plans))
		for _, p := range plans {
			deleted[p.Key] = true
		}
		kept := m.entries[:0]
		for _, e := range m.entries {
			if !deleted[e.Key()] {
				kept = append(kept, e)
			}
		}
		m.entries = kept
	}

	m.applyFilter()
	m.cursor = 0
	m.viewOffset = 0
	m.mode = modeReport
}

// selectedEntries returns the marked entries in catalog order. Selection is
// keyed by (workspace, id), so it is independent of filtering and sorting.
func (m *Model) selectedEntries() []*catalog.Entry {
	var out []*catalog.Entry
	for _, e := range m.entries {
		if m.selected[e.Key()] {
			out = append(out, e)
		}
	}
	return out
}

func (m *Model) anyActive(entries []*catalog.Entry) bool {
	for _, e := range entries {
		if e.Active {
			return true
		}
	}
	return false
}

func (m *Model) toggleSelection() {
	if len(m.visible) == 0 {
		return
	}
	key := m.visible[m.cursor].Key()
	if m.selected[key] {
		delete(m.selected, key)
	} else {
		m.selected[key] = true
	}
}

func (m *Model) applyFilter() {
	m.visible = filterEntries(m.entries, m.filterQuery)
	m.clampCursor()
}

// moveCursor moves by delta and keeps the viewport following the cursor,
// scrolling only when the cursor would leave the visible window.
func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if len(m.visible) == 0 {
		m.cursor = 0
		m.viewOffset = 0
		return
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor > len(m.visible)-1 {
		m.cursor = len(m.visible) - 1
	}

	h := m.viewportHeight()
	if m.cursor < m.viewOffset {
		m.viewOffset = m.cursor
	} else if m.cursor >= m.viewOffset+h {
		m.viewOffset = m.cursor - h + 1
	}
	if m.viewOffset < 0 {
		m.viewOffset = 0
	}
}

func (m *Model) viewportHeight() int {
	h := m.height - chromeLines
	if m.mode == modeFiltering || m.filterQuery != "" {
		h--
	}
	if h < 3 {
		h = 3
	}
	return h
}

// View implements tea.Model. Rendering is a pure function of the model.
func (m *Model) View() string {
	switch m.mode {
	case modeConfirmActive:
		return m.viewConfirmActive()
	case modeConfirming:
		return m.viewConfirm()
	case modeReport:
		return m.viewReport()
	case modeDone:
		return ""
	}
	return m.viewList()
}

func (m *Model) viewList() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("chat-sweep"))
	b.WriteString("\n")

	total := len(m.visible)
	start, end := 0, 0
	if total > 0 {
		start = m.viewOffset + 1
		end = m.viewOffset + m.viewportHeight()
		if end > total {
			end = total
		}
	}

	status := fmt.Sprintf("Total: %d | Selected: %d | Showing: %d-%d/%d",
		total, len(m.selectedEntries()), start, end, total)
	if n := m.activeCount(); n > 0 {
		status += ActiveNoteStyle.Render(fmt.Sprintf(" | %d active (written <%dmin, marked *)",
			n, int(m.activeWindow.Minutes())))
	}
	if m.warnings > 0 {
		status += WarnStyle.Render(fmt.Sprintf(" | %d unreadable skipped", m.warnings))
	}
	if m.rescanErr != nil {
		status += WarnStyle.Render(" | rescan failed, list may be stale")
	}
	b.WriteString(StatusStyle.Render(status))
	b.WriteString("\n")

	if m.mode == modeFiltering || m.filterQuery != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	header := fmt.Sprintf("%-3s %-*s %-*s %s",
		"", timeColWidth, "LAST ACTIVE", m.titleWidth, "TITLE", "PROJECT")
	b.WriteString(HeaderStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(RuleStyle.Render(strings.Repeat("─", m.ruleWidth())))
	b.WriteString("\n")

	if total == 0 {
		b.WriteString(DimStyle.Render("  No conversations found."))
		b.WriteString("\n")
	}

	last := m.viewOffset + m.viewportHeight()
	if last > total {
		last = total
	}
	for i := m.viewOffset; i < last; i++ {
		b.WriteString(m.renderRow(i))
		b.WriteString("\n")
	}

	b.WriteString(RuleStyle.Render(strings.Repeat("─", m.ruleWidth())))
	b.WriteString("\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m *Model) renderRow(i int) string {
	e := m.visible[i]
	isCursor := i == m.cursor
	isSelected := m.selected[e.Key()]

	marker := "[ ]"
	if isSelected {
		marker = SelectedStyle.Render("[x]")
	}

	timeStr := "---"
	if !e.LastActive.IsZero() {
		timeStr = e.LastActive.Local().Format("2006-01-02 15:04:05")
	}

	title := e.DisplayTitle()
	if e.Active {
		title = "*" + title
	}
	title = runewidth.FillRight(runewidth.Truncate(title, m.titleWidth, "…"), m.titleWidth)

	project := e.Project()

	var row string
	switch {
	case isCursor && e.Active:
		row = fmt.Sprintf("%s %s %s %s",
			marker,
			ActiveStyle.Bold(true).Render(timeStr),
			ActiveStyle.Bold(true).Render(title),
			ProjectStyle.Bold(true).Render(project))
	case isCursor:
		row = fmt.Sprintf("%s %s %s %s",
			marker,
			CursorRowStyle.Render(timeStr),
			CursorRowStyle.Render(title),
			ProjectStyle.Bold(true).Render(project))
	case e.Active:
		row = fmt.Sprintf("%s %s %s %s",
			marker,
			ActiveStyle.Render(timeStr),
			ActiveStyle.Render(title),
			DimStyle.Render(project))
	default:
		row = fmt.Sprintf("%s %s %s %s",
			marker,
			DimStyle.Render(timeStr),
			title,
			DimStyle.Render(project))
	}

	prefix := "  "
	if isCursor {
		prefix = lipgloss.NewStyle().Foreground(ColorAccent).Render("▶ ")
	}
	return prefix + row
}

func (m *Model) footer() string {
	if len(m.selectedEntries()) > 0 {
		return FooterStyle.Render("[Enter]Delete selected  [Space]Toggle  [n]None  [q]Quit")
	}
	return FooterStyle.Render("[j/k]Move  [Space]Select  [a]All  [n]None  [/]Filter  [PgUp/PgDn]Page  [q]Quit")
}

func (m *Model) viewConfirmActive() string {
	sel := m.selectedEntries()
	active := 0
	for _, e := range sel {
		if e.Active {
			active++
		}
	}

	body := lipgloss.NewStyle().Foreground(ColorYellow).Render(fmt.Sprintf(
		"%d of the selected conversations were written within\nthe last few minutes and may still be in use.\n\nDeleting them can break a running session.", active))

	return renderDialog(
		"⚠  Active conversations selected",
		body,
		dialogButtons("y Delete anyway", "n Back", ColorRed),
		ColorRed, m.width, m.height)
}

func (m *Model) viewConfirm() string {
	sel := m.selectedEntries()

	var lines []string
	const maxListed = 8
	for i, e := range sel {
		if i == maxListed {
			lines = append(lines, DimStyle.Render(fmt.Sprintf("  … and %d more", len(sel)-maxListed)))
			break
		}
		mark := ""
		if e.Active {
			mark = ActiveStyle.Render(" [ACTIVE]")
		}
		lines = append(lines, fmt.Sprintf("  • %s%s %s",
			runewidth.Truncate(e.DisplayTitle(), 34, "…"), mark, DimStyle.Render(e.Project())))
	}

	body := fmt.Sprintf("Delete %d conversation(s) and their agent files?\nThis cannot be undone.\n\n%s",
		len(sel), strings.Join(lines, "\n"))

	return renderDialog(
		"Delete conversations?",
		lipgloss.NewStyle().Foreground(ColorText).Render(body),
		dialogButtons("y Delete", "n Cancel", ColorRed),
		ColorRed, m.width, m.height)
}

func (m *Model) viewReport() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("chat-sweep"))
	b.WriteString("\n\n")

	if m.outcome == nil {
		b.WriteString(DimStyle.Render("Nothing deleted."))
		b.WriteString("\n")
		return b.String()
	}

	failures := m.outcome.Failures()
	if len(failures) > 0 {
		b.WriteString(WarnStyle.Render(fmt.Sprintf("Deleted %d path(s), %d failed",
			m.outcome.DeletedCount(), len(failures))))
	} else {
		b.WriteString(OKStyle.Render(fmt.Sprintf("Deleted %d path(s) (%d conversations + related files)",
			m.outcome.DeletedCount(), len(m.outcome.Entries))))
	}
	b.WriteString("\n\n")

	for _, eo := range m.outcome.Entries {
		if len(eo.Failed) == 0 {
			b.WriteString(fmt.Sprintf("  %s %s\n", OKStyle.Render("OK"), DimStyle.Render(eo.Title)))
			continue
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", ErrStyle.Render("ERR"), eo.Title))
		for _, f := range eo.Failed {
			b.WriteString(fmt.Sprintf("      %s: %s\n", f.Path, f.Reason))
		}
	}

	b.WriteString("\n")
	b.WriteString(FooterStyle.Render("Press any key to continue, q to quit"))
	return b.String()
}

func (m *Model) activeCount() int {
	n := 0
	for _, e := range m.visible {
		if e.Active {
			n++
		}
	}
	return n
}

func (m *Model) ruleWidth() int {
	w := 4 + timeColWidth + 1 + m.titleWidth + 1 + 20
	if m.width > 0 && w > m.width {
		w = m.width
	}
	return w
}
