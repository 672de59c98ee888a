// ============================================================================
// transync - Translation File Synchronization
// ============================================================================
//
// Package:     reportviewer
// Description: Bubbletea model for browsing lint and entry reports
// Author:      Mike Stoffels
// Created:     2025-12-09
// License:     MIT
// ============================================================================

// Package reportviewer is an interactive terminal viewer for reports. It
// shows the issues or entries of one report and reloads it on demand.
package reportviewer

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/transync/internal/analysis"
	"github.com/msto63/transync/internal/report"
	"github.com/msto63/transync/pkg/core/version"
)

// SeverityFilter tracks which issue severities are shown
type SeverityFilter struct {
	Errors   bool
	Warnings bool
}

// All reports whether no severity is hidden
func (f SeverityFilter) All() bool {
	return f.Errors && f.Warnings
}

// Model is the Bubbletea model of the report viewer
type Model struct {
	// State
	width    int
	height   int
	ready    bool
	loading  bool
	err      error
	loadedAt time.Time

	// Components
	viewport viewport.Model
	spinner  spinner.Model

	// Report state
	loader   Loader
	report   *report.Report
	filter   SeverityFilter
	filtered []analysis.Issue
}

// New creates a viewer that shows what loader returns
func New(loader Loader) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(report.ColorPrimary)

	return Model{
		spinner: sp,
		loader:  loader,
		loading: true,
		filter:  SeverityFilter{Errors: true, Warnings: true},
	}
}

// Init starts loading the report
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.load,
		tea.EnterAltScreen,
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4 // Title + filter bar
		footerHeight := 4 // Status bar + help
		viewportHeight := msg.Height - headerHeight - footerHeight
		if viewportHeight < 1 {
			viewportHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = viewportHeight
		}
		m.updateViewportContent()

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case reportLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.report = msg.report
			m.loadedAt = time.Now()
			m.applyFilters()
			m.updateViewportContent()
		}

	case RefreshMsg:
		m.loading = true
		cmds = append(cmds, m.load, m.spinner.Tick)
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKeyPress handles keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "q":
			return m, tea.Quit

		// Severity filters
		case "1":
			m.filter.Errors = !m.filter.Errors
		case "2":
			m.filter.Warnings = !m.filter.Warnings
		case "0":
			m.filter = SeverityFilter{Errors: true, Warnings: true}

		case "r":
			m.loading = true
			return m, tea.Batch(m.load, m.spinner.Tick)

		case "g":
			m.viewport.GotoTop()
			return m, nil
		case "G":
			m.viewport.GotoBottom()
			return m, nil

		default:
			return m, nil
		}
		m.applyFilters()
		m.updateViewportContent()
		return m, nil

	case tea.KeyPgUp:
		m.viewport.ViewUp()
	case tea.KeyPgDown:
		m.viewport.ViewDown()
	case tea.KeyUp:
		m.viewport.LineUp(1)
	case tea.KeyDown:
		m.viewport.LineDown(1)
	}

	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Loading report..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderFilterBar())
	b.WriteString("\n")
	b.WriteString(PanelStyle.Width(m.width - 2).Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())
	return b.String()
}

func (m Model) renderHeader() string {
	parts := []string{LogoStyle.Render(Logo)}
	if m.report != nil {
		parts = append(parts,
			"   ",
			HelpDescStyle.Render(string(m.report.Kind)),
			"  ",
			FileStyle.Render(m.report.File),
		)
	}
	header := lipgloss.JoinHorizontal(lipgloss.Center, parts...)
	return TitlePanelStyle.Width(m.width - 4).Render(header)
}

func (m Model) renderFilterBar() string {
	var content string
	if m.report != nil && len(m.report.Entries) > 0 && len(m.report.Issues) == 0 {
		content = HelpDescStyle.Render(fmt.Sprintf("[%d entries]", len(m.report.Entries)))
	} else {
		total := 0
		if m.report != nil {
			total = len(m.report.Issues)
		}
		content = fmt.Sprintf("1:%s  2:%s  %s",
			RenderFilterStatus("ERROR", m.filter.Errors),
			RenderFilterStatus("WARN", m.filter.Warnings),
			HelpDescStyle.Render(fmt.Sprintf("[%d/%d issues]", len(m.filtered), total)),
		)
	}
	return FilterBarStyle.Width(m.width - 2).Render(content)
}

func (m Model) renderStatusBar() string {
	var left string
	switch {
	case m.err != nil:
		left = StatusFailStyle.Render("load failed: " + m.err.Error())
	case m.report == nil:
		left = HelpDescStyle.Render("no report")
	default:
		errors, warnings := m.report.Counts()
		counts := fmt.Sprintf("%d errors, %d warnings", errors, warnings)
		if errors > 0 {
			left = StatusFailStyle.Render(counts)
		} else {
			left = StatusOKStyle.Render(counts)
		}
	}

	var right string
	if m.loading {
		right = m.spinner.View() + " Loading..."
	} else if !m.loadedAt.IsZero() {
		right = HelpDescStyle.Render("loaded " + m.loadedAt.Format("15:04:05"))
	}
	right += "  " + HelpDescStyle.Render("v"+version.Tool)

	padding := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if padding < 2 {
		padding = 2
	}
	return StatusBarStyle.Width(m.width - 2).Render(left + strings.Repeat(" ", padding) + right)
}

func (m Model) renderHelpBar() string {
	items := []string{
		RenderKeyHint("1/2", "Severity"),
		RenderKeyHint("0", "All"),
		RenderKeyHint("r", "Reload"),
		RenderKeyHint("g/G", "Top/Bottom"),
		RenderKeyHint("q", "Quit"),
	}
	return HelpStyle.Render(strings.Join(items, "  "))
}

// updateViewportContent renders the visible rows into the viewport
func (m *Model) updateViewportContent() {
	if !m.ready {
		return
	}
	var content strings.Builder
	for _, issue := range m.filtered {
		fmt.Fprintf(&content, "%s %s  %s  %s %s\n",
			RenderSeverityBadge(issue.IsError()),
			LineStyle.Render(fmt.Sprintf("%5d", issue.Line)),
			PathStyle.Render(issue.Context),
			KindStyle.Render(issue.Kind+":"),
			MessageStyle.Render(issue.Message),
		)
	}
	if m.report != nil {
		for _, e := range m.report.Entries {
			key := "<no key>"
			if e.HasKey {
				key = fmt.Sprintf("%q", e.Key)
			}
			fmt.Fprintf(&content, "%s  %s  %s\n",
				LineStyle.Render(fmt.Sprintf("%5d", e.Line)),
				PathStyle.Render(e.Path),
				KindStyle.Render(key),
			)
		}
	}
	m.viewport.SetContent(content.String())
}

// applyFilters selects the issues matching the severity filter
func (m *Model) applyFilters() {
	m.filtered = nil
	if m.report == nil {
		return
	}
	for _, issue := range m.report.Issues {
		if issue.IsError() && !m.filter.Errors {
			continue
		}
		if !issue.IsError() && !m.filter.Warnings {
			continue
		}
		m.filtered = append(m.filtered, issue)
	}
}

// load calls the loader
func (m Model) load() tea.Msg {
	if m.loader == nil {
		return reportLoadedMsg{err: fmt.Errorf("no report loader")}
	}
	rep, err := m.loader()
	return reportLoadedMsg{report: rep, err: err}
}

// NewProgram returns a full-screen program showing what loader returns
func NewProgram(loader Loader, opts ...tea.ProgramOption) *tea.Program {
	return tea.NewProgram(New(loader), append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...)
}

// Run starts the report viewer and blocks until the user quits
func Run(loader Loader) error {
	_, err := NewProgram(loader).Run()
	return err
}
