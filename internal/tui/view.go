package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/dbdash/internal/chart"
	"github.com/rileyhilliard/dbdash/internal/state"
	"github.com/rileyhilliard/dbdash/internal/ui"
	"github.com/rileyhilliard/dbdash/internal/view"
)

// renderDashboard renders the complete screen: header, tab bar, the tables
// sidebar next to the content pane, and the footer.
func (m Model) renderDashboard() string {
	_, h := m.contentSize()

	sidebar := PaneStyle.
		Width(sidebarWidth + paneChrome - 2).
		Height(h).
		Render(m.renderTables(h))

	pane := PaneStyle
	if !m.searching {
		pane = PaneFocusedStyle
	}
	content := pane.Height(h).Render(m.content.View())

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, content)
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderTabs(),
		body,
		m.renderFooter(),
	)
}

// renderHeader renders the title, the current selection and the spinner.
func (m Model) renderHeader() string {
	title := TitleStyle.Render("dbdash")

	db := m.snap.State.Database
	if db == "" {
		db = "none"
	}
	parts := []string{"database " + db}
	if t := m.snap.State.Table; t != "" {
		parts = append(parts, "table "+t)
	}
	info := LabelStyle.Render(" | " + strings.Join(parts, " | "))

	line := title + info
	if sp := m.spinner.View(); sp != "" {
		line += "  " + sp
	}
	return HeaderStyle.Render(line)
}

// renderTabs renders the tab bar with the active tab highlighted.
func (m Model) renderTabs() string {
	names := map[state.Tab]string{
		state.TabDashboard: "1 Dashboard",
		state.TabData:      "2 Data",
	}
	var tabs []string
	for _, t := range state.Tabs {
		style := TabStyle
		if t == m.snap.State.ActiveTab {
			style = TabActiveStyle
		}
		tabs = append(tabs, style.Render(names[t]))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// renderTables renders the sidebar: table count, search box and the list.
func (m Model) renderTables(height int) string {
	if m.snap.State.Database == "" {
		return MutedStyle.Render("No database selected.\nPress d to pick one.")
	}

	var lines []string
	lines = append(lines, TitleStyle.Render(fmt.Sprintf("Tables (%d)", len(m.snap.Tables))))
	if m.searching || m.search.Value() != "" {
		lines = append(lines, m.search.View())
	}
	if m.snap.TablesMessage != "" {
		lines = append(lines, MutedStyle.Render(m.snap.TablesMessage))
		return strings.Join(lines, "\n")
	}
	if len(m.snap.VisibleTables) == 0 && len(m.snap.Tables) > 0 {
		lines = append(lines, MutedStyle.Render("No tables match"))
		return strings.Join(lines, "\n")
	}

	// Keep the cursor in view.
	room := max(height-len(lines), 1)
	start := 0
	if m.cursor >= room {
		start = m.cursor - room + 1
	}
	end := min(start+room, len(m.snap.VisibleTables))
	for i := start; i < end; i++ {
		name := truncate(m.snap.VisibleTables[i], sidebarWidth-2)
		switch {
		case i == m.cursor:
			lines = append(lines, CursorStyle.Render(ui.SymbolSelected+" "+name))
		case m.snap.VisibleTables[i] == m.snap.State.Table:
			lines = append(lines, ValueStyle.Render("  "+name))
		default:
			lines = append(lines, LabelStyle.Render("  "+name))
		}
	}
	return strings.Join(lines, "\n")
}

// renderFooter renders the key hints and the last status message.
func (m Model) renderFooter() string {
	line := m.help.ShortHelpView(keys.ShortHelp())
	if m.status != "" {
		line = StatusStyle.Render(m.status) + "  " + line
	}
	return FooterStyle.Render(line)
}

// renderContent renders the active tab for the content viewport.
func (m Model) renderContent() string {
	w, _ := m.contentSize()
	if m.snap.State.ActiveTab == state.TabData {
		return m.renderDataTab(w)
	}
	return m.renderDashboardTab(w)
}

// renderDataTab renders the table header, the grid, the pager and the
// record chart.
func (m Model) renderDataTab(width int) string {
	if m.snap.State.Table == "" {
		return MutedStyle.Render("Select a table from the list and press enter.")
	}

	var sections []string
	sections = append(sections,
		TitleStyle.Render(m.snap.DataTitle)+"  "+LabelStyle.Render(m.snap.DataRows))

	if m.snap.HasGrid {
		g := m.snap.Grid
		sections = append(sections, ui.RenderGrid(g.Headers, g.Rows, g.Empty))
		sections = append(sections, renderPager(m.snap.Pagination))
	}

	if spec, ok := m.snap.Chart(chart.DataChart); ok {
		sections = append(sections, "", renderLineCard(spec, width, trendHeight))
	}
	return strings.Join(sections, "\n")
}

// renderPager renders "‹ prev  Page X of Y  next ›" with the disabled ends
// dimmed.
func renderPager(p view.Pagination) string {
	prev := ValueStyle.Render("‹ prev")
	if p.PrevDisabled {
		prev = MutedStyle.Render("‹ prev")
	}
	next := ValueStyle.Render("next ›")
	if p.NextDisabled {
		next = MutedStyle.Render("next ›")
	}
	return prev + "  " + LabelStyle.Render(p.Text) + "  " + next
}

// renderDashboardTab renders the overview: summary cards, the row-count
// chart, per-table cards, the gauges and the metric trends. Panels the
// backend cannot serve are left out.
func (m Model) renderDashboardTab(width int) string {
	if m.snap.State.Database == "" {
		return MutedStyle.Render("Press d to pick a database.")
	}

	var sections []string
	if s := m.snap.Stats; s != nil {
		sections = append(sections, TitleStyle.Render("Database: "+s.Database))
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top,
			renderStatCard("Tables", s.TableCount),
			renderStatCard("Total rows", s.TotalRows),
		))
		if spec, ok := m.snap.Chart(chart.TableStatsChart); ok {
			sections = append(sections, renderChart(spec, width, 0))
		}
		sections = append(sections, layoutCards(tableCards(s.Cards), width))
	}

	if m.snap.State.GaugesVisible {
		if g := m.renderGauges(width); g != "" {
			title := TitleStyle.Render("Current metrics")
			if ts := m.snap.MetricsTimestamp; ts != "" {
				title += MutedStyle.Render("  " + ts)
			}
			sections = append(sections, "", title, g)
		}
	}

	if m.snap.State.TrendVisible {
		if t := m.renderTrends(width); t != "" {
			sections = append(sections, "", TitleStyle.Render("Metrics comparison"), t)
		}
	}
	return strings.Join(sections, "\n")
}

func renderStatCard(label, value string) string {
	return CardStyle.Render(LabelStyle.Render(label) + "\n" + ValueStyle.Render(value))
}

// tableCards renders one card per table with its row and column counts.
func tableCards(cards []view.StatCard) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		body := ValueStyle.Render(truncate(c.Name, 20)) + "\n" +
			LabelStyle.Render("rows ") + c.Rows + "\n" +
			LabelStyle.Render("cols ") + c.Columns
		out = append(out, CardStyle.Render(body))
	}
	return out
}

// layoutCards arranges cards in rows that fit width.
func layoutCards(cards []string, width int) string {
	if len(cards) == 0 {
		return ""
	}
	var rows []string
	var row []string
	used := 0
	for _, c := range cards {
		w := lipgloss.Width(c)
		if used > 0 && used+w > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, used = nil, 0
		}
		row = append(row, c)
		used += w
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderGauges renders the live gauges side by side, or "" when the panel
// has none.
func (m Model) renderGauges(width int) string {
	gw, gh := m.gaugeBox()
	var gauges []string
	for _, id := range chart.GaugeSlots {
		spec, ok := m.snap.Chart(id)
		if !ok {
			continue
		}
		g := renderChart(spec, gw, gh)
		if gs, ok := spec.(chart.GaugeSpec); ok && gs.Tooltip != "" {
			g += "\n" + lipgloss.PlaceHorizontal(gw, lipgloss.Center, MutedStyle.Render(truncate(gs.Tooltip, gw)))
		}
		gauges = append(gauges, CardStyle.Render(g))
	}
	return layoutCards(gauges, width)
}

// renderTrends renders the four comparison charts two per row, or "" when
// the panel has none.
func (m Model) renderTrends(width int) string {
	cardW := max(width/2-4, 20)
	var cards []string
	for _, id := range chart.TrendSlots {
		spec, ok := m.snap.Chart(id)
		if !ok {
			continue
		}
		cards = append(cards, CardStyle.Render(renderLineCard(spec, cardW, trendHeight)))
	}
	return layoutCards(cards, width)
}

// renderLineCard renders a titled line chart with the tooltip of its
// latest point underneath.
func renderLineCard(spec chart.Spec, width, height int) string {
	ls, ok := spec.(chart.LineSpec)
	if !ok {
		return renderChart(spec, width, height)
	}
	out := ValueStyle.Render(ls.Title) + "\n" + RenderLineChart(ls, width, height)
	if n := len(ls.Values); n > 0 {
		out += "\n" + MutedStyle.Render(truncate("latest "+view.PointTooltip(ls, n-1), width))
	}
	return out
}

// renderPicker renders the database picker overlay. Missing databases are
// listed but cannot be selected.
func (m Model) renderPicker() string {
	var lines []string
	lines = append(lines, helpTitleStyle.Render("Select database"))
	if len(m.snap.Databases) == 0 {
		lines = append(lines, MutedStyle.Render("No databases"))
	}
	for i, o := range m.snap.Databases {
		prefix := "  "
		if i == m.dbCursor {
			prefix = CursorStyle.Render(ui.SymbolSelected) + " "
		}
		var label string
		switch {
		case o.Disabled:
			label = DisabledStyle.Render(o.Label)
		case i == m.dbCursor:
			label = CursorStyle.Render(o.Label)
		default:
			label = LabelStyle.Render(o.Label)
		}
		lines = append(lines, prefix+label)
	}
	lines = append(lines, "", MutedStyle.Render("enter select · esc close"))

	box := helpBoxStyle.Render(strings.Join(lines, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
