package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m *Model) View() string {
	var doc strings.Builder

	title := Title.Render("ocmetrics")
	quitHint := TextMuted.Render("q quit · r reload · tab switch")
	doc.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", quitHint))
	doc.WriteString("\n\n")

	doc.WriteString(RenderTabBar(m.tabs, int(m.activeTab), m.width-4))
	doc.WriteString("\n")

	if m.err != nil {
		doc.WriteString(ErrorText.Render(fmt.Sprintf("Error: %v", m.err)))
		doc.WriteString("\n")
		if !m.loaded {
			doc.WriteString(TextMuted.Render("Press r to retry, q to quit."))
			return doc.String()
		}
		doc.WriteString(TextMuted.Render("Showing data from the last successful reload."))
		doc.WriteString("\n\n")
	}

	if m.loading && !m.loaded {
		doc.WriteString(m.spinner.View() + " Loading usage data...")
		return doc.String()
	}

	switch m.activeTab {
	case TabOverview:
		doc.WriteString(m.viewOverview())
	case TabModels:
		doc.WriteString(m.viewTable("Models", len(m.models), m.modelsTable.View()))
	case TabSessions:
		doc.WriteString(m.viewTable("Sessions", len(m.sessions), m.sessionsTable.View()))
	case TabDaily:
		doc.WriteString(m.viewTable("Daily Usage", len(m.daily), m.dailyTable.View()))
	}

	return doc.String()
}

func (m *Model) viewOverview() string {
	var b strings.Builder

	stats := fmt.Sprintf(
		"Projects(%d)  Sessions(%d)  Messages(%d)  Models(%d)",
		m.projectCount, m.sessionCount, m.messageCount, m.summary.UniqueModels,
	)
	b.WriteString(TextMuted.Render(stats))
	b.WriteString("\n")

	totals := fmt.Sprintf(
		"Tokens: %s in / %s out / %s cached  ·  Total cost: ",
		FormatTokens(m.summary.InputTokens),
		FormatTokens(m.summary.OutputTokens),
		FormatTokens(m.summary.CacheReadTokens+m.summary.CacheWriteTokens),
	)
	b.WriteString(TextMuted.Render(totals))
	b.WriteString(CostStyle(m.summary.TotalCost).Render(FormatCost(m.summary.TotalCost)))
	if m.dropped > 0 {
		b.WriteString("\n")
		b.WriteString(TextMuted.Render(fmt.Sprintf("%d unreadable messages skipped", m.dropped)))
	}
	b.WriteString("\n\n")

	b.WriteString(Subtitle.Render(fmt.Sprintf("Models (%d)", len(m.models))))
	b.WriteString("\n")
	b.WriteString(TableBox.Render(m.modelsTable.View()))
	b.WriteString("\n\n")

	b.WriteString(Subtitle.Render(fmt.Sprintf("Sessions (%d)", len(m.sessions))))
	b.WriteString("\n")
	b.WriteString(TableBox.Render(m.sessionsTable.View()))

	return b.String()
}

func (m *Model) viewTable(name string, count int, rendered string) string {
	var b strings.Builder
	b.WriteString(Subtitle.Render(fmt.Sprintf("%s (%d)", name, count)))
	b.WriteString("\n")
	b.WriteString(TableBox.Render(rendered))
	return b.String()
}
