package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/petebeckett/ocmetrics/internal/metrics"
)

func modelsColumns(totalWidth int) []table.Column {
	available := totalWidth - 4
	modelWidth := available * 30 / 100
	if modelWidth > 25 {
		modelWidth = 25
	}
	providerWidth := available * 20 / 100
	if providerWidth > 18 {
		providerWidth = 18
	}
	tokenWidth := 10
	costWidth := 10
	remaining := available - modelWidth - providerWidth - (tokenWidth * 2) - (costWidth * 3)
	if remaining > 0 {
		costWidth += remaining / 3
	}

	return []table.Column{
		{Title: "Model", Width: modelWidth},
		{Title: "In", Width: tokenWidth},
		{Title: "Out", Width: tokenWidth},
		{Title: "In ($)", Width: costWidth},
		{Title: "Out ($)", Width: costWidth},
		{Title: "Cost", Width: costWidth},
		{Title: "Provider", Width: providerWidth},
	}
}

func sessionsColumns(totalWidth int) []table.Column {
	available := totalWidth - 4
	msgsWidth := 8
	tokensWidth := 10
	costWidth := 10
	updatedWidth := 10
	titleWidth := available - msgsWidth - tokensWidth - costWidth - updatedWidth - 2
	if titleWidth < 20 {
		titleWidth = 20
	}

	return []table.Column{
		{Title: "Title", Width: titleWidth},
		{Title: "Msgs", Width: msgsWidth},
		{Title: "Tokens", Width: tokensWidth},
		{Title: "Cost", Width: costWidth},
		{Title: "Updated", Width: updatedWidth},
	}
}

func dailyColumns(totalWidth int) []table.Column {
	available := totalWidth - 4
	dateWidth := 12
	msgsWidth := 8
	tokenWidth := (available - dateWidth - msgsWidth) / 5
	if tokenWidth < 9 {
		tokenWidth = 9
	}

	return []table.Column{
		{Title: "Date", Width: dateWidth},
		{Title: "In", Width: tokenWidth},
		{Title: "Out", Width: tokenWidth},
		{Title: "Cache R", Width: tokenWidth},
		{Title: "Cache W", Width: tokenWidth},
		{Title: "Total", Width: tokenWidth},
		{Title: "Msgs", Width: msgsWidth},
	}
}

func newModelsTable(models []metrics.ModelAggregate, width, height int) table.Model {
	columns := modelsColumns(width)

	rows := make([]table.Row, len(models))
	for i, m := range models {
		rows[i] = table.Row{
			ansi.Truncate(m.ModelID, columns[0].Width, "…"),
			FormatTokens(m.InputTokens),
			FormatTokens(m.OutputTokens),
			FormatCost(m.InputCost),
			FormatCost(m.OutputCost),
			FormatCost(m.EstimatedCost),
			m.ProviderID,
		}
	}

	return styledTable(columns, rows, height)
}

func newSessionsTable(sessions []metrics.SessionAggregate, limit, width, height int) table.Model {
	columns := sessionsColumns(width)

	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	rows := make([]table.Row, len(sessions))
	for i, s := range sessions {
		rows[i] = table.Row{
			ansi.Truncate(s.Title, columns[0].Width, "…"),
			fmt.Sprintf("%d", s.MessageCount),
			FormatTokens(s.TotalTokens),
			FormatCost(s.EstimatedCost),
			FormatTimeAgo(s.LastUpdated),
		}
	}

	return styledTable(columns, rows, height)
}

func newDailyTable(daily []metrics.DailyAggregate, width, height int) table.Model {
	columns := dailyColumns(width)

	rows := make([]table.Row, len(daily))
	for i, d := range daily {
		rows[i] = table.Row{
			d.Date,
			FormatTokens(d.InputTokens),
			FormatTokens(d.OutputTokens),
			FormatTokens(d.CacheReadTokens),
			FormatTokens(d.CacheWriteTokens),
			FormatTokens(d.TotalTokens),
			fmt.Sprintf("%d", d.MessageCount),
		}
	}

	return styledTable(columns, rows, height)
}

func styledTable(columns []table.Column, rows []table.Row, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorPrimary).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Selected = s.Selected.
		Foreground(ColorText).
		Background(ColorSurface).
		Bold(false)
	s.Cell = s.Cell.
		Foreground(ColorText)
	t.SetStyles(s)

	return t
}
