package tui

import (
	"fmt"
	"time"
)

// FormatTokens renders a token count compactly: 1.2M, 3.4K, or the plain
// number below a thousand.
func FormatTokens(tokens int64) string {
	if millions := float64(tokens) / 1_000_000; millions >= 1 {
		return fmt.Sprintf("%.1fM", millions)
	}
	if thousands := float64(tokens) / 1_000; thousands >= 1 {
		return fmt.Sprintf("%.1fK", thousands)
	}
	return fmt.Sprintf("%d", tokens)
}

// FormatCost renders a dollar amount, or "-" when the cost is unknown because
// no price resolved. Sub-cent amounts keep four decimals so small sessions
// don't all collapse to $0.00.
func FormatCost(cost *float64) string {
	if cost == nil {
		return "-"
	}
	switch {
	case *cost == 0:
		return "$0.00"
	case *cost < 0.01:
		return fmt.Sprintf("$%.4f", *cost)
	default:
		return fmt.Sprintf("$%.2f", *cost)
	}
}

// FormatTimeAgo renders an epoch-millis timestamp relative to now.
func FormatTimeAgo(millis int64) string {
	return timeAgo(millis, time.Now())
}

func timeAgo(millis int64, now time.Time) string {
	if millis == 0 {
		return "N/A"
	}

	d := now.Sub(time.UnixMilli(millis))
	switch {
	case d.Minutes() < 1:
		return "just now"
	case d.Minutes() < 60:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d.Hours() < 24:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d.Hours() < 24*7:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	case d.Hours() < 24*30:
		return fmt.Sprintf("%dw ago", int(d.Hours()/(24*7)))
	default:
		return fmt.Sprintf("%dmo ago", int(d.Hours()/(24*30)))
	}
}
