package messages

import (
	"github.com/petebeckett/ocmetrics/internal/metrics"
	"github.com/petebeckett/ocmetrics/internal/refresh"
)

// UsageLoadedMsg carries one reload cycle's token aggregates. Costs are not
// populated yet; pricing follows in a separate message so the tables render
// as soon as the database has been read.
type UsageLoadedMsg struct {
	Gen refresh.Generation

	Records  []metrics.UsageRecord
	Dropped  int
	Models   []metrics.ModelAggregate
	Sessions []metrics.SessionAggregate
	Daily    []metrics.DailyAggregate
	Summary  metrics.Summary

	Projects     int
	SessionCount int
	MessageCount int

	Err error
}

// PricingLoadedMsg carries the cost-annotated aggregates for the same
// generation. A message whose generation is no longer current is dropped.
type PricingLoadedMsg struct {
	Gen refresh.Generation

	Models   []metrics.ModelAggregate
	Sessions []metrics.SessionAggregate
	Summary  metrics.Summary
}
