package metrics

import (
	"sort"
	"time"
)

// ModelAggregate sums usage for one (provider, model) pair. The cost fields
// start nil and are set together by AnnotateCosts once a price resolves; they
// are never partially populated.
type ModelAggregate struct {
	ProviderID string
	ModelID    string

	InputTokens      int64
	OutputTokens     int64
	CacheReadTokens  int64
	CacheWriteTokens int64
	TotalTokens      int64 // input + output only; cache tokens excluded
	MessageCount     int

	InputCost     *float64
	OutputCost    *float64
	EstimatedCost *float64
}

// SessionAggregate sums usage for one session.
type SessionAggregate struct {
	SessionID string
	Title     string

	InputTokens      int64
	OutputTokens     int64
	CacheReadTokens  int64
	CacheWriteTokens int64
	TotalTokens      int64
	MessageCount     int
	LastUpdated      int64 // epoch millis, max over contributing records

	EstimatedCost *float64
}

// DailyAggregate sums usage for one UTC calendar day. Cost is not
// materialized at daily granularity.
type DailyAggregate struct {
	Date string // "2006-01-02" in UTC

	InputTokens      int64
	OutputTokens     int64
	CacheReadTokens  int64
	CacheWriteTokens int64
	TotalTokens      int64
	MessageCount     int
}

// Summary is the single dashboard roll-up, derived entirely from the model
// and session aggregates.
type Summary struct {
	TotalMessages int
	TotalSessions int

	InputTokens      int64
	OutputTokens     int64
	CacheReadTokens  int64
	CacheWriteTokens int64
	TotalTokens      int64

	TotalCost       *float64
	UniqueModels    int
	UniqueProviders int
}

// AggregateModels folds records into per-(provider, model) aggregates in one
// pass. Records without a model id are skipped. The result descends by
// TotalTokens; ties keep first-encountered order.
func AggregateModels(records []UsageRecord) []ModelAggregate {
	byKey := make(map[string]*ModelAggregate)
	var order []string

	for _, rec := range records {
		if rec.ModelID == "" {
			continue
		}
		key := rec.ProviderID + "|" + rec.ModelID
		agg, ok := byKey[key]
		if !ok {
			agg = &ModelAggregate{ProviderID: rec.ProviderID, ModelID: rec.ModelID}
			byKey[key] = agg
			order = append(order, key)
		}
		agg.InputTokens += rec.InputTokens
		agg.OutputTokens += rec.OutputTokens
		agg.CacheReadTokens += rec.CacheReadTokens
		agg.CacheWriteTokens += rec.CacheWriteTokens
		agg.TotalTokens += rec.InputTokens + rec.OutputTokens
		agg.MessageCount++
	}

	out := make([]ModelAggregate, 0, len(order))
	for _, key := range order {
		out = append(out, *byKey[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalTokens > out[j].TotalTokens
	})
	return out
}

// AggregateSessions folds records into per-session aggregates. Titles come
// from the label list; a blank title falls back to the first 8 characters of
// the session id. Records without a session id are skipped.
func AggregateSessions(records []UsageRecord, labels []SessionLabel) []SessionAggregate {
	titles := make(map[string]string, len(labels))
	for _, l := range labels {
		titles[l.ID] = l.Title
	}

	byID := make(map[string]*SessionAggregate)
	var order []string

	for _, rec := range records {
		if rec.SessionID == "" {
			continue
		}
		agg, ok := byID[rec.SessionID]
		if !ok {
			agg = &SessionAggregate{
				SessionID: rec.SessionID,
				Title:     sessionTitle(rec.SessionID, titles[rec.SessionID]),
			}
			byID[rec.SessionID] = agg
			order = append(order, rec.SessionID)
		}
		agg.InputTokens += rec.InputTokens
		agg.OutputTokens += rec.OutputTokens
		agg.CacheReadTokens += rec.CacheReadTokens
		agg.CacheWriteTokens += rec.CacheWriteTokens
		agg.TotalTokens += rec.InputTokens + rec.OutputTokens
		agg.MessageCount++
		if ts := maxInt64(rec.TimeUpdated, rec.TimeCreated); ts > agg.LastUpdated {
			agg.LastUpdated = ts
		}
	}

	out := make([]SessionAggregate, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalTokens > out[j].TotalTokens
	})
	return out
}

// AggregateDaily folds records into per-day aggregates keyed by the record's
// creation date in UTC, ascending by date string.
func AggregateDaily(records []UsageRecord) []DailyAggregate {
	byDate := make(map[string]*DailyAggregate)
	var order []string

	for _, rec := range records {
		date := time.UnixMilli(rec.TimeCreated).UTC().Format("2006-01-02")
		agg, ok := byDate[date]
		if !ok {
			agg = &DailyAggregate{Date: date}
			byDate[date] = agg
			order = append(order, date)
		}
		agg.InputTokens += rec.InputTokens
		agg.OutputTokens += rec.OutputTokens
		agg.CacheReadTokens += rec.CacheReadTokens
		agg.CacheWriteTokens += rec.CacheWriteTokens
		agg.TotalTokens += rec.InputTokens + rec.OutputTokens
		agg.MessageCount++
	}

	out := make([]DailyAggregate, 0, len(order))
	for _, date := range order {
		out = append(out, *byDate[date])
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out
}

// Summarize derives the dashboard roll-up. Token and message totals come from
// the session aggregates (which include model-less records); model and
// provider counts come from the model aggregates. TotalCost sums the model
// costs that resolved and stays nil when none did.
func Summarize(models []ModelAggregate, sessions []SessionAggregate) Summary {
	s := Summary{TotalSessions: len(sessions)}

	for _, sess := range sessions {
		s.TotalMessages += sess.MessageCount
		s.InputTokens += sess.InputTokens
		s.OutputTokens += sess.OutputTokens
		s.CacheReadTokens += sess.CacheReadTokens
		s.CacheWriteTokens += sess.CacheWriteTokens
		s.TotalTokens += sess.TotalTokens
	}

	seenModels := make(map[string]struct{})
	seenProviders := make(map[string]struct{})
	for _, m := range models {
		seenModels[m.ModelID] = struct{}{}
		seenProviders[m.ProviderID] = struct{}{}
		if m.EstimatedCost != nil {
			if s.TotalCost == nil {
				s.TotalCost = new(float64)
			}
			*s.TotalCost += *m.EstimatedCost
		}
	}
	s.UniqueModels = len(seenModels)
	s.UniqueProviders = len(seenProviders)
	return s
}

func sessionTitle(id, title string) string {
	if title != "" {
		return title
	}
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
