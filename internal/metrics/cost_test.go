package metrics

import (
	"math"
	"testing"

	"github.com/petebeckett/ocmetrics/internal/pricing"
)

func testResolver() *pricing.Resolver {
	cacheRead := 0.3
	return pricing.NewResolver(pricing.Index{
		"openai:gpt-4o":               {Input: 2.5, Output: 10},
		"anthropic:claude-sonnet-4-5": {Input: 3, Output: 15, CacheRead: &cacheRead},
		"anthropic:claude-sonnet-4.5": {Input: 3, Output: 15, CacheRead: &cacheRead},
	})
}

func TestAnnotateCostsAllOrNothing(t *testing.T) {
	records := []UsageRecord{
		rec("s1", "gpt-4o", "openai", 1_000_000, 500_000),
		rec("s2", "mystery-model", "nowhere", 100, 100),
	}
	models := AggregateModels(records)
	sessions := AggregateSessions(records, nil)
	models, sessions = AnnotateCosts(models, sessions, records, testResolver())

	for _, m := range models {
		priced := m.ModelID == "gpt-4o"
		if (m.InputCost != nil) != priced || (m.OutputCost != nil) != priced || (m.EstimatedCost != nil) != priced {
			t.Errorf("model %q cost fields must be all set or all nil: %+v", m.ModelID, m)
		}
	}

	var gpt ModelAggregate
	for _, m := range models {
		if m.ModelID == "gpt-4o" {
			gpt = m
		}
	}
	if !close2(*gpt.InputCost, 2.5) || !close2(*gpt.OutputCost, 5.0) || !close2(*gpt.EstimatedCost, 7.5) {
		t.Errorf("gpt-4o costs = %v/%v/%v, want 2.5/5/7.5", *gpt.InputCost, *gpt.OutputCost, *gpt.EstimatedCost)
	}

	for _, s := range sessions {
		switch s.SessionID {
		case "s1":
			if s.EstimatedCost == nil || !close2(*s.EstimatedCost, 7.5) {
				t.Errorf("s1 cost = %v, want 7.5", s.EstimatedCost)
			}
		case "s2":
			if s.EstimatedCost != nil {
				t.Errorf("s2 cost must stay nil for an unpriced model, got %v", *s.EstimatedCost)
			}
		}
	}
}

func TestAnnotateCostsSessionNullOnAnyUnpricedModel(t *testing.T) {
	records := []UsageRecord{
		rec("s1", "gpt-4o", "openai", 1000, 500),
		rec("s1", "mystery-model", "nowhere", 1, 1),
	}
	models := AggregateModels(records)
	sessions := AggregateSessions(records, nil)
	_, sessions = AnnotateCosts(models, sessions, records, testResolver())

	if sessions[0].EstimatedCost != nil {
		t.Error("one unpriced model must null the whole session cost")
	}
}

func TestAnnotateCostsSessionSumsPerRecord(t *testing.T) {
	records := []UsageRecord{
		rec("s1", "gpt-4o", "openai", 1_000_000, 0),
		rec("s1", "claude-sonnet-4-5", "anthropic", 0, 1_000_000),
	}
	models := AggregateModels(records)
	sessions := AggregateSessions(records, nil)
	_, sessions = AnnotateCosts(models, sessions, records, testResolver())

	if sessions[0].EstimatedCost == nil {
		t.Fatal("expected priced session")
	}
	if !close2(*sessions[0].EstimatedCost, 17.5) {
		t.Errorf("session cost = %v, want 17.5 (2.5 input + 15 output)", *sessions[0].EstimatedCost)
	}
}

func TestAnnotateCostsModellessRecordNullsSession(t *testing.T) {
	records := []UsageRecord{
		rec("s1", "gpt-4o", "openai", 1000, 500),
		rec("s1", "", "", 10, 10),
	}
	models := AggregateModels(records)
	sessions := AggregateSessions(records, nil)
	_, sessions = AnnotateCosts(models, sessions, records, testResolver())

	if sessions[0].EstimatedCost != nil {
		t.Error("a model-less record has no resolvable price; session cost must be nil")
	}
}

func TestAnnotateCostsCacheTokensPricedWhenRateKnown(t *testing.T) {
	records := []UsageRecord{
		{SessionID: "s1", ModelID: "claude-sonnet-4-5", ProviderID: "anthropic", CacheReadTokens: 1_000_000},
	}
	models := AggregateModels(records)
	sessions := AggregateSessions(records, nil)
	models, _ = AnnotateCosts(models, sessions, records, testResolver())

	if models[0].EstimatedCost == nil || !close2(*models[0].EstimatedCost, 0.3) {
		t.Errorf("cache-read cost = %v, want 0.3", models[0].EstimatedCost)
	}
	if !close2(*models[0].InputCost, 0) || !close2(*models[0].OutputCost, 0) {
		t.Error("input/output costs should be zero, not nil")
	}
}

func TestAnnotateCostsLeavesInputsUntouched(t *testing.T) {
	records := []UsageRecord{rec("s1", "gpt-4o", "openai", 1000, 500)}
	models := AggregateModels(records)
	sessions := AggregateSessions(records, nil)
	AnnotateCosts(models, sessions, records, testResolver())

	if models[0].EstimatedCost != nil || sessions[0].EstimatedCost != nil {
		t.Error("AnnotateCosts must annotate copies, not the inputs")
	}
}

func TestSummarizeTotalCostAfterAnnotation(t *testing.T) {
	records := []UsageRecord{
		rec("s1", "gpt-4o", "openai", 1_000_000, 0),
		rec("s1", "mystery-model", "nowhere", 100, 100),
	}
	models := AggregateModels(records)
	sessions := AggregateSessions(records, nil)
	models, sessions = AnnotateCosts(models, sessions, records, testResolver())
	sum := Summarize(models, sessions)

	if sum.TotalCost == nil || !close2(*sum.TotalCost, 2.5) {
		t.Errorf("TotalCost = %v, want 2.5 from the priced model only", sum.TotalCost)
	}
}

func TestTargetsDedupicatesInOrder(t *testing.T) {
	records := []UsageRecord{
		rec("s", "a", "p1", 1, 1),
		rec("s", "b", "p1", 1, 1),
		rec("s", "a", "p1", 1, 1),
		rec("s", "", "", 1, 1),
		rec("s", "a", "p2", 1, 1),
	}
	targets := Targets(records)
	want := []pricing.Target{{ModelID: "a", ProviderID: "p1"}, {ModelID: "b", ProviderID: "p1"}, {ModelID: "a", ProviderID: "p2"}}
	if len(targets) != len(want) {
		t.Fatalf("targets = %v, want %v", targets, want)
	}
	for i := range want {
		if targets[i] != want[i] {
			t.Errorf("targets[%d] = %v, want %v", i, targets[i], want[i])
		}
	}
}

func close2(got, want float64) bool {
	return math.Abs(got-want) < 1e-9
}
