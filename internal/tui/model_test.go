package tui

import (
	"errors"
	"testing"

	"github.com/petebeckett/ocmetrics/internal/config"
	"github.com/petebeckett/ocmetrics/internal/metrics"
	"github.com/petebeckett/ocmetrics/internal/refresh"
	"github.com/petebeckett/ocmetrics/internal/tui/messages"
)

var errSchema = errors.New("schema check: missing table")

func newTestModel() *Model {
	return New(config.Default(), nil)
}

func usageMsg(gen refresh.Generation, modelID string) messages.UsageLoadedMsg {
	models := []metrics.ModelAggregate{{ProviderID: "anthropic", ModelID: modelID, TotalTokens: 100}}
	return messages.UsageLoadedMsg{
		Gen:     gen,
		Models:  models,
		Summary: metrics.Summarize(models, nil),
	}
}

func TestStaleUsageResultDiscarded(t *testing.T) {
	m := newTestModel()
	m.reloadCmd() // generation 1

	m.Update(usageMsg(1, "claude-sonnet-4"))
	if len(m.models) != 1 || m.models[0].ModelID != "claude-sonnet-4" {
		t.Fatalf("current-generation result not applied: %+v", m.models)
	}

	m.reloadCmd() // generation 2 supersedes 1

	m.Update(usageMsg(1, "stale-model"))
	if m.models[0].ModelID != "claude-sonnet-4" {
		t.Errorf("stale usage result overwrote current data: %+v", m.models)
	}

	m.Update(usageMsg(2, "gpt-4o"))
	if m.models[0].ModelID != "gpt-4o" {
		t.Errorf("generation-2 result should apply: %+v", m.models)
	}
}

func TestStalePricingResultDiscarded(t *testing.T) {
	m := newTestModel()
	m.reloadCmd()
	m.Update(usageMsg(1, "claude-sonnet-4"))

	m.reloadCmd()
	m.Update(usageMsg(2, "claude-sonnet-4"))

	cost := 12.5
	stale := []metrics.ModelAggregate{{ProviderID: "anthropic", ModelID: "claude-sonnet-4", EstimatedCost: &cost}}
	m.Update(messages.PricingLoadedMsg{Gen: 1, Models: stale})
	if m.models[0].EstimatedCost != nil {
		t.Error("stale pricing result should not annotate current aggregates")
	}

	m.Update(messages.PricingLoadedMsg{Gen: 2, Models: stale, Summary: metrics.Summarize(stale, nil)})
	if m.models[0].EstimatedCost == nil {
		t.Error("current pricing result should annotate aggregates")
	}
}

func TestLoadErrorKeepsPreviousData(t *testing.T) {
	m := newTestModel()
	m.reloadCmd()
	m.Update(usageMsg(1, "claude-sonnet-4"))

	m.reloadCmd()
	m.Update(messages.UsageLoadedMsg{Gen: 2, Err: errSchema})
	if m.err == nil {
		t.Error("reload error should be surfaced")
	}
	if len(m.models) != 1 || m.models[0].ModelID != "claude-sonnet-4" {
		t.Errorf("previous aggregates should survive a failed reload: %+v", m.models)
	}

	m.reloadCmd()
	m.Update(usageMsg(3, "gpt-4o"))
	if m.err != nil {
		t.Errorf("error should clear on successful reload, got %v", m.err)
	}
}
