package metrics

import "github.com/petebeckett/ocmetrics/internal/pricing"

// PriceResolver is the slice of the pricing resolver the engine needs.
type PriceResolver interface {
	Resolve(modelID, providerID string) (*pricing.PriceEntry, bool)
}

// Targets lists the distinct (model, provider) pairs present in the records,
// in first-encountered order. This is the working set the catalog is narrowed
// to.
func Targets(records []UsageRecord) []pricing.Target {
	seen := make(map[string]struct{})
	var out []pricing.Target
	for _, rec := range records {
		if rec.ModelID == "" {
			continue
		}
		key := rec.ProviderID + "|" + rec.ModelID
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, pricing.Target{ModelID: rec.ModelID, ProviderID: rec.ProviderID})
	}
	return out
}

// AnnotateCosts prices the aggregates from the raw record set and returns
// annotated copies; the inputs are left untouched so the caller can keep
// serving token-only aggregates while pricing is in flight.
//
// Costs are sums of per-record costs, not a recomputation from aggregate
// totals: tier selection happens per record, and re-tiering a summed count
// would inflate it. A model with no resolvable price keeps all three cost
// fields nil; a session keeps EstimatedCost nil unless every contributing
// record's model priced. Zero, partial and full price coverage are all valid.
func AnnotateCosts(models []ModelAggregate, sessions []SessionAggregate, records []UsageRecord, resolver PriceResolver) ([]ModelAggregate, []SessionAggregate) {
	outModels := append([]ModelAggregate(nil), models...)
	outSessions := append([]SessionAggregate(nil), sessions...)

	entries := make(map[string]*pricing.PriceEntry)
	for _, t := range Targets(records) {
		if entry, ok := resolver.Resolve(t.ModelID, t.ProviderID); ok {
			entries[t.ProviderID+"|"+t.ModelID] = entry
		}
	}

	type modelCost struct{ input, output, total float64 }
	modelCosts := make(map[string]*modelCost)
	sessionCosts := make(map[string]float64)
	sessionUnpriced := make(map[string]bool)

	for _, rec := range records {
		if rec.ModelID == "" {
			// No model means no price; the session cost becomes unknown.
			if rec.SessionID != "" {
				sessionUnpriced[rec.SessionID] = true
			}
			continue
		}
		key := rec.ProviderID + "|" + rec.ModelID
		entry, ok := entries[key]
		if !ok {
			if rec.SessionID != "" {
				sessionUnpriced[rec.SessionID] = true
			}
			continue
		}

		mc := modelCosts[key]
		if mc == nil {
			mc = &modelCost{}
			modelCosts[key] = mc
		}
		inCost := entry.InputCost(rec.InputTokens)
		outCost := entry.OutputCost(rec.OutputTokens)
		full := entry.Cost(rec.InputTokens, rec.OutputTokens, rec.CacheReadTokens, rec.CacheWriteTokens)
		mc.input += inCost
		mc.output += outCost
		mc.total += full
		if rec.SessionID != "" {
			sessionCosts[rec.SessionID] += full
		}
	}

	for i := range outModels {
		key := outModels[i].ProviderID + "|" + outModels[i].ModelID
		mc, ok := modelCosts[key]
		if !ok {
			outModels[i].InputCost = nil
			outModels[i].OutputCost = nil
			outModels[i].EstimatedCost = nil
			continue
		}
		in, out, total := mc.input, mc.output, mc.total
		outModels[i].InputCost = &in
		outModels[i].OutputCost = &out
		outModels[i].EstimatedCost = &total
	}

	for i := range outSessions {
		id := outSessions[i].SessionID
		if sessionUnpriced[id] {
			outSessions[i].EstimatedCost = nil
			continue
		}
		cost := sessionCosts[id]
		outSessions[i].EstimatedCost = &cost
	}

	return outModels, outSessions
}
