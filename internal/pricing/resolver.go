package pricing

// Target is one (model, provider) pair present in the current aggregation.
type Target struct {
	ModelID    string
	ProviderID string
}

// Index is a narrowed lookup table from candidate key to price entry. It is
// built from the working set of targets rather than the full catalog, which
// may span hundreds of providers.
type Index map[string]*PriceEntry

// Narrow returns an index holding only catalog entries that at least one
// generated alias of at least one target could match. Every retained entry is
// registered under its colon-, slash- and bare-key spellings.
func (cat Catalog) Narrow(targets []Target) Index {
	wanted := make(map[string]struct{})
	for _, t := range targets {
		for _, a := range Aliases(t.ModelID, t.ProviderID) {
			wanted[a] = struct{}{}
		}
		for _, a := range ParentAliases(t.ModelID) {
			wanted[a] = struct{}{}
		}
	}

	idx := make(Index)
	for providerID, models := range cat {
		for modelID, entry := range models {
			keys := []string{
				providerID + ":" + modelID,
				providerID + "/" + modelID,
				modelID,
			}
			hit := false
			for _, k := range keys {
				if _, ok := wanted[k]; ok {
					hit = true
					break
				}
			}
			if !hit {
				continue
			}
			for _, k := range keys {
				// Bare model ids can collide across providers; the
				// qualified keys always win, so only fill a bare slot
				// that is still empty.
				if _, taken := idx[k]; !taken {
					idx[k] = entry
				}
			}
		}
	}
	return idx
}

// Resolver answers price lookups against a narrowed index.
type Resolver struct {
	idx Index
}

// NewResolver creates a resolver over the given index.
func NewResolver(idx Index) *Resolver {
	return &Resolver{idx: idx}
}

// Resolve tries each alias candidate in order and returns the first hit.
func (r *Resolver) Resolve(modelID, providerID string) (*PriceEntry, bool) {
	for _, key := range Aliases(modelID, providerID) {
		if entry, ok := r.idx[key]; ok {
			return entry, true
		}
	}
	return nil, false
}

// ResolveViaParentProvider looks up the generic source-vendor price for a
// model, following only the parent-provider fallback path. Callers use this
// when the contracted provider does not price the model transparently.
func (r *Resolver) ResolveViaParentProvider(modelID string) (*PriceEntry, bool) {
	for _, key := range ParentAliases(modelID) {
		if entry, ok := r.idx[key]; ok {
			return entry, true
		}
	}
	return nil, false
}

// InputCost prices inputTokens. When the entry defines an above-threshold
// tier and the count exceeds it, the entire count is priced at that single
// tier; usage is never split across tiers.
func (e *PriceEntry) InputCost(tokens int64) float64 {
	rate := e.Input
	switch {
	case tokens > 200_000 && e.InputAbove200K != nil:
		rate = *e.InputAbove200K
	case tokens > 128_000 && e.InputAbove128K != nil:
		rate = *e.InputAbove128K
	}
	return float64(tokens) / 1_000_000 * rate
}

// OutputCost prices outputTokens with the same single-tier rule as InputCost.
func (e *PriceEntry) OutputCost(tokens int64) float64 {
	rate := e.Output
	switch {
	case tokens > 200_000 && e.OutputAbove200K != nil:
		rate = *e.OutputAbove200K
	case tokens > 128_000 && e.OutputAbove128K != nil:
		rate = *e.OutputAbove128K
	}
	return float64(tokens) / 1_000_000 * rate
}

// Cost prices a full usage snapshot. Cache reads and writes contribute only
// when the entry defines the corresponding price; base pricing is frequently
// known while cache pricing is not, and an unknown cache rate must not null
// out the whole computation.
func (e *PriceEntry) Cost(inputTokens, outputTokens, cacheReadTokens, cacheWriteTokens int64) float64 {
	cost := e.InputCost(inputTokens) + e.OutputCost(outputTokens)
	if e.CacheRead != nil {
		cost += float64(cacheReadTokens) / 1_000_000 * *e.CacheRead
	}
	if e.CacheWrite != nil {
		cost += float64(cacheWriteTokens) / 1_000_000 * *e.CacheWrite
	}
	return cost
}
