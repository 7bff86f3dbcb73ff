package pricing

import (
	"regexp"
	"strings"
)

// Catalogs rarely agree on how a model is spelled. Records may carry
// "claude-sonnet-4.5" while the catalog prices "anthropic/claude-sonnet-4-5",
// or a short release alias where the catalog only knows the dated snapshot.
// The functions here turn one (model, provider) pair into the ordered list of
// catalog keys worth trying, most specific first. The output is deterministic:
// resolution is "first match wins", so order is part of the contract.

// providerHints maps model-family keywords to the provider that ships them.
// Ordered; first match wins.
var providerHints = []struct {
	keyword  string
	provider string
}{
	{"claude", "anthropic"},
	{"gpt", "openai"},
	{"o1", "openai"},
	{"o3", "openai"},
	{"o4", "openai"},
	{"gemini", "google"},
	{"gemma", "google"},
	{"grok", "xai"},
	{"deepseek", "deepseek"},
	{"mistral", "mistral"},
	{"codestral", "mistral"},
	{"llama", "meta"},
	{"qwen", "alibaba"},
}

// renames maps short release aliases to the dated snapshot ids most catalogs
// key their prices under.
var renames = map[string]string{
	"claude-sonnet-4-5": "claude-sonnet-4-5-20250929",
	"claude-sonnet-4":   "claude-sonnet-4-20250514",
	"claude-opus-4-5":   "claude-opus-4-5-20251101",
	"claude-opus-4-1":   "claude-opus-4-1-20250805",
	"claude-opus-4":     "claude-opus-4-20250514",
	"claude-haiku-4-5":  "claude-haiku-4-5-20251001",
	"claude-3-5-haiku":  "claude-3-5-haiku-20241022",
	"gemini-2-5-pro":    "gemini-2.5-pro",
	"gemini-2-5-flash":  "gemini-2.5-flash",
}

// parentSuffixes are qualifiers a contracted provider appends to a base model
// id. Stripping them yields the generic id the source vendor prices directly.
var parentSuffixes = []string{
	":free",
	"-free",
	"-preview",
	"-latest",
	"-exp",
	"-mini",
}

// parentPrefixes are vendor path prefixes seen on re-hosted model ids.
var parentPrefixes = []string{
	"openrouter/",
	"models/",
	"accounts/fireworks/models/",
	"anthropic/",
	"openai/",
	"google/",
	"meta-llama/",
}

// parentCaps restores the capitalization certain vendor families use in the
// upstream catalog, keyed by the lowercased family token.
var parentCaps = map[string]string{
	"minimax":  "MiniMax",
	"glm":      "GLM",
	"devstral": "Devstral",
}

var digitDashDigit = regexp.MustCompile(`(\d)-(\d)`)

// sepVariants returns the id plus its separator-normalized forms: version
// numbers spelled "4.5" and "4-5" must hit the same entry.
func sepVariants(id string) []string {
	dashed := strings.ReplaceAll(id, ".", "-")
	dotted := digitDashDigit.ReplaceAllString(id, "$1.$2")
	return dedupe([]string{id, dashed, dotted})
}

// InferProvider guesses a provider id from model-family keywords. Returns ""
// when no keyword matches.
func InferProvider(modelID string) string {
	lower := strings.ToLower(modelID)
	for _, h := range providerHints {
		if strings.Contains(lower, h.keyword) {
			return h.provider
		}
	}
	return ""
}

// Aliases produces the ordered, deduplicated candidate keys for a direct
// catalog lookup. providerID may be empty, in which case one is inferred from
// the model id.
func Aliases(modelID, providerID string) []string {
	modelID = strings.ToLower(strings.TrimSpace(modelID))
	providerID = strings.ToLower(strings.TrimSpace(providerID))
	if modelID == "" {
		return nil
	}
	if providerID == "" {
		providerID = InferProvider(modelID)
	}

	bases := sepVariants(modelID)
	// A known rename substitutes the snapshot id and regenerates variants.
	for _, b := range bases {
		if renamed, ok := renames[strings.ReplaceAll(b, ".", "-")]; ok {
			bases = append(bases, sepVariants(renamed)...)
			break
		}
	}
	bases = dedupe(bases)

	var out []string
	if providerID != "" {
		for _, b := range bases {
			out = append(out, providerID+":"+b)
		}
	}
	out = append(out, bases...)
	if providerID != "" {
		for _, b := range bases {
			out = append(out, providerID+"/"+b)
		}
	}
	return dedupe(out)
}

// ParentAliases produces candidates for the parent-provider fallback: the
// generic (non-snapshot, non-rehosted) id priced by the model's source vendor.
// Used only when the caller explicitly wants source pricing instead of the
// contracted provider's own rate.
func ParentAliases(modelID string) []string {
	id := strings.ToLower(strings.TrimSpace(modelID))
	if id == "" {
		return nil
	}
	for _, p := range parentPrefixes {
		id = strings.TrimPrefix(id, p)
	}
	for stripped := true; stripped; {
		stripped = false
		for _, s := range parentSuffixes {
			if strings.HasSuffix(id, s) && len(id) > len(s) {
				id = strings.TrimSuffix(id, s)
				stripped = true
			}
		}
	}
	if renamed, ok := renames[strings.ReplaceAll(id, ".", "-")]; ok {
		id = renamed
	}

	bases := sepVariants(id)
	if family, _, ok := strings.Cut(id, "-"); ok {
		if caps, found := parentCaps[family]; found {
			bases = append(bases, caps+strings.TrimPrefix(id, family))
		}
	}
	bases = dedupe(bases)

	provider := InferProvider(id)
	var out []string
	if provider != "" {
		for _, b := range bases {
			out = append(out, provider+":"+b)
		}
	}
	out = append(out, bases...)
	if provider != "" {
		for _, b := range bases {
			out = append(out, provider+"/"+b)
		}
	}
	return dedupe(out)
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
