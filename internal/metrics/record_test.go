package metrics

import "testing"

func rawWith(data string) RawRecord {
	return RawRecord{
		ID:          "msg_1",
		SessionID:   "ses_1",
		TimeCreated: 1700000000000,
		TimeUpdated: 1700000001000,
		Data:        []byte(data),
	}
}

func TestNormalize(t *testing.T) {
	rec, ok := Normalize(rawWith(`{
		"role": "assistant",
		"modelID": "claude-sonnet-4-5",
		"providerID": "anthropic",
		"tokens": {"input": 100, "output": 50, "reasoning": 10, "cache": {"read": 200, "write": 30}}
	}`))
	if !ok {
		t.Fatal("Normalize dropped a valid record")
	}
	if rec.ModelID != "claude-sonnet-4-5" || rec.ProviderID != "anthropic" {
		t.Errorf("model/provider = %q/%q", rec.ModelID, rec.ProviderID)
	}
	if rec.InputTokens != 100 || rec.OutputTokens != 50 || rec.CacheReadTokens != 200 || rec.CacheWriteTokens != 30 {
		t.Errorf("token counts wrong: %+v", rec)
	}
	if rec.SessionID != "ses_1" || rec.TimeCreated != 1700000000000 {
		t.Errorf("enclosing fields not carried: %+v", rec)
	}
}

func TestNormalizeMalformedPayloadDropped(t *testing.T) {
	if _, ok := Normalize(rawWith(`{not json`)); ok {
		t.Error("malformed payload must be dropped")
	}
}

func TestNormalizeMissingFieldsDefault(t *testing.T) {
	rec, ok := Normalize(rawWith(`{"role": "assistant"}`))
	if !ok {
		t.Fatal("record with missing fields must not be dropped")
	}
	if rec.InputTokens != 0 || rec.OutputTokens != 0 || rec.CacheReadTokens != 0 || rec.CacheWriteTokens != 0 {
		t.Errorf("missing token fields must default to zero: %+v", rec)
	}
	if rec.ModelID != "" {
		t.Errorf("missing model must stay empty, got %q", rec.ModelID)
	}
}

func TestNormalizeNonNumericTokensZero(t *testing.T) {
	rec, ok := Normalize(rawWith(`{
		"modelID": "gpt-4o",
		"tokens": {"input": "garbage", "output": 7}
	}`))
	if !ok {
		t.Fatal("non-numeric token field must not drop the record")
	}
	if rec.InputTokens != 0 {
		t.Errorf("non-numeric input = %d, want 0", rec.InputTokens)
	}
	if rec.OutputTokens != 7 {
		t.Errorf("output = %d, want 7", rec.OutputTokens)
	}
}

func TestNormalizeNegativeTokensClamped(t *testing.T) {
	rec, _ := Normalize(rawWith(`{"modelID": "m", "tokens": {"input": -5}}`))
	if rec.InputTokens != 0 {
		t.Errorf("negative input = %d, want 0", rec.InputTokens)
	}
}

func TestNormalizeProviderDefaultsToUnknown(t *testing.T) {
	rec, _ := Normalize(rawWith(`{"modelID": "gpt-4o"}`))
	if rec.ProviderID != "unknown" {
		t.Errorf("provider = %q, want unknown", rec.ProviderID)
	}

	// No model means no model-keyed aggregation; the sentinel is not applied.
	rec, _ = Normalize(rawWith(`{"role": "user"}`))
	if rec.ProviderID != "" {
		t.Errorf("provider without model = %q, want empty", rec.ProviderID)
	}
}

func TestNormalizeAllCountsDropped(t *testing.T) {
	raws := []RawRecord{
		rawWith(`{"modelID": "a"}`),
		rawWith(`broken`),
		rawWith(`{"modelID": "b"}`),
		rawWith(``),
	}
	records, dropped := NormalizeAll(raws)
	if len(records) != 2 {
		t.Errorf("records = %d, want 2", len(records))
	}
	if dropped != 2 {
		t.Errorf("dropped = %d, want 2", dropped)
	}
}
