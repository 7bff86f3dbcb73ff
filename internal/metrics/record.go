package metrics

import "encoding/json"

// RawRecord is one stored message row as handed over by the storage layer.
// Data is the opaque JSON payload of the message.
type RawRecord struct {
	ID          string
	SessionID   string
	TimeCreated int64 // epoch millis
	TimeUpdated int64
	Data        []byte
}

// SessionLabel pairs a session id with its user-visible title.
type SessionLabel struct {
	ID    string
	Title string
}

// UsageRecord is the normalized, defaulted view of one message. Token counts
// are never negative and default to zero; a record with an empty ModelID is
// excluded from model-keyed aggregates but still counts toward its session
// and day.
type UsageRecord struct {
	SessionID  string
	ModelID    string
	ProviderID string
	Role       string

	TimeCreated int64 // epoch millis
	TimeUpdated int64

	InputTokens      int64
	OutputTokens     int64
	CacheReadTokens  int64
	CacheWriteTokens int64
}

// looseCount is a token count that tolerates dirty payloads: anything that is
// not a number decodes to zero instead of failing the record.
type looseCount int64

func (n *looseCount) UnmarshalJSON(b []byte) error {
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		*n = 0
		return nil
	}
	*n = looseCount(v)
	return nil
}

// messagePayload mirrors the loosely structured JSON stored in message.data.
// Every field is optional; absent or non-numeric numerics decode to zero.
type messagePayload struct {
	Role       string `json:"role"`
	ModelID    string `json:"modelID"`
	ProviderID string `json:"providerID"`
	Tokens     struct {
		Input     looseCount `json:"input"`
		Output    looseCount `json:"output"`
		Reasoning looseCount `json:"reasoning"`
		Cache     struct {
			Read  looseCount `json:"read"`
			Write looseCount `json:"write"`
		} `json:"cache"`
	} `json:"tokens"`
}

// Normalize parses one raw record into a UsageRecord. It never returns an
// error: an unparseable payload yields ok=false and the record is dropped, so
// one corrupt row cannot abort an aggregation pass. Missing fields default,
// they do not discard.
func Normalize(raw RawRecord) (UsageRecord, bool) {
	var p messagePayload
	if err := json.Unmarshal(raw.Data, &p); err != nil {
		return UsageRecord{}, false
	}

	rec := UsageRecord{
		SessionID:        raw.SessionID,
		ModelID:          p.ModelID,
		ProviderID:       p.ProviderID,
		Role:             p.Role,
		TimeCreated:      raw.TimeCreated,
		TimeUpdated:      raw.TimeUpdated,
		InputTokens:      clampTokens(int64(p.Tokens.Input)),
		OutputTokens:     clampTokens(int64(p.Tokens.Output)),
		CacheReadTokens:  clampTokens(int64(p.Tokens.Cache.Read)),
		CacheWriteTokens: clampTokens(int64(p.Tokens.Cache.Write)),
	}
	if rec.ModelID != "" && rec.ProviderID == "" {
		rec.ProviderID = "unknown"
	}
	return rec, true
}

// NormalizeAll runs Normalize over a batch and reports how many records were
// dropped as unparseable.
func NormalizeAll(raws []RawRecord) (records []UsageRecord, dropped int) {
	records = make([]UsageRecord, 0, len(raws))
	for _, raw := range raws {
		rec, ok := Normalize(raw)
		if !ok {
			dropped++
			continue
		}
		records = append(records, rec)
	}
	return records, dropped
}

func clampTokens(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}
