package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	// DefaultCatalogURL is the public provider/model price catalog.
	DefaultCatalogURL = "https://models.dev/api.json"
	// DefaultTTL is how long a fetched catalog stays fresh.
	DefaultTTL = 24 * time.Hour
)

// PriceEntry holds USD prices per million tokens for one catalog model.
// Cache prices and above-threshold tiers are optional: most entries only
// define base input/output rates. Entries are immutable once constructed;
// several alias keys may point at the same entry.
type PriceEntry struct {
	Input  float64
	Output float64

	CacheRead  *float64
	CacheWrite *float64

	InputAbove128K  *float64
	OutputAbove128K *float64
	InputAbove200K  *float64
	OutputAbove200K *float64
}

// Catalog maps providerID -> modelID -> price entry.
type Catalog map[string]map[string]*PriceEntry

// wire shapes of the remote document: { provider: { models: { id: { cost } } } }

type catalogCost struct {
	Input           float64  `json:"input"`
	Output          float64  `json:"output"`
	CacheRead       *float64 `json:"cache_read"`
	CacheWrite      *float64 `json:"cache_write"`
	InputAbove128K  *float64 `json:"input_above_128k"`
	OutputAbove128K *float64 `json:"output_above_128k"`
	InputAbove200K  *float64 `json:"input_above_200k"`
	OutputAbove200K *float64 `json:"output_above_200k"`
}

type catalogModel struct {
	Cost *catalogCost `json:"cost"`
}

type catalogProvider struct {
	Models map[string]catalogModel `json:"models"`
}

// parseCatalog decodes the remote document. Models without a cost object are
// unpriced and excluded.
func parseCatalog(data []byte) (Catalog, error) {
	var doc map[string]catalogProvider
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	cat := make(Catalog, len(doc))
	for providerID, p := range doc {
		for modelID, m := range p.Models {
			if m.Cost == nil {
				continue
			}
			if cat[providerID] == nil {
				cat[providerID] = make(map[string]*PriceEntry)
			}
			cat[providerID][modelID] = &PriceEntry{
				Input:           m.Cost.Input,
				Output:          m.Cost.Output,
				CacheRead:       m.Cost.CacheRead,
				CacheWrite:      m.Cost.CacheWrite,
				InputAbove128K:  m.Cost.InputAbove128K,
				OutputAbove128K: m.Cost.OutputAbove128K,
				InputAbove200K:  m.Cost.InputAbove200K,
				OutputAbove200K: m.Cost.OutputAbove200K,
			}
		}
	}
	return cat, nil
}

// cacheFile is the on-disk cache document. Absence, staleness or a parse
// failure are all treated as a cache miss.
type cacheFile struct {
	Timestamp int64           `json:"timestamp"` // epoch millis
	TTL       int64           `json:"ttl"`       // millis
	Data      json.RawMessage `json:"data"`
}

// Cache fetches and time-bounds the price catalog. Pricing is best-effort
// throughout: Load never fails, it degrades to an empty catalog.
type Cache struct {
	url    string
	path   string
	ttl    time.Duration
	client *http.Client
	now    func() time.Time

	mu        sync.Mutex
	catalog   Catalog
	fetchedAt time.Time
}

// NewCache creates a catalog cache backed by a file under dir.
func NewCache(url, dir string, ttl time.Duration) *Cache {
	if url == "" {
		url = DefaultCatalogURL
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		url:    url,
		path:   filepath.Join(dir, "catalog.json"),
		ttl:    ttl,
		client: &http.Client{Timeout: 30 * time.Second},
		now:    time.Now,
	}
}

// Load returns the cached catalog if younger than the TTL, consulting memory
// first, then the cache file, then the network. A fetch failure with no
// usable cache yields an empty catalog, never an error.
func (c *Cache) Load(ctx context.Context) Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.catalog != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.catalog
	}

	if cat, at, ok := c.readFile(); ok {
		c.catalog = cat
		c.fetchedAt = at
		return cat
	}

	data, err := c.fetch(ctx)
	if err != nil {
		return Catalog{}
	}
	cat, err := parseCatalog(data)
	if err != nil {
		return Catalog{}
	}

	c.catalog = cat
	c.fetchedAt = c.now()
	c.writeFile(data)
	return cat
}

// Evict drops the in-memory catalog and the cache file, forcing the next
// Load to fetch.
func (c *Cache) Evict() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.catalog = nil
	c.fetchedAt = time.Time{}
	_ = os.Remove(c.path)
}

func (c *Cache) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog fetch: unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (c *Cache) readFile() (Catalog, time.Time, bool) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, time.Time{}, false
	}
	var f cacheFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, time.Time{}, false
	}
	at := time.UnixMilli(f.Timestamp)
	ttl := time.Duration(f.TTL) * time.Millisecond
	if ttl <= 0 {
		ttl = c.ttl
	}
	if c.now().Sub(at) >= ttl {
		return nil, time.Time{}, false
	}
	cat, err := parseCatalog(f.Data)
	if err != nil {
		return nil, time.Time{}, false
	}
	return cat, at, true
}

// writeFile persists the raw catalog document. Best-effort: a failed write
// only costs a refetch after restart.
func (c *Cache) writeFile(raw []byte) {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return
	}
	f := cacheFile{
		Timestamp: c.now().UnixMilli(),
		TTL:       c.ttl.Milliseconds(),
		Data:      raw,
	}
	data, err := json.Marshal(f)
	if err != nil {
		return
	}
	_ = os.WriteFile(c.path, data, 0644)
}

// DefaultCacheDir returns the per-user cache directory for the catalog file.
func DefaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "ocmetrics")
}
