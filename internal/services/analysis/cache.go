package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bobmcallan/revpulse/internal/models"
)

// defaultCacheTTL bounds staleness for summaries computed from an unchanged
// review set; the key already changes whenever the reviews do.
const defaultCacheTTL = 15 * time.Minute

type cacheEntry struct {
	summary   *models.AnalysisSummaryData
	expiresAt time.Time
}

// summaryCache memoizes computed summaries keyed on business, review set,
// and analysis config.
type summaryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

func newSummaryCache(ttl time.Duration) *summaryCache {
	return &summaryCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

// cacheKey derives a stable key from the business name, the identity of the
// review set, and the analysis config fingerprint.
func cacheKey(businessName string, reviews []models.Review, cfg *models.AnalysisConfig) string {
	ids := make([]string, len(reviews))
	for i, r := range reviews {
		ids[i] = r.ID
	}
	sort.Strings(ids)

	h := sha256.New()
	h.Write([]byte(strings.Join(ids, "\x00")))
	setHash := hex.EncodeToString(h.Sum(nil))[:16]

	return businessName + "|" + setHash + "|" + cfg.Fingerprint()
}

func (c *summaryCache) get(key string) (*models.AnalysisSummaryData, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.summary, true
}

func (c *summaryCache) put(key string, summary *models.AnalysisSummaryData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{summary: summary, expiresAt: time.Now().Add(c.ttl)}
}

// invalidate drops all cached summaries for a business.
func (c *summaryCache) invalidate(businessName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := businessName + "|"
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}
