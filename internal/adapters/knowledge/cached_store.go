package knowledge

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/clinassist/assessment/internal/domain/entities"
	"github.com/clinassist/assessment/internal/domain/providers"
)

const symptomLookupTTLSeconds = 3600

// CachedStore wraps a knowledge store with a cache for symptom lookups,
// the hot path of every assessment run. Other lookups pass through.
type CachedStore struct {
	providers.KnowledgeStore
	cache providers.CacheProvider
}

// NewCachedStore wraps store with the given cache provider
func NewCachedStore(store providers.KnowledgeStore, cache providers.CacheProvider) *CachedStore {
	return &CachedStore{KnowledgeStore: store, cache: cache}
}

// LookupBySymptoms serves from cache when the same symptom set was
// looked up recently. Cache failures fall through to the inner store.
func (s *CachedStore) LookupBySymptoms(ctx context.Context, symptoms []string) ([]entities.Disease, error) {
	key := symptomCacheKey(symptoms)
	if data, err := s.cache.Get(ctx, key); err == nil && len(data) > 0 {
		var diseases []entities.Disease
		if err := json.Unmarshal(data, &diseases); err == nil {
			return diseases, nil
		}
	}

	diseases, err := s.KnowledgeStore.LookupBySymptoms(ctx, symptoms)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(diseases); err == nil {
		_ = s.cache.Set(ctx, key, data, symptomLookupTTLSeconds)
	}
	return diseases, nil
}

// symptomCacheKey is order-insensitive so equivalent lookups share an entry
func symptomCacheKey(symptoms []string) string {
	normalized := make([]string, len(symptoms))
	for i, symptom := range symptoms {
		normalized[i] = strings.ToLower(symptom)
	}
	sort.Strings(normalized)
	return "kb:symptoms:" + strings.Join(normalized, ",")
}
