package memory

import (
	"time"

	"ai-concierge-be/pkg/reco/disclosure"

	"github.com/patrickmn/go-cache"
)

// CachedSet is the unit stored per (session, mode): the disclosed set plus
// the session turn count and limit it was generated against, so staleness
// checks stay cheap reads instead of recomputation.
type CachedSet struct {
	Set       *disclosure.Set
	TurnCount int
	Limit     int
}

type RecommendationCache struct {
	cache *cache.Cache
}

func NewRecommendationCache() *RecommendationCache {
	// Default expiration 1 hour, purge sweep every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &RecommendationCache{
		cache: c,
	}
}

func cacheKey(sessionID string, mode disclosure.Mode) string {
	return sessionID + "|" + string(mode)
}

func (r *RecommendationCache) Save(sessionID string, mode disclosure.Mode, entry *CachedSet) {
	r.cache.Set(cacheKey(sessionID, mode), entry, cache.DefaultExpiration)
}

func (r *RecommendationCache) Get(sessionID string, mode disclosure.Mode) (*CachedSet, bool) {
	if x, found := r.cache.Get(cacheKey(sessionID, mode)); found {
		return x.(*CachedSet), true
	}
	return nil, false
}

func (r *RecommendationCache) Delete(sessionID string, mode disclosure.Mode) {
	r.cache.Delete(cacheKey(sessionID, mode))
}

// Invalidate drops both mode entries for a session. Called when new turns
// arrive so neither tier serves a set computed against shorter history.
func (r *RecommendationCache) Invalidate(sessionID string) {
	r.cache.Delete(cacheKey(sessionID, disclosure.ModeUser))
	r.cache.Delete(cacheKey(sessionID, disclosure.ModeAdmin))
}
