package catalog

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryIndex is a brute-force cosine index held in process memory.
// It is the authoritative query path when CATALOG_INDEX=memory: vectors are
// persisted by the repository and mirrored here at boot and on re-embed.
// Each Upsert swaps the whole vector for a record under the write lock, so
// concurrent readers never observe a partially-updated entry.
type MemoryIndex struct {
	mu      sync.RWMutex
	vectors map[uuid.UUID][]float32
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		vectors: make(map[uuid.UUID][]float32),
	}
}

func (idx *MemoryIndex) Upsert(_ context.Context, entry Entry) error {
	if len(entry.Vector) == 0 {
		return fmt.Errorf("catalog: refusing to index empty vector for %s", entry.ServiceID)
	}

	// Copy so the caller can't mutate the stored vector afterwards.
	vec := make([]float32, len(entry.Vector))
	copy(vec, entry.Vector)

	idx.mu.Lock()
	idx.vectors[entry.ServiceID] = vec
	idx.mu.Unlock()
	return nil
}

func (idx *MemoryIndex) Remove(_ context.Context, id uuid.UUID) error {
	idx.mu.Lock()
	delete(idx.vectors, id)
	idx.mu.Unlock()
	return nil
}

func (idx *MemoryIndex) Query(_ context.Context, vector []float32, k int) ([]Match, error) {
	if k <= 0 {
		return []Match{}, nil
	}

	idx.mu.RLock()
	matches := make([]Match, 0, len(idx.vectors))
	for id, vec := range idx.vectors {
		distance, ok := cosineDistance(vector, vec)
		if !ok {
			continue // dimension mismatch, record indexed under another dim
		}
		matches = append(matches, Match{
			ServiceID: id,
			Score:     ScoreFromCosineDistance(distance),
		})
	}
	idx.mu.RUnlock()

	// Deterministic order: score desc, then catalog id asc for ties.
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ServiceID.String() < matches[j].ServiceID.String()
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// Len reports how many records are indexed. Used by boot-time hydration logs.
func (idx *MemoryIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.vectors)
}

func cosineDistance(a, b []float32) (float64, bool) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, false
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}

	similarity := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return 1 - similarity, true
}
