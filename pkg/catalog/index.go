package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Entry is a service vector as stored in the index. The index stores
// whatever vector it is given; re-embedding on update is the caller's job.
type Entry struct {
	ServiceID uuid.UUID
	Vector    []float32
}

// Match is a nearest-neighbor hit with a normalized similarity score.
type Match struct {
	ServiceID uuid.UUID
	Score     float64 // 0..100, decreasing with cosine distance
}

// Index answers nearest-neighbor queries over the service catalog.
// Querying an empty index returns an empty result, not an error.
type Index interface {
	Upsert(ctx context.Context, entry Entry) error
	Query(ctx context.Context, vector []float32, k int) ([]Match, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

// ScoreFromCosineDistance maps pgvector cosine distance (0..2) onto the
// 0..100 scale used everywhere downstream. Identical vectors score 100,
// opposite vectors score 0.
func ScoreFromCosineDistance(distance float64) float64 {
	score := (2 - distance) / 2 * 100
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
