package idempotency

import "context"

// Store tracks which notification keys have already been claimed. Acquire is
// first-claim-wins: exactly one caller per key sees true. Release gives the
// key back after a failed delivery so a retry can claim it again.
type Store interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}
