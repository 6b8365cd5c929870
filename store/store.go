// Package store persists which matches are followed and the last-seen
// snapshot per match. The delta engine reads the previous snapshot from here
// and writes the current one back after diffing.
package store

import (
	"context"

	"cricketflow/models"
)

// Store is the snapshot persistence contract. Get returns nil for a match
// with no snapshot yet (or one that is not followed). Put for an unfollowed
// match must be a no-op: an in-flight cycle finishing after Unfollow must not
// resurrect the entry.
type Store interface {
	Follow(ctx context.Context, matchID string) error
	Unfollow(ctx context.Context, matchID string) error
	Followed(ctx context.Context) ([]string, error)
	Get(ctx context.Context, matchID string) (*models.Match, error)
	Put(ctx context.Context, matchID string, m models.Match) error
	Close() error
}
