package profiles

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no profile matches.
var ErrNotFound = errors.New("profile not found")

// Repo persists profiles. Upsert must be atomic: concurrent calls for the
// same user leave exactly one header and one body row.
type Repo interface {
	Upsert(ctx context.Context, userID string, data ParsedProfile) (Profile, error)
	GetCurrent(ctx context.Context, userID string) (Record, error)
	GetByID(ctx context.Context, userID, profileID string) (Record, error)
	ListForUser(ctx context.Context, userID string) ([]Record, error)
}
