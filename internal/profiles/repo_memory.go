package profiles

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-memory Repo for local development and tests.
type MemoryRepo struct {
	mu     sync.Mutex
	byUser map[string]*Record
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byUser: make(map[string]*Record)}
}

func (r *MemoryRepo) Upsert(ctx context.Context, userID string, data ParsedProfile) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	existing, ok := r.byUser[userID]
	if !ok {
		rec := &Record{
			Profile: Profile{
				ID:        uuid.NewString(),
				UserID:    userID,
				Title:     DefaultTitle,
				Template:  DefaultTemplate,
				CreatedAt: now,
				UpdatedAt: now,
			},
			Data: data,
		}
		r.byUser[userID] = rec
		return rec.Profile, nil
	}

	existing.Data = data
	existing.Profile.UpdatedAt = now
	return existing.Profile, nil
}

func (r *MemoryRepo) GetCurrent(ctx context.Context, userID string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byUser[userID]
	if !ok || rec.Data.PersonalInfo.Empty() {
		return Record{}, ErrNotFound
	}
	return *rec, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID, profileID string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byUser[userID]
	if !ok || rec.Profile.ID != profileID || rec.Data.PersonalInfo.Empty() {
		return Record{}, ErrNotFound
	}
	return *rec, nil
}

func (r *MemoryRepo) ListForUser(ctx context.Context, userID string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byUser[userID]
	if !ok || rec.Data.PersonalInfo.Empty() {
		return nil, nil
	}
	return []Record{*rec}, nil
}

// Count reports the number of stored profiles. Test helper.
func (r *MemoryRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byUser)
}

var _ Repo = (*MemoryRepo)(nil)
