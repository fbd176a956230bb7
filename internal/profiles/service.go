package profiles

import "context"

// Service exposes profile reads to handlers. Writes happen through the
// ingestion pipeline only.
type Service struct {
	repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{repo: repo}
}

func (s *Service) Current(ctx context.Context, userID string) (Record, error) {
	return s.repo.GetCurrent(ctx, userID)
}

func (s *Service) ByID(ctx context.Context, userID, profileID string) (Record, error) {
	return s.repo.GetByID(ctx, userID, profileID)
}

func (s *Service) List(ctx context.Context, userID string) ([]Record, error) {
	return s.repo.ListForUser(ctx, userID)
}
