package relationships

import (
	"context"

	"github.com/google/uuid"
)

// Service is the contact graph. It has no end-user write path: edges are
// only created through Connect, which friend request acceptance calls.
type Service struct {
	repo Repository
}

// NewService creates new contact graph service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// AreContacts reports whether a and b are contacts.
func (s *Service) AreContacts(ctx context.Context, a, b uuid.UUID) (bool, error) {
	return s.repo.Connected(ctx, a, b)
}

// ListContacts returns owner's contacts ordered by username.
func (s *Service) ListContacts(ctx context.Context, ownerID uuid.UUID) ([]*Contact, error) {
	return s.repo.ListContacts(ctx, ownerID)
}

// Connect creates both edges between a and b. Call it with a transactional
// ctx so both inserts commit together. Existing edges are kept.
func (s *Service) Connect(ctx context.Context, a, b uuid.UUID) error {
	if err := s.repo.AddEdge(ctx, a, b); err != nil {
		return err
	}
	return s.repo.AddEdge(ctx, b, a)
}
