package audit

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/platform/auth"
)

// Recorder writes audit entries on behalf of an explicitly supplied actor.
// Implementations never fail the calling operation.
type Recorder interface {
	Record(ctx context.Context, actor auth.Actor, action Action, resource, resourceID, details string)
}

// FailureCounter is notified when an entry could not be persisted.
type FailureCounter interface {
	AuditWriteFailed()
}

type Service struct {
	repo     Repository
	logger   zerolog.Logger
	failures FailureCounter
}

func NewService(repo Repository, logger zerolog.Logger, failures FailureCounter) *Service {
	return &Service{repo: repo, logger: logger, failures: failures}
}

func (s *Service) Record(ctx context.Context, actor auth.Actor, action Action, resource, resourceID, details string) {
	e := &Entry{
		UserID:     actor.ID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Details:    details,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.Warn().Err(err).
			Str("user_id", actor.ID).
			Str("action", string(action)).
			Str("resource", resource).
			Str("resource_id", resourceID).
			Msg("audit write failed")
		if s.failures != nil {
			s.failures.AuditWriteFailed()
		}
	}
}

func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]*Entry, int, error) {
	return s.repo.List(ctx, userID, limit, offset)
}
