package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/greekops/chapterdata/modules/roster/domain/member"
)

// SweepService deletes members whose grace period has fully elapsed. It is
// invoked by an operator, never from an import path, and is a no-op when run
// repeatedly.
type SweepService struct {
	repo member.Repository
	log  *logrus.Logger
}

func NewSweepService(repo member.Repository, log *logrus.Logger) *SweepService {
	return &SweepService{repo: repo, log: log}
}

// RemoveExpired returns the members it removed (or, in dry-run, would have
// removed).
func (s *SweepService) RemoveExpired(ctx context.Context, dryRun bool) ([]*member.Member, error) {
	marked, err := s.repo.GetMarked(ctx)
	if err != nil {
		return nil, err
	}
	if len(marked) == 0 {
		s.log.Info("no members marked for removal")
		return nil, nil
	}

	now := nowFn().UTC()
	var removed []*member.Member
	for _, m := range marked {
		if !m.ShouldBeRemoved(now) {
			continue
		}
		daysMarked := int(now.Sub(*m.MarkedForRemovalAt).Hours() / 24)
		entry := s.log.WithFields(logrus.Fields{
			"member":      m.MemberNumber,
			"name":        m.FullName(),
			"days_marked": daysMarked,
			"reason":      m.RemovalReason,
		})
		if dryRun {
			entry.Info("would remove member (dry run)")
			removed = append(removed, m)
			continue
		}
		if err := s.repo.Delete(ctx, m.ID); err != nil {
			entry.WithError(err).Error("failed to remove member")
			continue
		}
		entry.Info("removed member after grace period")
		removed = append(removed, m)
	}

	if len(removed) == 0 {
		s.log.WithField("in_grace", len(marked)).
			Info("members in grace period, none ready for removal yet")
	}
	return removed, nil
}
