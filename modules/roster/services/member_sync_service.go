package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/greekops/chapterdata/modules/roster/domain/member"
	"github.com/greekops/chapterdata/pkg/eventbus"
	"github.com/greekops/chapterdata/pkg/importer"
	"github.com/greekops/chapterdata/pkg/tabular"
)

// removalReason is what the sweep (and the member portal) show for members
// marked during an HQ sync.
const removalReason = "Not on current HQ list - requires dues verification"

type MemberSyncService struct {
	repo      member.Repository
	publisher eventbus.EventBus
	log       *logrus.Logger
}

func NewMemberSyncService(repo member.Repository, publisher eventbus.EventBus, log *logrus.Logger) *MemberSyncService {
	return &MemberSyncService{repo: repo, publisher: publisher, log: log}
}

// SyncWithHQ cross-checks the persisted roster against the member numbers in
// the supplied HQ list. Members absent from the list start a grace-period
// countdown; marked members present in the list have the countdown cleared.
// Nothing is deleted here; the removal sweep is a separate action.
func (s *MemberSyncService) SyncWithHQ(ctx context.Context, t *tabular.Table, apply bool) (*importer.Result, error) {
	mapping, err := tabular.Detect(t.Headers, syncFormats)
	if err != nil {
		return nil, err
	}

	result := importer.NewResult()
	defer result.Finish()
	result.Format = mapping.Format.Name

	numbers := make(map[string]struct{})
	for _, row := range t.Rows {
		n := mapping.GetTrimmed(row, fieldMemberNumber)
		if n == "" {
			result.AddSkipped()
			continue
		}
		numbers[n] = struct{}{}
	}
	if len(numbers) == 0 {
		return nil, fmt.Errorf("no valid member numbers found in file")
	}

	s.log.WithFields(logrus.Fields{
		"run_id":  result.RunID,
		"numbers": len(numbers),
		"apply":   apply,
	}).Info("HQ member sync started")

	members, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	now := nowFn().UTC()
	for _, m := range members {
		onList := false
		if _, ok := numbers[m.MemberNumber]; ok {
			onList = true
		}

		var changed bool
		if onList {
			changed = m.ClearRemovalMark()
		} else {
			changed = m.MarkForRemoval(now, removalReason)
		}
		if !changed {
			result.AddSkipped()
			continue
		}

		if apply {
			if err := s.repo.Update(ctx, m); err != nil {
				result.AddRunError(fmt.Errorf("member %s: %v", m.MemberNumber, err))
				continue
			}
			if onList {
				s.publisher.Publish(&member.RemovalMarkClearedEvent{Member: m})
			} else {
				s.publisher.Publish(&member.MarkedForRemovalEvent{Member: m})
			}
		}
		result.AddUpdated()

		entry := s.log.WithFields(logrus.Fields{
			"run_id": result.RunID,
			"member": m.MemberNumber,
		})
		if onList {
			entry.Info("removal mark cleared: member reappeared on HQ list")
		} else {
			entry.WithField("days_left", m.DaysUntilRemoval(now)).
				Warn("member not on HQ list, grace-period countdown started")
		}
	}

	s.log.WithField("run_id", result.RunID).Info(result.Summary())
	return result, nil
}
