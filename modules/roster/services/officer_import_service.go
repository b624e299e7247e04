package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/greekops/chapterdata/modules/roster/domain/officer"
	"github.com/greekops/chapterdata/pkg/eventbus"
	"github.com/greekops/chapterdata/pkg/importer"
	"github.com/greekops/chapterdata/pkg/tabular"
)

type OfficerImportService struct {
	repo      officer.Repository
	publisher eventbus.EventBus
	log       *logrus.Logger
}

func NewOfficerImportService(repo officer.Repository, publisher eventbus.EventBus, log *logrus.Logger) *OfficerImportService {
	return &OfficerImportService{repo: repo, publisher: publisher, log: log}
}

// ImportOfficers ingests a leadership roster in skip-duplicate mode, keyed on
// the name+position pair.
func (s *OfficerImportService) ImportOfficers(ctx context.Context, t *tabular.Table, apply bool) (*importer.Result, error) {
	mapping, err := tabular.Detect(t.Headers, officerFormats)
	if err != nil {
		return nil, err
	}

	result := importer.NewResult()
	defer result.Finish()
	result.Format = mapping.Format.Name

	s.log.WithFields(logrus.Fields{
		"run_id": result.RunID,
		"rows":   len(t.Rows),
		"apply":  apply,
	}).Info("officer import started")

	seen := make(map[string]struct{})
	for _, row := range t.Rows {
		fullName := mapping.GetTrimmed(row, fieldFullName)
		if fullName == "" {
			result.AddSkipped()
			continue
		}
		position, custom := officer.NormalizePosition(mapping.GetTrimmed(row, fieldPosition))

		key := officer.Key(fullName, position)
		if _, dup := seen[key]; dup {
			result.AddSkipped()
			continue
		}
		seen[key] = struct{}{}

		if _, err := s.repo.GetByKey(ctx, fullName, position); err == nil {
			result.AddSkipped()
			continue
		} else if !errors.Is(err, officer.ErrNotFound) {
			result.AddError(row.Line, err)
			continue
		}

		o := &officer.Officer{
			ID:             uuid.New(),
			FullName:       fullName,
			Position:       position,
			PositionCustom: custom,
			Email:          mapping.GetTrimmed(row, fieldEmail),
			Phone:          mapping.GetTrimmed(row, fieldPhone),
			Bio:            mapping.GetTrimmed(row, fieldBio),
			DisplayOrder:   tabular.ParseCount(mapping.Get(row, fieldDisplayOrder)),
			IsActive:       true,
		}
		if v := mapping.GetTrimmed(row, fieldTermStart); v != "" {
			if d, err := tabular.ParseDate(v); err == nil {
				o.TermStart = d
			} else {
				result.AddErrorf(row.Line, "term_start: %v", err)
			}
		}
		if v := mapping.GetTrimmed(row, fieldTermEnd); v != "" {
			if d, err := tabular.ParseDate(v); err == nil {
				o.TermEnd = d
			} else {
				result.AddErrorf(row.Line, "term_end: %v", err)
			}
		}

		if !apply {
			result.AddCreated()
			continue
		}
		if err := s.repo.Create(ctx, o); err != nil {
			result.AddError(row.Line, err)
			continue
		}
		result.AddCreated()
		s.publisher.Publish(&officer.CreatedEvent{Officer: o})
	}

	s.log.WithField("run_id", result.RunID).Info(result.Summary())
	return result, nil
}
