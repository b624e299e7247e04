package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/greekops/chapterdata/modules/roster/domain/member"
	"github.com/greekops/chapterdata/pkg/eventbus"
	"github.com/greekops/chapterdata/pkg/importer"
	"github.com/greekops/chapterdata/pkg/tabular"
)

// nowFn is overridable in tests.
var nowFn = time.Now

type MemberImportService struct {
	repo      member.Repository
	publisher eventbus.EventBus
	log       *logrus.Logger
}

func NewMemberImportService(repo member.Repository, publisher eventbus.EventBus, log *logrus.Logger) *MemberImportService {
	return &MemberImportService{repo: repo, publisher: publisher, log: log}
}

// ImportRoster ingests an HQ roster export in skip-duplicate mode: rows whose
// member number already exists are counted as skipped and never mutated.
// When apply is false the pipeline runs fully but persists nothing.
func (s *MemberImportService) ImportRoster(ctx context.Context, t *tabular.Table, apply bool) (*importer.Result, error) {
	mapping, err := tabular.Detect(t.Headers, memberFormats)
	if err != nil {
		return nil, err
	}

	result := importer.NewResult()
	defer result.Finish()
	result.Format = mapping.Format.Name

	s.log.WithFields(logrus.Fields{
		"run_id": result.RunID,
		"format": mapping.Format.Name,
		"rows":   len(t.Rows),
		"apply":  apply,
	}).Info("member import started")

	seen := make(map[string]struct{})
	for _, row := range t.Rows {
		number := mapping.GetTrimmed(row, fieldMemberNumber)
		if number == "" {
			result.AddSkipped()
			continue
		}
		if _, dup := seen[number]; dup {
			result.AddSkipped()
			continue
		}
		seen[number] = struct{}{}

		if _, err := s.repo.GetByNumber(ctx, number); err == nil {
			result.AddSkipped()
			continue
		} else if !errors.Is(err, member.ErrNotFound) {
			result.AddError(row.Line, err)
			continue
		}

		m := s.buildMember(mapping, row, number, result)
		if !apply {
			result.AddCreated()
			continue
		}
		if err := s.repo.Create(ctx, m); err != nil {
			result.AddError(row.Line, err)
			continue
		}
		result.AddCreated()
		s.publisher.Publish(&member.CreatedEvent{Member: m})
	}

	s.log.WithField("run_id", result.RunID).Info(result.Summary())
	return result, nil
}

func (s *MemberImportService) buildMember(mapping *tabular.Mapping, row tabular.Row, number string, result *importer.Result) *member.Member {
	firstName := mapping.GetTrimmed(row, fieldFirstName)
	lastName := mapping.GetTrimmed(row, fieldLastName)
	if firstName == "" && lastName == "" {
		// variant-B packs name and postal address into one block with the
		// name on the first line.
		firstName, lastName = splitName(tabular.FirstLine(mapping.Get(row, fieldNameAndAddress)))
	}

	m := member.NewFromImport(number, firstName, lastName)
	m.Email = mapping.GetTrimmed(row, fieldEmail)
	m.Phone = mapping.GetTrimmed(row, fieldPhone)
	m.Address = mapping.GetTrimmed(row, fieldAddress)
	m.LineName = mapping.GetTrimmed(row, fieldLineName)
	m.LineNumber = mapping.GetTrimmed(row, fieldLineNumber)

	if v := mapping.GetTrimmed(row, fieldStatus); v != "" {
		if st, ok := parseStatus(v); ok {
			m.Status = st
		}
		// unrecognized statuses keep the derived default
	}

	if v := mapping.GetTrimmed(row, fieldInitiationDate); v != "" {
		d, err := tabular.ParseDate(v)
		if err != nil {
			// the date has no safe default; the rest of the row still
			// persists
			result.AddErrorf(row.Line, "initiation_date: %v", err)
		} else {
			m.InitiationDate = d
		}
	}
	return m
}

func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func parseStatus(v string) (member.Status, bool) {
	slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(v)), " ", "_")
	switch st := member.Status(slug); st {
	case member.StatusFinancial, member.StatusNonFinancial,
		member.StatusFinancialLifeMember, member.StatusNonFinancialLifeMember,
		member.StatusNewMember, member.StatusSuspended:
		return st, true
	}
	return "", false
}
