package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greekops/chapterdata/modules/roster/domain/member"
	"github.com/greekops/chapterdata/pkg/eventbus"
)

func newMemberImportService(repo member.Repository) *MemberImportService {
	log := testLogger()
	return NewMemberImportService(repo, eventbus.NewEventPublisher(log), log)
}

func TestImportRoster_VariantA(t *testing.T) {
	table := mustTable(t, "member_number,first_name,last_name,email,initiation_date\n"+
		"10234,John,Doe,john@example.com,2019-04-15\n"+
		"LM10235,Jane,Smith,jane@example.com,04/15/2015\n")

	repo := newFakeMemberRepo()
	result, err := newMemberImportService(repo).ImportRoster(context.Background(), table, true)
	require.NoError(t, err)

	assert.Equal(t, "hq-export-variant-a", result.Format)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 0, result.Errors)

	john, err := repo.GetByNumber(context.Background(), "10234")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", john.FullName())
	assert.Equal(t, member.StatusFinancial, john.Status)
	assert.Equal(t, time.Date(2019, 4, 15, 0, 0, 0, 0, time.UTC), john.InitiationDate)
	assert.True(t, john.DuesCurrent)

	jane, err := repo.GetByNumber(context.Background(), "LM10235")
	require.NoError(t, err)
	assert.Equal(t, member.StatusFinancialLifeMember, jane.Status)
}

func TestImportRoster_VariantB_NameFromAddressBlock(t *testing.T) {
	table := mustTable(t, "MAJOR_KEY,NAME_AND_ADDRESS\n"+
		"10236,\"John Q Doe\n123 Main St\nSpringfield, IL 62704\"\n")

	repo := newFakeMemberRepo()
	result, err := newMemberImportService(repo).ImportRoster(context.Background(), table, true)
	require.NoError(t, err)

	assert.Equal(t, "hq-export-variant-b", result.Format)
	assert.Equal(t, 1, result.Created)

	m, err := repo.GetByNumber(context.Background(), "10236")
	require.NoError(t, err)
	assert.Equal(t, "John", m.FirstName)
	assert.Equal(t, "Q Doe", m.LastName)
}

func TestImportRoster_BlankNumberSkipped(t *testing.T) {
	table := mustTable(t, "member_number,first_name,last_name\n"+
		",John,Doe\n"+
		"   ,Jane,Smith\n"+
		"10234,Real,Member\n")

	repo := newFakeMemberRepo()
	result, err := newMemberImportService(repo).ImportRoster(context.Background(), table, true)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, 0, result.Errors, "blank identifiers are skips, not errors")
}

func TestImportRoster_DuplicatesSkipped(t *testing.T) {
	existing := member.NewFromImport("10234", "Already", "Here")
	repo := newFakeMemberRepo(existing)

	table := mustTable(t, "member_number,first_name,last_name\n"+
		"10234,John,Doe\n"+
		"10235,Jane,Smith\n"+
		"10235,Jane,Again\n")

	result, err := newMemberImportService(repo).ImportRoster(context.Background(), table, true)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 2, result.Skipped, "one DB duplicate, one in-file duplicate")

	kept, err := repo.GetByNumber(context.Background(), "10234")
	require.NoError(t, err)
	assert.Equal(t, "Already Here", kept.FullName(), "existing record is never mutated")
}

func TestImportRoster_Idempotent(t *testing.T) {
	table := mustTable(t, "member_number,first_name,last_name\n"+
		"10234,John,Doe\n"+
		"10235,Jane,Smith\n")

	repo := newFakeMemberRepo()
	svc := newMemberImportService(repo)

	first, err := svc.ImportRoster(context.Background(), table, true)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Created)

	second, err := svc.ImportRoster(context.Background(), table, true)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 2, second.Skipped)
}

func TestImportRoster_BadInitiationDateStillPersists(t *testing.T) {
	table := mustTable(t, "member_number,first_name,last_name,initiation_date\n"+
		"10234,John,Doe,soon\n")

	repo := newFakeMemberRepo()
	result, err := newMemberImportService(repo).ImportRoster(context.Background(), table, true)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Errors)
	require.Len(t, result.ErrorPreview(), 1)
	assert.Contains(t, result.ErrorPreview()[0], "row 2: initiation_date")

	m, err := repo.GetByNumber(context.Background(), "10234")
	require.NoError(t, err)
	assert.True(t, m.InitiationDate.IsZero(), "unparseable date stays unknown")
}

func TestImportRoster_ExplicitStatusColumn(t *testing.T) {
	table := mustTable(t, "member_number,first_name,last_name,status\n"+
		"10234,John,Doe,suspended\n"+
		"10235,Jane,Smith,New Member\n"+
		"10236,Jim,Brown,vip\n")

	repo := newFakeMemberRepo()
	_, err := newMemberImportService(repo).ImportRoster(context.Background(), table, true)
	require.NoError(t, err)

	john, _ := repo.GetByNumber(context.Background(), "10234")
	assert.Equal(t, member.StatusSuspended, john.Status)
	jane, _ := repo.GetByNumber(context.Background(), "10235")
	assert.Equal(t, member.StatusNewMember, jane.Status)
	jim, _ := repo.GetByNumber(context.Background(), "10236")
	assert.Equal(t, member.StatusFinancial, jim.Status, "unknown status keeps the derived default")
}

func TestImportRoster_DryRunPersistsNothing(t *testing.T) {
	table := mustTable(t, "member_number,first_name,last_name\n"+
		"10234,John,Doe\n")

	repo := newFakeMemberRepo()
	result, err := newMemberImportService(repo).ImportRoster(context.Background(), table, false)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created, "dry run still reports what would happen")
	_, err = repo.GetByNumber(context.Background(), "10234")
	assert.ErrorIs(t, err, member.ErrNotFound)
}

func TestImportRoster_UnknownColumns(t *testing.T) {
	table := mustTable(t, "id,full_name\n1,John Doe\n")

	_, err := newMemberImportService(newFakeMemberRepo()).ImportRoster(context.Background(), table, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no known column scheme matches")
}
