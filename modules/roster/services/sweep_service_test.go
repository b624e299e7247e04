package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greekops/chapterdata/modules/roster/domain/member"
)

func TestRemoveExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	nowFn = func() time.Time { return now }
	defer func() { nowFn = time.Now }()

	expired := member.NewFromImport("A001", "Long", "Gone")
	require.True(t, expired.MarkForRemoval(now.Add(-91*24*time.Hour), removalReason))

	inGrace := member.NewFromImport("A002", "Still", "Here")
	require.True(t, inGrace.MarkForRemoval(now.Add(-30*24*time.Hour), removalReason))

	unmarked := member.NewFromImport("A003", "Good", "Standing")

	repo := newFakeMemberRepo(expired, inGrace, unmarked)
	svc := NewSweepService(repo, testLogger())

	removed, err := svc.RemoveExpired(context.Background(), false)
	require.NoError(t, err)

	require.Len(t, removed, 1)
	assert.Equal(t, "A001", removed[0].MemberNumber)
	assert.Equal(t, []string{"A001"}, repo.deleted)

	_, err = repo.GetByNumber(context.Background(), "A002")
	assert.NoError(t, err, "members inside the grace period stay")
	_, err = repo.GetByNumber(context.Background(), "A003")
	assert.NoError(t, err)
}

func TestRemoveExpired_ExactBoundary(t *testing.T) {
	marked := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	now := marked.Add(member.GracePeriod)
	nowFn = func() time.Time { return now }
	defer func() { nowFn = time.Now }()

	m := member.NewFromImport("A001", "On", "Boundary")
	require.True(t, m.MarkForRemoval(marked, removalReason))

	repo := newFakeMemberRepo(m)
	removed, err := NewSweepService(repo, testLogger()).RemoveExpired(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, removed, 1, "day 90 exactly is removable")
}

func TestRemoveExpired_DryRun(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	nowFn = func() time.Time { return now }
	defer func() { nowFn = time.Now }()

	expired := member.NewFromImport("A001", "Long", "Gone")
	require.True(t, expired.MarkForRemoval(now.Add(-100*24*time.Hour), removalReason))

	repo := newFakeMemberRepo(expired)
	removed, err := NewSweepService(repo, testLogger()).RemoveExpired(context.Background(), true)
	require.NoError(t, err)

	require.Len(t, removed, 1)
	assert.Empty(t, repo.deleted, "dry run deletes nothing")
	_, err = repo.GetByNumber(context.Background(), "A001")
	assert.NoError(t, err)
}

func TestRemoveExpired_NothingMarked(t *testing.T) {
	repo := newFakeMemberRepo(member.NewFromImport("A001", "Good", "Standing"))
	removed, err := NewSweepService(repo, testLogger()).RemoveExpired(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, removed)
}
