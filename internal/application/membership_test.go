package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squadhub/identity-api/internal/domain/apperror"
	"github.com/squadhub/identity-api/internal/domain/entity"
)

const missingUserID = "ffffffff-ffff-ffff-ffff-ffffffffffff"

func newMembershipFixture(t *testing.T) (*TeamMembershipManager, *memoryRepo, string) {
	t.Helper()
	repo := newMemoryRepo()
	user := &entity.User{Email: "captain@test.com", Password: "hash"}
	require.NoError(t, repo.Create(context.Background(), user))
	return NewTeamMembershipManager(repo, nil), repo, user.ID
}

func TestTeamMembership_AddThenRemove(t *testing.T) {
	mgr, repo, userID := newMembershipFixture(t)
	ctx := context.Background()
	teamID := "11111111-1111-1111-1111-111111111111"

	require.NoError(t, mgr.AddTeamMember(ctx, teamID, userID))

	stored, err := repo.GetByID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, stored.Teams, 1)
	assert.Equal(t, teamID, stored.Teams[0].TeamID)
	assert.Empty(t, stored.Teams[0].Role)

	require.NoError(t, mgr.RemoveTeamMember(ctx, teamID, userID))

	stored, err = repo.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, stored.Teams)
}

func TestTeamMembership_AddDoesNotDeduplicate(t *testing.T) {
	mgr, repo, userID := newMembershipFixture(t)
	ctx := context.Background()
	teamID := "11111111-1111-1111-1111-111111111111"

	require.NoError(t, mgr.AddTeamMember(ctx, teamID, userID))
	require.NoError(t, mgr.AddTeamMember(ctx, teamID, userID))

	stored, err := repo.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, stored.Teams, 2)

	// A single remove pulls every matching entry.
	require.NoError(t, mgr.RemoveTeamMember(ctx, teamID, userID))
	stored, err = repo.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, stored.Teams)
}

func TestTeamMembership_AddUnknownUser(t *testing.T) {
	mgr, _, _ := newMembershipFixture(t)

	err := mgr.AddTeamMember(context.Background(), "11111111-1111-1111-1111-111111111111", missingUserID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestTeamMembership_RemoveAbsentMembership(t *testing.T) {
	mgr, repo, userID := newMembershipFixture(t)
	ctx := context.Background()

	require.NoError(t, mgr.AddTeamMember(ctx, "11111111-1111-1111-1111-111111111111", userID))

	assert.NoError(t, mgr.RemoveTeamMember(ctx, "22222222-2222-2222-2222-222222222222", userID))
	assert.NoError(t, mgr.RemoveTeamMember(ctx, "22222222-2222-2222-2222-222222222222", missingUserID))

	stored, err := repo.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, stored.Teams, 1)
}

func TestTeamMembership_AssignTeam(t *testing.T) {
	mgr, repo, userID := newMembershipFixture(t)
	ctx := context.Background()
	teamID := "11111111-1111-1111-1111-111111111111"

	require.NoError(t, mgr.AssignTeam(ctx, userID, teamID, "captain"))

	stored, err := repo.GetByID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, stored.Teams, 1)
	assert.Equal(t, teamID, stored.Teams[0].TeamID)
	assert.Equal(t, "captain", stored.Teams[0].Role)
}

func TestTeamMembership_AssignTeamUnknownUser(t *testing.T) {
	mgr, _, _ := newMembershipFixture(t)

	err := mgr.AssignTeam(context.Background(), missingUserID, "11111111-1111-1111-1111-111111111111", "captain")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
