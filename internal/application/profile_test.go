package application

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squadhub/identity-api/internal/domain/apperror"
	"github.com/squadhub/identity-api/internal/domain/entity"
)

func strptr(s string) *string { return &s }

func newProfileFixture(t *testing.T) (*UserProfileUpdater, *memoryRepo, string) {
	t.Helper()
	repo := newMemoryRepo()
	creds := NewCredentialManager()

	hash, err := creds.Hash("original-pass")
	require.NoError(t, err)
	user := &entity.User{
		Email:     "a@test.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Password:  hash,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return NewUserProfileUpdater(repo, creds, nil, nil), repo, user.ID
}

func TestUpdateProfile_PartialPatch(t *testing.T) {
	svc, repo, userID := newProfileFixture(t)
	ctx := context.Background()

	profile, err := svc.UpdateProfile(ctx, userID, ProfilePatch{
		Email:     strptr("new@test.com"),
		FirstName: strptr("Grace"),
	})
	require.NoError(t, err)
	assert.Equal(t, "new@test.com", profile.Email)
	assert.Equal(t, "Grace", profile.FirstName)
	assert.Equal(t, "Lovelace", profile.LastName)

	// Untouched fields survive, including the password hash.
	stored, err := repo.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.True(t, svc.Credentials.Verify("original-pass", stored.Password))
}

func TestUpdateProfile_PasswordIsRehashed(t *testing.T) {
	svc, repo, userID := newProfileFixture(t)
	ctx := context.Background()

	before, err := repo.GetByID(ctx, userID)
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, userID, ProfilePatch{Password: strptr("new-pass")})
	require.NoError(t, err)

	after, err := repo.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.NotEqual(t, before.Password, after.Password)
	assert.NotEqual(t, "new-pass", after.Password)
	assert.True(t, svc.Credentials.Verify("new-pass", after.Password))
	assert.False(t, svc.Credentials.Verify("original-pass", after.Password))
}

func TestUpdateProfile_ProjectionIsSanitized(t *testing.T) {
	svc, _, userID := newProfileFixture(t)

	profile, err := svc.UpdateProfile(context.Background(), userID, ProfilePatch{
		Password: strptr("new-pass"),
	})
	require.NoError(t, err)

	raw, err := json.Marshal(profile)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.NotContains(t, fields, "password")
	assert.NotContains(t, fields, "tokens")
	assert.Equal(t, "a@test.com", fields["email"])
}

func TestUpdateProfile_UnknownUser(t *testing.T) {
	svc, _, _ := newProfileFixture(t)

	_, err := svc.UpdateProfile(context.Background(), missingUserID, ProfilePatch{Email: strptr("x@test.com")})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
