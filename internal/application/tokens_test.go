package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squadhub/identity-api/internal/domain/apperror"
	"github.com/squadhub/identity-api/internal/domain/entity"
	"github.com/squadhub/identity-api/pkg/helpers"
)

func newTokenFixture(t *testing.T) (*TokenService, *memoryRepo, string) {
	t.Helper()
	repo := newMemoryRepo()
	user := &entity.User{Email: "a@test.com", Password: "hash"}
	require.NoError(t, repo.Create(context.Background(), user))
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	return NewTokenService(repo, jwt, nil), repo, user.ID
}

func TestTokenService_IssueThenVerify(t *testing.T) {
	svc, repo, userID := newTokenFixture(t)
	ctx := context.Background()

	token, exp, err := svc.Issue(ctx, userID)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, exp.After(time.Now()))

	stored, err := repo.GetByID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, stored.Tokens, 1)
	assert.Equal(t, entity.TokenOriginWeb, stored.Tokens[0].Origin)
	assert.Equal(t, token, stored.Tokens[0].Token)

	got, err := svc.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestTokenService_IssueUnknownUser(t *testing.T) {
	svc, _, _ := newTokenFixture(t)

	_, _, err := svc.Issue(context.Background(), "ffffffff-ffff-ffff-ffff-ffffffffffff")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestTokenService_VerifyMalformed(t *testing.T) {
	svc, _, _ := newTokenFixture(t)

	_, err := svc.Verify(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}

func TestTokenService_VerifyWrongSecret(t *testing.T) {
	svc, repo, userID := newTokenFixture(t)
	ctx := context.Background()

	forged := NewTokenService(repo, helpers.NewJWTManager("other-secret", time.Hour), nil)
	token, _, err := forged.Issue(ctx, userID)
	require.NoError(t, err)

	_, err = svc.Verify(ctx, token)
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}

func TestTokenService_RevokeThenVerify(t *testing.T) {
	svc, repo, userID := newTokenFixture(t)
	ctx := context.Background()

	token, _, err := svc.Issue(ctx, userID)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, userID, token))

	_, err = svc.Verify(ctx, token)
	assert.ErrorIs(t, err, apperror.ErrAuthentication)

	stored, err := repo.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, stored.Tokens)
}

func TestTokenService_RevokeAbsentToken(t *testing.T) {
	svc, _, userID := newTokenFixture(t)
	ctx := context.Background()

	assert.NoError(t, svc.Revoke(ctx, userID, "never-issued"))
	assert.NoError(t, svc.Revoke(ctx, "ffffffff-ffff-ffff-ffff-ffffffffffff", "never-issued"))
}

func TestTokenService_ConcurrentIssue(t *testing.T) {
	svc, repo, userID := newTokenFixture(t)
	ctx := context.Background()

	const sessions = 10
	var wg sync.WaitGroup
	for i := 0; i < sessions; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := svc.Issue(ctx, userID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := repo.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, stored.Tokens, sessions)
}
