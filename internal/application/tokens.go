package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/squadhub/identity-api/internal/domain/apperror"
	"github.com/squadhub/identity-api/internal/domain/entity"
	"github.com/squadhub/identity-api/internal/domain/repository"
	"github.com/squadhub/identity-api/pkg/helpers"
)

// TokenService manages the session-token lifecycle: issued, active, revoked.
// Tokens are signed JWTs carrying the user id; the active set is the list
// persisted on the user record, so a signature-valid token that has been
// pulled from that list no longer authenticates.
type TokenService struct {
	Repo   repository.UserRepository
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
}

func NewTokenService(repo repository.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *TokenService {
	return &TokenService{Repo: repo, JWT: jwt, Logger: logger}
}

// Issue mints a signed token for userID and appends it to the user's session
// list in a single atomic push. Fails with apperror.ErrNotFound when the
// user does not exist.
func (s *TokenService) Issue(ctx context.Context, userID string) (string, time.Time, error) {
	token, exp, err := s.JWT.Sign(userID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Error("sign session token failed")
		}
		return "", time.Time{}, err
	}
	entry := entity.SessionToken{
		Origin:   entity.TokenOriginWeb,
		Token:    token,
		IssuedAt: time.Now().UTC(),
	}
	if err := s.Repo.PushToken(ctx, userID, entry); err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

// Verify checks the signature and then confirms the token is still on the
// user's persisted session list. Malformed or badly signed input fails with
// apperror.ErrInvalidToken; a valid signature whose entry has been revoked
// fails with apperror.ErrAuthentication.
func (s *TokenService) Verify(ctx context.Context, token string) (string, error) {
	claims, err := s.JWT.Parse(token)
	if err != nil {
		return "", apperror.ErrInvalidToken
	}
	ok, err := s.Repo.HasToken(ctx, claims.UserID, token)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", apperror.ErrAuthentication
	}
	return claims.UserID, nil
}

// Revoke pulls the matching entry from the user's session list. Revoking an
// absent token is a no-op.
func (s *TokenService) Revoke(ctx context.Context, userID, token string) error {
	return s.Repo.PullToken(ctx, userID, token)
}
