package repository

import (
	"context"

	"github.com/squadhub/identity-api/internal/domain/entity"
)

// ProfileFields is the update descriptor for UpdateFields. Nil pointers are
// left untouched; PasswordHash must already be hashed by the caller.
type ProfileFields struct {
	Email        *string
	FirstName    *string
	LastName     *string
	PasswordHash *string
}

// UserRepository is the persistence contract for user records.
//
// The Push/Pull operations are single conditional updates at the storage
// layer: no separate read step, so concurrent mutations on the same user
// cannot overwrite each other. Save is a plain read-modify-write upsert of
// the record (profile fields and team list); it carries no such guarantee
// and callers must not use it where lost updates matter.
type UserRepository interface {
	// Create inserts a new user. Returns apperror.ErrConflict when the
	// email is already taken.
	Create(ctx context.Context, u *entity.User) error

	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	// HasToken reports whether token is on the user's persisted session
	// list. Used to reject signature-valid but revoked tokens.
	HasToken(ctx context.Context, userID, token string) (bool, error)

	// UpdateFields applies the non-nil fields in one update-by-id
	// statement. Returns apperror.ErrNotFound when no row matched.
	UpdateFields(ctx context.Context, userID string, fields ProfileFields) error

	// PushToken atomically appends a session entry. Fails with
	// apperror.ErrNotFound when the user does not exist.
	PushToken(ctx context.Context, userID string, t entity.SessionToken) error

	// PullToken atomically removes the matching session entry. Removing an
	// absent token is a no-op.
	PullToken(ctx context.Context, userID, token string) error

	// PushTeam atomically appends a membership entry. Fails with
	// apperror.ErrNotFound when the user does not exist.
	PushTeam(ctx context.Context, userID string, m entity.TeamMembership) error

	// PullTeam atomically removes every membership entry matching teamID.
	// No matching entry is a no-op.
	PullTeam(ctx context.Context, userID, teamID string) error

	// Save persists the user's profile fields and team list as loaded.
	// Session tokens are owned by Push/PullToken and are not written here.
	Save(ctx context.Context, u *entity.User) error
}
