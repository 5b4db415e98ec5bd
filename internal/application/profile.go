package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/squadhub/identity-api/internal/domain/repository"
)

// MutableProfileFields is the statically declared whitelist of fields a
// profile update may touch. ProfilePatch mirrors it field for field; adding
// a mutable field means changing both, in review.
var MutableProfileFields = [...]string{"email", "first_name", "last_name", "password"}

// ProfilePatch is a partial profile update. Nil means "leave unchanged".
// Password carries plaintext from the caller and is hashed before it ever
// reaches the repository.
type ProfilePatch struct {
	Email     *string
	FirstName *string
	LastName  *string
	Password  *string
}

// Profile is the sanitized projection returned after an update. Password
// hashes and session tokens are never part of it.
type Profile struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UserProfileUpdater applies whitelisted profile updates, delegating
// password changes to the credential manager.
type UserProfileUpdater struct {
	Repo        repository.UserRepository
	Credentials *CredentialManager
	Directory   *UserDirectory
	Logger      *logrus.Logger
}

func NewUserProfileUpdater(repo repository.UserRepository, creds *CredentialManager, dir *UserDirectory, logger *logrus.Logger) *UserProfileUpdater {
	return &UserProfileUpdater{Repo: repo, Credentials: creds, Directory: dir, Logger: logger}
}

// UpdateProfile persists the patch in a single update-by-id statement.
// The password is hashed only when the patch actually carries one; other
// field updates never rehash. Returns the sanitized projection of the
// record after the update.
func (s *UserProfileUpdater) UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (*Profile, error) {
	fields := repository.ProfileFields{
		Email:     patch.Email,
		FirstName: patch.FirstName,
		LastName:  patch.LastName,
	}
	if patch.Password != nil {
		hash, err := s.Credentials.Hash(*patch.Password)
		if err != nil {
			return nil, err
		}
		fields.PasswordHash = &hash
	}
	if err := s.Repo.UpdateFields(ctx, userID, fields); err != nil {
		return nil, err
	}
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.Directory != nil {
		_ = s.Directory.IndexUser(ctx, u)
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", userID).Info("profile updated")
	}
	return &Profile{Email: u.Email, FirstName: u.FirstName, LastName: u.LastName}, nil
}
