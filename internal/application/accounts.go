package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/squadhub/identity-api/internal/domain/apperror"
	"github.com/squadhub/identity-api/internal/domain/entity"
	"github.com/squadhub/identity-api/internal/domain/repository"
	"github.com/squadhub/identity-api/pkg/helpers"
	"github.com/squadhub/identity-api/pkg/mailer"
)

// AccountService covers registration and the login flow: credential check
// first, then session-token issuance for an already verified identity.
type AccountService struct {
	Repo        repository.UserRepository
	Credentials *CredentialManager
	Tokens      *TokenService
	Directory   *UserDirectory
	Pub         *helpers.RabbitPublisher
	Logger      *logrus.Logger
	MailEnabled bool
}

func NewAccountService(repo repository.UserRepository, creds *CredentialManager, tokens *TokenService, dir *UserDirectory, pub *helpers.RabbitPublisher, logger *logrus.Logger, mailEnabled bool) *AccountService {
	return &AccountService{
		Repo:        repo,
		Credentials: creds,
		Tokens:      tokens,
		Directory:   dir,
		Pub:         pub,
		Logger:      logger,
		MailEnabled: mailEnabled,
	}
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Bio       string
	Age       int
	Platform  entity.Platform
	Region    string
}

// Register creates the user with the password hashed up front; the hash
// happens here, explicitly, not in a persistence hook. A taken email fails
// with apperror.ErrConflict.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if in.Email == "" || in.Password == "" {
		return nil, apperror.ErrValidation
	}
	hash, err := s.Credentials.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Email:     in.Email,
		Password:  hash,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Bio:       in.Bio,
		Age:       in.Age,
		Platform:  in.Platform,
		Region:    in.Region,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	if s.Directory != nil {
		_ = s.Directory.IndexUser(ctx, u)
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("user registered")
	}
	return u, nil
}

// Authenticate validates email/password without issuing a token. Unknown
// email and wrong password both fail with apperror.ErrAuthentication.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, apperror.ErrAuthentication
	}
	if !s.Credentials.Verify(password, u.Password) {
		return nil, apperror.ErrAuthentication
	}
	return u, nil
}

// Login authenticates and issues a session token, then queues a login
// notification email.
func (s *AccountService) Login(ctx context.Context, email, password string) (*entity.User, string, time.Time, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	token, exp, err := s.Tokens.Issue(ctx, u.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	s.notifyLogin(ctx, u)
	return u, token, exp, nil
}

// Logout revokes the presented session token.
func (s *AccountService) Logout(ctx context.Context, userID, token string) error {
	return s.Tokens.Revoke(ctx, userID, token)
}

func (s *AccountService) notifyLogin(ctx context.Context, u *entity.User) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	job := mailer.EmailJob{
		To:      u.Email,
		Subject: "New login to your account",
		Text:    "Your account was just used to sign in. If this was not you, change your password.",
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("login notification publish failed")
	}
}
