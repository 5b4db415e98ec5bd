package application

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/squadhub/identity-api/internal/domain/apperror"
	"github.com/squadhub/identity-api/internal/domain/entity"
	"github.com/squadhub/identity-api/internal/domain/repository"
)

// memoryRepo is an in-memory UserRepository for service tests. The mutex
// gives it the same per-operation atomicity the Postgres implementation
// gets from single statements.
type memoryRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[string]*entity.User)}
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	c.Tokens = append([]entity.SessionToken(nil), u.Tokens...)
	c.Teams = append([]entity.TeamMembership(nil), u.Teams...)
	return &c
}

func (r *memoryRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return apperror.ErrConflict
		}
	}
	now := time.Now().UTC()
	u.ID = uuid.NewString()
	u.CreatedAt = now
	u.UpdatedAt = now
	r.users[u.ID] = cloneUser(u)
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *memoryRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, apperror.ErrNotFound
}

func (r *memoryRepo) HasToken(_ context.Context, userID, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return false, nil
	}
	return u.HasToken(token), nil
}

func (r *memoryRepo) UpdateFields(_ context.Context, userID string, fields repository.ProfileFields) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return apperror.ErrNotFound
	}
	if fields.Email != nil {
		u.Email = *fields.Email
	}
	if fields.FirstName != nil {
		u.FirstName = *fields.FirstName
	}
	if fields.LastName != nil {
		u.LastName = *fields.LastName
	}
	if fields.PasswordHash != nil {
		u.Password = *fields.PasswordHash
	}
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memoryRepo) PushToken(_ context.Context, userID string, t entity.SessionToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return apperror.ErrNotFound
	}
	u.Tokens = append(u.Tokens, t)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memoryRepo) PullToken(_ context.Context, userID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil
	}
	kept := u.Tokens[:0]
	for _, t := range u.Tokens {
		if t.Token != token {
			kept = append(kept, t)
		}
	}
	u.Tokens = kept
	return nil
}

func (r *memoryRepo) PushTeam(_ context.Context, userID string, m entity.TeamMembership) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return apperror.ErrNotFound
	}
	u.Teams = append(u.Teams, m)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memoryRepo) PullTeam(_ context.Context, userID, teamID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil
	}
	kept := u.Teams[:0]
	for _, m := range u.Teams {
		if m.TeamID != teamID {
			kept = append(kept, m)
		}
	}
	u.Teams = kept
	return nil
}

func (r *memoryRepo) Save(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[u.ID]
	if !ok {
		return apperror.ErrNotFound
	}
	tokens := stored.Tokens // tokens are owned by push/pull, never Save
	r.users[u.ID] = cloneUser(u)
	r.users[u.ID].Tokens = tokens
	r.users[u.ID].UpdatedAt = time.Now().UTC()
	return nil
}

var _ repository.UserRepository = (*memoryRepo)(nil)
