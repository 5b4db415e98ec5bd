package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/squadhub/identity-api/internal/domain/apperror"
	"github.com/squadhub/identity-api/internal/domain/entity"
	"github.com/squadhub/identity-api/internal/domain/repository"
)

const uniqueViolation = "23505"

// DB is the subset of pgxpool.Pool the repository needs. Narrowed so tests
// can substitute a pgxmock pool.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// UserRepository persists users in Postgres. Session tokens and team
// memberships live in child tables, which is what lets push and pull run as
// single statements: an INSERT guarded by the parent row or a DELETE, with
// no read-modify-write window.
type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (email, password, first_name, last_name, bio, age, platform, region)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, u.Email, u.Password, u.FirstName, u.LastName, u.Bio, u.Age, string(u.Platform), u.Region)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperror.ErrConflict
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, `
		SELECT id, email, password, first_name, last_name, bio, age, platform, region, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `
		SELECT id, email, password, first_name, last_name, bio, age, platform, region, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email)
}

func (r *UserRepository) getOne(ctx context.Context, query, arg string) (*entity.User, error) {
	u := &entity.User{}
	var platform string
	row := r.db.QueryRow(ctx, query, arg)
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName,
		&u.Bio, &u.Age, &platform, &u.Region, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	u.Platform = entity.Platform(platform)
	if err := r.loadTokens(ctx, u); err != nil {
		return nil, err
	}
	if err := r.loadTeams(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) loadTokens(ctx context.Context, u *entity.User) error {
	rows, err := r.db.Query(ctx, `
		SELECT origin, token, issued_at
		FROM user_tokens
		WHERE user_id = $1
		ORDER BY issued_at
	`, u.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var t entity.SessionToken
		if err := rows.Scan(&t.Origin, &t.Token, &t.IssuedAt); err != nil {
			return err
		}
		u.Tokens = append(u.Tokens, t)
	}
	return rows.Err()
}

func (r *UserRepository) loadTeams(ctx context.Context, u *entity.User) error {
	rows, err := r.db.Query(ctx, `
		SELECT team_id, role
		FROM user_teams
		WHERE user_id = $1
		ORDER BY id
	`, u.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var m entity.TeamMembership
		if err := rows.Scan(&m.TeamID, &m.Role); err != nil {
			return err
		}
		u.Teams = append(u.Teams, m)
	}
	return rows.Err()
}

func (r *UserRepository) HasToken(ctx context.Context, userID, token string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM user_tokens WHERE user_id = $1 AND token = $2)
	`, userID, token).Scan(&ok)
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (r *UserRepository) UpdateFields(ctx context.Context, userID string, fields repository.ProfileFields) error {
	set := []string{"updated_at = now()"}
	args := []any{userID}
	add := func(col string, v *string) {
		if v != nil {
			args = append(args, *v)
			set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
		}
	}
	add("email", fields.Email)
	add("first_name", fields.FirstName)
	add("last_name", fields.LastName)
	add("password", fields.PasswordHash)

	query := "UPDATE users SET " + strings.Join(set, ", ") + " WHERE id = $1"
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperror.ErrConflict
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

// PushToken appends a session entry in one statement. The CTE both stamps
// updated_at and guards on user existence: zero rows inserted means the
// user does not exist.
func (r *UserRepository) PushToken(ctx context.Context, userID string, t entity.SessionToken) error {
	tag, err := r.db.Exec(ctx, `
		WITH u AS (
			UPDATE users SET updated_at = now() WHERE id = $1 RETURNING id
		)
		INSERT INTO user_tokens (user_id, origin, token, issued_at)
		SELECT id, $2, $3, $4 FROM u
	`, userID, t.Origin, t.Token, t.IssuedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

// PullToken removes the matching session entry and stamps updated_at only
// when something was actually removed. Absent tokens are a no-op.
func (r *UserRepository) PullToken(ctx context.Context, userID, token string) error {
	_, err := r.db.Exec(ctx, `
		WITH del AS (
			DELETE FROM user_tokens WHERE user_id = $1 AND token = $2 RETURNING user_id
		)
		UPDATE users SET updated_at = now() WHERE id IN (SELECT user_id FROM del)
	`, userID, token)
	return err
}

// PushTeam mirrors PushToken for membership entries. Duplicate memberships
// are permitted; there is no conflict clause here.
func (r *UserRepository) PushTeam(ctx context.Context, userID string, m entity.TeamMembership) error {
	tag, err := r.db.Exec(ctx, `
		WITH u AS (
			UPDATE users SET updated_at = now() WHERE id = $1 RETURNING id
		)
		INSERT INTO user_teams (user_id, team_id, role)
		SELECT id, $2, $3 FROM u
	`, userID, m.TeamID, m.Role)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

// PullTeam removes every membership entry matching teamID.
func (r *UserRepository) PullTeam(ctx context.Context, userID, teamID string) error {
	_, err := r.db.Exec(ctx, `
		WITH del AS (
			DELETE FROM user_teams WHERE user_id = $1 AND team_id = $2 RETURNING user_id
		)
		UPDATE users SET updated_at = now() WHERE id IN (SELECT DISTINCT user_id FROM del)
	`, userID, teamID)
	return err
}

// Save rewrites the profile fields and team list as loaded on u. It is a
// read-modify-write: callers that need atomicity use the push/pull
// operations instead. Session tokens are never written here.
func (r *UserRepository) Save(ctx context.Context, u *entity.User) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE users
		SET email = $2, password = $3, first_name = $4, last_name = $5,
		    bio = $6, age = $7, platform = $8, region = $9, updated_at = now()
		WHERE id = $1
	`, u.ID, u.Email, u.Password, u.FirstName, u.LastName, u.Bio, u.Age, string(u.Platform), u.Region)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM user_teams WHERE user_id = $1`, u.ID); err != nil {
		return err
	}
	for _, m := range u.Teams {
		if _, err := tx.Exec(ctx, `
			INSERT INTO user_teams (user_id, team_id, role) VALUES ($1, $2, $3)
		`, u.ID, m.TeamID, m.Role); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

var _ repository.UserRepository = (*UserRepository)(nil)
