package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/squadhub/identity-api/internal/domain/entity"
	"github.com/squadhub/identity-api/internal/domain/repository"
)

// TeamMembershipManager mutates the team associations on a user record.
// Add/remove run as single conditional updates at the storage layer, so two
// concurrent membership changes on the same user cannot overwrite each
// other. None of the operations deduplicate: repeated adds for the same
// team produce repeated entries, and callers deduplicate upstream.
type TeamMembershipManager struct {
	Repo   repository.UserRepository
	Logger *logrus.Logger
}

func NewTeamMembershipManager(repo repository.UserRepository, logger *logrus.Logger) *TeamMembershipManager {
	return &TeamMembershipManager{Repo: repo, Logger: logger}
}

// AssignTeam records that creatorID created a team: the creator's record is
// loaded, the membership appended with the given role, and the record saved.
// Not idempotent, and not atomic against concurrent saves of the same user.
func (m *TeamMembershipManager) AssignTeam(ctx context.Context, creatorID, teamID, role string) error {
	u, err := m.Repo.GetByID(ctx, creatorID)
	if err != nil {
		return err
	}
	u.Teams = append(u.Teams, entity.TeamMembership{TeamID: teamID, Role: role})
	if err := m.Repo.Save(ctx, u); err != nil {
		return err
	}
	if m.Logger != nil {
		m.Logger.WithFields(logrus.Fields{"user_id": creatorID, "team_id": teamID, "role": role}).Info("team assigned")
	}
	return nil
}

// AddTeamMember atomically pushes a plain membership onto the user's list.
// The user must already exist; a missing user fails with
// apperror.ErrNotFound instead of creating a record.
func (m *TeamMembershipManager) AddTeamMember(ctx context.Context, teamID, userID string) error {
	return m.Repo.PushTeam(ctx, userID, entity.TeamMembership{TeamID: teamID})
}

// RemoveTeamMember atomically pulls every membership entry matching teamID.
// A user with no such membership is left unchanged without error.
func (m *TeamMembershipManager) RemoveTeamMember(ctx context.Context, teamID, userID string) error {
	return m.Repo.PullTeam(ctx, userID, teamID)
}
