package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/squadhub/identity-api/internal/application"
	"github.com/squadhub/identity-api/internal/domain/apperror"
	"github.com/squadhub/identity-api/internal/interface/middleware"
	"github.com/squadhub/identity-api/pkg/response"
	"github.com/squadhub/identity-api/pkg/validation"
)

type TeamHandler struct {
	Membership *application.TeamMembershipManager
	Logger     *logrus.Logger
}

func NewTeamHandler(membership *application.TeamMembershipManager, logger *logrus.Logger) *TeamHandler {
	return &TeamHandler{Membership: membership, Logger: logger}
}

type assignTeamRequest struct {
	TeamID string `json:"team_id" binding:"required,uuid"`
	Role   string `json:"role" binding:"required"`
}

type addMemberRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// AssignTeam records the authenticated user as holding a role on a team
// they created.
func (h *TeamHandler) AssignTeam(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req assignTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Membership.AssignTeam(c.Request.Context(), uid, req.TeamID, req.Role); err != nil {
		h.respondMembershipError(c, err, uid)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"team_id": req.TeamID, "role": req.Role}, "team assigned", nil)
}

func (h *TeamHandler) AddMember(c *gin.Context) {
	teamID := c.Param("teamID")
	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Membership.AddTeamMember(c.Request.Context(), teamID, req.UserID); err != nil {
		h.respondMembershipError(c, err, req.UserID)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"team_id": teamID, "user_id": req.UserID}, "member added", nil)
}

func (h *TeamHandler) RemoveMember(c *gin.Context) {
	teamID := c.Param("teamID")
	userID := c.Param("userID")
	if err := h.Membership.RemoveTeamMember(c.Request.Context(), teamID, userID); err != nil {
		h.respondMembershipError(c, err, userID)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"team_id": teamID, "user_id": userID}, "member removed", nil)
}

func (h *TeamHandler) respondMembershipError(c *gin.Context, err error, userID string) {
	if errors.Is(err, apperror.ErrNotFound) {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	h.Logger.WithError(err).WithField("user_id", userID).Error("membership mutation failed")
	response.Error[any](c, http.StatusInternalServerError, "membership update failed", nil)
}
