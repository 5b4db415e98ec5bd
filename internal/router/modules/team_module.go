package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/squadhub/identity-api/internal/application"
	"github.com/squadhub/identity-api/internal/container"
	handlers "github.com/squadhub/identity-api/internal/interface/http"
	"github.com/squadhub/identity-api/internal/interface/middleware"
)

// TeamModule wires membership mutation routes. All protected:
// POST /api/teams/assign, POST /api/teams/:teamID/members,
// DELETE /api/teams/:teamID/members/:userID

type TeamModule struct {
	Handler *handlers.TeamHandler
	Tokens  *application.TokenService
}

func NewTeamModule(h *handlers.TeamHandler, tokens *application.TokenService) *TeamModule {
	return &TeamModule{Handler: h, Tokens: tokens}
}

func (m *TeamModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/teams")
	auth.Use(middleware.Auth(m.Tokens))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/assign", m.Handler.AssignTeam)
		auth.POST("/:teamID/members", m.Handler.AddMember)
		auth.DELETE("/:teamID/members/:userID", m.Handler.RemoveMember)
	}
}
