package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/squadhub/identity-api/internal/application"
	"github.com/squadhub/identity-api/internal/container"
	handlers "github.com/squadhub/identity-api/internal/interface/http"
	"github.com/squadhub/identity-api/internal/interface/middleware"
)

// UserModule wires identity HTTP handlers and session middleware into routes.
// Public: POST /api/register, POST /api/login
// Protected: POST /api/logout, GET /api/profile, PUT /api/profile,
// GET /api/users/search

type UserModule struct {
	Handler *handlers.UserHandler
	Tokens  *application.TokenService
}

func NewUserModule(h *handlers.UserHandler, tokens *application.TokenService) *UserModule {
	return &UserModule{Handler: h, Tokens: tokens}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil) // 10 req/min per IP

	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.POST("/login", loginLimiter, m.Handler.Login)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Tokens))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.GET("/users/search", m.Handler.Search)
	}
}
