package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/squadhub/identity-api/internal/application"
	"github.com/squadhub/identity-api/internal/domain/apperror"
	"github.com/squadhub/identity-api/internal/domain/entity"
	"github.com/squadhub/identity-api/internal/interface/middleware"
	"github.com/squadhub/identity-api/pkg/helpers"
	"github.com/squadhub/identity-api/pkg/response"
	"github.com/squadhub/identity-api/pkg/validation"
)

type UserHandler struct {
	Accounts  *application.AccountService
	Profiles  *application.UserProfileUpdater
	Directory *application.UserDirectory
	Logger    *logrus.Logger
	Cookies   *helpers.Manager
}

func NewUserHandler(accounts *application.AccountService, profiles *application.UserProfileUpdater, directory *application.UserDirectory, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{
		Accounts:  accounts,
		Profiles:  profiles,
		Directory: directory,
		Logger:    logger,
		Cookies:   helpers.NewCookie(cookieDomain, cookieSecure),
	}
}

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,pwd"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Age       int    `json:"age" binding:"omitempty,gte=0"`
	Platform  string `json:"platform" binding:"omitempty,oneof=psn xboxlive"`
	Region    string `json:"region"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// updateProfileRequest mirrors application.MutableProfileFields; anything
// else in the payload is dropped.
type updateProfileRequest struct {
	Email     *string `json:"email" binding:"omitempty,email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Password  *string `json:"password" binding:"omitempty,pwd"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Accounts.Register(c.Request.Context(), application.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Age:       req.Age,
		Platform:  entity.Platform(req.Platform),
		Region:    req.Region,
	})
	if err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			response.Error[any](c, http.StatusConflict, "email already registered", nil)
			return
		}
		if errors.Is(err, apperror.ErrValidation) {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", nil)
			return
		}
		h.Logger.WithError(err).Error("register failed")
		response.Error[any](c, http.StatusInternalServerError, "registration failed", nil)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"id": u.ID, "email": u.Email}, "registered", nil)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, token, exp, err := h.Accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	h.Cookies.SetSession(c, token, exp)
	response.Success(c, http.StatusOK, gin.H{"user_id": u.ID, "email": u.Email}, "login successful", map[string]any{"expires_at": exp})
}

func (h *UserHandler) Logout(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	token := c.GetString(middleware.CtxSessionKey)
	if err := h.Accounts.Logout(c.Request.Context(), uid, token); err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Warn("logout revoke failed")
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Accounts.Repo.GetByID(c.Request.Context(), uid)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"id":         u.ID,
		"email":      u.Email,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"bio":        u.Bio,
		"age":        u.Age,
		"platform":   u.Platform,
		"region":     u.Region,
		"teams":      u.Teams,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}, "profile", nil)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Profiles.UpdateProfile(c.Request.Context(), uid, application.ProfilePatch{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperror.ErrNotFound):
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
		case errors.Is(err, apperror.ErrConflict):
			response.Error[any](c, http.StatusConflict, "email already registered", nil)
		default:
			h.Logger.WithError(err).WithField("user_id", uid).Error("profile update failed")
			response.Error[any](c, http.StatusInternalServerError, "failed to update profile", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, p, "profile updated", nil)
}

func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", nil)
		return
	}
	size := 10
	hits, err := h.Directory.Search(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).Warn("user search failed")
		response.Error[any](c, http.StatusBadGateway, "search unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "results", map[string]any{"count": len(hits)})
}
