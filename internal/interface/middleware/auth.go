package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/squadhub/identity-api/internal/application"
	"github.com/squadhub/identity-api/internal/domain/apperror"
	"github.com/squadhub/identity-api/pkg/helpers"
	"github.com/squadhub/identity-api/pkg/response"
)

const (
	CtxUserIDKey  = "userID"
	CtxSessionKey = "sessionToken"
)

// Auth reads the session cookie and validates it through the token service,
// which rejects signature-valid tokens that were revoked from the user's
// persisted session list. Sets userID and the raw token in the Gin context.
func Auth(tokens *application.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(helpers.SessionCookie)
		if err != nil || token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing session token", nil)
			c.Abort()
			return
		}
		userID, err := tokens.Verify(c.Request.Context(), token)
		if err != nil {
			msg := "invalid session token"
			if errors.Is(err, apperror.ErrAuthentication) {
				msg = "session revoked"
			}
			response.Error[any](c, http.StatusUnauthorized, msg, nil)
			c.Abort()
			return
		}
		c.Set(CtxUserIDKey, userID)
		c.Set(CtxSessionKey, token)
		c.Next()
	}
}
