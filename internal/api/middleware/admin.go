package middleware

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/jo-france/reservation-api/internal/api/handler/v1/response"
	"github.com/jo-france/reservation-api/internal/domain"
)

type UserGetter interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

// RequireAdmin loads the authenticated user and rejects non-admins.
// Must be mounted after VerifyJWT.
func RequireAdmin(users UserGetter) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID := ctx.GetUint(ContextKeyUserID)
		if userID == 0 {
			response.RenderErr(ctx, response.ErrUnauthorized())
			return
		}

		user, err := users.GetUser(ctx.Request.Context(), userID)
		if err != nil {
			response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("middleware.RequireAdmin -> users.GetUser -> %w", err)))
			return
		}

		if !user.IsAdmin() {
			response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
			return
		}

		ctx.Next()
	}
}
