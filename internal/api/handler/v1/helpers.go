package v1

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jo-france/reservation-api/internal/api/handler/v1/response"
	"github.com/jo-france/reservation-api/internal/api/middleware"
)

// getUserID reads the user id the authenticator stored in the context.
func getUserID(ctx *gin.Context) (uint, *response.Err) {
	userID := ctx.GetUint(middleware.ContextKeyUserID)
	if userID == 0 {
		return 0, response.ErrUnauthorized()
	}

	return userID, nil
}

// parseIDParam parses a numeric path parameter like :orderID.
func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}

	return uint(id), true
}

// parsePageQuery returns the ?page= query value, defaulting to 1.
func parsePageQuery(ctx *gin.Context) int {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}

	return page
}
