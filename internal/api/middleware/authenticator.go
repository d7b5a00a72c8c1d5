package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jo-france/reservation-api/internal/api/handler/v1/response"
	"github.com/jo-france/reservation-api/internal/pkg/jwthelper"
)

// ContextKeyUserID is where the authenticated user id lives in the gin
// context. Services below the handlers only ever see this opaque id.
const ContextKeyUserID = "userID"

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

// VerifyJWT rejects requests without a valid bearer token and stores
// the token's user id in the context.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims, ok := a.parseBearer(ctx)
		if !ok {
			response.RenderErr(ctx, response.ErrUnauthorized())
			return
		}

		ctx.Set(ContextKeyUserID, claims.UserID)
		ctx.Next()
	}
}

// OptionalJWT resolves the user id when a valid bearer token is
// present but lets anonymous requests through. Used by the offer
// selection endpoint, which serves both audiences.
func (a *Authenticator) OptionalJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if claims, ok := a.parseBearer(ctx); ok {
			ctx.Set(ContextKeyUserID, claims.UserID)
		}

		ctx.Next()
	}
}

func (a *Authenticator) parseBearer(ctx *gin.Context) (*jwthelper.UserClaims, bool) {
	header := ctx.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, false
	}

	claims, err := jwthelper.ParseToken(a.signingKey, strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return nil, false
	}

	return claims, true
}
