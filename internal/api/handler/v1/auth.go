package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jo-france/reservation-api/internal/api/handler/v1/request"
	"github.com/jo-france/reservation-api/internal/api/handler/v1/response"
	"github.com/jo-france/reservation-api/internal/config"
	"github.com/jo-france/reservation-api/internal/domain"
	"github.com/jo-france/reservation-api/internal/pkg/jwthelper"
	"github.com/jo-france/reservation-api/internal/service"
)

type AuthService interface {
	Register(ctx context.Context, user domain.User) (domain.User, error)
	Login(ctx context.Context, email, password string) (domain.User, error)
}

// AuthOrderService redeems a pre-login offer selection into the fresh
// session's draft order.
type AuthOrderService interface {
	RedeemSelection(ctx context.Context, userID uint, token string) (domain.Order, error)
}

type AuthHandler struct {
	conf     *config.APIConfig
	svc      AuthService
	orderSvc AuthOrderService
}

func NewAuthHandler(conf *config.APIConfig, svc AuthService, orderSvc AuthOrderService) *AuthHandler {
	return &AuthHandler{
		conf:     conf,
		svc:      svc,
		orderSvc: orderSvc,
	}
}

// HandleSignup godoc
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body      request.SignupRequest true "request body"
// @Success      201     {object}  domain.User
// @Failure      400     {object}  response.Err
// @Failure      409     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /auth/signup [post]
func (h *AuthHandler) HandleSignup(ctx *gin.Context) {
	var req request.SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.Register(ctx.Request.Context(), domain.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      domain.RoleUser,
	})
	if err != nil {
		if errors.Is(err, service.ErrWeakPassword) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrWeakPassword))
			return
		}
		if errors.Is(err, service.ErrUserEmailExists) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrUserEmailExists))
			return
		}

		err = fmt.Errorf("v1.HandleSignup -> h.svc.Register -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, user)
}

// HandleLogin godoc
// @Summary      Login a user
// @Description  Authenticates the user and, when a selection_token is
// @Description  supplied, turns the stashed offer into the user's draft order.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body      request.LoginRequest true "request body"
// @Success      200     {object}  response.LoginResponse
// @Failure      400     {object}  response.Err
// @Failure      401     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /auth/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	req := request.LoginRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrWrongPassword) {
			response.RenderErr(ctx, response.ErrWrongCredentials(err))
			return
		}

		err = fmt.Errorf("v1.HandleLogin -> h.svc.Login -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if req.SelectionToken != "" {
		// A dead token just means nothing gets carried over; the
		// login itself already succeeded.
		if _, err := h.orderSvc.RedeemSelection(ctx.Request.Context(), user.ID, req.SelectionToken); err != nil &&
			!errors.Is(err, service.ErrSelectionNotFound) && !errors.Is(err, service.ErrOfferNotFound) {
			zap.L().Error("failed to redeem offer selection",
				zap.Uint("user_id", user.ID),
				zap.Error(err),
			)
		}
	}

	token, err := jwthelper.GenerateToken([]byte(h.conf.JWTSigningKey), user.ID, ctx.Request.UserAgent())
	if err != nil {
		err = fmt.Errorf("v1.HandleLogin -> jwthelper.GenerateToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.LoginResponse{
		Token: token,
		User:  user,
	})
}
