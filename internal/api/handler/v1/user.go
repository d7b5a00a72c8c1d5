package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jo-france/reservation-api/internal/api/handler/v1/response"
	"github.com/jo-france/reservation-api/internal/domain"
	"github.com/jo-france/reservation-api/internal/service"
)

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
	ListUsers(ctx context.Context, page int) ([]domain.User, bool, error)
}

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

// HandleGetUser godoc
// @Summary      Get a user by ID
// @Description  Users can read themselves; admins can read anyone.
// @Tags         users
// @Produce      json
// @Param        userID  path      int  true  "user ID"
// @Success      200     {object}  domain.User
// @Failure      401     {object}  response.Err
// @Failure      403     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /users/{userID} [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetUser(ctx *gin.Context) {
	callerID, respErr := getUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	targetID, ok := parseIDParam(ctx, "userID")
	if !ok {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid user ID")))
		return
	}

	if targetID != callerID {
		caller, err := h.svc.GetUser(ctx.Request.Context(), callerID)
		if err != nil {
			err = fmt.Errorf("v1.HandleGetUser -> h.svc.GetUser(caller) -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
			return
		}
		if !caller.IsAdmin() {
			response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v reading user %v", callerID, targetID)))
			return
		}
	}

	user, err := h.svc.GetUser(ctx.Request.Context(), targetID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", targetID))
			return
		}

		err = fmt.Errorf("v1.HandleGetUser -> h.svc.GetUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleListUsers godoc
// @Summary      List users (admin)
// @Tags         admin
// @Produce      json
// @Param        page  query     int  false  "page number, starting at 1"
// @Success      200   {object}  response.UserPage
// @Failure      401   {object}  response.Err
// @Failure      403   {object}  response.Err
// @Failure      500   {object}  response.Err
// @Router       /admin/users [get]
// @Security     BearerAuth
func (h *UserHandler) HandleListUsers(ctx *gin.Context) {
	page := parsePageQuery(ctx)

	users, hasNext, err := h.svc.ListUsers(ctx.Request.Context(), page)
	if err != nil {
		err = fmt.Errorf("v1.HandleListUsers -> h.svc.ListUsers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.UserPage{
		Users:   users,
		Page:    page,
		HasNext: hasNext,
	})
}
