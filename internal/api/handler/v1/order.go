package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jo-france/reservation-api/internal/api/handler/v1/request"
	"github.com/jo-france/reservation-api/internal/api/handler/v1/response"
	"github.com/jo-france/reservation-api/internal/api/middleware"
	"github.com/jo-france/reservation-api/internal/domain"
	"github.com/jo-france/reservation-api/internal/service"
)

type OrderService interface {
	StashSelection(ctx context.Context, offerID uint) (string, error)
	CreateDraft(ctx context.Context, userID, offerID uint, quantity int) (domain.Order, error)
	CancelOrder(ctx context.Context, userID, orderID uint) error
	ListOrders(ctx context.Context, userID uint) (service.UserOrders, error)
	ListAllOrders(ctx context.Context, status domain.OrderStatus, page int) ([]domain.OrderLine, bool, error)
}

type PaymentService interface {
	ConfirmPayment(ctx context.Context, userID, orderID uint) (domain.Payment, error)
}

type OrderHandler struct {
	svc        OrderService
	paymentSvc PaymentService
}

func NewOrderHandler(svc OrderService, paymentSvc PaymentService) *OrderHandler {
	return &OrderHandler{
		svc:        svc,
		paymentSvc: paymentSvc,
	}
}

// HandleSelectOffer godoc
// @Summary      Select an offer
// @Description  Authenticated callers get a draft order right away.
// @Description  Anonymous callers get a selection token to present at login.
// @Tags         orders
// @Produce      json
// @Param        offerID  path      int  true  "offer ID"
// @Success      201      {object}  domain.Order
// @Success      202      {object}  response.SelectionResponse
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /offers/{offerID}/select [post]
func (h *OrderHandler) HandleSelectOffer(ctx *gin.Context) {
	offerID, ok := parseIDParam(ctx, "offerID")
	if !ok {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid offer ID")))
		return
	}

	// No valid bearer token: stash the choice server-side and hand
	// back the token to redeem at login.
	userID := ctx.GetUint(middleware.ContextKeyUserID)
	if userID == 0 {
		token, err := h.svc.StashSelection(ctx.Request.Context(), offerID)
		if err != nil {
			if errors.Is(err, service.ErrOfferNotFound) {
				response.RenderErr(ctx, response.ErrNotFound("offer", "ID", offerID))
				return
			}

			err = fmt.Errorf("v1.HandleSelectOffer -> h.svc.StashSelection -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
			return
		}

		ctx.JSON(http.StatusAccepted, response.SelectionResponse{SelectionToken: token})
		return
	}

	order, err := h.svc.CreateDraft(ctx.Request.Context(), userID, offerID, 0)
	if err != nil {
		if errors.Is(err, service.ErrOfferNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("offer", "ID", offerID))
			return
		}

		err = fmt.Errorf("v1.HandleSelectOffer -> h.svc.CreateDraft -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, order)
}

// HandleAddToCart godoc
// @Summary      Put an offer in the cart
// @Description  Replaces any previous draft order of the user.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body      request.AddToCartRequest true "request body"
// @Success      201     {object}  domain.Order
// @Failure      400     {object}  response.Err
// @Failure      401     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /orders [post]
// @Security     BearerAuth
func (h *OrderHandler) HandleAddToCart(ctx *gin.Context) {
	userID, respErr := getUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.AddToCartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	order, err := h.svc.CreateDraft(ctx.Request.Context(), userID, req.OfferID, req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrOfferNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("offer", "ID", req.OfferID))
			return
		}

		err = fmt.Errorf("v1.HandleAddToCart -> h.svc.CreateDraft -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, order)
}

// HandleListOrders godoc
// @Summary      List the caller's cart and paid orders
// @Tags         orders
// @Produce      json
// @Success      200  {object}  service.UserOrders
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /orders [get]
// @Security     BearerAuth
func (h *OrderHandler) HandleListOrders(ctx *gin.Context) {
	userID, respErr := getUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	orders, err := h.svc.ListOrders(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListOrders -> h.svc.ListOrders -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, orders)
}

// HandleCancelOrder godoc
// @Summary      Cancel a draft order
// @Description  Only the owner can cancel, and only drafts are cancelable.
// @Tags         orders
// @Produce      json
// @Param        orderID  path      int  true  "order ID"
// @Success      204      "no content"
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /orders/{orderID}/cancel [post]
// @Security     BearerAuth
func (h *OrderHandler) HandleCancelOrder(ctx *gin.Context) {
	userID, respErr := getUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	orderID, ok := parseIDParam(ctx, "orderID")
	if !ok {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid order ID")))
		return
	}

	if err := h.svc.CancelOrder(ctx.Request.Context(), userID, orderID); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("order", "ID", orderID))
			return
		}
		if errors.Is(err, service.ErrOrderNotDraft) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrOrderNotDraft))
			return
		}

		err = fmt.Errorf("v1.HandleCancelOrder -> h.svc.CancelOrder -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleConfirmPayment godoc
// @Summary      Pay a draft order (simulated)
// @Description  Transitions the caller's draft to paid and returns the
// @Description  final e-ticket key. Confirming twice fails with 409.
// @Tags         orders
// @Produce      json
// @Param        orderID  path      int  true  "order ID"
// @Success      201      {object}  response.PaymentResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /orders/{orderID}/confirm [post]
// @Security     BearerAuth
func (h *OrderHandler) HandleConfirmPayment(ctx *gin.Context) {
	userID, respErr := getUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	orderID, ok := parseIDParam(ctx, "orderID")
	if !ok {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid order ID")))
		return
	}

	payment, err := h.paymentSvc.ConfirmPayment(ctx.Request.Context(), userID, orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("order", "ID", orderID))
			return
		}
		if errors.Is(err, service.ErrOrderNotPayable) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrOrderNotPayable))
			return
		}
		if errors.Is(err, service.ErrOfferNotFound) {
			response.RenderErr(ctx, response.ErrConflict(errors.New("the selected offer is no longer available")))
			return
		}

		err = fmt.Errorf("v1.HandleConfirmPayment -> h.paymentSvc.ConfirmPayment -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, response.PaymentResponse{
		OrderID:     payment.OrderID,
		AmountCents: payment.AmountCents,
		Status:      payment.Status,
		FinalKey:    payment.FinalKey,
	})
}

// HandleListAllOrders godoc
// @Summary      List orders by status (admin)
// @Tags         admin
// @Produce      json
// @Param        status  query     string  false  "order status (draft, paid, canceled)"  default(paid)
// @Param        page    query     int     false  "page number, starting at 1"
// @Success      200     {object}  response.OrderPage
// @Failure      401     {object}  response.Err
// @Failure      403     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /admin/orders [get]
// @Security     BearerAuth
func (h *OrderHandler) HandleListAllOrders(ctx *gin.Context) {
	status := domain.OrderStatus(ctx.DefaultQuery("status", string(domain.OrderPaid)))
	page := parsePageQuery(ctx)

	orders, hasNext, err := h.svc.ListAllOrders(ctx.Request.Context(), status, page)
	if err != nil {
		err = fmt.Errorf("v1.HandleListAllOrders -> h.svc.ListAllOrders -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.OrderPage{
		Orders:  orders,
		Page:    page,
		HasNext: hasNext,
	})
}
