package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jo-france/reservation-api/internal/api/handler/v1/request"
	"github.com/jo-france/reservation-api/internal/api/handler/v1/response"
	"github.com/jo-france/reservation-api/internal/domain"
	"github.com/jo-france/reservation-api/internal/service"
)

type OfferService interface {
	ListOffers(ctx context.Context) ([]domain.Offer, error)
	CreateOffer(ctx context.Context, offer domain.Offer) (domain.Offer, error)
	DeleteOffer(ctx context.Context, id uint) error
	Stats(ctx context.Context) ([]domain.OfferStats, error)
}

type OfferHandler struct {
	svc OfferService
}

func NewOfferHandler(svc OfferService) *OfferHandler {
	return &OfferHandler{
		svc: svc,
	}
}

// HandleListOffers godoc
// @Summary      List purchasable offers
// @Tags         offers
// @Produce      json
// @Success      200  {array}   domain.Offer
// @Failure      500  {object}  response.Err
// @Router       /offers [get]
func (h *OfferHandler) HandleListOffers(ctx *gin.Context) {
	offers, err := h.svc.ListOffers(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListOffers -> h.svc.ListOffers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, offers)
}

// HandleCreateOffer godoc
// @Summary      Create an offer (admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body      request.CreateOfferRequest true "request body"
// @Success      201     {object}  domain.Offer
// @Failure      400     {object}  response.Err
// @Failure      401     {object}  response.Err
// @Failure      403     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /offers [post]
// @Security     BearerAuth
func (h *OfferHandler) HandleCreateOffer(ctx *gin.Context) {
	var req request.CreateOfferRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	offer, err := h.svc.CreateOffer(ctx.Request.Context(), domain.Offer{
		Name:      req.Name,
		NbrTicket: req.NbrTicket,
		Prix:      req.Prix,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidOffer) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidOffer))
			return
		}

		err = fmt.Errorf("v1.HandleCreateOffer -> h.svc.CreateOffer -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, offer)
}

// HandleDeleteOffer godoc
// @Summary      Delete an offer (admin)
// @Description  Soft delete: existing orders keep their historical offer data.
// @Tags         admin
// @Produce      json
// @Param        offerID  path      int  true  "offer ID"
// @Success      204      "no content"
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /offers/{offerID} [delete]
// @Security     BearerAuth
func (h *OfferHandler) HandleDeleteOffer(ctx *gin.Context) {
	offerID, ok := parseIDParam(ctx, "offerID")
	if !ok {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid offer ID")))
		return
	}

	if err := h.svc.DeleteOffer(ctx.Request.Context(), offerID); err != nil {
		if errors.Is(err, service.ErrOfferNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("offer", "ID", offerID))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteOffer -> h.svc.DeleteOffer -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleStats godoc
// @Summary      Per-offer sales statistics (admin)
// @Tags         admin
// @Produce      json
// @Success      200  {array}   domain.OfferStats
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/stats [get]
// @Security     BearerAuth
func (h *OfferHandler) HandleStats(ctx *gin.Context) {
	stats, err := h.svc.Stats(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleStats -> h.svc.Stats -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, stats)
}
