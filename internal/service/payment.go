package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jo-france/reservation-api/internal/domain"
	"github.com/jo-france/reservation-api/internal/pkg/ticketkey"
	"github.com/jo-france/reservation-api/internal/repository"
)

var ErrOrderNotPayable = repository.ErrOrderNotPayable

type PaymentRepository interface {
	CreateForOrder(ctx context.Context, payment domain.Payment) (domain.Payment, error)
	FindByOrderID(ctx context.Context, orderID uint) (domain.Payment, error)
}

type PaymentOrderRepository interface {
	FindByIDAndUser(ctx context.Context, id, userID uint) (domain.Order, error)
}

type PaymentUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type PaymentOfferRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Offer, error)
}

// PaymentService finalizes draft orders: it simulates the charge,
// derives the final e-ticket key and records the payment.
type PaymentService struct {
	repo      PaymentRepository
	orderRepo PaymentOrderRepository
	userRepo  PaymentUserRepository
	offerRepo PaymentOfferRepository
}

func NewPaymentService(repo PaymentRepository, orderRepo PaymentOrderRepository, userRepo PaymentUserRepository, offerRepo PaymentOfferRepository) *PaymentService {
	return &PaymentService{
		repo:      repo,
		orderRepo: orderRepo,
		userRepo:  userRepo,
		offerRepo: offerRepo,
	}
}

// ConfirmPayment performs the draft -> paid transition for the
// caller's own order and returns the recorded payment. Confirming an
// already-paid or canceled order fails with ErrOrderNotPayable;
// exactly one payment row ever exists per order.
func (s *PaymentService) ConfirmPayment(ctx context.Context, userID, orderID uint) (domain.Payment, error) {
	order, err := s.orderRepo.FindByIDAndUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return domain.Payment{}, ErrOrderNotFound
		}

		return domain.Payment{}, fmt.Errorf("s.orderRepo.FindByIDAndUser -> %w", err)
	}

	if !order.IsDraft() {
		return domain.Payment{}, ErrOrderNotPayable
	}

	user, err := s.userRepo.FindByID(ctx, order.UserID)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("s.userRepo.FindByID -> %w", err)
	}

	offer, err := s.offerRepo.FindByID(ctx, order.OfferID)
	if err != nil {
		// Draft referencing an offer an admin removed in the meantime:
		// the cart entry can no longer be purchased.
		if errors.Is(err, repository.ErrOfferNotFound) {
			return domain.Payment{}, ErrOfferNotFound
		}

		return domain.Payment{}, fmt.Errorf("s.offerRepo.FindByID -> %w", err)
	}

	key2, err := ticketkey.NewSecret()
	if err != nil {
		return domain.Payment{}, fmt.Errorf("ticketkey.NewSecret -> %w", err)
	}

	payment := domain.Payment{
		OrderID:     order.ID,
		AmountCents: int64(math.Round(offer.Prix * 100)),
		Status:      domain.PaymentSuccess,
		Key2:        key2,
		FinalKey:    ticketkey.DeriveFinalKey(user.Key1, key2),
	}

	created, err := s.repo.CreateForOrder(ctx, payment)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotPayable) || errors.Is(err, repository.ErrPaymentExists) {
			return domain.Payment{}, ErrOrderNotPayable
		}

		return domain.Payment{}, fmt.Errorf("s.repo.CreateForOrder -> %w", err)
	}

	return created, nil
}
