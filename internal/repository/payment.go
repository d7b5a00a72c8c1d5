package repository

import (
	"context"
	"fmt"

	"github.com/jo-france/reservation-api/internal/domain"
	"github.com/jo-france/reservation-api/internal/repository/dao"
)

var (
	ErrOrderNotPayable = dao.ErrOrderNotPayable
	ErrPaymentExists   = dao.ErrPaymentExists
)

type PaymentDAO interface {
	InsertForOrder(ctx context.Context, payment dao.Payment) (dao.Payment, error)
	FindByOrderID(ctx context.Context, orderID uint) (dao.Payment, error)
}

type PaymentRepository struct {
	dao PaymentDAO
}

func NewPaymentRepository(dao PaymentDAO) *PaymentRepository {
	return &PaymentRepository{
		dao: dao,
	}
}

// CreateForOrder transitions the order to paid and inserts the payment
// row atomically. A non-draft order fails with ErrOrderNotPayable.
func (r *PaymentRepository) CreateForOrder(ctx context.Context, payment domain.Payment) (domain.Payment, error) {
	created, err := r.dao.InsertForOrder(ctx, dao.Payment{
		OrderID:     payment.OrderID,
		AmountCents: payment.AmountCents,
		Status:      payment.Status,
		Key2:        payment.Key2,
		FinalKey:    payment.FinalKey,
	})
	if err != nil {
		return domain.Payment{}, fmt.Errorf("r.dao.InsertForOrder -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *PaymentRepository) FindByOrderID(ctx context.Context, orderID uint) (domain.Payment, error) {
	found, err := r.dao.FindByOrderID(ctx, orderID)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("r.dao.FindByOrderID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *PaymentRepository) daoToDomain(p dao.Payment) domain.Payment {
	return domain.Payment{
		ID:          p.ID,
		OrderID:     p.OrderID,
		AmountCents: p.AmountCents,
		Status:      p.Status,
		Key2:        p.Key2,
		FinalKey:    p.FinalKey,
		CreatedAt:   p.CreatedAt,
	}
}
