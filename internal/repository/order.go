package repository

import (
	"context"
	"fmt"

	"github.com/jo-france/reservation-api/internal/domain"
	"github.com/jo-france/reservation-api/internal/repository/dao"
)

var (
	ErrOrderNotFound = dao.ErrOrderNotFound
	ErrOrderNotDraft = dao.ErrOrderNotDraft
)

type OrderDAO interface {
	InsertDraft(ctx context.Context, order dao.Order) (dao.Order, error)
	FindByIDAndUser(ctx context.Context, id, userID uint) (dao.Order, error)
	CancelDraft(ctx context.Context, id, userID uint) error
	ListByUserAndStatus(ctx context.Context, userID uint, status string) ([]dao.OrderRow, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]dao.OrderRow, error)
	CountDraftsByUser(ctx context.Context, userID uint) (int64, error)
}

type OrderRepository struct {
	dao OrderDAO
}

func NewOrderRepository(dao OrderDAO) *OrderRepository {
	return &OrderRepository{
		dao: dao,
	}
}

// CreateDraft atomically replaces any previous draft of the user. The
// returned order is the single draft the user now owns.
func (r *OrderRepository) CreateDraft(ctx context.Context, order domain.Order) (domain.Order, error) {
	created, err := r.dao.InsertDraft(ctx, dao.Order{
		UserID:   order.UserID,
		OfferID:  order.OfferID,
		Quantity: order.Quantity,
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("r.dao.InsertDraft -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *OrderRepository) FindByIDAndUser(ctx context.Context, id, userID uint) (domain.Order, error) {
	found, err := r.dao.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("r.dao.FindByIDAndUser -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *OrderRepository) CancelDraft(ctx context.Context, id, userID uint) error {
	if err := r.dao.CancelDraft(ctx, id, userID); err != nil {
		return fmt.Errorf("r.dao.CancelDraft -> %w", err)
	}

	return nil
}

func (r *OrderRepository) ListByUserAndStatus(ctx context.Context, userID uint, status domain.OrderStatus) ([]domain.OrderLine, error) {
	rows, err := r.dao.ListByUserAndStatus(ctx, userID, string(status))
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListByUserAndStatus -> %w", err)
	}

	return r.rowsToLines(rows), nil
}

func (r *OrderRepository) ListByStatus(ctx context.Context, status domain.OrderStatus, limit, offset int) ([]domain.OrderLine, error) {
	rows, err := r.dao.ListByStatus(ctx, string(status), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListByStatus -> %w", err)
	}

	return r.rowsToLines(rows), nil
}

func (r *OrderRepository) CountDraftsByUser(ctx context.Context, userID uint) (int64, error) {
	count, err := r.dao.CountDraftsByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountDraftsByUser -> %w", err)
	}

	return count, nil
}

func (r *OrderRepository) daoToDomain(o dao.Order) domain.Order {
	return domain.Order{
		ID:        o.ID,
		UserID:    o.UserID,
		OfferID:   o.OfferID,
		Quantity:  o.Quantity,
		Status:    domain.OrderStatus(o.Status),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func (r *OrderRepository) rowsToLines(rows []dao.OrderRow) []domain.OrderLine {
	lines := make([]domain.OrderLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, domain.OrderLine{
			Order: domain.Order{
				ID:        row.ID,
				UserID:    row.UserID,
				OfferID:   row.OfferID,
				Quantity:  row.Quantity,
				Status:    domain.OrderStatus(row.Status),
				CreatedAt: row.CreatedAt,
				UpdatedAt: row.UpdatedAt,
			},
			OfferName: row.OfferName,
			NbrTicket: row.NbrTicket,
			Prix:      row.Prix,
			UserEmail: row.UserEmail,
			FinalKey:  row.FinalKey,
		})
	}

	return lines
}
