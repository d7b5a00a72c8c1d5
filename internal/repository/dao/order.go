package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrOrderNotDraft   = errors.New("order is not a draft")
)

type Order struct {
	ID uint `gorm:"primaryKey"`

	UserID  uint `gorm:"not null;index"`
	OfferID uint `gorm:"not null"`

	Quantity int    `gorm:"not null"`
	Status   string `gorm:"not null;index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type OrderDAO struct {
	db *gorm.DB
}

func NewOrderDAO(db *gorm.DB) *OrderDAO {
	return &OrderDAO{
		db: db,
	}
}

// InsertDraft cancels every existing draft of the user and inserts the
// new one in a single transaction, so at most one draft per user can
// ever be observed. The partial unique index created in migrations
// backs the same invariant against concurrent writers.
func (d *OrderDAO) InsertDraft(ctx context.Context, order Order) (Order, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Order{}).
			Where("user_id = ? AND status = ?", order.UserID, "draft").
			Update("status", "canceled")
		if result.Error != nil {
			return result.Error
		}

		order.Status = "draft"
		if result := tx.Create(&order); result.Error != nil {
			return result.Error
		}

		return nil
	})
	if err != nil {
		return Order{}, err
	}

	return order, nil
}

func (d *OrderDAO) FindByIDAndUser(ctx context.Context, id, userID uint) (Order, error) {
	var order Order

	result := d.db.WithContext(ctx).First(&order, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Order{}, ErrOrderNotFound
		}

		return Order{}, result.Error
	}

	return order, nil
}

// CancelDraft flips a draft to canceled. The status guard in the WHERE
// clause keeps paid orders final.
func (d *OrderDAO) CancelDraft(ctx context.Context, id, userID uint) error {
	result := d.db.WithContext(ctx).Model(&Order{}).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, "draft").
		Update("status", "canceled")
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var order Order
		found := d.db.WithContext(ctx).First(&order, "id = ? AND user_id = ?", id, userID)
		if errors.Is(found.Error, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		if found.Error != nil {
			return found.Error
		}

		return ErrOrderNotDraft
	}

	return nil
}

// OrderRow is an order joined with offer attributes and, for paid
// orders, the final key. Offers are joined unscoped so history keeps
// rendering after an admin soft-deletes an offer.
type OrderRow struct {
	ID        uint
	UserID    uint
	OfferID   uint
	Quantity  int
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
	OfferName string
	NbrTicket int
	Prix      float64
	UserEmail string
	FinalKey  string
}

func (d *OrderDAO) ListByUserAndStatus(ctx context.Context, userID uint, status string) ([]OrderRow, error) {
	var rows []OrderRow

	result := d.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.user_id,
			o.offer_id,
			o.quantity,
			o.status,
			o.created_at,
			o.updated_at,
			of.name AS offer_name,
			of.nbr_ticket,
			of.prix,
			COALESCE(p.final_key, '') AS final_key
		FROM orders o
		JOIN offers of ON of.id = o.offer_id
		LEFT JOIN payments p ON p.order_id = o.id
		WHERE o.user_id = ? AND o.status = ?
		ORDER BY o.id ASC
	`, userID, status).Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}

// ListByStatus pages through all orders of a status for the admin
// listing, joined with the owner's email. Callers pass limit+1 to
// detect whether a next page exists.
func (d *OrderDAO) ListByStatus(ctx context.Context, status string, limit, offset int) ([]OrderRow, error) {
	var rows []OrderRow

	result := d.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.user_id,
			o.offer_id,
			o.quantity,
			o.status,
			o.created_at,
			o.updated_at,
			u.email AS user_email,
			of.name AS offer_name,
			of.nbr_ticket,
			of.prix,
			COALESCE(p.final_key, '') AS final_key
		FROM orders o
		JOIN users u ON u.id = o.user_id
		JOIN offers of ON of.id = o.offer_id
		LEFT JOIN payments p ON p.order_id = o.id
		WHERE o.status = ?
		ORDER BY o.id ASC
		LIMIT ? OFFSET ?
	`, status, limit, offset).Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}

// CountDraftsByUser exists for the invariant checks in tests and the
// healthcheck of the order engine.
func (d *OrderDAO) CountDraftsByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Order{}).
		Where("user_id = ? AND status = ?", userID, "draft").
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}
