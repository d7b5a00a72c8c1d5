package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrPaymentExists   = errors.New("order already has a payment")
	ErrOrderNotPayable = errors.New("order is not payable")
)

type Payment struct {
	ID uint `gorm:"primaryKey"`

	// One payment per order, enforced by the unique index so a raced
	// double confirm cannot slip a second row in.
	OrderID uint `gorm:"not null;uniqueIndex:uni_payments_order_id"`

	AmountCents int64  `gorm:"not null"`
	Status      string `gorm:"not null"`
	Key2        string `gorm:"not null"`
	FinalKey    string `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
}

type PaymentDAO struct {
	db *gorm.DB
}

func NewPaymentDAO(db *gorm.DB) *PaymentDAO {
	return &PaymentDAO{
		db: db,
	}
}

// InsertForOrder performs the draft -> paid transition and records the
// payment in one transaction. The status guard on the UPDATE makes a
// second confirm observe zero affected rows and fail cleanly instead
// of inserting a duplicate payment.
func (d *PaymentDAO) InsertForOrder(ctx context.Context, payment Payment) (Payment, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Order{}).
			Where("id = ? AND status = ?", payment.OrderID, "draft").
			Update("status", "paid")
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrOrderNotPayable
		}

		if result := tx.Create(&payment); result.Error != nil {
			var pgErr *pgconn.PgError
			if errors.As(result.Error, &pgErr) &&
				pgErr.Code == pgerrcode.UniqueViolation &&
				strings.Contains(pgErr.Message, "uni_payments_order_id") {
				return ErrPaymentExists
			}

			return result.Error
		}

		return nil
	})
	if err != nil {
		return Payment{}, err
	}

	return payment, nil
}

func (d *PaymentDAO) FindByOrderID(ctx context.Context, orderID uint) (Payment, error) {
	var payment Payment

	result := d.db.WithContext(ctx).First(&payment, "order_id = ?", orderID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Payment{}, ErrOrderNotFound
		}

		return Payment{}, result.Error
	}

	return payment, nil
}
