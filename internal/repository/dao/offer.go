package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrOfferNotFound = errors.New("offer not found")

// Offer is soft-deleted so orders placed before an admin removes it
// keep resolving their historical name and price.
type Offer struct {
	ID uint `gorm:"primaryKey"`

	Name      string  `gorm:"not null"`
	NbrTicket int     `gorm:"not null"`
	Prix      float64 `gorm:"not null;type:numeric(10,2)"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

type OfferDAO struct {
	db *gorm.DB
}

func NewOfferDAO(db *gorm.DB) *OfferDAO {
	return &OfferDAO{
		db: db,
	}
}

func (d *OfferDAO) Insert(ctx context.Context, offer Offer) (Offer, error) {
	result := d.db.WithContext(ctx).Create(&offer)
	if result.Error != nil {
		return Offer{}, result.Error
	}

	return offer, nil
}

func (d *OfferDAO) FindByID(ctx context.Context, id uint) (Offer, error) {
	var offer Offer

	result := d.db.WithContext(ctx).First(&offer, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Offer{}, ErrOfferNotFound
		}

		return Offer{}, result.Error
	}

	return offer, nil
}

func (d *OfferDAO) List(ctx context.Context) ([]Offer, error) {
	var offers []Offer

	result := d.db.WithContext(ctx).Order("id ASC").Find(&offers)
	if result.Error != nil {
		return nil, result.Error
	}

	return offers, nil
}

func (d *OfferDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Offer{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOfferNotFound
	}

	return nil
}

// StatsRow mirrors the admin aggregate: paid packs, admitted persons
// and turnover per offer, soft-deleted offers included.
type StatsRow struct {
	OfferID       uint
	Name          string
	NbrTicket     int
	Prix          float64
	TotalPacks    int
	TotalPersons  int
	TotalTurnover float64
}

func (d *OfferDAO) Stats(ctx context.Context) ([]StatsRow, error) {
	var rows []StatsRow

	result := d.db.WithContext(ctx).Raw(`
		SELECT
			of.id AS offer_id,
			of.name,
			of.nbr_ticket,
			of.prix,
			COALESCE(SUM(o.quantity), 0) AS total_packs,
			COALESCE(SUM(o.quantity) * of.nbr_ticket, 0) AS total_persons,
			COALESCE(SUM(o.quantity * of.prix), 0) AS total_turnover
		FROM offers of
		LEFT JOIN orders o
			ON o.offer_id = of.id
			AND o.status = 'paid'
		GROUP BY of.id, of.name, of.nbr_ticket, of.prix
		ORDER BY of.id ASC
	`).Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}
