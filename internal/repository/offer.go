package repository

import (
	"context"
	"fmt"

	"github.com/jo-france/reservation-api/internal/domain"
	"github.com/jo-france/reservation-api/internal/repository/dao"
)

var ErrOfferNotFound = dao.ErrOfferNotFound

type OfferDAO interface {
	Insert(ctx context.Context, offer dao.Offer) (dao.Offer, error)
	FindByID(ctx context.Context, id uint) (dao.Offer, error)
	List(ctx context.Context) ([]dao.Offer, error)
	Delete(ctx context.Context, id uint) error
	Stats(ctx context.Context) ([]dao.StatsRow, error)
}

type OfferRepository struct {
	dao OfferDAO
}

func NewOfferRepository(dao OfferDAO) *OfferRepository {
	return &OfferRepository{
		dao: dao,
	}
}

func (r *OfferRepository) Create(ctx context.Context, offer domain.Offer) (domain.Offer, error) {
	created, err := r.dao.Insert(ctx, dao.Offer{
		Name:      offer.Name,
		NbrTicket: offer.NbrTicket,
		Prix:      offer.Prix,
	})
	if err != nil {
		return domain.Offer{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *OfferRepository) FindByID(ctx context.Context, id uint) (domain.Offer, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Offer{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *OfferRepository) List(ctx context.Context) ([]domain.Offer, error) {
	found, err := r.dao.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	offers := make([]domain.Offer, 0, len(found))
	for _, o := range found {
		offers = append(offers, r.daoToDomain(o))
	}

	return offers, nil
}

func (r *OfferRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *OfferRepository) Stats(ctx context.Context) ([]domain.OfferStats, error) {
	rows, err := r.dao.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.Stats -> %w", err)
	}

	stats := make([]domain.OfferStats, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, domain.OfferStats{
			OfferID:       row.OfferID,
			Name:          row.Name,
			NbrTicket:     row.NbrTicket,
			Prix:          row.Prix,
			TotalPacks:    row.TotalPacks,
			TotalPersons:  row.TotalPersons,
			TotalTurnover: row.TotalTurnover,
		})
	}

	return stats, nil
}

func (r *OfferRepository) daoToDomain(o dao.Offer) domain.Offer {
	return domain.Offer{
		ID:        o.ID,
		Name:      o.Name,
		NbrTicket: o.NbrTicket,
		Prix:      o.Prix,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
