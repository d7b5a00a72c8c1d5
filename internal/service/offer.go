package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jo-france/reservation-api/internal/domain"
	"github.com/jo-france/reservation-api/internal/repository"
)

var (
	ErrOfferNotFound = repository.ErrOfferNotFound
	ErrInvalidOffer  = errors.New("offer needs a name, a capacity of at least 1 and a non-negative price")
)

type OfferRepository interface {
	Create(ctx context.Context, offer domain.Offer) (domain.Offer, error)
	FindByID(ctx context.Context, id uint) (domain.Offer, error)
	List(ctx context.Context) ([]domain.Offer, error)
	Delete(ctx context.Context, id uint) error
	Stats(ctx context.Context) ([]domain.OfferStats, error)
}

type OfferService struct {
	repo OfferRepository
}

func NewOfferService(repo OfferRepository) *OfferService {
	return &OfferService{
		repo: repo,
	}
}

func (s *OfferService) ListOffers(ctx context.Context) ([]domain.Offer, error) {
	offers, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", err)
	}

	return offers, nil
}

func (s *OfferService) GetOffer(ctx context.Context, id uint) (domain.Offer, error) {
	offer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOfferNotFound) {
			return domain.Offer{}, ErrOfferNotFound
		}

		return domain.Offer{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return offer, nil
}

func (s *OfferService) CreateOffer(ctx context.Context, offer domain.Offer) (domain.Offer, error) {
	if offer.Name == "" || offer.NbrTicket < 1 || offer.Prix < 0 {
		return domain.Offer{}, ErrInvalidOffer
	}

	created, err := s.repo.Create(ctx, offer)
	if err != nil {
		return domain.Offer{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// DeleteOffer soft-deletes, so orders referencing the offer keep their
// historical name and price.
func (s *OfferService) DeleteOffer(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrOfferNotFound) {
			return ErrOfferNotFound
		}

		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *OfferService) Stats(ctx context.Context) ([]domain.OfferStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Stats -> %w", err)
	}

	return stats, nil
}
