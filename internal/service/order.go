package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jo-france/reservation-api/internal/domain"
	"github.com/jo-france/reservation-api/internal/repository"
)

var (
	ErrOrderNotFound     = repository.ErrOrderNotFound
	ErrOrderNotDraft     = repository.ErrOrderNotDraft
	ErrSelectionNotFound = repository.ErrSelectionNotFound
)

type OrderRepository interface {
	CreateDraft(ctx context.Context, order domain.Order) (domain.Order, error)
	FindByIDAndUser(ctx context.Context, id, userID uint) (domain.Order, error)
	CancelDraft(ctx context.Context, id, userID uint) error
	ListByUserAndStatus(ctx context.Context, userID uint, status domain.OrderStatus) ([]domain.OrderLine, error)
	ListByStatus(ctx context.Context, status domain.OrderStatus, limit, offset int) ([]domain.OrderLine, error)
}

type OrderOfferRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Offer, error)
}

// OrderSelectionStore keeps pre-login offer selections under opaque
// single-use tokens.
type OrderSelectionStore interface {
	Stash(ctx context.Context, offerID uint) (string, error)
	Redeem(ctx context.Context, token string) (uint, error)
}

// OrderService is the order lifecycle engine: it owns every status
// transition and the single-active-draft invariant.
type OrderService struct {
	repo       OrderRepository
	offerRepo  OrderOfferRepository
	selections OrderSelectionStore
}

func NewOrderService(repo OrderRepository, offerRepo OrderOfferRepository, selections OrderSelectionStore) *OrderService {
	return &OrderService{
		repo:       repo,
		offerRepo:  offerRepo,
		selections: selections,
	}
}

// StashSelection records an anonymous visitor's offer choice and
// returns the token to present back at login. The offer must exist.
func (s *OrderService) StashSelection(ctx context.Context, offerID uint) (string, error) {
	if _, err := s.offerRepo.FindByID(ctx, offerID); err != nil {
		if errors.Is(err, repository.ErrOfferNotFound) {
			return "", ErrOfferNotFound
		}

		return "", fmt.Errorf("s.offerRepo.FindByID -> %w", err)
	}

	token, err := s.selections.Stash(ctx, offerID)
	if err != nil {
		return "", fmt.Errorf("s.selections.Stash -> %w", err)
	}

	return token, nil
}

// RedeemSelection turns a stashed selection into the user's draft
// order right after authentication. An unknown or expired token is
// not an error: the user simply logs in with an empty cart, matching
// the behavior of an absent selection.
func (s *OrderService) RedeemSelection(ctx context.Context, userID uint, token string) (domain.Order, error) {
	offerID, err := s.selections.Redeem(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrSelectionNotFound) {
			return domain.Order{}, ErrSelectionNotFound
		}

		return domain.Order{}, fmt.Errorf("s.selections.Redeem -> %w", err)
	}

	return s.CreateDraft(ctx, userID, offerID, 0)
}

// CreateDraft is the single entry point for putting an offer in the
// cart. Quantity counts packs of the offer; zero or less defaults to
// the offer's capacity, the quantity a plain offer selection carries.
// An explicit quantity is clamped to at least one pack. Any previous
// draft of the user is canceled in the same transaction.
func (s *OrderService) CreateDraft(ctx context.Context, userID, offerID uint, quantity int) (domain.Order, error) {
	offer, err := s.offerRepo.FindByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, repository.ErrOfferNotFound) {
			return domain.Order{}, ErrOfferNotFound
		}

		return domain.Order{}, fmt.Errorf("s.offerRepo.FindByID -> %w", err)
	}

	if quantity < 1 {
		quantity = offer.NbrTicket
	}
	if quantity < 1 {
		quantity = 1
	}

	order, err := s.repo.CreateDraft(ctx, domain.Order{
		UserID:   userID,
		OfferID:  offer.ID,
		Quantity: quantity,
		Status:   domain.OrderDraft,
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("s.repo.CreateDraft -> %w", err)
	}

	return order, nil
}

// CancelOrder cancels the caller's own draft. Orders of other users
// surface as not found; paid orders are final.
func (s *OrderService) CancelOrder(ctx context.Context, userID, orderID uint) error {
	err := s.repo.CancelDraft(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		if errors.Is(err, repository.ErrOrderNotDraft) {
			return ErrOrderNotDraft
		}

		return fmt.Errorf("s.repo.CancelDraft -> %w", err)
	}

	return nil
}

// UserOrders groups a user's open cart and paid history.
type UserOrders struct {
	Cart []domain.OrderLine `json:"cart"`
	Paid []domain.OrderLine `json:"paid"`
}

func (s *OrderService) ListOrders(ctx context.Context, userID uint) (UserOrders, error) {
	cart, err := s.repo.ListByUserAndStatus(ctx, userID, domain.OrderDraft)
	if err != nil {
		return UserOrders{}, fmt.Errorf("s.repo.ListByUserAndStatus(draft) -> %w", err)
	}

	paid, err := s.repo.ListByUserAndStatus(ctx, userID, domain.OrderPaid)
	if err != nil {
		return UserOrders{}, fmt.Errorf("s.repo.ListByUserAndStatus(paid) -> %w", err)
	}

	return UserOrders{Cart: cart, Paid: paid}, nil
}

// ListAllOrders pages through every order of a status for the admin
// listing. Unknown statuses fall back to paid, the dashboard's default
// view.
func (s *OrderService) ListAllOrders(ctx context.Context, status domain.OrderStatus, page int) ([]domain.OrderLine, bool, error) {
	switch status {
	case domain.OrderDraft, domain.OrderPaid, domain.OrderCanceled:
	default:
		status = domain.OrderPaid
	}

	if page < 1 {
		page = 1
	}
	offset := (page - 1) * PageSize

	lines, err := s.repo.ListByStatus(ctx, status, PageSize+1, offset)
	if err != nil {
		return nil, false, fmt.Errorf("s.repo.ListByStatus -> %w", err)
	}

	hasNext := len(lines) > PageSize
	if hasNext {
		lines = lines[:PageSize]
	}

	return lines, hasNext, nil
}
