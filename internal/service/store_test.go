package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jo-france/reservation-api/internal/domain"
	"github.com/jo-france/reservation-api/internal/repository"
)

// memStore is an in-memory stand-in for the postgres-backed
// repositories. It reproduces their observable contract: sentinel
// errors, the atomic cancel-then-insert of draft creation, the status
// guard on payment and the soft-delete visibility rules for offers.
type memStore struct {
	users         map[uint]domain.User
	offers        map[uint]domain.Offer
	deletedOffers map[uint]domain.Offer
	orders        map[uint]domain.Order
	payments      map[uint]domain.Payment
	nextID        uint
}

func newMemStore() *memStore {
	return &memStore{
		users:         make(map[uint]domain.User),
		offers:        make(map[uint]domain.Offer),
		deletedOffers: make(map[uint]domain.Offer),
		orders:        make(map[uint]domain.Order),
		payments:      make(map[uint]domain.Payment),
	}
}

func (m *memStore) id() uint {
	m.nextID++
	return m.nextID
}

// --- user repository ---

func (m *memStore) Create(_ context.Context, user domain.User) (domain.User, error) {
	for _, u := range m.users {
		if u.Email == user.Email {
			return domain.User{}, repository.ErrUserEmailExists
		}
	}

	user.ID = m.id()
	user.CreatedAt = time.Now()
	m.users[user.ID] = user

	return user, nil
}

func (m *memStore) FindByID(_ context.Context, id uint) (domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return user, nil
}

func (m *memStore) FindByEmail(_ context.Context, email string) (domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}

	return domain.User{}, repository.ErrUserNotFound
}

func (m *memStore) List(_ context.Context, limit, offset int) ([]domain.User, error) {
	ids := make([]int, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)

	var users []domain.User
	for i := offset; i < len(ids) && len(users) < limit; i++ {
		users = append(users, m.users[uint(ids[i])])
	}

	return users, nil
}

// --- offer repository ---

type memOffers struct{ *memStore }

func (m *memStore) offerRepo() *memOffers { return &memOffers{m} }

func (m *memOffers) Create(_ context.Context, offer domain.Offer) (domain.Offer, error) {
	offer.ID = m.id()
	offer.CreatedAt = time.Now()
	m.offers[offer.ID] = offer

	return offer, nil
}

func (m *memOffers) FindByID(_ context.Context, id uint) (domain.Offer, error) {
	offer, ok := m.offers[id]
	if !ok {
		return domain.Offer{}, repository.ErrOfferNotFound
	}

	return offer, nil
}

func (m *memOffers) List(_ context.Context) ([]domain.Offer, error) {
	ids := make([]int, 0, len(m.offers))
	for id := range m.offers {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)

	offers := make([]domain.Offer, 0, len(ids))
	for _, id := range ids {
		offers = append(offers, m.offers[uint(id)])
	}

	return offers, nil
}

func (m *memOffers) Delete(_ context.Context, id uint) error {
	offer, ok := m.offers[id]
	if !ok {
		return repository.ErrOfferNotFound
	}

	m.deletedOffers[id] = offer
	delete(m.offers, id)

	return nil
}

func (m *memOffers) Stats(_ context.Context) ([]domain.OfferStats, error) {
	byOffer := make(map[uint]*domain.OfferStats)
	addOffer := func(offer domain.Offer) {
		byOffer[offer.ID] = &domain.OfferStats{
			OfferID:   offer.ID,
			Name:      offer.Name,
			NbrTicket: offer.NbrTicket,
			Prix:      offer.Prix,
		}
	}
	for _, offer := range m.offers {
		addOffer(offer)
	}
	for _, offer := range m.deletedOffers {
		addOffer(offer)
	}

	for _, order := range m.orders {
		if order.Status != domain.OrderPaid {
			continue
		}
		stats, ok := byOffer[order.OfferID]
		if !ok {
			continue
		}
		stats.TotalPacks += order.Quantity
		stats.TotalPersons += order.Quantity * stats.NbrTicket
		stats.TotalTurnover += float64(order.Quantity) * stats.Prix
	}

	ids := make([]int, 0, len(byOffer))
	for id := range byOffer {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)

	out := make([]domain.OfferStats, 0, len(ids))
	for _, id := range ids {
		out = append(out, *byOffer[uint(id)])
	}

	return out, nil
}

// --- order repository ---

type memOrders struct{ *memStore }

func (m *memStore) orderRepo() *memOrders { return &memOrders{m} }

func (m *memOrders) CreateDraft(_ context.Context, order domain.Order) (domain.Order, error) {
	for id, o := range m.orders {
		if o.UserID == order.UserID && o.Status == domain.OrderDraft {
			o.Status = domain.OrderCanceled
			m.orders[id] = o
		}
	}

	order.ID = m.id()
	order.Status = domain.OrderDraft
	order.CreatedAt = time.Now()
	m.orders[order.ID] = order

	return order, nil
}

func (m *memOrders) FindByIDAndUser(_ context.Context, id, userID uint) (domain.Order, error) {
	order, ok := m.orders[id]
	if !ok || order.UserID != userID {
		return domain.Order{}, repository.ErrOrderNotFound
	}

	return order, nil
}

func (m *memOrders) CancelDraft(_ context.Context, id, userID uint) error {
	order, ok := m.orders[id]
	if !ok || order.UserID != userID {
		return repository.ErrOrderNotFound
	}
	if order.Status != domain.OrderDraft {
		return repository.ErrOrderNotDraft
	}

	order.Status = domain.OrderCanceled
	m.orders[id] = order

	return nil
}

func (m *memOrders) line(order domain.Order) domain.OrderLine {
	offer, ok := m.offers[order.OfferID]
	if !ok {
		offer = m.deletedOffers[order.OfferID]
	}

	line := domain.OrderLine{
		Order:     order,
		OfferName: offer.Name,
		NbrTicket: offer.NbrTicket,
		Prix:      offer.Prix,
	}
	if user, ok := m.users[order.UserID]; ok {
		line.UserEmail = user.Email
	}
	for _, p := range m.payments {
		if p.OrderID == order.ID {
			line.FinalKey = p.FinalKey
		}
	}

	return line
}

func (m *memOrders) sortedOrders() []domain.Order {
	ids := make([]int, 0, len(m.orders))
	for id := range m.orders {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)

	orders := make([]domain.Order, 0, len(ids))
	for _, id := range ids {
		orders = append(orders, m.orders[uint(id)])
	}

	return orders
}

func (m *memOrders) ListByUserAndStatus(_ context.Context, userID uint, status domain.OrderStatus) ([]domain.OrderLine, error) {
	var lines []domain.OrderLine
	for _, order := range m.sortedOrders() {
		if order.UserID == userID && order.Status == status {
			lines = append(lines, m.line(order))
		}
	}

	return lines, nil
}

func (m *memOrders) ListByStatus(_ context.Context, status domain.OrderStatus, limit, offset int) ([]domain.OrderLine, error) {
	var matched []domain.Order
	for _, order := range m.sortedOrders() {
		if order.Status == status {
			matched = append(matched, order)
		}
	}

	var lines []domain.OrderLine
	for i := offset; i < len(matched) && len(lines) < limit; i++ {
		lines = append(lines, m.line(matched[i]))
	}

	return lines, nil
}

func (m *memOrders) CountDraftsByUser(_ context.Context, userID uint) (int64, error) {
	var count int64
	for _, order := range m.orders {
		if order.UserID == userID && order.Status == domain.OrderDraft {
			count++
		}
	}

	return count, nil
}

// --- payment repository ---

type memPayments struct{ *memStore }

func (m *memStore) paymentRepo() *memPayments { return &memPayments{m} }

func (m *memPayments) CreateForOrder(_ context.Context, payment domain.Payment) (domain.Payment, error) {
	order, ok := m.orders[payment.OrderID]
	if !ok || order.Status != domain.OrderDraft {
		return domain.Payment{}, repository.ErrOrderNotPayable
	}
	for _, p := range m.payments {
		if p.OrderID == payment.OrderID {
			return domain.Payment{}, repository.ErrPaymentExists
		}
	}

	order.Status = domain.OrderPaid
	m.orders[order.ID] = order

	payment.ID = m.id()
	payment.CreatedAt = time.Now()
	m.payments[payment.ID] = payment

	return payment, nil
}

func (m *memPayments) FindByOrderID(_ context.Context, orderID uint) (domain.Payment, error) {
	for _, p := range m.payments {
		if p.OrderID == orderID {
			return p, nil
		}
	}

	return domain.Payment{}, repository.ErrOrderNotFound
}

// --- selection store ---

type memSelections struct {
	stash  map[string]uint
	nextID int
}

func newMemSelections() *memSelections {
	return &memSelections{stash: make(map[string]uint)}
}

func (m *memSelections) Stash(_ context.Context, offerID uint) (string, error) {
	m.nextID++
	token := fmt.Sprintf("token-%d", m.nextID)
	m.stash[token] = offerID

	return token, nil
}

func (m *memSelections) Redeem(_ context.Context, token string) (uint, error) {
	offerID, ok := m.stash[token]
	if !ok {
		return 0, repository.ErrSelectionNotFound
	}
	delete(m.stash, token)

	return offerID, nil
}
