package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jo-france/reservation-api/internal/domain"
)

func newOrderFixture(t *testing.T) (*memStore, *OrderService, domain.User, domain.Offer) {
	t.Helper()
	ctx := context.Background()
	store := newMemStore()

	user, err := store.Create(ctx, domain.User{Email: "fan@example.com", Key1: "0123456789abcdef0123456789abcdef"})
	require.NoError(t, err)

	offer, err := store.offerRepo().Create(ctx, domain.Offer{Name: "duo", NbrTicket: 2, Prix: 100})
	require.NoError(t, err)

	svc := NewOrderService(store.orderRepo(), store.offerRepo(), newMemSelections())

	return store, svc, user, offer
}

func TestOrderServiceCreateDraft(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults quantity to the offer capacity", func(t *testing.T) {
		_, svc, user, offer := newOrderFixture(t)

		order, err := svc.CreateDraft(ctx, user.ID, offer.ID, 0)
		require.NoError(t, err)

		assert.Equal(t, domain.OrderDraft, order.Status)
		assert.Equal(t, offer.NbrTicket, order.Quantity)
	})

	t.Run("keeps an explicit quantity", func(t *testing.T) {
		_, svc, user, offer := newOrderFixture(t)

		order, err := svc.CreateDraft(ctx, user.ID, offer.ID, 5)
		require.NoError(t, err)
		assert.Equal(t, 5, order.Quantity)
	})

	t.Run("rejects an unknown offer", func(t *testing.T) {
		_, svc, user, _ := newOrderFixture(t)

		_, err := svc.CreateDraft(ctx, user.ID, 999, 1)
		assert.ErrorIs(t, err, ErrOfferNotFound)
	})

	t.Run("a new draft cancels the previous one", func(t *testing.T) {
		store, svc, user, offer := newOrderFixture(t)

		first, err := svc.CreateDraft(ctx, user.ID, offer.ID, 1)
		require.NoError(t, err)
		second, err := svc.CreateDraft(ctx, user.ID, offer.ID, 3)
		require.NoError(t, err)

		count, err := store.orderRepo().CountDraftsByUser(ctx, user.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)

		old, err := store.orderRepo().FindByIDAndUser(ctx, first.ID, user.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderCanceled, old.Status)

		current, err := store.orderRepo().FindByIDAndUser(ctx, second.ID, user.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderDraft, current.Status)
	})

	t.Run("drafts of other users survive", func(t *testing.T) {
		store, svc, user, offer := newOrderFixture(t)

		other, err := store.Create(ctx, domain.User{Email: "other@example.com"})
		require.NoError(t, err)

		_, err = svc.CreateDraft(ctx, other.ID, offer.ID, 1)
		require.NoError(t, err)
		_, err = svc.CreateDraft(ctx, user.ID, offer.ID, 1)
		require.NoError(t, err)

		count, err := store.orderRepo().CountDraftsByUser(ctx, other.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})
}

func TestOrderServiceCancelOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("cancels own draft", func(t *testing.T) {
		store, svc, user, offer := newOrderFixture(t)

		order, err := svc.CreateDraft(ctx, user.ID, offer.ID, 1)
		require.NoError(t, err)

		require.NoError(t, svc.CancelOrder(ctx, user.ID, order.ID))

		canceled, err := store.orderRepo().FindByIDAndUser(ctx, order.ID, user.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderCanceled, canceled.Status)
	})

	t.Run("someone else's order reads as not found", func(t *testing.T) {
		store, svc, user, offer := newOrderFixture(t)

		order, err := svc.CreateDraft(ctx, user.ID, offer.ID, 1)
		require.NoError(t, err)

		intruder, err := store.Create(ctx, domain.User{Email: "intruder@example.com"})
		require.NoError(t, err)

		err = svc.CancelOrder(ctx, intruder.ID, order.ID)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("paid orders are final", func(t *testing.T) {
		store, svc, user, offer := newOrderFixture(t)

		order, err := svc.CreateDraft(ctx, user.ID, offer.ID, 1)
		require.NoError(t, err)
		_, err = store.paymentRepo().CreateForOrder(ctx, domain.Payment{OrderID: order.ID})
		require.NoError(t, err)

		err = svc.CancelOrder(ctx, user.ID, order.ID)
		assert.ErrorIs(t, err, ErrOrderNotDraft)
	})
}

func TestOrderServiceSelections(t *testing.T) {
	ctx := context.Background()

	t.Run("stash then redeem builds the draft", func(t *testing.T) {
		_, svc, user, offer := newOrderFixture(t)

		token, err := svc.StashSelection(ctx, offer.ID)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		order, err := svc.RedeemSelection(ctx, user.ID, token)
		require.NoError(t, err)
		assert.Equal(t, offer.ID, order.OfferID)
		assert.Equal(t, offer.NbrTicket, order.Quantity)
	})

	t.Run("tokens are single use", func(t *testing.T) {
		_, svc, user, offer := newOrderFixture(t)

		token, err := svc.StashSelection(ctx, offer.ID)
		require.NoError(t, err)

		_, err = svc.RedeemSelection(ctx, user.ID, token)
		require.NoError(t, err)

		_, err = svc.RedeemSelection(ctx, user.ID, token)
		assert.ErrorIs(t, err, ErrSelectionNotFound)
	})

	t.Run("stash refuses an unknown offer", func(t *testing.T) {
		_, svc, _, _ := newOrderFixture(t)

		_, err := svc.StashSelection(ctx, 999)
		assert.ErrorIs(t, err, ErrOfferNotFound)
	})
}

func TestOrderServiceListOrders(t *testing.T) {
	ctx := context.Background()
	store, svc, user, offer := newOrderFixture(t)

	paidOrder, err := svc.CreateDraft(ctx, user.ID, offer.ID, 1)
	require.NoError(t, err)
	_, err = store.paymentRepo().CreateForOrder(ctx, domain.Payment{OrderID: paidOrder.ID, FinalKey: "ff00"})
	require.NoError(t, err)

	draft, err := svc.CreateDraft(ctx, user.ID, offer.ID, 2)
	require.NoError(t, err)

	orders, err := svc.ListOrders(ctx, user.ID)
	require.NoError(t, err)

	require.Len(t, orders.Cart, 1)
	assert.Equal(t, draft.ID, orders.Cart[0].ID)
	assert.Equal(t, offer.Name, orders.Cart[0].OfferName)

	require.Len(t, orders.Paid, 1)
	assert.Equal(t, paidOrder.ID, orders.Paid[0].ID)
	assert.Equal(t, "ff00", orders.Paid[0].FinalKey)
	assert.Equal(t, offer.Prix*1, orders.Paid[0].Total())
}

func TestOrderServiceListAllOrders(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()

	offer, err := store.offerRepo().Create(ctx, domain.Offer{Name: "solo", NbrTicket: 1, Prix: 50})
	require.NoError(t, err)

	svc := NewOrderService(store.orderRepo(), store.offerRepo(), newMemSelections())

	// One paid order per user so nothing cancels anything.
	for i := 0; i < PageSize+3; i++ {
		user, err := store.Create(ctx, domain.User{Email: fmt.Sprintf("u%d@example.com", i)})
		require.NoError(t, err)
		order, err := svc.CreateDraft(ctx, user.ID, offer.ID, 1)
		require.NoError(t, err)
		_, err = store.paymentRepo().CreateForOrder(ctx, domain.Payment{OrderID: order.ID})
		require.NoError(t, err)
	}

	t.Run("first page is full and has a next page", func(t *testing.T) {
		lines, hasNext, err := svc.ListAllOrders(ctx, domain.OrderPaid, 1)
		require.NoError(t, err)
		assert.Len(t, lines, PageSize)
		assert.True(t, hasNext)
	})

	t.Run("last page holds the remainder", func(t *testing.T) {
		lines, hasNext, err := svc.ListAllOrders(ctx, domain.OrderPaid, 2)
		require.NoError(t, err)
		assert.Len(t, lines, 3)
		assert.False(t, hasNext)
	})

	t.Run("unknown status falls back to paid", func(t *testing.T) {
		lines, _, err := svc.ListAllOrders(ctx, "shipped", 1)
		require.NoError(t, err)
		assert.Len(t, lines, PageSize)
	})

	t.Run("no canceled orders exist", func(t *testing.T) {
		lines, hasNext, err := svc.ListAllOrders(ctx, domain.OrderCanceled, 1)
		require.NoError(t, err)
		assert.Empty(t, lines)
		assert.False(t, hasNext)
	})
}
