package dao

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// testDB is set by TestMain when INTEGRATION=1 spins up a throwaway
// postgres container. Without it every test here skips, so the
// service-level suites stay runnable offline.
var testDB *gorm.DB

func TestMain(m *testing.M) {
	if os.Getenv("INTEGRATION") == "" {
		os.Exit(m.Run())
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("dockertest.NewPool: %v", err)
	}

	resource, err := pool.Run("postgres", "16-alpine", []string{
		"POSTGRES_PASSWORD=secret",
		"POSTGRES_DB=reservation_test",
	})
	if err != nil {
		log.Fatalf("pool.Run: %v", err)
	}

	if err = pool.Retry(func() error {
		dsn := fmt.Sprintf(
			"host=localhost port=%s user=postgres password=secret dbname=reservation_test sslmode=disable",
			resource.GetPort("5432/tcp"),
		)

		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return err
		}

		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err = sqlDB.Ping(); err != nil {
			return err
		}

		testDB = db

		return nil
	}); err != nil {
		log.Fatalf("could not connect to postgres: %v", err)
	}

	if err = InitTables(testDB); err != nil {
		log.Fatalf("InitTables: %v", err)
	}

	code := m.Run()

	if err = pool.Purge(resource); err != nil {
		log.Fatalf("pool.Purge: %v", err)
	}

	os.Exit(code)
}

func requireDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testDB == nil {
		t.Skip("set INTEGRATION=1 to run postgres-backed tests")
	}

	t.Cleanup(func() {
		testDB.Exec("TRUNCATE users, offers, orders, payments RESTART IDENTITY CASCADE")
	})

	return testDB
}

func seedUser(t *testing.T, db *gorm.DB, email string) User {
	t.Helper()
	user, err := NewUserDAO(db).Insert(context.Background(), User{
		Email:    email,
		Password: "x",
		Key1:     "0123456789abcdef0123456789abcdef",
	})
	require.NoError(t, err)

	return user
}

func seedOffer(t *testing.T, db *gorm.DB) Offer {
	t.Helper()
	offer, err := NewOfferDAO(db).Insert(context.Background(), Offer{
		Name:      "duo",
		NbrTicket: 2,
		Prix:      100,
	})
	require.NoError(t, err)

	return offer
}

func TestUserDAOUniqueEmail(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	dao := NewUserDAO(db)

	_, err := dao.Insert(ctx, User{Email: "dup@example.com", Password: "x", Key1: "k"})
	require.NoError(t, err)

	_, err = dao.Insert(ctx, User{Email: "dup@example.com", Password: "x", Key1: "k"})
	assert.ErrorIs(t, err, ErrUserEmailExists)
}

func TestOrderDAOInsertDraft(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	dao := NewOrderDAO(db)

	user := seedUser(t, db, "draft@example.com")
	offer := seedOffer(t, db)

	first, err := dao.InsertDraft(ctx, Order{UserID: user.ID, OfferID: offer.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = dao.InsertDraft(ctx, Order{UserID: user.ID, OfferID: offer.ID, Quantity: 2})
	require.NoError(t, err)

	count, err := dao.CountDraftsByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	old, err := dao.FindByIDAndUser(ctx, first.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "canceled", old.Status)
}

func TestOrderDAODraftIndexRejectsSecondDraft(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()

	user := seedUser(t, db, "index@example.com")
	offer := seedOffer(t, db)

	_, err := NewOrderDAO(db).InsertDraft(ctx, Order{UserID: user.ID, OfferID: offer.ID, Quantity: 1})
	require.NoError(t, err)

	// A writer bypassing InsertDraft still cannot slip in a second
	// draft: the partial unique index holds the invariant.
	second := Order{UserID: user.ID, OfferID: offer.ID, Quantity: 1, Status: "draft"}
	err = db.WithContext(ctx).Create(&second).Error
	assert.Error(t, err)
}

func TestOrderDAOCancelDraft(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	dao := NewOrderDAO(db)

	user := seedUser(t, db, "cancel@example.com")
	offer := seedOffer(t, db)

	order, err := dao.InsertDraft(ctx, Order{UserID: user.ID, OfferID: offer.ID, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, dao.CancelDraft(ctx, order.ID, user.ID))
	assert.ErrorIs(t, dao.CancelDraft(ctx, order.ID, user.ID), ErrOrderNotDraft)
	assert.ErrorIs(t, dao.CancelDraft(ctx, 999, user.ID), ErrOrderNotFound)

	other := seedUser(t, db, "cancel-other@example.com")
	fresh, err := dao.InsertDraft(ctx, Order{UserID: user.ID, OfferID: offer.ID, Quantity: 1})
	require.NoError(t, err)
	assert.ErrorIs(t, dao.CancelDraft(ctx, fresh.ID, other.ID), ErrOrderNotFound)
}

func TestPaymentDAOInsertForOrder(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	orders := NewOrderDAO(db)
	payments := NewPaymentDAO(db)

	user := seedUser(t, db, "pay@example.com")
	offer := seedOffer(t, db)

	order, err := orders.InsertDraft(ctx, Order{UserID: user.ID, OfferID: offer.ID, Quantity: 1})
	require.NoError(t, err)

	payment, err := payments.InsertForOrder(ctx, Payment{
		OrderID:     order.ID,
		AmountCents: 10000,
		Status:      "success",
		Key2:        "fedcba9876543210fedcba9876543210",
		FinalKey:    "ff00",
	})
	require.NoError(t, err)
	assert.NotZero(t, payment.ID)

	paid, err := orders.FindByIDAndUser(ctx, order.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.Status)

	_, err = payments.InsertForOrder(ctx, Payment{OrderID: order.ID, Status: "success"})
	assert.ErrorIs(t, err, ErrOrderNotPayable)

	found, err := payments.FindByOrderID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.FinalKey, found.FinalKey)
}

func TestOfferDAOSoftDelete(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	offers := NewOfferDAO(db)
	orders := NewOrderDAO(db)
	payments := NewPaymentDAO(db)

	user := seedUser(t, db, "history@example.com")
	offer := seedOffer(t, db)

	order, err := orders.InsertDraft(ctx, Order{UserID: user.ID, OfferID: offer.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = payments.InsertForOrder(ctx, Payment{OrderID: order.ID, Status: "success", Key2: "k2", FinalKey: "fk"})
	require.NoError(t, err)

	require.NoError(t, offers.Delete(ctx, offer.ID))

	_, err = offers.FindByID(ctx, offer.ID)
	assert.ErrorIs(t, err, ErrOfferNotFound)

	listed, err := offers.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)

	// Paid history keeps resolving the removed offer's attributes.
	rows, err := orders.ListByUserAndStatus(ctx, user.ID, "paid")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, offer.Name, rows[0].OfferName)
	assert.Equal(t, "fk", rows[0].FinalKey)
}

func TestOfferDAOStats(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	offers := NewOfferDAO(db)
	orders := NewOrderDAO(db)
	payments := NewPaymentDAO(db)

	offer := seedOffer(t, db)

	for _, email := range []string{"s1@example.com", "s2@example.com"} {
		user := seedUser(t, db, email)
		order, err := orders.InsertDraft(ctx, Order{UserID: user.ID, OfferID: offer.ID, Quantity: 1})
		require.NoError(t, err)
		_, err = payments.InsertForOrder(ctx, Payment{OrderID: order.ID, Status: "success", Key2: "k2", FinalKey: "fk"})
		require.NoError(t, err)
	}

	drafter := seedUser(t, db, "s3@example.com")
	_, err := orders.InsertDraft(ctx, Order{UserID: drafter.ID, OfferID: offer.ID, Quantity: 1})
	require.NoError(t, err)

	rows, err := offers.Stats(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, offer.ID, rows[0].OfferID)
	assert.Equal(t, 2, rows[0].TotalPacks)
	assert.Equal(t, 4, rows[0].TotalPersons)
	assert.InDelta(t, 200.0, rows[0].TotalTurnover, 0.001)
}
