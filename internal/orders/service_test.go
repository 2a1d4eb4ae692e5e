package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gaonbazar/gaonbazar-backend/internal/cart"
	"github.com/gaonbazar/gaonbazar-backend/pkg/db"
	"github.com/gaonbazar/gaonbazar-backend/pkg/db/models"
	"github.com/gaonbazar/gaonbazar-backend/pkg/enums"
	pkgerrors "github.com/gaonbazar/gaonbazar-backend/pkg/errors"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, conn.AutoMigrate(models.All()...))
	return conn
}

var fixedNow = time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := setupOrdersTestDB(t)
	svc, err := NewService(ServiceParams{
		Repo: NewRepository(conn),
		Tx:   db.NewFromGorm(conn),
		Now:  func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return svc, conn
}

func filledCart(t *testing.T) *cart.Store {
	t.Helper()
	store := cart.NewStore()
	five, three, two := 5, 3, 2
	twenty, fifteen := decimal.NewFromInt(20), decimal.NewFromInt(15)
	require.NoError(t, store.AddItem(cart.Candidate{ID: "tomato", Name: "Tomato", UnitPrice: &twenty, Quantity: &five}))
	require.NoError(t, store.AddItem(cart.Candidate{ID: "tomato", Quantity: &three}))
	require.NoError(t, store.AddItem(cart.Candidate{ID: "onion", UnitPrice: &fifteen, Quantity: &two}))
	return store
}

func TestCheckoutPersistsOrder(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	conf, err := svc.Checkout(ctx, "session-1", filledCart(t).Snapshot())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, conf.OrderID)
	assert.Equal(t, ConfirmationMessage, conf.Message)
	assert.Equal(t, enums.OrderSourceCart, conf.Source)
	assert.True(t, conf.Total.Equal(decimal.NewFromInt(190)), "got %s", conf.Total)
	assert.Equal(t, 2, conf.ItemCount)
	assert.True(t, conf.CreatedAt.Equal(fixedNow))

	var stored models.Order
	require.NoError(t, conn.First(&stored, "id = ?", conf.OrderID).Error)
	require.NotNil(t, stored.SessionID)
	assert.Equal(t, "session-1", *stored.SessionID)

	got, err := svc.Get(ctx, conf.OrderID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, got.Status)
	require.Len(t, got.Items, 2)

	byID := map[string]OrderLineDTO{}
	for _, item := range got.Items {
		byID[item.ItemID] = item
	}
	assert.Equal(t, 8, byID["tomato"].Quantity)
	assert.True(t, byID["tomato"].Subtotal.Equal(decimal.NewFromInt(160)))
	assert.Equal(t, "onion", byID["onion"].Name, "unnamed lines fall back to their id")
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	svc, conn := newTestService(t)

	_, err := svc.Checkout(context.Background(), "s", cart.NewStore().Snapshot())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	var count int64
	require.NoError(t, conn.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPlaceDirect(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	conf, err := svc.PlaceDirect(ctx, DirectOrderInput{Crop: "tomato", Quantity: 25})
	require.NoError(t, err)
	assert.Equal(t, ConfirmationMessage, conf.Message)
	assert.Equal(t, "tomato", conf.Crop)
	assert.Equal(t, 25, conf.Quantity)
	assert.Equal(t, enums.OrderSourceDirect, conf.Source)
	assert.True(t, conf.Total.Equal(decimal.NewFromInt(375)), "25 kg at 15/kg, got %s", conf.Total)

	got, err := svc.Get(ctx, conf.OrderID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "tomato", got.Items[0].ItemID)
}

func TestPlaceDirectValidates(t *testing.T) {
	svc, _ := newTestService(t)

	for _, in := range []DirectOrderInput{{Crop: "", Quantity: 1}, {Crop: "rice", Quantity: 0}, {Crop: "rice", Quantity: -2}} {
		_, err := svc.PlaceDirect(context.Background(), in)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "%+v", in)
	}
}

func TestGetUnknownOrder(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background(), uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.Get(context.Background(), uuid.Nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

type stubRepo struct {
	createErr error
	created   []*models.Order
}

func (s *stubRepo) WithTx(*gorm.DB) Repository { return s }

func (s *stubRepo) CreateOrder(_ context.Context, order *models.Order) (*models.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = append(s.created, order)
	return order, nil
}

func (s *stubRepo) CreateOrderLineItems(context.Context, []models.OrderLineItem) error { return nil }

func (s *stubRepo) FindOrder(context.Context, uuid.UUID) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

func TestCheckoutSurfacesStorageFailure(t *testing.T) {
	repo := &stubRepo{createErr: errors.New("disk full")}
	svc, err := NewService(ServiceParams{Repo: repo, Tx: stubTx{}})
	require.NoError(t, err)

	_, err = svc.Checkout(context.Background(), "s", filledCart(t).Snapshot())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
	_, err = NewService(ServiceParams{Repo: &stubRepo{}})
	require.Error(t, err)
}
