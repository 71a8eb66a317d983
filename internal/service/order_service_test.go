package service

import (
	"context"
	"testing"

	"orders-query-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeOrderRepo struct {
	calls      int
	users      map[primitive.ObjectID]bool
	orders     map[primitive.ObjectID]*model.Order
	records    []*model.OrderStatusRecord
	details    []model.OrderDetail
	inProgress map[string]*model.InProgressOrder
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		users:      map[primitive.ObjectID]bool{},
		orders:     map[primitive.ObjectID]*model.Order{},
		inProgress: map[string]*model.InProgressOrder{},
	}
}

func (f *fakeOrderRepo) All(ctx context.Context, skip, limit int64) ([]model.OrderSummary, error) {
	f.calls++
	return nil, nil
}

func (f *fakeOrderRepo) ByUser(ctx context.Context, userID string, skip, limit int64) ([]model.OrderSummary, error) {
	f.calls++
	return nil, nil
}

func (f *fakeOrderRepo) ByID(ctx context.Context, id primitive.ObjectID) (*model.OrderDetailed, error) {
	f.calls++
	o, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	return &model.OrderDetailed{ID: id.Hex(), UserID: o.UserID, Total: o.Total}, nil
}

func (f *fakeOrderRepo) Owner(ctx context.Context, id primitive.ObjectID) (string, error) {
	f.calls++
	o, ok := f.orders[id]
	if !ok {
		return "", nil
	}
	return o.UserID, nil
}

func (f *fakeOrderRepo) UserExists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	f.calls++
	return f.users[id], nil
}

func (f *fakeOrderRepo) InProgressByUser(ctx context.Context, userID string) (*model.InProgressOrder, error) {
	f.calls++
	return f.inProgress[userID], nil
}

func (f *fakeOrderRepo) TotalSalesByStatus(ctx context.Context) ([]model.SalesByStatusRow, error) {
	f.calls++
	return nil, nil
}

func (f *fakeOrderRepo) AvgSalesByUser(ctx context.Context) ([]model.AvgSalesByUserRow, error) {
	f.calls++
	return nil, nil
}

func (f *fakeOrderRepo) CountByStatus(ctx context.Context) ([]model.OrderCountByStatusRow, error) {
	f.calls++
	return nil, nil
}

func (f *fakeOrderRepo) InsertOrder(ctx context.Context, o *model.Order) (primitive.ObjectID, error) {
	f.calls++
	id := primitive.NewObjectID()
	cp := *o
	cp.ID = id
	f.orders[id] = &cp
	return id, nil
}

func (f *fakeOrderRepo) AppendStatusRecord(ctx context.Context, r *model.OrderStatusRecord) error {
	f.calls++
	f.records = append(f.records, r)
	return nil
}

func (f *fakeOrderRepo) InsertOrderDetails(ctx context.Context, ds []model.OrderDetail) error {
	f.calls++
	f.details = append(f.details, ds...)
	return nil
}

func newOrderServiceForTest() (*OrderService, *fakeOrderRepo, *fakeStatusRepo) {
	orders := newFakeOrderRepo()
	statuses := newFakeStatusRepo()
	return NewOrderService(orders, statuses), orders, statuses
}

func TestOrderQueriesRejectMalformedIDs(t *testing.T) {
	ctx := context.Background()

	for name, op := range map[string]func(*OrderService) error{
		"GetByUser": func(s *OrderService) error {
			_, err := s.GetByUser(ctx, "zzz", 0, 10)
			return err
		},
		"GetByID": func(s *OrderService) error {
			_, err := s.GetByID(ctx, "zzz")
			return err
		},
		"Owner": func(s *OrderService) error {
			_, err := s.Owner(ctx, "zzz")
			return err
		},
		"ValidateUserExists": func(s *OrderService) error {
			_, err := s.ValidateUserExists(ctx, "zzz")
			return err
		},
		"ExistingInProgress": func(s *OrderService) error {
			_, err := s.ExistingInProgress(ctx, "zzz")
			return err
		},
	} {
		svc, orders, _ := newOrderServiceForTest()

		err := op(svc)
		assert.ErrorIs(t, err, ErrInvalidID, name)
		assert.Zero(t, orders.calls, "%s con id inválido no debe tocar el store", name)
	}
}

func TestGetOrderByIDNotFound(t *testing.T) {
	svc, _, _ := newOrderServiceForTest()

	_, err := svc.GetByID(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOwnerNotFoundForUnknownOrder(t *testing.T) {
	svc, _, _ := newOrderServiceForTest()

	_, err := svc.Owner(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExistingInProgressNilWhenUserHasNone(t *testing.T) {
	svc, _, _ := newOrderServiceForTest()

	res, err := svc.ExistingInProgress(context.Background(), primitive.NewObjectID().Hex())
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestPlaceOrderRejectsUnknownUser(t *testing.T) {
	svc, _, _ := newOrderServiceForTest()

	_, err := svc.PlaceOrder(context.Background(), primitive.NewObjectID().Hex(), 100, 21, 0, 121, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlaceOrderRejectsSecondInProgress(t *testing.T) {
	svc, orders, _ := newOrderServiceForTest()
	ctx := context.Background()

	userID := primitive.NewObjectID()
	orders.users[userID] = true
	orders.inProgress[userID.Hex()] = &model.InProgressOrder{
		ID: primitive.NewObjectID().Hex(), UserID: userID.Hex(), Status: "inprogress",
	}

	_, err := svc.PlaceOrder(ctx, userID.Hex(), 100, 21, 0, 121, nil)
	assert.ErrorIs(t, err, ErrOrderInProgress)
	assert.Empty(t, orders.records, "no debe quedar historial de una orden rechazada")
}

func TestPlaceOrderCreatesOrderAndFirstRecord(t *testing.T) {
	svc, orders, statuses := newOrderServiceForTest()
	ctx := context.Background()

	inprogress, err := NewOrderStatusService(statuses).Create(ctx, model.OrderStatus{
		Name: "In Progress", Description: "inprogress", Active: true,
	})
	require.NoError(t, err)

	userID := primitive.NewObjectID()
	orders.users[userID] = true

	order, err := svc.PlaceOrder(ctx, userID.Hex(), 100, 21, 10, 111, []PlacedItem{
		{ProductID: primitive.NewObjectID().Hex(), Quantity: 2},
		{ProductID: primitive.NewObjectID().Hex(), Quantity: 1},
	})
	require.NoError(t, err)
	assert.False(t, order.ID.IsZero())
	assert.Equal(t, userID.Hex(), order.UserID)
	assert.Equal(t, inprogress.ID.Hex(), order.OrderStatusID)
	assert.Equal(t, 111.0, order.Total)

	// El alta deja exactamente un registro de historial, apuntando a
	// la orden y al estado inprogress, con la misma fecha de la orden.
	require.Len(t, orders.records, 1)
	record := orders.records[0]
	assert.Equal(t, order.ID.Hex(), record.OrderID)
	assert.Equal(t, inprogress.ID.Hex(), record.StatusID)
	assert.Equal(t, order.Date, record.Date)

	// Los renglones del carrito quedan como order_details activos.
	require.Len(t, orders.details, 2)
	for _, d := range orders.details {
		assert.Equal(t, order.ID.Hex(), d.OrderID)
		assert.True(t, d.Active)
	}
	assert.Equal(t, 2, orders.details[0].Quantity)
}

func TestPlaceOrderFailsWithoutCatalogStatus(t *testing.T) {
	svc, orders, _ := newOrderServiceForTest()
	ctx := context.Background()

	userID := primitive.NewObjectID()
	orders.users[userID] = true

	// Sin el estado "inprogress" en el catálogo no hay alta posible.
	_, err := svc.PlaceOrder(ctx, userID.Hex(), 100, 21, 0, 121, nil)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, orders.orders)
}
