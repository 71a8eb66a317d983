package service

import (
	"context"
	"fmt"
	"time"

	"orders-query-service/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderRepository interface {
	All(ctx context.Context, skip, limit int64) ([]model.OrderSummary, error)
	ByUser(ctx context.Context, userID string, skip, limit int64) ([]model.OrderSummary, error)
	ByID(ctx context.Context, id primitive.ObjectID) (*model.OrderDetailed, error)
	Owner(ctx context.Context, id primitive.ObjectID) (string, error)
	UserExists(ctx context.Context, id primitive.ObjectID) (bool, error)
	InProgressByUser(ctx context.Context, userID string) (*model.InProgressOrder, error)
	TotalSalesByStatus(ctx context.Context) ([]model.SalesByStatusRow, error)
	AvgSalesByUser(ctx context.Context) ([]model.AvgSalesByUserRow, error)
	CountByStatus(ctx context.Context) ([]model.OrderCountByStatusRow, error)
	InsertOrder(ctx context.Context, o *model.Order) (primitive.ObjectID, error)
	AppendStatusRecord(ctx context.Context, r *model.OrderStatusRecord) error
	InsertOrderDetails(ctx context.Context, ds []model.OrderDetail) error
}

// PlacedItem es un renglón del carrito que dispara el alta.
type PlacedItem struct {
	ProductID string
	Quantity  int
}

// OrderService resuelve las consultas de lectura sobre órdenes y el
// alta de órdenes que dispara el consumer de rabbit.
type OrderService struct {
	repo     OrderRepository
	statuses StatusRepository
}

func NewOrderService(r OrderRepository, st StatusRepository) *OrderService {
	return &OrderService{repo: r, statuses: st}
}

func (s *OrderService) GetAll(ctx context.Context, skip, limit int64) ([]model.OrderSummary, error) {
	res, err := s.repo.All(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("listando órdenes: %w", err)
	}
	return res, nil
}

func (s *OrderService) GetByUser(ctx context.Context, userID string, skip, limit int64) ([]model.OrderSummary, error) {
	if _, err := primitive.ObjectIDFromHex(userID); err != nil {
		return nil, ErrInvalidID
	}
	res, err := s.repo.ByUser(ctx, userID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("listando órdenes del usuario %s: %w", userID, err)
	}
	return res, nil
}

func (s *OrderService) GetByID(ctx context.Context, orderID string) (*model.OrderDetailed, error) {
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, ErrInvalidID
	}
	res, err := s.repo.ByID(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("buscando orden %s: %w", orderID, err)
	}
	if res == nil {
		return nil, ErrNotFound
	}
	return res, nil
}

// Owner devuelve el id del usuario dueño de la orden, para que el
// controller decida si el que pregunta puede verla.
func (s *OrderService) Owner(ctx context.Context, orderID string) (string, error) {
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return "", ErrInvalidID
	}
	owner, err := s.repo.Owner(ctx, oid)
	if err != nil {
		return "", fmt.Errorf("buscando dueño de la orden %s: %w", orderID, err)
	}
	if owner == "" {
		return "", ErrNotFound
	}
	return owner, nil
}

func (s *OrderService) ValidateUserExists(ctx context.Context, userID string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return false, ErrInvalidID
	}
	exists, err := s.repo.UserExists(ctx, oid)
	if err != nil {
		return false, fmt.Errorf("validando usuario %s: %w", userID, err)
	}
	return exists, nil
}

// ExistingInProgress busca la orden del usuario cuyo estado actual
// (el registro de historial más reciente) es "inprogress". Devuelve
// nil si no hay ninguna. Solo lee: la regla de una-orden-en-curso la
// hace cumplir quien llama.
func (s *OrderService) ExistingInProgress(ctx context.Context, userID string) (*model.InProgressOrder, error) {
	if _, err := primitive.ObjectIDFromHex(userID); err != nil {
		return nil, ErrInvalidID
	}
	res, err := s.repo.InProgressByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("buscando orden en curso del usuario %s: %w", userID, err)
	}
	return res, nil
}

// Reportes agregados.

func (s *OrderService) TotalSalesByStatus(ctx context.Context) ([]model.SalesByStatusRow, error) {
	res, err := s.repo.TotalSalesByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("reporte de ventas por estado: %w", err)
	}
	return res, nil
}

func (s *OrderService) AvgSalesByUser(ctx context.Context) ([]model.AvgSalesByUserRow, error) {
	res, err := s.repo.AvgSalesByUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("reporte de promedio por usuario: %w", err)
	}
	return res, nil
}

func (s *OrderService) CountByStatus(ctx context.Context) ([]model.OrderCountByStatusRow, error) {
	res, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("reporte de cantidad por estado: %w", err)
	}
	return res, nil
}

// PlaceOrder da de alta una orden nueva en estado "inprogress" con su
// primer registro de historial y sus detalles. Rechaza el alta si el
// usuario no existe o si ya tiene una orden en curso.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, subtotal, taxes, discount, total float64, items []PlacedItem) (*model.Order, error) {
	exists, err := s.ValidateUserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	inProgress, err := s.ExistingInProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	if inProgress != nil {
		return nil, ErrOrderInProgress
	}

	status, err := s.statuses.FindByDescription(ctx, "inprogress", primitive.NilObjectID)
	if err != nil {
		return nil, fmt.Errorf("buscando estado inprogress: %w", err)
	}
	if status == nil {
		return nil, fmt.Errorf("estado inprogress ausente del catálogo: %w", ErrNotFound)
	}

	now := time.Now().UTC()
	order := &model.Order{
		UserID:        userID,
		OrderStatusID: status.ID.Hex(),
		Date:          now,
		Subtotal:      subtotal,
		Taxes:         taxes,
		Discount:      discount,
		Total:         total,
	}

	orderID, err := s.repo.InsertOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("insertando orden: %w", err)
	}
	order.ID = orderID

	record := &model.OrderStatusRecord{
		OrderID:  orderID.Hex(),
		StatusID: status.ID.Hex(),
		Date:     now,
	}
	if err := s.repo.AppendStatusRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("registrando estado inicial de la orden %s: %w", orderID.Hex(), err)
	}

	if len(items) > 0 {
		details := make([]model.OrderDetail, len(items))
		for i, item := range items {
			details[i] = model.OrderDetail{
				OrderID:     orderID.Hex(),
				ProductID:   item.ProductID,
				Quantity:    item.Quantity,
				Active:      true,
				DateCreated: now,
				DateUpdated: now,
			}
		}
		if err := s.repo.InsertOrderDetails(ctx, details); err != nil {
			return nil, fmt.Errorf("insertando detalles de la orden %s: %w", orderID.Hex(), err)
		}
	}

	return order, nil
}
