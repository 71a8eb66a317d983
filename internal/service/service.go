package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"orders-query-service/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Errores de negocio exportados (los usa el controller)
var (
	ErrInvalidID       = errors.New("identificador inválido")
	ErrNotFound        = errors.New("no encontrado")
	ErrConflict        = errors.New("ya existe un estado con esa descripción")
	ErrOrderInProgress = errors.New("el usuario ya tiene una orden en curso")
)

// Interfaz que debe implementar repository
type StatusRepository interface {
	Insert(ctx context.Context, st *model.OrderStatus) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.OrderStatus, error)
	FindByDescription(ctx context.Context, description string, exclude primitive.ObjectID) (*model.OrderStatus, error)
	Update(ctx context.Context, id primitive.ObjectID, st *model.OrderStatus) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	All(ctx context.Context, skip, limit int64) ([]model.StatusView, error)
	WithOrders(ctx context.Context, id primitive.ObjectID) (*model.StatusWithOrders, error)
	Validate(ctx context.Context, id primitive.ObjectID) (*model.StatusView, error)
	Search(ctx context.Context, term string, skip, limit int64) ([]model.StatusView, error)
}

type OrderStatusService struct {
	repo StatusRepository
}

func NewOrderStatusService(r StatusRepository) *OrderStatusService {
	return &OrderStatusService{repo: r}
}

// normalizeDescription deja la descripción como clave de unicidad:
// sin espacios en los bordes y en minúsculas.
func normalizeDescription(d string) string {
	return strings.ToLower(strings.TrimSpace(d))
}

// Create inserta un estado nuevo. La descripción normalizada es única
// entre TODOS los registros, activos e inactivos.
func (s *OrderStatusService) Create(ctx context.Context, st model.OrderStatus) (*model.OrderStatus, error) {
	st.Description = normalizeDescription(st.Description)

	existing, err := s.repo.FindByDescription(ctx, st.Description, primitive.NilObjectID)
	if err != nil {
		return nil, fmt.Errorf("verificando descripción duplicada: %w", err)
	}
	if existing != nil {
		return nil, ErrConflict
	}

	// Entre el chequeo y el insert no hay transacción: dos requests
	// concurrentes pueden colar la misma descripción.
	st.ID = primitive.NilObjectID
	id, err := s.repo.Insert(ctx, &st)
	if err != nil {
		return nil, fmt.Errorf("insertando order status: %w", err)
	}
	st.ID = id
	return &st, nil
}

// List devuelve los estados activos paginados. El total que reporta
// el controller es el tamaño de la página devuelta, no el total real
// de la colección.
func (s *OrderStatusService) List(ctx context.Context, skip, limit int64) ([]model.StatusView, error) {
	res, err := s.repo.All(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("listando order statuses: %w", err)
	}
	return res, nil
}

// GetByID trae el estado junto con sus órdenes asociadas. Un id mal
// formado jamás llega al store: se responde NotFound directamente.
func (s *OrderStatusService) GetByID(ctx context.Context, id string) (*model.StatusWithOrders, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	res, err := s.repo.WithOrders(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("buscando order status %s: %w", id, err)
	}
	if res == nil {
		return nil, ErrNotFound
	}
	return res, nil
}

// Update reemplaza todos los campos mutables del estado.
func (s *OrderStatusService) Update(ctx context.Context, id string, st model.OrderStatus) (*model.OrderStatus, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	existing, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("buscando order status %s: %w", id, err)
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	st.Description = normalizeDescription(st.Description)

	// Otro registro (distinto id) no puede tener la misma descripción.
	duplicate, err := s.repo.FindByDescription(ctx, st.Description, oid)
	if err != nil {
		return nil, fmt.Errorf("verificando descripción duplicada: %w", err)
	}
	if duplicate != nil {
		return nil, ErrConflict
	}

	matched, err := s.repo.Update(ctx, oid, &st)
	if err != nil {
		return nil, fmt.Errorf("actualizando order status %s: %w", id, err)
	}
	if matched == 0 {
		return nil, ErrNotFound
	}

	st.ID = oid
	return &st, nil
}

// Delete elimina el estado y devuelve sus datos como confirmación.
func (s *OrderStatusService) Delete(ctx context.Context, id string) (*model.OrderStatus, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	existing, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("buscando order status %s: %w", id, err)
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	deleted, err := s.repo.Delete(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("eliminando order status %s: %w", id, err)
	}
	if deleted == 0 {
		return nil, ErrNotFound
	}
	return existing, nil
}

// Validate confirma que el estado existe y está activo.
func (s *OrderStatusService) Validate(ctx context.Context, id string) (*model.StatusView, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	res, err := s.repo.Validate(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("validando order status %s: %w", id, err)
	}
	if res == nil {
		return nil, ErrNotFound
	}
	return res, nil
}

// Search busca por nombre o descripción entre los estados activos.
// Igual que List, el total reportado es el tamaño de la página.
func (s *OrderStatusService) Search(ctx context.Context, term string, skip, limit int64) ([]model.StatusView, error) {
	res, err := s.repo.Search(ctx, term, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("buscando order statuses: %w", err)
	}
	return res, nil
}
