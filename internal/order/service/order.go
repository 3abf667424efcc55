package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Guilherme-Denarde/coffee-orders/internal/order/domain"
	"github.com/Guilherme-Denarde/coffee-orders/internal/order/event"
	"github.com/Guilherme-Denarde/coffee-orders/internal/order/repository"
	apperrors "github.com/Guilherme-Denarde/coffee-orders/pkg/errors"
)

// idempotencyTTL is how long a checkout idempotency key stays reserved.
const idempotencyTTL = 24 * time.Hour

// OrderService implements the business logic for order operations.
type OrderService struct {
	repo     repository.OrderRepository
	idem     repository.IdempotencyStore
	producer *event.Producer
	logger   *slog.Logger
}

// NewOrderService creates a new order service. idem may be nil, in which case
// idempotency keys are ignored.
func NewOrderService(repo repository.OrderRepository, idem repository.IdempotencyStore, producer *event.Producer, logger *slog.Logger) *OrderService {
	return &OrderService{
		repo:     repo,
		idem:     idem,
		producer: producer,
		logger:   logger,
	}
}

// CreateOrderItemInput holds the parameters for an order line item.
type CreateOrderItemInput struct {
	ProductID string
	Name      string
	Price     int64
	Quantity  int
}

// CreateOrderInput holds the parameters for creating an order.
type CreateOrderInput struct {
	CustomerName   string
	CustomerEmail  string
	Items          []CreateOrderItemInput
	IdempotencyKey string
}

// CreateOrder creates an order in PENDENTE status from the given input. When
// an idempotency key is supplied, a duplicate submission returns the order the
// first submission created instead of inserting a second one.
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	if strings.TrimSpace(input.CustomerName) == "" {
		return nil, apperrors.InvalidInput("cliente is required")
	}
	if !strings.Contains(input.CustomerEmail, "@") {
		return nil, apperrors.InvalidInput("email must be a valid email address")
	}
	if len(input.Items) == 0 {
		return nil, apperrors.InvalidInput("order must contain at least one item")
	}
	for _, item := range input.Items {
		if item.Quantity < 1 {
			return nil, apperrors.InvalidInput(fmt.Sprintf("item %s: quantidade must be at least 1", item.ProductID))
		}
		if item.Price < 0 {
			return nil, apperrors.InvalidInput(fmt.Sprintf("item %s: preco must not be negative", item.ProductID))
		}
	}

	now := time.Now().UTC()
	orderID := uuid.New().String()

	reserved := false
	if input.IdempotencyKey != "" && s.idem != nil {
		existingID, created, err := s.idem.Reserve(ctx, input.IdempotencyKey, orderID, idempotencyTTL)
		if err != nil {
			return nil, fmt.Errorf("reserve idempotency key: %w", err)
		}
		if !created {
			s.logger.InfoContext(ctx, "duplicate order submission collapsed",
				slog.String("idempotency_key", input.IdempotencyKey),
				slog.String("order_id", existingID),
			)
			existing, err := s.repo.GetByID(ctx, existingID)
			if err != nil {
				return nil, fmt.Errorf("load deduplicated order: %w", err)
			}
			return existing, nil
		}
		reserved = true
	}

	// Build line items and compute the total from their subtotals.
	var total int64
	items := make([]domain.OrderItem, len(input.Items))
	for i, itemInput := range input.Items {
		items[i] = domain.OrderItem{
			LineID:    uuid.New().String(),
			OrderID:   orderID,
			ProductID: itemInput.ProductID,
			Name:      itemInput.Name,
			Price:     itemInput.Price,
			Quantity:  itemInput.Quantity,
		}
		total += items[i].LineTotal()
	}

	order := &domain.Order{
		ID:            orderID,
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerEmail: input.CustomerEmail,
		Status:        domain.StatusPendente,
		Items:         items,
		TotalAmount:   total,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		// The reservation points at an order that never made it to the store.
		// Free it so a retry with the same key creates the order instead of
		// resolving to a missing one for the rest of the TTL.
		if reserved {
			if relErr := s.idem.Release(ctx, input.IdempotencyKey); relErr != nil {
				s.logger.ErrorContext(ctx, "failed to release idempotency key after create failure",
					slog.String("idempotency_key", input.IdempotencyKey),
					slog.String("error", relErr.Error()),
				)
			}
		}
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.producer.PublishOrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.created event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "order created",
		slog.String("order_id", order.ID),
		slog.String("customer_email", order.CustomerEmail),
		slog.Int64("total", order.TotalAmount),
	)

	return order, nil
}

// GetOrder retrieves an order by its ID.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order by id: %w", err)
	}
	return order, nil
}

// ListOrders returns a filtered, paginated list of orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}

	if filter.Status != nil && !domain.IsValidStatus(*filter.Status) {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("invalid status %q, must be one of: %s", *filter.Status, strings.Join(domain.ValidStatuses(), ", ")))
	}

	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	return orders, total, nil
}

// UpdateOrderStatus overwrites the order status with any valid value. Every
// transition between valid statuses is allowed.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, newStatus string) (*domain.Order, error) {
	if !domain.IsValidStatus(newStatus) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid status %q, must be one of: %s", newStatus, strings.Join(domain.ValidStatuses(), ", ")))
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order for status update: %w", err)
	}

	if !order.CanTransitionTo(newStatus) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("cannot transition from %q to %q", order.Status, newStatus))
	}

	oldStatus := order.Status

	if err := s.repo.UpdateStatus(ctx, id, newStatus); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	if err := s.producer.PublishOrderStatusChanged(ctx, id, oldStatus, newStatus); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.status_changed event",
			slog.String("order_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order status updated",
		slog.String("order_id", id),
		slog.String("old_status", oldStatus),
		slog.String("new_status", newStatus),
	)

	order.Status = newStatus
	order.UpdatedAt = time.Now().UTC()

	return order, nil
}

// DeleteOrder permanently removes an order. Deleting a missing order returns
// not-found, never a panic.
func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	if err := s.producer.PublishOrderDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.deleted event",
			slog.String("order_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order deleted",
		slog.String("order_id", id),
	)

	return nil
}
