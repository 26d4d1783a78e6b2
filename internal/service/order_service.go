package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/njprem/storefront/internal/countdown"
	"github.com/njprem/storefront/internal/domain"
	"github.com/njprem/storefront/internal/repository/ports"
	"github.com/njprem/storefront/internal/util"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderValidation     = errors.New("invalid order")
	ErrCancelWindowClosed  = errors.New("cancellation window has closed")
	ErrOrderNotCancellable = errors.New("order can no longer be cancelled")
)

const (
	maxOrderLines      = 50
	maxOrderQuantity   = 99
	maxOrderNoteLength = 500

	defaultOrderPageSize = 20
	maxOrderPageSize     = 100
)

type OrderLineInput struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type OrderService struct {
	orders   ports.OrderRepository
	products ports.ProductRepository
	window   time.Duration
	now      func() time.Time
}

func NewOrderService(orderRepo ports.OrderRepository, productRepo ports.ProductRepository, cancelWindow time.Duration) *OrderService {
	if cancelWindow <= 0 {
		cancelWindow = countdown.DefaultWindow
	}
	return &OrderService{
		orders:   orderRepo,
		products: productRepo,
		window:   cancelWindow,
		now:      time.Now,
	}
}

func (s *OrderService) CancelWindow() time.Duration {
	return s.window
}

// CancelDeadline is the instant after which order can no longer be cancelled.
func (s *OrderService) CancelDeadline(order *domain.Order) time.Time {
	return countdown.Deadline(order.CreatedAt, s.window)
}

// Place prices each line from the catalog and stores the order. Lines for the
// same product are merged.
func (s *OrderService) Place(ctx context.Context, userID uuid.UUID, lines []OrderLineInput, note *string) (*domain.Order, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", ErrOrderValidation)
	}
	if len(lines) > maxOrderLines {
		return nil, fmt.Errorf("%w: at most %d items", ErrOrderValidation, maxOrderLines)
	}
	note = normalizeNote(note)
	if note != nil && len(*note) > maxOrderNoteLength {
		return nil, fmt.Errorf("%w: note exceeds %d characters", ErrOrderValidation, maxOrderNoteLength)
	}

	quantities := make(map[int64]int, len(lines))
	sequence := make([]int64, 0, len(lines))
	for _, line := range lines {
		if line.ProductID <= 0 {
			return nil, fmt.Errorf("%w: productId must be positive", ErrOrderValidation)
		}
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", ErrOrderValidation)
		}
		if _, seen := quantities[line.ProductID]; !seen {
			sequence = append(sequence, line.ProductID)
		}
		quantities[line.ProductID] += line.Quantity
		if quantities[line.ProductID] > maxOrderQuantity {
			return nil, fmt.Errorf("%w: quantity for product %d exceeds %d", ErrOrderValidation, line.ProductID, maxOrderQuantity)
		}
	}

	order := &domain.Order{
		UserID: userID,
		Status: domain.OrderStatusPlaced,
		Note:   note,
		Items:  make([]domain.OrderItem, 0, len(sequence)),
	}
	for _, productID := range sequence {
		product, err := s.products.FindByID(ctx, productID)
		if err != nil {
			if isNotFound(err) {
				return nil, ErrProductNotFound
			}
			return nil, err
		}
		if !product.Available {
			return nil, ErrProductNotFound
		}
		qty := quantities[productID]
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:  productID,
			Quantity:   qty,
			PriceCents: product.PriceCents,
		})
		order.TotalCents += product.PriceCents * int64(qty)
	}

	created, err := s.orders.Create(ctx, order)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return created, nil
}

// Get returns the caller's order. Orders owned by someone else are reported
// as missing.
func (s *OrderService) Get(ctx context.Context, userID, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Order, int, int, error) {
	limit, offset = util.NormalizePage(limit, offset, defaultOrderPageSize, maxOrderPageSize)
	orders, err := s.orders.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, 0, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, limit, offset, nil
}

// Cancel cancels a placed order while its window is still open.
func (s *OrderService) Cancel(ctx context.Context, userID, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.Get(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Cancellable() {
		return nil, ErrOrderNotCancellable
	}
	now := s.now()
	if !countdown.Open(order.CreatedAt, s.window, now) {
		return nil, ErrCancelWindowClosed
	}

	cancelled, err := s.orders.MarkCancelled(ctx, orderID, now)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrOrderNotCancellable
		}
		return nil, err
	}
	return cancelled, nil
}

func normalizeNote(note *string) *string {
	if note == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*note)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
