package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/njprem/storefront/internal/countdown"
	"github.com/njprem/storefront/internal/domain"
	"github.com/njprem/storefront/internal/service"
	"github.com/njprem/storefront/internal/util"
)

type OrderHandler struct {
	orders  *service.OrderService
	metrics *Metrics
	now     func() time.Time
}

// OrderResponse is an order plus the cancellation window derived from it.
type OrderResponse struct {
	domain.Order
	CancelDeadline time.Time `json:"cancelDeadline"`
	CanCancel      bool      `json:"canCancel"`
}

type placeOrderRequest struct {
	Items []service.OrderLineInput `json:"items"`
	Note  *string                  `json:"note,omitempty"`
}

func RegisterOrders(e *echo.Echo, auth *service.AuthService, orders *service.OrderService, metrics *Metrics) {
	handler := &OrderHandler{orders: orders, metrics: metrics, now: time.Now}

	protected := e.Group("/api/orders", RequireAuth(auth))
	protected.POST("", handler.placeOrder)
	protected.GET("", handler.listOrders)
	protected.GET("/:order_id", handler.getOrder)
	protected.POST("/:order_id/cancel", handler.cancelOrder)
}

func (h *OrderHandler) placeOrder(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	var req placeOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	order, err := h.orders.Place(c.Request().Context(), user.ID, req.Items, req.Note)
	if err != nil {
		return h.writeOrderError(c, err)
	}
	return c.JSON(http.StatusCreated, util.Data("order", h.toResponse(order)))
}

func (h *OrderHandler) listOrders(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	limit, offset := parsePagination(c, 0, 0)
	orders, limit, offset, err := h.orders.List(c.Request().Context(), user.ID, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("unable to load orders"))
	}

	items := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, h.toResponse(&orders[i]))
	}
	return c.JSON(http.StatusOK, util.Envelope{
		"orders": items,
		"meta": util.Envelope{
			"limit":  limit,
			"offset": offset,
			"count":  len(items),
		},
	})
}

func (h *OrderHandler) getOrder(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	orderID, err := uuid.Parse(c.Param("order_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("order id must be a valid UUID"))
	}

	order, err := h.orders.Get(c.Request().Context(), user.ID, orderID)
	if err != nil {
		return h.writeOrderError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("order", h.toResponse(order)))
}

func (h *OrderHandler) cancelOrder(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	orderID, err := uuid.Parse(c.Param("order_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("order id must be a valid UUID"))
	}

	order, err := h.orders.Cancel(c.Request().Context(), user.ID, orderID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCancelWindowClosed):
			h.metrics.cancellation("window_closed")
		case errors.Is(err, service.ErrOrderNotCancellable):
			h.metrics.cancellation("not_cancellable")
		case errors.Is(err, service.ErrOrderNotFound):
			h.metrics.cancellation("not_found")
		default:
			h.metrics.cancellation("error")
		}
		return h.writeOrderError(c, err)
	}
	h.metrics.cancellation("cancelled")
	return c.JSON(http.StatusOK, util.Data("order", h.toResponse(order)))
}

func (h *OrderHandler) writeOrderError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		return c.JSON(http.StatusNotFound, util.Error("order not found"))
	case errors.Is(err, service.ErrProductNotFound):
		return c.JSON(http.StatusNotFound, util.Error("product not found"))
	case errors.Is(err, service.ErrOrderValidation):
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	case errors.Is(err, service.ErrCancelWindowClosed), errors.Is(err, service.ErrOrderNotCancellable):
		return c.JSON(http.StatusConflict, util.Error(err.Error()))
	default:
		return c.JSON(http.StatusInternalServerError, util.Error("unable to process order"))
	}
}

func (h *OrderHandler) toResponse(order *domain.Order) OrderResponse {
	deadline := h.orders.CancelDeadline(order)
	return OrderResponse{
		Order:          *order,
		CancelDeadline: deadline,
		CanCancel:      order.Cancellable() && countdown.Remaining(deadline, h.now()) > 0,
	}
}
