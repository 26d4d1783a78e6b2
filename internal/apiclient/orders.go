package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"
)

// Order is the client view of an order. CreatedAt is kept raw so callers can
// parse it with the same rules as the countdown.
type Order struct {
	ID             string    `json:"id"`
	Status         string    `json:"status"`
	TotalCents     int64     `json:"totalCents"`
	CreatedAt      string    `json:"createdAt"`
	CancelDeadline time.Time `json:"cancelDeadline"`
	CanCancel      bool      `json:"canCancel"`
}

var ErrMissingOrder = errors.New("storefront api: response carried no order")

func (c *Client) Order(ctx context.Context, id string) (*Order, error) {
	return c.orderCall(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(id))
}

func (c *Client) CancelOrder(ctx context.Context, id string) (*Order, error) {
	return c.orderCall(ctx, http.MethodPost, "/api/orders/"+url.PathEscape(id)+"/cancel")
}

func (c *Client) orderCall(ctx context.Context, method, path string) (*Order, error) {
	var body struct {
		Order *Order `json:"order"`
	}
	if err := c.Do(ctx, method, path, nil, &body); err != nil {
		return nil, err
	}
	if body.Order == nil {
		return nil, ErrMissingOrder
	}
	return body.Order, nil
}
