package favorites

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/njprem/storefront/internal/apiclient"
)

// Record is one entry of the remote favorites set.
type Record struct {
	ProductID int64     `json:"productId"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

type (
	TokenSource = apiclient.TokenSource
	APIError    = apiclient.APIError
)

// Client talks to the favorites endpoints of the storefront API.
type Client struct {
	api *apiclient.Client
}

func NewClient(baseURL string, tokens TokenSource, opts ...apiclient.Option) *Client {
	return &Client{api: apiclient.New(baseURL, tokens, opts...)}
}

// FromAPI reuses an existing transport.
func FromAPI(api *apiclient.Client) *Client {
	return &Client{api: api}
}

// FetchMembership reads the caller's whole favorites set. A response without
// a favorites field is read as an empty set.
func (c *Client) FetchMembership(ctx context.Context) ([]Record, error) {
	var body struct {
		Favorites []Record `json:"favorites"`
	}
	if err := c.api.Do(ctx, http.MethodGet, "/api/favorites", nil, &body); err != nil {
		return nil, err
	}
	if body.Favorites == nil {
		return []Record{}, nil
	}
	return body.Favorites, nil
}

func (c *Client) Add(ctx context.Context, productID int64) error {
	payload := struct {
		ProductID int64 `json:"productId"`
	}{ProductID: productID}
	return c.api.Do(ctx, http.MethodPost, "/api/favorites", payload, nil)
}

func (c *Client) Remove(ctx context.Context, productID int64) error {
	return c.api.Do(ctx, http.MethodDelete, "/api/favorites/"+strconv.FormatInt(productID, 10), nil, nil)
}

var _ Remote = (*Client)(nil)
