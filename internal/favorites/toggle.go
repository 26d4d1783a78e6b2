package favorites

import (
	"context"

	"github.com/rs/zerolog"
)

// Remote is the favorites set as seen from the client.
type Remote interface {
	FetchMembership(ctx context.Context) ([]Record, error)
	Add(ctx context.Context, productID int64) error
	Remove(ctx context.Context, productID int64) error
}

type Action string

const (
	ActionAdded   Action = "added"
	ActionRemoved Action = "removed"
)

// Toggler flips a product's membership with a read-then-write against the
// remote set. Nothing stops the set from changing between the read and the
// write; the server stays the only source of truth and conflicts surface as
// errors from Add or Remove.
type Toggler struct {
	remote Remote
	log    zerolog.Logger
}

func NewToggler(remote Remote, log zerolog.Logger) *Toggler {
	return &Toggler{remote: remote, log: log}
}

// Toggle removes productID when it is currently a favorite and adds it
// otherwise. Errors from the remote are logged and returned as they are.
func (t *Toggler) Toggle(ctx context.Context, productID int64) (Action, error) {
	records, err := t.remote.FetchMembership(ctx)
	if err != nil {
		t.log.Error().Err(err).Int64("product_id", productID).Msg("fetch favorites failed")
		return "", err
	}

	if Contains(records, productID) {
		if err := t.remote.Remove(ctx, productID); err != nil {
			t.log.Error().Err(err).Int64("product_id", productID).Msg("remove favorite failed")
			return "", err
		}
		return ActionRemoved, nil
	}

	if err := t.remote.Add(ctx, productID); err != nil {
		t.log.Error().Err(err).Int64("product_id", productID).Msg("add favorite failed")
		return "", err
	}
	return ActionAdded, nil
}

func Contains(records []Record, productID int64) bool {
	for _, r := range records {
		if r.ProductID == productID {
			return true
		}
	}
	return false
}
