package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/njprem/storefront/internal/domain"
	"github.com/njprem/storefront/internal/repository/ports"
)

var (
	ErrFavoriteAlreadyExists = errors.New("product already saved to favorites")
	ErrFavoriteNotFound      = errors.New("favorite not found")
)

const defaultFavoriteCountTTL = 5 * time.Minute

type FavoriteService struct {
	favorites ports.FavoriteRepository
	products  ports.ProductRepository
	counts    ports.FavoriteCountCache
	countTTL  time.Duration
	log       zerolog.Logger
}

// NewFavoriteService wires the favorites set. counts may be nil, in which
// case every count is read from the repository.
func NewFavoriteService(favoriteRepo ports.FavoriteRepository, productRepo ports.ProductRepository, counts ports.FavoriteCountCache, log zerolog.Logger) *FavoriteService {
	return &FavoriteService{
		favorites: favoriteRepo,
		products:  productRepo,
		counts:    counts,
		countTTL:  defaultFavoriteCountTTL,
		log:       log,
	}
}

// WithCountTTL sets how long cached counts live. Non-positive values keep the
// default.
func (s *FavoriteService) WithCountTTL(ttl time.Duration) *FavoriteService {
	if ttl > 0 {
		s.countTTL = ttl
	}
	return s
}

func (s *FavoriteService) Save(ctx context.Context, userID uuid.UUID, productID int64) (*domain.Favorite, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if isNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	favorite, err := s.favorites.Add(ctx, userID, productID)
	if err != nil {
		switch {
		case isNotFound(err), isUniqueViolation(err):
			return nil, ErrFavoriteAlreadyExists
		case isForeignKeyViolation(err):
			return nil, ErrProductNotFound
		default:
			return nil, err
		}
	}
	s.invalidateCount(ctx, productID)
	return favorite, nil
}

func (s *FavoriteService) Remove(ctx context.Context, userID uuid.UUID, productID int64) error {
	if err := s.favorites.Remove(ctx, userID, productID); err != nil {
		if isNotFound(err) {
			return ErrFavoriteNotFound
		}
		return err
	}
	s.invalidateCount(ctx, productID)
	return nil
}

// List returns the caller's whole favorites set. The set is small and clients
// test membership against all of it, so it is never paged.
func (s *FavoriteService) List(ctx context.Context, userID uuid.UUID) ([]domain.FavoriteListItem, error) {
	items, err := s.favorites.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.FavoriteListItem{}
	}
	return items, nil
}

func (s *FavoriteService) Count(ctx context.Context, productID int64) (int64, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if isNotFound(err) {
			return 0, ErrProductNotFound
		}
		return 0, err
	}

	if s.counts != nil {
		count, ok, err := s.counts.Get(ctx, productID)
		if err != nil {
			s.log.Warn().Err(err).Int64("product_id", productID).Msg("favorite count cache read failed")
		} else if ok {
			return count, nil
		}
	}

	count, err := s.favorites.CountByProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	if s.counts != nil {
		if err := s.counts.Set(ctx, productID, count, s.countTTL); err != nil {
			s.log.Warn().Err(err).Int64("product_id", productID).Msg("favorite count cache write failed")
		}
	}
	return count, nil
}

func (s *FavoriteService) invalidateCount(ctx context.Context, productID int64) {
	if s.counts == nil {
		return
	}
	if err := s.counts.Invalidate(ctx, productID); err != nil {
		s.log.Warn().Err(err).Int64("product_id", productID).Msg("favorite count cache invalidate failed")
	}
}
