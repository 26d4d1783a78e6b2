package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/njprem/storefront/internal/service"
	"github.com/njprem/storefront/internal/util"
)

type FavoriteHandler struct {
	favorites *service.FavoriteService
	metrics   *Metrics
}

// RegisterFavorites mounts the favorites set. metrics may be nil.
func RegisterFavorites(e *echo.Echo, auth *service.AuthService, favorites *service.FavoriteService, metrics *Metrics) {
	handler := &FavoriteHandler{
		favorites: favorites,
		metrics:   metrics,
	}

	protected := e.Group("/api/favorites", RequireAuth(auth))
	protected.GET("", handler.listFavorites)
	protected.POST("", handler.saveFavorite)
	protected.DELETE("/:product_id", handler.removeFavorite)

	e.GET("/api/products/:product_id/favorites/count", handler.countFavorites)
}

func (h *FavoriteHandler) listFavorites(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	items, err := h.favorites.List(c.Request().Context(), user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("unable to load favorites"))
	}
	return c.JSON(http.StatusOK, util.Envelope{
		"favorites": items,
		"total":     len(items),
	})
}

func (h *FavoriteHandler) saveFavorite(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	var req struct {
		ProductID *int64 `json:"productId"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if req.ProductID == nil {
		return c.JSON(http.StatusBadRequest, util.Error("productId is required"))
	}
	if *req.ProductID <= 0 {
		return c.JSON(http.StatusBadRequest, util.Error("productId must be a positive integer"))
	}

	favorite, err := h.favorites.Save(c.Request().Context(), user.ID, *req.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			return c.JSON(http.StatusNotFound, util.Error("product not found"))
		case errors.Is(err, service.ErrFavoriteAlreadyExists):
			return c.JSON(http.StatusConflict, util.Error("product already saved"))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("could not update favorites"))
		}
	}
	h.metrics.favoriteChanged("added")

	return c.JSON(http.StatusCreated, util.Envelope{
		"favorite": favorite,
		"message":  "Product saved to favorites",
	})
}

func (h *FavoriteHandler) removeFavorite(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	productID, err := parseProductID(c.Param("product_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	if err := h.favorites.Remove(c.Request().Context(), user.ID, productID); err != nil {
		if errors.Is(err, service.ErrFavoriteNotFound) {
			return c.JSON(http.StatusNotFound, util.Error("product is not in your favorites"))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("could not update favorites"))
	}
	h.metrics.favoriteChanged("removed")

	return c.JSON(http.StatusOK, util.Envelope{
		"productId": productID,
		"message":   "Product removed from favorites",
	})
}

func (h *FavoriteHandler) countFavorites(c echo.Context) error {
	productID, err := parseProductID(c.Param("product_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	count, err := h.favorites.Count(c.Request().Context(), productID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, util.Error("product not found"))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to fetch favorites count"))
	}

	return c.JSON(http.StatusOK, util.Envelope{
		"productId":      productID,
		"favoritesCount": count,
		"lastUpdatedUtc": time.Now().UTC().Format(time.RFC3339),
	})
}
