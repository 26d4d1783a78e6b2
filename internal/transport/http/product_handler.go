package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/njprem/storefront/internal/domain"
	"github.com/njprem/storefront/internal/service"
	"github.com/njprem/storefront/internal/util"
)

type ProductHandler struct {
	catalog *service.CatalogService
}

func RegisterProducts(e *echo.Echo, catalog *service.CatalogService) {
	handler := &ProductHandler{catalog: catalog}

	public := e.Group("/api/products")
	public.GET("", handler.listProducts)
	public.GET("/:product_id", handler.getProduct)
}

func (h *ProductHandler) listProducts(c echo.Context) error {
	limit, offset := parsePagination(c, 0, 0)
	result, err := h.catalog.List(c.Request().Context(), domain.ProductListFilter{
		Category: c.QueryParam("category"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("unable to load products"))
	}
	return c.JSON(http.StatusOK, util.Envelope{
		"products": result.Products,
		"pagination": util.Page{
			Limit:  result.Limit,
			Offset: result.Offset,
			Total:  result.Total,
			Count:  len(result.Products),
		},
	})
}

func (h *ProductHandler) getProduct(c echo.Context) error {
	id, err := parseProductID(c.Param("product_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}
	product, err := h.catalog.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, util.Error("product not found"))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to load product"))
	}
	return c.JSON(http.StatusOK, util.Data("product", product))
}

func parseProductID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("product id must be a positive integer")
	}
	return id, nil
}

func parsePagination(c echo.Context, defaultLimit, defaultOffset int) (int, int) {
	limit := defaultLimit
	offset := defaultOffset
	if v := strings.TrimSpace(c.QueryParam("limit")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if v := strings.TrimSpace(c.QueryParam("offset")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}
