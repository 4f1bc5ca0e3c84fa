package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-pos/internal/model"
	"github.com/iliyamo/restaurant-pos/internal/repository"
)

// productCatalog is the read-only menu source the handlers consume.  In
// production it is the redis-backed catalog cache over the MySQL repo;
// tests substitute an in-memory fake.
type productCatalog interface {
	GetByID(ctx context.Context, productID uint64) (*model.Product, error)
	ListActive(ctx context.Context) ([]model.Product, error)
}

// MenuHandler serves the read-only menu projection terminals browse while
// building carts.
type MenuHandler struct {
	Catalog productCatalog
}

// NewMenuHandler constructs a MenuHandler.
func NewMenuHandler(catalog productCatalog) *MenuHandler {
	if catalog == nil {
		panic("nil catalog passed to NewMenuHandler")
	}
	return &MenuHandler{Catalog: catalog}
}

// List handles GET /v1/menu.  It returns every active product with its
// modifier groups and options so a terminal can render the full ordering
// UI from one response.
func (h *MenuHandler) List(c echo.Context) error {
	menu, err := h.Catalog.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if menu == nil {
		menu = []model.Product{}
	}
	return c.JSON(http.StatusOK, echo.Map{"products": menu})
}

// Get handles GET /v1/menu/:id for a single product.
func (h *MenuHandler) Get(c echo.Context) error {
	productID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	p, err := h.Catalog.GetByID(c.Request().Context(), productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, p)
}
