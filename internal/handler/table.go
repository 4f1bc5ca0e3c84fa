package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-pos/internal/model"
	"github.com/iliyamo/restaurant-pos/internal/pos"
)

// floorCatalog is the read-only floor plan source.
type floorCatalog interface {
	ListAll(ctx context.Context) ([]model.Table, error)
	ListAreas(ctx context.Context) ([]model.Area, error)
}

// TableHandler serves the table board: areas, tables with their derived
// Free/Occupied state, and the open order of a table.
type TableHandler struct {
	Floor    floorCatalog
	Registry *pos.TableRegistry
}

// NewTableHandler constructs a TableHandler.
func NewTableHandler(floor floorCatalog, registry *pos.TableRegistry) *TableHandler {
	if floor == nil || registry == nil {
		panic("nil dependency passed to NewTableHandler")
	}
	return &TableHandler{Floor: floor, Registry: registry}
}

// tableView is one row of the table board.
type tableView struct {
	model.Table
	State       string  `json:"state"`
	OpenOrderID *uint64 `json:"open_order_id,omitempty"`
}

// ListAreas handles GET /v1/areas.
func (h *TableHandler) ListAreas(c echo.Context) error {
	areas, err := h.Floor.ListAreas(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if areas == nil {
		areas = []model.Area{}
	}
	return c.JSON(http.StatusOK, echo.Map{"areas": areas})
}

// ListTables handles GET /v1/tables.  Each table carries its derived
// state and, when occupied, the id of its open order so terminals can
// jump straight to it.
func (h *TableHandler) ListTables(c echo.Context) error {
	tables, err := h.Floor.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	views := make([]tableView, 0, len(tables))
	for _, t := range tables {
		v := tableView{Table: t, State: h.Registry.TableState(t.ID)}
		if o := h.Registry.GetOpenOrder(t.ID); o != nil {
			id := o.ID()
			v.OpenOrderID = &id
		}
		views = append(views, v)
	}
	return c.JSON(http.StatusOK, echo.Map{"tables": views})
}

// GetTableOrder handles GET /v1/tables/:id/order.  It returns the open
// order's snapshot, or 404 when the table has none.
func (h *TableHandler) GetTableOrder(c echo.Context) error {
	tableID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	o := h.Registry.GetOpenOrder(tableID)
	if o == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "table has no open order"})
	}
	snap, err := o.Snapshot(c.Request().Context())
	if err != nil {
		return orderErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

// parseID parses a positive uint64 path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, strconv.ErrSyntax
	}
	return id, nil
}
