package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/restaurant-pos/internal/cache"
	"github.com/iliyamo/restaurant-pos/internal/model"
	"github.com/iliyamo/restaurant-pos/internal/pos"
	"github.com/iliyamo/restaurant-pos/internal/repository"
)

// orderArchiver persists closed order snapshots.  Archive failures are
// logged but never undo a close: the money has been taken and the table
// is free, so the archive must catch up out of band.
type orderArchiver interface {
	Archive(ctx context.Context, snap pos.OrderSnapshot, closedBy uint64) error
}

// OrderHandler drives the full order lifecycle: cart confirms, line
// adjustments, cross-table transfers, close and cancel.
type OrderHandler struct {
	Registry *pos.TableRegistry
	Catalog  productCatalog
	Archive  orderArchiver
	Guard    *cache.ConfirmGuard
	Log      zerolog.Logger
}

// NewOrderHandler constructs an OrderHandler.  archive may be nil to run
// without persistence (tests); guard may be nil to disable idempotency.
func NewOrderHandler(registry *pos.TableRegistry, catalog productCatalog, archive orderArchiver, guard *cache.ConfirmGuard, log zerolog.Logger) *OrderHandler {
	if registry == nil || catalog == nil {
		panic("nil dependency passed to NewOrderHandler")
	}
	return &OrderHandler{Registry: registry, Catalog: catalog, Archive: archive, Guard: guard, Log: log}
}

// cartLineRequest is one line of an incoming cart.
type cartLineRequest struct {
	ProductID uint64                `json:"product_id"`
	Quantity  int                   `json:"quantity"`
	Modifiers pos.ModifierSelection `json:"modifiers"`
	Note      string                `json:"note"`
}

// confirmRequest is the body of a cart confirm.
type confirmRequest struct {
	IdempotencyKey string            `json:"idempotency_key"`
	Lines          []cartLineRequest `json:"lines"`
}

// Confirm handles POST /v1/tables/:id/order/confirm.  It prices the cart
// against the catalog, validates every modifier selection, then merges
// the whole cart into the table's order in one atomic confirm.  An empty
// cart is accepted and changes nothing.
func (h *OrderHandler) Confirm(c echo.Context) error {
	tableID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	var body confirmRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	if h.Guard != nil {
		first, err := h.Guard.Reserve(ctx, body.IdempotencyKey)
		if err != nil {
			h.Log.Warn().Err(err).Msg("idempotency reserve failed, letting request through")
		} else if !first {
			return c.JSON(http.StatusConflict, echo.Map{"error": "duplicate confirm request"})
		}
	}

	cart := pos.NewLineItemStore()
	for i, line := range body.Lines {
		item, err := h.buildLine(ctx, line)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": fmt.Sprintf("line %d: product not found", i)})
			}
			var vErr *validationError
			if errors.As(err, &vErr) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": fmt.Sprintf("line %d: %s", i, vErr.msg)})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		if err := cart.Merge(item); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": fmt.Sprintf("line %d: quantity must be positive", i)})
		}
	}

	o, err := h.Registry.OpenOrCreateOrder(ctx, tableID)
	if err != nil {
		return orderErrorResponse(c, err)
	}
	if err := o.ConfirmCart(ctx, cart); err != nil {
		return orderErrorResponse(c, err)
	}
	snap, err := o.Snapshot(ctx)
	if err != nil {
		return orderErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

// Get handles GET /v1/orders/:id for an order that is still open.
func (h *OrderHandler) Get(c echo.Context) error {
	o, resp := h.findOrder(c)
	if o == nil {
		return resp
	}
	snap, err := o.Snapshot(c.Request().Context())
	if err != nil {
		return orderErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

// Decrement handles POST /v1/orders/:id/decrement.  It reduces one line's
// quantity, removing the line when it reaches zero.
func (h *OrderHandler) Decrement(c echo.Context) error {
	o, resp := h.findOrder(c)
	if o == nil {
		return resp
	}
	var body struct {
		LineKey string `json:"line_key"`
		Amount  int    `json:"amount"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()
	if err := o.DecrementLine(ctx, body.LineKey, body.Amount); err != nil {
		return orderErrorResponse(c, err)
	}
	snap, err := o.Snapshot(ctx)
	if err != nil {
		return orderErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

// RemoveLine handles POST /v1/orders/:id/remove-line.  It deletes a line
// outright regardless of quantity.
func (h *OrderHandler) RemoveLine(c echo.Context) error {
	o, resp := h.findOrder(c)
	if o == nil {
		return resp
	}
	var body struct {
		LineKey string `json:"line_key"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()
	if err := o.DeleteLine(ctx, body.LineKey); err != nil {
		return orderErrorResponse(c, err)
	}
	snap, err := o.Snapshot(ctx)
	if err != nil {
		return orderErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

// Split handles POST /v1/orders/:id/split.  It moves part or all of a
// line onto another table, creating that table's order when needed.
func (h *OrderHandler) Split(c echo.Context) error {
	src, resp := h.findOrder(c)
	if src == nil {
		return resp
	}
	var body struct {
		LineKey       string `json:"line_key"`
		Quantity      int    `json:"quantity"`
		TargetTableID uint64 `json:"target_table_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()
	dst, err := h.Registry.OpenOrCreateOrder(ctx, body.TargetTableID)
	if err != nil {
		return orderErrorResponse(c, err)
	}
	if err := pos.Transfer(ctx, src, body.LineKey, body.Quantity, dst); err != nil {
		return orderErrorResponse(c, err)
	}
	return h.transferResult(c, src, dst)
}

// Transfer handles POST /v1/orders/:id/transfer.  Like Split, but the
// destination is addressed by order id instead of table id.
func (h *OrderHandler) Transfer(c echo.Context) error {
	src, resp := h.findOrder(c)
	if src == nil {
		return resp
	}
	var body struct {
		LineKey       string `json:"line_key"`
		Quantity      int    `json:"quantity"`
		TargetOrderID uint64 `json:"target_order_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	dst := h.Registry.FindOrder(body.TargetOrderID)
	if dst == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "target order not found"})
	}
	ctx := c.Request().Context()
	if err := pos.Transfer(ctx, src, body.LineKey, body.Quantity, dst); err != nil {
		return orderErrorResponse(c, err)
	}
	return h.transferResult(c, src, dst)
}

// Close handles POST /v1/orders/:id/close.  It finalizes the order with a
// payment, archives the snapshot and frees the table.
func (h *OrderHandler) Close(c echo.Context) error {
	o, resp := h.findOrder(c)
	if o == nil {
		return resp
	}
	var body struct {
		Method        string     `json:"method"`
		TenderedCents *pos.Cents `json:"tendered_cents"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Method != pos.PaymentCash && body.Method != pos.PaymentCard {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment method must be CASH or CARD"})
	}

	ctx := c.Request().Context()
	snap, err := o.Close(ctx, body.Method, body.TenderedCents)
	if err != nil {
		return orderErrorResponse(c, err)
	}

	if h.Archive != nil {
		closedBy, err := getUserID(c)
		if err != nil {
			closedBy = 0
		}
		if err := h.Archive.Archive(ctx, snap, closedBy); err != nil {
			// Close has already committed; the archive must not undo it.
			h.Log.Error().Err(err).
				Uint64("order_id", snap.ID).
				Str("receipt_ref", snap.ReceiptRef).
				Msg("failed to archive closed order")
		}
	}
	return c.JSON(http.StatusOK, snap)
}

// Cancel handles POST /v1/orders/:id/cancel.  It voids the order and
// frees the table without payment.
func (h *OrderHandler) Cancel(c echo.Context) error {
	o, resp := h.findOrder(c)
	if o == nil {
		return resp
	}
	ctx := c.Request().Context()
	if err := o.Cancel(ctx); err != nil {
		return orderErrorResponse(c, err)
	}
	snap, err := o.Snapshot(ctx)
	if err != nil {
		return orderErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

// findOrder resolves the :id path parameter to an open order.  On failure
// it writes the error response and returns a nil order.
func (h *OrderHandler) findOrder(c echo.Context) (*pos.Order, error) {
	orderID, err := parseID(c, "id")
	if err != nil {
		return nil, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	o := h.Registry.FindOrder(orderID)
	if o == nil {
		return nil, c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
	}
	return o, nil
}

// transferResult returns both affected snapshots after a split/transfer.
func (h *OrderHandler) transferResult(c echo.Context, src, dst *pos.Order) error {
	ctx := c.Request().Context()
	srcSnap, err := src.Snapshot(ctx)
	if err != nil {
		return orderErrorResponse(c, err)
	}
	dstSnap, err := dst.Snapshot(ctx)
	if err != nil {
		return orderErrorResponse(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"source": srcSnap, "target": dstSnap})
}

// validationError is a cart validation failure with a client-facing
// message.
type validationError struct{ msg string }

func (e *validationError) Error() string { return e.msg }

// buildLine prices one cart line against the catalog and validates its
// modifier selection.  The unit price is the product price plus the
// surcharge of every selected option, captured here once and for all.
func (h *OrderHandler) buildLine(ctx context.Context, line cartLineRequest) (pos.LineItem, error) {
	if line.Quantity <= 0 {
		return pos.LineItem{}, &validationError{msg: "quantity must be positive"}
	}
	p, err := h.Catalog.GetByID(ctx, line.ProductID)
	if err != nil {
		return pos.LineItem{}, err
	}

	groups := make(map[uint64]*model.ModifierGroup, len(p.Groups))
	for i := range p.Groups {
		groups[p.Groups[i].ID] = &p.Groups[i]
	}

	unit := pos.Cents(p.PriceCents)
	for groupID, optionIDs := range line.Modifiers {
		g, ok := groups[groupID]
		if !ok {
			return pos.LineItem{}, &validationError{msg: fmt.Sprintf("modifier group %d does not belong to product %d", groupID, p.ID)}
		}
		if !g.MultiSelect && len(optionIDs) > 1 {
			return pos.LineItem{}, &validationError{msg: fmt.Sprintf("modifier group %q allows a single option", g.Name)}
		}
		options := make(map[uint64]*model.ModifierOption, len(g.Options))
		for i := range g.Options {
			options[g.Options[i].ID] = &g.Options[i]
		}
		seen := make(map[uint64]bool, len(optionIDs))
		for _, optionID := range optionIDs {
			opt, ok := options[optionID]
			if !ok {
				return pos.LineItem{}, &validationError{msg: fmt.Sprintf("option %d does not belong to modifier group %q", optionID, g.Name)}
			}
			if seen[optionID] {
				continue
			}
			seen[optionID] = true
			unit += pos.Cents(opt.PriceCents)
		}
	}
	for _, g := range p.Groups {
		if g.Required && len(line.Modifiers[g.ID]) == 0 {
			return pos.LineItem{}, &validationError{msg: fmt.Sprintf("modifier group %q requires a selection", g.Name)}
		}
	}

	return pos.LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: unit,
		Quantity:  line.Quantity,
		Selection: line.Modifiers,
		Note:      line.Note,
	}, nil
}

// orderErrorResponse maps engine errors onto HTTP statuses.  Validation
// failures are 400, missing things 404, and state conflicts (finalized
// orders, contention, self-transfers) 409 so clients know to re-read and
// retry rather than fix their input.
func orderErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, pos.ErrInvalidQuantity),
		errors.Is(err, pos.ErrInvalidSplit),
		errors.Is(err, pos.ErrEmptyOrder):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, pos.ErrInvalidPayment):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "insufficient cash tendered"})
	case errors.Is(err, pos.ErrItemNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "line item not found"})
	case errors.Is(err, pos.ErrTableNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
	case errors.Is(err, pos.ErrAlreadyClosed):
		return c.JSON(http.StatusConflict, echo.Map{"error": "order is already finalized"})
	case errors.Is(err, pos.ErrSameOrder):
		return c.JSON(http.StatusConflict, echo.Map{"error": "source and target are the same order"})
	case errors.Is(err, pos.ErrBusy):
		return c.JSON(http.StatusConflict, echo.Map{"error": "order is busy, try again"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
