package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-pos/internal/model"
	"github.com/iliyamo/restaurant-pos/internal/pos"
)

// fakeFloor serves a fixed floor plan.
type fakeFloor struct{}

func (fakeFloor) ListAll(_ context.Context) ([]model.Table, error) {
	return []model.Table{
		{ID: 5, AreaID: 1, Number: 5, Seats: 4, IsActive: true, CreatedAt: time.Now()},
		{ID: 6, AreaID: 1, Number: 6, Seats: 2, IsActive: true, CreatedAt: time.Now()},
	}, nil
}

func (fakeFloor) ListAreas(_ context.Context) ([]model.Area, error) {
	return []model.Area{{ID: 1, Name: "Terrace", CreatedAt: time.Now()}}, nil
}

func getJSON(t *testing.T, fn echo.HandlerFunc, paramName, paramValue string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if paramName != "" {
		c.SetParamNames(paramName)
		c.SetParamValues(paramValue)
	}
	require.NoError(t, fn(c))
	return rec
}

func TestTableBoardReflectsOrderState(t *testing.T) {
	registry := pos.NewTableRegistry(fakeTables{}, nil, nil, 0)
	th := NewTableHandler(fakeFloor{}, registry)
	oh := NewOrderHandler(registry, testCatalog(), nil, nil, zerolog.Nop())
	f := &orderFixture{e: echo.New(), handler: oh, registry: registry}

	// Table 5 gets a confirmed order; table 6 stays free.
	f.confirm(t, "5", []cartLineRequest{{ProductID: 8, Quantity: 1}})

	rec := getJSON(t, th.ListTables, "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Tables []tableView `json:"tables"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Tables, 2)
	assert.Equal(t, pos.TableOccupied, body.Tables[0].State)
	require.NotNil(t, body.Tables[0].OpenOrderID)
	assert.Equal(t, pos.TableFree, body.Tables[1].State)
	assert.Nil(t, body.Tables[1].OpenOrderID)
}

func TestGetTableOrder(t *testing.T) {
	registry := pos.NewTableRegistry(fakeTables{}, nil, nil, 0)
	th := NewTableHandler(fakeFloor{}, registry)
	oh := NewOrderHandler(registry, testCatalog(), nil, nil, zerolog.Nop())
	f := &orderFixture{e: echo.New(), handler: oh, registry: registry}

	rec := getJSON(t, th.GetTableOrder, "id", "5")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	snap := f.confirm(t, "5", []cartLineRequest{{ProductID: 8, Quantity: 2}})

	rec = getJSON(t, th.GetTableOrder, "id", "5")
	require.Equal(t, http.StatusOK, rec.Code)
	var got pos.OrderSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, snap.ID, got.ID)
	assert.Equal(t, pos.Cents(600), got.Subtotal)
}

func TestListAreas(t *testing.T) {
	registry := pos.NewTableRegistry(fakeTables{}, nil, nil, 0)
	th := NewTableHandler(fakeFloor{}, registry)

	rec := getJSON(t, th.ListAreas, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Terrace")
}

func TestMenuList(t *testing.T) {
	mh := NewMenuHandler(testCatalog())

	rec := getJSON(t, mh.List, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Burger")
	assert.Contains(t, rec.Body.String(), "Cola")
}

func TestMenuGet(t *testing.T) {
	mh := NewMenuHandler(testCatalog())

	rec := getJSON(t, mh.Get, "id", "7")
	require.Equal(t, http.StatusOK, rec.Code)
	var p model.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "Burger", p.Name)
	require.Len(t, p.Groups, 2)

	rec = getJSON(t, mh.Get, "id", "99")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = getJSON(t, mh.Get, "id", "abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
