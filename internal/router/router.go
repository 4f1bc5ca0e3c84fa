package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-pos/internal/handler"
	"github.com/iliyamo/restaurant-pos/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check, used by load balancers and
// monitoring to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the login endpoint.  There is no registration
// route: staff accounts are provisioned by the back office.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
}

// RegisterAPI registers every protected endpoint under /v1.  All routes
// require a valid access token with a known staff role; order
// cancellation is additionally restricted to managers since it voids
// items without payment.
func RegisterAPI(e *echo.Echo, m *handler.MenuHandler, t *handler.TableHandler, o *handler.OrderHandler, jwtSecret string) {
	v1 := e.Group("/v1")
	v1.Use(middleware.JWTAuth(jwtSecret))
	v1.Use(middleware.RequireRole("WAITER", "MANAGER"))

	// Menu browsing for cart building.
	v1.GET("/menu", m.List)
	v1.GET("/menu/:id", m.Get)

	// Table board.
	v1.GET("/areas", t.ListAreas)
	v1.GET("/tables", t.ListTables)
	v1.GET("/tables/:id/order", t.GetTableOrder)

	// Order lifecycle.
	v1.POST("/tables/:id/order/confirm", o.Confirm)
	v1.GET("/orders/:id", o.Get)
	v1.POST("/orders/:id/decrement", o.Decrement)
	v1.POST("/orders/:id/remove-line", o.RemoveLine)
	v1.POST("/orders/:id/split", o.Split)
	v1.POST("/orders/:id/transfer", o.Transfer)
	v1.POST("/orders/:id/close", o.Close)
	v1.POST("/orders/:id/cancel", o.Cancel, middleware.RequireRole("MANAGER"))
}
