package handler

import (
	"encoding/json"
	"errors"

	"github.com/labstack/echo/v4"
)

// getUserID extracts the authenticated staff id stored by the JWT
// middleware.  MapClaims carry numbers as float64 (or json.Number when
// configured), so both are handled.
func getUserID(c echo.Context) (uint64, error) {
	switch v := c.Get("user_id").(type) {
	case float64:
		if v < 0 {
			return 0, errors.New("invalid user id")
		}
		return uint64(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil || n < 0 {
			return 0, errors.New("invalid user id")
		}
		return uint64(n), nil
	case uint64:
		return v, nil
	default:
		return 0, errors.New("missing user id")
	}
}
