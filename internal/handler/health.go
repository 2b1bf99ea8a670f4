package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is a liveness endpoint for load balancers and monitoring.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Home greets the authenticated user on the protected API root.
func Home(c echo.Context) error {
	username, _ := c.Get("username").(string)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "welcome to the car listing API, " + username,
		"version": "1.0.0",
	})
}
