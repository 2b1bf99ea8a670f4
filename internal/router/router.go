// Package router wires HTTP routes to their handlers.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/car-listing-api/internal/config"
	"github.com/iliyamo/car-listing-api/internal/handler"
	"github.com/iliyamo/car-listing-api/internal/middleware"
)

// RegisterRoutes registers every route of the API on the provided Echo
// instance: the open auth endpoints, the bearer-gated /api group, static
// serving of uploaded images and a JSON body for unmatched routes.
func RegisterRoutes(e *echo.Echo, cfg config.Config, a *handler.AuthHandler, cars *handler.CarHandler) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	e.GET("/healthz", handler.Health)

	// Uploaded images are served back from the same path stored on the
	// listing records.
	e.Static("/uploads", cfg.UploadDir)

	auth := e.Group("/auth")
	auth.POST("/register", a.Register)
	auth.POST("/login", a.Login)

	// Everything under /api requires a valid bearer token.
	api := e.Group("/api", middleware.JWTAuth(cfg.JWTSecret))
	api.GET("", handler.Home)
	api.GET("/cars", cars.GetAll)
	api.GET("/cars/search", cars.Search)
	api.GET("/cars/favorites", cars.Favorites)
	api.GET("/cars/:id", cars.GetByID)
	api.POST("/cars", cars.Create)
	api.PUT("/cars/:id", cars.Update)
	api.DELETE("/cars/:id", cars.Delete)
	api.POST("/cars/:id/upload", cars.UploadImage)

	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error":   "route not found",
			"message": c.Request().Method + " " + c.Request().URL.Path + " does not exist",
		})
	})
}
