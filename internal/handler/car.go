package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-listing-api/internal/model"
	"github.com/iliyamo/car-listing-api/internal/repository"
	"github.com/iliyamo/car-listing-api/internal/validation"
)

// CarHandler bundles the car repository and upload settings for the
// listing endpoints.
type CarHandler struct {
	Cars      *repository.CarRepo
	UploadDir string
}

func NewCarHandler(cars *repository.CarRepo, uploadDir string) *CarHandler {
	if cars == nil {
		panic("nil repository passed to NewCarHandler")
	}
	return &CarHandler{Cars: cars, UploadDir: uploadDir}
}

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// carID parses the :id route parameter.
func carID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil
}

// GetAll returns one page of cars. Unknown sort columns or directions
// silently fall back to year DESC; the resolved values are echoed so the
// client can see what was applied.
func (h *CarHandler) GetAll(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = 10
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cars, sortBy, order, err := h.Cars.List(ctx, page, limit, c.QueryParam("sortBy"), c.QueryParam("order"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list query failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"page":    page,
		"limit":   limit,
		"sortBy":  sortBy,
		"order":   order,
		"count":   len(cars),
		"data":    cars,
	})
}

// Search filters cars by any combination of the optional query params.
// Absent params impose no constraint.
func (h *CarHandler) Search(c echo.Context) error {
	q := repository.SearchQuery{
		Brand:    c.QueryParam("brand"),
		Model:    c.QueryParam("model"),
		Category: c.QueryParam("category"),
	}
	if v, err := strconv.Atoi(c.QueryParam("minYear")); err == nil {
		q.MinYear = &v
	}
	if v, err := strconv.Atoi(c.QueryParam("maxYear")); err == nil {
		q.MaxYear = &v
	}
	if v, err := strconv.ParseFloat(c.QueryParam("minPrice"), 64); err == nil {
		q.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(c.QueryParam("maxPrice"), 64); err == nil {
		q.MaxPrice = &v
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cars, err := h.Cars.Search(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search query failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(cars),
		"data":    cars,
	})
}

// Favorites returns every car with the favorite flag set.
func (h *CarHandler) Favorites(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	cars, err := h.Cars.Favorites(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "favorites query failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   len(cars),
		"data":    cars,
	})
}

// GetByID returns a single car or 404.
func (h *CarHandler) GetByID(c echo.Context) error {
	id, ok := carID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	car, err := h.Cars.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": car})
}

// Create validates the payload (collecting every violation) and inserts
// the car.
func (h *CarHandler) Create(c echo.Context) error {
	var in model.CarInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if violations := validation.CheckCar(in); violations != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload", "errors": violations})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	car, err := h.Cars.Create(ctx, in)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "insert failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "car created",
		"data":    car,
	})
}

// Update replaces every mutable field of the car in one statement.
func (h *CarHandler) Update(c echo.Context) error {
	id, ok := carID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
	}

	var in model.CarInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if violations := validation.CheckCar(in); violations != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload", "errors": violations})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	car, err := h.Cars.Update(ctx, id, in)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "car updated",
		"data":    car,
	})
}

// Delete removes a car; zero affected rows answers 404.
func (h *CarHandler) Delete(c echo.Context) error {
	id, ok := carID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Cars.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "car deleted",
		"data":    echo.Map{"id": id},
	})
}
