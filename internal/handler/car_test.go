package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/car-listing-api/internal/database"
	"github.com/iliyamo/car-listing-api/internal/repository"
)

func newCarHandler(t *testing.T) *CarHandler {
	t.Helper()
	dir := t.TempDir()
	db, err := database.Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewCarHandler(repository.NewCarRepo(db), filepath.Join(dir, "uploads"))
}

// callCar invokes a handler directly with an optional :id param and body.
func callCar(t *testing.T, h echo.HandlerFunc, method, target, id, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if id != "" {
		c.SetParamNames("id")
		c.SetParamValues(id)
	}
	require.NoError(t, h(c))
	return rec
}

func createCar(t *testing.T, h *CarHandler, body string) uint64 {
	t.Helper()
	rec := callCar(t, h.Create, http.MethodPost, "/api/cars", "", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var out struct {
		Data struct {
			ID uint64 `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out.Data.ID
}

const validCar = `{"brand":"Jaguar","model":"E-Type","year":1961,"color":"Blue","price":320000}`

func TestCreateCar_ValidationCollectsViolations(t *testing.T) {
	h := newCarHandler(t)

	rec := callCar(t, h.Create, http.MethodPost, "/api/cars", "", `{"brand":"Jaguar","model":"E-Type"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var out struct {
		Error  string `json:"error"`
		Errors []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.NotEmpty(t, out.Error)
	require.NotEmpty(t, out.Errors)
	assert.Equal(t, "year", out.Errors[0].Field)
}

func TestCreateThenGet_RoundTrip(t *testing.T) {
	h := newCarHandler(t)
	id := createCar(t, h, validCar)

	rec := callCar(t, h.GetByID, http.MethodGet, "/api/cars/:id", fmt.Sprint(id), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Data struct {
			Brand string   `json:"brand"`
			Model string   `json:"model"`
			Year  int      `json:"year"`
			Color *string  `json:"color"`
			Price *float64 `json:"price"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "Jaguar", out.Data.Brand)
	assert.Equal(t, "E-Type", out.Data.Model)
	assert.Equal(t, 1961, out.Data.Year)
	require.NotNil(t, out.Data.Color)
	assert.Equal(t, "Blue", *out.Data.Color)
	require.NotNil(t, out.Data.Price)
	assert.Equal(t, 320000.0, *out.Data.Price)
}

func TestGetCar_NotFound(t *testing.T) {
	h := newCarHandler(t)

	rec := callCar(t, h.GetByID, http.MethodGet, "/api/cars/:id", "999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteThenGet(t *testing.T) {
	h := newCarHandler(t)
	id := createCar(t, h, validCar)

	rec := callCar(t, h.Delete, http.MethodDelete, "/api/cars/:id", fmt.Sprint(id), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = callCar(t, h.GetByID, http.MethodGet, "/api/cars/:id", fmt.Sprint(id), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = callCar(t, h.Delete, http.MethodDelete, "/api/cars/:id", fmt.Sprint(id), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetAll_SortFallbackAndEcho(t *testing.T) {
	h := newCarHandler(t)
	createCar(t, h, validCar)
	createCar(t, h, `{"brand":"Porsche","model":"911","year":1973}`)

	rec := callCar(t, h.GetAll, http.MethodGet, "/api/cars?sortBy=nonexistent_column&order=sideways", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Page   int    `json:"page"`
		Limit  int    `json:"limit"`
		SortBy string `json:"sortBy"`
		Order  string `json:"order"`
		Count  int    `json:"count"`
		Data   []struct {
			Year int `json:"year"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, 1, out.Page)
	assert.Equal(t, 10, out.Limit)
	assert.Equal(t, "year", out.SortBy)
	assert.Equal(t, "DESC", out.Order)
	assert.Equal(t, 2, out.Count)
	require.Len(t, out.Data, 2)
	assert.Equal(t, 1973, out.Data[0].Year)
}

func TestSearch_YearRange(t *testing.T) {
	h := newCarHandler(t)
	createCar(t, h, validCar) // 1961
	createCar(t, h, `{"brand":"Ferrari","model":"250 GTO","year":1962}`)
	createCar(t, h, `{"brand":"Porsche","model":"911","year":1973}`)

	rec := callCar(t, h.Search, http.MethodGet, "/api/cars/search?minYear=1960&maxYear=1965", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Count int `json:"count"`
		Data  []struct {
			Year int `json:"year"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, 2, out.Count)
	for _, c := range out.Data {
		assert.GreaterOrEqual(t, c.Year, 1960)
		assert.LessOrEqual(t, c.Year, 1965)
	}
}

func TestUpdate_FullReplace(t *testing.T) {
	h := newCarHandler(t)
	id := createCar(t, h, validCar)

	rec := callCar(t, h.Update, http.MethodPut, "/api/cars/:id", fmt.Sprint(id),
		`{"brand":"Jaguar","model":"E-Type S2","year":1969}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Data struct {
			Model string  `json:"model"`
			Year  int     `json:"year"`
			Color *string `json:"color"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "E-Type S2", out.Data.Model)
	assert.Equal(t, 1969, out.Data.Year)
	assert.Nil(t, out.Data.Color) // replaced, not patched
}

// multipartUpload builds a multipart request carrying one file under the
// carImage field with the given name and content type.
func multipartUpload(t *testing.T, h *CarHandler, id, filename, contentType string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="carImage"; filename="%s"`, filename))
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/cars/:id/upload", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, h.UploadImage(c))
	return rec
}

func TestUpload_RejectsDisallowedType(t *testing.T) {
	h := newCarHandler(t)
	id := createCar(t, h, validCar)

	rec := multipartUpload(t, h, fmt.Sprint(id), "notes.txt", "text/plain", []byte("hello"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// nothing was stored and the car is untouched
	_, err := os.Stat(h.UploadDir)
	assert.True(t, os.IsNotExist(err))

	get := callCar(t, h.GetByID, http.MethodGet, "/api/cars/:id", fmt.Sprint(id), "")
	var out struct {
		Data struct {
			ImageURL *string `json:"image_url"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(get.Body.Bytes(), &out))
	assert.Nil(t, out.Data.ImageURL)
}

func TestUpload_SizeCap(t *testing.T) {
	h := newCarHandler(t)
	id := createCar(t, h, validCar)

	// one byte over the 5 MiB cap is rejected before anything is stored
	rec := multipartUpload(t, h, fmt.Sprint(id), "big.jpg", "image/jpeg",
		bytes.Repeat([]byte{0xFF}, 5*1024*1024+1))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	_, err := os.Stat(h.UploadDir)
	assert.True(t, os.IsNotExist(err))

	// exactly 5 MiB is still within the limit
	rec = multipartUpload(t, h, fmt.Sprint(id), "ok.jpg", "image/jpeg",
		bytes.Repeat([]byte{0xFF}, 5*1024*1024))
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestUpload_AcceptsImageAndRecordsURL(t *testing.T) {
	h := newCarHandler(t)
	id := createCar(t, h, validCar)

	rec := multipartUpload(t, h, fmt.Sprint(id), "car.jpg", "image/jpeg", []byte{0xFF, 0xD8, 0xFF})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		Data struct {
			ID       uint64 `json:"id"`
			ImageURL string `json:"image_url"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, id, out.Data.ID)
	require.True(t, strings.HasPrefix(out.Data.ImageURL, "uploads/"))
	assert.True(t, strings.HasSuffix(out.Data.ImageURL, ".jpg"))

	// the file landed in the upload directory
	stored := filepath.Join(h.UploadDir, strings.TrimPrefix(out.Data.ImageURL, "uploads/"))
	_, err := os.Stat(stored)
	assert.NoError(t, err)
}

func TestUpload_NoFile(t *testing.T) {
	h := newCarHandler(t)
	id := createCar(t, h, validCar)

	rec := callCar(t, h.UploadImage, http.MethodPost, "/api/cars/:id/upload", fmt.Sprint(id), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpload_UnknownCar(t *testing.T) {
	h := newCarHandler(t)

	rec := multipartUpload(t, h, "4242", "car.png", "image/png", []byte{0x89, 0x50})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
