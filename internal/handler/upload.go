package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/car-listing-api/internal/repository"
)

// maxImageBytes caps uploads at 5 MiB; it is the only resource limit the
// API enforces.
const maxImageBytes = 5 * 1024 * 1024

var (
	allowedImageExts = map[string]bool{
		".jpeg": true, ".jpg": true, ".png": true, ".gif": true,
	}
	allowedImageMIMEs = map[string]bool{
		"image/jpeg": true, "image/jpg": true, "image/png": true, "image/gif": true,
	}
)

// UploadImage accepts a multipart image in the `carImage` field, stores it
// under the upload directory with a fresh collision-resistant name and
// records the resulting path on the car. Disallowed files are rejected
// before anything touches the disk or the store.
func (h *CarHandler) UploadImage(c echo.Context) error {
	id, ok := carID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
	}

	file, err := c.FormFile("carImage")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no file selected"})
	}
	if file.Size > maxImageBytes {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file exceeds the 5 MiB limit"})
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	mime := file.Header.Get("Content-Type")
	if !allowedImageExts[ext] || !allowedImageMIMEs[mime] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "only jpeg, jpg, png and gif images are allowed"})
	}

	name := uuid.NewString() + ext
	if err := saveUpload(file, filepath.Join(h.UploadDir, name)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store file failed"})
	}
	imageURL := "uploads/" + name

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Cars.SetImageURL(ctx, id, imageURL); err != nil {
		// The file is orphaned on a missing car; it never becomes reachable
		// through a listing, so it is left for an out-of-band cleanup.
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record image failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "image uploaded",
		"data":    echo.Map{"id": id, "image_url": imageURL},
	})
}

func saveUpload(file *multipart.FileHeader, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}
