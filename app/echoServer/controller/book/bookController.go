package book

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"bookrental/model"
	booksvc "bookrental/service/book"
	uploadsvc "bookrental/service/upload"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc    booksvc.Service
	Upload uploadsvc.Service
	V      *validator.Validate
	Log    *slog.Logger
}

// GET /books?search=&category=
func (h *Controller) List(c echo.Context) error {
	books, err := h.Svc.List(c.Request().Context(), c.QueryParam("search"), c.QueryParam("category"))
	if err != nil {
		h.Log.Error("book list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	if books == nil {
		books = []model.Book{}
	}
	return c.JSON(http.StatusOK, books)
}

// GET /books/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	b, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, booksvc.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		}
		h.Log.Error("book detail", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, b)
}

// POST /books  (admin)
func (h *Controller) Create(c echo.Context) error {
	b, err := h.bindPayload(c)
	if b == nil {
		return err
	}
	if err := h.Svc.Create(c.Request().Context(), b); err != nil {
		return h.writeErr(c, err, "book create")
	}
	return c.JSON(http.StatusCreated, b)
}

// PATCH /books/:id  (admin)
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	b, err := h.bindPayload(c)
	if b == nil {
		return err
	}
	b.ID = id
	if err := h.Svc.Update(c.Request().Context(), b); err != nil {
		return h.writeErr(c, err, "book update")
	}
	return c.JSON(http.StatusOK, b)
}

// DELETE /books/:id  (admin)
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		return h.writeErr(c, err, "book delete")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// POST /books/upload-cover  (admin, multipart)
func (h *Controller) UploadCover(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "file is required"})
	}
	src, err := fh.Open()
	if err != nil {
		h.Log.Error("cover open", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	defer src.Close()

	url, err := h.Upload.SaveImage(fh.Filename, fh.Size, src)
	if err != nil {
		switch {
		case errors.Is(err, uploadsvc.ErrTooLarge):
			return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"message": "cover must not exceed 2 MB"})
		case errors.Is(err, uploadsvc.ErrBadType):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "unsupported image type"})
		default:
			h.Log.Error("cover save", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"url": url})
}

// bindPayload returns a nil book when the response has already been
// written.
func (h *Controller) bindPayload(c echo.Context) (*model.Book, error) {
	var req BookPayload
	if err := c.Bind(&req); err != nil {
		return nil, c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return nil, c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	cover := req.CoverImage
	if req.CoverURL != "" {
		// Admin supplied a remote image instead of an upload.
		url, err := h.Upload.IngestURL(c.Request().Context(), req.CoverURL)
		if err != nil {
			h.Log.Warn("cover ingest", "url", req.CoverURL, "err", err)
			return nil, c.JSON(http.StatusBadRequest, echo.Map{"message": "could not fetch cover image"})
		}
		cover = url
	}

	return &model.Book{
		Title:       req.Title,
		Author:      req.Author,
		Category:    req.Category,
		Description: req.Description,
		CoverImage:  cover,
		Stock:       model.Stock{Total: req.Stock.Total, Available: req.Stock.Available},
		Pricing:     model.Pricing{Day3: req.Pricing.Day3, Day5: req.Pricing.Day5, Day7: req.Pricing.Day7},
	}, nil
}

func (h *Controller) writeErr(c echo.Context, err error, op string) error {
	switch {
	case errors.Is(err, booksvc.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
	case errors.Is(err, booksvc.ErrBadPricing),
		errors.Is(err, booksvc.ErrBadStock),
		errors.Is(err, booksvc.ErrBadInput):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	default:
		h.Log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}
