package payment

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	paymentsvc "bookrental/service/payment"
	uploadsvc "bookrental/service/upload"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc       paymentsvc.Service
	UploadSvc uploadsvc.Service
	Log       *slog.Logger
}

// VerifyReq resolves one pending slip.
type VerifyReq struct {
	IsApproved bool `json:"is_approved"`
}

// POST /payment/upload  (multipart: rental_id, amount, file)
func (h *Controller) Upload(c echo.Context) error {
	rentalID, err := strconv.ParseInt(c.FormValue("rental_id"), 10, 64)
	if err != nil || rentalID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid rental_id"})
	}
	amount, err := strconv.ParseInt(c.FormValue("amount"), 10, 64)
	if err != nil || amount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid amount"})
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "slip image is required"})
	}

	src, err := fh.Open()
	if err != nil {
		h.Log.Error("slip open", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	defer src.Close()

	slipURL, err := h.UploadSvc.SaveImage(fh.Filename, fh.Size, src)
	if err != nil {
		switch {
		case errors.Is(err, uploadsvc.ErrTooLarge):
			return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"message": "slip must not exceed 2 MB"})
		case errors.Is(err, uploadsvc.ErrBadType):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "unsupported image type"})
		default:
			h.Log.Error("slip save", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	uid, _ := c.Get("user_id").(int64)
	p, err := h.Svc.SubmitSlip(c.Request().Context(), uid, rentalID, amount, slipURL)
	if err != nil {
		h.Log.Error("slip submit", "err", err)
		switch paymentsvc.Code(err) {
		case paymentsvc.ErrRentalNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "rental not found"})
		case paymentsvc.ErrNotOwner:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		case paymentsvc.ErrNotAllowed:
			return c.JSON(http.StatusConflict, echo.Map{"message": "rental is not awaiting payment"})
		case paymentsvc.ErrBadAmount:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid amount"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, p)
}

// GET /payment/pending?date=YYYY-MM-DD  (admin)
func (h *Controller) Pending(c echo.Context) error {
	date := time.Now()
	if s := c.QueryParam("date"); s != "" {
		var err error
		date, err = time.Parse("2006-01-02", s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid date, want YYYY-MM-DD"})
		}
	}
	rows, err := h.Svc.Pending(c.Request().Context(), date)
	if err != nil {
		h.Log.Error("payment pending", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	if rows == nil {
		rows = []paymentsvc.PendingRow{}
	}
	return c.JSON(http.StatusOK, rows)
}

// PATCH /payment/verify/:id  (admin)
func (h *Controller) Verify(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req VerifyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}

	if err := h.Svc.Verify(c.Request().Context(), id, req.IsApproved); err != nil {
		h.Log.Error("payment verify", "err", err)
		switch paymentsvc.Code(err) {
		case paymentsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "payment not found"})
		case paymentsvc.ErrNotAllowed:
			return c.JSON(http.StatusConflict, echo.Map{"message": "payment is not awaiting review"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "ok"})
}
