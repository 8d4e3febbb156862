package rental

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	rs "bookrental/service/rental"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc rs.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /rentals/rent
func (h *Controller) Rent(c echo.Context) error {
	var req RentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	uid, _ := c.Get("user_id").(int64)

	out, err := h.Svc.Rent(c.Request().Context(), uid, req.BookID, req.Days)
	if err != nil {
		h.Log.Error("rental rent", "err", err)
		switch rs.Code(err) {
		case rs.ErrNoStock:
			return c.JSON(http.StatusConflict, echo.Map{"message": "no stock available"})
		case rs.ErrBookNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		case rs.ErrInvalidDays:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "duration must be 3, 5 or 7 days"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, out)
}

// PATCH /rentals/:id/cancel
func (h *Controller) Cancel(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	if err := h.Svc.Cancel(c.Request().Context(), uid, id); err != nil {
		h.Log.Error("rental cancel", "err", err)
		switch rs.Code(err) {
		case rs.ErrNotOwner:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		case rs.ErrNotAllowed:
			return c.JSON(http.StatusConflict, echo.Map{"message": "only booked rentals can be cancelled"})
		case rs.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "rental not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "cancelled"})
}

// PATCH /rentals/:id/pickup  (admin)
func (h *Controller) Pickup(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Pickup(c.Request().Context(), id); err != nil {
		h.Log.Error("rental pickup", "err", err)
		switch rs.Code(err) {
		case rs.ErrNotAllowed:
			return c.JSON(http.StatusConflict, echo.Map{"message": "rental must be booked and paid"})
		case rs.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "rental not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "picked up"})
}

// PATCH /rentals/:id/return  (admin)
func (h *Controller) Return(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	fine, err := h.Svc.Return(c.Request().Context(), id)
	if err != nil {
		h.Log.Error("rental return", "err", err)
		switch rs.Code(err) {
		case rs.ErrNotAllowed:
			return c.JSON(http.StatusConflict, echo.Map{"message": "rental not rented"})
		case rs.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "rental not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "returned", "fine": fine})
}

// GET /rentals/my-history
func (h *Controller) MyHistory(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.MyHistory(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("history", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /rentals/history/:userId  (admin)
func (h *Controller) UserHistory(c echo.Context) error {
	uid, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil || uid <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid user id"})
	}
	rows, err := h.Svc.UserHistory(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("user history", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /rentals/dashboard?date=YYYY-MM-DD  (admin)
func (h *Controller) Dashboard(c echo.Context) error {
	date, err := parseDate(c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid date, want YYYY-MM-DD"})
	}
	rows, summary, err := h.Svc.Dashboard(c.Request().Context(), date)
	if err != nil {
		h.Log.Error("dashboard", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	if rows == nil {
		rows = []rs.DashboardRow{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"transactions": rows,
		"summaryData":  summary,
	})
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	return time.Parse("2006-01-02", s)
}
