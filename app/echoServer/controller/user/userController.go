package user

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"bookrental/model"
	authsvc "bookrental/service/auth"
	usersvc "bookrental/service/user"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc usersvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /users/me
func (h *Controller) Me(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	u, err := h.Svc.Get(c.Request().Context(), uid)
	if err != nil {
		if errors.Is(err, usersvc.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
		}
		h.Log.Error("me", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, u)
}

// GET /users  (admin)
func (h *Controller) List(c echo.Context) error {
	users, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("user list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	if users == nil {
		users = []model.User{}
	}
	return c.JSON(http.StatusOK, users)
}

// GET /users/:id  (admin)
func (h *Controller) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	u, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, usersvc.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
		}
		h.Log.Error("user get", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, u)
}

// PATCH /users/:id  (owner or admin)
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)
	role, _ := c.Get("role").(string)
	if uid != id && role != "admin" {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}

	var req model.UpdateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	u, err := h.Svc.Update(c.Request().Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, usersvc.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
		case errors.Is(err, authsvc.ErrEmailTaken):
			return c.JSON(http.StatusConflict, echo.Map{"message": "email already registered"})
		case errors.Is(err, authsvc.ErrUsernameTaken):
			return c.JSON(http.StatusConflict, echo.Map{"message": "username already taken"})
		default:
			h.Log.Error("user update", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, u)
}
