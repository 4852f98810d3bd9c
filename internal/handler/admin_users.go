package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/haanng/pulse-survey/internal/config"
	"github.com/haanng/pulse-survey/internal/repository"
	"github.com/haanng/pulse-survey/internal/service"
	"github.com/haanng/pulse-survey/internal/utils"
)

// AdminUserHandler manages employee accounts.
type AdminUserHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Reporter *service.Reporter
}

func NewAdminUserHandler(cfg config.Config, users *repository.UserRepo, rep *service.Reporter) *AdminUserHandler {
	return &AdminUserHandler{Cfg: cfg, Users: users, Reporter: rep}
}

type createUserReq struct {
	EmployeeID string  `json:"employee_id"`
	Password   string  `json:"password"`
	FullName   string  `json:"full_name"`
	Department *string `json:"department"`
	Position   *string `json:"position"`
	Email      *string `json:"email"`
}
type updateUserReq struct {
	FullName   *string `json:"full_name"`
	Department *string `json:"department"`
	Position   *string `json:"position"`
	Email      *string `json:"email"`
	IsActive   *bool   `json:"is_active"`
}
type resetPasswordReq struct {
	NewPassword string `json:"new_password"`
}

// List returns all non-admin users with completion statistics.
func (h *AdminUserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	listing, err := h.Reporter.UserOverview(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, listing)
}

// Create registers a new employee account.
func (h *AdminUserHandler) Create(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.EmployeeID = strings.ToUpper(strings.TrimSpace(req.EmployeeID))
	req.FullName = strings.TrimSpace(req.FullName)
	if req.EmployeeID == "" || req.Password == "" || req.FullName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "employee_id/password/full_name required"})
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u := repository.User{
		EmployeeID:   req.EmployeeID,
		PasswordHash: hash,
		FullName:     req.FullName,
		Department:   req.Department,
		Position:     req.Position,
		Email:        req.Email,
		IsActive:     true,
	}
	if err := h.Users.CreateUser(ctx, &u); err != nil {
		if errors.Is(err, repository.ErrEmployeeIDExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "employee_id already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusCreated, u)
}

// Update patches the mutable fields of a user.
func (h *AdminUserHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	patch := repository.UserPatch{
		FullName:   req.FullName,
		Department: req.Department,
		Position:   req.Position,
		Email:      req.Email,
		IsActive:   req.IsActive,
	}
	if err := h.Users.UpdateUser(ctx, id, patch); err != nil {
		switch {
		case errors.Is(err, repository.ErrNoFields):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no fields to update"})
		case errors.Is(err, repository.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	u, err := h.Users.UserByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, u)
}

// Delete removes a user and, via cascading keys, their responses and
// progress.
func (h *AdminUserHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}

// ResetPassword sets a new password for a user without knowing the old one.
func (h *AdminUserHandler) ResetPassword(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := utils.ValidatePassword(req.NewPassword); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.SetPassword(ctx, id, hash); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password reset"})
}
