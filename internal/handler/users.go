package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dinex/webclock/internal/model"
	"github.com/dinex/webclock/internal/repository"
)

// UserHandler covers the admin lifecycle of employee accounts: create,
// deactivate, soft-delete, reactivate and credential reset. Deletion is
// always a soft state transition so the reporting history keeps its names.
type UserHandler struct {
	Users *repository.UserStore
}

func NewUserHandler(users *repository.UserStore) *UserHandler {
	return &UserHandler{Users: users}
}

type createUserReq struct {
	Nombre       string `json:"nombre"`
	Usuario      string `json:"usuario"`
	Contrasena   string `json:"contrasena"`
	Departamento string `json:"departamento"`
}

type userNameReq struct {
	Usuario string `json:"usuario"`
}

type resetPasswordReq struct {
	Usuario    string `json:"usuario"`
	Contrasena string `json:"contrasena"`
}

// Create handles POST /create-user.
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "mensaje": "Cuerpo de solicitud inválido."})
	}
	if strings.TrimSpace(req.Usuario) == "" || req.Contrasena == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "mensaje": "Usuario y contraseña son obligatorios."})
	}
	err := h.Users.Create(req.Nombre, req.Usuario, req.Contrasena, req.Departamento, model.RolEmpleado)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return c.JSON(http.StatusOK, echo.Map{"success": false, "mensaje": "Usuario ya existe."})
		}
		log.Printf("users: create failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "mensaje": "No se pudo crear el usuario."})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "mensaje": "Usuario creado correctamente."})
}

// Deactivate handles POST /deactivate-user.
func (h *UserHandler) Deactivate(c echo.Context) error {
	return h.lifecycle(c, h.Users.Deactivate)
}

// Delete handles POST /delete-user (soft delete).
func (h *UserHandler) Delete(c echo.Context) error {
	return h.lifecycle(c, h.Users.SoftDelete)
}

// Activate handles POST /activate-user.
func (h *UserHandler) Activate(c echo.Context) error {
	return h.lifecycle(c, h.Users.Reactivate)
}

// ResetPassword handles POST /reset-password.
func (h *UserHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil || req.Usuario == "" || req.Contrasena == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false})
	}
	if err := h.Users.ResetPassword(req.Usuario, req.Contrasena); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusOK, echo.Map{"success": false, "mensaje": "Usuario no encontrado"})
		}
		log.Printf("users: reset password failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *UserHandler) lifecycle(c echo.Context, op func(usuario string) error) error {
	var req userNameReq
	if err := c.Bind(&req); err != nil || req.Usuario == "" {
		return c.JSON(http.StatusOK, echo.Map{"success": false})
	}
	if err := op(req.Usuario); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusOK, echo.Map{"success": false, "mensaje": "Usuario no encontrado"})
		}
		log.Printf("users: lifecycle op failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
