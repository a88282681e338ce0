package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dinex/webclock/internal/config"
	"github.com/dinex/webclock/internal/model"
	"github.com/dinex/webclock/internal/repository"
	"github.com/dinex/webclock/internal/utils"
)

// AuthHandler serves employee and admin logins. A failed login is a business
// outcome ({success:false}), never a 401, because the kiosk front-end renders
// the flag directly.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserStore
}

func NewAuthHandler(cfg config.Config, users *repository.UserStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users}
}

type loginReq struct {
	Usuario    string `json:"usuario"`
	Contrasena string `json:"contrasena"`
}

type adminLoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /login for employees. On success the response carries
// the department (the front-end pre-selects it) and a token for authenticated
// follow-up calls.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false})
	}
	u, ok := h.Users.Authenticate(strings.TrimSpace(req.Usuario), req.Contrasena)
	if !ok {
		return c.JSON(http.StatusOK, echo.Map{"success": false})
	}
	role := u.Rol
	if role == "" {
		role = model.RolEmpleado
	}
	tok, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.Usuario, role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"departamento": u.Departamento,
		"token":        tok.Token,
	})
}

// AdminLogin handles POST /admin-login. Only accounts carrying the ADMIN role
// receive a token; the token is what the admin console sends on every
// mutating endpoint.
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	var req adminLoginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false})
	}
	u, ok := h.Users.Authenticate(strings.TrimSpace(req.Username), req.Password)
	if !ok || !u.IsAdmin() {
		return c.JSON(http.StatusOK, echo.Map{"success": false})
	}
	tok, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.Usuario, model.RolAdmin, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "token": tok.Token})
}
