package handler

import (
	"net/http"

	"github.com/faroemiliano/backBarberia1991/internal/dto"
	"github.com/faroemiliano/backBarberia1991/internal/middleware"
	"github.com/faroemiliano/backBarberia1991/internal/service"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	svc service.AuthService
}

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo, mw Middlewares) {
	g := e.Group("/api/v1/auth")
	g.POST("/register", h.Register, mw.limited()...)
	g.POST("/login", h.Login, mw.limited()...)
	g.POST("/google", h.Google, mw.limited()...)
	g.GET("/me", h.Me, mw.Auth)
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.svc.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToAuthResponse(res))
}

func (h *AuthHandler) Google(c echo.Context) error {
	var req dto.GoogleLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.svc.GoogleLogin(c.Request().Context(), req.Credential)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToAuthResponse(res))
}

func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, service.ErrUnauthenticated.Error())
	}
	user, err := h.svc.Me(c.Request().Context(), userID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToUserResponse(user))
}
