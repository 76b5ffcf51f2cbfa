package handler

import (
	"net/http"

	"github.com/faroemiliano/backBarberia1991/internal/dto"
	"github.com/faroemiliano/backBarberia1991/internal/service"
	"github.com/labstack/echo/v4"
)

type ServiceHandler struct {
	catalog service.CatalogService
}

func NewServiceHandler(catalog service.CatalogService) *ServiceHandler {
	return &ServiceHandler{catalog: catalog}
}

func (h *ServiceHandler) RegisterRoutes(e *echo.Echo, mw Middlewares) {
	e.GET("/api/v1/services", h.ListActive)

	admin := mw.adminGroup(e)
	admin.GET("/services", h.ListAll)
	admin.POST("/services", h.Create)
	admin.PATCH("/services/:id", h.Update)
	admin.POST("/services/seed", h.Seed)
}

func (h *ServiceHandler) ListActive(c echo.Context) error {
	return h.list(c, true)
}

func (h *ServiceHandler) ListAll(c echo.Context) error {
	return h.list(c, false)
}

func (h *ServiceHandler) list(c echo.Context, onlyActive bool) error {
	services, err := h.catalog.List(c.Request().Context(), onlyActive)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToServiceResponses(services))
}

func (h *ServiceHandler) Create(c echo.Context) error {
	var req dto.CreateServiceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	svc, err := h.catalog.Create(c.Request().Context(), req.Name, req.Price)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToServiceResponse(svc))
}

func (h *ServiceHandler) Update(c echo.Context) error {
	id, err := parseID(c, "service")
	if err != nil {
		return err
	}
	var req dto.UpdateServiceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	svc, err := h.catalog.Update(c.Request().Context(), id, service.ServiceUpdate{
		Name:   req.Name,
		Price:  req.Price,
		Active: req.Active,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToServiceResponse(svc))
}

func (h *ServiceHandler) Seed(c echo.Context) error {
	res, err := h.catalog.Seed(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, res)
}
