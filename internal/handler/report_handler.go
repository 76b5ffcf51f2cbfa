package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/faroemiliano/backBarberia1991/internal/schedule"
	"github.com/faroemiliano/backBarberia1991/internal/service"
	"github.com/labstack/echo/v4"
)

type ReportHandler struct {
	reports service.ReportService
	loc     *time.Location
	now     func() time.Time
}

func NewReportHandler(reports service.ReportService, loc *time.Location) *ReportHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportHandler{reports: reports, loc: loc, now: time.Now}
}

func (h *ReportHandler) RegisterRoutes(e *echo.Echo, mw Middlewares) {
	g := mw.adminGroup(e).Group("/reports")
	g.GET("/revenue", h.Revenue)
	g.GET("/revenue/by-service", h.RevenueByService)
	g.GET("/revenue/detail", h.Detail)
	g.GET("/attendance/daily", h.DailyAttendance)
	g.GET("/attendance/monthly", h.MonthlyAttendance)
}

func (h *ReportHandler) today() time.Time {
	return schedule.Day(h.now().In(h.loc))
}

// periodParams reads ?period= (default day) and ?anchor= (default today).
func (h *ReportHandler) periodParams(c echo.Context) (string, time.Time, error) {
	kind := c.QueryParam("period")
	if kind == "" {
		kind = string(service.PeriodDay)
	}
	anchor, err := dateParam(c, "anchor")
	if err != nil {
		return "", time.Time{}, err
	}
	if anchor == nil {
		t := h.today()
		anchor = &t
	}
	return kind, *anchor, nil
}

func (h *ReportHandler) Revenue(c echo.Context) error {
	kind, anchor, err := h.periodParams(c)
	if err != nil {
		return err
	}
	rep, err := h.reports.Revenue(c.Request().Context(), kind, anchor)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, rep)
}

func (h *ReportHandler) RevenueByService(c echo.Context) error {
	kind, anchor, err := h.periodParams(c)
	if err != nil {
		return err
	}
	rep, err := h.reports.RevenueByService(c.Request().Context(), kind, anchor)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, rep)
}

func (h *ReportHandler) Detail(c echo.Context) error {
	date, err := dateParam(c, "date")
	if err != nil {
		return err
	}
	if date == nil {
		t := h.today()
		date = &t
	}
	lines, err := h.reports.Detail(c.Request().Context(), *date, c.QueryParam("service"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, lines)
}

func (h *ReportHandler) DailyAttendance(c echo.Context) error {
	month := h.today()
	if raw := c.QueryParam("month"); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "month must be YYYY-MM")
		}
		month = parsed
	}
	rows, err := h.reports.DailyAttendance(c.Request().Context(), month.Year(), month.Month())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *ReportHandler) MonthlyAttendance(c echo.Context) error {
	year := h.today().Year()
	if raw := c.QueryParam("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "year must be a number")
		}
		year = y
	}
	rows, err := h.reports.MonthlyAttendance(c.Request().Context(), year)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, rows)
}
