package reporting

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/analytics"
	"github.com/clinic/clinic/internal/platform/auth"
)

// ReportSummary describes one available report tab.
type ReportSummary struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

type Handler struct {
	src  SnapshotSource
	opts analytics.Options
	now  func() time.Time
}

// NewHandler serves reports computed from src. opts supplies the revenue
// target and windows; its Now is replaced by the wall clock on every request.
func NewHandler(src SnapshotSource, opts analytics.Options) *Handler {
	return &Handler{src: src, opts: opts, now: time.Now}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/dashboard", h.Dashboard, auth.RequireCapability(auth.CapDashboard))

	g := api.Group("/reports", auth.RequireCapability(auth.CapReports))
	g.GET("", h.ListReports)
	g.GET("/:name", h.GetReport)
}

func (h *Handler) options(c echo.Context) (analytics.Options, error) {
	opts := h.opts
	opts.Now = h.now()
	if v := c.QueryParam("days"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days < 1 || days > 366 {
			return opts, echo.NewHTTPError(http.StatusBadRequest, "days must be between 1 and 366")
		}
		opts.RevenueDays = days
	}
	return opts, nil
}

func (h *Handler) ListReports(c echo.Context) error {
	out := make([]ReportSummary, 0, len(analytics.ReportNames))
	for _, name := range analytics.ReportNames {
		out = append(out, ReportSummary{Name: name, Path: c.Request().URL.Path + "/" + name})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) GetReport(c echo.Context) error {
	opts, err := h.options(c)
	if err != nil {
		return err
	}
	snap, err := h.src.Snapshot(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	report, err := analytics.BuildReport(c.Param("name"), snap, opts)
	if errors.Is(err, analytics.ErrUnknownReport) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"name":         c.Param("name"),
		"generated_at": opts.Now,
		"report":       report,
	})
}

func (h *Handler) Dashboard(c echo.Context) error {
	opts, err := h.options(c)
	if err != nil {
		return err
	}
	snap, err := h.src.Snapshot(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, analytics.BuildDashboard(snap, opts))
}
