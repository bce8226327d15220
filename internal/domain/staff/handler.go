package staff

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/staff")
	g.GET("", h.ListStaff, auth.RequireCapability(auth.CapManageStaff))
	g.GET("/:id", h.GetStaff, auth.RequireCapability(auth.CapManageStaff))
	g.PUT("/:id", h.UpdateProfile, auth.RequireCapability(auth.CapManageStaff))
	g.PUT("/:id/role", h.UpdateRole, auth.RequireCapability(auth.CapManageStaff))
	g.GET("/:id/cases", h.Cases, auth.RequireCapability(auth.CapCases))

	me := api.Group("/me", authenticated)
	me.GET("", h.Me)
	me.PUT("", h.UpdateMe)
	me.GET("/menu", h.Menu)
}

func authenticated(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if auth.ActorFromContext(c.Request().Context()).ID == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
		}
		return next(c)
	}
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func (h *Handler) ListStaff(c echo.Context) error {
	items, err := h.svc.ListStaff(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	if items == nil {
		items = []*Profile{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) GetStaff(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.GetStaff(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return h.updateProfile(c, id)
}

func (h *Handler) updateProfile(c echo.Context, id uuid.UUID) error {
	var p Profile
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = id
	ctx := c.Request().Context()
	if err := h.svc.UpdateProfile(ctx, auth.ActorFromContext(ctx), &p); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) UpdateRole(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Role auth.Role `json:"role"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()
	p, err := h.svc.UpdateRole(ctx, auth.ActorFromContext(ctx), id, body.Role)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Cases(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	cases, err := h.svc.CasesForStaff(ctx, auth.ActorFromContext(ctx), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, cases)
}

func (h *Handler) Me(c echo.Context) error {
	actor := auth.ActorFromContext(c.Request().Context())
	id, err := uuid.Parse(actor.ID)
	if err != nil {
		// Tokens not backed by a stored profile still get their identity back.
		return c.JSON(http.StatusOK, actor)
	}
	p, err := h.svc.GetStaff(c.Request().Context(), id)
	if errors.Is(err, ErrNotFound) {
		return c.JSON(http.StatusOK, actor)
	}
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) UpdateMe(c echo.Context) error {
	id, err := uuid.Parse(auth.ActorFromContext(c.Request().Context()).ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, ErrNotFound.Error())
	}
	return h.updateProfile(c, id)
}

func (h *Handler) Menu(c echo.Context) error {
	actor := auth.ActorFromContext(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]interface{}{
		"role":  actor.Role,
		"items": auth.MenuFor(actor.Role),
	})
}
