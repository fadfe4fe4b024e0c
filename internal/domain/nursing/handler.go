package nursing

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hospitalos/hospital/internal/platform/apperr"
	"github.com/hospitalos/hospital/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	write := api.Group("", auth.RequireRole(auth.RoleManager, auth.RoleDoctor, auth.RoleNurse))
	write.POST("/admissions/:id/nurses", h.Assign)
	write.DELETE("/admissions/:id/nurses/:assignmentId", h.Unassign)

	read := api.Group("", auth.RequireRole(auth.RoleManager, auth.RoleDoctor, auth.RoleNurse, auth.RoleAdmissionsClerk))
	read.GET("/admissions/:id/nurses", h.List)
	read.GET("/admissions/:id/view", h.View)
}

func (h *Handler) Assign(c echo.Context) error {
	admissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		NurseID uuid.UUID `json:"nurse_id"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if body.NurseID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "nurse_id is required")
	}
	actor := auth.ActorFromContext(c.Request().Context())
	assignment, err := h.svc.Assign(c.Request().Context(), actor, admissionID, body.NurseID)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, assignment)
}

func (h *Handler) Unassign(c echo.Context) error {
	admissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	assignmentID, err := uuid.Parse(c.Param("assignmentId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid assignment id")
	}
	actor := auth.ActorFromContext(c.Request().Context())
	view, err := h.svc.Unassign(c.Request().Context(), actor, admissionID, assignmentID)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) List(c echo.Context) error {
	admissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	actor := auth.ActorFromContext(c.Request().Context())
	assignments, err := h.svc.List(c.Request().Context(), actor, admissionID)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, assignments)
}

func (h *Handler) View(c echo.Context) error {
	admissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	actor := auth.ActorFromContext(c.Request().Context())
	view, err := h.svc.View(c.Request().Context(), actor, admissionID)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, view)
}
