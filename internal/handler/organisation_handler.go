package handler

import (
	"net/http"
	"time"

	"github.com/josiahuma/ovipoint/internal/auth"
	"github.com/josiahuma/ovipoint/internal/dto"
	"github.com/josiahuma/ovipoint/internal/middleware"
	"github.com/josiahuma/ovipoint/internal/service"
	"github.com/labstack/echo/v4"
)

type OrganisationHandler struct {
	orgService   service.OrganisationService
	eventService service.EventService
	secret       []byte
	now          func() time.Time
}

func NewOrganisationHandler(orgService service.OrganisationService, eventService service.EventService, secret []byte, now func() time.Time) *OrganisationHandler {
	if now == nil {
		now = time.Now
	}
	return &OrganisationHandler{
		orgService:   orgService,
		eventService: eventService,
		secret:       secret,
		now:          now,
	}
}

// Signup registers an organisation and returns a session for it, so the
// admin lands in the dashboard without a separate login round trip.
func (h *OrganisationHandler) Signup(c echo.Context) error {
	var req dto.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	org, err := h.orgService.Signup(c.Request().Context(), service.SignupInput{
		Name:            req.Name,
		Slug:            req.Slug,
		AdminEmail:      req.AdminEmail,
		Password:        req.Password,
		SMSContactPhone: req.SMSContactPhone,
	})
	if err != nil {
		return toHTTPError(err)
	}

	token, err := auth.CreateToken(h.secret, org.ID, org.Slug, org.AdminEmail, h.now())
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, dto.SessionResponse{
		Token:        token,
		Organisation: dto.ToOrganisationResponse(org, true),
	})
}

func (h *OrganisationHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	org, err := h.orgService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return toHTTPError(err)
	}

	token, err := auth.CreateToken(h.secret, org.ID, org.Slug, org.AdminEmail, h.now())
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.SessionResponse{
		Token:        token,
		Organisation: dto.ToOrganisationResponse(org, true),
	})
}

// Search powers the public organisation picker.
func (h *OrganisationHandler) Search(c echo.Context) error {
	orgs, err := h.orgService.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return toHTTPError(err)
	}

	out := make([]dto.OrganisationResponse, 0, len(orgs))
	for i := range orgs {
		out = append(out, dto.ToOrganisationResponse(&orgs[i], false))
	}
	return c.JSON(http.StatusOK, out)
}

// GetBySlug is the public landing view: the organisation plus its
// upcoming events.
func (h *OrganisationHandler) GetBySlug(c echo.Context) error {
	ctx := c.Request().Context()

	org, err := h.orgService.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		return toHTTPError(err)
	}

	events, err := h.eventService.ListUpcomingEvents(ctx, org.ID)
	if err != nil {
		return toHTTPError(err)
	}

	eventViews := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		eventViews = append(eventViews, dto.ToEventResponse(&events[i]))
	}
	return c.JSON(http.StatusOK, map[string]any{
		"organisation": dto.ToOrganisationResponse(org, false),
		"events":       eventViews,
	})
}

// Me returns the authenticated organisation with its private fields.
func (h *OrganisationHandler) Me(c echo.Context) error {
	org, err := h.orgService.GetByID(c.Request().Context(), middleware.OrganisationID(c))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToOrganisationResponse(org, true))
}

func (h *OrganisationHandler) UpdateSettings(c echo.Context) error {
	var req dto.UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	orgID := middleware.OrganisationID(c)
	if err := h.orgService.UpdateSMSPhone(c.Request().Context(), orgID, req.SMSContactPhone); err != nil {
		return toHTTPError(err)
	}

	org, err := h.orgService.GetByID(c.Request().Context(), orgID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToOrganisationResponse(org, true))
}
