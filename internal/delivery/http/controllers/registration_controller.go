package controllers

import (
	"log/slog"
	"net/http"
	"strconv"

	"campusconnect/internal/delivery/http/helpers"
	"campusconnect/internal/delivery/http/middleware"
	"campusconnect/internal/domain"
)

// RegistrationSuccessResponse is the success envelope for POST /events/{eventID}/registrations (200 or 201).
type RegistrationSuccessResponse struct {
	Data  *domain.Registration `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// RegistrationStatusResponse is the data of GET /events/{eventID}/registrations/me.
type RegistrationStatusResponse struct {
	Registered bool `json:"registered"`
}

// RegistrationStatusSuccessResponse is the success envelope for GET /events/{eventID}/registrations/me.
type RegistrationStatusSuccessResponse struct {
	Data  RegistrationStatusResponse `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

// ListRegistrationsResponse is the data of GET /registrations.
type ListRegistrationsResponse struct {
	Items      []*domain.Registration `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListRegistrationsSuccessResponse is the success envelope for GET /registrations.
type ListRegistrationsSuccessResponse struct {
	Data  ListRegistrationsResponse `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

// MyRegistrationsSuccessResponse is the success envelope for GET /registrations/mine.
type MyRegistrationsSuccessResponse struct {
	Data  []*domain.RegistrationWithEvent `json:"data"`
	Error *helpers.APIError               `json:"error"`
}

// TicketSuccessResponse is the success envelope for GET /registrations/{registrationID}/ticket.
type TicketSuccessResponse struct {
	Data  *domain.TicketPayload `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
	QR      domain.QREncoder
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService, qr domain.QREncoder) *RegistrationController {
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
		QR:      qr,
	}
}

// Register godoc
// @Summary Register the current student for an event
// @Description Students only. Idempotent: returns 201 when a new registration is created, 200 when already registered. Closed 15 minutes before the event starts.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.RegistrationSuccessResponse "Already registered"
// @Success 201 {object} controllers.RegistrationSuccessResponse "New registration created"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (including registration closed)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registrations [post]
func (c *RegistrationController) Register(w http.ResponseWriter, r *http.Request) {
	eventID, ok := eventIDParam(w, r)
	if !ok {
		return
	}
	reg, created, err := c.Service.Register(r.Context(), eventID, middleware.ActorFromContext(r.Context()))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	helpers.WriteJSONSuccess(w, status, reg)
}

// MyStatus godoc
// @Summary Whether the current user is registered for an event
// @Description Anonymous callers get registered=false.
// @Tags registrations
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.RegistrationStatusSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registrations/me [get]
func (c *RegistrationController) MyStatus(w http.ResponseWriter, r *http.Request) {
	eventID, ok := eventIDParam(w, r)
	if !ok {
		return
	}
	registered, err := c.Service.IsRegistered(r.Context(), eventID, middleware.ActorFromContext(r.Context()))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, RegistrationStatusResponse{Registered: registered})
}

// List godoc
// @Summary List registrations
// @Description Organizers see every registration; students see only their own.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param pageSize query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListRegistrationsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations [get]
func (c *RegistrationController) List(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	items, total, err := c.Service.ListVisible(r.Context(), middleware.ActorFromContext(r.Context()), params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if items == nil {
		items = []*domain.Registration{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListRegistrationsResponse{
		Items:      items,
		Pagination: helpers.NewPaginationMeta(params, total),
	})
}

// Mine godoc
// @Summary List the current user's registrations with their events
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.MyRegistrationsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/mine [get]
func (c *RegistrationController) Mine(w http.ResponseWriter, r *http.Request) {
	items, err := c.Service.ListMine(r.Context(), middleware.ActorFromContext(r.Context()))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if items == nil {
		items = []*domain.RegistrationWithEvent{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, items)
}

// Ticket godoc
// @Summary Get the ticket payload for a registration
// @Description Only the registered student may fetch their ticket.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param registrationID path string true "Registration ID"
// @Success 200 {object} controllers.TicketSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/{registrationID}/ticket [get]
func (c *RegistrationController) Ticket(w http.ResponseWriter, r *http.Request) {
	ticket, ok := c.ticket(w, r)
	if !ok {
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ticket)
}

// TicketPNG godoc
// @Summary Get the ticket QR code as a PNG
// @Tags registrations
// @Produce png
// @Security BearerAuth
// @Param registrationID path string true "Registration ID"
// @Param size query int false "Edge length in pixels (default 256)"
// @Success 200 {file} binary
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/{registrationID}/ticket.png [get]
func (c *RegistrationController) TicketPNG(w http.ResponseWriter, r *http.Request) {
	size := defaultQRSize
	if s := r.URL.Query().Get("size"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < minQRSize || v > maxQRSize {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "size must be between 64 and 1024")
			return
		}
		size = v
	}
	ticket, ok := c.ticket(w, r)
	if !ok {
		return
	}
	text, err := ticket.Encode()
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	png, err := c.QR.EncodePNG(text, size)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

const (
	defaultQRSize = 256
	minQRSize     = 64
	maxQRSize     = 1024
)

func (c *RegistrationController) ticket(w http.ResponseWriter, r *http.Request) (*domain.TicketPayload, bool) {
	registrationID := r.PathValue("registrationID")
	if registrationID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing registrationID")
		return nil, false
	}
	ticket, err := c.Service.Ticket(r.Context(), registrationID, middleware.ActorFromContext(r.Context()))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return nil, false
	}
	return ticket, true
}
