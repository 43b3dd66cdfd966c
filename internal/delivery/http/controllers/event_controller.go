package controllers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"campusconnect/internal/delivery/http/helpers"
	"campusconnect/internal/delivery/http/middleware"
	"campusconnect/internal/domain"
)

// BannerRequest is an optional generated banner attached to an event.
type BannerRequest struct {
	URL    string `json:"url"`
	Prompt string `json:"prompt"`
}

func (b *BannerRequest) toDomain() *domain.Banner {
	if b == nil {
		return nil
	}
	return &domain.Banner{URL: strings.TrimSpace(b.URL), Prompt: b.Prompt}
}

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Date        string         `json:"date"`    // YYYY-MM-DD
	Time        string         `json:"time"`    // HH:MM
	EndTime     string         `json:"endTime"` // optional HH:MM
	Location    string         `json:"location"`
	Category    string         `json:"category"`
	Banner      *BannerRequest `json:"banner"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if c.Banner != nil && strings.TrimSpace(c.Banner.URL) == "" {
		errs = append(errs, "banner.url is required when banner is set")
	}
	return errs
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}. All fields optional; omitted fields are unchanged.
type UpdateEventRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Date        *string        `json:"date"`
	Time        *string        `json:"time"`
	EndTime     *string        `json:"endTime"`
	Location    *string        `json:"location"`
	Category    *string        `json:"category"`
	Banner      *BannerRequest `json:"banner"`
	ClearBanner bool           `json:"clearBanner"`
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Banner != nil && u.ClearBanner {
		errs = append(errs, "banner and clearBanner are mutually exclusive")
	}
	if u.Banner != nil && strings.TrimSpace(u.Banner.URL) == "" {
		errs = append(errs, "banner.url is required when banner is set")
	}
	return errs
}

// EventSuccessResponse is the success envelope for endpoints returning one event.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventListSuccessResponse is the success envelope for event listings.
type EventListSuccessResponse struct {
	Data  []*domain.Event   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// RegistrationCountResponse is the data of GET /events/{eventID}/registrations/count.
type RegistrationCountResponse struct {
	EventID string `json:"eventId"`
	Count   int    `json:"count"`
}

// RegistrationCountSuccessResponse is the success envelope for GET /events/{eventID}/registrations/count.
type RegistrationCountSuccessResponse struct {
	Data  RegistrationCountResponse `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// ListEvents godoc
// @Summary List events
// @Description Without a view, all events newest first. view=upcoming returns events that have not concluded in ascending order; view=past returns concluded events newest first.
// @Tags events
// @Produce json
// @Param view query string false "upcoming or past"
// @Success 200 {object} controllers.EventListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	view := domain.EventView(strings.ToLower(r.URL.Query().Get("view")))
	events, err := c.Service.ListEvents(r.Context(), view)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// ListCalendar godoc
// @Summary List the events of one month
// @Tags events
// @Produce json
// @Param year query int true "Year, e.g. 2025"
// @Param month query int true "Month 1-12"
// @Success 200 {object} controllers.EventListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/calendar [get]
func (c *EventController) ListCalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "year must be an integer")
		return
	}
	month, err := strconv.Atoi(q.Get("month"))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "month must be an integer")
		return
	}
	events, err := c.Service.ListEventsByMonth(r.Context(), year, time.Month(month))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Organizers only. The authenticated organizer becomes the event owner. endTime and banner are optional.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.CreateEvent(r.Context(), domain.EventInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		EndTime:     req.EndTime,
		Location:    req.Location,
		Category:    req.Category,
		Banner:      req.Banner.toDomain(),
	}, middleware.ActorFromContext(r.Context()))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// GetEventByID godoc
// @Summary Get an event by ID
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEventByID(w http.ResponseWriter, r *http.Request) {
	eventID, ok := eventIDParam(w, r)
	if !ok {
		return
	}
	event, err := c.Service.GetEventByID(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Partially update an event. Only the organizer that owns it may update; the organizer contact never changes.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body UpdateEventRequest true "Fields to update"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := eventIDParam(w, r)
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), eventID, domain.EventUpdate{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		EndTime:     req.EndTime,
		Location:    req.Location,
		Category:    req.Category,
		Banner:      req.Banner.toDomain(),
		ClearBanner: req.ClearBanner,
	}, middleware.ActorFromContext(r.Context()))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// RegistrationCount godoc
// @Summary Count registrations for an event
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.RegistrationCountSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registrations/count [get]
func (c *EventController) RegistrationCount(w http.ResponseWriter, r *http.Request) {
	eventID, ok := eventIDParam(w, r)
	if !ok {
		return
	}
	n, err := c.Service.RegistrationCount(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, RegistrationCountResponse{EventID: eventID, Count: n})
}
