package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"campusconnect/internal/delivery/http/helpers"
	"campusconnect/internal/domain"
)

// The content endpoints answer with bare JSON bodies rather than the data/error envelope.
const (
	msgDescriptionFailed = "Failed to generate event description. Please try again."
	msgBannerFailed      = "Failed to generate banner"
	msgInvalidBody       = "Invalid JSON body"
)

// GenerateDescriptionRequest is the request body for POST /api/generate-description.
type GenerateDescriptionRequest struct {
	EventTitle     string   `json:"eventTitle"`
	EventType      string   `json:"eventType"`
	KeyPoints      []string `json:"keyPoints"`
	TargetAudience string   `json:"targetAudience"`
	Duration       string   `json:"duration"`
	Location       string   `json:"location"`
}

// GenerateBannerRequest is the request body for POST /api/generate-banner.
type GenerateBannerRequest struct {
	EventTitle  string `json:"eventTitle"`
	EventType   string `json:"eventType"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Date        string `json:"date"`
	ColorScheme string `json:"colorScheme"` // vibrant, professional (default), academic or creative
}

// ContentErrorResponse is the body of every failed content request.
type ContentErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// GenerateBannerResponse is the body of a successful POST /api/generate-banner.
type GenerateBannerResponse struct {
	Success bool                    `json:"success"`
	Banner  *domain.GeneratedBanner `json:"banner"`
}

type ContentController struct {
	Logger  *slog.Logger
	Service domain.ContentService
}

func NewContentController(logger *slog.Logger, svc domain.ContentService) *ContentController {
	return &ContentController{
		Logger:  logger,
		Service: svc,
	}
}

func decodeContent(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, helpers.MaxBodyBytes)).Decode(dest); err != nil {
		helpers.WriteJSON(w, http.StatusBadRequest, ContentErrorResponse{Error: msgInvalidBody})
		return false
	}
	return true
}

// GenerateDescription godoc
// @Summary Generate an event description
// @Description Sends the event details to the text model. Blank key points are ignored.
// @Tags content
// @Accept json
// @Produce json
// @Param body body GenerateDescriptionRequest true "Event details"
// @Success 200 {object} domain.GeneratedDescription
// @Failure 400 {object} controllers.ContentErrorResponse
// @Failure 500 {object} controllers.ContentErrorResponse
// @Router /api/generate-description [post]
func (c *ContentController) GenerateDescription(w http.ResponseWriter, r *http.Request) {
	var req GenerateDescriptionRequest
	if !decodeContent(w, r, &req) {
		return
	}
	out, err := c.Service.GenerateDescription(r.Context(), domain.DescriptionRequest{
		Title:          req.EventTitle,
		Type:           req.EventType,
		TargetAudience: req.TargetAudience,
		Duration:       req.Duration,
		Location:       req.Location,
		KeyPoints:      req.KeyPoints,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSON(w, http.StatusBadRequest, ContentErrorResponse{Error: err.Error()})
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSON(w, http.StatusInternalServerError, ContentErrorResponse{Error: msgDescriptionFailed})
		return
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}

// GenerateBanner godoc
// @Summary Generate an event banner
// @Description The text model turns the event details into a design prompt, which is rendered into an image URL.
// @Tags content
// @Accept json
// @Produce json
// @Param body body GenerateBannerRequest true "Event details"
// @Success 200 {object} controllers.GenerateBannerResponse
// @Failure 400 {object} controllers.ContentErrorResponse
// @Failure 500 {object} controllers.ContentErrorResponse
// @Router /api/generate-banner [post]
func (c *ContentController) GenerateBanner(w http.ResponseWriter, r *http.Request) {
	var req GenerateBannerRequest
	if !decodeContent(w, r, &req) {
		return
	}
	banner, err := c.Service.GenerateBanner(r.Context(), domain.BannerRequest{
		Title:       req.EventTitle,
		Type:        req.EventType,
		Description: req.Description,
		Location:    req.Location,
		Date:        req.Date,
		ColorScheme: domain.ColorScheme(req.ColorScheme),
	})
	switch {
	case err == nil:
		helpers.WriteJSON(w, http.StatusOK, GenerateBannerResponse{Success: true, Banner: banner})
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSON(w, http.StatusBadRequest, ContentErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		c.Logger.ErrorContext(r.Context(), "AI credential not configured", "path", r.URL.Path)
		helpers.WriteJSON(w, http.StatusInternalServerError, ContentErrorResponse{Error: domain.ErrUpstreamUnavailable.Error()})
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSON(w, http.StatusInternalServerError, ContentErrorResponse{Error: msgBannerFailed, Details: err.Error()})
	}
}
