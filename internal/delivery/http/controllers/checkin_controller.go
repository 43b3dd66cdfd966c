package controllers

import (
	"errors"
	"image"
	_ "image/jpeg" // register decoder for uploaded scans
	_ "image/png"
	"log/slog"
	"net/http"
	"strings"

	"campusconnect/internal/delivery/http/helpers"
	"campusconnect/internal/delivery/http/middleware"
	"campusconnect/internal/domain"
)

// maxScanBytes caps uploaded scan images.
const maxScanBytes = 5 << 20

// CheckInRequest is the request body for POST /checkins.
type CheckInRequest struct {
	Payload string `json:"payload"` // raw text read from the ticket QR code
}

// Validate implements Validator.
func (c CheckInRequest) Validate() []string {
	if strings.TrimSpace(c.Payload) == "" {
		return []string{"payload is required"}
	}
	return nil
}

// CheckInSuccessResponse is the success envelope for check-in endpoints. Every
// verification outcome, including invalid tickets, is returned with 200.
type CheckInSuccessResponse struct {
	Data  *domain.CheckInResult `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

type CheckInController struct {
	Logger  *slog.Logger
	Service domain.AttendanceService
}

func NewCheckInController(logger *slog.Logger, svc domain.AttendanceService) *CheckInController {
	return &CheckInController{
		Logger:  logger,
		Service: svc,
	}
}

// CheckIn godoc
// @Summary Verify a scanned ticket and check the attendee in
// @Description Organizers only. The outcome is one of valid, already_scanned, event_not_active or invalid.
// @Tags checkins
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CheckInRequest true "Scanned ticket text"
// @Success 200 {object} controllers.CheckInSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /checkins [post]
func (c *CheckInController) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req CheckInRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Service.Verify(r.Context(), req.Payload, middleware.ActorFromContext(r.Context()))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// CheckInImage godoc
// @Summary Verify a ticket from a photo of its QR code
// @Description Organizers only. Accepts a PNG or JPEG in the multipart field "image". An unreadable code yields outcome invalid, reason malformed.
// @Tags checkins
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param image formData file true "PNG or JPEG containing the ticket QR code"
// @Success 200 {object} controllers.CheckInSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /checkins/image [post]
func (c *CheckInController) CheckInImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxScanBytes)
	if err := r.ParseMultipartForm(maxScanBytes); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid multipart form")
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "image is required")
			return
		}
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid image upload")
		return
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "image must be a PNG or JPEG")
		return
	}
	result, err := c.Service.VerifyImage(r.Context(), img, middleware.ActorFromContext(r.Context()))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}
