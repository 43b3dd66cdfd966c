package controllers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"campusconnect/internal/delivery/http/helpers"
	"campusconnect/internal/delivery/http/middleware"
	"campusconnect/internal/domain"
	"campusconnect/internal/export"
)

type AttendeeController struct {
	Logger  *slog.Logger
	Service domain.ExportService
}

func NewAttendeeController(logger *slog.Logger, svc domain.ExportService) *AttendeeController {
	return &AttendeeController{
		Logger:  logger,
		Service: svc,
	}
}

// ExportAttendees godoc
// @Summary Download the attendee report of a concluded event
// @Description Only the organizer that owns the event may export. The event must have concluded and at least one attendee must have checked in.
// @Tags attendees
// @Produce text/csv
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {file} binary "CSV attachment"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (event not concluded, or no attendees)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/attendees/export [get]
func (c *AttendeeController) ExportAttendees(w http.ResponseWriter, r *http.Request) {
	eventID, ok := eventIDParam(w, r)
	if !ok {
		return
	}
	report, err := c.Service.ExportAttendees(r.Context(), eventID, middleware.ActorFromContext(r.Context()))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, report.Records); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, fmt.Errorf("write csv: %w", err))
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
