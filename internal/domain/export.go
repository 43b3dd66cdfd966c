package domain

import "context"

// AttendeeRecord is one flattened row of an attendee export.
type AttendeeRecord struct {
	Name             string
	Email            string
	StudentID        string
	RegistrationDate string
	CheckedInAt      string
	EventTitle       string
	EventDate        string
	EventTime        string
	Location         string
}

// AttendeeExport is the report for one concluded event.
type AttendeeExport struct {
	Filename string
	Records  []AttendeeRecord
}

// ExportService builds attendee reports for event organizers.
type ExportService interface {
	ExportAttendees(ctx context.Context, eventID string, actor *Actor) (*AttendeeExport, error)
}
