// Package export renders attendee reports as CSV.
package export

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"campusconnect/internal/domain"
)

// Header is the first row of every attendee report.
var Header = []string{
	"Name", "Email", "Student ID", "Registration Date", "Checked In At",
	"Event Title", "Event Date", "Event Time", "Location",
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Filename returns "{title}_attendees_{date}.csv" with the title lowercased and
// every run of characters outside [a-z0-9] collapsed to "_".
func Filename(title, date string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(title), "_"), "_")
	return slug + "_attendees_" + date + ".csv"
}

// WriteCSV writes the header and one row per record. Every field is quoted and
// embedded quotes are doubled. Rows end with "\n".
func WriteCSV(w io.Writer, records []domain.AttendeeRecord) error {
	bw := bufio.NewWriter(w)
	writeRow(bw, Header)
	for _, r := range records {
		writeRow(bw, []string{
			r.Name, r.Email, r.StudentID, r.RegistrationDate, r.CheckedInAt,
			r.EventTitle, r.EventDate, r.EventTime, r.Location,
		})
	}
	return bw.Flush()
}

func writeRow(w *bufio.Writer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(f, `"`, `""`))
		w.WriteByte('"')
	}
	w.WriteByte('\n')
}
