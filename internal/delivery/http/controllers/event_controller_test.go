package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"campusconnect/internal/delivery/http/helpers"
	"campusconnect/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent() *domain.Event {
	return &domain.Event{
		ID:        testEventID,
		Title:     "Go Night",
		Date:      "2025-07-15",
		Time:      "10:00",
		Location:  "Hall A",
		Category:  "Workshop",
		Organizer: domain.Organizer{Name: "Olivia", Contact: "olivia@campus.edu"},
	}
}

func TestEventController_ListEvents(t *testing.T) {
	fake := &fakeEventService{events: []*domain.Event{sampleEvent()}}
	ctrl := NewEventController(discardLogger, fake)
	req := httptest.NewRequest(http.MethodGet, "/events?view=Upcoming", nil)
	rr := httptest.NewRecorder()

	ctrl.ListEvents(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var events []*domain.Event
	require.Nil(t, decodeEnvelope(t, rr, &events))
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventViewUpcoming, fake.lastView)
}

func TestEventController_ListEvents_UnknownView(t *testing.T) {
	fake := &fakeEventService{err: fmt.Errorf("%w: unknown view", domain.ErrInvalidInput)}
	ctrl := NewEventController(discardLogger, fake)
	rr := httptest.NewRecorder()

	ctrl.ListEvents(rr, httptest.NewRequest(http.MethodGet, "/events?view=soon", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestEventController_ListCalendar(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{"valid", "?year=2025&month=7", http.StatusOK},
		{"missing year", "?month=7", http.StatusBadRequest},
		{"bad month", "?year=2025&month=july", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEventService{}
			ctrl := NewEventController(discardLogger, fake)
			rr := httptest.NewRecorder()

			ctrl.ListCalendar(rr, httptest.NewRequest(http.MethodGet, "/events/calendar"+tt.query, nil))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, 2025, fake.lastYear)
				assert.Equal(t, time.July, fake.lastMonth)
			}
		})
	}
}

func TestEventController_CreateEvent(t *testing.T) {
	body := `{"title":"Go Night","description":"Talks","date":"2025-07-15","time":"10:00","endTime":"12:00","location":"Hall A","category":"Workshop","banner":{"url":"https://img/x.png","prompt":"p"}}`

	tests := []struct {
		name         string
		body         string
		actor        *domain.Actor
		fakeErr      error
		wantStatus   int
		wantBodyCode string
	}{
		{name: "success", body: body, actor: organizer, wantStatus: http.StatusCreated},
		{name: "anonymous", body: body, fakeErr: domain.ErrUnauthenticated, wantStatus: http.StatusUnauthorized, wantBodyCode: helpers.ErrCodeUnauthorized},
		{name: "student", body: body, actor: student, fakeErr: fmt.Errorf("%w: organizers only", domain.ErrForbidden), wantStatus: http.StatusForbidden, wantBodyCode: helpers.ErrCodeForbidden},
		{name: "banner without url", body: `{"title":"x","banner":{"prompt":"p"}}`, actor: organizer, wantStatus: http.StatusBadRequest, wantBodyCode: helpers.ErrCodeBadRequest},
		{name: "unknown field", body: `{"title":"x","organizer":"me"}`, actor: organizer, wantStatus: http.StatusBadRequest, wantBodyCode: helpers.ErrCodeBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEventService{event: sampleEvent(), err: tt.fakeErr}
			ctrl := NewEventController(discardLogger, fake)
			req := withActor(httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(tt.body)), tt.actor)
			rr := httptest.NewRecorder()

			ctrl.CreateEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var ev domain.Event
			apiErr := decodeEnvelope(t, rr, &ev)
			if tt.wantBodyCode != "" {
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantBodyCode, apiErr.Code)
				return
			}
			assert.Equal(t, testEventID, ev.ID)
			assert.Equal(t, "12:00", fake.lastInput.EndTime)
			require.NotNil(t, fake.lastInput.Banner)
			assert.Equal(t, "https://img/x.png", fake.lastInput.Banner.URL)
			assert.Equal(t, organizer, fake.lastActor)
		})
	}
}

func TestEventController_GetEventByID(t *testing.T) {
	tests := []struct {
		name       string
		eventID    string
		fakeErr    error
		wantStatus int
	}{
		{"success", testEventID, nil, http.StatusOK},
		{"invalid id", "abc", nil, http.StatusBadRequest},
		{"not found", testEventID, fmt.Errorf("get event: %w", domain.ErrNotFound), http.StatusNotFound},
		{"store failure", testEventID, fmt.Errorf("get event: %w", domain.ErrPersistence), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeEventService{event: sampleEvent(), err: tt.fakeErr}
			ctrl := NewEventController(discardLogger, fake)
			req := httptest.NewRequest(http.MethodGet, "/events/"+tt.eventID, nil)
			req.SetPathValue("eventID", tt.eventID)
			rr := httptest.NewRecorder()

			ctrl.GetEventByID(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestEventController_UpdateEvent(t *testing.T) {
	t.Run("passes partial update", func(t *testing.T) {
		fake := &fakeEventService{event: sampleEvent()}
		ctrl := NewEventController(discardLogger, fake)
		req := withActor(httptest.NewRequest(http.MethodPatch, "/events/"+testEventID, strings.NewReader(`{"title":"Go Night II","clearBanner":true}`)), organizer)
		req.SetPathValue("eventID", testEventID)
		rr := httptest.NewRecorder()

		ctrl.UpdateEvent(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, fake.lastUpdate.Title)
		assert.Equal(t, "Go Night II", *fake.lastUpdate.Title)
		assert.Nil(t, fake.lastUpdate.Location)
		assert.True(t, fake.lastUpdate.ClearBanner)
		assert.Equal(t, testEventID, fake.lastID)
	})

	t.Run("banner and clearBanner conflict", func(t *testing.T) {
		ctrl := NewEventController(discardLogger, &fakeEventService{})
		req := withActor(httptest.NewRequest(http.MethodPatch, "/events/"+testEventID, strings.NewReader(`{"banner":{"url":"u"},"clearBanner":true}`)), organizer)
		req.SetPathValue("eventID", testEventID)
		rr := httptest.NewRecorder()

		ctrl.UpdateEvent(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("not the owner", func(t *testing.T) {
		ctrl := NewEventController(discardLogger, &fakeEventService{err: fmt.Errorf("%w: not your event", domain.ErrForbidden)})
		req := withActor(httptest.NewRequest(http.MethodPatch, "/events/"+testEventID, strings.NewReader(`{"title":"x"}`)), organizer)
		req.SetPathValue("eventID", testEventID)
		rr := httptest.NewRecorder()

		ctrl.UpdateEvent(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestEventController_RegistrationCount(t *testing.T) {
	fake := &fakeEventService{count: 42}
	ctrl := NewEventController(discardLogger, fake)
	req := httptest.NewRequest(http.MethodGet, "/events/"+testEventID+"/registrations/count", nil)
	req.SetPathValue("eventID", testEventID)
	rr := httptest.NewRecorder()

	ctrl.RegistrationCount(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var data RegistrationCountResponse
	require.Nil(t, decodeEnvelope(t, rr, &data))
	assert.Equal(t, 42, data.Count)
	assert.Equal(t, testEventID, data.EventID)
}
