package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"campusconnect/internal/delivery/http/helpers"
	"campusconnect/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationController_Register(t *testing.T) {
	reg := domain.NewRegistration("stu-1", testEventID, fixedNow)
	tests := []struct {
		name         string
		actor        *domain.Actor
		created      bool
		fakeErr      error
		wantStatus   int
		wantBodyCode string
	}{
		{name: "new registration", actor: student, created: true, wantStatus: http.StatusCreated},
		{name: "already registered", actor: student, created: false, wantStatus: http.StatusOK},
		{name: "closed", actor: student, fakeErr: domain.ErrRegistrationClosed, wantStatus: http.StatusBadRequest, wantBodyCode: helpers.ErrCodeBadRequest},
		{name: "organizer", actor: organizer, fakeErr: fmt.Errorf("%w: students only", domain.ErrForbidden), wantStatus: http.StatusForbidden, wantBodyCode: helpers.ErrCodeForbidden},
		{name: "unknown event", actor: student, fakeErr: fmt.Errorf("register: %w", domain.ErrNotFound), wantStatus: http.StatusNotFound, wantBodyCode: helpers.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeRegistrationService{reg: reg, created: tt.created, err: tt.fakeErr}
			ctrl := NewRegistrationController(discardLogger, fake, &fakeQREncoder{})
			req := withActor(httptest.NewRequest(http.MethodPost, "/events/"+testEventID+"/registrations", nil), tt.actor)
			req.SetPathValue("eventID", testEventID)
			rr := httptest.NewRecorder()

			ctrl.Register(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var got domain.Registration
			apiErr := decodeEnvelope(t, rr, &got)
			if tt.wantBodyCode != "" {
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantBodyCode, apiErr.Code)
				return
			}
			assert.Equal(t, "stu-1-"+testEventID, got.ID)
			assert.Equal(t, testEventID, fake.lastID)
		})
	}
}

func TestRegistrationController_MyStatus(t *testing.T) {
	for _, registered := range []bool{true, false} {
		t.Run(fmt.Sprint(registered), func(t *testing.T) {
			fake := &fakeRegistrationService{registered: registered}
			ctrl := NewRegistrationController(discardLogger, fake, nil)
			req := httptest.NewRequest(http.MethodGet, "/events/"+testEventID+"/registrations/me", nil)
			req.SetPathValue("eventID", testEventID)
			rr := httptest.NewRecorder()

			ctrl.MyStatus(rr, req)

			require.Equal(t, http.StatusOK, rr.Code)
			var data RegistrationStatusResponse
			require.Nil(t, decodeEnvelope(t, rr, &data))
			assert.Equal(t, registered, data.Registered)
			assert.Nil(t, fake.lastActor)
		})
	}
}

func TestRegistrationController_List(t *testing.T) {
	fake := &fakeRegistrationService{
		list:  []*domain.Registration{domain.NewRegistration("stu-1", testEventID, fixedNow)},
		total: 11,
	}
	ctrl := NewRegistrationController(discardLogger, fake, nil)
	req := withActor(httptest.NewRequest(http.MethodGet, "/registrations?page=2&pageSize=5", nil), organizer)
	rr := httptest.NewRecorder()

	ctrl.List(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var data ListRegistrationsResponse
	require.Nil(t, decodeEnvelope(t, rr, &data))
	require.Len(t, data.Items, 1)
	assert.Equal(t, 2, data.Pagination.Page)
	assert.Equal(t, 5, data.Pagination.PageSize)
	assert.Equal(t, 11, data.Pagination.Total)
	assert.Equal(t, 3, data.Pagination.TotalPages)
	assert.Equal(t, domain.PaginationParams{Page: 2, PageSize: 5}, fake.lastParams)
	assert.Equal(t, organizer, fake.lastActor)
}

func TestRegistrationController_Mine_EmptyIsArray(t *testing.T) {
	ctrl := NewRegistrationController(discardLogger, &fakeRegistrationService{}, nil)
	req := withActor(httptest.NewRequest(http.MethodGet, "/registrations/mine", nil), student)
	rr := httptest.NewRecorder()

	ctrl.Mine(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":[],"error":null}`, rr.Body.String())
}

func TestRegistrationController_Ticket(t *testing.T) {
	ticket := &domain.TicketPayload{
		UserID: "stu-1", EventID: testEventID, UserName: "Sam", EventName: "Go Night",
		RegistrationID: "stu-1-" + testEventID,
	}

	t.Run("json", func(t *testing.T) {
		fake := &fakeRegistrationService{ticket: ticket}
		ctrl := NewRegistrationController(discardLogger, fake, nil)
		req := withActor(httptest.NewRequest(http.MethodGet, "/registrations/x/ticket", nil), student)
		req.SetPathValue("registrationID", ticket.RegistrationID)
		rr := httptest.NewRecorder()

		ctrl.Ticket(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var got domain.TicketPayload
		require.Nil(t, decodeEnvelope(t, rr, &got))
		assert.Equal(t, *ticket, got)
		assert.Equal(t, ticket.RegistrationID, fake.lastID)
	})

	t.Run("png", func(t *testing.T) {
		qr := &fakeQREncoder{}
		ctrl := NewRegistrationController(discardLogger, &fakeRegistrationService{ticket: ticket}, qr)
		req := withActor(httptest.NewRequest(http.MethodGet, "/registrations/x/ticket.png?size=512", nil), student)
		req.SetPathValue("registrationID", ticket.RegistrationID)
		rr := httptest.NewRecorder()

		ctrl.TicketPNG(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
		assert.Equal(t, 512, qr.lastSize)
		want, err := ticket.Encode()
		require.NoError(t, err)
		assert.Equal(t, want, qr.lastText)
	})

	t.Run("png size out of range", func(t *testing.T) {
		ctrl := NewRegistrationController(discardLogger, &fakeRegistrationService{ticket: ticket}, &fakeQREncoder{})
		req := withActor(httptest.NewRequest(http.MethodGet, "/registrations/x/ticket.png?size=9000", nil), student)
		req.SetPathValue("registrationID", ticket.RegistrationID)
		rr := httptest.NewRecorder()

		ctrl.TicketPNG(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("someone else's ticket", func(t *testing.T) {
		ctrl := NewRegistrationController(discardLogger, &fakeRegistrationService{err: fmt.Errorf("%w: not your ticket", domain.ErrForbidden)}, nil)
		req := withActor(httptest.NewRequest(http.MethodGet, "/registrations/x/ticket", nil), student)
		req.SetPathValue("registrationID", "other")
		rr := httptest.NewRecorder()

		ctrl.Ticket(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}
