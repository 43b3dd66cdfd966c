package controllers

import (
	"context"
	"image"
	"io"
	"log/slog"
	"net/http"
	"time"

	"campusconnect/internal/delivery/http/middleware"
	"campusconnect/internal/domain"
)

var fixedNow = time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const testEventID = "6f1c2b4e-8a8e-4c6e-9d55-2f0f3c2e9a10"

var (
	organizer = &domain.Actor{ID: "org-1", Name: "Olivia", Email: "olivia@campus.edu", Role: domain.RoleOrganizer}
	student   = &domain.Actor{ID: "stu-1", Name: "Sam", Email: "sam@campus.edu", Role: domain.RoleStudent}
)

// withActor returns r carrying actor, as the auth middleware would.
func withActor(r *http.Request, actor *domain.Actor) *http.Request {
	if actor == nil {
		return r
	}
	return r.WithContext(middleware.SetActor(r.Context(), actor))
}

// fakeAuthService implements domain.AuthService for handler tests.
type fakeAuthService struct {
	signUpUser *domain.User
	signUpErr  error
	lastSignUp domain.SignUpInput
	loginToken string
	loginUser  *domain.User
	loginErr   error
	profile    *domain.User
	profileErr error
	updated    *domain.User
	updateErr  error
	lastName   string
	lastActor  *domain.Actor
	resolveErr error
}

func (f *fakeAuthService) SignUp(_ context.Context, in domain.SignUpInput) (*domain.User, error) {
	f.lastSignUp = in
	return f.signUpUser, f.signUpErr
}

func (f *fakeAuthService) Login(_ context.Context, _, _ string) (string, *domain.User, error) {
	if f.loginErr != nil {
		return "", nil, f.loginErr
	}
	return f.loginToken, f.loginUser, nil
}

func (f *fakeAuthService) ResolveActor(_ context.Context, _ string) (*domain.Actor, error) {
	return nil, f.resolveErr
}

func (f *fakeAuthService) GetProfile(_ context.Context, actor *domain.Actor) (*domain.User, error) {
	f.lastActor = actor
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	return f.profile, f.profileErr
}

func (f *fakeAuthService) UpdateDisplayName(_ context.Context, actor *domain.Actor, name string) (*domain.User, error) {
	f.lastActor = actor
	f.lastName = name
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	return f.updated, f.updateErr
}

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	events     []*domain.Event
	event      *domain.Event
	count      int
	err        error
	lastView   domain.EventView
	lastYear   int
	lastMonth  time.Month
	lastInput  domain.EventInput
	lastUpdate domain.EventUpdate
	lastID     string
	lastActor  *domain.Actor
}

func (f *fakeEventService) ListEvents(_ context.Context, view domain.EventView) ([]*domain.Event, error) {
	f.lastView = view
	return f.events, f.err
}

func (f *fakeEventService) ListEventsByMonth(_ context.Context, year int, month time.Month) ([]*domain.Event, error) {
	f.lastYear, f.lastMonth = year, month
	return f.events, f.err
}

func (f *fakeEventService) CreateEvent(_ context.Context, in domain.EventInput, actor *domain.Actor) (*domain.Event, error) {
	f.lastInput, f.lastActor = in, actor
	return f.event, f.err
}

func (f *fakeEventService) UpdateEvent(_ context.Context, id string, upd domain.EventUpdate, actor *domain.Actor) (*domain.Event, error) {
	f.lastID, f.lastUpdate, f.lastActor = id, upd, actor
	return f.event, f.err
}

func (f *fakeEventService) GetEventByID(_ context.Context, id string) (*domain.Event, error) {
	f.lastID = id
	return f.event, f.err
}

func (f *fakeEventService) Lookup(_ context.Context, _ string) (domain.EventLookup, error) {
	return domain.EventLookup{State: domain.LookupFound, Event: f.event}, f.err
}

func (f *fakeEventService) RegistrationCount(_ context.Context, id string) (int, error) {
	f.lastID = id
	return f.count, f.err
}

// fakeRegistrationService implements domain.RegistrationService for handler tests.
type fakeRegistrationService struct {
	reg        *domain.Registration
	created    bool
	registered bool
	list       []*domain.Registration
	total      int
	mine       []*domain.RegistrationWithEvent
	ticket     *domain.TicketPayload
	err        error
	lastParams domain.PaginationParams
	lastActor  *domain.Actor
	lastID     string
}

func (f *fakeRegistrationService) Register(_ context.Context, eventID string, actor *domain.Actor) (*domain.Registration, bool, error) {
	f.lastID, f.lastActor = eventID, actor
	return f.reg, f.created, f.err
}

func (f *fakeRegistrationService) IsRegistered(_ context.Context, eventID string, actor *domain.Actor) (bool, error) {
	f.lastID, f.lastActor = eventID, actor
	return f.registered, f.err
}

func (f *fakeRegistrationService) ListVisible(_ context.Context, actor *domain.Actor, params domain.PaginationParams) ([]*domain.Registration, int, error) {
	f.lastActor, f.lastParams = actor, params
	return f.list, f.total, f.err
}

func (f *fakeRegistrationService) ListMine(_ context.Context, actor *domain.Actor) ([]*domain.RegistrationWithEvent, error) {
	f.lastActor = actor
	return f.mine, f.err
}

func (f *fakeRegistrationService) Ticket(_ context.Context, id string, actor *domain.Actor) (*domain.TicketPayload, error) {
	f.lastID, f.lastActor = id, actor
	return f.ticket, f.err
}

// fakeQREncoder records what it was asked to encode.
type fakeQREncoder struct {
	lastText string
	lastSize int
	err      error
}

func (f *fakeQREncoder) EncodePNG(text string, size int) ([]byte, error) {
	f.lastText, f.lastSize = text, size
	if f.err != nil {
		return nil, f.err
	}
	return []byte("\x89PNG fake"), nil
}

// fakeAttendanceService implements domain.AttendanceService for handler tests.
type fakeAttendanceService struct {
	result    *domain.CheckInResult
	err       error
	lastRaw   string
	lastImage image.Image
	lastActor *domain.Actor
}

func (f *fakeAttendanceService) Verify(_ context.Context, raw string, actor *domain.Actor) (*domain.CheckInResult, error) {
	f.lastRaw, f.lastActor = raw, actor
	return f.result, f.err
}

func (f *fakeAttendanceService) VerifyImage(_ context.Context, img image.Image, actor *domain.Actor) (*domain.CheckInResult, error) {
	f.lastImage, f.lastActor = img, actor
	return f.result, f.err
}

// fakeExportService implements domain.ExportService for handler tests.
type fakeExportService struct {
	report *domain.AttendeeExport
	err    error
}

func (f *fakeExportService) ExportAttendees(_ context.Context, _ string, _ *domain.Actor) (*domain.AttendeeExport, error) {
	return f.report, f.err
}

// fakeContentService implements domain.ContentService for handler tests.
type fakeContentService struct {
	description *domain.GeneratedDescription
	banner      *domain.GeneratedBanner
	err         error
	lastDesc    domain.DescriptionRequest
	lastBanner  domain.BannerRequest
}

func (f *fakeContentService) GenerateDescription(_ context.Context, req domain.DescriptionRequest) (*domain.GeneratedDescription, error) {
	f.lastDesc = req
	return f.description, f.err
}

func (f *fakeContentService) GenerateBanner(_ context.Context, req domain.BannerRequest) (*domain.GeneratedBanner, error) {
	f.lastBanner = req
	return f.banner, f.err
}
