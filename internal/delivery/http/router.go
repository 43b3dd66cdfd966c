package http

import (
	"net/http"

	"campusconnect/internal/delivery/http/controllers"
	"campusconnect/internal/delivery/http/helpers"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Auth         *controllers.AuthController
	User         *controllers.UserController
	Event        *controllers.EventController
	Registration *controllers.RegistrationController
	CheckIn      *controllers.CheckInController
	Attendee     *controllers.AttendeeController
	Content      *controllers.ContentController
}

// Middleware wraps a single handler.
type Middleware func(http.HandlerFunc) http.HandlerFunc

// NewRouter initializes the HTTP router with all application routes. requireAuth
// rejects anonymous requests; optionalAuth attaches the actor when a token is sent.
func NewRouter(c Controllers, requireAuth, optionalAuth Middleware) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", Health)

	// Auth
	mux.HandleFunc("POST /auth/signup", c.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)

	// Users
	mux.HandleFunc("GET /users/me", requireAuth(c.User.GetMe))
	mux.HandleFunc("PATCH /users/me", requireAuth(c.User.UpdateMe))

	// Events
	mux.HandleFunc("GET /events", c.Event.ListEvents)
	mux.HandleFunc("GET /events/calendar", c.Event.ListCalendar)
	mux.HandleFunc("POST /events", requireAuth(c.Event.CreateEvent))
	mux.HandleFunc("GET /events/{eventID}", c.Event.GetEventByID)
	mux.HandleFunc("PATCH /events/{eventID}", requireAuth(c.Event.UpdateEvent))
	mux.HandleFunc("GET /events/{eventID}/registrations/count", c.Event.RegistrationCount)
	mux.HandleFunc("POST /events/{eventID}/registrations", requireAuth(c.Registration.Register))
	mux.HandleFunc("GET /events/{eventID}/registrations/me", optionalAuth(c.Registration.MyStatus))
	mux.HandleFunc("GET /events/{eventID}/attendees/export", requireAuth(c.Attendee.ExportAttendees))

	// Registrations
	mux.HandleFunc("GET /registrations", requireAuth(c.Registration.List))
	mux.HandleFunc("GET /registrations/mine", requireAuth(c.Registration.Mine))
	mux.HandleFunc("GET /registrations/{registrationID}/ticket", requireAuth(c.Registration.Ticket))
	mux.HandleFunc("GET /registrations/{registrationID}/ticket.png", requireAuth(c.Registration.TicketPNG))

	// Check-in
	mux.HandleFunc("POST /checkins", requireAuth(c.CheckIn.CheckIn))
	mux.HandleFunc("POST /checkins/image", requireAuth(c.CheckIn.CheckInImage))

	// AI content
	mux.HandleFunc("POST /api/generate-description", c.Content.GenerateDescription)
	mux.HandleFunc("POST /api/generate-banner", c.Content.GenerateBanner)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// HealthResponse is the data of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// Health godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} helpers.APIResponse "data.status: ok"
// @Router /health [get]
func Health(w http.ResponseWriter, _ *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, HealthResponse{Status: "ok"})
}
