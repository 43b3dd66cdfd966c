// Command server runs the CampusConnect HTTP API.
//
//go:generate swag init -g cmd/server/main.go -d ../../ -o ../../docs
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campusconnect/config"
	_ "campusconnect/docs"
	"campusconnect/internal/adapters/auth"
	"campusconnect/internal/adapters/banner"
	"campusconnect/internal/adapters/email"
	"campusconnect/internal/adapters/gemini"
	"campusconnect/internal/adapters/messaging"
	"campusconnect/internal/adapters/qr"
	deliveryhttp "campusconnect/internal/delivery/http"
	"campusconnect/internal/delivery/http/controllers"
	"campusconnect/internal/delivery/http/middleware"
	"campusconnect/internal/domain"
	"campusconnect/internal/repository/postgres"
	"campusconnect/internal/services"
)

// @title CampusConnect API
// @version 1.0
// @description Campus events, registrations, QR check-in and attendee reports.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := config.NewLogger()
	if err := run(logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := postgres.Open(cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.Migrate(db); err != nil {
		return err
	}

	now := func() time.Time { return time.Now().In(cfg.Location) }

	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	regRepo := postgres.NewRegistrationRepository(db)

	publisher := domain.EventPublisher(messaging.NewNoopPublisher())
	if cfg.RabbitURL != "" {
		p, err := messaging.NewPublisher(cfg.RabbitURL, logger)
		if err != nil {
			return err
		}
		defer p.Close()
		publisher = p
	} else {
		logger.Info("RABBITMQ_URL not set; domain events are not published")
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretKey,
		},
	}, logger)
	if err != nil {
		return err
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	var text domain.TextGenerator
	if cfg.GoogleAPIKey != "" {
		text = gemini.NewTextGenerator(&http.Client{Timeout: cfg.RequestTimeout}, cfg.GoogleAPIKey, cfg.GeminiModel)
	} else {
		logger.Warn("GOOGLE_API_KEY not set; AI content generation is disabled")
	}

	jwt := auth.NewJWT(cfg.JWTSecret)
	authService := services.NewAuthService(userRepo, auth.NewBcryptHasher(auth.DefaultCost), jwt, cfg.JWTExpiry, now)
	eventService := services.NewEventService(eventRepo, regRepo, publisher, logger, cfg.RequestTimeout, now)
	registrationService := services.NewRegistrationService(regRepo, eventRepo, emailService, publisher, logger, cfg.RegistrationCutoff, cfg.RequestTimeout, now)
	attendanceService := services.NewAttendanceService(regRepo, eventRepo, qr.NewDecoder(), publisher, logger, cfg.RequestTimeout, now)
	exportService := services.NewExportService(eventRepo, regRepo, userRepo, cfg.RequestTimeout, now)
	contentService := services.NewContentService(text, banner.NewPlaceholderRenderer(), cfg.RequestTimeout, now)

	mux := deliveryhttp.NewRouter(deliveryhttp.Controllers{
		Auth:         controllers.NewAuthController(logger, authService),
		User:         controllers.NewUserController(logger, authService),
		Event:        controllers.NewEventController(logger, eventService),
		Registration: controllers.NewRegistrationController(logger, registrationService, qr.NewEncoder()),
		CheckIn:      controllers.NewCheckInController(logger, attendanceService),
		Attendee:     controllers.NewAttendeeController(logger, exportService),
		Content:      controllers.NewContentController(logger, contentService),
	},
		middleware.RequireAuth(jwt, authService, logger),
		middleware.OptionalAuth(jwt, authService, logger),
	)

	var handler http.Handler = mux
	handler = middleware.CORS(cfg.AllowedOrigins, handler)
	handler = middleware.LoggingMiddleware(logger, handler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
