package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/croudly/experience-api/internal/infrastructure/configs"
	"github.com/croudly/experience-api/internal/infrastructure/identity"
	"github.com/croudly/experience-api/internal/infrastructure/logging"
	healthHandler "github.com/croudly/experience-api/internal/presentation/handler/health"
	mediaHandler "github.com/croudly/experience-api/internal/presentation/handler/media"
	messagesHandler "github.com/croudly/experience-api/internal/presentation/handler/messages"
	roomHandler "github.com/croudly/experience-api/internal/presentation/handler/rooms"
)

type Application struct {
	config          configs.Config
	roomHandler     *roomHandler.Handler
	healthHandler   *healthHandler.Handler
	messagesHandler *messagesHandler.Handler
	mediaHandler    *mediaHandler.Handler
	identity        identity.Provider
	logger          logging.Logger
	metrics         *Metrics
}

func NewApplication(
	config configs.Config,
	roomHandler *roomHandler.Handler,
	healthHandler *healthHandler.Handler,
	messagesHandler *messagesHandler.Handler,
	mediaHandler *mediaHandler.Handler,
	identityProvider identity.Provider,
	logger logging.Logger,
) *Application {
	return &Application{
		config:          config,
		roomHandler:     roomHandler,
		healthHandler:   healthHandler,
		messagesHandler: messagesHandler,
		mediaHandler:    mediaHandler,
		identity:        identityProvider,
		logger:          logger,
		metrics:         NewMetrics(),
	}
}

func (app *Application) Mount() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(app.enableCors)
	r.Use(app.loggerMiddleware)
	r.Use(app.prometheusMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(app.authMiddleware)

			r.Route("/rooms", func(r chi.Router) {
				r.Post("/", app.roomHandler.CreateRoomHandler)
				r.Get("/", app.roomHandler.ListRoomsHandler)
				r.Post("/join/{token}", app.roomHandler.RedeemInviteHandler)

				r.Route("/{roomId}", func(r chi.Router) {
					r.Get("/", app.roomHandler.GetRoomHandler)
					r.Delete("/", app.roomHandler.DeleteRoomHandler)

					r.Post("/invites", app.roomHandler.IssueInviteHandler)
					r.Post("/leave", app.roomHandler.LeaveRoomHandler)
					r.Get("/members", app.roomHandler.ListMembersHandler)
					r.Post("/members/remove", app.roomHandler.RemoveMemberHandler)
					r.Post("/moderators", app.roomHandler.AssignRoleHandler)
					r.Delete("/moderators", app.roomHandler.RemoveModeratorHandler)
					r.Post("/block", app.roomHandler.BlockUserHandler)
					r.Post("/privacy", app.roomHandler.TogglePrivacyHandler)
					r.Get("/admin", app.roomHandler.IsAdminHandler)

					r.Post("/messages", app.messagesHandler.CreateMessageHandler)
					r.Get("/messages", app.messagesHandler.ListMessagesHandler)
					r.Delete("/messages", app.messagesHandler.PurgeMessagesHandler)
					r.Delete("/messages/{messageId}", app.messagesHandler.DeleteMessageHandler)

					r.Post("/media", app.mediaHandler.UploadMediaHandler)
					r.Get("/media", app.mediaHandler.ListMediaHandler)
					r.Delete("/media/{mediaId}", app.mediaHandler.DeleteMediaHandler)
				})
			})
		})

		r.Get("/health", app.healthHandler.GetHealth)
		r.Get("/healthz", app.healthHandler.GetHealth)
		r.Get("/ready", app.healthHandler.GetHealth)
		r.Get("/live", app.healthHandler.GetHealth)
	})

	r.Handle("/metrics", promhttp.Handler())

	// One server span per request, exported through the OTLP pipeline set
	// up by tracing.InitTracer.
	return otelhttp.NewHandler(r, "experience-api")
}

func (app *Application) Run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", app.config.HTTP.Host, app.config.HTTP.Port),
		Handler:      mux,
		WriteTimeout: app.config.HTTP.WriteTimeout,
		ReadTimeout:  app.config.HTTP.ReadTimeout,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Info(logging.General, logging.Shutdown, "signal caught", map[logging.ExtraKey]any{
			"signal": s.String(),
		})

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Info(logging.General, logging.Startup, "server has started", map[logging.ExtraKey]any{
		"addr": srv.Addr,
	})

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Info(logging.General, logging.Shutdown, "server has stopped", map[logging.ExtraKey]any{
		"addr": srv.Addr,
	})

	return nil
}
