package wire

import (
	"context"
	"net/http"

	"salon-booking/internal/adaptor"
	"salon-booking/internal/data/repository"
	"salon-booking/internal/reservation"
	"salon-booking/internal/usecase"
	"salon-booking/pkg/database"
	"salon-booking/pkg/middleware"
	"salon-booking/pkg/telemetry"
	"salon-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the assembled HTTP surface.
type App struct {
	Router  *chi.Mux
	Handler http.Handler
}

// Wiring builds services, handlers and routes.
func Wiring(
	repo *repository.Repository,
	cal *reservation.Calendar,
	submissions reservation.SubmissionStore,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, cal, submissions, config, logger)

	var ready func(context.Context) error
	if repo.DB != nil {
		ready = database.ReadyCheck(repo.DB)
	}
	handler := adaptor.NewHandler(service, ready, logger)

	router := setupRouter(handler, repo, config, logger)

	return &App{
		Router:  router,
		Handler: telemetry.Handler(router, config.App.Name),
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))

	wireAuth(r, handler.Auth, repo, config, logger)
	wireReservation(r, handler.Reservation, repo, config, logger)
	wireAdminBooking(r, handler.AdminBooking, repo, config, logger)

	r.Get("/health", handler.Health.Live)
	r.Get("/readyz", handler.Health.Ready)

	return r
}
