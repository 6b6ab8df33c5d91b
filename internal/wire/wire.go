// internal/wire/wire.go
package wire

import (
	"net/http"

	"school-transport/internal/adaptor"
	"school-transport/internal/data/repository"
	"school-transport/internal/metrics"
	"school-transport/internal/notifier"
	"school-transport/internal/usecase"
	"school-transport/pkg/middleware"
	"school-transport/pkg/payment"
	"school-transport/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired HTTP surface plus the service layer, which the
// scheduler reuses outside the request path.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring initializes all dependencies explicitly; nothing resolves its
// own collaborators at call time.
func Wiring(
	repo *repository.Repository,
	provider payment.Provider,
	notify notifier.Notifier,
	m *metrics.Collector,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, provider, notify, m, config, logger)
	handler := adaptor.NewHandler(service, provider, logger)

	router := setupRouter(handler, repo, m, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	m *metrics.Collector,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger, m))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Apply routes
	wireAuth(r, handler.Auth, repo, logger)
	wireStudent(r, handler.Student, repo, logger)
	wireRoute(r, handler.Route, repo, logger)
	wirePricing(r, handler.Pricing, repo, logger)
	wireBooking(r, handler.Booking, repo, logger)
	wireWebhook(r, handler.Webhook)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus scrape endpoint
	r.Method(http.MethodGet, "/metrics", m.Handler())

	return r
}
