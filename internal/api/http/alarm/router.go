package alarm

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/service/registry"
)

// Registry abstracts the alarm operations the REST handlers depend on.
type Registry interface {
	CreateAlarm(ctx context.Context, draft domain.Draft) (*domain.Alarm, error)
	UpdateAlarm(ctx context.Context, id string, patch *domain.Patch) (*domain.Alarm, error)
	DeleteAlarm(ctx context.Context, id string) bool
	ToggleAlarm(ctx context.Context, id string) (bool, error)
	TriggerAlarm(ctx context.Context, id string) error
	GetAllAlarms() []*domain.Alarm
	GetAlarm(id string) (*domain.Alarm, bool)
	GetNextAlarm() (*domain.Alarm, bool)
	GetSettings() domain.Settings
	UpdateSettings(ctx context.Context, patch *domain.SettingsPatch) (domain.Settings, error)
	RequestNotificationPermission(ctx context.Context) bool
	Stats() registry.Stats
	Now() time.Time
}

// Options tunes the router.
type Options struct {
	// AllowedOrigins lists the CORS origins; empty allows any origin.
	AllowedOrigins []string
	// Timeout bounds the handling of a single request; zero disables it.
	Timeout time.Duration
}

// corsMaxAge is how long browsers may cache preflight responses, in seconds.
const corsMaxAge = 300

// NewRouter builds the REST handler tree on top of the registry.
func NewRouter(ctx context.Context, reg Registry, opts Options) http.Handler {
	h := &handlers{
		registry: reg,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(ctx))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         corsMaxAge,
	}).Handler)

	if opts.Timeout > 0 {
		r.Use(middleware.Timeout(opts.Timeout))
	}

	r.Route("/alarms", func(r chi.Router) {
		r.Get("/", h.listAlarms)
		r.Post("/", h.createAlarm)
		r.Get("/next", h.nextAlarm)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getAlarm)
			r.Patch("/", h.updateAlarm)
			r.Delete("/", h.deleteAlarm)
			r.Post("/toggle", h.toggleAlarm)
			r.Post("/fire", h.fireAlarm)
		})
	})

	r.Get("/settings", h.getSettings)
	r.Patch("/settings", h.updateSettings)
	r.Post("/permission", h.requestPermission)
	r.Get("/export", h.export)
	r.Get("/stats", h.stats)

	return r
}
