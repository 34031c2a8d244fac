package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"dreamtoons/internal/http/handlers"
	"dreamtoons/internal/middleware"
)

func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimiddleware.RealIP,
		chimiddleware.Recoverer,
		middleware.Logger(*app.Logger),
		middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute),
	)
	if len(app.Config.CORSOrigins) > 0 {
		r.Use(middleware.CORS(app.Config.CORSOrigins))
	}

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/styles", app.Styles)
	if app.Files != nil {
		r.Get("/files/*", app.ServeFile)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(app.Config.JWTSecret))

		r.Route("/v1/comics", func(r chi.Router) {
			r.Post("/", app.ComicsGenerate)
			r.Get("/{job_id}", app.ComicStatus)
		})
		r.Route("/v1/avatars", func(r chi.Router) {
			r.Post("/", app.AvatarsCreate)
			r.Get("/{job_id}", app.AvatarStatus)
		})
		r.Post("/v1/transcriptions", app.Transcriptions)
	})

	return r
}
