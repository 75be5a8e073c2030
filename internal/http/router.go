package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tronghieu/ezlib-sub005/internal/http/auth"
	"github.com/tronghieu/ezlib-sub005/internal/http/circulation"
	"github.com/tronghieu/ezlib-sub005/internal/http/copies"
	"github.com/tronghieu/ezlib-sub005/internal/http/importcsv"
	"github.com/tronghieu/ezlib-sub005/internal/http/members"
	"github.com/tronghieu/ezlib-sub005/internal/http/render"
	"github.com/tronghieu/ezlib-sub005/internal/identity"
)

// Pinger reports backend health. A nil Pinger is always healthy.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Options struct {
	Authority      identity.Authority
	AllowedOrigins []string
	Health         Pinger
}

func New(
	opts Options,
	circulationV1 *circulation.Handler,
	copiesV1 *copies.Handler,
	membersV1 *members.Handler,
	importV1 *importcsv.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/healthz", healthz(opts.Health))
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1/libraries/{libraryID}", func(r chi.Router) {
		r.Use(auth.Authenticate(opts.Authority))

		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			circulationV1.Routes(r)
			r.Route("/editions", copiesV1.EditionRoutes)
			r.Route("/members", membersV1.Routes)
		})

		r.Route("/copies", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.AllowContentType("multipart/form-data"))
				importV1.Routes(r)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				copiesV1.Routes(r)
			})
		})
	})

	return router
}

func healthz(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			if err := p.PingContext(ctx); err != nil {
				render.Fail(w, http.StatusServiceUnavailable, "unavailable", err.Error())
				return
			}
		}

		render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
