// Package server exposes the guide pipeline over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/guestbites/guestbites/internal/guide"
	"github.com/guestbites/guestbites/internal/model"
	"github.com/guestbites/guestbites/internal/submit"
)

// PlaceSearcher returns places near a ZIP code.
type PlaceSearcher interface {
	Search(ctx context.Context, zip string) (*model.PlacesPayload, error)
}

// ZipResolver resolves a coordinate to a ZIP code.
type ZipResolver interface {
	Reverse(ctx context.Context, lat, lon float64) (string, error)
}

// GuideBuilder assembles guides.
type GuideBuilder interface {
	Build(ctx context.Context, req guide.Request) *guide.View
}

// Submitter delivers host form submissions.
type Submitter interface {
	SubmitHost(ctx context.Context, sub *submit.Submission) (*submit.Receipt, error)
	SubmitGuide(ctx context.Context, sub *submit.Submission) (*submit.Receipt, error)
}

// Deps are the components the handlers call.
type Deps struct {
	Places    PlaceSearcher
	Zips      ZipResolver
	Guides    GuideBuilder
	Submitter Submitter
}

// Options configure the HTTP layer.
type Options struct {
	// Origin is the public base URL used in share links.
	Origin      string
	CORSOrigins []string
	// Timeout bounds upstream work per request.
	Timeout time.Duration
}

// Server holds the handlers' dependencies.
type Server struct {
	deps Deps
	opts Options
}

// New creates a Server.
func New(deps Deps, opts Options) *Server {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	return &Server{deps: deps, opts: opts}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observe)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/places", s.handlePlaces)
	r.Get("/zip", s.handleZip)
	r.HandleFunc("/host-submit", s.handleHostSubmit)
	r.HandleFunc("/host-guide-submit", s.handleHostGuideSubmit)

	r.Get("/guide/{zip}", s.handleGuide)
	r.Post("/guide/{zip}/custom", s.handleAddCustom)
	r.Get("/guest-guide", s.handleGuestGuide)
	r.Get("/host-guide/link", s.handleShareLink)
	r.Get("/host-guide/qr.png", s.handleShareQR)

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
