// Package server exposes the trip planner over HTTP.
package server

import (
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"ai-trip-planner/internal/availability"
	"ai-trip-planner/internal/favorites"
	"ai-trip-planner/internal/metrics"
	"ai-trip-planner/internal/planner"
	"ai-trip-planner/internal/profile"
	"ai-trip-planner/internal/shared"
	"ai-trip-planner/internal/webhook"
)

// Server wires the application services into the HTTP API.
type Server struct {
	trips        *planner.Service
	availability *availability.Tracker
	favorites    *favorites.Repository
	profiles     *profile.Repository
	metrics      *metrics.Store
	notifier     *webhook.Notifier

	jwtSecret      []byte
	allowedOrigins []string
	limiter        *rateLimiter
}

// Options carries the server dependencies.
type Options struct {
	Trips          *planner.Service
	Availability   *availability.Tracker
	Favorites      *favorites.Repository
	Profiles       *profile.Repository
	Metrics        *metrics.Store
	Notifier       *webhook.Notifier
	JWTSecret      string
	AllowedOrigins []string
}

// New creates a Server.
func New(opts Options) *Server {
	return &Server{
		trips:          opts.Trips,
		availability:   opts.Availability,
		favorites:      opts.Favorites,
		profiles:       opts.Profiles,
		metrics:        opts.Metrics,
		notifier:       opts.Notifier,
		jwtSecret:      []byte(opts.JWTSecret),
		allowedOrigins: opts.AllowedOrigins,
		limiter:        newRateLimiter(),
	}
}

func (s *Server) routes() *httprouter.Router {
	router := httprouter.New()

	router.GET("/health", s.handleHealth)

	router.POST("/api/trip-suggestions", s.optionalAuth(s.limiter.limit(s.handleTripSuggestions)))
	router.POST("/api/trips/refine", s.optionalAuth(s.limiter.limit(s.handleRefineTrip)))
	router.POST("/api/trips/derive", s.optionalAuth(s.handleDeriveTrip))
	router.POST("/api/trips/choose", s.optionalAuth(s.handleChooseTrip))
	router.POST("/api/trips/export", s.optionalAuth(s.handleExportTrip))

	router.POST("/api/restaurants", s.optionalAuth(s.limiter.limit(s.handleRestaurants)))
	router.POST("/api/geo-suggestions", s.optionalAuth(s.limiter.limit(s.handleGeoSuggestions)))
	router.POST("/api/attraction-suggestions", s.optionalAuth(s.limiter.limit(s.handleAttractionSuggestions)))

	router.POST("/api/hotel-availability", s.optionalAuth(s.handleBeginAvailability))
	router.GET("/api/hotel-availability/:tripID", s.optionalAuth(s.handleAvailabilityStatus))

	router.GET("/api/favorites", s.authenticate(s.handleListFavorites))
	router.POST("/api/favorites", s.authenticate(s.handleSaveFavorite))
	router.DELETE("/api/favorites/:tripID", s.authenticate(s.handleDeleteFavorite))

	return router
}

// Handler returns the full middleware chain: CORS, security headers and
// request logging around the router.
func (s *Server) Handler() http.Handler {
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(s.routes())

	return loggingMiddleware(securityHeaders(corsHandler))
}

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address and
// duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s - %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

// recordMeta persists backend usage metadata; metric failures are logged and
// never surfaced.
func (s *Server) recordMeta(meta shared.AgentMeta) {
	if s.metrics == nil {
		return
	}
	if err := s.metrics.RecordMeta(meta); err != nil {
		log.Printf("failed to record metrics for %s: %v", meta.AgentName, err)
	}
}
