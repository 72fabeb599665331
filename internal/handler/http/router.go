package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/shiftwise/shiftwise-backend-go/internal/handler/http/middleware"
	"github.com/shiftwise/shiftwise-backend-go/internal/pkg/jwt"
)

func NewRouter(
	jwtService jwt.Service,
	locationHandler LocationHandler,
	shiftHandler ShiftHandler,
	attendanceHandler AttendanceHandler,
	connectivityHandler ConnectivityHandler,
	missedShiftHandler MissedShiftHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "shiftwise"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/locations", func(r chi.Router) {
				r.Get("/", locationHandler.List)
				r.Get("/{id}", locationHandler.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Put("/{id}/wifi-settings", locationHandler.UpdateWifiSettings)
				})
			})

			r.Route("/shifts", func(r chi.Router) {
				r.Get("/assigned", shiftHandler.GetAssigned)
				r.Post("/{id}/book", shiftHandler.Book)
				r.Post("/{id}/cancel", shiftHandler.Cancel)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", shiftHandler.Create)
					r.Post("/generate/preview", shiftHandler.PreviewSlots)
					r.Post("/generate/commit", shiftHandler.CommitSlots)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/clock-in", attendanceHandler.ClockIn)
				r.Post("/clock-out", attendanceHandler.ClockOut)
				r.Get("/session", attendanceHandler.GetOpenSession)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Put("/{id}", attendanceHandler.UpdateSession)
				})
			})

			r.Route("/connectivity", func(r chi.Router) {
				r.Post("/report", connectivityHandler.Report)
				r.Get("/history", connectivityHandler.History)
			})

			r.Route("/missed-shifts", func(r chi.Router) {
				r.Get("/", missedShiftHandler.List)
				r.Post("/{shiftID}/explanation", missedShiftHandler.SubmitExplanation)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/explanations/{id}/review", missedShiftHandler.Review)
				})
			})
		})
	})
	return r
}
