package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type Handlers struct {
	Auth       AuthHandler
	Attendance AttendanceHandler
	Employee   EmployeeHandler
	User       UserHandler
	Report     ReportHandler
	Statistic  StatisticHandler
}

type RouterConfig struct {
	AllowedOrigins []string
	Logger         *slog.Logger
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, revocations middleware.RevocationChecker, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	if cfg.Logger != nil {
		r.Use(httplog.RequestLogger(cfg.Logger, &httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	authenticated := func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired(revocations))
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/attendance", func(r chi.Router) {
			r.Post("/checkin", h.Attendance.CheckIn)
			r.Post("/checkout", h.Attendance.CheckOut)
			r.Get("/", h.Attendance.List)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/request/reset/password", h.Auth.RequestPasswordReset)
			r.Post("/user/reset/password", h.Auth.ResetPassword)

			r.Group(func(r chi.Router) {
				authenticated(r)
				r.Post("/logout", h.Auth.Logout)
				r.Post("/change-password", h.Auth.ChangePassword)

				// Admin only
				r.With(middleware.RequireAdmin).Patch("/change-role/{userId}", h.Auth.ChangeRole)
			})
		})

		r.Route("/employee", func(r chi.Router) {
			r.Get("/", h.Employee.List)
			r.Get("/{id}", h.Employee.Get)

			r.Group(func(r chi.Router) {
				authenticated(r)
				r.Post("/", h.Employee.Create)
				r.Patch("/{id}", h.Employee.Update)

				// Admin only
				r.With(middleware.RequireAdmin).Delete("/{id}", h.Employee.ToggleActive)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", h.User.Create)

			r.Group(func(r chi.Router) {
				authenticated(r)
				r.Get("/", h.User.List)
				r.Get("/{id}", h.User.Get)
				r.Patch("/{id}", h.User.Update)

				// Admin only
				r.With(middleware.RequireAdmin).Delete("/{id}", h.User.ToggleActive)
			})
		})

		r.Group(func(r chi.Router) {
			authenticated(r)
			r.Get("/report/attendance", h.Report.DailyAttendance)
			r.Get("/statistic/total", h.Statistic.Totals)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r
}
