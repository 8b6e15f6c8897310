package http

import (
	"log/slog"
	"os"

	"github.com/VANBAHIA/govrh/internal/handler/http/middleware"
	"github.com/VANBAHIA/govrh/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(jwtService jwt.Service, payrollHandler PayrollHandler, loanHandler LoanHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "govrh"),
		slog.String("version", "v1.0.0"),
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

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/payroll", func(r chi.Router) {
				r.Route("/config", func(r chi.Router) {
					r.Get("/", payrollHandler.GetConfig)
					r.Put("/", payrollHandler.UpdateConfig)
				})

				r.Route("/components", func(r chi.Router) {
					r.Get("/", payrollHandler.ListComponents)
					r.Post("/", payrollHandler.CreateComponent)
					r.Put("/{id}", payrollHandler.UpdateComponent)
				})

				r.Post("/process", payrollHandler.ProcessPayroll)

				r.Route("/periods", func(r chi.Router) {
					r.Get("/", payrollHandler.ListPeriods)
					r.Route("/{competency}/{type}", func(r chi.Router) {
						r.Get("/", payrollHandler.GetPeriod)
						r.Get("/lines", payrollHandler.ListPeriodLines)
						r.Post("/close", payrollHandler.ClosePeriod)
						r.Post("/reopen", payrollHandler.ReopenPeriod)
					})
				})

				r.Route("/payslips/{employeeID}", func(r chi.Router) {
					r.Get("/", payrollHandler.GetPayslip)
					r.Get("/pdf", payrollHandler.GetPayslipPDF)
				})
			})

			r.Get("/employees/{employeeID}/loans", loanHandler.ListEmployeeLoans)
			r.Route("/loans", func(r chi.Router) {
				r.Post("/", loanHandler.CreateLoan)
				r.Put("/{id}", loanHandler.UpdateLoan)
				r.Delete("/{id}", loanHandler.DeactivateLoan)
			})
		})
	})
	return r
}
