package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/VANBAHIA/govrh/internal/config"
	appHTTP "github.com/VANBAHIA/govrh/internal/handler/http"
	"github.com/VANBAHIA/govrh/internal/pkg/database"
	"github.com/VANBAHIA/govrh/internal/pkg/jwt"
	"github.com/VANBAHIA/govrh/internal/repository/postgresql"
	loanService "github.com/VANBAHIA/govrh/internal/service/loan"
	payrollService "github.com/VANBAHIA/govrh/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("app", "govrh"),
	)

	payrollRepo := postgresql.NewPayrollRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	loanRepo := postgresql.NewLoanRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	payrollSvc := payrollService.NewPayrollService(db, payrollRepo, employeeRepo, logger)
	loanSvc := loanService.NewLoanService(loanRepo, employeeRepo, payrollRepo, logger)

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	loanHandler := appHTTP.NewLoanHandler(loanSvc)

	router := appHTTP.NewRouter(jwtService, payrollHandler, loanHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
