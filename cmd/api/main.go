package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/attendance-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/attendance-backend-go/internal/service/auth"
	employeeService "github.com/cmlabs-hris/attendance-backend-go/internal/service/employee"
	notificationService "github.com/cmlabs-hris/attendance-backend-go/internal/service/notification"
	reportService "github.com/cmlabs-hris/attendance-backend-go/internal/service/report"
	statisticService "github.com/cmlabs-hris/attendance-backend-go/internal/service/statistic"
	userService "github.com/cmlabs-hris/attendance-backend-go/internal/service/user"
	"github.com/go-chi/httplog/v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.LogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			log.Fatal("Error applying migrations: ", err)
		}
	}

	loc := cfg.Location()

	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	sessionRepo := postgresql.NewSessionRepository(db)
	jobRepo := postgresql.NewNotificationJobRepository(db)
	transactor := postgresql.NewTransactor(db)

	emailSvc, err := email.NewEmailService(cfg.SMTP, loc)
	if err != nil {
		log.Fatal("Failed to initialize email service: ", err)
	}
	templateGenerator, err := email.NewTemplateGenerator(loc)
	if err != nil {
		log.Fatal("Failed to initialize notification templates: ", err)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.AccessTokenTTL())
	authSvc := serviceAuth.NewAuthService(transactor, userRepo, sessionRepo, JWTService, emailSvc)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, loc)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo)
	userSvc := userService.NewUserService(userRepo, loc)
	reportSvc := reportService.NewReportService(attendanceSvc)
	statisticSvc := statisticService.NewStatisticService(userRepo, employeeRepo, attendanceRepo)
	dispatcher := notificationService.NewDispatcher(jobRepo)

	worker := notificationService.NewWorker(jobRepo, emailSvc, notificationService.Config{
		WorkerCount:   cfg.Notification.WorkerCount,
		BatchSize:     cfg.Notification.BatchSize,
		PollInterval:  cfg.Notification.PollInterval,
		LeaseDuration: cfg.Notification.LeaseDuration,
		MaxAttempts:   cfg.Notification.MaxAttempts,
	}, templateGenerator)
	worker.Start()

	scheduler := cron.NewScheduler()
	if err := cron.NewMaintenanceJobs(sessionRepo, jobRepo, cfg.Notification.Retention).Register(scheduler); err != nil {
		log.Fatal("Failed to register maintenance jobs: ", err)
	}
	scheduler.Start()

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		AllowedOrigins: cfg.App.AllowedOrigins,
		Logger:         logger,
	}, JWTService, authSvc, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(authSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc, dispatcher),
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
		User:       appHTTP.NewUserHandler(userSvc),
		Report:     appHTTP.NewReportHandler(reportSvc),
		Statistic:  appHTTP.NewStatisticHandler(statisticSvc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}

	scheduler.Stop()
	worker.Stop()
	slog.Info("Shutdown complete")
}
