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
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/callforce-backend-go/internal/config"
	"github.com/cmlabs-hris/callforce-backend-go/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/callforce-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/callforce-backend-go/internal/repository/postgresql"
	callAttendanceService "github.com/cmlabs-hris/callforce-backend-go/internal/service/callattendance"
	incentiveService "github.com/cmlabs-hris/callforce-backend-go/internal/service/incentive"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	slog.SetDefault(newLogger(cfg.App))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedisClient(ctx, cache.RedisConfig{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Error connecting to redis: ", err)
	}
	defer redisClient.Close()

	workCalendar, err := calendar.NewFromFile(cfg.CallAttendance.CalendarFile, cfg.CallAttendance.WeeklyOffDays)
	if err != nil {
		log.Fatal("Failed to load working-day calendar: ", err)
	}

	transactor := postgresql.NewTransactor(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	callLogRepo := postgresql.NewCallLogRepository(db)
	callAttendanceRepo := postgresql.NewCallAttendanceRepository(db)
	configRepo := postgresql.NewCallAttendanceConfigRepository(db)
	auditRepo := postgresql.NewCallAttendanceAuditRepository(db)
	slabRepo := postgresql.NewIncentiveSlabRepository(db)
	loanTypeRepo := postgresql.NewLoanTypeRepository(db)
	leadRepo := postgresql.NewLeadRepository(db)
	calculationRepo := postgresql.NewIncentiveCalculationRepository(db)
	targetRepo := postgresql.NewIncentiveTargetRepository(db)

	if err := fixtures.NewSeeder(transactor, configRepo, slabRepo, loanTypeRepo).Seed(ctx); err != nil {
		log.Fatal("Failed to seed defaults: ", err)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	attendanceSvc := callAttendanceService.NewCallAttendanceService(
		transactor,
		callLogRepo,
		callAttendanceRepo,
		configRepo,
		auditRepo,
		employeeRepo,
		workCalendar,
		callAttendanceService.NewAuthorityChecker(employeeRepo),
		cache.NewSubmissionGuard(redisClient, cfg.CallAttendance.DuplicateSubmissionTTL),
	)
	incentiveSvc := incentiveService.NewIncentiveService(
		transactor,
		slabRepo,
		loanTypeRepo,
		leadRepo,
		calculationRepo,
		targetRepo,
		employeeRepo,
		callAttendanceRepo,
		incentiveService.NewSlabCalculator(),
		cfg.Incentive.DefaultWaiverPercentage,
	)

	scheduler := cron.NewScheduler(ctx)
	jobs := cron.NewCallAttendanceJobs(attendanceSvc, cfg.CallAttendance.ReconcileHour, cfg.CallAttendance.AuditRetentionDays)
	if err := jobs.RegisterJobs(scheduler, cfg.CallAttendance.ReconcileInterval); err != nil {
		log.Fatal("Failed to register cron jobs: ", err)
	}
	if err := cron.NewIncentiveJobs(incentiveSvc).RegisterJobs(scheduler, cfg.CallAttendance.ReconcileInterval); err != nil {
		log.Fatal("Failed to register cron jobs: ", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	router, err := appHTTP.NewRouter(
		cfg.App,
		JWTService,
		appHTTP.NewCallLogHandler(attendanceSvc),
		appHTTP.NewCallAttendanceHandler(attendanceSvc),
		appHTTP.NewIncentiveHandler(incentiveSvc),
	)
	if err != nil {
		log.Fatal("Failed to build router: ", err)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}

func newLogger(app config.AppConfig) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(app.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).With(
		slog.String("app", "callforce"),
		slog.String("env", app.Env),
	)
}
