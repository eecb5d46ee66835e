// Command reconcile runs call attendance reconciliation once, for a single
// date or a range, and prints the per-day results as JSON.
//
//	reconcile -date 2024-03-11
//	reconcile -days-back 1
//	reconcile -start 2024-03-01 -end 2024-03-31
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/callforce-backend-go/internal/config"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/callforce-backend-go/internal/repository/postgresql"
	callAttendanceService "github.com/cmlabs-hris/callforce-backend-go/internal/service/callattendance"
)

type options struct {
	date     string
	daysBack int
	start    string
	end      string
}

func main() {
	var opts options
	flag.StringVar(&opts.date, "date", "", "reconcile a single date (YYYY-MM-DD)")
	flag.IntVar(&opts.daysBack, "days-back", 0, "reconcile the date N days before today")
	flag.StringVar(&opts.start, "start", "", "range start (YYYY-MM-DD), used with -end")
	flag.StringVar(&opts.end, "end", "", "range end (YYYY-MM-DD), used with -start")
	flag.Parse()

	start, end, err := resolveRange(opts, time.Now())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	workCalendar, err := calendar.NewFromFile(cfg.CallAttendance.CalendarFile, cfg.CallAttendance.WeeklyOffDays)
	if err != nil {
		log.Fatal("Failed to load working-day calendar: ", err)
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	svc := callAttendanceService.NewCallAttendanceService(
		postgresql.NewTransactor(db),
		postgresql.NewCallLogRepository(db),
		postgresql.NewCallAttendanceRepository(db),
		postgresql.NewCallAttendanceConfigRepository(db),
		postgresql.NewCallAttendanceAuditRepository(db),
		employeeRepo,
		workCalendar,
		callAttendanceService.NewAuthorityChecker(employeeRepo),
		// no manual updates are made from here
		cache.NewMemoryGuard(cfg.CallAttendance.DuplicateSubmissionTTL),
	)

	result, err := svc.ReconcileRange(ctx, start, end)
	if err != nil {
		log.Fatal("Reconcile failed: ", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		log.Fatal("Failed to write result: ", err)
	}

	for _, day := range result.Days {
		if day.Error != "" || (day.Result != nil && len(day.Result.Failed) > 0) {
			slog.Warn("Reconcile finished with failures")
			os.Exit(1)
		}
	}
}

// resolveRange picks exactly one of -date, -days-back or -start/-end.
// With no flags it reconciles today.
func resolveRange(opts options, now time.Time) (time.Time, time.Time, error) {
	set := 0
	if opts.date != "" {
		set++
	}
	if opts.daysBack > 0 {
		set++
	}
	if opts.start != "" || opts.end != "" {
		set++
	}
	if set > 1 {
		return time.Time{}, time.Time{}, errors.New("use only one of -date, -days-back or -start/-end")
	}
	if opts.daysBack < 0 {
		return time.Time{}, time.Time{}, errors.New("-days-back must not be negative")
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch {
	case opts.date != "":
		date, ok := validator.IsValidDate(opts.date)
		if !ok {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid -date %q", opts.date)
		}
		return date, date, nil
	case opts.daysBack > 0:
		date := today.AddDate(0, 0, -opts.daysBack)
		return date, date, nil
	case opts.start != "" || opts.end != "":
		start, ok := validator.IsValidDate(opts.start)
		if !ok {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid -start %q", opts.start)
		}
		end, ok := validator.IsValidDate(opts.end)
		if !ok {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid -end %q", opts.end)
		}
		return start, end, nil
	default:
		return today, today, nil
	}
}
