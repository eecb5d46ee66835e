package callattendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/callattendance"
	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/callforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/callforce-backend-go/internal/pkg/database"
)

type CallAttendanceServiceImpl struct {
	tx         database.Transactor
	callLogs   callattendance.CallLogRepository
	attendance callattendance.CallAttendanceRepository
	configs    callattendance.ConfigRepository
	audits     callattendance.AuditRepository
	employees  employee.EmployeeRepository
	calendar   callattendance.WorkingDayChecker
	authority  callattendance.AuthorityChecker
	guard      callattendance.SubmissionGuard
	now        func() time.Time
}

func NewCallAttendanceService(
	tx database.Transactor,
	callLogRepo callattendance.CallLogRepository,
	attendanceRepo callattendance.CallAttendanceRepository,
	configRepo callattendance.ConfigRepository,
	auditRepo callattendance.AuditRepository,
	employeeRepo employee.EmployeeRepository,
	calendar callattendance.WorkingDayChecker,
	authority callattendance.AuthorityChecker,
	guard callattendance.SubmissionGuard,
) callattendance.CallAttendanceService {
	return &CallAttendanceServiceImpl{
		tx:         tx,
		callLogs:   callLogRepo,
		attendance: attendanceRepo,
		configs:    configRepo,
		audits:     auditRepo,
		employees:  employeeRepo,
		calendar:   calendar,
		authority:  authority,
		guard:      guard,
		now:        time.Now,
	}
}

// CreateConfig implements callattendance.CallAttendanceService.
func (s *CallAttendanceServiceImpl) CreateConfig(ctx context.Context, actor user.Actor, req callattendance.CreateConfigRequest) (callattendance.ConfigResponse, error) {
	if err := req.Validate(); err != nil {
		return callattendance.ConfigResponse{}, err
	}

	cfg, _ := callattendance.NewConfig(*req.FullDayMinutes, *req.HalfDayMinutes, *req.AbsentThresholdMinutes)
	if actor.UserID != "" {
		cfg.CreatedBy = &actor.UserID
	}

	var created callattendance.Config
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.configs.Create(txCtx, cfg)
		if err != nil {
			return fmt.Errorf("failed to create attendance config: %w", err)
		}

		if req.Activate {
			if err := s.configs.SetActive(txCtx, created.ID); err != nil {
				return fmt.Errorf("failed to activate attendance config: %w", err)
			}
			created.IsActive = true
		}
		return nil
	})
	if err != nil {
		return callattendance.ConfigResponse{}, err
	}

	slog.Info("attendance config created", "config_id", created.ID, "version", created.Version, "active", created.IsActive)
	return toConfigResponse(created), nil
}

// ActivateConfig implements callattendance.CallAttendanceService.
func (s *CallAttendanceServiceImpl) ActivateConfig(ctx context.Context, id string) (callattendance.ConfigResponse, error) {
	var activated callattendance.Config
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		cfg, err := s.configs.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.configs.SetActive(txCtx, cfg.ID); err != nil {
			return fmt.Errorf("failed to activate attendance config: %w", err)
		}
		cfg.IsActive = true
		activated = cfg
		return nil
	})
	if err != nil {
		return callattendance.ConfigResponse{}, err
	}

	slog.Info("attendance config activated", "config_id", activated.ID, "version", activated.Version)
	return toConfigResponse(activated), nil
}

// GetActiveConfig implements callattendance.CallAttendanceService.
func (s *CallAttendanceServiceImpl) GetActiveConfig(ctx context.Context) (callattendance.ConfigResponse, error) {
	cfg, err := s.configs.GetActive(ctx)
	if err != nil {
		return callattendance.ConfigResponse{}, err
	}
	return toConfigResponse(cfg), nil
}

// ListConfigs implements callattendance.CallAttendanceService.
func (s *CallAttendanceServiceImpl) ListConfigs(ctx context.Context) ([]callattendance.ConfigResponse, error) {
	configs, err := s.configs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance configs: %w", err)
	}

	out := make([]callattendance.ConfigResponse, 0, len(configs))
	for _, cfg := range configs {
		out = append(out, toConfigResponse(cfg))
	}
	return out, nil
}

// today is the current calendar date in UTC.
func (s *CallAttendanceServiceImpl) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// resolveViewScope narrows employeeID to what actor may read. A nil result
// with a nil error means every employee.
func resolveViewScope(actor user.Actor, employeeID *string) (*string, error) {
	if actor.Can(user.PermissionCallAttendanceViewAll) {
		return employeeID, nil
	}
	if !actor.Can(user.PermissionCallAttendanceViewOwn) || actor.EmployeeID == nil {
		return nil, callattendance.ErrViewForbidden
	}
	if employeeID != nil && *employeeID != *actor.EmployeeID {
		return nil, callattendance.ErrViewForbidden
	}
	own := *actor.EmployeeID
	return &own, nil
}
