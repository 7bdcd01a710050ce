package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/dept-routine-api/internal/dto"
	"github.com/noah-isme/dept-routine-api/internal/models"
	appErrors "github.com/noah-isme/dept-routine-api/pkg/errors"
)

type departmentReader interface {
	FindByID(ctx context.Context, id int64) (*models.Department, error)
}

type semesterLister interface {
	ListByDepartment(ctx context.Context, departmentID int64) ([]models.Semester, error)
}

type eligibleCourseLister interface {
	ListEligibleByDepartment(ctx context.Context, departmentID int64) ([]models.Course, error)
}

type availableRoomLister interface {
	ListAvailableByDepartment(ctx context.Context, departmentID int64) ([]models.Room, error)
}

type routineWriter interface {
	ReplaceForDepartment(ctx context.Context, exec sqlx.ExtContext, departmentID int64, rows []models.WeeklySchedule) (int, error)
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// RoutineServiceConfig governs the generator calendar and preview lifetime.
type RoutineServiceConfig struct {
	Calendar   RoutineCalendar
	PreviewTTL time.Duration
}

// RoutineService generates routine previews, applies manual moves and saves them.
type RoutineService struct {
	departments departmentReader
	semesters   semesterLister
	courses     eligibleCourseLister
	rooms       availableRoomLister
	routines    routineWriter
	tx          txProvider
	store       RoutinePreviewStore
	cache       *CacheService
	metrics     *MetricsService
	checker     *ConflictChecker
	calendar    RoutineCalendar
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewRoutineService wires routine dependencies. A nil store falls back to an in-memory store.
func NewRoutineService(
	departments departmentReader,
	semesters semesterLister,
	courses eligibleCourseLister,
	rooms availableRoomLister,
	routines routineWriter,
	tx txProvider,
	store RoutinePreviewStore,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg RoutineServiceConfig,
) *RoutineService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Calendar.Validate() != nil {
		cfg.Calendar = DefaultRoutineCalendar()
	}
	if store == nil {
		store = NewMemoryPreviewStore(cfg.PreviewTTL)
	}
	return &RoutineService{
		departments: departments,
		semesters:   semesters,
		courses:     courses,
		rooms:       rooms,
		routines:    routines,
		tx:          tx,
		store:       store,
		cache:       cache,
		metrics:     metrics,
		checker:     NewConflictChecker(cfg.Calendar),
		calendar:    cfg.Calendar,
		validator:   validate,
		logger:      logger,
	}
}

// GeneratePreview builds and stores a routine preview for the department. Nothing is persisted.
func (s *RoutineService) GeneratePreview(ctx context.Context, req dto.PreviewRoutineRequest) (*dto.RoutinePreview, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "departmentId is required")
	}
	if err := ensureDepartment(ctx, s.departments, req.DepartmentID); err != nil {
		return nil, err
	}

	semesters, err := s.semesters.ListByDepartment(ctx, req.DepartmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semesters")
	}
	if len(semesters) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no semesters found for department")
	}

	courses, err := s.courses.ListEligibleByDepartment(ctx, req.DepartmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	if len(courses) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no courses with assigned teachers and semesters")
	}

	rooms, err := s.rooms.ListAvailableByDepartment(ctx, req.DepartmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	if len(rooms) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no available rooms for department")
	}

	start := time.Now()
	result := GenerateRoutine(req.DepartmentID, courses, rooms, s.calendar)
	s.metrics.ObserveRoutineGeneration(result.Stats, time.Since(start))

	preview := dto.RoutinePreview{
		PreviewID:    uuid.NewString(),
		DepartmentID: req.DepartmentID,
		Routine:      result.Placed,
		Unassigned:   result.Unassigned,
		Stats:        result.Stats,
		GeneratedAt:  time.Now().UTC(),
	}
	if err := s.store.Save(ctx, preview); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store routine preview")
	}

	s.logger.Info("routine preview generated",
		zap.String("preview_id", preview.PreviewID),
		zap.Int64("department_id", req.DepartmentID),
		zap.Int("courses", result.Stats.Courses),
		zap.Int("placed", result.Stats.PlacedSessions),
		zap.Int("unassigned", result.Stats.UnassignedSessions),
	)
	return &preview, nil
}

// GetPreview returns a stored preview.
func (s *RoutineService) GetPreview(ctx context.Context, previewID string) (*dto.RoutinePreview, error) {
	if previewID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "preview id is required")
	}
	preview, err := s.store.Get(ctx, previewID)
	if err != nil {
		if errors.Is(err, appErrors.ErrPreviewExpired) {
			return nil, err
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load routine preview")
	}
	return preview, nil
}

// MoveEntry applies a drag move to the stored preview. A rejected move leaves the preview unchanged.
// The conflict check and the write run as one store update, so concurrent moves into the same
// cell cannot both be accepted.
func (s *RoutineService) MoveEntry(ctx context.Context, previewID string, req dto.MoveRoutineEntryRequest) (*dto.RoutinePreview, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid move payload")
	}
	if previewID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "preview id is required")
	}

	var moveErr error
	preview, err := s.store.Update(ctx, previewID, func(current *dto.RoutinePreview) error {
		moveErr = nil
		routine, err := s.checker.MoveEntry(current.Routine, req.From, req.To, req.Index)
		if err != nil {
			moveErr = err
			return err
		}
		current.Routine = routine
		return nil
	})
	if moveErr != nil {
		if appErrors.FromError(moveErr).Code == appErrors.ErrMoveConflict.Code {
			s.metrics.RecordMove(false)
		}
		return nil, moveErr
	}
	if err != nil {
		if errors.Is(err, appErrors.ErrPreviewExpired) {
			return nil, err
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store routine preview")
	}
	if req.From != req.To {
		s.metrics.RecordMove(true)
	}
	return preview, nil
}

// CheckMove reports whether a move would be accepted without applying it.
func (s *RoutineService) CheckMove(ctx context.Context, previewID string, req dto.MoveRoutineEntryRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid move payload")
	}
	preview, err := s.GetPreview(ctx, previewID)
	if err != nil {
		return err
	}
	return s.checker.CheckMove(preview.Routine, req.From, req.To, req.Index)
}

// DiscardPreview drops a stored preview.
func (s *RoutineService) DiscardPreview(ctx context.Context, previewID string) error {
	if _, err := s.GetPreview(ctx, previewID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, previewID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to discard routine preview")
	}
	return nil
}

// Commit replaces the department's persisted routine with a stored preview or an explicit
// routine. Unassigned entries are never written. Delete and insert share one transaction.
func (s *RoutineService) Commit(ctx context.Context, req dto.SaveRoutineRequest) (*dto.SaveRoutineResponse, error) {
	departmentID, entries, err := s.commitEntries(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := ensureDepartment(ctx, s.departments, departmentID); err != nil {
		return nil, err
	}
	if s.tx == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}

	rows := toWeeklySchedules(departmentID, entries)

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	inserted, err := s.routines.ReplaceForDepartment(ctx, tx, departmentID, rows)
	if err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace department routine")
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit routine transaction")
		return nil, err
	}

	if req.PreviewID != "" {
		if delErr := s.store.Delete(ctx, req.PreviewID); delErr != nil {
			s.logger.Warn("failed to drop committed preview", zap.String("preview_id", req.PreviewID), zap.Error(delErr))
		}
	}
	_ = s.cache.Invalidate(ctx, scheduleCachePattern)
	s.metrics.RecordCommit(inserted)

	s.logger.Info("routine saved", zap.Int64("department_id", departmentID), zap.Int("inserted", inserted))
	return &dto.SaveRoutineResponse{
		Message:       "Routine saved.",
		DepartmentID:  departmentID,
		InsertedCount: inserted,
	}, nil
}

// CommitDepartment resolves the department a save request targets, for authorization.
func (s *RoutineService) CommitDepartment(ctx context.Context, req dto.SaveRoutineRequest) (int64, error) {
	departmentID, _, err := s.commitEntries(ctx, req)
	return departmentID, err
}

func (s *RoutineService) commitEntries(ctx context.Context, req dto.SaveRoutineRequest) (int64, []dto.RoutineEntry, error) {
	if req.PreviewID != "" {
		preview, err := s.GetPreview(ctx, req.PreviewID)
		if err != nil {
			return 0, nil, err
		}
		return preview.DepartmentID, preview.Routine, nil
	}

	if len(req.Routine) == 0 {
		return 0, nil, appErrors.Clone(appErrors.ErrValidation, "routine array is required")
	}
	departmentID := req.Routine[0].DepartmentID
	if departmentID <= 0 {
		return 0, nil, appErrors.Clone(appErrors.ErrValidation, "departmentId is required in routine entries")
	}
	for _, entry := range req.Routine {
		if entry.DepartmentID != departmentID {
			return 0, nil, appErrors.Clone(appErrors.ErrValidation, "routine entries must belong to one department")
		}
		if entry.Placed() {
			if _, ok := s.calendar.Contains(*entry.DayOfWeek, *entry.StartTime); !ok {
				return 0, nil, appErrors.Clone(appErrors.ErrValidation, "routine entry outside the routine calendar")
			}
		}
	}
	if err := s.ensureDepartmentSemesters(ctx, departmentID, req.Routine); err != nil {
		return 0, nil, err
	}
	return departmentID, req.Routine, nil
}

// ensureDepartmentSemesters rejects placed entries whose semester is missing or owned by
// another department. The final routine reader only returns the department's own semesters.
func (s *RoutineService) ensureDepartmentSemesters(ctx context.Context, departmentID int64, entries []dto.RoutineEntry) error {
	semesters, err := s.semesters.ListByDepartment(ctx, departmentID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semesters")
	}
	owned := make(map[int64]struct{}, len(semesters))
	for _, semester := range semesters {
		owned[semester.ID] = struct{}{}
	}
	for _, entry := range entries {
		if !entry.Placed() {
			continue
		}
		if entry.SemesterID == nil {
			return appErrors.Clone(appErrors.ErrValidation, "semesterId is required in routine entries")
		}
		if _, ok := owned[*entry.SemesterID]; !ok {
			return appErrors.Clone(appErrors.ErrValidation, "routine entry semester does not belong to the department")
		}
	}
	return nil
}

func ensureDepartment(ctx context.Context, departments departmentReader, departmentID int64) error {
	if departments == nil {
		return nil
	}
	if _, err := departments.FindByID(ctx, departmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
	}
	return nil
}
