package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/dept-routine-api/internal/dto"
	"github.com/noah-isme/dept-routine-api/internal/models"
	"github.com/noah-isme/dept-routine-api/pkg/cache"
	appErrors "github.com/noah-isme/dept-routine-api/pkg/errors"
)

var scheduleCachePattern = cache.Key("schedule", "*")

type scheduleReader interface {
	ListByDepartment(ctx context.Context, departmentID int64) ([]models.WeeklySchedule, error)
	ListByRoom(ctx context.Context, roomID int64) ([]models.WeeklySchedule, error)
	ListBySemester(ctx context.Context, semesterID int64) ([]models.WeeklySchedule, error)
	ListByCourse(ctx context.Context, courseID int64) ([]models.WeeklySchedule, error)
	ListByCourses(ctx context.Context, courseIDs []int64) ([]models.WeeklySchedule, error)
}

type teacherCourseLister interface {
	ListIDsByTeacher(ctx context.Context, teacherID int64) ([]int64, error)
}

// ScheduleServiceConfig tunes caching of persisted routine views.
type ScheduleServiceConfig struct {
	CacheTTL time.Duration
}

// ScheduleService reads the persisted weekly routine through several views.
type ScheduleService struct {
	routines    scheduleReader
	courses     teacherCourseLister
	departments departmentReader
	cache       *CacheService
	logger      *zap.Logger
	cfg         ScheduleServiceConfig
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(routines scheduleReader, courses teacherCourseLister, departments departmentReader, cache *CacheService, logger *zap.Logger, cfg ScheduleServiceConfig) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &ScheduleService{routines: routines, courses: courses, departments: departments, cache: cache, logger: logger, cfg: cfg}
}

// FinalRoutine returns the department's saved routine ordered by day then start time.
// The boolean reports whether the result came from cache.
func (s *ScheduleService) FinalRoutine(ctx context.Context, departmentID int64) ([]dto.RoutineEntry, bool, error) {
	if departmentID <= 0 {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "departmentId is required")
	}
	key := cache.Key("schedule", "final", fmt.Sprint(departmentID))

	var cached []dto.RoutineEntry
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, true, nil
	}

	if err := ensureDepartment(ctx, s.departments, departmentID); err != nil {
		return nil, false, err
	}

	rows, err := s.routines.ListByDepartment(ctx, departmentID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load routine")
	}
	entries := toRoutineEntries(rows)
	sortByDayAndStart(entries)

	_ = s.cache.Set(ctx, key, entries, s.cfg.CacheTTL)
	return entries, false, nil
}

// ByRoom returns every saved entry held in the room.
func (s *ScheduleService) ByRoom(ctx context.Context, roomID int64) ([]dto.RoutineEntry, error) {
	return s.view(ctx, "room", roomID, s.routines.ListByRoom)
}

// BySemester returns every saved entry of the semester.
func (s *ScheduleService) BySemester(ctx context.Context, semesterID int64) ([]dto.RoutineEntry, error) {
	return s.view(ctx, "semester", semesterID, s.routines.ListBySemester)
}

// ByCourse returns every saved entry of the course.
func (s *ScheduleService) ByCourse(ctx context.Context, courseID int64) ([]dto.RoutineEntry, error) {
	return s.view(ctx, "course", courseID, s.routines.ListByCourse)
}

// ByTeacher returns the saved entries of every course the teacher teaches.
func (s *ScheduleService) ByTeacher(ctx context.Context, teacherID int64) ([]dto.RoutineEntry, error) {
	return s.view(ctx, "teacher", teacherID, func(ctx context.Context, id int64) ([]models.WeeklySchedule, error) {
		courseIDs, err := s.courses.ListIDsByTeacher(ctx, id)
		if err != nil {
			return nil, err
		}
		return s.routines.ListByCourses(ctx, courseIDs)
	})
}

func (s *ScheduleService) view(ctx context.Context, name string, id int64, load func(context.Context, int64) ([]models.WeeklySchedule, error)) ([]dto.RoutineEntry, error) {
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s id is required", name))
	}
	rows, err := load(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to load %s schedule", name))
	}
	entries := toRoutineEntries(rows)
	sortByDayAndStart(entries)
	return entries, nil
}
