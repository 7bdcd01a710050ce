package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dept-routine-api/internal/dto"
	"github.com/noah-isme/dept-routine-api/internal/models"
	appErrors "github.com/noah-isme/dept-routine-api/pkg/errors"
)

// stubCacheRepo keeps JSON payloads in memory.
type stubCacheRepo struct {
	data        map[string][]byte
	invalidated []string
}

func newStubCacheRepo() *stubCacheRepo {
	return &stubCacheRepo{data: map[string][]byte{}}
}

func (s *stubCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := s.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (s *stubCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.data[key] = raw
	return nil
}

func (s *stubCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	s.invalidated = append(s.invalidated, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range s.data {
		if strings.HasPrefix(key, prefix) {
			delete(s.data, key)
		}
	}
	return nil
}

type scheduleReaderStub struct {
	byDepartment []models.WeeklySchedule
	byCourses    map[int64][]models.WeeklySchedule
	calls        int
	err          error
}

func (s *scheduleReaderStub) ListByDepartment(context.Context, int64) ([]models.WeeklySchedule, error) {
	s.calls++
	return s.byDepartment, s.err
}

func (s *scheduleReaderStub) ListByRoom(_ context.Context, roomID int64) ([]models.WeeklySchedule, error) {
	return s.filter(func(row models.WeeklySchedule) bool { return row.RoomID != nil && *row.RoomID == roomID }), s.err
}

func (s *scheduleReaderStub) ListBySemester(_ context.Context, semesterID int64) ([]models.WeeklySchedule, error) {
	return s.filter(func(row models.WeeklySchedule) bool { return row.SemesterID != nil && *row.SemesterID == semesterID }), s.err
}

func (s *scheduleReaderStub) ListByCourse(_ context.Context, courseID int64) ([]models.WeeklySchedule, error) {
	return s.filter(func(row models.WeeklySchedule) bool { return row.CourseID != nil && *row.CourseID == courseID }), s.err
}

func (s *scheduleReaderStub) ListByCourses(_ context.Context, courseIDs []int64) ([]models.WeeklySchedule, error) {
	wanted := make(map[int64]bool, len(courseIDs))
	for _, id := range courseIDs {
		wanted[id] = true
	}
	return s.filter(func(row models.WeeklySchedule) bool { return row.CourseID != nil && wanted[*row.CourseID] }), s.err
}

func (s *scheduleReaderStub) filter(keep func(models.WeeklySchedule) bool) []models.WeeklySchedule {
	var out []models.WeeklySchedule
	for _, row := range s.byDepartment {
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}

type teacherCourseStub struct {
	ids map[int64][]int64
}

func (s *teacherCourseStub) ListIDsByTeacher(_ context.Context, teacherID int64) ([]int64, error) {
	return s.ids[teacherID], nil
}

func savedRows() []models.WeeklySchedule {
	return toWeeklySchedules(1, []dto.RoutineEntry{
		entryAt(models.Tuesday, 9, 101, 2, 21),
		entryAt(models.Sunday, 10, 100, 1, 20),
		entryAt(models.Sunday, 8, 102, 2, 20),
	})
}

func newScheduleFixture() (*ScheduleService, *scheduleReaderStub, *stubCacheRepo, *departmentStub) {
	reader := &scheduleReaderStub{byDepartment: savedRows()}
	repo := newStubCacheRepo()
	departments := &departmentStub{}
	cache := NewCacheService(repo, nil, time.Minute, nil, true)
	svc := NewScheduleService(reader, &teacherCourseStub{ids: map[int64][]int64{10: {100, 101}}}, departments, cache, nil, ScheduleServiceConfig{})
	return svc, reader, repo, departments
}

func TestScheduleServiceFinalRoutineSortsAndCaches(t *testing.T) {
	svc, reader, _, _ := newScheduleFixture()
	ctx := context.Background()

	entries, hit, err := svc.FinalRoutine(ctx, 1)
	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, entries, 3)
	assert.Equal(t, "08:00", *entries[0].StartTime)
	assert.Equal(t, models.Sunday, *entries[1].DayOfWeek)
	assert.Equal(t, "10:00", *entries[1].StartTime)
	assert.Equal(t, models.Tuesday, *entries[2].DayOfWeek)

	cached, hit, err := svc.FinalRoutine(ctx, 1)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, entries, cached)
	assert.Equal(t, 1, reader.calls)
}

func TestScheduleServiceFinalRoutineInvalidatedByCommit(t *testing.T) {
	svc, reader, repo, _ := newScheduleFixture()
	ctx := context.Background()

	_, _, err := svc.FinalRoutine(ctx, 1)
	require.NoError(t, err)

	tx, mock := newTxProviderMock(t)
	f := newRoutineServiceFixture(tx)
	f.service.cache = NewCacheService(repo, nil, time.Minute, nil, true)
	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err = f.service.Commit(ctx, dto.SaveRoutineRequest{Routine: []dto.RoutineEntry{entryAt(models.Sunday, 8, 100, 1, 20)}})
	require.NoError(t, err)
	assert.Equal(t, []string{scheduleCachePattern}, repo.invalidated)

	_, hit, err := svc.FinalRoutine(ctx, 1)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, reader.calls)
}

func TestScheduleServiceFinalRoutineErrors(t *testing.T) {
	svc, reader, _, departments := newScheduleFixture()
	ctx := context.Background()

	_, _, err := svc.FinalRoutine(ctx, 0)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	departments.err = sql.ErrNoRows
	_, _, err = svc.FinalRoutine(ctx, 1)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	departments.err = nil
	reader.err = errors.New("db down")
	_, _, err = svc.FinalRoutine(ctx, 1)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestScheduleServiceFinalRoutineEmpty(t *testing.T) {
	svc, reader, _, _ := newScheduleFixture()
	reader.byDepartment = nil

	entries, _, err := svc.FinalRoutine(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestScheduleServiceViews(t *testing.T) {
	svc, _, _, _ := newScheduleFixture()
	ctx := context.Background()

	byRoom, err := svc.ByRoom(ctx, 2)
	require.NoError(t, err)
	require.Len(t, byRoom, 2)
	assert.Equal(t, models.Sunday, *byRoom[0].DayOfWeek)

	bySemester, err := svc.BySemester(ctx, 20)
	require.NoError(t, err)
	assert.Len(t, bySemester, 2)

	byCourse, err := svc.ByCourse(ctx, 101)
	require.NoError(t, err)
	assert.Len(t, byCourse, 1)

	byTeacher, err := svc.ByTeacher(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, byTeacher, 2)

	unknownTeacher, err := svc.ByTeacher(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, unknownTeacher)

	_, err = svc.ByRoom(ctx, 0)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
