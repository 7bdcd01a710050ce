package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dept-routine-api/internal/models"
)

func newRoutineRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func int64Ptr(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }

func dayPtr(d models.DayOfWeek) *models.DayOfWeek { return &d }

var weeklyScheduleRowColumns = []string{"id", "semester_id", "department_id", "day_of_week", "start_time", "end_time", "course_id", "room_id", "is_break", "note", "created_at"}

func TestRoutineRepositoryReplaceForDepartmentInTx(t *testing.T) {
	db, mock, cleanup := newRoutineRepoMock(t)
	defer cleanup()
	repo := NewRoutineRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM weekly_schedules WHERE department_id = $1")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO weekly_schedules")).
		WithArgs(int64(10), int64(3), "SUNDAY", "08:00", "09:00", int64(100), int64(7), false, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	rows := []models.WeeklySchedule{
		{
			SemesterID: int64Ptr(10),
			DayOfWeek:  dayPtr(models.Sunday),
			StartTime:  strPtr("08:00"),
			EndTime:    strPtr("09:00"),
			CourseID:   int64Ptr(100),
			RoomID:     int64Ptr(7),
		},
		{
			SemesterID: int64Ptr(10),
			CourseID:   int64Ptr(101),
			Note:       strPtr("Could not assign all required classes (0/2)."),
		},
	}

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	count, err := repo.ReplaceForDepartment(context.Background(), tx, 3, rows)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, 1, count)
	assert.Equal(t, int64(3), rows[0].DepartmentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoutineRepositoryReplaceForDepartmentEmpty(t *testing.T) {
	db, mock, cleanup := newRoutineRepoMock(t)
	defer cleanup()
	repo := NewRoutineRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM weekly_schedules WHERE department_id = $1")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	count, err := repo.ReplaceForDepartment(context.Background(), nil, 3, nil)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoutineRepositoryReplaceForDepartmentInsertError(t *testing.T) {
	db, mock, cleanup := newRoutineRepoMock(t)
	defer cleanup()
	repo := NewRoutineRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM weekly_schedules")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO weekly_schedules")).
		WillReturnError(errors.New("boom"))

	rows := []models.WeeklySchedule{{DayOfWeek: dayPtr(models.Monday), StartTime: strPtr("09:00")}}
	_, err := repo.ReplaceForDepartment(context.Background(), nil, 1, rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert routine entry")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoutineRepositoryListByDepartment(t *testing.T) {
	db, mock, cleanup := newRoutineRepoMock(t)
	defer cleanup()
	repo := NewRoutineRepository(db)

	rows := sqlmock.NewRows(weeklyScheduleRowColumns).
		AddRow(1, 10, 3, "MONDAY", "08:00", "09:00", 100, 7, false, nil, time.Now()).
		AddRow(2, 10, 3, "SUNDAY", "09:00", "10:00", 101, 7, false, nil, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM weekly_schedules WHERE department_id = $1 AND semester_id IN (SELECT id FROM semesters WHERE department_id = $1)")).
		WithArgs(int64(3)).
		WillReturnRows(rows)

	list, err := repo.ListByDepartment(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.NotNil(t, list[0].DayOfWeek)
	assert.Equal(t, models.Monday, *list[0].DayOfWeek)
	assert.Equal(t, int64(100), *list[0].CourseID)
	assert.Nil(t, list[0].Note)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoutineRepositoryFilteredReaders(t *testing.T) {
	db, mock, cleanup := newRoutineRepoMock(t)
	defer cleanup()
	repo := NewRoutineRepository(db)
	ctx := context.Background()

	for _, column := range []string{"room_id", "semester_id", "course_id"} {
		mock.ExpectQuery(regexp.QuoteMeta("FROM weekly_schedules WHERE " + column + " = $1")).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows(weeklyScheduleRowColumns).
				AddRow(1, 10, 3, "TUESDAY", "10:00", "11:00", 100, 5, false, nil, time.Now()))
	}

	byRoom, err := repo.ListByRoom(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, byRoom, 1)

	bySemester, err := repo.ListBySemester(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, bySemester, 1)

	byCourse, err := repo.ListByCourse(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, byCourse, 1)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoutineRepositoryListByCourses(t *testing.T) {
	db, mock, cleanup := newRoutineRepoMock(t)
	defer cleanup()
	repo := NewRoutineRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM weekly_schedules WHERE course_id = ANY($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(weeklyScheduleRowColumns).
			AddRow(1, 10, 3, "SUNDAY", "08:00", "09:00", 100, 7, false, nil, time.Now()))

	list, err := repo.ListByCourses(context.Background(), []int64{100, 101})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	empty, err := repo.ListByCourses(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NoError(t, mock.ExpectationsWereMet())
}
