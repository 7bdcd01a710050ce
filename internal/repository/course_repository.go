package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/dept-routine-api/internal/models"
)

const courseColumns = "id, name, code, credits, department_id, teacher_id, semester_id, created_at"

// CourseRepository reads courses. Every list is ordered by id because the
// routine generator is sensitive to course order.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository builds the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// ListEligibleByDepartment returns courses with both a teacher and a semester assigned.
func (r *CourseRepository) ListEligibleByDepartment(ctx context.Context, departmentID int64) ([]models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses
WHERE department_id = $1 AND teacher_id IS NOT NULL AND semester_id IS NOT NULL
ORDER BY id ASC`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, departmentID); err != nil {
		return nil, fmt.Errorf("list eligible courses: %w", err)
	}
	return courses, nil
}

// ListByDepartment returns every course of the department.
func (r *CourseRepository) ListByDepartment(ctx context.Context, departmentID int64) ([]models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE department_id = $1 ORDER BY id ASC`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, departmentID); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// ListIDsByTeacher returns the ids of the courses taught by the teacher.
func (r *CourseRepository) ListIDsByTeacher(ctx context.Context, teacherID int64) ([]int64, error) {
	const query = `SELECT id FROM courses WHERE teacher_id = $1 ORDER BY id ASC`
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher courses: %w", err)
	}
	return ids, nil
}
