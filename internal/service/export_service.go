package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/dept-routine-api/internal/dto"
	"github.com/noah-isme/dept-routine-api/internal/models"
	"github.com/noah-isme/dept-routine-api/pkg/export"
	appErrors "github.com/noah-isme/dept-routine-api/pkg/errors"
)

// Export formats.
const (
	ExportFormatCSV  = "csv"
	ExportFormatPDF  = "pdf"
	ExportFormatXLSX = "xlsx"
)

type finalRoutineReader interface {
	FinalRoutine(ctx context.Context, departmentID int64) ([]dto.RoutineEntry, bool, error)
}

type courseCatalog interface {
	ListByDepartment(ctx context.Context, departmentID int64) ([]models.Course, error)
}

type roomCatalog interface {
	ListByDepartment(ctx context.Context, departmentID int64) ([]models.Room, error)
}

type csvRenderer interface {
	Render(rows interface{}) ([]byte, error)
}

type gridRenderer interface {
	Render(grid export.Grid) ([]byte, error)
}

// ExportFile is a rendered routine ready to be sent as an attachment.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// routineCSVRow is one line of the CSV export.
type routineCSVRow struct {
	Day        string `csv:"day"`
	StartTime  string `csv:"start_time"`
	EndTime    string `csv:"end_time"`
	CourseCode string `csv:"course_code"`
	CourseName string `csv:"course_name"`
	Room       string `csv:"room"`
	SemesterID string `csv:"semester_id"`
}

// ExportService renders the saved routine of a department as CSV, PDF or XLSX.
type ExportService struct {
	schedules finalRoutineReader
	courses   courseCatalog
	rooms     roomCatalog
	calendar  RoutineCalendar
	csv       csvRenderer
	pdf       gridRenderer
	xlsx      gridRenderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers use the default exporters.
func NewExportService(schedules finalRoutineReader, courses courseCatalog, rooms roomCatalog, calendar RoutineCalendar, logger *zap.Logger, csv csvRenderer, pdf, xlsx gridRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if calendar.Validate() != nil {
		calendar = DefaultRoutineCalendar()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if xlsx == nil {
		xlsx = export.NewXLSXExporter("Routine")
	}
	return &ExportService{
		schedules: schedules,
		courses:   courses,
		rooms:     rooms,
		calendar:  calendar,
		csv:       csv,
		pdf:       pdf,
		xlsx:      xlsx,
		logger:    logger,
		now:       time.Now,
	}
}

// Export renders the department routine in the requested format, CSV when empty.
func (s *ExportService) Export(ctx context.Context, query dto.ExportRoutineQuery) (*ExportFile, error) {
	format := strings.ToLower(query.Format)
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatPDF && format != ExportFormatXLSX {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be one of csv, pdf, xlsx")
	}

	entries, _, err := s.schedules.FinalRoutine(ctx, query.DepartmentID)
	if err != nil {
		return nil, err
	}
	labels, err := s.loadLabels(ctx, query.DepartmentID)
	if err != nil {
		return nil, err
	}

	var (
		data        []byte
		contentType string
	)
	switch format {
	case ExportFormatCSV:
		data, err = s.csv.Render(labels.csvRows(entries))
		contentType = "text/csv"
	case ExportFormatPDF:
		data, err = s.pdf.Render(labels.grid(s.calendar, entries, query.DepartmentID))
		contentType = "application/pdf"
	case ExportFormatXLSX:
		data, err = s.xlsx.Render(labels.grid(s.calendar, entries, query.DepartmentID))
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	if err != nil {
		s.logger.Error("render routine export", zap.String("format", format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render routine export")
	}

	return &ExportFile{
		Filename:    fmt.Sprintf("routine_department_%d_%s.%s", query.DepartmentID, s.now().UTC().Format("20060102"), format),
		ContentType: contentType,
		Data:        data,
	}, nil
}

type routineLabels struct {
	courses map[int64]models.Course
	rooms   map[int64]string
}

func (s *ExportService) loadLabels(ctx context.Context, departmentID int64) (routineLabels, error) {
	labels := routineLabels{courses: map[int64]models.Course{}, rooms: map[int64]string{}}
	courses, err := s.courses.ListByDepartment(ctx, departmentID)
	if err != nil {
		return labels, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	for _, course := range courses {
		labels.courses[course.ID] = course
	}
	rooms, err := s.rooms.ListByDepartment(ctx, departmentID)
	if err != nil {
		return labels, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	for _, room := range rooms {
		labels.rooms[room.ID] = room.Number
	}
	return labels, nil
}

func (l routineLabels) course(id *int64) models.Course {
	if id == nil {
		return models.Course{}
	}
	if course, ok := l.courses[*id]; ok {
		return course
	}
	return models.Course{Code: fmt.Sprintf("#%d", *id)}
}

func (l routineLabels) room(id *int64) string {
	if id == nil {
		return ""
	}
	if number, ok := l.rooms[*id]; ok {
		return number
	}
	return fmt.Sprintf("#%d", *id)
}

func (l routineLabels) csvRows(entries []dto.RoutineEntry) []routineCSVRow {
	rows := make([]routineCSVRow, 0, len(entries))
	for _, entry := range entries {
		course := l.course(entry.CourseID)
		row := routineCSVRow{
			StartTime:  deref(entry.StartTime),
			EndTime:    deref(entry.EndTime),
			CourseCode: course.Code,
			CourseName: course.Name,
			Room:       l.room(entry.RoomID),
		}
		if entry.DayOfWeek != nil {
			row.Day = string(*entry.DayOfWeek)
		}
		if entry.SemesterID != nil {
			row.SemesterID = fmt.Sprint(*entry.SemesterID)
		}
		rows = append(rows, row)
	}
	return rows
}

// grid lays entries out with one row per hour and one column per calendar day.
func (l routineLabels) grid(calendar RoutineCalendar, entries []dto.RoutineEntry, departmentID int64) export.Grid {
	columns := []string{"Time"}
	dayColumn := make(map[models.DayOfWeek]int, len(calendar.Days))
	for i, day := range calendar.Days {
		columns = append(columns, string(day))
		dayColumn[day] = i + 1
	}

	var rows [][]string
	rowOf := make(map[string]int)
	for hour := range calendar.Hours() {
		slot := Slot{Hour: hour}
		row := make([]string, len(columns))
		row[0] = slot.Start() + "-" + slot.End()
		rowOf[slot.Start()] = len(rows)
		rows = append(rows, row)
	}

	for _, entry := range entries {
		if !entry.Placed() {
			continue
		}
		r, okRow := rowOf[*entry.StartTime]
		c, okCol := dayColumn[*entry.DayOfWeek]
		if !okRow || !okCol {
			continue
		}
		label := l.course(entry.CourseID).Code
		if room := l.room(entry.RoomID); room != "" {
			label += " (" + room + ")"
		}
		if rows[r][c] != "" {
			rows[r][c] += "\n"
		}
		rows[r][c] += label
	}

	return export.Grid{
		Title:   fmt.Sprintf("Department %d weekly routine", departmentID),
		Columns: columns,
		Rows:    rows,
	}
}
