package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/dept-routine-api/internal/models"
)

const roomColumns = "id, room_number, department_id, status, created_at"

// RoomRepository reads rooms.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository builds the repository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// ListAvailableByDepartment returns AVAILABLE rooms ordered by id; the generator picks the first free one.
func (r *RoomRepository) ListAvailableByDepartment(ctx context.Context, departmentID int64) ([]models.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE department_id = $1 AND status = $2 ORDER BY id ASC`
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query, departmentID, models.RoomAvailable); err != nil {
		return nil, fmt.Errorf("list available rooms: %w", err)
	}
	return rooms, nil
}

// ListByDepartment returns all rooms of the department regardless of status.
func (r *RoomRepository) ListByDepartment(ctx context.Context, departmentID int64) ([]models.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE department_id = $1 ORDER BY id ASC`
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query, departmentID); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}
