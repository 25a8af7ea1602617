package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/medoffice/shift-scheduler-backend/internal/models"
)

// ShiftRepository handles database operations for the shifts table.
// It is the committed schedule store: every read and write of committed
// shifts goes through it.
type ShiftRepository struct {
	db DB
}

// NewShiftRepository creates a new ShiftRepository
func NewShiftRepository(db DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

const shiftSelect = `
	SELECT
		s.id, s.staff_id, s.area_id, s.date, s.start_time, s.end_time,
		s.created_at, st.name AS staff_name, st.role AS staff_role,
		a.name AS area_name
	FROM shifts s
	JOIN staff st ON st.id = s.staff_id
	JOIN areas a ON a.id = s.area_id
`

func scanShift(scanner interface {
	Scan(dest ...interface{}) error
}, shift *models.Shift) error {
	return scanner.Scan(
		&shift.ID, &shift.StaffID, &shift.AreaID, &shift.Date,
		&shift.StartTime, &shift.EndTime, &shift.CreatedAt,
		&shift.StaffName, &shift.StaffRole, &shift.AreaName,
	)
}

// GetByID retrieves a shift by ID
func (r *ShiftRepository) GetByID(id string) (*models.Shift, error) {
	query := shiftSelect + ` WHERE s.id = $1`

	shift := &models.Shift{}
	if err := scanShift(r.db.QueryRow(query, id), shift); err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch shift: %w", err)
	}

	return shift, nil
}

// ListByStaffBetween retrieves one staff member's shifts with dates in
// [start, end] inclusive, ordered by date then start time.
func (r *ShiftRepository) ListByStaffBetween(staffID string, start, end time.Time) ([]models.Shift, error) {
	query := shiftSelect + `
		WHERE s.staff_id = $1 AND s.date >= $2 AND s.date <= $3
		ORDER BY s.date, s.start_time`
	return r.selectShifts(query, staffID, start, end)
}

// ListByAreaAndDate retrieves all shifts for one area on one date
func (r *ShiftRepository) ListByAreaAndDate(areaID string, date time.Time) ([]models.Shift, error) {
	query := shiftSelect + `
		WHERE s.area_id = $1 AND s.date = $2
		ORDER BY s.start_time`
	return r.selectShifts(query, areaID, date)
}

// ListBetween retrieves every shift with a date in [start, end] inclusive
func (r *ShiftRepository) ListBetween(start, end time.Time) ([]models.Shift, error) {
	query := shiftSelect + `
		WHERE s.date >= $1 AND s.date <= $2
		ORDER BY s.date, s.start_time`
	return r.selectShifts(query, start, end)
}

func (r *ShiftRepository) selectShifts(query string, args ...interface{}) ([]models.Shift, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	var result []models.Shift
	for rows.Next() {
		var shift models.Shift
		if err := scanShift(rows, &shift); err != nil {
			return nil, fmt.Errorf("failed to scan shift row: %w", err)
		}
		result = append(result, shift)
	}

	return result, rows.Err()
}

// Create creates a new shift record
func (r *ShiftRepository) Create(shift *models.Shift) error {
	if shift.ID == "" {
		shift.ID = uuid.New().String()
	}

	query := `
		INSERT INTO shifts (id, staff_id, area_id, date, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.db.QueryRow(
		query,
		shift.ID, shift.StaffID, shift.AreaID, shift.Date,
		shift.StartTime, shift.EndTime,
	).Scan(&shift.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create shift: %w", err)
	}

	return nil
}

// Update updates an existing shift record in place, preserving its identity
func (r *ShiftRepository) Update(shift *models.Shift) error {
	query := `
		UPDATE shifts
		SET staff_id = $2, area_id = $3, date = $4, start_time = $5, end_time = $6
		WHERE id = $1
	`

	result, err := r.db.Exec(
		query,
		shift.ID, shift.StaffID, shift.AreaID, shift.Date,
		shift.StartTime, shift.EndTime,
	)
	if err != nil {
		return fmt.Errorf("failed to update shift: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrNotFound
	}

	return nil
}

// Delete removes a shift record
func (r *ShiftRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM shifts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete shift: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrNotFound
	}

	return nil
}

// DeleteBetween removes every shift with a date in [start, end] inclusive
func (r *ShiftRepository) DeleteBetween(start, end time.Time) error {
	_, err := r.db.Exec(`DELETE FROM shifts WHERE date >= $1 AND date <= $2`, start, end)
	if err != nil {
		return fmt.Errorf("failed to clear shifts: %w", err)
	}
	return nil
}

// ReplaceBetween atomically replaces the shifts in [start, end] inclusive
// with the given set. Shifts outside the window are left untouched. Used by
// undo/redo restore so a snapshot is applied as one transaction rather than
// a loop of independent deletes and creates.
func (r *ShiftRepository) ReplaceBetween(start, end time.Time, shifts []models.Shift) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM shifts WHERE date >= $1 AND date <= $2`, start, end); err != nil {
		return fmt.Errorf("failed to clear window: %w", err)
	}

	insert := `
		INSERT INTO shifts (id, staff_id, area_id, date, start_time, end_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, shift := range shifts {
		if _, err := tx.Exec(
			insert,
			shift.ID, shift.StaffID, shift.AreaID, shift.Date,
			shift.StartTime, shift.EndTime, shift.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to restore shift %s: %w", shift.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit window replace: %w", err)
	}

	return nil
}
