package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/medoffice/shift-scheduler-backend/internal/models"
)

// StaffRepository handles database operations for the staff table
type StaffRepository struct {
	db DB
}

// NewStaffRepository creates a new StaffRepository
func NewStaffRepository(db DB) *StaffRepository {
	return &StaffRepository{db: db}
}

const staffColumns = `
	id, name, role, shift_length, days_per_week, start_time, is_per_diem,
	allowed_areas, required_days_off, flexible_days_off, is_active,
	created_at, updated_at
`

// GetByID retrieves a staff member by ID
func (r *StaffRepository) GetByID(id string) (*models.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE id = $1`

	staff := &models.Staff{}
	err := r.db.QueryRow(query, id).Scan(
		&staff.ID, &staff.Name, &staff.Role, &staff.ShiftLength,
		&staff.DaysPerWeek, &staff.StartTime, &staff.IsPerDiem,
		&staff.AllowedAreas, &staff.RequiredDaysOff, &staff.FlexibleDaysOff,
		&staff.IsActive, &staff.CreatedAt, &staff.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch staff member: %w", err)
	}

	return staff, nil
}

// List retrieves all staff members ordered by name
func (r *StaffRepository) List() ([]models.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff ORDER BY name`
	return r.selectStaff(query)
}

// ListActive retrieves all active staff members ordered by name
func (r *StaffRepository) ListActive() ([]models.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE is_active = true ORDER BY name`
	return r.selectStaff(query)
}

func (r *StaffRepository) selectStaff(query string, args ...interface{}) ([]models.Staff, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	defer rows.Close()

	var result []models.Staff
	for rows.Next() {
		var staff models.Staff
		if err := rows.Scan(
			&staff.ID, &staff.Name, &staff.Role, &staff.ShiftLength,
			&staff.DaysPerWeek, &staff.StartTime, &staff.IsPerDiem,
			&staff.AllowedAreas, &staff.RequiredDaysOff, &staff.FlexibleDaysOff,
			&staff.IsActive, &staff.CreatedAt, &staff.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan staff row: %w", err)
		}
		result = append(result, staff)
	}

	return result, rows.Err()
}

// Create creates a new staff record
func (r *StaffRepository) Create(staff *models.Staff) error {
	if staff.ID == "" {
		staff.ID = uuid.New().String()
	}

	query := `
		INSERT INTO staff (
			id, name, role, shift_length, days_per_week, start_time,
			is_per_diem, allowed_areas, required_days_off, flexible_days_off,
			is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		staff.ID, staff.Name, staff.Role, staff.ShiftLength,
		staff.DaysPerWeek, staff.StartTime, staff.IsPerDiem,
		staff.AllowedAreas, staff.RequiredDaysOff, staff.FlexibleDaysOff,
		staff.IsActive,
	).Scan(&staff.CreatedAt, &staff.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create staff member: %w", err)
	}

	return nil
}

// Update updates an existing staff record
func (r *StaffRepository) Update(staff *models.Staff) error {
	query := `
		UPDATE staff
		SET
			name = $2,
			role = $3,
			shift_length = $4,
			days_per_week = $5,
			start_time = $6,
			is_per_diem = $7,
			allowed_areas = $8,
			required_days_off = $9,
			flexible_days_off = $10,
			is_active = $11,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		query,
		staff.ID, staff.Name, staff.Role, staff.ShiftLength,
		staff.DaysPerWeek, staff.StartTime, staff.IsPerDiem,
		staff.AllowedAreas, staff.RequiredDaysOff, staff.FlexibleDaysOff,
		staff.IsActive,
	).Scan(&staff.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to update staff member: %w", err)
	}

	return nil
}

// Delete removes a staff record
func (r *StaffRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM staff WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete staff member: %w", err)
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
