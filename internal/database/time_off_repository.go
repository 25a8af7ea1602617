package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/medoffice/shift-scheduler-backend/internal/models"
)

// TimeOffRepository handles database operations for the time_off_requests table
type TimeOffRepository struct {
	db DB
}

// NewTimeOffRepository creates a new TimeOffRepository
func NewTimeOffRepository(db DB) *TimeOffRepository {
	return &TimeOffRepository{db: db}
}

const timeOffSelect = `
	SELECT
		t.id, t.staff_id, t.start_date, t.end_date, t.reason, t.status,
		t.created_at, st.name AS staff_name
	FROM time_off_requests t
	JOIN staff st ON st.id = t.staff_id
`

func scanTimeOff(scanner interface {
	Scan(dest ...interface{}) error
}, req *models.TimeOffRequest) error {
	return scanner.Scan(
		&req.ID, &req.StaffID, &req.StartDate, &req.EndDate,
		&req.Reason, &req.Status, &req.CreatedAt, &req.StaffName,
	)
}

// GetByID retrieves a time-off request by ID
func (r *TimeOffRepository) GetByID(id string) (*models.TimeOffRequest, error) {
	query := timeOffSelect + ` WHERE t.id = $1`

	req := &models.TimeOffRequest{}
	if err := scanTimeOff(r.db.QueryRow(query, id), req); err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch time-off request: %w", err)
	}

	return req, nil
}

// List retrieves all time-off requests, newest first
func (r *TimeOffRepository) List() ([]models.TimeOffRequest, error) {
	query := timeOffSelect + ` ORDER BY t.created_at DESC`
	return r.selectRequests(query)
}

// ListApprovedBetween retrieves approved requests whose date range
// intersects [start, end] inclusive.
func (r *TimeOffRepository) ListApprovedBetween(start, end time.Time) ([]models.TimeOffRequest, error) {
	query := timeOffSelect + `
		WHERE t.status = 'approved' AND t.start_date <= $2 AND t.end_date >= $1
		ORDER BY t.start_date`
	return r.selectRequests(query, start, end)
}

// ListApprovedForStaffDate retrieves approved requests for one staff member
// covering the given date.
func (r *TimeOffRepository) ListApprovedForStaffDate(staffID string, date time.Time) ([]models.TimeOffRequest, error) {
	query := timeOffSelect + `
		WHERE t.staff_id = $1 AND t.status = 'approved'
			AND t.start_date <= $2 AND t.end_date >= $2
		ORDER BY t.start_date`
	return r.selectRequests(query, staffID, date)
}

func (r *TimeOffRepository) selectRequests(query string, args ...interface{}) ([]models.TimeOffRequest, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list time-off requests: %w", err)
	}
	defer rows.Close()

	var result []models.TimeOffRequest
	for rows.Next() {
		var req models.TimeOffRequest
		if err := scanTimeOff(rows, &req); err != nil {
			return nil, fmt.Errorf("failed to scan time-off row: %w", err)
		}
		result = append(result, req)
	}

	return result, rows.Err()
}

// Create creates a new time-off request with status pending
func (r *TimeOffRepository) Create(req *models.TimeOffRequest) error {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	query := `
		INSERT INTO time_off_requests (id, staff_id, start_date, end_date, reason, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
		RETURNING status, created_at
	`

	err := r.db.QueryRow(
		query,
		req.ID, req.StaffID, req.StartDate, req.EndDate, req.Reason,
	).Scan(&req.Status, &req.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create time-off request: %w", err)
	}

	return nil
}

// UpdateStatus transitions a pending request to its terminal status. The
// WHERE clause guards the pending-only transition at the store level.
func (r *TimeOffRepository) UpdateStatus(id string, status models.TimeOffStatus) error {
	result, err := r.db.Exec(
		`UPDATE time_off_requests SET status = $2 WHERE id = $1 AND status = 'pending'`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("failed to update time-off status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Zero rows means either an unknown id or a request already in a
		// terminal status; tell them apart for the caller.
		var current models.TimeOffStatus
		err := r.db.QueryRow(`SELECT status FROM time_off_requests WHERE id = $1`, id).Scan(&current)
		if err == sql.ErrNoRows {
			return models.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to check time-off status: %w", err)
		}
		return models.ErrAlreadyDecided
	}

	return nil
}
