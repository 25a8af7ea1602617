package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/medoffice/shift-scheduler-backend/internal/models"
)

// AreaRepository handles database operations for the areas table
type AreaRepository struct {
	db DB
}

// NewAreaRepository creates a new AreaRepository
func NewAreaRepository(db DB) *AreaRepository {
	return &AreaRepository{db: db}
}

const areaColumns = `
	id, name, required_rn_count, required_tech_count,
	required_scope_tech_count, special_rules, created_at, updated_at
`

// GetByID retrieves an area by ID
func (r *AreaRepository) GetByID(id string) (*models.Area, error) {
	query := `SELECT ` + areaColumns + ` FROM areas WHERE id = $1`

	area := &models.Area{}
	err := r.db.QueryRow(query, id).Scan(
		&area.ID, &area.Name, &area.RequiredRNCount, &area.RequiredTechCount,
		&area.RequiredScopeTechCount, &area.SpecialRules,
		&area.CreatedAt, &area.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch area: %w", err)
	}

	return area, nil
}

// List retrieves all areas ordered by name
func (r *AreaRepository) List() ([]models.Area, error) {
	query := `SELECT ` + areaColumns + ` FROM areas ORDER BY name`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list areas: %w", err)
	}
	defer rows.Close()

	var result []models.Area
	for rows.Next() {
		var area models.Area
		if err := rows.Scan(
			&area.ID, &area.Name, &area.RequiredRNCount, &area.RequiredTechCount,
			&area.RequiredScopeTechCount, &area.SpecialRules,
			&area.CreatedAt, &area.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan area row: %w", err)
		}
		result = append(result, area)
	}

	return result, rows.Err()
}

// Create creates a new area record
func (r *AreaRepository) Create(area *models.Area) error {
	if area.ID == "" {
		area.ID = uuid.New().String()
	}

	query := `
		INSERT INTO areas (
			id, name, required_rn_count, required_tech_count,
			required_scope_tech_count, special_rules
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		area.ID, area.Name, area.RequiredRNCount, area.RequiredTechCount,
		area.RequiredScopeTechCount, area.SpecialRules,
	).Scan(&area.CreatedAt, &area.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create area: %w", err)
	}

	return nil
}

// Update updates an existing area record
func (r *AreaRepository) Update(area *models.Area) error {
	query := `
		UPDATE areas
		SET
			name = $2,
			required_rn_count = $3,
			required_tech_count = $4,
			required_scope_tech_count = $5,
			special_rules = $6,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		query,
		area.ID, area.Name, area.RequiredRNCount, area.RequiredTechCount,
		area.RequiredScopeTechCount, area.SpecialRules,
	).Scan(&area.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to update area: %w", err)
	}

	return nil
}

// Delete removes an area record
func (r *AreaRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM areas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete area: %w", err)
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
