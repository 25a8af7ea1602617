package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/medoffice/shift-scheduler-backend/internal/models"
)

// AdminUserRepository handles database operations for the admin_users table
type AdminUserRepository struct {
	db DB
}

// NewAdminUserRepository creates a new AdminUserRepository
func NewAdminUserRepository(db DB) *AdminUserRepository {
	return &AdminUserRepository{db: db}
}

// GetByUsername retrieves an admin user by username
func (r *AdminUserRepository) GetByUsername(username string) (*models.AdminUser, error) {
	query := `
		SELECT id, username, password_hash, created_at
		FROM admin_users
		WHERE username = $1
	`

	user := &models.AdminUser{}
	err := r.db.QueryRow(query, username).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch admin user: %w", err)
	}

	return user, nil
}

// Create creates a new admin user
func (r *AdminUserRepository) Create(user *models.AdminUser) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	query := `
		INSERT INTO admin_users (id, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	err := r.db.QueryRow(query, user.ID, user.Username, user.PasswordHash).
		Scan(&user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	return nil
}
