package services

import (
	"time"

	"github.com/medoffice/shift-scheduler-backend/internal/models"
)

// The engine reads and writes the committed schedule only through these
// store contracts. The database repositories satisfy them; tests use
// in-memory fakes.

// ShiftStore is the committed schedule store contract
type ShiftStore interface {
	GetByID(id string) (*models.Shift, error)
	Create(shift *models.Shift) error
	Update(shift *models.Shift) error
	Delete(id string) error
	ListByStaffBetween(staffID string, start, end time.Time) ([]models.Shift, error)
	ListByAreaAndDate(areaID string, date time.Time) ([]models.Shift, error)
	ListBetween(start, end time.Time) ([]models.Shift, error)
	DeleteBetween(start, end time.Time) error
	ReplaceBetween(start, end time.Time, shifts []models.Shift) error
}

// StaffStore is the staff roster store contract
type StaffStore interface {
	GetByID(id string) (*models.Staff, error)
	List() ([]models.Staff, error)
	ListActive() ([]models.Staff, error)
	Create(staff *models.Staff) error
	Update(staff *models.Staff) error
	Delete(id string) error
}

// AreaStore is the coverage area store contract
type AreaStore interface {
	GetByID(id string) (*models.Area, error)
	List() ([]models.Area, error)
	Create(area *models.Area) error
	Update(area *models.Area) error
	Delete(id string) error
}

// TimeOffStore is the time-off request store contract
type TimeOffStore interface {
	GetByID(id string) (*models.TimeOffRequest, error)
	Create(req *models.TimeOffRequest) error
	UpdateStatus(id string, status models.TimeOffStatus) error
	List() ([]models.TimeOffRequest, error)
	ListApprovedBetween(start, end time.Time) ([]models.TimeOffRequest, error)
	ListApprovedForStaffDate(staffID string, date time.Time) ([]models.TimeOffRequest, error)
}
