package database

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medoffice/shift-scheduler-backend/internal/models"
)

var timeOffColumns = []string{
	"id", "staff_id", "start_date", "end_date", "reason", "status",
	"created_at", "staff_name",
}

func TestTimeOffRepositoryCreate(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewTimeOffRepository(mockDB)

	start := time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO time_off_requests`).
		WithArgs(sqlmock.AnyArg(), "staff-1", start, end, nil).
		WillReturnRows(sqlmock.NewRows([]string{"status", "created_at"}).
			AddRow("pending", now))

	req := &models.TimeOffRequest{
		StaffID:   "staff-1",
		StartDate: start,
		EndDate:   end,
	}
	err := repo.Create(req)
	require.NoError(t, err)
	assert.NotEmpty(t, req.ID)
	assert.Equal(t, models.TimeOffPending, req.Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeOffRepositoryUpdateStatus(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewTimeOffRepository(mockDB)

	t.Run("Pending To Approved", func(t *testing.T) {
		mock.ExpectExec(`UPDATE time_off_requests`).
			WithArgs("req-1", models.TimeOffApproved).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateStatus("req-1", models.TimeOffApproved))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already Decided", func(t *testing.T) {
		mock.ExpectExec(`UPDATE time_off_requests`).
			WithArgs("req-1", models.TimeOffDenied).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT status FROM time_off_requests`).
			WithArgs("req-1").
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("approved"))

		err := repo.UpdateStatus("req-1", models.TimeOffDenied)
		assert.ErrorIs(t, err, models.ErrAlreadyDecided)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Request", func(t *testing.T) {
		mock.ExpectExec(`UPDATE time_off_requests`).
			WithArgs("missing", models.TimeOffApproved).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT status FROM time_off_requests`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		err := repo.UpdateStatus("missing", models.TimeOffApproved)
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTimeOffRepositoryListApprovedBetween(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewTimeOffRepository(mockDB)

	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	mock.ExpectQuery(`SELECT(.|\n)*FROM time_off_requests t`).
		WithArgs(start, end).
		WillReturnRows(sqlmock.NewRows(timeOffColumns).
			AddRow("req-1", "staff-1", start, end, nil, "approved", now, "Alice"))

	requests, err := repo.ListApprovedBetween(start, end)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, models.TimeOffApproved, requests[0].Status)
	assert.Equal(t, "Alice", requests[0].StaffName)

	assert.NoError(t, mock.ExpectationsWereMet())
}
