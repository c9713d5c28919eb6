package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaperRunOnce(t *testing.T) {
	availabilityService, mock := newAvailabilityService(t)
	reaper := NewReaperService(availabilityService, 0, availabilityService.logger)

	mock.ExpectExec("DELETE FROM seat_reservations WHERE expires_at").
		WillReturnResult(sqlmock.NewResult(0, 3))

	removed, err := reaper.RunOnce()
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReaperDefaultInterval(t *testing.T) {
	availabilityService, _ := newAvailabilityService(t)

	reaper := NewReaperService(availabilityService, 0, availabilityService.logger)
	assert.Equal(t, DefaultCleanupInterval, reaper.interval)

	reaper = NewReaperService(availabilityService, 5*time.Minute, availabilityService.logger)
	assert.Equal(t, 5*time.Minute, reaper.interval)
}
