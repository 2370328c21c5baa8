package booking

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_CountAttendees(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN attendees a ON a.booking_id = b.id WHERE b.uid = $1 GROUP BY b.id")).
		WithArgs("booking-uid").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := NewRepository(db).CountAttendees(context.Background(), "booking-uid")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CountAttendees_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings b")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}))

	_, err = NewRepository(db).CountAttendees(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_CountAttendees_DBError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings b")).
		WillReturnError(errors.New("boom"))

	_, err = NewRepository(db).CountAttendees(context.Background(), "x")
	assert.ErrorIs(t, err, ErrScanRow)
}
