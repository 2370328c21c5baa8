package eventtype

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), mock
}

func TestRepository_GetWithSeats(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM event_types WHERE id = $1")).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "team_id", "seats_per_time_slot", "length_minutes"}).
			AddRow(int64(10), nil, 4, 30))

	mock.ExpectQuery(regexp.QuoteMeta("FROM event_type_hosts WHERE event_type_id = $1")).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(1)).AddRow(int64(2)))

	et, err := repo.GetWithSeats(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, int64(10), et.ID)
	assert.Nil(t, et.TeamID)
	require.NotNil(t, et.SeatsPerTimeSlot)
	assert.Equal(t, 4, *et.SeatsPerTimeSlot)
	assert.Equal(t, 30, et.LengthMinutes)
	require.Len(t, et.Users, 2)
	assert.Equal(t, int64(2), et.Users[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM event_types WHERE id = $1")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "team_id", "seats_per_time_slot", "length_minutes"}))

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrEventTypeNotFound)
}

func TestRepository_GetByID_Team(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM event_types WHERE id = $1")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "team_id", "seats_per_time_slot", "length_minutes"}).
			AddRow(int64(5), int64(3), nil, 60))

	et, err := repo.GetByID(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, et.TeamID)
	assert.Equal(t, int64(3), *et.TeamID)
	assert.Nil(t, et.SeatsPerTimeSlot)
}

func TestRepository_GetWithSeats_HostsQueryError(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM event_types WHERE id = $1")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "team_id", "seats_per_time_slot", "length_minutes"}).
			AddRow(int64(1), nil, nil, 15))
	mock.ExpectQuery(regexp.QuoteMeta("FROM event_type_hosts")).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.GetWithSeats(context.Background(), 1)
	assert.ErrorIs(t, err, ErrExecQuery)
}
