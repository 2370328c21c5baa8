package selectedslot

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotService/internal/domain"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), mock
}

func TestRepository_Upsert(t *testing.T) {
	repo, mock := newMock(t)
	start := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)

	hold := &domain.SlotHold{
		ID:            "res-1",
		UserID:        7,
		EventTypeID:   3,
		SlotStart:     start,
		SlotEnd:       start.Add(30 * time.Minute),
		IsSeatedEvent: true,
		CreatedAt:     start.Add(-time.Hour),
		ReleaseAt:     start.Add(-45 * time.Minute),
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO selected_slots")).
		WithArgs("res-1", int64(7), int64(3), hold.SlotStart, hold.SlotEnd, true, hold.CreatedAt, hold.ReleaseAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Upsert(context.Background(), hold))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Upsert_Error(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT")).WillReturnError(errors.New("deadlock"))

	err := repo.Upsert(context.Background(), &domain.SlotHold{ID: "x"})
	assert.ErrorIs(t, err, ErrExecQuery)
}

func TestRepository_DeleteByID(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM selected_slots WHERE uid = $1")).
		WithArgs("res-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM selected_slots WHERE uid = $1")).
		WithArgs("res-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := repo.DeleteByID(context.Background(), "res-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.DeleteByID(context.Background(), "res-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeleteHolds(t *testing.T) {
	repo, mock := newMock(t)
	start := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)

	holds := []*domain.SlotHold{
		{ID: "res-1", UserID: 10, SlotStart: start, SlotEnd: end},
		{ID: "res-1", UserID: 11, SlotStart: start, SlotEnd: end},
	}

	mock.ExpectExec(regexp.QuoteMeta(
		"DELETE FROM selected_slots WHERE ((uid = $1 AND user_id = $2 AND slot_utc_start_date = $3 AND slot_utc_end_date = $4) OR " +
			"(uid = $5 AND user_id = $6 AND slot_utc_start_date = $7 AND slot_utc_end_date = $8))")).
		WithArgs("res-1", int64(10), start, end, "res-1", int64(11), start, end).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.DeleteHolds(context.Background(), holds)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeleteHolds_Empty(t *testing.T) {
	repo, mock := newMock(t)

	n, err := repo.DeleteHolds(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeleteExpired(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM selected_slots WHERE release_at <= $1")).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 5))

	n, err := repo.DeleteExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}

func TestRepository_ListActiveByUser(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)
	start := now.Add(time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("FROM selected_slots WHERE user_id = $1 AND release_at > $2")).
		WithArgs(int64(7), now, now.Add(48*time.Hour), now).
		WillReturnRows(sqlmock.NewRows([]string{
			"uid", "user_id", "event_type_id", "slot_utc_start_date", "slot_utc_end_date", "is_seat", "created_at", "release_at",
		}).AddRow("res-1", int64(7), int64(3), start, start.Add(30*time.Minute), false, now, now.Add(15*time.Minute)))

	holds, err := repo.ListActiveByUser(context.Background(), 7, now, now.Add(48*time.Hour), now)
	require.NoError(t, err)
	require.Len(t, holds, 1)
	assert.Equal(t, "res-1", holds[0].ID)
	assert.Equal(t, start, holds[0].SlotStart)
	assert.NoError(t, mock.ExpectationsWereMet())
}
