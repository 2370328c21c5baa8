package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SlotService/pkg/dbexec"
	"github.com/m04kA/SMC-SlotService/pkg/psqlbuilder"
)

// Repository репозиторий подтвержденных бронирований (только чтение)
type Repository struct {
	db dbexec.DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db dbexec.DBExecutor) *Repository {
	return &Repository{db: db}
}

// CountAttendees возвращает количество участников бронирования с указанным uid
// Если бронирования нет - ErrBookingNotFound
func (r *Repository) CountAttendees(ctx context.Context, bookingUID string) (int, error) {
	query, args, err := psqlbuilder.Select("COUNT(a.id)").
		From("bookings b").
		LeftJoin("attendees a ON a.booking_id = b.id").
		Where(squirrel.Eq{"b.uid": bookingUID}).
		GroupBy("b.id").
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountAttendees - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrBookingNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("%w: CountAttendees - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}
