package selectedslot

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/pkg/dbexec"
	"github.com/m04kA/SMC-SlotService/pkg/psqlbuilder"
)

const table = "selected_slots"

// Repository хранилище удержаний слотов в PostgreSQL (таблица selected_slots)
type Repository struct {
	db dbexec.DBExecutor
}

// NewRepository создает новый экземпляр репозитория удержаний
func NewRepository(db dbexec.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert создает удержание или продлевает существующее с тем же ключом
// Ключ: (user_id, slot_utc_start_date, slot_utc_end_date, uid)
func (r *Repository) Upsert(ctx context.Context, hold *domain.SlotHold) error {
	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"uid",
			"user_id",
			"event_type_id",
			"slot_utc_start_date",
			"slot_utc_end_date",
			"is_seat",
			"created_at",
			"release_at",
		).
		Values(
			hold.ID,
			hold.UserID,
			hold.EventTypeID,
			hold.SlotStart.UTC(),
			hold.SlotEnd.UTC(),
			hold.IsSeatedEvent,
			hold.CreatedAt.UTC(),
			hold.ReleaseAt.UTC(),
		).
		Suffix("ON CONFLICT (user_id, slot_utc_start_date, slot_utc_end_date, uid) DO UPDATE SET release_at = EXCLUDED.release_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// DeleteByID удаляет все удержания резервирования и возвращает число удаленных строк
// Отсутствие строк не считается ошибкой
func (r *Repository) DeleteByID(ctx context.Context, id string) (int64, error) {
	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"uid": id}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByID - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByID - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByID - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// DeleteHolds удаляет перечисленные удержания по полному ключу
// (uid, user_id, slot_utc_start_date, slot_utc_end_date)
func (r *Repository) DeleteHolds(ctx context.Context, holds []*domain.SlotHold) (int64, error) {
	if len(holds) == 0 {
		return 0, nil
	}

	keys := make(squirrel.Or, 0, len(holds))
	for _, hold := range holds {
		keys = append(keys, squirrel.And{
			squirrel.Eq{"uid": hold.ID},
			squirrel.Eq{"user_id": hold.UserID},
			squirrel.Eq{"slot_utc_start_date": hold.SlotStart.UTC()},
			squirrel.Eq{"slot_utc_end_date": hold.SlotEnd.UTC()},
		})
	}

	query, args, err := psqlbuilder.Delete(table).
		Where(keys).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteHolds - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteHolds - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteHolds - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// DeleteExpired удаляет удержания с release_at <= now
func (r *Repository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.LtOrEq{"release_at": now.UTC()}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// ListActiveByUser возвращает действующие удержания пользователя, пересекающие [from, to)
func (r *Repository) ListActiveByUser(ctx context.Context, userID int64, from, to, now time.Time) ([]*domain.SlotHold, error) {
	query, args, err := psqlbuilder.Select(
		"uid",
		"user_id",
		"event_type_id",
		"slot_utc_start_date",
		"slot_utc_end_date",
		"is_seat",
		"created_at",
		"release_at",
	).
		From(table).
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Gt{"release_at": now.UTC()}).
		Where(squirrel.Lt{"slot_utc_start_date": to.UTC()}).
		Where(squirrel.Gt{"slot_utc_end_date": from.UTC()}).
		OrderBy("slot_utc_start_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByUser - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	holds := make([]*domain.SlotHold, 0)
	for rows.Next() {
		var hold domain.SlotHold
		if err := rows.Scan(
			&hold.ID,
			&hold.UserID,
			&hold.EventTypeID,
			&hold.SlotStart,
			&hold.SlotEnd,
			&hold.IsSeatedEvent,
			&hold.CreatedAt,
			&hold.ReleaseAt,
		); err != nil {
			return nil, fmt.Errorf("%w: ListActiveByUser - scan row: %v", ErrScanRow, err)
		}
		holds = append(holds, &hold)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveByUser - rows error: %v", ErrScanRow, err)
	}

	return holds, nil
}
