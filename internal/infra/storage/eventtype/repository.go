package eventtype

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/pkg/dbexec"
	"github.com/m04kA/SMC-SlotService/pkg/psqlbuilder"
)

// Repository репозиторий типов событий (только чтение)
type Repository struct {
	db dbexec.DBExecutor
}

// NewRepository создает новый экземпляр репозитория типов событий
func NewRepository(db dbexec.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает тип события без списка пользователей
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.EventType, error) {
	query, args, err := psqlbuilder.Select(
		"id",
		"team_id",
		"seats_per_time_slot",
		"length_minutes",
	).
		From("event_types").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var (
		eventType domain.EventType
		teamID    sql.NullInt64
		seats     sql.NullInt32
	)

	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&eventType.ID,
		&teamID,
		&seats,
		&eventType.LengthMinutes,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventTypeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan event type: %v", ErrScanRow, err)
	}

	if teamID.Valid {
		eventType.TeamID = &teamID.Int64
	}
	if seats.Valid {
		n := int(seats.Int32)
		eventType.SeatsPerTimeSlot = &n
	}

	return &eventType, nil
}

// GetWithSeats получает тип события вместе с назначенными пользователями
func (r *Repository) GetWithSeats(ctx context.Context, id int64) (*domain.EventType, error) {
	eventType, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	query, args, err := psqlbuilder.Select("user_id").
		From("event_type_hosts").
		Where(squirrel.Eq{"event_type_id": id}).
		OrderBy("user_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWithSeats - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithSeats - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	users := make([]domain.UserRef, 0)
	for rows.Next() {
		var user domain.UserRef
		if err := rows.Scan(&user.ID); err != nil {
			return nil, fmt.Errorf("%w: GetWithSeats - scan user_id: %v", ErrScanRow, err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetWithSeats - rows error: %v", ErrScanRow, err)
	}

	eventType.Users = users
	return eventType, nil
}
