package calendaraccount

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/pkg/dbexec"
	"github.com/m04kA/SMC-SlotService/pkg/psqlbuilder"
)

// Repository репозиторий подключенных календарных аккаунтов
type Repository struct {
	db dbexec.DBExecutor
}

// NewRepository создает новый экземпляр репозитория календарных аккаунтов
func NewRepository(db dbexec.DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListByUser возвращает все календарные аккаунты пользователя
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]*domain.CalendarAccount, error) {
	query, args, err := psqlbuilder.Select(
		"id",
		"user_id",
		"provider",
		"external_ref",
		"encrypted_key",
	).
		From("calendar_accounts").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	accounts := make([]*domain.CalendarAccount, 0)
	for rows.Next() {
		var account domain.CalendarAccount
		if err := rows.Scan(
			&account.ID,
			&account.UserID,
			&account.Provider,
			&account.ExternalRef,
			&account.EncryptedKey,
		); err != nil {
			return nil, fmt.Errorf("%w: ListByUser - scan row: %v", ErrScanRow, err)
		}
		accounts = append(accounts, &account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByUser - rows error: %v", ErrScanRow, err)
	}

	return accounts, nil
}
