package payment_event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CoachBookingService/pkg/psqlbuilder"
)

const tableName = "payment_events"

// Repository журнал обработанных событий процессора
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория событий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// IsProcessed true, если событие с таким ID уже обработано
func (r *Repository) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From(tableName).
		Where(squirrel.Eq{"id": eventID}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: IsProcessed - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: IsProcessed - execute query: %v", ErrExecQuery, err)
	}

	return true, nil
}

// MarkProcessed записывает событие как обработанное.
// Возвращает false, если событие уже было записано
func (r *Repository) MarkProcessed(ctx context.Context, event domain.PaymentEvent) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns("id", "type", "payment_intent_id").
		Values(event.ID, event.Type, event.Data.Object.ID).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: MarkProcessed - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: MarkProcessed - execute insert: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: MarkProcessed - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}
