package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CoachBookingService/pkg/psqlbuilder"
)

const tableName = "bookings"

// columns порядок колонок совпадает с scanBooking
var columns = []string{
	"id",
	"payment_intent_id",
	"status",
	"coach_id",
	"coach_name",
	"player_name",
	"player_age",
	"location",
	"session_date",
	"time_slot",
	"recurring",
	"frequency",
	"notes",
	"amount",
	"currency",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateOnce создает бронирование для платежного намерения, если его еще нет.
// Уникальность по payment_intent_id обеспечивает база: при повторном вызове
// возвращается уже существующая запись и created=false
func (r *Repository) CreateOnce(ctx context.Context, booking *domain.Booking) (*domain.Booking, bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"payment_intent_id",
			"status",
			"coach_id",
			"coach_name",
			"player_name",
			"player_age",
			"location",
			"session_date",
			"time_slot",
			"recurring",
			"frequency",
			"notes",
			"amount",
			"currency",
		).
		Values(
			booking.PaymentIntentID,
			booking.Status,
			booking.CoachID,
			booking.CoachName,
			booking.PlayerName,
			booking.PlayerAge,
			booking.Location,
			booking.SessionDate,
			booking.TimeSlot,
			booking.Recurring,
			booking.Frequency,
			booking.Notes,
			booking.Amount,
			booking.Currency,
		).
		Suffix("ON CONFLICT (payment_intent_id) DO NOTHING RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, false, fmt.Errorf("%w: CreateOnce - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	// Конфликт: бронирование для этого намерения уже создано
	if errors.Is(err, sql.ErrNoRows) {
		existing, getErr := r.GetByPaymentIntentID(ctx, booking.PaymentIntentID)
		if getErr != nil {
			return nil, false, getErr
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: CreateOnce - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, true, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByPaymentIntentID получает бронирование по платежному намерению
func (r *Repository) GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByPaymentIntentID", squirrel.Eq{"payment_intent_id": paymentIntentID})
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Eq) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(where).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, op, err)
	}

	return booking, nil
}

// List получает бронирования с фильтрацией
// Без IncludeInactive отмененные и неоплаченные бронирования не возвращаются
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		OrderBy("session_date DESC", "time_slot DESC", "id DESC")

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": domain.InactiveStatuses})
	}

	if filter.CoachID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"coach_id": *filter.CoachID})
	}

	if filter.SessionDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"session_date": filter.SessionDate.Format(domain.DateFormat)})
	}

	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// UpdateStatus переводит бронирование в статус to, только если текущий статус входит в from.
// Если бронирования нет - ErrBookingNotFound, если статус уже другой - ErrStatusConflict
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from []domain.BookingStatus, to domain.BookingStatus) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrStatusConflict
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// UpdateStatusByPaymentIntent то же, что UpdateStatus, но по платежному намерению.
// Возвращает false, если бронирования нет или статус не подходит
func (r *Repository) UpdateStatusByPaymentIntent(ctx context.Context, paymentIntentID string, from []domain.BookingStatus, to domain.BookingStatus) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"payment_intent_id": paymentIntentID, "status": from}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: UpdateStatusByPaymentIntent - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: UpdateStatusByPaymentIntent - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: UpdateStatusByPaymentIntent - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.PaymentIntentID,
		&booking.Status,
		&booking.CoachID,
		&booking.CoachName,
		&booking.PlayerName,
		&booking.PlayerAge,
		&booking.Location,
		&booking.SessionDate,
		&booking.TimeSlot,
		&booking.Recurring,
		&booking.Frequency,
		&booking.Notes,
		&booking.Amount,
		&booking.Currency,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}
