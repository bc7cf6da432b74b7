package payment_intent

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CoachBookingService/pkg/psqlbuilder"
)

const (
	tableName = "payment_intents"

	// uniqueViolation код ошибки PostgreSQL при нарушении уникальности
	uniqueViolation = "23505"
)

// columns порядок колонок совпадает с scanIntent
var columns = []string{
	"id",
	"client_secret",
	"amount",
	"currency",
	"description",
	"status",
	"metadata",
	"payment_method_id",
	"failure_code",
	"failure_message",
	"idempotency_key",
	"confirmed_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий платежных намерений
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория платежных намерений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новое намерение
func (r *Repository) Create(ctx context.Context, intent *domain.PaymentIntent) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if intent.Metadata == nil {
		intent.Metadata = map[string]string{}
	}
	metadata, err := json.Marshal(intent.Metadata)
	if err != nil {
		return fmt.Errorf("%w: Create - marshal metadata: %v", ErrBuildQuery, err)
	}

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"id",
			"client_secret",
			"amount",
			"currency",
			"description",
			"status",
			"metadata",
			"idempotency_key",
		).
		Values(
			intent.ID,
			intent.ClientSecret,
			intent.Amount,
			intent.Currency,
			intent.Description,
			intent.Status,
			string(metadata),
			intent.IdempotencyKey,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&intent.CreatedAt, &intent.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && strings.Contains(pqErr.Constraint, "idempotency_key") {
			return ErrDuplicateIdempotencyKey
		}
		return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetByID получает намерение по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.PaymentIntent, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByIdempotencyKey получает намерение, созданное с указанным ключом идемпотентности
func (r *Repository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.PaymentIntent, error) {
	return r.getOne(ctx, "GetByIdempotencyKey", squirrel.Eq{"idempotency_key": key})
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Eq) (*domain.PaymentIntent, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(where).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	intent, err := scanIntent(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrIntentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan intent: %v", ErrScanRow, op, err)
	}

	return intent, nil
}

// TransitionStatus compare-and-set перехода статуса.
// Строка обновляется, только если текущий статус - допустимый предшественник to.
// Если обновления не было, возвращает ErrTransitionRejected (или ErrIntentNotFound)
func (r *Repository) TransitionStatus(ctx context.Context, id string, to domain.IntentStatus, upd domain.IntentUpdate) (*domain.PaymentIntent, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	from := domain.PredecessorsOf(to)

	query, args, err := psqlbuilder.Update(tableName).
		Set("status", to).
		Set("payment_method_id", squirrel.Expr("COALESCE(?, payment_method_id)", upd.PaymentMethodID)).
		Set("failure_code", squirrel.Expr("COALESCE(?, failure_code)", upd.FailureCode)).
		Set("failure_message", squirrel.Expr("COALESCE(?, failure_message)", upd.FailureMessage)).
		Set("confirmed_at", squirrel.Expr("COALESCE(?, confirmed_at)", upd.ConfirmedAt)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: TransitionStatus - build update query: %v", ErrBuildQuery, err)
	}

	intent, err := scanIntent(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrTransitionRejected
	}
	if err != nil {
		return nil, fmt.Errorf("%w: TransitionStatus - execute update: %v", ErrExecQuery, err)
	}

	return intent, nil
}

// ReclaimConfirmation забирает зависшее подтверждение: намерение в requires_confirmation,
// не менявшееся с staleBefore, получает новый updated_at.
// Из нескольких конкурентных вызовов успешен только один, остальные получают ErrTransitionRejected
func (r *Repository) ReclaimConfirmation(ctx context.Context, id string, staleBefore time.Time) (*domain.PaymentIntent, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.IntentRequiresConfirmation}).
		Where(squirrel.Lt{"updated_at": staleBefore}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ReclaimConfirmation - build update query: %v", ErrBuildQuery, err)
	}

	intent, err := scanIntent(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrTransitionRejected
	}
	if err != nil {
		return nil, fmt.Errorf("%w: ReclaimConfirmation - execute update: %v", ErrExecQuery, err)
	}

	return intent, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanIntent(row rowScanner) (*domain.PaymentIntent, error) {
	var intent domain.PaymentIntent
	var metadata []byte
	var confirmedAt sql.NullTime

	err := row.Scan(
		&intent.ID,
		&intent.ClientSecret,
		&intent.Amount,
		&intent.Currency,
		&intent.Description,
		&intent.Status,
		&metadata,
		&intent.PaymentMethodID,
		&intent.FailureCode,
		&intent.FailureMessage,
		&intent.IdempotencyKey,
		&confirmedAt,
		&intent.CreatedAt,
		&intent.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &intent.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	if confirmedAt.Valid {
		t := confirmedAt.Time
		intent.ConfirmedAt = &t
	}

	return &intent, nil
}
