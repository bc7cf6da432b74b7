package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CoachBookingService/internal/domain"
	"github.com/m04kA/SMC-CoachBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CoachBookingService/pkg/psqlbuilder"
)

// MonthCount число бронирований за месяц
type MonthCount struct {
	Month time.Time
	Count int64
}

// CountByStatus количество бронирований по статусам
func (r *Repository) CountByStatus(ctx context.Context) (map[domain.BookingStatus]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("status", "COUNT(*)").
		From(tableName).
		GroupBy("status").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CountByStatus - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountByStatus - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make(map[domain.BookingStatus]int64)
	for rows.Next() {
		var status domain.BookingStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("%w: CountByStatus - scan row: %v", ErrScanRow, err)
		}
		result[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountByStatus - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// RevenueMinor сумма оплаченных бронирований в минимальных единицах валюты
func (r *Repository) RevenueMinor(ctx context.Context, currency string) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COALESCE(SUM(amount), 0)").
		From(tableName).
		Where(squirrel.Eq{"status": domain.RevenueStatuses, "currency": currency}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: RevenueMinor - build select query: %v", ErrBuildQuery, err)
	}

	var total int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: RevenueMinor - scan sum: %v", ErrScanRow, err)
	}

	return total, nil
}

// MonthlyCounts количество бронирований по месяцам занятий, начиная с since
func (r *Repository) MonthlyCounts(ctx context.Context, since time.Time) ([]MonthCount, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("date_trunc('month', session_date)::date AS month", "COUNT(*)").
		From(tableName).
		Where(squirrel.GtOrEq{"session_date": since.Format(domain.DateFormat)}).
		Where(squirrel.NotEq{"status": domain.InactiveStatuses}).
		GroupBy("month").
		OrderBy("month ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: MonthlyCounts - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: MonthlyCounts - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]MonthCount, 0)
	for rows.Next() {
		var mc MonthCount
		if err := rows.Scan(&mc.Month, &mc.Count); err != nil {
			return nil, fmt.Errorf("%w: MonthlyCounts - scan row: %v", ErrScanRow, err)
		}
		result = append(result, mc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: MonthlyCounts - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}
