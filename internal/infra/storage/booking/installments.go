package booking

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
	"github.com/admedia/AMS-AdSalesService/pkg/dbmetrics"
	"github.com/admedia/AMS-AdSalesService/pkg/psqlbuilder"
)

// CreateInstallments inserts the installment schedule of a booking.
// The (booking_id, sequence) unique constraint makes regeneration idempotent:
// an existing schedule is left untouched and returned as-is.
func (r *Repository) CreateInstallments(ctx context.Context, installments []*domain.Installment) ([]*domain.Installment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	for _, inst := range installments {
		query, args, err := psqlbuilder.Insert("installments").
			Columns("booking_id", "sequence", "amount", "due_date", "status").
			Values(inst.BookingID, inst.Sequence, inst.Amount, inst.DueDate, inst.Status).
			Suffix("ON CONFLICT (booking_id, sequence) DO NOTHING RETURNING id, created_at").
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("%w: CreateInstallments - build insert query: %v", ErrBuildQuery, err)
		}

		var createdAt sql.NullTime
		err = executor.QueryRowContext(ctx, query, args...).Scan(&inst.ID, &createdAt)
		if err == sql.ErrNoRows {
			// Already generated earlier; reload the stored row.
			existing, err := r.getInstallment(ctx, inst.BookingID, inst.Sequence)
			if err != nil {
				return nil, err
			}
			*inst = *existing
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: CreateInstallments - execute insert: %v", ErrExecQuery, err)
		}
		inst.CreatedAt = createdAt.Time
	}

	return installments, nil
}

// GetInstallmentsByBookingID fetches the installment schedule of a booking.
func (r *Repository) GetInstallmentsByBookingID(ctx context.Context, bookingID int64) ([]*domain.Installment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "booking_id", "sequence", "amount", "due_date", "status", "created_at").
		From("installments").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("sequence ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetInstallmentsByBookingID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetInstallmentsByBookingID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	installments := make([]*domain.Installment, 0, domain.InstallmentCount)
	for rows.Next() {
		var inst domain.Installment
		var createdAt sql.NullTime
		if err := rows.Scan(&inst.ID, &inst.BookingID, &inst.Sequence, &inst.Amount, &inst.DueDate, &inst.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: GetInstallmentsByBookingID - scan row: %v", ErrScanRow, err)
		}
		inst.CreatedAt = createdAt.Time
		installments = append(installments, &inst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetInstallmentsByBookingID - rows error: %v", ErrScanRow, err)
	}

	return installments, nil
}

func (r *Repository) getInstallment(ctx context.Context, bookingID int64, sequence int) (*domain.Installment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "booking_id", "sequence", "amount", "due_date", "status", "created_at").
		From("installments").
		Where(squirrel.Eq{"booking_id": bookingID, "sequence": sequence}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getInstallment - build select query: %v", ErrBuildQuery, err)
	}

	var inst domain.Installment
	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).
		Scan(&inst.ID, &inst.BookingID, &inst.Sequence, &inst.Amount, &inst.DueDate, &inst.Status, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: getInstallment - scan row: %v", ErrScanRow, err)
	}
	inst.CreatedAt = createdAt.Time

	return &inst, nil
}
