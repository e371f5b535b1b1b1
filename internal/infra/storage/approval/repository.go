package approval

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
	"github.com/admedia/AMS-AdSalesService/pkg/dbmetrics"
	"github.com/admedia/AMS-AdSalesService/pkg/psqlbuilder"
)

// Repository stores per-stage approval decisions.
type Repository struct {
	db DBExecutor
}

// NewRepository creates an approval repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var approvalColumns = []string{
	"id",
	"booking_id",
	"role",
	"status",
	"acted_by",
	"reason",
	"created_at",
	"closed_at",
}

// CreateIfAbsent opens a pending approval for (booking, role) unless one
// already exists. The unique constraint on (booking_id, role) suppresses
// duplicates under concurrency; the second caller gets created=false.
func (r *Repository) CreateIfAbsent(ctx context.Context, bookingID int64, role domain.ApprovalRole) (*domain.Approval, bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("approvals").
		Columns("booking_id", "role", "status").
		Values(bookingID, role, domain.ApprovalPending).
		Suffix("ON CONFLICT (booking_id, role) DO NOTHING RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("%w: CreateIfAbsent - build insert query: %v", ErrBuildQuery, err)
	}

	a := &domain.Approval{
		BookingID: bookingID,
		Role:      role,
		Status:    domain.ApprovalPending,
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.ID, &createdAt)
	if err == sql.ErrNoRows {
		existing, getErr := r.Get(ctx, bookingID, role)
		if getErr != nil {
			return nil, false, getErr
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: CreateIfAbsent - execute insert: %v", ErrExecQuery, err)
	}
	a.CreatedAt = createdAt.Time

	return a, true, nil
}

// Get fetches the approval of (booking, role).
func (r *Repository) Get(ctx context.Context, bookingID int64, role domain.ApprovalRole) (*domain.Approval, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(approvalColumns...).
		From("approvals").
		Where(squirrel.Eq{"booking_id": bookingID, "role": role}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanApproval(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrApprovalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan approval: %v", ErrScanRow, err)
	}

	return a, nil
}

// ListByBooking fetches all approvals of a booking, oldest first.
func (r *Repository) ListByBooking(ctx context.Context, bookingID int64) ([]*domain.Approval, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(approvalColumns...).
		From("approvals").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	approvals := make([]*domain.Approval, 0)
	for rows.Next() {
		a, err := scanApproval(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByBooking - scan row: %v", ErrScanRow, err)
		}
		approvals = append(approvals, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - rows error: %v", ErrScanRow, err)
	}

	return approvals, nil
}

// Close marks the pending approval of (booking, role) approved or rejected.
// Only a pending approval can be closed; closing twice reports not found.
func (r *Repository) Close(ctx context.Context, bookingID int64, role domain.ApprovalRole, status domain.ApprovalStatus, actedBy int64, reason *string, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("approvals").
		Set("status", status).
		Set("acted_by", actedBy).
		Set("reason", reason).
		Set("closed_at", at).
		Where(squirrel.Eq{"booking_id": bookingID, "role": role, "status": domain.ApprovalPending}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Close - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Close - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Close - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrApprovalNotFound
	}

	return nil
}

func scanApproval(row interface{ Scan(...interface{}) error }) (*domain.Approval, error) {
	var a domain.Approval
	var createdAt sql.NullTime

	err := row.Scan(
		&a.ID,
		&a.BookingID,
		&a.Role,
		&a.Status,
		&a.ActedBy,
		&a.Reason,
		&createdAt,
		&a.ClosedAt,
	)
	if err != nil {
		return nil, err
	}
	a.CreatedAt = createdAt.Time

	return &a, nil
}
