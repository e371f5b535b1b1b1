package releaseorder

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

// Repository stores release orders.
type Repository struct {
	db DBExecutor
}

// NewRepository creates a release order repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var releaseOrderColumns = []string{
	"id",
	"number",
	"work_order_id",
	"status",
	"rejection_reason",
	"rejected_by",
	"rejected_at",
	"payment_status",
	"tax_invoice_ref",
	"created_at",
	"updated_at",
}

// CreateIfAbsent inserts a release order for the work order unless one already
// exists. The unique constraint on work_order_id is the backstop against two
// concurrent approvePO calls issuing two tickets; the second caller gets the
// existing row back with created=false.
func (r *Repository) CreateIfAbsent(ctx context.Context, ro *domain.ReleaseOrder) (*domain.ReleaseOrder, bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("release_orders").
		Columns("number", "work_order_id", "status", "payment_status", "tax_invoice_ref").
		Values(ro.Number, ro.WorkOrderID, ro.Status, ro.PaymentStatus, ro.TaxInvoiceRef).
		Suffix("ON CONFLICT (work_order_id) DO NOTHING RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("%w: CreateIfAbsent - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&ro.ID, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		existing, getErr := r.GetByWorkOrderID(ctx, ro.WorkOrderID)
		if getErr != nil {
			return nil, false, getErr
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: CreateIfAbsent - execute insert: %v", ErrExecQuery, err)
	}

	ro.CreatedAt = createdAt.Time
	ro.UpdatedAt = updatedAt.Time

	return ro, true, nil
}

// GetByID fetches one release order.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ReleaseOrder, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, "GetByID")
}

// GetByWorkOrderID fetches the release order of a work order.
func (r *Repository) GetByWorkOrderID(ctx context.Context, workOrderID int64) (*domain.ReleaseOrder, error) {
	return r.getOne(ctx, squirrel.Eq{"work_order_id": workOrderID}, "GetByWorkOrderID")
}

func (r *Repository) getOne(ctx context.Context, pred squirrel.Eq, method string) (*domain.ReleaseOrder, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(releaseOrderColumns...).
		From("release_orders").
		Where(pred)

	// Lock the row inside transactions so stage transitions and completion
	// detection serialize per order.
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	ro, err := scanReleaseOrder(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrReleaseOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan release order: %v", ErrScanRow, method, err)
	}

	return ro, nil
}

// UpdateStatus moves the order to a new stage, clearing rejection metadata:
// every forward transition wipes the prior rejection.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.ReleaseOrderStatus) error {
	return r.update(ctx, id, "UpdateStatus", map[string]interface{}{
		"status":           status,
		"rejection_reason": nil,
		"rejected_by":      nil,
		"rejected_at":      nil,
	})
}

// SetRejection loops the order back to the target stage, recording who
// rejected it and why.
func (r *Repository) SetRejection(ctx context.Context, id int64, status domain.ReleaseOrderStatus, reason string, rejectedBy int64, at time.Time) error {
	return r.update(ctx, id, "SetRejection", map[string]interface{}{
		"status":           status,
		"rejection_reason": reason,
		"rejected_by":      rejectedBy,
		"rejected_at":      at,
	})
}

// ResetForReissue returns an already-deployed order to the start of the
// review pipeline (the re-issue path of PO approval).
func (r *Repository) ResetForReissue(ctx context.Context, id int64) error {
	return r.update(ctx, id, "ResetForReissue", map[string]interface{}{
		"status":           domain.ROStatusPendingBannerUpload,
		"rejection_reason": nil,
		"rejected_by":      nil,
		"rejected_at":      nil,
	})
}

// SetTaxInvoiceRef stores the generated tax invoice reference.
func (r *Repository) SetTaxInvoiceRef(ctx context.Context, id int64, ref string) error {
	return r.update(ctx, id, "SetTaxInvoiceRef", map[string]interface{}{"tax_invoice_ref": ref})
}

// SetPaymentStatus records settlement of the underlying work order.
func (r *Repository) SetPaymentStatus(ctx context.Context, id int64, status domain.ReleasePaymentStatus) error {
	return r.update(ctx, id, "SetPaymentStatus", map[string]interface{}{"payment_status": status})
}

func (r *Repository) update(ctx context.Context, id int64, method string, sets map[string]interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("release_orders").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})
	for col, val := range sets {
		updateBuilder = updateBuilder.Set(col, val)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, method, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, method, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}
	if rowsAffected == 0 {
		return ErrReleaseOrderNotFound
	}

	return nil
}

func scanReleaseOrder(row interface{ Scan(...interface{}) error }) (*domain.ReleaseOrder, error) {
	var ro domain.ReleaseOrder
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&ro.ID,
		&ro.Number,
		&ro.WorkOrderID,
		&ro.Status,
		&ro.RejectionReason,
		&ro.RejectedBy,
		&ro.RejectedAt,
		&ro.PaymentStatus,
		&ro.TaxInvoiceRef,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	ro.CreatedAt = createdAt.Time
	ro.UpdatedAt = updatedAt.Time

	return &ro, nil
}
