package workorder

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
	"github.com/admedia/AMS-AdSalesService/pkg/dbmetrics"
	"github.com/admedia/AMS-AdSalesService/pkg/psqlbuilder"
)

// Repository stores work orders and their items.
type Repository struct {
	db DBExecutor
}

// NewRepository creates a work order repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var workOrderColumns = []string{
	"id",
	"client_id",
	"status",
	"payment_mode",
	"gst_percent",
	"total_amount",
	"po_ref",
	"po_approved",
	"po_approved_at",
	"po_approved_by",
	"negotiation_requested",
	"negotiation_reason",
	"negotiation_requested_at",
	"quoted_by",
	"proforma_ref",
	"rejection_reason",
	"created_at",
	"updated_at",
}

var itemColumns = []string{
	"id",
	"work_order_id",
	"slot_id",
	"addon_type",
	"section_key",
	"media_type",
	"start_date",
	"end_date",
	"price",
	"banner_url",
	"booking_id",
	"created_at",
	"updated_at",
}

// Create inserts a work order together with its items.
// Must run inside the caller's transaction so the order and its items commit
// as one unit.
func (r *Repository) Create(ctx context.Context, wo *domain.WorkOrder) (*domain.WorkOrder, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("work_orders").
		Columns("client_id", "status", "payment_mode", "gst_percent", "total_amount").
		Values(wo.ClientID, wo.Status, wo.PaymentMode, wo.GSTPercent, wo.TotalAmount).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&wo.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	wo.CreatedAt = createdAt.Time
	wo.UpdatedAt = updatedAt.Time

	for _, item := range wo.Items {
		item.WorkOrderID = wo.ID
		if err := r.createItem(ctx, executor, item); err != nil {
			return nil, err
		}
	}

	return wo, nil
}

// AddItem appends one item to an existing order.
func (r *Repository) AddItem(ctx context.Context, item *domain.WorkOrderItem) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	return r.createItem(ctx, executor, item)
}

func (r *Repository) createItem(ctx context.Context, executor DBExecutor, item *domain.WorkOrderItem) error {
	query, args, err := psqlbuilder.Insert("work_order_items").
		Columns("work_order_id", "slot_id", "addon_type", "section_key", "media_type", "start_date", "end_date", "price", "booking_id").
		Values(item.WorkOrderID, item.SlotID, item.AddOnType, item.SectionKey, item.MediaType, item.Range.Start, item.Range.End, item.Price, item.BookingID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: createItem - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&item.ID, &createdAt, &updatedAt)
	if err != nil {
		return fmt.Errorf("%w: createItem - execute insert: %v", ErrExecQuery, err)
	}
	item.CreatedAt = createdAt.Time
	item.UpdatedAt = updatedAt.Time

	return nil
}

// GetByID fetches a work order with all its items.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.WorkOrder, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(workOrderColumns...).
		From("work_orders").
		Where(squirrel.Eq{"id": id})

	// Lock the order row inside transactions so concurrent workflow actions
	// on the same order serialize.
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	wo, err := scanWorkOrder(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrWorkOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan work order: %v", ErrScanRow, err)
	}

	items, err := r.getItems(ctx, executor, squirrel.Eq{"work_order_id": id})
	if err != nil {
		return nil, err
	}
	wo.Items = items

	return wo, nil
}

// GetItemByID fetches one work order item.
func (r *Repository) GetItemByID(ctx context.Context, itemID int64) (*domain.WorkOrderItem, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	items, err := r.getItems(ctx, executor, squirrel.Eq{"id": itemID})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrItemNotFound
	}
	return items[0], nil
}

// GetItemsBySlotOverlapping fetches items of non-rejected work orders that
// reference the slot and overlap [start, end]. Used by the manual block
// conflict check: a manager cannot block inventory a client already bought.
func (r *Repository) GetItemsBySlotOverlapping(ctx context.Context, slotID int64, rng domain.DateRange) ([]*domain.WorkOrderItem, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(prefixColumns("i", itemColumns)...).
		From("work_order_items i").
		Join("work_orders w ON w.id = i.work_order_id").
		Where(squirrel.Eq{"i.slot_id": slotID}).
		Where(squirrel.NotEq{"w.status": domain.WOStatusRejected}).
		Where(squirrel.LtOrEq{"i.start_date": rng.End}).
		Where(squirrel.GtOrEq{"i.end_date": rng.Start}).
		OrderBy("i.start_date ASC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetItemsBySlotOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetItemsBySlotOverlapping - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// UpdateStatus sets the work order status.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.WorkOrderStatus) error {
	return r.update(ctx, id, "UpdateStatus", map[string]interface{}{"status": status})
}

// SetQuote records quoting results: the GST percent, recalculated total and
// the quoting manager, clearing any prior negotiation request.
func (r *Repository) SetQuote(ctx context.Context, id int64, total decimal.Decimal, gstPercent decimal.Decimal, quotedBy int64, proformaRef *string) error {
	return r.update(ctx, id, "SetQuote", map[string]interface{}{
		"status":                   domain.WOStatusQuoted,
		"total_amount":             total,
		"gst_percent":              gstPercent,
		"quoted_by":                quotedBy,
		"proforma_ref":             proformaRef,
		"negotiation_requested":    false,
		"negotiation_reason":       nil,
		"negotiation_requested_at": nil,
	})
}

// SetItemPrice sets one item's price.
func (r *Repository) SetItemPrice(ctx context.Context, itemID int64, price decimal.Decimal) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("work_order_items").
		Set("price", price).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": itemID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetItemPrice - build update query: %v", ErrBuildQuery, err)
	}

	return execExpectingRow(ctx, executor, query, args, "SetItemPrice", ErrItemNotFound)
}

// SetItemBanner records the uploaded creative reference on an item.
func (r *Repository) SetItemBanner(ctx context.Context, itemID int64, bannerURL string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("work_order_items").
		Set("banner_url", bannerURL).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": itemID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetItemBanner - build update query: %v", ErrBuildQuery, err)
	}

	return execExpectingRow(ctx, executor, query, args, "SetItemBanner", ErrItemNotFound)
}

// SetNegotiation flags the order for price negotiation.
func (r *Repository) SetNegotiation(ctx context.Context, id int64, reason string, at time.Time) error {
	return r.update(ctx, id, "SetNegotiation", map[string]interface{}{
		"negotiation_requested":    true,
		"negotiation_reason":       reason,
		"negotiation_requested_at": at,
	})
}

// SetProformaRef stores the generated proforma document reference.
func (r *Repository) SetProformaRef(ctx context.Context, id int64, ref string) error {
	return r.update(ctx, id, "SetProformaRef", map[string]interface{}{"proforma_ref": ref})
}

// SetPORef stores the uploaded purchase order reference.
func (r *Repository) SetPORef(ctx context.Context, id int64, ref string) error {
	return r.update(ctx, id, "SetPORef", map[string]interface{}{"po_ref": ref})
}

// SetPOApproved marks the purchase order approved.
func (r *Repository) SetPOApproved(ctx context.Context, id int64, actorID int64, at time.Time) error {
	return r.update(ctx, id, "SetPOApproved", map[string]interface{}{
		"po_approved":    true,
		"po_approved_at": at,
		"po_approved_by": actorID,
	})
}

// SetRejection records the rejection reason and moves the order to rejected.
func (r *Repository) SetRejection(ctx context.Context, id int64, reason string) error {
	return r.update(ctx, id, "SetRejection", map[string]interface{}{
		"status":           domain.WOStatusRejected,
		"rejection_reason": reason,
	})
}

func (r *Repository) update(ctx context.Context, id int64, method string, sets map[string]interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("work_orders").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})
	for col, val := range sets {
		updateBuilder = updateBuilder.Set(col, val)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, method, err)
	}

	return execExpectingRow(ctx, executor, query, args, method, ErrWorkOrderNotFound)
}

func execExpectingRow(ctx context.Context, executor DBExecutor, query string, args []interface{}, method string, notFound error) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, method, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}
	if rowsAffected == 0 {
		return notFound
	}

	return nil
}

func (r *Repository) getItems(ctx context.Context, executor DBExecutor, pred interface{}) ([]*domain.WorkOrderItem, error) {
	query, args, err := psqlbuilder.Select(itemColumns...).
		From("work_order_items").
		Where(pred).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getItems - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getItems - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanItems(rows)
}

func prefixColumns(alias string, cols []string) []string {
	prefixed := make([]string, len(cols))
	for i, c := range cols {
		prefixed[i] = alias + "." + c
	}
	return prefixed
}

func scanWorkOrder(row interface{ Scan(...interface{}) error }) (*domain.WorkOrder, error) {
	var wo domain.WorkOrder
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&wo.ID,
		&wo.ClientID,
		&wo.Status,
		&wo.PaymentMode,
		&wo.GSTPercent,
		&wo.TotalAmount,
		&wo.PORef,
		&wo.POApproved,
		&wo.POApprovedAt,
		&wo.POApprovedBy,
		&wo.NegotiationRequested,
		&wo.NegotiationReason,
		&wo.NegotiationRequestedAt,
		&wo.QuotedBy,
		&wo.ProformaRef,
		&wo.RejectionReason,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	wo.CreatedAt = createdAt.Time
	wo.UpdatedAt = updatedAt.Time

	return &wo, nil
}

func scanItems(rows *sql.Rows) ([]*domain.WorkOrderItem, error) {
	items := make([]*domain.WorkOrderItem, 0)

	for rows.Next() {
		var item domain.WorkOrderItem
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&item.ID,
			&item.WorkOrderID,
			&item.SlotID,
			&item.AddOnType,
			&item.SectionKey,
			&item.MediaType,
			&item.Range.Start,
			&item.Range.End,
			&item.Price,
			&item.BannerURL,
			&item.BookingID,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanItems - scan row: %v", ErrScanRow, err)
		}

		item.CreatedAt = createdAt.Time
		item.UpdatedAt = updatedAt.Time

		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanItems - rows error: %v", ErrScanRow, err)
	}

	return items, nil
}
