package slot

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
	"github.com/admedia/AMS-AdSalesService/pkg/dbmetrics"
	"github.com/admedia/AMS-AdSalesService/pkg/psqlbuilder"
)

// Repository stores slot definitions and their manual block windows.
type Repository struct {
	db DBExecutor
}

// NewRepository creates a slot repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var slotColumns = []string{
	"id",
	"name",
	"media_type",
	"page_type",
	"position",
	"width_px",
	"height_px",
	"base_price",
	"available",
	"block_start",
	"block_end",
	"block_reason",
	"block_manager_id",
	"block_set_at",
	"created_at",
	"updated_at",
}

// Create inserts a new slot definition.
func (r *Repository) Create(ctx context.Context, s *domain.Slot) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slots").
		Columns("name", "media_type", "page_type", "position", "width_px", "height_px", "base_price", "available").
		Values(s.Name, s.MediaType, s.PageType, s.Position, s.WidthPx, s.HeightPx, s.BasePrice, s.Available).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return s, nil
}

// GetByID fetches one slot.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{"id": id})

	// Inside a transaction the slot row is locked so concurrent availability
	// checks and block updates serialize on it.
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	s, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	return s, nil
}

// List fetches slots matching the filter.
func (r *Repository) List(ctx context.Context, filter domain.SlotFilter) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("slots").
		OrderBy("media_type ASC, page_type ASC, position ASC")

	if filter.MediaType != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"media_type": *filter.MediaType})
	}
	if filter.PageType != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"page_type": *filter.PageType})
	}
	if filter.Available != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"available": *filter.Available})
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

	slots := make([]*domain.Slot, 0)
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

// SetManualBlock records a manager block window on the slot.
func (r *Repository) SetManualBlock(ctx context.Context, id int64, block domain.ManualBlock) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("block_start", block.Window.Start).
		Set("block_end", block.Window.End).
		Set("block_reason", block.Reason).
		Set("block_manager_id", block.ManagerID).
		Set("block_set_at", block.SetAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetManualBlock - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "SetManualBlock")
}

// ClearManualBlock removes the block window from the slot.
func (r *Repository) ClearManualBlock(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("block_start", nil).
		Set("block_end", nil).
		Set("block_reason", nil).
		Set("block_manager_id", nil).
		Set("block_set_at", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ClearManualBlock - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "ClearManualBlock")
}

func (r *Repository) execExpectingRow(ctx context.Context, executor DBExecutor, query string, args []interface{}, method string) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, method, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}
	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.Slot, error) {
	var s domain.Slot
	var createdAt, updatedAt sql.NullTime
	var blockStart, blockEnd, blockSetAt sql.NullTime
	var blockReason sql.NullString
	var blockManagerID sql.NullInt64

	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.MediaType,
		&s.PageType,
		&s.Position,
		&s.WidthPx,
		&s.HeightPx,
		&s.BasePrice,
		&s.Available,
		&blockStart,
		&blockEnd,
		&blockReason,
		&blockManagerID,
		&blockSetAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if blockStart.Valid && blockEnd.Valid {
		s.ManualBlock = &domain.ManualBlock{
			Window:    domain.DateRange{Start: blockStart.Time, End: blockEnd.Time},
			Reason:    blockReason.String,
			ManagerID: blockManagerID.Int64,
			SetAt:     blockSetAt.Time,
		}
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}
