package deployment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
	"github.com/admedia/AMS-AdSalesService/pkg/dbmetrics"
	"github.com/admedia/AMS-AdSalesService/pkg/psqlbuilder"
)

// Repository stores deployment records. Records are append-only.
type Repository struct {
	db DBExecutor
}

// NewRepository creates a deployment repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var deploymentColumns = []string{
	"id",
	"work_order_item_id",
	"release_order_id",
	"deployed_by",
	"status",
	"deployed_at",
}

// CreateIfAbsent records a deployment for a work order item unless one
// already exists. The unique constraint on work_order_item_id makes the
// operation idempotent: the second caller gets the existing record back
// with created=false.
func (r *Repository) CreateIfAbsent(ctx context.Context, d *domain.Deployment) (*domain.Deployment, bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("deployments").
		Columns("work_order_item_id", "release_order_id", "deployed_by", "status", "deployed_at").
		Values(d.WorkOrderItemID, d.ReleaseOrderID, d.DeployedBy, d.Status, d.DeployedAt).
		Suffix("ON CONFLICT (work_order_item_id) DO NOTHING RETURNING id").
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("%w: CreateIfAbsent - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&d.ID)
	if err == sql.ErrNoRows {
		existing, getErr := r.GetByItemID(ctx, d.WorkOrderItemID)
		if getErr != nil {
			return nil, false, getErr
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: CreateIfAbsent - execute insert: %v", ErrExecQuery, err)
	}

	return d, true, nil
}

// GetByItemID fetches the deployment record of a work order item.
func (r *Repository) GetByItemID(ctx context.Context, itemID int64) (*domain.Deployment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(deploymentColumns...).
		From("deployments").
		Where(squirrel.Eq{"work_order_item_id": itemID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByItemID - build select query: %v", ErrBuildQuery, err)
	}

	var d domain.Deployment
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&d.ID, &d.WorkOrderItemID, &d.ReleaseOrderID, &d.DeployedBy, &d.Status, &d.DeployedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrDeploymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByItemID - scan deployment: %v", ErrScanRow, err)
	}

	return &d, nil
}

// ListByReleaseOrderID fetches all deployment records of a release order.
func (r *Repository) ListByReleaseOrderID(ctx context.Context, releaseOrderID int64) ([]*domain.Deployment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(deploymentColumns...).
		From("deployments").
		Where(squirrel.Eq{"release_order_id": releaseOrderID}).
		OrderBy("deployed_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByReleaseOrderID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByReleaseOrderID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	deployments := make([]*domain.Deployment, 0)
	for rows.Next() {
		var d domain.Deployment
		if err := rows.Scan(&d.ID, &d.WorkOrderItemID, &d.ReleaseOrderID, &d.DeployedBy, &d.Status, &d.DeployedAt); err != nil {
			return nil, fmt.Errorf("%w: ListByReleaseOrderID - scan row: %v", ErrScanRow, err)
		}
		deployments = append(deployments, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByReleaseOrderID - rows error: %v", ErrScanRow, err)
	}

	return deployments, nil
}
