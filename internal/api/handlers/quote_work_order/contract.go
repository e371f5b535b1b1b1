package quote_work_order

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
)

type WorkOrderService interface {
	Quote(ctx context.Context, id int64, itemPrices map[int64]decimal.Decimal, gstPercent decimal.Decimal, quotedBy int64) (*domain.WorkOrder, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
