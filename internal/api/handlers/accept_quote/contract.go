package accept_quote

import (
	"context"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
)

type WorkOrderService interface {
	AcceptQuote(ctx context.Context, id int64) (*domain.WorkOrder, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
