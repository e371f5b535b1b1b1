package submit_banners

import (
	"context"

	"github.com/admedia/AMS-AdSalesService/internal/domain"
)

type ReleaseOrderService interface {
	SubmitBanners(ctx context.Context, id int64) (*domain.ReleaseOrder, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
