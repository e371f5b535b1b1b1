package accept_quote

import (
	"errors"
	"net/http"

	"github.com/admedia/AMS-AdSalesService/internal/api/handlers"
	"github.com/admedia/AMS-AdSalesService/internal/api/handlers/get_work_order"
	"github.com/admedia/AMS-AdSalesService/internal/domain"
	"github.com/admedia/AMS-AdSalesService/internal/service/workorders"
)

const (
	msgWorkOrderNotFound = "work order not found"
	msgPORequired        = "a purchase order must be uploaded before accepting"
)

type Handler struct {
	workOrders WorkOrderService
	logger     Logger
}

func NewHandler(workOrders WorkOrderService, logger Logger) *Handler {
	return &Handler{workOrders: workOrders, logger: logger}
}

// Handle POST /api/v1/work-orders/{id}/accept
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	wo, err := h.workOrders.AcceptQuote(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, workorders.ErrWorkOrderNotFound):
			handlers.RespondNotFound(w, msgWorkOrderNotFound)
		case errors.Is(err, domain.ErrPrecondition):
			handlers.RespondUnprocessable(w, msgPORequired)
		case errors.Is(err, domain.ErrInvalidState):
			handlers.RespondConflict(w, err.Error())
		default:
			h.logger.Error("POST /work-orders/%d/accept - failed: %v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /work-orders/%d/accept - status=%s", id, wo.Status)
	handlers.RespondJSON(w, http.StatusOK, get_work_order.FromDomain(wo))
}
