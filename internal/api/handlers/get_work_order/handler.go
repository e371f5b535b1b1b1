package get_work_order

import (
	"errors"
	"net/http"

	"github.com/admedia/AMS-AdSalesService/internal/api/handlers"
	"github.com/admedia/AMS-AdSalesService/internal/service/workorders"
)

const msgWorkOrderNotFound = "work order not found"

type Handler struct {
	workOrders WorkOrderService
	logger     Logger
}

func NewHandler(workOrders WorkOrderService, logger Logger) *Handler {
	return &Handler{workOrders: workOrders, logger: logger}
}

// Handle GET /api/v1/work-orders/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	wo, err := h.workOrders.GetWorkOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, workorders.ErrWorkOrderNotFound) {
			handlers.RespondNotFound(w, msgWorkOrderNotFound)
			return
		}
		h.logger.Error("GET /work-orders/%d - failed to get work order: %v", id, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomain(wo))
}
