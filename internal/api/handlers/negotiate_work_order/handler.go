package negotiate_work_order

import (
	"errors"
	"net/http"

	"github.com/admedia/AMS-AdSalesService/internal/api/handlers"
	"github.com/admedia/AMS-AdSalesService/internal/domain"
	"github.com/admedia/AMS-AdSalesService/internal/service/workorders"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgWorkOrderNotFound  = "work order not found"
)

// NegotiateRequest HTTP request model.
type NegotiateRequest struct {
	Reason string `json:"reason"`
}

type Handler struct {
	workOrders WorkOrderService
	logger     Logger
}

func NewHandler(workOrders WorkOrderService, logger Logger) *Handler {
	return &Handler{workOrders: workOrders, logger: logger}
}

// Handle POST /api/v1/work-orders/{id}/negotiate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	var req NegotiateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /work-orders/%d/negotiate - invalid request body: %v", id, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.workOrders.RequestNegotiation(r.Context(), id, req.Reason); err != nil {
		switch {
		case errors.Is(err, workorders.ErrWorkOrderNotFound):
			handlers.RespondNotFound(w, msgWorkOrderNotFound)
		case errors.Is(err, domain.ErrValidation):
			handlers.RespondBadRequest(w, err.Error())
		case errors.Is(err, domain.ErrInvalidState):
			handlers.RespondConflict(w, err.Error())
		default:
			h.logger.Error("POST /work-orders/%d/negotiate - failed: %v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /work-orders/%d/negotiate - negotiation requested", id)
	handlers.RespondJSON(w, http.StatusAccepted, nil)
}
