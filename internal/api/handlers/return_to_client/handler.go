package return_to_client

import (
	"errors"
	"net/http"

	"github.com/admedia/AMS-AdSalesService/internal/api/handlers"
	"github.com/admedia/AMS-AdSalesService/internal/api/handlers/get_release_order"
	"github.com/admedia/AMS-AdSalesService/internal/api/middleware"
	"github.com/admedia/AMS-AdSalesService/internal/domain"
	"github.com/admedia/AMS-AdSalesService/internal/service/releaseorders"
)

// ReturnRequest HTTP request model.
type ReturnRequest struct {
	Reason string `json:"reason"`
}

type Handler struct {
	releaseOrders ReleaseOrderService
	logger        Logger
}

func NewHandler(releaseOrders ReleaseOrderService, logger Logger) *Handler {
	return &Handler{releaseOrders: releaseOrders, logger: logger}
}

// Handle POST /api/v1/release-orders/{id}/return
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}
	actorID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondBadRequest(w, "missing user identity")
		return
	}

	var req ReturnRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	ro, err := h.releaseOrders.ReturnToClient(r.Context(), id, actorID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, releaseorders.ErrReleaseOrderNotFound):
			handlers.RespondNotFound(w, "release order not found")
		case errors.Is(err, domain.ErrValidation):
			handlers.RespondBadRequest(w, err.Error())
		case errors.Is(err, domain.ErrInvalidState):
			handlers.RespondConflict(w, err.Error())
		default:
			h.logger.Error("POST /release-orders/%d/return - failed: %v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /release-orders/%d/return - sent back for banner rework", id)
	handlers.RespondJSON(w, http.StatusOK, get_release_order.FromDomain(ro, nil))
}
