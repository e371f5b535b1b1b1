package submit_banners

import (
	"errors"
	"net/http"

	"github.com/admedia/AMS-AdSalesService/internal/api/handlers"
	"github.com/admedia/AMS-AdSalesService/internal/api/handlers/get_release_order"
	"github.com/admedia/AMS-AdSalesService/internal/domain"
	"github.com/admedia/AMS-AdSalesService/internal/service/releaseorders"
)

type Handler struct {
	releaseOrders ReleaseOrderService
	logger        Logger
}

func NewHandler(releaseOrders ReleaseOrderService, logger Logger) *Handler {
	return &Handler{releaseOrders: releaseOrders, logger: logger}
}

// Handle POST /api/v1/release-orders/{id}/submit-banners
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	ro, err := h.releaseOrders.SubmitBanners(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, releaseorders.ErrReleaseOrderNotFound):
			handlers.RespondNotFound(w, "release order not found")
		case errors.Is(err, domain.ErrPrecondition):
			handlers.RespondUnprocessable(w, err.Error())
		case errors.Is(err, domain.ErrInvalidState):
			handlers.RespondConflict(w, err.Error())
		default:
			h.logger.Error("POST /release-orders/%d/submit-banners - failed: %v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /release-orders/%d/submit-banners - now %s", id, ro.Status)
	handlers.RespondJSON(w, http.StatusOK, get_release_order.FromDomain(ro, nil))
}
