package get_release_order

import (
	"errors"
	"net/http"

	"github.com/admedia/AMS-AdSalesService/internal/api/handlers"
	"github.com/admedia/AMS-AdSalesService/internal/service/releaseorders"
)

type Handler struct {
	service     ReleaseOrderService
	deployments DeploymentTracker
	logger      Logger
}

func NewHandler(service ReleaseOrderService, deployments DeploymentTracker, logger Logger) *Handler {
	return &Handler{
		service:     service,
		deployments: deployments,
		logger:      logger,
	}
}

// Handle processes GET /api/v1/release-orders/{id}.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		handlers.RespondBadRequest(w, "invalid release order id")
		return
	}

	ro, err := h.service.GetReleaseOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, releaseorders.ErrReleaseOrderNotFound) {
			handlers.RespondNotFound(w, "release order not found")
			return
		}
		h.logger.Error("GET /release-orders/%d - failed to get release order: %v", id, err)
		handlers.RespondInternalError(w)
		return
	}

	records, err := h.deployments.ListDeployments(r.Context(), ro.ID)
	if err != nil {
		h.logger.Error("GET /release-orders/%d - failed to list deployments: %v", id, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomain(ro, records))
}
