package record_deployment

import (
	"errors"
	"net/http"

	"github.com/admedia/AMS-AdSalesService/internal/api/handlers"
	"github.com/admedia/AMS-AdSalesService/internal/api/middleware"
	"github.com/admedia/AMS-AdSalesService/internal/domain"
	"github.com/admedia/AMS-AdSalesService/internal/service/deployments"
	recordDeployment "github.com/admedia/AMS-AdSalesService/internal/usecase/record_deployment"
)

type Handler struct {
	usecase RecordDeploymentUseCase
	logger  Logger
}

func NewHandler(usecase RecordDeploymentUseCase, logger Logger) *Handler {
	return &Handler{usecase: usecase, logger: logger}
}

// Handle POST /api/v1/release-orders/{id}/deployments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	releaseOrderID, err := handlers.PathInt64(r, "id")
	if err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}
	deployerID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondBadRequest(w, "missing user identity")
		return
	}

	var req DeployRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	resp, err := h.usecase.Execute(r.Context(), &recordDeployment.Request{
		ReleaseOrderID: releaseOrderID,
		ItemID:         req.ItemID,
		DeployerID:     deployerID,
	})
	if err != nil {
		switch {
		case errors.Is(err, deployments.ErrReleaseOrderNotFound):
			handlers.RespondNotFound(w, "release order not found")
		case errors.Is(err, deployments.ErrItemNotFound):
			handlers.RespondNotFound(w, "item not found on release order")
		case errors.Is(err, domain.ErrValidation):
			handlers.RespondBadRequest(w, err.Error())
		case errors.Is(err, domain.ErrInvalidState):
			handlers.RespondConflict(w, err.Error())
		default:
			h.logger.Error("POST /release-orders/%d/deployments - failed: %v", releaseOrderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	status := http.StatusCreated
	if resp.AlreadyExisted {
		status = http.StatusOK
	}
	handlers.RespondJSON(w, status, FromUseCaseResponse(resp))
}
