package create_work_order

import (
	"errors"
	"net/http"

	"github.com/admedia/AMS-AdSalesService/internal/api/handlers"
	"github.com/admedia/AMS-AdSalesService/internal/api/middleware"
	"github.com/admedia/AMS-AdSalesService/internal/domain"
	createWorkOrder "github.com/admedia/AMS-AdSalesService/internal/usecase/create_work_order"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgSlotNotFound       = "slot not found"
	msgAllConflicted      = "no requested item could be reserved"
)

type Handler struct {
	useCase CreateWorkOrderUseCase
	logger  Logger
}

func NewHandler(useCase CreateWorkOrderUseCase, logger Logger) *Handler {
	return &Handler{useCase: useCase, logger: logger}
}

// Handle POST /api/v1/work-orders
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	var req CreateWorkOrderRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /work-orders - invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(clientID))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			h.logger.Warn("POST /work-orders - validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())
		case errors.Is(err, createWorkOrder.ErrSlotNotFound):
			handlers.RespondNotFound(w, msgSlotNotFound)
		case errors.Is(err, createWorkOrder.ErrAllItemsConflicted):
			h.logger.Warn("POST /work-orders - all items conflicted: client=%d", clientID)
			handlers.RespondConflict(w, msgAllConflicted)
		default:
			h.logger.Error("POST /work-orders - failed to create draft: client=%d, error=%v", clientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /work-orders - created draft id=%d for client=%d", result.ID, clientID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
