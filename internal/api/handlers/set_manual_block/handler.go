package set_manual_block

import (
	"errors"
	"net/http"

	"github.com/admedia/AMS-AdSalesService/internal/api/handlers"
	"github.com/admedia/AMS-AdSalesService/internal/api/handlers/list_slots"
	"github.com/admedia/AMS-AdSalesService/internal/api/middleware"
	"github.com/admedia/AMS-AdSalesService/internal/domain"
	"github.com/admedia/AMS-AdSalesService/internal/service/catalog"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgSlotNotFound       = "slot not found"
)

// BlockRequest HTTP request model.
type BlockRequest struct {
	StartDate string `json:"startDate"` // YYYY-MM-DD
	EndDate   string `json:"endDate"`   // YYYY-MM-DD
	Reason    string `json:"reason,omitempty"`
}

type Handler struct {
	catalog CatalogService
	logger  Logger
}

func NewHandler(catalog CatalogService, logger Logger) *Handler {
	return &Handler{catalog: catalog, logger: logger}
}

// Handle POST /api/v1/slots/{id}/block
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	managerID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	var req BlockRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /slots/%d/block - invalid request body: %v", id, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	window, err := domain.NewDateRange(req.StartDate, req.EndDate)
	if err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	slot, err := h.catalog.SetManualBlock(r.Context(), id, window, req.Reason, managerID)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrSlotNotFound):
			handlers.RespondNotFound(w, msgSlotNotFound)
		case errors.Is(err, domain.ErrValidation):
			handlers.RespondBadRequest(w, err.Error())
		case errors.Is(err, domain.ErrConflict):
			h.logger.Warn("POST /slots/%d/block - conflict: %v", id, err)
			handlers.RespondConflict(w, err.Error())
		default:
			h.logger.Error("POST /slots/%d/block - failed to set block: %v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /slots/%d/block - blocked %s", id, window)
	handlers.RespondJSON(w, http.StatusOK, list_slots.FromDomain(slot))
}
