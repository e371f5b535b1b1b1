package clear_manual_block

import (
	"errors"
	"net/http"

	"github.com/admedia/AMS-AdSalesService/internal/api/handlers"
	"github.com/admedia/AMS-AdSalesService/internal/service/catalog"
)

const msgSlotNotFound = "slot not found"

type Handler struct {
	catalog CatalogService
	logger  Logger
}

func NewHandler(catalog CatalogService, logger Logger) *Handler {
	return &Handler{catalog: catalog, logger: logger}
}

// Handle DELETE /api/v1/slots/{id}/block
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	if err := h.catalog.ClearManualBlock(r.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrSlotNotFound) {
			handlers.RespondNotFound(w, msgSlotNotFound)
			return
		}
		h.logger.Error("DELETE /slots/%d/block - failed to clear block: %v", id, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /slots/%d/block - cleared", id)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
