package list_slots

import (
	"net/http"

	"github.com/admedia/AMS-AdSalesService/internal/api/handlers"
	"github.com/admedia/AMS-AdSalesService/internal/domain"
)

type Handler struct {
	catalog CatalogService
	logger  Logger
}

func NewHandler(catalog CatalogService, logger Logger) *Handler {
	return &Handler{catalog: catalog, logger: logger}
}

// Handle GET /api/v1/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var filter domain.SlotFilter

	if raw := r.URL.Query().Get("mediaType"); raw != "" {
		mt := domain.MediaType(raw)
		if !mt.Valid() {
			handlers.RespondBadRequest(w, "unknown mediaType")
			return
		}
		filter.MediaType = &mt
	}
	if raw := r.URL.Query().Get("pageType"); raw != "" {
		filter.PageType = &raw
	}
	if raw := r.URL.Query().Get("available"); raw != "" {
		available := raw == "true"
		filter.Available = &available
	}

	slots, err := h.catalog.ListSlots(r.Context(), filter)
	if err != nil {
		h.logger.Error("GET /slots - failed to list slots: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	resp := ListResponse{Slots: make([]SlotResponse, 0, len(slots))}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, FromDomain(s))
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
