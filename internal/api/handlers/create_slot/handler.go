package create_slot

import (
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/admedia/AMS-AdSalesService/internal/api/handlers"
	"github.com/admedia/AMS-AdSalesService/internal/api/handlers/list_slots"
	"github.com/admedia/AMS-AdSalesService/internal/domain"
)

const msgInvalidRequestBody = "invalid request body"

// CreateSlotRequest HTTP request model.
type CreateSlotRequest struct {
	Name      string `json:"name"`
	MediaType string `json:"mediaType"`
	PageType  string `json:"pageType,omitempty"`
	Position  string `json:"position,omitempty"`
	WidthPx   *int   `json:"widthPx,omitempty"`
	HeightPx  *int   `json:"heightPx,omitempty"`
	BasePrice string `json:"basePrice"`
	Available *bool  `json:"available,omitempty"`
}

type Handler struct {
	catalog CatalogService
	logger  Logger
}

func NewHandler(catalog CatalogService, logger Logger) *Handler {
	return &Handler{catalog: catalog, logger: logger}
}

// Handle POST /api/v1/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /slots - invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	price, err := decimal.NewFromString(req.BasePrice)
	if err != nil || price.IsNegative() {
		handlers.RespondBadRequest(w, "basePrice must be a non-negative decimal")
		return
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	slot, err := h.catalog.CreateSlot(r.Context(), &domain.Slot{
		Name:      req.Name,
		MediaType: domain.MediaType(req.MediaType),
		PageType:  req.PageType,
		Position:  req.Position,
		WidthPx:   req.WidthPx,
		HeightPx:  req.HeightPx,
		BasePrice: price,
		Available: available,
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			handlers.RespondBadRequest(w, err.Error())
			return
		}
		h.logger.Error("POST /slots - failed to create slot: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /slots - created slot id=%d", slot.ID)
	handlers.RespondJSON(w, http.StatusCreated, list_slots.FromDomain(slot))
}
