package quote_work_order

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/admedia/AMS-AdSalesService/internal/api/handlers"
	"github.com/admedia/AMS-AdSalesService/internal/api/handlers/get_work_order"
	"github.com/admedia/AMS-AdSalesService/internal/api/middleware"
	"github.com/admedia/AMS-AdSalesService/internal/domain"
	"github.com/admedia/AMS-AdSalesService/internal/service/workorders"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgWorkOrderNotFound  = "work order not found"
)

// QuoteRequest HTTP request model. Item prices are keyed by item id; items
// missing from the map keep their current price.
type QuoteRequest struct {
	ItemPrices map[string]string `json:"itemPrices,omitempty"`
	GSTPercent string            `json:"gstPercent"`
}

type Handler struct {
	workOrders WorkOrderService
	logger     Logger
}

func NewHandler(workOrders WorkOrderService, logger Logger) *Handler {
	return &Handler{workOrders: workOrders, logger: logger}
}

// Handle POST /api/v1/work-orders/{id}/quote
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	quotedBy, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	var req QuoteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /work-orders/%d/quote - invalid request body: %v", id, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	gst, err := decimal.NewFromString(req.GSTPercent)
	if err != nil {
		handlers.RespondBadRequest(w, "gstPercent must be a decimal")
		return
	}

	prices := make(map[int64]decimal.Decimal, len(req.ItemPrices))
	for rawID, rawPrice := range req.ItemPrices {
		itemID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			handlers.RespondBadRequest(w, "itemPrices keys must be item ids")
			return
		}
		price, err := decimal.NewFromString(rawPrice)
		if err != nil {
			handlers.RespondBadRequest(w, "itemPrices values must be decimals")
			return
		}
		prices[itemID] = price
	}

	wo, err := h.workOrders.Quote(r.Context(), id, prices, gst, quotedBy)
	if err != nil {
		switch {
		case errors.Is(err, workorders.ErrWorkOrderNotFound):
			handlers.RespondNotFound(w, msgWorkOrderNotFound)
		case errors.Is(err, domain.ErrValidation):
			handlers.RespondBadRequest(w, err.Error())
		case errors.Is(err, domain.ErrInvalidState):
			handlers.RespondConflict(w, err.Error())
		default:
			h.logger.Error("POST /work-orders/%d/quote - failed to quote: %v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /work-orders/%d/quote - quoted at %s by=%d", id, wo.TotalAmount, quotedBy)
	handlers.RespondJSON(w, http.StatusOK, get_work_order.FromDomain(wo))
}
