package approve_po

import (
	"errors"
	"net/http"

	"github.com/admedia/AMS-AdSalesService/internal/api/handlers"
	"github.com/admedia/AMS-AdSalesService/internal/api/middleware"
	"github.com/admedia/AMS-AdSalesService/internal/domain"
	approvePO "github.com/admedia/AMS-AdSalesService/internal/usecase/approve_po"
)

const msgWorkOrderNotFound = "work order not found"

// ApprovePOResponse HTTP response model.
type ApprovePOResponse struct {
	ReleaseOrderID int64   `json:"releaseOrderId"`
	Number         string  `json:"number"`
	WorkOrderID    int64   `json:"workOrderId"`
	Status         string  `json:"status"`
	TaxInvoiceRef  *string `json:"taxInvoiceRef,omitempty"`
	Issued         bool    `json:"issued"`
}

type Handler struct {
	useCase ApprovePOUseCase
	logger  Logger
}

func NewHandler(useCase ApprovePOUseCase, logger Logger) *Handler {
	return &Handler{useCase: useCase, logger: logger}
}

// Handle POST /api/v1/work-orders/{id}/approve-po
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	actorID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	result, err := h.useCase.Execute(r.Context(), &approvePO.Request{
		WorkOrderID: id,
		ActorID:     actorID,
	})
	if err != nil {
		switch {
		case errors.Is(err, approvePO.ErrWorkOrderNotFound):
			handlers.RespondNotFound(w, msgWorkOrderNotFound)
		case errors.Is(err, domain.ErrValidation):
			handlers.RespondBadRequest(w, err.Error())
		case errors.Is(err, domain.ErrPrecondition):
			handlers.RespondUnprocessable(w, err.Error())
		default:
			h.logger.Error("POST /work-orders/%d/approve-po - failed: %v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	status := http.StatusOK
	if result.Issued {
		status = http.StatusCreated
	}

	h.logger.Info("POST /work-orders/%d/approve-po - release order %s (issued=%t)", id, result.Number, result.Issued)
	handlers.RespondJSON(w, status, ApprovePOResponse{
		ReleaseOrderID: result.ReleaseOrderID,
		Number:         result.Number,
		WorkOrderID:    result.WorkOrderID,
		Status:         string(result.Status),
		TaxInvoiceRef:  result.TaxInvoiceRef,
		Issued:         result.Issued,
	})
}
