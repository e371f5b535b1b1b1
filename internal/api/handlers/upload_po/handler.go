package upload_po

import (
	"errors"
	"io"
	"net/http"

	"github.com/admedia/AMS-AdSalesService/internal/api/handlers"
	"github.com/admedia/AMS-AdSalesService/internal/domain"
	"github.com/admedia/AMS-AdSalesService/internal/service/workorders"
)

const (
	msgWorkOrderNotFound = "work order not found"
	msgInvalidUpload     = "expected multipart form with a \"file\" part"

	maxUploadBytes = 10 << 20 // 10 MiB
)

// UploadResponse HTTP response model.
type UploadResponse struct {
	Ref string `json:"ref"`
}

type Handler struct {
	workOrders WorkOrderService
	logger     Logger
}

func NewHandler(workOrders WorkOrderService, logger Logger) *Handler {
	return &Handler{workOrders: workOrders, logger: logger}
}

// Handle POST /api/v1/work-orders/{id}/po
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		handlers.RespondBadRequest(w, msgInvalidUpload)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidUpload)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		h.logger.Error("POST /work-orders/%d/po - failed to read upload: %v", id, err)
		handlers.RespondInternalError(w)
		return
	}

	ref, err := h.workOrders.UploadPO(r.Context(), id, header.Filename, content)
	if err != nil {
		switch {
		case errors.Is(err, workorders.ErrWorkOrderNotFound):
			handlers.RespondNotFound(w, msgWorkOrderNotFound)
		case errors.Is(err, domain.ErrValidation):
			handlers.RespondBadRequest(w, err.Error())
		default:
			h.logger.Error("POST /work-orders/%d/po - failed to store: %v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /work-orders/%d/po - stored ref=%s", id, ref)
	handlers.RespondJSON(w, http.StatusCreated, UploadResponse{Ref: ref})
}
