package upload_banner

import (
	"errors"
	"io"
	"net/http"

	"github.com/admedia/AMS-AdSalesService/internal/api/handlers"
	"github.com/admedia/AMS-AdSalesService/internal/api/handlers/get_release_order"
	"github.com/admedia/AMS-AdSalesService/internal/domain"
	"github.com/admedia/AMS-AdSalesService/internal/service/releaseorders"
)

const (
	msgItemNotFound  = "work order item not found"
	msgInvalidUpload = "expected multipart form with a \"file\" part"

	maxUploadBytes = 10 << 20 // 10 MiB
)

type Handler struct {
	releaseOrders ReleaseOrderService
	logger        Logger
}

func NewHandler(releaseOrders ReleaseOrderService, logger Logger) *Handler {
	return &Handler{releaseOrders: releaseOrders, logger: logger}
}

// Handle POST /api/v1/items/{id}/banner
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	itemID, err := handlers.PathInt64(r, "id")
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
		h.logger.Error("POST /items/%d/banner - failed to read upload: %v", itemID, err)
		handlers.RespondInternalError(w)
		return
	}

	ro, err := h.releaseOrders.UploadBanner(r.Context(), itemID, header.Filename, content)
	if err != nil {
		switch {
		case errors.Is(err, releaseorders.ErrItemNotFound):
			handlers.RespondNotFound(w, msgItemNotFound)
		case errors.Is(err, releaseorders.ErrReleaseOrderNotFound):
			handlers.RespondNotFound(w, "release order not found")
		case errors.Is(err, domain.ErrValidation):
			handlers.RespondBadRequest(w, err.Error())
		case errors.Is(err, domain.ErrInvalidState):
			handlers.RespondConflict(w, err.Error())
		default:
			h.logger.Error("POST /items/%d/banner - failed to store: %v", itemID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	if ro == nil {
		// Creative landed before the release order was issued; the file is
		// stored and there is no pipeline state to report yet.
		h.logger.Info("POST /items/%d/banner - stored ahead of release order issue", itemID)
		handlers.RespondJSON(w, http.StatusAccepted, StoredResponse{ItemID: itemID})
		return
	}

	h.logger.Info("POST /items/%d/banner - stored, release order %d now %s", itemID, ro.ID, ro.Status)
	handlers.RespondJSON(w, http.StatusCreated, get_release_order.FromDomain(ro, nil))
}
