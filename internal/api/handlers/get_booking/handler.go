package get_booking

import (
	"errors"
	"net/http"

	"github.com/admedia/AMS-AdSalesService/internal/api/handlers"
	"github.com/admedia/AMS-AdSalesService/internal/service/reservations"
)

type Handler struct {
	reservations ReservationService
	logger       Logger
}

func NewHandler(reservations ReservationService, logger Logger) *Handler {
	return &Handler{reservations: reservations, logger: logger}
}

// Handle GET /api/v1/bookings/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	booking, approvals, err := h.reservations.GetBooking(r.Context(), id)
	if err != nil {
		if errors.Is(err, reservations.ErrBookingNotFound) {
			handlers.RespondNotFound(w, "booking not found")
			return
		}
		h.logger.Error("GET /bookings/%d - failed to get booking: %v", id, err)
		handlers.RespondInternalError(w)
		return
	}

	installments, err := h.reservations.GetInstallments(r.Context(), id)
	if err != nil {
		h.logger.Error("GET /bookings/%d - failed to get installments: %v", id, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomain(booking, approvals, installments))
}
