package transition_booking

import (
	"errors"
	"net/http"

	"github.com/admedia/AMS-AdSalesService/internal/api/handlers"
	"github.com/admedia/AMS-AdSalesService/internal/api/handlers/get_booking"
	"github.com/admedia/AMS-AdSalesService/internal/api/middleware"
	"github.com/admedia/AMS-AdSalesService/internal/domain"
	"github.com/admedia/AMS-AdSalesService/internal/service/reservations"
)

const msgMissingRole = "missing user role header"

// TransitionRequest HTTP request model.
type TransitionRequest struct {
	Target string  `json:"target"`
	Reason *string `json:"reason,omitempty"`
}

type Handler struct {
	reservations ReservationService
	logger       Logger
}

func NewHandler(reservations ReservationService, logger Logger) *Handler {
	return &Handler{reservations: reservations, logger: logger}
}

// Handle POST /api/v1/bookings/{id}/transition
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "id")
	if err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}
	actorID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondBadRequest(w, "missing user identity")
		return
	}
	actorRole, ok := middleware.UserRole(r.Context())
	if !ok {
		handlers.RespondBadRequest(w, msgMissingRole)
		return
	}

	var req TransitionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}
	target := domain.BookingStatus(req.Target)
	if !target.Valid() {
		handlers.RespondBadRequest(w, "unknown target status")
		return
	}

	booking, err := h.reservations.TransitionStatus(r.Context(), id, target, actorRole, actorID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrBookingNotFound):
			handlers.RespondNotFound(w, "booking not found")
		case errors.Is(err, domain.ErrValidation):
			handlers.RespondBadRequest(w, err.Error())
		case errors.Is(err, domain.ErrPrecondition):
			handlers.RespondUnprocessable(w, err.Error())
		case errors.Is(err, domain.ErrInvalidState):
			handlers.RespondConflict(w, err.Error())
		default:
			h.logger.Error("POST /bookings/%d/transition - failed: %v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/%d/transition - %s by %s %d", id, booking.Status, actorRole, actorID)
	handlers.RespondJSON(w, http.StatusOK, get_booking.FromDomain(booking, nil, nil))
}
