package handler

import (
	"encoding/json"
	"net/http"

	"github.com/abhash31/ai-booking-assistant/internal/bookings/service"
	apperrors "github.com/abhash31/ai-booking-assistant/pkg/errors"
	httputil "github.com/abhash31/ai-booking-assistant/pkg/http"
	"github.com/abhash31/ai-booking-assistant/pkg/logger"
	"github.com/abhash31/ai-booking-assistant/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) Reserve(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Reserve", "error", writeErr)
		}
		return
	}

	booking, err := h.service.Reserve(r.Context(), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Reserve", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Reserve", "error", err)
	}
}

func (h *BookingHandler) GetByReference(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ref := ps.ByName("ref")

	booking, err := h.service.Get(r.Context(), ref)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByReference", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByReference", "error", err)
	}
}

// Cancel deletes the booking and returns the cancelled record so the chat
// layer can read back what was removed.
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ref := ps.ByName("ref")

	booking, err := h.service.Cancel(r.Context(), ref)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Cancel", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "error", err)
	}
}

func (h *BookingHandler) ListForDate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	date := r.URL.Query().Get("date")
	if date == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Query parameter 'date' is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListForDate", "error", writeErr)
		}
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListForDate", "error", writeErr)
		}
		return
	}

	bookings, total, err := h.service.ListForDate(r.Context(), date, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListForDate", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListForDate", "error", err)
	}
}

func (h *BookingHandler) ListAvailableSlots(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	name := ps.ByName("name")

	date := r.URL.Query().Get("date")
	if date == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Query parameter 'date' is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListAvailableSlots", "error", writeErr)
		}
		return
	}

	available, err := h.service.ListAvailable(r.Context(), name, date)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListAvailableSlots", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, map[string]any{
		"provider_name":   name,
		"date":            date,
		"available_slots": available,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "ListAvailableSlots", "error", err)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Reserve)
	router.GET("/api/v1/bookings", h.ListForDate)
	router.GET("/api/v1/bookings/ref/:ref", h.GetByReference)
	router.DELETE("/api/v1/bookings/ref/:ref", h.Cancel)
	router.GET("/api/v1/providers/name/:name/slots", h.ListAvailableSlots)
}
