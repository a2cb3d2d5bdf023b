package handler

import (
	"encoding/json"
	"net/http"

	"github.com/abhash31/ai-booking-assistant/internal/providers/service"
	apperrors "github.com/abhash31/ai-booking-assistant/pkg/errors"
	httputil "github.com/abhash31/ai-booking-assistant/pkg/http"
	"github.com/abhash31/ai-booking-assistant/pkg/logger"
	"github.com/abhash31/ai-booking-assistant/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ProviderHandler struct {
	service service.ProviderService
	log     *logger.Logger
}

func NewProviderHandler(service service.ProviderService, log *logger.Logger) *ProviderHandler {
	return &ProviderHandler{
		service: service,
		log:     log,
	}
}

type capacityAdjustment struct {
	Delta int `json:"delta"`
}

func (h *ProviderHandler) Upsert(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var provider model.Provider
	if err := json.NewDecoder(r.Body).Decode(&provider); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Upsert", "error", writeErr)
		}
		return
	}

	if err := h.service.Upsert(r.Context(), &provider); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Upsert", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, provider); err != nil {
		h.log.Error("failed to write created response", "handler", "Upsert", "error", err)
	}
}

// Import accepts a uniform JSON array of provider records. A body that is not
// an array, or a record that fails validation, rejects the whole batch.
func (h *ProviderHandler) Import(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var providers []*model.Provider
	if err := json.NewDecoder(r.Body).Decode(&providers); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Request body must be a uniform JSON array of providers")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Import", "error", writeErr)
		}
		return
	}

	if err := h.service.ImportMany(r.Context(), providers); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Import", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"imported": len(providers),
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Import", "error", err)
	}
}

func (h *ProviderHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "error", writeErr)
		}
		return
	}

	providers, total, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, providers, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "error", err)
	}
}

func (h *ProviderHandler) GetByName(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	name := ps.ByName("name")

	provider, err := h.service.Get(r.Context(), name)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByName", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, provider); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByName", "error", err)
	}
}

func (h *ProviderHandler) AdjustCapacity(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	name := ps.ByName("name")

	var adjustment capacityAdjustment
	if err := json.NewDecoder(r.Body).Decode(&adjustment); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AdjustCapacity", "error", writeErr)
		}
		return
	}

	if err := h.service.AdjustCapacity(r.Context(), name, adjustment.Delta); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AdjustCapacity", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ProviderHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/providers", h.Upsert)
	router.POST("/api/v1/providers/import", h.Import)
	router.GET("/api/v1/providers", h.List)
	router.GET("/api/v1/providers/name/:name", h.GetByName)
	router.PATCH("/api/v1/providers/name/:name/capacity", h.AdjustCapacity)
}
