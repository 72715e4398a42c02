package adaptor

import (
	"encoding/json"
	"net/http"
	"strings"

	"home-cleaning/internal/dto/request"
	"home-cleaning/internal/usecase"
	"home-cleaning/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ServiceHandler struct {
	service usecase.CatalogService
	log     *zap.Logger
}

func NewServiceHandler(service usecase.CatalogService, log *zap.Logger) *ServiceHandler {
	return &ServiceHandler{
		service: service,
		log:     log.With(zap.String("handler", "service")),
	}
}

// ListServices handles GET /api/services (public)
func (h *ServiceHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.service.ListActive(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "list services")
		return
	}

	utils.ResponseSuccess(w, "success", services)
}

// GetService handles GET /api/services/{id} (public)
func (h *ServiceHandler) GetService(w http.ResponseWriter, r *http.Request) {
	serviceID := chi.URLParam(r, "id")
	if serviceID == "" {
		utils.ResponseBadRequest(w, "Service ID is required", nil)
		return
	}

	service, err := h.service.Get(r.Context(), serviceID)
	if err != nil {
		h.handleServiceError(w, err, "get service")
		return
	}

	utils.ResponseSuccess(w, "success", service)
}

// ==================== ADMIN METHODS ====================

// ListAllServices handles GET /api/admin/services (admin only)
// Includes deactivated services, unlike the public catalog.
func (h *ServiceHandler) ListAllServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.service.ListAll(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "list all services")
		return
	}

	utils.ResponseSuccess(w, "success", services)
}

// CreateService handles POST /api/services (admin only)
func (h *ServiceHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req request.ServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	service, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create service")
		return
	}

	utils.ResponseCreated(w, "success", service)
}

// UpdateService handles PUT /api/services/{id} (admin only)
func (h *ServiceHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	serviceID := chi.URLParam(r, "id")
	if serviceID == "" {
		utils.ResponseBadRequest(w, "Service ID is required", nil)
		return
	}

	var req request.ServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	service, err := h.service.Update(r.Context(), serviceID, &req)
	if err != nil {
		h.handleServiceError(w, err, "update service")
		return
	}

	utils.ResponseSuccess(w, "success", service)
}

// DeleteService handles DELETE /api/services/{id} (admin only)
func (h *ServiceHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	serviceID := chi.URLParam(r, "id")
	if serviceID == "" {
		utils.ResponseBadRequest(w, "Service ID is required", nil)
		return
	}

	if err := h.service.SoftDelete(r.Context(), serviceID); err != nil {
		h.handleServiceError(w, err, "delete service")
		return
	}

	utils.ResponseSuccess(w, "Service deactivated", nil)
}

// handleServiceError maps catalog usecase errors to HTTP responses
func (h *ServiceHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "not found"):
		h.log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, errMsg)

	case strings.Contains(errMsg, "validation failed"):
		h.log.Warn(operation+" validation failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	default:
		h.log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
