package wire

import (
	"home-cleaning/internal/adaptor"
	"home-cleaning/pkg/middleware"
	"home-cleaning/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireService(
	r chi.Router,
	serviceHandler *adaptor.ServiceHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// Anyone can browse the active catalog
	r.Get("/api/services", serviceHandler.ListServices)
	r.Get("/api/services/{id}", serviceHandler.GetService)

	// ==================== ADMIN ROUTES ====================
	admin := r.With(middleware.Auth(config.JWT, log), middleware.Admin(log))

	admin.Post("/api/services", serviceHandler.CreateService)
	admin.Put("/api/services/{id}", serviceHandler.UpdateService)
	admin.Delete("/api/services/{id}", serviceHandler.DeleteService)

	// Full catalog including deactivated services
	admin.Get("/api/admin/services", serviceHandler.ListAllServices)
}
