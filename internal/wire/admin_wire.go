package wire

import (
	"home-cleaning/internal/adaptor"
	"home-cleaning/pkg/middleware"
	"home-cleaning/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAdmin(
	r chi.Router,
	adminHandler *adaptor.AdminHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// Registered route by route so the /api/admin/services group keeps its
	// own subtree.
	admin := r.With(middleware.Auth(config.JWT, log), middleware.Admin(log))

	admin.Get("/api/admin/stats", adminHandler.GetStats)
	admin.Get("/api/admin/users", adminHandler.ListUsers)
	admin.Delete("/api/admin/users/{id}", adminHandler.DeleteUser)
}
