package wire

import (
	"home-cleaning/internal/adaptor"
	"home-cleaning/pkg/middleware"
	"home-cleaning/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/api/auth/send-otp", authHandler.SendOTP)
	r.Post("/api/auth/verify-otp-and-register", authHandler.VerifyOTP)
	r.Post("/api/auth/login", authHandler.Login)
	r.Post("/api/auth/forgot-password", authHandler.ForgotPassword)
	r.Post("/api/auth/reset-password", authHandler.ResetPassword)

	// ==================== PROTECTED ROUTES ====================
	r.With(middleware.Auth(config.JWT, log)).Get("/api/auth/me", authHandler.Me)
}
