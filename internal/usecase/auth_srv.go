package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"home-cleaning/internal/data/entity"
	"home-cleaning/internal/data/repository"
	"home-cleaning/internal/dto/request"
	"home-cleaning/internal/dto/response"
	"home-cleaning/pkg/utils"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

type AuthService interface {
	SendRegistrationOTP(ctx context.Context, req *request.SendOTPRequest) (*response.OTPSentResponse, error)
	VerifyOTPAndRegister(ctx context.Context, req *request.VerifyOTPAndRegisterRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	ForgotPassword(ctx context.Context, req *request.ForgotPasswordRequest) (*response.OTPSentResponse, error)
	ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) (string, error)
	Me(ctx context.Context, userID string) (*response.UserResponse, error)
}

type authService struct {
	repo   *repository.Repository
	config *utils.Config
	mail   Mailer
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	mail Mailer,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		mail:   mail,
		log:    log.With(zap.String("service", "auth")),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) SendRegistrationOTP(ctx context.Context, req *request.SendOTPRequest) (*response.OTPSentResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Send OTP validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	email := normalizeEmail(req.Email)

	// Registration must target a fresh email
	existingUser, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to check email")
	}
	if existingUser != nil {
		return nil, fmt.Errorf("user with this email already exists")
	}

	otp, err := s.issueOTP(ctx, email, entity.OTPPurposeRegistration)
	if err != nil {
		return nil, err
	}

	// The code is useless if it never arrives, so this path fails closed:
	// delivery failure rolls the record back
	if err := s.mail.SendRegistrationOTP(email, otp.Code); err != nil {
		s.log.Error("Failed to deliver registration OTP", zap.Error(err), zap.String("email", email))
		if delErr := s.repo.OTP.Delete(ctx, email, entity.OTPPurposeRegistration); delErr != nil {
			s.log.Error("Failed to roll back undelivered OTP", zap.Error(delErr), zap.String("email", email))
		}
		return nil, fmt.Errorf("failed to send verification email, please check your email address and try again")
	}

	s.log.Info("Registration OTP sent", zap.String("email", email))

	return &response.OTPSentResponse{
		Message: "OTP sent to your email. Please check your inbox.",
		Email:   email,
	}, nil
}

func (s *authService) VerifyOTPAndRegister(ctx context.Context, req *request.VerifyOTPAndRegisterRequest) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	email := normalizeEmail(req.Email)

	if err := s.consumeOTP(ctx, email, entity.OTPPurposeRegistration, req.OTP); err != nil {
		return nil, err
	}

	// Double check the account was not created while the OTP was live
	existingUser, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to check email")
	}
	if existingUser != nil {
		_ = s.repo.OTP.Delete(ctx, email, entity.OTPPurposeRegistration)
		return nil, fmt.Errorf("user already exists")
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to process password")
	}

	user := &entity.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: hashedPassword,
		Phone:        req.Phone,
		Role:         entity.RoleCustomer,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.log.Error("Failed to create user", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to create account")
	}

	// Single use: the record is gone once the account exists
	if err := s.repo.OTP.Delete(ctx, email, entity.OTPPurposeRegistration); err != nil {
		s.log.Warn("Failed to delete consumed OTP", zap.Error(err), zap.String("email", email))
	}

	token, err := utils.GenerateToken(user.ID.Hex(), string(user.Role), s.config.JWT.Secret, s.config.JWT.ExpiryHours)
	if err != nil {
		s.log.Error("Failed to generate token", zap.Error(err), zap.String("user_id", user.ID.Hex()))
		return nil, fmt.Errorf("failed to create session token")
	}

	// Welcome email is best effort
	go func(email, name string) {
		if err := s.mail.SendWelcome(email, name); err != nil {
			s.log.Warn("Failed to send welcome email", zap.Error(err), zap.String("email", email))
		}
	}(user.Email, user.Name)

	s.log.Info("User registered",
		zap.String("user_id", user.ID.Hex()),
		zap.String("email", user.Email))

	return &response.AuthResponse{
		Token:   token,
		User:    response.UserToResponse(user),
		Message: "Email verified and account created successfully!",
	}, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	email := normalizeEmail(req.Email)

	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to find user")
	}
	if user == nil {
		s.log.Warn("User not found for login", zap.String("email", email))
		return nil, fmt.Errorf("invalid email or password")
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid password", zap.String("user_id", user.ID.Hex()))
		return nil, fmt.Errorf("invalid email or password")
	}

	token, err := utils.GenerateToken(user.ID.Hex(), string(user.Role), s.config.JWT.Secret, s.config.JWT.ExpiryHours)
	if err != nil {
		s.log.Error("Failed to generate token", zap.Error(err), zap.String("user_id", user.ID.Hex()))
		return nil, fmt.Errorf("failed to create session token")
	}

	go func(email, name string) {
		loginTime := time.Now().Format("Monday, January 2, 2006 at 3:04:05 PM MST")
		if err := s.mail.SendLoginAlert(email, name, loginTime); err != nil {
			s.log.Warn("Failed to send login alert", zap.Error(err), zap.String("email", email))
		}
	}(user.Email, user.Name)

	s.log.Info("User logged in",
		zap.String("user_id", user.ID.Hex()),
		zap.String("email", user.Email))

	return &response.AuthResponse{
		Token: token,
		User:  response.UserToResponse(user),
	}, nil
}

func (s *authService) ForgotPassword(ctx context.Context, req *request.ForgotPasswordRequest) (*response.OTPSentResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Forgot password validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	email := normalizeEmail(req.Email)

	// The response shape never reveals whether the account exists
	success := &response.OTPSentResponse{
		Message: "If an account exists with this email, a password reset code has been sent.",
		Email:   email,
	}

	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to find user")
	}
	if user == nil {
		s.log.Info("Password reset requested for unknown email", zap.String("email", email))
		return success, nil
	}

	otp, err := s.issueOTP(ctx, email, entity.OTPPurposePasswordReset)
	if err != nil {
		return nil, err
	}

	if err := s.mail.SendPasswordResetOTP(email, user.Name, otp.Code); err != nil {
		s.log.Error("Failed to deliver password reset OTP", zap.Error(err), zap.String("email", email))
		if delErr := s.repo.OTP.Delete(ctx, email, entity.OTPPurposePasswordReset); delErr != nil {
			s.log.Error("Failed to roll back undelivered OTP", zap.Error(delErr), zap.String("email", email))
		}
		return nil, fmt.Errorf("failed to send verification email, please check your email address and try again")
	}

	s.log.Info("Password reset OTP sent", zap.String("email", email))
	return success, nil
}

func (s *authService) ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) (string, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Reset password validation failed", zap.Any("errors", errs))
		return "", fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	email := normalizeEmail(req.Email)

	if err := s.consumeOTP(ctx, email, entity.OTPPurposePasswordReset, req.OTP); err != nil {
		return "", err
	}

	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("email", email))
		return "", fmt.Errorf("failed to find user")
	}
	if user == nil {
		_ = s.repo.OTP.Delete(ctx, email, entity.OTPPurposePasswordReset)
		return "", fmt.Errorf("user not found")
	}

	// Reusing the current password is rejected, and the code is burned with
	// it: the user has to request a fresh OTP to try again
	if utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		_ = s.repo.OTP.Delete(ctx, email, entity.OTPPurposePasswordReset)
		return "", fmt.Errorf("new password must be different from your current password")
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return "", fmt.Errorf("failed to process password")
	}

	if err := s.repo.User.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		s.log.Error("Failed to update password", zap.Error(err), zap.String("user_id", user.ID.Hex()))
		return "", fmt.Errorf("failed to reset password")
	}

	if err := s.repo.OTP.Delete(ctx, email, entity.OTPPurposePasswordReset); err != nil {
		s.log.Warn("Failed to delete consumed OTP", zap.Error(err), zap.String("email", email))
	}

	s.log.Info("Password reset", zap.String("user_id", user.ID.Hex()))
	return "Password reset successfully. You can now log in with your new password.", nil
}

func (s *authService) Me(ctx context.Context, userID string) (*response.UserResponse, error) {
	objectID, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("user not found")
	}

	user, err := s.repo.User.FindByID(ctx, objectID)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to find user")
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

// ==================== HELPER METHODS ====================

// issueOTP replaces any live code for (email, purpose) with a fresh one
func (s *authService) issueOTP(ctx context.Context, email string, purpose entity.OTPPurpose) (*entity.OTP, error) {
	otp := &entity.OTP{
		Email:     email,
		Code:      utils.GenerateOTP(s.config.OTP.Length),
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(time.Duration(s.config.OTP.ExpiryMinutes) * time.Minute),
	}

	if err := s.repo.OTP.Replace(ctx, otp); err != nil {
		s.log.Error("Failed to save OTP", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to generate OTP")
	}

	return otp, nil
}

// consumeOTP runs the ordered verification gate for a submitted code and, on
// success, marks the record verified. The record itself is deleted by the
// caller once the purpose-specific side effect has happened.
func (s *authService) consumeOTP(ctx context.Context, email string, purpose entity.OTPPurpose, code string) error {
	otp, err := s.repo.OTP.Find(ctx, email, purpose)
	if err != nil {
		s.log.Error("Failed to find OTP", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("failed to verify OTP")
	}
	if otp == nil {
		return fmt.Errorf("OTP not found or expired, please request a new OTP")
	}

	if time.Now().After(otp.ExpiresAt) {
		_ = s.repo.OTP.Delete(ctx, email, purpose)
		return fmt.Errorf("OTP has expired, please request a new OTP")
	}

	if otp.Verified {
		return fmt.Errorf("this OTP has already been used, please request a new OTP")
	}

	maxAttempts := s.config.OTP.MaxAttempts
	if otp.Attempts >= maxAttempts {
		_ = s.repo.OTP.Delete(ctx, email, purpose)
		return fmt.Errorf("too many failed attempts, please request a new OTP")
	}

	if otp.Code != code {
		attempts, err := s.repo.OTP.IncrementAttempts(ctx, otp.ID)
		if err != nil {
			s.log.Error("Failed to record OTP attempt", zap.Error(err), zap.String("email", email))
			return fmt.Errorf("failed to verify OTP")
		}
		return fmt.Errorf("invalid OTP, %d attempts remaining", maxAttempts-attempts)
	}

	if err := s.repo.OTP.MarkVerified(ctx, otp.ID); err != nil {
		s.log.Error("Failed to mark OTP verified", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("failed to verify OTP")
	}

	return nil
}
