package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"home-cleaning/internal/data/entity"
	"home-cleaning/internal/dto/request"
	"home-cleaning/pkg/utils"
)

func sendOTP(t *testing.T, env *testEnv, email string) string {
	t.Helper()
	_, err := env.service.Auth.SendRegistrationOTP(context.Background(), &request.SendOTPRequest{
		Email: email,
		Name:  "Test User",
	})
	if err != nil {
		t.Fatalf("SendRegistrationOTP: %v", err)
	}
	otp, err := env.otps.Find(context.Background(), email, entity.OTPPurposeRegistration)
	if err != nil || otp == nil {
		t.Fatalf("expected stored OTP for %s", email)
	}
	return otp.Code
}

func registerUser(t *testing.T, env *testEnv, email, password string) *entity.User {
	t.Helper()
	code := sendOTP(t, env, email)
	_, err := env.service.Auth.VerifyOTPAndRegister(context.Background(), &request.VerifyOTPAndRegisterRequest{
		Name:     "Test User",
		Email:    email,
		Password: password,
		OTP:      code,
	})
	if err != nil {
		t.Fatalf("VerifyOTPAndRegister: %v", err)
	}
	user, _ := env.users.FindByEmail(context.Background(), email)
	if user == nil {
		t.Fatalf("user %s not created", email)
	}
	return user
}

func TestRegistrationFlow(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	code := sendOTP(t, env, "a@x.com")
	if len(code) != 6 {
		t.Fatalf("expected 6 digit code, got %q", code)
	}

	resp, err := env.service.Auth.VerifyOTPAndRegister(ctx, &request.VerifyOTPAndRegisterRequest{
		Name:     "A",
		Email:    "a@x.com",
		Password: "secret1",
		Phone:    "+11234567890",
		OTP:      code,
	})
	if err != nil {
		t.Fatalf("VerifyOTPAndRegister: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a session token")
	}
	if resp.User.Role != entity.RoleCustomer {
		t.Fatalf("expected customer role, got %s", resp.User.Role)
	}

	claims, err := utils.ParseToken(resp.Token, testConfig().JWT.Secret)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Role != "customer" {
		t.Fatalf("token role = %s", claims.Role)
	}

	// The code is single use
	otp, _ := env.otps.Find(ctx, "a@x.com", entity.OTPPurposeRegistration)
	if otp != nil {
		t.Fatal("consumed OTP should be deleted")
	}
}

func TestSendOTPRejectsExistingEmail(t *testing.T) {
	env := newTestEnv()
	registerUser(t, env, "a@x.com", "secret1")

	_, err := env.service.Auth.SendRegistrationOTP(context.Background(), &request.SendOTPRequest{
		Email: "a@x.com",
		Name:  "A",
	})
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected already exists error, got %v", err)
	}
}

func TestSendOTPRollsBackOnDeliveryFailure(t *testing.T) {
	env := newTestEnv()
	env.mail.failSubjects["registration-otp"] = true

	_, err := env.service.Auth.SendRegistrationOTP(context.Background(), &request.SendOTPRequest{
		Email: "a@x.com",
		Name:  "A",
	})
	if err == nil || !strings.Contains(err.Error(), "failed to send verification email") {
		t.Fatalf("expected delivery error, got %v", err)
	}

	otp, _ := env.otps.Find(context.Background(), "a@x.com", entity.OTPPurposeRegistration)
	if otp != nil {
		t.Fatal("undelivered OTP should be rolled back")
	}
}

func TestResendInvalidatesPriorCode(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	first := sendOTP(t, env, "a@x.com")
	second := sendOTP(t, env, "a@x.com")
	if first == second {
		t.Skip("generated codes collided")
	}

	_, err := env.service.Auth.VerifyOTPAndRegister(ctx, &request.VerifyOTPAndRegisterRequest{
		Name:     "A",
		Email:    "a@x.com",
		Password: "secret1",
		OTP:      first,
	})
	if err == nil || !strings.Contains(err.Error(), "invalid OTP") {
		t.Fatalf("stale code should be rejected, got %v", err)
	}

	if _, err := env.service.Auth.VerifyOTPAndRegister(ctx, &request.VerifyOTPAndRegisterRequest{
		Name:     "A",
		Email:    "a@x.com",
		Password: "secret1",
		OTP:      second,
	}); err != nil {
		t.Fatalf("fresh code should work, got %v", err)
	}
}

func TestVerifyOTPAttemptLimit(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	code := sendOTP(t, env, "a@x.com")
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	req := &request.VerifyOTPAndRegisterRequest{
		Name:     "A",
		Email:    "a@x.com",
		Password: "secret1",
		OTP:      wrong,
	}

	for i := 1; i <= 5; i++ {
		_, err := env.service.Auth.VerifyOTPAndRegister(ctx, req)
		if err == nil {
			t.Fatalf("attempt %d should fail", i)
		}
		want := fmt.Sprintf("invalid OTP, %d attempts remaining", 5-i)
		if err.Error() != want {
			t.Fatalf("attempt %d: got %q, want %q", i, err.Error(), want)
		}
	}

	// Sixth attempt hits the cap and burns the record
	_, err := env.service.Auth.VerifyOTPAndRegister(ctx, req)
	if err == nil || !strings.Contains(err.Error(), "too many failed attempts") {
		t.Fatalf("expected lockout, got %v", err)
	}
	if otp, _ := env.otps.Find(ctx, "a@x.com", entity.OTPPurposeRegistration); otp != nil {
		t.Fatal("locked OTP should be deleted")
	}

	// Even the right code is useless now
	req.OTP = code
	_, err = env.service.Auth.VerifyOTPAndRegister(ctx, req)
	if err == nil || !strings.Contains(err.Error(), "not found or expired") {
		t.Fatalf("expected not-found after lockout, got %v", err)
	}
}

func TestVerifyOTPExpired(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	code := sendOTP(t, env, "a@x.com")
	key := otpKey{"a@x.com", entity.OTPPurposeRegistration}
	env.otps.mu.Lock()
	env.otps.m[key].ExpiresAt = time.Now().Add(-time.Minute)
	env.otps.mu.Unlock()

	_, err := env.service.Auth.VerifyOTPAndRegister(ctx, &request.VerifyOTPAndRegisterRequest{
		Name:     "A",
		Email:    "a@x.com",
		Password: "secret1",
		OTP:      code,
	})
	if err == nil || !strings.Contains(err.Error(), "has expired") {
		t.Fatalf("expected expiry error, got %v", err)
	}
	if otp, _ := env.otps.Find(ctx, "a@x.com", entity.OTPPurposeRegistration); otp != nil {
		t.Fatal("expired OTP should be deleted on touch")
	}
}

func TestVerifyOTPReplayRejected(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	code := sendOTP(t, env, "a@x.com")
	key := otpKey{"a@x.com", entity.OTPPurposeRegistration}
	env.otps.mu.Lock()
	env.otps.m[key].Verified = true
	env.otps.mu.Unlock()

	_, err := env.service.Auth.VerifyOTPAndRegister(ctx, &request.VerifyOTPAndRegisterRequest{
		Name:     "A",
		Email:    "a@x.com",
		Password: "secret1",
		OTP:      code,
	})
	if err == nil || !strings.Contains(err.Error(), "already been used") {
		t.Fatalf("expected already used error, got %v", err)
	}
	if user, _ := env.users.FindByEmail(ctx, "a@x.com"); user != nil {
		t.Fatal("replayed verification must not create a user")
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv()
	registerUser(t, env, "a@x.com", "secret1")

	resp, err := env.service.Auth.Login(context.Background(), &request.LoginRequest{
		Email:    "A@X.com",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token")
	}

	_, err = env.service.Auth.Login(context.Background(), &request.LoginRequest{
		Email:    "a@x.com",
		Password: "wrong",
	})
	if err == nil || err.Error() != "invalid email or password" {
		t.Fatalf("expected generic credential error, got %v", err)
	}

	_, err = env.service.Auth.Login(context.Background(), &request.LoginRequest{
		Email:    "nobody@x.com",
		Password: "secret1",
	})
	if err == nil || err.Error() != "invalid email or password" {
		t.Fatalf("unknown email should get the same error, got %v", err)
	}
}

func TestForgotPasswordDoesNotRevealAccounts(t *testing.T) {
	env := newTestEnv()
	registerUser(t, env, "a@x.com", "secret1")

	known, err := env.service.Auth.ForgotPassword(context.Background(), &request.ForgotPasswordRequest{Email: "a@x.com"})
	if err != nil {
		t.Fatalf("ForgotPassword known: %v", err)
	}
	unknown, err := env.service.Auth.ForgotPassword(context.Background(), &request.ForgotPasswordRequest{Email: "nobody@x.com"})
	if err != nil {
		t.Fatalf("ForgotPassword unknown: %v", err)
	}
	if known.Message != unknown.Message {
		t.Fatal("responses must not distinguish known from unknown emails")
	}

	// Only the real account got a code
	if otp, _ := env.otps.Find(context.Background(), "nobody@x.com", entity.OTPPurposePasswordReset); otp != nil {
		t.Fatal("no OTP should exist for unknown email")
	}
	if otp, _ := env.otps.Find(context.Background(), "a@x.com", entity.OTPPurposePasswordReset); otp == nil {
		t.Fatal("expected OTP for known email")
	}
}

func TestResetPassword(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	registerUser(t, env, "a@x.com", "secret1")

	if _, err := env.service.Auth.ForgotPassword(ctx, &request.ForgotPasswordRequest{Email: "a@x.com"}); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	otp, _ := env.otps.Find(ctx, "a@x.com", entity.OTPPurposePasswordReset)

	// Reusing the current password burns the code
	_, err := env.service.Auth.ResetPassword(ctx, &request.ResetPasswordRequest{
		Email:    "a@x.com",
		OTP:      otp.Code,
		Password: "secret1",
	})
	if err == nil || !strings.Contains(err.Error(), "must be different") {
		t.Fatalf("expected same-password rejection, got %v", err)
	}
	if o, _ := env.otps.Find(ctx, "a@x.com", entity.OTPPurposePasswordReset); o != nil {
		t.Fatal("code should be burned after same-password rejection")
	}

	// Fresh code, new password
	if _, err := env.service.Auth.ForgotPassword(ctx, &request.ForgotPasswordRequest{Email: "a@x.com"}); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	otp, _ = env.otps.Find(ctx, "a@x.com", entity.OTPPurposePasswordReset)

	if _, err := env.service.Auth.ResetPassword(ctx, &request.ResetPasswordRequest{
		Email:    "a@x.com",
		OTP:      otp.Code,
		Password: "secret2",
	}); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	if _, err := env.service.Auth.Login(ctx, &request.LoginRequest{Email: "a@x.com", Password: "secret2"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, err := env.service.Auth.Login(ctx, &request.LoginRequest{Email: "a@x.com", Password: "secret1"}); err == nil {
		t.Fatal("old password should no longer work")
	}
}

func TestMe(t *testing.T) {
	env := newTestEnv()
	user := registerUser(t, env, "a@x.com", "secret1")

	resp, err := env.service.Auth.Me(context.Background(), user.ID.Hex())
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if resp.Email != "a@x.com" {
		t.Fatalf("got email %s", resp.Email)
	}

	if _, err := env.service.Auth.Me(context.Background(), "not-a-hex-id"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("malformed id should read as not found, got %v", err)
	}
}
