package mailer

import (
	"fmt"
	"sync"

	"home-cleaning/pkg/utils"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type mailerState int

const (
	stateUninitialized mailerState = iota
	stateVerifying
	stateReady
	stateFailed
)

// Mailer sends notification emails over SMTP. The dialer is verified lazily
// on first send; a failed transport is re-verified on the next send instead
// of staying dead for the life of the process.
type Mailer struct {
	config utils.EmailConfig
	log    *zap.Logger

	mu     sync.Mutex
	state  mailerState
	dialer *gomail.Dialer
}

func NewMailer(config utils.EmailConfig, log *zap.Logger) *Mailer {
	return &Mailer{
		config: config,
		log:    log.With(zap.String("client", "mailer")),
	}
}

func (m *Mailer) ensureReady() (*gomail.Dialer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == stateReady {
		return m.dialer, nil
	}

	m.state = stateVerifying

	if m.config.Host == "" || m.config.User == "" || m.config.Password == "" {
		m.state = stateFailed
		return nil, fmt.Errorf("smtp transport not configured")
	}

	dialer := gomail.NewDialer(m.config.Host, m.config.Port, m.config.User, m.config.Password)
	dialer.SSL = m.config.Secure

	// Verify the transport by opening and closing a connection
	closer, err := dialer.Dial()
	if err != nil {
		m.state = stateFailed
		m.log.Error("SMTP transport verification failed",
			zap.Error(err),
			zap.String("host", m.config.Host),
			zap.Int("port", m.config.Port),
			zap.String("provider", m.config.Provider),
		)
		return nil, fmt.Errorf("verify smtp transport: %w", err)
	}
	_ = closer.Close()

	m.dialer = dialer
	m.state = stateReady

	m.log.Info("SMTP transport ready",
		zap.String("host", m.config.Host),
		zap.Int("port", m.config.Port),
		zap.String("provider", m.config.Provider),
	)

	return m.dialer, nil
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	dialer, err := m.ensureReady()
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.config.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := dialer.DialAndSend(msg); err != nil {
		// Force a reverify on the next send
		m.mu.Lock()
		m.state = stateFailed
		m.mu.Unlock()
		return fmt.Errorf("send email to %s: %w", to, err)
	}

	return nil
}

// SendRegistrationOTP delivers a registration verification code. Failures are
// returned to the caller: an undeliverable code is unusable, so the OTP send
// path must fail closed.
func (m *Mailer) SendRegistrationOTP(to, code string) error {
	return m.send(to, "Email Verification OTP", registrationOTPBody(code))
}

// SendPasswordResetOTP delivers a password reset code
func (m *Mailer) SendPasswordResetOTP(to, name, code string) error {
	return m.send(to, "Password Reset Code", passwordResetOTPBody(name, code))
}

// SendWelcome sends the post-registration welcome email
func (m *Mailer) SendWelcome(to, name string) error {
	return m.send(to, "Welcome! Your account is ready", welcomeBody(name))
}

// SendLoginAlert notifies the account owner about a new login
func (m *Mailer) SendLoginAlert(to, name, loginTime string) error {
	return m.send(to, "Login Notification", loginAlertBody(name, loginTime))
}

// SendBookingConfirmation notifies a customer that a booking is paid and confirmed
func (m *Mailer) SendBookingConfirmation(to, name string, details BookingDetails) error {
	subject := fmt.Sprintf("Booking Confirmation - %s", details.ServiceName)
	return m.send(to, subject, bookingConfirmationBody(name, details))
}
