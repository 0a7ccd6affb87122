package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"geovista-api/config"
)

// EmailSender is the outbound mail surface the services depend on. A nil
// sender disables mail without changing any business outcome.
type EmailSender interface {
	SendVerificationEmail(email, name string) (string, error)
	SendPasswordResetEmail(email, name string) (string, error)
	SendWelcomeEmail(email, name string) error
	SendEditorInvitationEmail(email, name, placeName string) error
}

const verificationCodeTTL = 10 * time.Minute

// EmailService sends transactional mail over SMTP and keeps short-lived
// verification codes in memory.
type EmailService struct {
	config *config.Config
	dialer *gomail.Dialer
	log    *logrus.Logger

	verificationCodes map[string]VerificationCode
	mutex             sync.RWMutex
}

type VerificationCode struct {
	Code      string    `json:"code"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
}

func NewEmailService(cfg *config.Config, log *logrus.Logger) *EmailService {
	service := &EmailService{
		config:            cfg,
		dialer:            gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		log:               log,
		verificationCodes: make(map[string]VerificationCode),
	}

	go service.cleanupExpiredCodes()

	return service
}

// generateVerificationCode returns a random 6-digit code.
func (es *EmailService) generateVerificationCode() string {
	const digits = "0123456789"
	code := make([]byte, 6)
	for i := range code {
		num, _ := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		code[i] = digits[num.Int64()]
	}
	return string(code)
}

// issueCode reuses a still-valid unused code for the address or mints a new
// one, so repeated requests within the TTL do not invalidate earlier mails.
func (es *EmailService) issueCode(email string) string {
	es.mutex.Lock()
	defer es.mutex.Unlock()

	if existing, ok := es.verificationCodes[email]; ok && !existing.Used && time.Now().Before(existing.ExpiresAt) {
		return existing.Code
	}

	code := es.generateVerificationCode()
	es.verificationCodes[email] = VerificationCode{
		Code:      code,
		Email:     email,
		ExpiresAt: time.Now().Add(verificationCodeTTL),
	}
	return code
}

func (es *EmailService) send(to, subject, textBody, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", es.config.FromName, es.config.FromEmail))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", textBody)
	if htmlBody != "" {
		m.AddAlternative("text/html", htmlBody)
	}

	if err := es.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendVerificationEmail mails a registration code and returns it so the auth
// flow can persist or log it in development.
func (es *EmailService) SendVerificationEmail(email, name string) (string, error) {
	code := es.issueCode(email)

	textBody := fmt.Sprintf(`Hello %s!

Welcome to GeoVista! Please verify your email address to complete your registration.

Your verification code is: %s

This code will expire in 10 minutes.

If you didn't create a GeoVista account, please ignore this email.

The GeoVista Team`, name, code)

	htmlBody := fmt.Sprintf(`
<div style="max-width:600px;margin:0 auto;font-family:Arial,sans-serif;color:#333;">
  <h2>Hello %s!</h2>
  <p>Welcome to GeoVista! Please verify your email address to complete your registration.</p>
  <div style="background:#e9ecef;padding:20px;text-align:center;border-radius:8px;">
    <p><strong>Your verification code is:</strong></p>
    <div style="font-size:32px;font-weight:bold;letter-spacing:8px;">%s</div>
    <p><small>This code will expire in 10 minutes.</small></p>
  </div>
  <p>If you didn't create a GeoVista account, please ignore this email.</p>
  <p><strong>The GeoVista Team</strong></p>
</div>`, name, code)

	if err := es.send(email, "GeoVista - Email Verification", textBody, htmlBody); err != nil {
		return "", err
	}
	es.log.WithField("email", email).Info("verification email sent")
	return code, nil
}

// SendPasswordResetEmail mails a password reset code.
func (es *EmailService) SendPasswordResetEmail(email, name string) (string, error) {
	code := es.issueCode(email)

	textBody := fmt.Sprintf(`Hi %s,

We received a request to reset your GeoVista password.

Your verification code is: %s

This code will expire in 10 minutes.

If you didn't request a password reset, please ignore this email. Your password will remain unchanged.

The GeoVista Team`, name, code)

	htmlBody := fmt.Sprintf(`
<div style="max-width:600px;margin:0 auto;font-family:Arial,sans-serif;color:#333;">
  <h2>Password Reset Request</h2>
  <p>Hi %s,</p>
  <p>We received a request to reset your GeoVista password.</p>
  <div style="background:#e9ecef;padding:20px;text-align:center;border-radius:8px;">
    <p><strong>Your verification code is:</strong></p>
    <div style="font-size:32px;font-weight:bold;letter-spacing:8px;">%s</div>
    <p><small>This code will expire in 10 minutes.</small></p>
  </div>
  <p>If you didn't request a password reset, please ignore this email.</p>
  <p><strong>The GeoVista Team</strong></p>
</div>`, name, code)

	if err := es.send(email, "Password Reset - GeoVista", textBody, htmlBody); err != nil {
		return "", err
	}
	es.log.WithField("email", email).Info("password reset email sent")
	return code, nil
}

// SendWelcomeEmail mails the post-verification welcome message.
func (es *EmailService) SendWelcomeEmail(email, name string) error {
	textBody := fmt.Sprintf(`Hello %s!

Your email has been verified and your GeoVista account is now active.

Start exploring: discover regions, check in at places, pin your favorites, and share places with fellow explorers.

The GeoVista Team`, name)

	htmlBody := fmt.Sprintf(`
<div style="max-width:600px;margin:0 auto;font-family:Arial,sans-serif;color:#333;">
  <h2>Welcome to GeoVista, %s!</h2>
  <p>Your email has been verified and your account is now active.</p>
  <p>Start exploring: discover regions, check in at places, pin your favorites, and share places with fellow explorers.</p>
  <p><strong>The GeoVista Team</strong></p>
</div>`, name)

	if err := es.send(email, "Welcome to GeoVista!", textBody, htmlBody); err != nil {
		return err
	}
	es.log.WithField("email", email).Info("welcome email sent")
	return nil
}

// SendEditorInvitationEmail notifies a user they were granted access to a
// shared place.
func (es *EmailService) SendEditorInvitationEmail(email, name, placeName string) error {
	textBody := fmt.Sprintf(`Hi %s,

You have been invited to collaborate on the place "%s" on GeoVista.

Open the app and accept the invitation to start editing.

The GeoVista Team`, name, placeName)

	htmlBody := fmt.Sprintf(`
<div style="max-width:600px;margin:0 auto;font-family:Arial,sans-serif;color:#333;">
  <h2>You've been invited!</h2>
  <p>Hi %s,</p>
  <p>You have been invited to collaborate on the place <strong>%s</strong> on GeoVista.</p>
  <p>Open the app and accept the invitation to start editing.</p>
  <p><strong>The GeoVista Team</strong></p>
</div>`, name, placeName)

	if err := es.send(email, "Place Invitation - GeoVista", textBody, htmlBody); err != nil {
		return err
	}
	es.log.WithFields(logrus.Fields{"email": email, "place": placeName}).Info("invitation email sent")
	return nil
}

// VerifyCode consumes a code. It is single-use; expired or mismatched codes
// report false.
func (es *EmailService) VerifyCode(email, inputCode string) bool {
	es.mutex.Lock()
	defer es.mutex.Unlock()

	stored, exists := es.verificationCodes[email]
	if !exists || stored.Used {
		return false
	}
	if time.Now().After(stored.ExpiresAt) {
		delete(es.verificationCodes, email)
		return false
	}
	if stored.Code != inputCode {
		return false
	}

	stored.Used = true
	es.verificationCodes[email] = stored
	return true
}

func (es *EmailService) cleanupExpiredCodes() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		es.mutex.Lock()
		now := time.Now()
		for email, code := range es.verificationCodes {
			if now.After(code.ExpiresAt) || code.Used {
				delete(es.verificationCodes, email)
			}
		}
		es.mutex.Unlock()
	}
}
