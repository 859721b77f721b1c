package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/lexxo/lexxo-backend/pkg/logger"
)

// Mailer delivers transactional mail over SMTP. When no credentials are
// configured it runs in dev mode and only logs the message.
type Mailer struct {
	Host     string
	Port     string
	Email    string
	Password string
}

func New(host, port, email, password string) *Mailer {
	return &Mailer{Host: host, Port: port, Email: email, Password: password}
}

// Send delivers an HTML email to a single recipient
func (m *Mailer) Send(to, subject, body string) error {
	if m.Email == "" || m.Password == "" {
		logger.Info("[DEV MODE] Email not sent, SMTP not configured", map[string]interface{}{
			"to":      to,
			"subject": subject,
		})
		return nil
	}

	message := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		m.Email, to, subject, body,
	))

	auth := smtp.PlainAuth("", m.Email, m.Password, m.Host)

	if err := smtp.SendMail(m.Host+":"+m.Port, auth, m.Email, []string{to}, message); err != nil {
		logger.Error("Failed to send email", err, map[string]interface{}{
			"to": to,
		})
		return fmt.Errorf("failed to send email: %w", err)
	}

	logger.Info("Email sent", map[string]interface{}{
		"to":      to,
		"subject": subject,
	})
	return nil
}

// SendOTP delivers a verification code email. The same template serves both
// email verification and password reset.
func (m *Mailer) SendOTP(to, subject, otp string) error {
	if m.Email == "" || m.Password == "" {
		logger.Info("[DEV MODE] Verification code", map[string]interface{}{
			"to":   to,
			"code": otp,
		})
		return nil
	}
	return m.Send(to, subject, OTPEmailBody(otp))
}

// OTPEmailBody renders the HTML body for a verification code email
func OTPEmailBody(otp string) string {
	return fmt.Sprintf(`
<html>
<body style="font-family: Arial, sans-serif; padding: 20px; background-color: #f4f6f9;">
	<div style="max-width: 400px; margin: 50px auto; background-color: white; padding: 20px; border-radius: 8px; box-shadow: 0 4px 8px rgba(0,0,0,0.1);">
		<div style="background-color: #0056d2; color: #ffffff; text-align: center; padding: 20px;">
			<h1 style="margin: 0; font-size: 24px;">Verification Code</h1>
		</div>
		<div style="padding: 20px; text-align: center;">
			<p style="color: #555; font-size: 16px;">Dear User,</p>
			<p style="color: #555; font-size: 16px;">Your OTP for verification is:</p>
			<p style="font-size: 20px; font-weight: bold; color: #0056d2; margin: 20px 0;">%s</p>
			<p style="color: #555; font-size: 16px;">Please use this OTP to complete your verification process. The code will expire in <strong>10 minutes</strong>.</p>
			<p style="color: #555; font-size: 16px;">If you did not request this OTP, please ignore this email.</p>
		</div>
		<div style="text-align: center; font-size: 12px; color: #888; padding: 15px; border-top: 1px solid #eaeaea;">
			<p>Best regards,<br><strong>Lexxo</strong></p>
		</div>
	</div>
</body>
</html>
`, otp)
}
