package email

import (
	"fmt"
)

// AccountEmailData carries the fields used by account lifecycle emails.
type AccountEmailData struct {
	FullName string
	Email    string
	Role     string
	AppName  string
	BaseURL  string
}

// BuildAccountCreatedEmail builds the notice sent when an administrator
// creates a new account. The recipient is expected to sign in and change
// the initial password.
func BuildAccountCreatedEmail(data AccountEmailData, initialPassword string) Message {
	appName := data.AppName
	if appName == "" {
		appName = "Konsel"
	}

	name := data.FullName
	if name == "" {
		name = data.Email
	}

	subject := fmt.Sprintf("Akun %s Anda telah dibuat", appName)

	textBody := fmt.Sprintf(`Halo %s,

Akun %s Anda telah dibuat dengan peran %s.

Email: %s
Kata sandi awal: %s

Silakan masuk di %s dan segera ganti kata sandi Anda.

Salam,
Tim %s`,
		name, appName, data.Role, data.Email, initialPassword, data.BaseURL, appName)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2563eb;">Halo %s,</h2>
    <p>Akun %s Anda telah dibuat dengan peran <strong>%s</strong>.</p>
    <p>Email: <strong>%s</strong><br>Kata sandi awal: <strong>%s</strong></p>
    <p style="text-align: center; margin: 30px 0;">
        <a href="%s" style="background-color: #2563eb; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Masuk Sekarang</a>
    </p>
    <p>Segera ganti kata sandi Anda setelah masuk.</p>
    <p>Salam,<br>Tim %s</p>
</body>
</html>`,
		name, appName, data.Role, data.Email, initialPassword, data.BaseURL, appName)

	return Message{
		To:       []string{data.Email},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}

// BuildConsultationResolvedEmail notifies a student that a counselor has
// closed their consultation thread.
func BuildConsultationResolvedEmail(data AccountEmailData, consultationTitle string) Message {
	appName := data.AppName
	if appName == "" {
		appName = "Konsel"
	}

	name := data.FullName
	if name == "" {
		name = data.Email
	}

	subject := fmt.Sprintf("Konsultasi \"%s\" telah selesai", consultationTitle)

	textBody := fmt.Sprintf(`Halo %s,

Konsultasi Anda "%s" telah ditandai selesai oleh guru BK.

Anda dapat membaca kembali percakapan di %s.

Salam,
Tim %s`,
		name, consultationTitle, data.BaseURL, appName)

	return Message{
		To:       []string{data.Email},
		Subject:  subject,
		TextBody: textBody,
	}
}
