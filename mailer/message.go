// file: mailer/message.go

package mailer

import (
	"fmt"
	"go-blog-api/config"
	"go-blog-api/model"
	"html"
	"net/url"
	"time"

	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const emailHTML = `<!DOCTYPE html>
<html>
  <body style="font-family: Arial, sans-serif; color: #333;">
    <h2>%s</h2>
    <p>Hi %s,</p>
    <p>%s</p>
    <p><a href="%s" style="display:inline-block;padding:10px 16px;background:#2d6cdf;color:#fff;text-decoration:none;border-radius:4px;">%s</a></p>
    <p style="font-size:12px;color:#888;">If you did not request this, you can ignore this email.</p>
    <p style="font-size:12px;color:#888;">&copy; %d Blog API</p>
  </body>
</html>`

type mailTemplate struct {
	subject string
	path    string
	intro   string
	action  string
}

var templates = map[model.MailKind]mailTemplate{
	model.MailVerify: {
		subject: "Confirm your email address",
		path:    "/api/auth/verify",
		intro:   "Thanks for signing up. Confirm your email address to activate your account.",
		action:  "Verify email",
	},
	model.MailPasswordReset: {
		subject: "Reset your password",
		path:    "/api/auth/password-reset",
		intro:   "We received a request to reset your password. The link expires soon and works once.",
		action:  "Reset password",
	},
}

// Link returns the URL a recipient follows to redeem the task's token.
func Link(baseURL string, task model.MailTask) (string, error) {
	tpl, ok := templates[task.Kind]
	if !ok {
		return "", fmt.Errorf("unknown mail kind %q", task.Kind)
	}
	return baseURL + tpl.path + "?token=" + url.QueryEscape(task.Token), nil
}

// Compose renders task into a SendGrid message.
func Compose(cfg config.MailConfig, task model.MailTask) (*mail.SGMailV3, error) {
	tpl, ok := templates[task.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown mail kind %q", task.Kind)
	}
	link, err := Link(cfg.PublicBaseURL, task)
	if err != nil {
		return nil, err
	}

	from := mail.NewEmail(cfg.FromName, cfg.FromAddress)
	to := mail.NewEmail(task.Username, task.Recipient)
	plain := fmt.Sprintf("Hi %s,\n\n%s\n\n%s\n", task.Username, tpl.intro, link)
	htmlBody := fmt.Sprintf(emailHTML, tpl.subject, html.EscapeString(task.Username), tpl.intro,
		html.EscapeString(link), tpl.action, time.Now().Year())

	message := mail.NewSingleEmail(from, tpl.subject, to, plain, htmlBody)
	if cfg.SandboxMode {
		ms := mail.NewMailSettings()
		ms.SetSandboxMode(mail.NewSetting(true))
		message.MailSettings = ms
	}
	return message, nil
}
