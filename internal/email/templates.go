package email

import (
	"fmt"
	"html"
	"net/url"
)

const appName = "Career Guidance Platform"

// Link joins the front-end base URL, a path and a token query parameter.
func Link(baseURL, path, token string) string {
	return fmt.Sprintf("%s%s?token=%s", baseURL, path, url.QueryEscape(token))
}

// VerificationMessage asks the user to confirm their address.
func VerificationMessage(to, name, link string) Message {
	return Message{
		To:      to,
		ToName:  name,
		Subject: "Verify your email address",
		Text: fmt.Sprintf("Hello %s,\n\nThanks for registering with the %s. Confirm your email address by opening the link below:\n\n%s\n\nThe link expires in 24 hours. If you did not create an account, ignore this email.\n",
			name, appName, link),
		HTML: layout("Verify your email address", fmt.Sprintf(
			`<p>Hello %s,</p><p>Thanks for registering with the %s. Confirm your email address to activate your account.</p>%s<p>The link expires in 24 hours. If you did not create an account, ignore this email.</p>`,
			html.EscapeString(name), appName, button(link, "Verify email"))),
	}
}

// WelcomeMessage greets a newly verified user.
func WelcomeMessage(to, name, loginURL string) Message {
	return Message{
		To:      to,
		ToName:  name,
		Subject: "Welcome to the " + appName,
		Text: fmt.Sprintf("Hello %s,\n\nYour email address is verified and your account is ready. Sign in at %s\n",
			name, loginURL),
		HTML: layout("Welcome aboard", fmt.Sprintf(
			`<p>Hello %s,</p><p>Your email address is verified and your account is ready.</p>%s`,
			html.EscapeString(name), button(loginURL, "Sign in"))),
	}
}

// PasswordResetMessage carries a one-time reset link.
func PasswordResetMessage(to, name, link string) Message {
	return Message{
		To:      to,
		ToName:  name,
		Subject: "Reset your password",
		Text: fmt.Sprintf("Hello %s,\n\nWe received a request to reset your password. Choose a new one here:\n\n%s\n\nThe link expires in 1 hour. If you did not ask for a reset, ignore this email.\n",
			name, link),
		HTML: layout("Reset your password", fmt.Sprintf(
			`<p>Hello %s,</p><p>We received a request to reset your password.</p>%s<p>The link expires in 1 hour. If you did not ask for a reset, ignore this email.</p>`,
			html.EscapeString(name), button(link, "Reset password"))),
	}
}

func button(href, label string) string {
	return fmt.Sprintf(`<p><a href="%s" style="background:#2563eb;color:#fff;padding:10px 18px;border-radius:4px;text-decoration:none">%s</a></p><p style="font-size:12px;color:#555">%s</p>`,
		html.EscapeString(href), label, html.EscapeString(href))
}

func layout(title, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html><html><body style="font-family:Arial,sans-serif;color:#222"><h2>%s</h2>%s<hr><p style="font-size:12px;color:#888">%s</p></body></html>`,
		title, body, appName)
}
