package service

import (
	"fmt"
	"net/url"

	"github.com/sniperthink/identity-service/internal/core/ports"
)

func verificationMail(to, verifyURL, token string) ports.Mail {
	link := verifyURL + "?token=" + url.QueryEscape(token)
	return ports.Mail{
		To:      to,
		Subject: "Verify Your Email Address",
		HTMLBody: fmt.Sprintf(`<h1>Welcome!</h1>
<p>Thanks for signing up. Please click the link below to verify your email address:</p>
<a href="%s">Verify Email</a>
<p>If you did not create an account, you can safely ignore this email.</p>`, link),
	}
}

func passwordResetMail(to, resetURL, token string) ports.Mail {
	link := resetURL + "?token=" + url.QueryEscape(token)
	return ports.Mail{
		To:      to,
		Subject: "Reset Your Password",
		HTMLBody: fmt.Sprintf(`<h1>Password Reset Request</h1>
<p>You requested a password reset. Click the link below to set a new password:</p>
<a href="%s">Reset Password</a>
<p>If you did not request a password reset, please ignore this email.</p>`, link),
	}
}
