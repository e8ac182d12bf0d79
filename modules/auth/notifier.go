package auth

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/dmitrymomot/authhub/pkg/email"
	"github.com/dmitrymomot/authhub/pkg/logger"
)

// notifyTimeout bounds each outbound email so a slow mail provider cannot
// hold a completed signup or verification hostage.
const notifyTimeout = 10 * time.Second

// Notifier sends the transactional emails of the auth flows. Every send is
// best effort: failures are logged and never propagated to the caller, so a
// mail outage cannot roll back a persisted signup.
type Notifier struct {
	sender email.EmailSender
	log    *slog.Logger
}

// NewNotifier creates a notifier on top of the given sender.
func NewNotifier(sender email.EmailSender, log *slog.Logger) *Notifier {
	if log == nil {
		log = slog.Default()
	}
	return &Notifier{sender: sender, log: log}
}

// SendOTP delivers the signup verification code.
func (n *Notifier) SendOTP(sendTo, username, otp string) {
	n.send(sendTo, email.SendEmailParams{
		SendTo:  sendTo,
		Subject: "Your verification code",
		BodyHTML: fmt.Sprintf(
			"<p>Hi %s,</p><p>Your verification code is <strong>%s</strong>. It expires in 10 minutes.</p>",
			html.EscapeString(username), html.EscapeString(otp),
		),
		Tag: "signup-otp",
	})
}

// SendWelcome delivers the post-verification welcome note.
func (n *Notifier) SendWelcome(sendTo, username string) {
	n.send(sendTo, email.SendEmailParams{
		SendTo:  sendTo,
		Subject: "Welcome aboard",
		BodyHTML: fmt.Sprintf(
			"<p>Hi %s,</p><p>Your account is ready. Welcome!</p>",
			html.EscapeString(username),
		),
		Tag: "welcome",
	})
}

// send dispatches asynchronously with its own deadline, detached from the
// request context so an already-answered request does not cancel the email.
func (n *Notifier) send(sendTo string, params email.SendEmailParams) {
	if n.sender == nil {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				n.log.Error("email notifier panicked",
					slog.Any("panic", r),
					logger.Email(sendTo),
				)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := n.sender.SendEmail(ctx, params); err != nil {
			n.log.Error("failed to send email",
				logger.Error(err),
				logger.Email(sendTo),
				slog.String("tag", params.Tag),
			)
		}
	}()
}
