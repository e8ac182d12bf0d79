package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authhub/modules/auth"
	"github.com/dmitrymomot/authhub/pkg/email"
)

func TestNotifier(t *testing.T) {
	t.Parallel()

	t.Run("sends otp email with the code", func(t *testing.T) {
		t.Parallel()

		sender := &mockEmailSender{}
		sent := make(chan email.SendEmailParams, 1)
		sender.On("SendEmail", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			sent <- args.Get(1).(email.SendEmailParams)
		}).Return(nil)

		n := auth.NewNotifier(sender, nil)
		n.SendOTP("a@x.com", "alice", "123456")

		select {
		case params := <-sent:
			assert.Equal(t, "a@x.com", params.SendTo)
			assert.Contains(t, params.BodyHTML, "123456")
			assert.Equal(t, "signup-otp", params.Tag)
		case <-time.After(2 * time.Second):
			t.Fatal("otp email was not dispatched")
		}
	})

	t.Run("send failure is swallowed", func(t *testing.T) {
		t.Parallel()

		sender := &mockEmailSender{}
		done := make(chan struct{}, 1)
		sender.On("SendEmail", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
			done <- struct{}{}
		}).Return(assert.AnError)

		n := auth.NewNotifier(sender, nil)
		// Must not panic or block the caller.
		n.SendWelcome("a@x.com", "alice")

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("welcome email was not attempted")
		}
	})

	t.Run("nil sender is a no-op", func(t *testing.T) {
		t.Parallel()

		n := auth.NewNotifier(nil, nil)
		require.NotPanics(t, func() {
			n.SendOTP("a@x.com", "alice", "123456")
			n.SendWelcome("a@x.com", "alice")
		})
	})
}
