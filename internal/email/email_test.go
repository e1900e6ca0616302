package email

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerhub/career-api/internal/config"
)

func TestLink(t *testing.T) {
	assert.Equal(t, "http://localhost:3000/verify-email?token=a%2Bb", Link("http://localhost:3000", "/verify-email", "a+b"))
}

func TestVerificationMessageEscapesName(t *testing.T) {
	msg := VerificationMessage("alice@example.com", "<Alice>", "http://x/verify-email?token=t")
	assert.Contains(t, msg.Text, "http://x/verify-email?token=t")
	assert.Contains(t, msg.HTML, "&lt;Alice&gt;")
	assert.NotContains(t, msg.HTML, "<Alice>")
}

func TestSMTPMailerDisabled(t *testing.T) {
	m := NewSMTPMailer(config.MailConfig{})
	assert.False(t, m.Enabled())
	assert.ErrorIs(t, m.Send(context.Background(), Message{To: "a@example.com"}), ErrDisabled)
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	require.NoError(t, r.Send(context.Background(), Message{To: "a@example.com", Subject: "one"}))
	require.NoError(t, r.Send(context.Background(), Message{To: "a@example.com", Subject: "two"}))

	last, ok := r.Last("a@example.com")
	require.True(t, ok)
	assert.Equal(t, "two", last.Subject)
	assert.Len(t, r.Messages(), 2)

	_, ok = r.Last("b@example.com")
	assert.False(t, ok)
}
