package email

import (
	"context"
	"testing"
)

func TestSendMail_EmptyRecipients(t *testing.T) {
	s := NewSender(Config{Host: "localhost", Port: "25", From: "alerts@arden.ai"})
	if err := s.SendMail(context.Background(), nil, "subject", "body"); err != nil {
		t.Fatalf("empty recipient list should be a no-op, got %v", err)
	}
}

func TestSendMail_Unconfigured(t *testing.T) {
	s := NewSender(Config{From: "alerts@arden.ai"})
	if s.Configured() {
		t.Fatalf("expected unconfigured sender")
	}
	if err := s.SendMail(context.Background(), []string{"ops@arden.ai"}, "s", "b"); err == nil {
		t.Fatalf("expected error when smtp host missing")
	}
}

func TestSanitizeHeader(t *testing.T) {
	if got := sanitizeHeader("evil\r\nBcc: x@y"); got != "evilBcc: x@y" {
		t.Fatalf("unexpected sanitized header: %q", got)
	}
}
