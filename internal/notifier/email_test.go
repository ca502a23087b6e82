package notifier

import (
	"context"
	"testing"

	"arden/api_monitor/pkg/email"
	"arden/api_monitor/pkg/logging"
)

func TestNotify_AbsorbsTransportFailure(t *testing.T) {
	// Unconfigured sender fails every delivery; Notify must swallow it.
	n := NewEmail(email.NewSender(email.Config{}), logging.NewLogger())
	n.Notify(context.Background(), []string{"ops@arden.ai"}, "subject", "body")
}

func TestNotify_EmptyRecipientsSkipsDelivery(t *testing.T) {
	n := NewEmail(email.NewSender(email.Config{}), logging.NewLogger())
	n.Notify(context.Background(), nil, "subject", "body")
}
