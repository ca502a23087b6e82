package notifier

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"arden/api_monitor/pkg/email"
	"arden/api_monitor/pkg/logging"
)

// Email delivers alerts over SMTP. Delivery is best-effort: failures are
// logged and counted, never returned, so a broken mail relay can't stall or
// fail a sweep.
type Email struct {
	sender   *email.Sender
	log      logging.Logger
	failures prometheus.Counter
}

func NewEmail(sender *email.Sender, logger logging.Logger) *Email {
	return &Email{sender: sender, log: logger}
}

// WithFailureCounter wires a Prometheus counter for dropped alerts. May be nil.
func (n *Email) WithFailureCounter(failures prometheus.Counter) *Email {
	n.failures = failures
	return n
}

// Configured reports whether an SMTP transport is available.
func (n *Email) Configured() bool {
	return n.sender.Configured()
}

func (n *Email) Notify(ctx context.Context, recipients []string, subject, body string) {
	if len(recipients) == 0 {
		n.log.WithField("subject", subject).Debug("No recipients for alert; skipping delivery")
		return
	}

	if err := n.sender.SendMail(ctx, recipients, subject, body); err != nil {
		if n.failures != nil {
			n.failures.Inc()
		}
		n.log.WithError(err).WithFields(logging.Fields{
			"subject":    subject,
			"recipients": len(recipients),
		}).Warn("Alert delivery failed")
	}
}
