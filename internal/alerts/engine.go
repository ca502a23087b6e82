package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"arden/api_monitor/internal/store"
	"arden/api_monitor/pkg/logging"
	"arden/api_monitor/pkg/models"
)

// Alert conditions evaluated by the sweep.
const (
	ConditionOffline = "offline"
	ConditionLowDisk = "low_disk"
)

// Notifier delivers an alert to a set of addresses. Implementations are
// best-effort and must absorb transport failures.
type Notifier interface {
	Notify(ctx context.Context, recipients []string, subject, body string)
}

// Config holds the alerting thresholds.
type Config struct {
	// OfflineAfter is the maximum heartbeat silence before a node is
	// considered offline.
	OfflineAfter time.Duration
	// DiskFloorPct is the disk-free percentage below which a low-disk
	// alert fires.
	DiskFloorPct float64
	// DiskRealertEvery is the minimum interval between low-disk alerts for
	// the same node while the condition persists.
	DiskRealertEvery time.Duration
}

// DefaultConfig returns the default alerting thresholds.
func DefaultConfig() Config {
	return Config{
		OfflineAfter:     90 * time.Second,
		DiskFloorPct:     15,
		DiskRealertEvery: time.Hour,
	}
}

// Engine evaluates node health on each sweep and triggers notifications.
//
// The offline condition is latched by the status state machine itself: the
// store's MarkOffline only succeeds while the node is not already offline,
// and only a heartbeat resets it to green. The low-disk condition has no
// status latch, so it is debounced through the stored last-disk-alert
// timestamp via ClaimDiskAlert.
type Engine struct {
	store  store.Directory
	notify Notifier
	cfg    Config
	log    logging.Logger
	now    func() time.Time

	sweepsTotal prometheus.Counter
	alertsSent  *prometheus.CounterVec
}

func NewEngine(dir store.Directory, notify Notifier, cfg Config, logger logging.Logger) *Engine {
	return &Engine{
		store:  dir,
		notify: notify,
		cfg:    cfg,
		log:    logger,
		now:    time.Now,
	}
}

// WithMetrics wires Prometheus counters into the engine. Both may be nil.
func (e *Engine) WithMetrics(sweepsTotal prometheus.Counter, alertsSent *prometheus.CounterVec) *Engine {
	e.sweepsTotal = sweepsTotal
	e.alertsSent = alertsSent
	return e
}

// Start runs a sweep on a fixed interval until ctx is cancelled. One sweep
// runs immediately.
func (e *Engine) Start(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		e.Sweep(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				e.Sweep(ctx)
			}
		}
	}()
}

// Sweep evaluates every node once. Store failures for one node never stop
// the pass, and notification failures never roll back a committed
// transition; the next scheduled sweep simply runs again.
func (e *Engine) Sweep(ctx context.Context) {
	now := e.now().UTC()
	if e.sweepsTotal != nil {
		e.sweepsTotal.Inc()
	}

	nodes, err := e.store.ListNodes(ctx, "")
	if err != nil {
		e.log.WithError(err).Error("Sweep failed to list nodes")
		return
	}

	for _, node := range nodes {
		if node.LastSeen == nil {
			// Never heartbeated; nothing to evaluate.
			continue
		}
		e.evalOffline(ctx, node, now)
		e.evalLowDisk(ctx, node, now)
	}
}

func (e *Engine) evalOffline(ctx context.Context, node models.Node, now time.Time) {
	elapsed := now.Sub(node.LastSeen.UTC())
	if elapsed <= e.cfg.OfflineAfter || node.Status == models.StatusOffline {
		return
	}

	flipped, err := e.store.MarkOffline(ctx, node.AgentID, now.Add(-e.cfg.OfflineAfter), now)
	if err != nil {
		e.log.WithError(err).WithField("agent_id", node.AgentID).Error("Failed to mark node offline")
		return
	}
	if !flipped {
		// Either a concurrent sweep won the transition and alerted, or a
		// heartbeat landed after our read and the node is still live.
		return
	}

	e.log.WithFields(logging.Fields{
		"agent_id": node.AgentID,
		"node":     node.NodeName,
		"site":     node.SiteName,
		"elapsed":  elapsed.Truncate(time.Second).String(),
	}).Warn("Node went offline")

	subject := fmt.Sprintf("[%s] node %s is OFFLINE", node.SiteName, node.NodeName)
	body := fmt.Sprintf(
		"Node %s (site %s) has not reported for %s.\nLast seen: %s\nSweep time: %s\n",
		node.NodeName, node.SiteName, elapsed.Truncate(time.Second),
		node.LastSeen.UTC().Format(time.RFC3339), now.Format(time.RFC3339),
	)
	e.dispatch(ctx, node, ConditionOffline, subject, body)
}

func (e *Engine) evalLowDisk(ctx context.Context, node models.Node, now time.Time) {
	if node.DiskFreePct == nil || *node.DiskFreePct >= e.cfg.DiskFloorPct {
		return
	}

	claimed, err := e.store.ClaimDiskAlert(ctx, node.AgentID, now, e.cfg.DiskRealertEvery)
	if err != nil {
		e.log.WithError(err).WithField("agent_id", node.AgentID).Error("Failed to claim disk alert")
		return
	}
	if !claimed {
		// Alerted within the re-alert window already.
		return
	}

	e.log.WithFields(logging.Fields{
		"agent_id":      node.AgentID,
		"node":          node.NodeName,
		"site":          node.SiteName,
		"disk_free_pct": *node.DiskFreePct,
	}).Warn("Node disk space low")

	subject := fmt.Sprintf("[%s] node %s LOW DISK (%.1f%% free)", node.SiteName, node.NodeName, *node.DiskFreePct)
	body := fmt.Sprintf(
		"Node %s (site %s) reports %.1f%% disk free, below the %.1f%% floor.\nSweep time: %s\n",
		node.NodeName, node.SiteName, *node.DiskFreePct, e.cfg.DiskFloorPct,
		now.Format(time.RFC3339),
	)
	e.dispatch(ctx, node, ConditionLowDisk, subject, body)
}

// dispatch reads the live recipient set and hands the alert to the notifier.
// The state transition is already committed; everything here is best-effort.
func (e *Engine) dispatch(ctx context.Context, node models.Node, condition, subject, body string) {
	recipients, err := e.store.ListRecipients(ctx, node.SiteID)
	if err != nil {
		e.log.WithError(err).WithField("site_id", node.SiteID).Warn("Failed to load alert recipients")
		return
	}

	addresses := make([]string, 0, len(recipients))
	for _, r := range recipients {
		addresses = append(addresses, r.Email)
	}

	e.notify.Notify(ctx, addresses, subject, body)
	if e.alertsSent != nil {
		e.alertsSent.WithLabelValues(condition).Inc()
	}
}
