package store

import (
	"context"
	"errors"
	"time"

	"arden/api_monitor/pkg/models"
)

var (
	// ErrNotFound is returned when a referenced agent has never been provisioned.
	ErrNotFound = errors.New("not found")
)

// MetricsUpdate carries a partial metrics report. Nil fields leave the
// stored value untouched.
type MetricsUpdate struct {
	CPU         *float64
	RAM         *float64
	DiskFreePct *float64
}

// Directory is the persistence contract for sites, nodes and recipients.
//
// The mutating operations are atomicity-scoped per node: UpsertHeartbeat
// commits provisioning and the liveness reset as one unit, and MarkOffline /
// ClaimDiskAlert are compare-and-set transitions whose guard and write are a
// single operation, so two concurrent sweeps can never both win the same
// transition.
type Directory interface {
	// FindOrCreateSite resolves a site by name, creating it (plus its default
	// recipient) on first reference. The returned bool reports creation.
	FindOrCreateSite(ctx context.Context, name, defaultRecipient string) (models.Site, bool, error)

	// UpsertHeartbeat provisions the node on first contact and unconditionally
	// sets status=green and last_seen=now. The returned bool reports creation.
	// The node's site binding is immutable after creation.
	UpsertHeartbeat(ctx context.Context, agentID, nodeName, siteID string, now time.Time) (models.Node, bool, error)

	// FindNode returns the node for an agent, or ErrNotFound.
	FindNode(ctx context.Context, agentID string) (*models.Node, error)

	// UpdateNodeMetrics overwrites the supplied metric fields and stamps
	// metrics_at. Returns ErrNotFound when the agent was never provisioned;
	// metric reports never auto-provision.
	UpdateNodeMetrics(ctx context.Context, agentID string, m MetricsUpdate, now time.Time) error

	// ListNodes returns all nodes, optionally filtered to one site name.
	ListNodes(ctx context.Context, siteName string) ([]models.Node, error)

	// ListSites returns all sites with node counts.
	ListSites(ctx context.Context) ([]models.SiteSummary, error)

	// ListRecipients returns the live alert audience for a site.
	ListRecipients(ctx context.Context, siteID string) ([]models.Recipient, error)

	// MarkOffline flips the node to offline unless it already is or has
	// heartbeated after seenBefore. The liveness re-check rides in the same
	// guard as the status check, so a heartbeat landing between the sweep's
	// read and this write keeps the node green. Returns true when this call
	// won the transition.
	MarkOffline(ctx context.Context, agentID string, seenBefore, now time.Time) (bool, error)

	// ClaimDiskAlert stamps last_disk_alert_at=now unless an alert was
	// already claimed within minInterval. Returns true when this call won
	// the claim.
	ClaimDiskAlert(ctx context.Context, agentID string, now time.Time, minInterval time.Duration) (bool, error)
}
