package models

import "time"

// NodeStatus is the liveness state of a monitored node.
type NodeStatus string

const (
	StatusUnknown NodeStatus = "unknown" // no heartbeat received yet
	StatusGreen   NodeStatus = "green"   // heartbeating within the offline threshold
	StatusOffline NodeStatus = "offline" // silent past the threshold, set only by the sweep
)

// Site groups nodes under one physical location
type Site struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Node represents one monitoring agent on a machine
type Node struct {
	ID          string     `json:"id" db:"id"`
	AgentID     string     `json:"agent_id" db:"agent_id"`
	SiteID      string     `json:"site_id" db:"site_id"`
	SiteName    string     `json:"site_name" db:"site_name"`
	NodeName    string     `json:"node_name" db:"node_name"`
	Status      NodeStatus `json:"status" db:"status"`
	LastSeen    *time.Time `json:"last_seen,omitempty" db:"last_seen"`
	CPUPct      *float64   `json:"cpu_pct,omitempty" db:"cpu_pct"`
	RAMPct      *float64   `json:"ram_pct,omitempty" db:"ram_pct"`
	DiskFreePct *float64   `json:"disk_free_pct,omitempty" db:"disk_free_pct"`
	MetricsAt   *time.Time `json:"metrics_at,omitempty" db:"metrics_at"`

	// Per-condition debounce state, maintained by the alert engine.
	LastOfflineAlertAt *time.Time `json:"last_offline_alert_at,omitempty" db:"last_offline_alert_at"`
	LastDiskAlertAt    *time.Time `json:"last_disk_alert_at,omitempty" db:"last_disk_alert_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Recipient is one alert email address belonging to a site
type Recipient struct {
	ID        string    `json:"id" db:"id"`
	SiteID    string    `json:"site_id" db:"site_id"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// HeartbeatRequest is a liveness report from an agent
type HeartbeatRequest struct {
	AgentID  string `json:"agent_id"`
	NodeName string `json:"node_name,omitempty"`
	SiteName string `json:"site_name"`
}

// HeartbeatResponse acknowledges a heartbeat
type HeartbeatResponse struct {
	OK   bool   `json:"ok"`
	Site string `json:"site"`
	Node string `json:"node"`
}

// MetricsRequest is a resource usage report from an agent. Absent fields
// leave the stored value untouched.
type MetricsRequest struct {
	AgentID     string   `json:"agent_id"`
	CPU         *float64 `json:"cpu,omitempty"`
	RAM         *float64 `json:"ram,omitempty"`
	DiskFreePct *float64 `json:"disk_free_pct,omitempty"`
}

// OKResponse is the generic success acknowledgement
type OKResponse struct {
	OK bool `json:"ok"`
}

// SiteSummary is a site with its node count for the read API
type SiteSummary struct {
	Site
	NodeCount int `json:"node_count"`
}
