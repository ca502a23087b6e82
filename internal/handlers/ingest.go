package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"arden/api_monitor/internal/store"
	"arden/api_monitor/pkg/logging"
	"arden/api_monitor/pkg/models"
)

// PostHeartbeat ingests a liveness report. First contact auto-provisions the
// site (with its default recipient) and the node; identity provisioning
// happens only here, never via metrics.
func PostHeartbeat(c *gin.Context) {
	var req models.HeartbeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.AgentID == "" || req.SiteName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "agent_id and site_name are required"})
		return
	}

	ctx := c.Request.Context()
	now := time.Now().UTC()

	site, siteCreated, err := dir.FindOrCreateSite(ctx, req.SiteName, defaultAlertEmail)
	if err != nil {
		logger.WithError(err).WithField("site", req.SiteName).Error("Failed to resolve site")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if siteCreated {
		logger.WithField("site", site.Name).Info("Provisioned new site")
	}

	nodeName := req.NodeName
	if nodeName == "" {
		nodeName = req.AgentID
	}

	node, nodeCreated, err := dir.UpsertHeartbeat(ctx, req.AgentID, nodeName, site.ID, now)
	if err != nil {
		logger.WithError(err).WithField("agent_id", req.AgentID).Error("Failed to record heartbeat")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if nodeCreated {
		logger.WithFields(logging.Fields{
			"agent_id": req.AgentID,
			"node":     node.NodeName,
			"site":     site.Name,
		}).Info("Provisioned new node")
	}

	if heartbeatsTotal != nil {
		heartbeatsTotal.Inc()
	}

	c.JSON(http.StatusOK, models.HeartbeatResponse{OK: true, Site: site.Name, Node: node.NodeName})
}

// PostMetrics ingests a resource report for an already-provisioned node.
// Absent fields are left untouched; status and last_seen are never modified
// by metrics.
func PostMetrics(c *gin.Context) {
	var req models.MetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.AgentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "agent_id is required"})
		return
	}

	update := store.MetricsUpdate{
		CPU:         req.CPU,
		RAM:         req.RAM,
		DiskFreePct: req.DiskFreePct,
	}

	err := dir.UpdateNodeMetrics(c.Request.Context(), req.AgentID, update, time.Now().UTC())
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown agent; a heartbeat must provision the node first"})
		return
	}
	if err != nil {
		logger.WithError(err).WithField("agent_id", req.AgentID).Error("Failed to update metrics")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if metricReportsTotal != nil {
		metricReportsTotal.Inc()
	}

	c.JSON(http.StatusOK, models.OKResponse{OK: true})
}

// PostSweep triggers one alert-engine pass on demand.
func PostSweep(c *gin.Context) {
	engine.Sweep(c.Request.Context())
	c.JSON(http.StatusOK, models.OKResponse{OK: true})
}
