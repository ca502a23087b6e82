package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"arden/api_monitor/internal/store"
)

// GetSites returns all sites with node counts
func GetSites(c *gin.Context) {
	sites, err := dir.ListSites(c.Request.Context())
	if err != nil {
		logger.WithError(err).Error("Failed to fetch sites")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sites"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sites": sites, "count": len(sites)})
}

// GetNodes returns all nodes, optionally filtered by site name
func GetNodes(c *gin.Context) {
	siteName := c.Query("site")

	nodes, err := dir.ListNodes(c.Request.Context(), siteName)
	if err != nil {
		logger.WithError(err).Error("Failed to fetch nodes")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch nodes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"nodes": nodes, "count": len(nodes)})
}

// GetNode returns a single node by agent ID
func GetNode(c *gin.Context) {
	agentID := c.Param("agent_id")

	node, err := dir.FindNode(c.Request.Context(), agentID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Node not found"})
		return
	}
	if err != nil {
		logger.WithError(err).WithField("agent_id", agentID).Error("Failed to fetch node")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch node"})
		return
	}

	c.JSON(http.StatusOK, node)
}
