package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"arden/api_monitor/pkg/models"
)

// Memory is an in-process Directory guarded by a single mutex. The mutex is
// held only for map reads/writes, never across notification, which gives the
// same per-node atomicity as the SQL compare-and-set statements. Used for
// local development and tests.
type Memory struct {
	mu         sync.Mutex
	sites      map[string]*models.Site // by name
	nodes      map[string]*models.Node // by agent ID
	recipients map[string][]models.Recipient
}

func NewMemory() *Memory {
	return &Memory{
		sites:      make(map[string]*models.Site),
		nodes:      make(map[string]*models.Node),
		recipients: make(map[string][]models.Recipient),
	}
}

func (m *Memory) FindOrCreateSite(_ context.Context, name, defaultRecipient string) (models.Site, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if site, ok := m.sites[name]; ok {
		return *site, false, nil
	}

	site := &models.Site{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	m.sites[name] = site

	if defaultRecipient != "" {
		m.recipients[site.ID] = append(m.recipients[site.ID], models.Recipient{
			ID:        uuid.New().String(),
			SiteID:    site.ID,
			Email:     defaultRecipient,
			CreatedAt: site.CreatedAt,
		})
	}

	return *site, true, nil
}

func (m *Memory) AddRecipient(siteID, email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recipients[siteID] = append(m.recipients[siteID], models.Recipient{
		ID:        uuid.New().String(),
		SiteID:    siteID,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	})
}

func (m *Memory) UpsertHeartbeat(_ context.Context, agentID, nodeName, siteID string, now time.Time) (models.Node, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := now
	if node, ok := m.nodes[agentID]; ok {
		node.Status = models.StatusGreen
		node.LastSeen = &seen
		node.UpdatedAt = now
		return m.withSiteName(*node), false, nil
	}

	node := &models.Node{
		ID:        uuid.New().String(),
		AgentID:   agentID,
		SiteID:    siteID,
		NodeName:  nodeName,
		Status:    models.StatusGreen,
		LastSeen:  &seen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.nodes[agentID] = node
	return m.withSiteName(*node), true, nil
}

func (m *Memory) withSiteName(node models.Node) models.Node {
	for _, site := range m.sites {
		if site.ID == node.SiteID {
			node.SiteName = site.Name
			break
		}
	}
	return node
}

func (m *Memory) FindNode(_ context.Context, agentID string) (*models.Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	node, ok := m.nodes[agentID]
	if !ok {
		return nil, ErrNotFound
	}
	out := m.withSiteName(*node)
	return &out, nil
}

func (m *Memory) UpdateNodeMetrics(_ context.Context, agentID string, upd MetricsUpdate, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	node, ok := m.nodes[agentID]
	if !ok {
		return ErrNotFound
	}

	if upd.CPU != nil {
		v := *upd.CPU
		node.CPUPct = &v
	}
	if upd.RAM != nil {
		v := *upd.RAM
		node.RAMPct = &v
	}
	if upd.DiskFreePct != nil {
		v := *upd.DiskFreePct
		node.DiskFreePct = &v
	}
	at := now
	node.MetricsAt = &at
	node.UpdatedAt = now
	return nil
}

func (m *Memory) ListNodes(_ context.Context, siteName string) ([]models.Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var nodes []models.Node
	for _, node := range m.nodes {
		out := m.withSiteName(*node)
		if siteName != "" && out.SiteName != siteName {
			continue
		}
		nodes = append(nodes, out)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].AgentID < nodes[j].AgentID })
	return nodes, nil
}

func (m *Memory) ListSites(_ context.Context) ([]models.SiteSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var sites []models.SiteSummary
	for _, site := range m.sites {
		summary := models.SiteSummary{Site: *site}
		for _, node := range m.nodes {
			if node.SiteID == site.ID {
				summary.NodeCount++
			}
		}
		sites = append(sites, summary)
	}
	sort.Slice(sites, func(i, j int) bool { return sites[i].Name < sites[j].Name })
	return sites, nil
}

func (m *Memory) ListRecipients(_ context.Context, siteID string) ([]models.Recipient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Recipient, len(m.recipients[siteID]))
	copy(out, m.recipients[siteID])
	return out, nil
}

func (m *Memory) MarkOffline(_ context.Context, agentID string, seenBefore, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	node, ok := m.nodes[agentID]
	if !ok || node.Status == models.StatusOffline {
		return false, nil
	}
	if node.LastSeen == nil || node.LastSeen.After(seenBefore) {
		// Heartbeated since the caller's snapshot; still live.
		return false, nil
	}

	at := now
	node.Status = models.StatusOffline
	node.LastOfflineAlertAt = &at
	node.UpdatedAt = now
	return true, nil
}

func (m *Memory) ClaimDiskAlert(_ context.Context, agentID string, now time.Time, minInterval time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	node, ok := m.nodes[agentID]
	if !ok {
		return false, nil
	}
	if node.LastDiskAlertAt != nil && node.LastDiskAlertAt.After(now.Add(-minInterval)) {
		return false, nil
	}

	at := now
	node.LastDiskAlertAt = &at
	node.UpdatedAt = now
	return true, nil
}
