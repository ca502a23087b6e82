package store

import (
	"context"
	"testing"
	"time"

	"arden/api_monitor/pkg/models"
)

func TestMemory_HeartbeatProvisioning(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	now := time.Now().UTC()

	site, created, err := m.FindOrCreateSite(ctx, "lab", "ops@arden.ai")
	if err != nil || !created {
		t.Fatalf("expected site creation, got created=%v err=%v", created, err)
	}
	if _, created, _ := m.FindOrCreateSite(ctx, "lab", "ops@arden.ai"); created {
		t.Fatalf("repeat site lookup must not create")
	}

	recipients, _ := m.ListRecipients(ctx, site.ID)
	if len(recipients) != 1 || recipients[0].Email != "ops@arden.ai" {
		t.Fatalf("expected exactly one default recipient, got %+v", recipients)
	}

	node, created, err := m.UpsertHeartbeat(ctx, "agent-1", "web-1", site.ID, now)
	if err != nil || !created {
		t.Fatalf("expected node creation, got created=%v err=%v", created, err)
	}
	if node.Status != models.StatusGreen {
		t.Fatalf("heartbeat must set green, got %s", node.Status)
	}

	if _, created, _ := m.UpsertHeartbeat(ctx, "agent-1", "web-1", site.ID, now); created {
		t.Fatalf("repeat heartbeat must update, not create")
	}
	nodes, _ := m.ListNodes(ctx, "")
	if len(nodes) != 1 {
		t.Fatalf("expected one node, got %d", len(nodes))
	}
}

func TestMemory_MetricsNeverProvision(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	cpu := 42.0
	if err := m.UpdateNodeMetrics(ctx, "ghost", MetricsUpdate{CPU: &cpu}, time.Now()); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := m.FindNode(ctx, "ghost"); err != ErrNotFound {
		t.Fatalf("metric report must not provision a node")
	}
}

func TestMemory_DiskAlertDebounceWindow(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	site, _, _ := m.FindOrCreateSite(ctx, "lab", "")
	now := time.Now().UTC()
	m.UpsertHeartbeat(ctx, "agent-1", "web-1", site.ID, now)

	if ok, _ := m.ClaimDiskAlert(ctx, "agent-1", now, time.Hour); !ok {
		t.Fatalf("first claim must win")
	}
	if ok, _ := m.ClaimDiskAlert(ctx, "agent-1", now.Add(30*time.Minute), time.Hour); ok {
		t.Fatalf("claim inside the window must lose")
	}
	if ok, _ := m.ClaimDiskAlert(ctx, "agent-1", now.Add(61*time.Minute), time.Hour); !ok {
		t.Fatalf("claim after the window must win")
	}
}
