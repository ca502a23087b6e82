package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"arden/api_monitor/pkg/models"
)

// Postgres implements Directory over a lib/pq connection pool.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const nodeColumns = `
	n.id, n.agent_id, n.site_id, s.name, n.node_name, n.status, n.last_seen,
	n.cpu_pct, n.ram_pct, n.disk_free_pct, n.metrics_at,
	n.last_offline_alert_at, n.last_disk_alert_at, n.created_at, n.updated_at`

func scanNode(row interface{ Scan(...any) error }) (models.Node, error) {
	var n models.Node
	err := row.Scan(
		&n.ID, &n.AgentID, &n.SiteID, &n.SiteName, &n.NodeName, &n.Status, &n.LastSeen,
		&n.CPUPct, &n.RAMPct, &n.DiskFreePct, &n.MetricsAt,
		&n.LastOfflineAlertAt, &n.LastDiskAlertAt, &n.CreatedAt, &n.UpdatedAt,
	)
	return n, err
}

func (p *Postgres) FindOrCreateSite(ctx context.Context, name, defaultRecipient string) (models.Site, bool, error) {
	var site models.Site

	err := p.db.QueryRowContext(ctx, `
		SELECT id, name, created_at FROM sites WHERE name = $1
	`, name).Scan(&site.ID, &site.Name, &site.CreatedAt)
	if err == nil {
		return site, false, nil
	}
	if err != sql.ErrNoRows {
		return models.Site{}, false, fmt.Errorf("find site: %w", err)
	}

	// First reference: create the site and its default recipient in one
	// transaction. A concurrent creator may win the unique-name race, in
	// which case we fall back to reading its row.
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Site{}, false, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO sites (name) VALUES ($1)
		ON CONFLICT (name) DO NOTHING
		RETURNING id, name, created_at
	`, name).Scan(&site.ID, &site.Name, &site.CreatedAt)
	if err == sql.ErrNoRows {
		_ = tx.Rollback()
		err = p.db.QueryRowContext(ctx, `
			SELECT id, name, created_at FROM sites WHERE name = $1
		`, name).Scan(&site.ID, &site.Name, &site.CreatedAt)
		if err != nil {
			return models.Site{}, false, fmt.Errorf("find site after conflict: %w", err)
		}
		return site, false, nil
	}
	if err != nil {
		return models.Site{}, false, fmt.Errorf("create site: %w", err)
	}

	if defaultRecipient != "" {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO recipients (site_id, email) VALUES ($1, $2)
			ON CONFLICT (site_id, email) DO NOTHING
		`, site.ID, defaultRecipient); err != nil {
			return models.Site{}, false, fmt.Errorf("create default recipient: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Site{}, false, fmt.Errorf("commit site: %w", err)
	}

	return site, true, nil
}

func (p *Postgres) UpsertHeartbeat(ctx context.Context, agentID, nodeName, siteID string, now time.Time) (models.Node, bool, error) {
	var node models.Node
	var inserted bool

	// Single statement so a concurrent sweep never observes a half-updated
	// node. The site binding and display name are set once at creation and
	// never rewritten by later heartbeats.
	err := p.db.QueryRowContext(ctx, `
		INSERT INTO nodes (agent_id, site_id, node_name, status, last_seen)
		VALUES ($1, $2, $3, 'green', $4)
		ON CONFLICT (agent_id) DO UPDATE
		SET status = 'green', last_seen = $4, updated_at = NOW()
		RETURNING id, agent_id, site_id, node_name, status, last_seen, (xmax = 0)
	`, agentID, siteID, nodeName, now).Scan(
		&node.ID, &node.AgentID, &node.SiteID, &node.NodeName, &node.Status, &node.LastSeen, &inserted,
	)
	if err != nil {
		return models.Node{}, false, fmt.Errorf("upsert heartbeat: %w", err)
	}

	return node, inserted, nil
}

func (p *Postgres) FindNode(ctx context.Context, agentID string) (*models.Node, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT `+nodeColumns+`
		FROM nodes n
		JOIN sites s ON s.id = n.site_id
		WHERE n.agent_id = $1
	`, agentID)

	node, err := scanNode(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find node: %w", err)
	}
	return &node, nil
}

func (p *Postgres) UpdateNodeMetrics(ctx context.Context, agentID string, m MetricsUpdate, now time.Time) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE nodes
		SET cpu_pct = COALESCE($2, cpu_pct),
		    ram_pct = COALESCE($3, ram_pct),
		    disk_free_pct = COALESCE($4, disk_free_pct),
		    metrics_at = $5,
		    updated_at = NOW()
		WHERE agent_id = $1
	`, agentID, m.CPU, m.RAM, m.DiskFreePct, now)
	if err != nil {
		return fmt.Errorf("update metrics: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update metrics rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) ListNodes(ctx context.Context, siteName string) ([]models.Node, error) {
	query := `
		SELECT ` + nodeColumns + `
		FROM nodes n
		JOIN sites s ON s.id = n.site_id`
	args := []any{}
	if siteName != "" {
		query += ` WHERE s.name = $1`
		args = append(args, siteName)
	}
	query += ` ORDER BY s.name, n.node_name`

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}
	defer rows.Close()

	var nodes []models.Node
	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		nodes = append(nodes, node)
	}
	return nodes, rows.Err()
}

func (p *Postgres) ListSites(ctx context.Context) ([]models.SiteSummary, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT s.id, s.name, s.created_at, COUNT(n.id)
		FROM sites s
		LEFT JOIN nodes n ON n.site_id = s.id
		GROUP BY s.id, s.name, s.created_at
		ORDER BY s.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	defer rows.Close()

	var sites []models.SiteSummary
	for rows.Next() {
		var s models.SiteSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt, &s.NodeCount); err != nil {
			return nil, fmt.Errorf("scan site: %w", err)
		}
		sites = append(sites, s)
	}
	return sites, rows.Err()
}

func (p *Postgres) ListRecipients(ctx context.Context, siteID string) ([]models.Recipient, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, site_id, email, created_at
		FROM recipients
		WHERE site_id = $1
		ORDER BY email
	`, siteID)
	if err != nil {
		return nil, fmt.Errorf("list recipients: %w", err)
	}
	defer rows.Close()

	var recipients []models.Recipient
	for rows.Next() {
		var r models.Recipient
		if err := rows.Scan(&r.ID, &r.SiteID, &r.Email, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan recipient: %w", err)
		}
		recipients = append(recipients, r)
	}
	return recipients, rows.Err()
}

func (p *Postgres) MarkOffline(ctx context.Context, agentID string, seenBefore, now time.Time) (bool, error) {
	// The guard makes the transition a compare-and-set: of any number of
	// concurrent sweeps, exactly one flips the row and alerts. The last_seen
	// condition re-checks liveness inside the same statement, so a heartbeat
	// committed after the sweep listed this node wins the race.
	res, err := p.db.ExecContext(ctx, `
		UPDATE nodes
		SET status = 'offline', last_offline_alert_at = $2, updated_at = NOW()
		WHERE agent_id = $1 AND status <> 'offline' AND last_seen <= $3
	`, agentID, now, seenBefore)
	if err != nil {
		return false, fmt.Errorf("mark offline: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark offline rows: %w", err)
	}
	return affected > 0, nil
}

func (p *Postgres) ClaimDiskAlert(ctx context.Context, agentID string, now time.Time, minInterval time.Duration) (bool, error) {
	res, err := p.db.ExecContext(ctx, `
		UPDATE nodes
		SET last_disk_alert_at = $2, updated_at = NOW()
		WHERE agent_id = $1
		  AND (last_disk_alert_at IS NULL OR last_disk_alert_at <= $3)
	`, agentID, now, now.Add(-minInterval))
	if err != nil {
		return false, fmt.Errorf("claim disk alert: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claim disk alert rows: %w", err)
	}
	return affected > 0, nil
}
