package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Lead is a stored contact form submission
type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message"`
	RemoteIP  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// InsertLead stores a lead, assigning its id and timestamp when unset
func (db *DB) InsertLead(ctx context.Context, lead *Lead) error {
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now().UTC()
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO leads (lead_id, name, email, phone, message, remote_ip, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		lead.ID, lead.Name, lead.Email, lead.Phone, lead.Message, lead.RemoteIP, lead.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert lead: %w", err)
	}
	return nil
}

// ListLeads returns the most recent leads first
func (db *DB) ListLeads(ctx context.Context, limit int) ([]Lead, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := db.QueryContext(ctx, `
		SELECT lead_id, name, email, phone, message, remote_ip, created_at
		FROM leads ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	var leads []Lead
	for rows.Next() {
		var l Lead
		var createdMs int64
		if err := rows.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.Message, &l.RemoteIP, &createdMs); err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		l.CreatedAt = time.UnixMilli(createdMs).UTC()
		leads = append(leads, l)
	}
	return leads, rows.Err()
}
