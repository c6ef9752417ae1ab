package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leemrnda21/hau-kiosk-registar/internal/app/models"
)

// AuditLogRepository handles database operations for the append-only audit
// trail. There is deliberately no update or delete method here.
type AuditLogRepository struct {
	db *pgxpool.Pool
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *pgxpool.Pool) *AuditLogRepository {
	return &AuditLogRepository{
		db: db,
	}
}

// Insert appends one audit entry. It takes a Querier so the entry can land in
// the same transaction as the state change it records.
func (r *AuditLogRepository) Insert(ctx context.Context, q Querier, entry *models.AuditLog) error {
	var metadata []byte
	if entry.Metadata != nil {
		var err error
		metadata, err = json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("error encoding audit metadata: %w", err)
		}
	}

	query := `
		INSERT INTO admin_audit_logs (id, actor_email, action, entity_type, entity_id, reason, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		entry.ID, entry.ActorEmail, entry.Action, entry.EntityType,
		entry.EntityID, entry.Reason, metadata,
	).Scan(&entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting audit entry: %w", err)
	}

	return nil
}

// List retrieves the most recent audit entries, newest first
func (r *AuditLogRepository) List(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	query := `
		SELECT id, actor_email, action, entity_type, entity_id, reason, metadata, created_at
		FROM admin_audit_logs
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing audit entries: %w", err)
	}
	defer rows.Close()

	var logs []*models.AuditLog
	for rows.Next() {
		entry, err := scanAuditLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return logs, nil
}

func scanAuditLog(row pgx.Row) (*models.AuditLog, error) {
	var entry models.AuditLog
	var metadata []byte
	err := row.Scan(
		&entry.ID, &entry.ActorEmail, &entry.Action, &entry.EntityType,
		&entry.EntityID, &entry.Reason, &metadata, &entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
			return nil, fmt.Errorf("error decoding audit metadata: %w", err)
		}
	}

	return &entry, nil
}
