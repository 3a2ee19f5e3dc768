package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.mau.fi/util/dbutil"

	"github.com/dtroode/senderkeys/internal/model"
)

var _ model.DurableStore = (*SenderKeyRepository)(nil)

// SenderKeyRepository is the local durable tier.
type SenderKeyRepository struct {
	db *dbutil.Database
}

func NewSenderKeyRepository(db *dbutil.Database) *SenderKeyRepository {
	return &SenderKeyRepository{
		db: db,
	}
}

func (r *SenderKeyRepository) Get(ctx context.Context, id model.SenderKeyIdentity) (model.SenderKeyRecord, error) {
	query := `
		SELECT record
		FROM sender_keys
		WHERE distribution_id = $1 AND sender_name = $2 AND sender_device = $3`

	var record []byte
	err := r.db.QueryRow(ctx, query, id.DistributionID.String(), id.Sender.Name, id.Sender.DeviceID).Scan(&record)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get sender key: %w", err)
	}

	return model.SenderKeyRecord(record), nil
}

// Put inserts the record or replaces the stored one.
func (r *SenderKeyRepository) Put(ctx context.Context, id model.SenderKeyIdentity, record model.SenderKeyRecord) error {
	query := `
		INSERT INTO sender_keys (distribution_id, sender_name, sender_device, record, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (distribution_id, sender_name, sender_device)
		DO UPDATE SET record = excluded.record, updated_at = excluded.updated_at`

	_, err := r.db.Exec(ctx, query,
		id.DistributionID.String(), id.Sender.Name, id.Sender.DeviceID,
		[]byte(record), time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to put sender key: %w", err)
	}

	return nil
}
