package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/senderkeys/internal/model"
)

var _ model.BackupStore = (*BackupRepository)(nil)

// BackupRepository stores metadata of sender key blobs kept in object storage.
type BackupRepository struct {
	db *Connection
}

func NewBackupRepository(db *Connection) *BackupRepository {
	return &BackupRepository{
		db: db,
	}
}

// Upsert inserts backup metadata or replaces it for the same user, space and identity.
// The id of an existing row is preserved.
func (r *BackupRepository) Upsert(ctx context.Context, backup model.SenderKeyBackup) (model.SenderKeyBackup, error) {
	if backup.ID == uuid.Nil {
		backup.ID = uuid.New()
	}

	query := `
		INSERT INTO sender_key_backups (id, user_id, space_id, distribution_id, sender_name, sender_device, object_key, size, checksum)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, space_id, distribution_id, sender_name, sender_device)
		DO UPDATE SET object_key = EXCLUDED.object_key,
		              size = EXCLUDED.size,
		              checksum = EXCLUDED.checksum,
		              updated_at = now()
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		backup.ID, backup.UserID, backup.SpaceID,
		backup.Identity.DistributionID, backup.Identity.Sender.Name, int64(backup.Identity.Sender.DeviceID),
		backup.ObjectKey, backup.Size, backup.Checksum,
	).Scan(&backup.ID, &backup.CreatedAt, &backup.UpdatedAt)
	if err != nil {
		return model.SenderKeyBackup{}, fmt.Errorf("failed to upsert sender key backup: %w", err)
	}

	return backup, nil
}

func (r *BackupRepository) Get(ctx context.Context, userID uuid.UUID, spaceID string, id model.SenderKeyIdentity) (model.SenderKeyBackup, error) {
	query := `
		SELECT id, object_key, size, checksum, created_at, updated_at
		FROM sender_key_backups
		WHERE user_id = $1 AND space_id = $2 AND distribution_id = $3 AND sender_name = $4 AND sender_device = $5`

	backup := model.SenderKeyBackup{
		UserID:   userID,
		SpaceID:  spaceID,
		Identity: id,
	}
	err := r.db.QueryRow(ctx, query,
		userID, spaceID, id.DistributionID, id.Sender.Name, int64(id.Sender.DeviceID),
	).Scan(
		&backup.ID, &backup.ObjectKey, &backup.Size, &backup.Checksum,
		&backup.CreatedAt, &backup.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.SenderKeyBackup{}, model.ErrNotFound
		}
		return model.SenderKeyBackup{}, fmt.Errorf("failed to get sender key backup: %w", err)
	}

	return backup, nil
}
