package model

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// BackupStore persists metadata of backed up sender-key records.
type BackupStore interface {
	Upsert(ctx context.Context, backup SenderKeyBackup) (SenderKeyBackup, error)
	Get(ctx context.Context, userID uuid.UUID, spaceID string, id SenderKeyIdentity) (SenderKeyBackup, error)
}

// SenderKeyBackup describes one record stored in object storage.
type SenderKeyBackup struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	SpaceID   string
	Identity  SenderKeyIdentity
	ObjectKey string
	Size      int64
	Checksum  []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Storage holds the backup blobs. Keys are document paths suffixed with an
// upload id.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
