package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/dtroode/senderkeys/internal/logger"
	"github.com/dtroode/senderkeys/internal/model"
)

const (
	// MaxRecordSize bounds one sender key record as the client stores it.
	MaxRecordSize = 256 << 10
	// MaxPayloadSize bounds one uploaded payload. Clients wrap the record in a
	// JSON envelope with base64 encoding and may age-encrypt it first, so a
	// MaxRecordSize record grows by about a third on the wire.
	MaxPayloadSize = 512 << 10
)

// Backup stores sender key records of authenticated users: blobs go to
// object storage, metadata to the backup database.
type Backup struct {
	backupStore model.BackupStore
	storage     model.Storage
	logger      *logger.Logger
}

func NewBackup(
	backupStore model.BackupStore,
	storage model.Storage,
	logger *logger.Logger,
) *Backup {
	return &Backup{
		backupStore: backupStore,
		storage:     storage,
		logger:      logger,
	}
}

// Put uploads record and points the metadata row at it. Each upload gets a
// fresh object key, so a failed metadata write never damages the previous backup.
func (s *Backup) Put(ctx context.Context, scope model.BackupScope, id model.SenderKeyIdentity, record model.SenderKeyRecord) error {
	if err := validate(scope, id); err != nil {
		return err
	}
	if len(record) == 0 {
		return model.ErrEmptyRecord
	}
	if len(record) > MaxPayloadSize {
		return fmt.Errorf("%w: %d bytes", model.ErrRecordTooLarge, len(record))
	}

	previous, err := s.backupStore.Get(ctx, scope.UserID, scope.SpaceID, id)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("failed to get existing backup: %w", err)
	}

	objectKey := scope.DocumentPath(id) + "/" + uuid.NewString()
	if err := s.storage.Upload(ctx, objectKey, bytes.NewReader(record), int64(len(record))); err != nil {
		return fmt.Errorf("failed to upload sender key: %w", err)
	}

	sum := sha256.Sum256(record)
	_, err = s.backupStore.Upsert(ctx, model.SenderKeyBackup{
		UserID:    scope.UserID,
		SpaceID:   scope.SpaceID,
		Identity:  id,
		ObjectKey: objectKey,
		Size:      int64(len(record)),
		Checksum:  sum[:],
	})
	if err != nil {
		s.removeObject(ctx, objectKey)
		return fmt.Errorf("failed to save backup metadata: %w", err)
	}

	if previous.ObjectKey != "" && previous.ObjectKey != objectKey {
		s.removeObject(ctx, previous.ObjectKey)
	}

	s.logger.Debug("sender key backed up",
		"user_id", scope.UserID,
		"space_id", scope.SpaceID,
		"distribution_id", id.DistributionID,
		"size", len(record))

	return nil
}

// Get returns the backed up record. A blob that does not match its metadata
// is reported as model.ErrDeserialization.
func (s *Backup) Get(ctx context.Context, scope model.BackupScope, id model.SenderKeyIdentity) (model.SenderKeyRecord, error) {
	if err := validate(scope, id); err != nil {
		return nil, err
	}

	backup, err := s.backupStore.Get(ctx, scope.UserID, scope.SpaceID, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get backup metadata: %w", err)
	}

	rc, err := s.storage.Download(ctx, backup.ObjectKey)
	if err != nil {
		return nil, fmt.Errorf("failed to download sender key: %w", orphaned(err))
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, MaxPayloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read sender key: %w", orphaned(err))
	}

	if int64(len(data)) != backup.Size {
		return nil, fmt.Errorf("%w: size %d, expected %d", model.ErrDeserialization, len(data), backup.Size)
	}
	sum := sha256.Sum256(data)
	if subtle.ConstantTimeCompare(sum[:], backup.Checksum) != 1 {
		return nil, fmt.Errorf("%w: checksum mismatch", model.ErrDeserialization)
	}

	return model.SenderKeyRecord(data), nil
}

func (s *Backup) removeObject(ctx context.Context, key string) {
	if err := s.storage.Delete(context.WithoutCancel(ctx), key); err != nil {
		s.logger.Warn("failed to remove sender key object", "object_key", key, "error", err)
	}
}

// orphaned reports metadata that points at a missing object as data loss.
func orphaned(err error) error {
	if errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("%w: object is missing: %v", model.ErrDeserialization, err)
	}
	return err
}

func validate(scope model.BackupScope, id model.SenderKeyIdentity) error {
	if scope.UserID == uuid.Nil {
		return model.ErrNotAuthenticated
	}
	return id.Validate()
}
