package handler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/senderkeys/internal/api/grpc/backupv1"
	"github.com/dtroode/senderkeys/internal/logger"
	"github.com/dtroode/senderkeys/internal/model"
)

// BackupService stores and returns backed up sender key records.
type BackupService interface {
	Put(ctx context.Context, scope model.BackupScope, id model.SenderKeyIdentity, record model.SenderKeyRecord) error
	Get(ctx context.Context, scope model.BackupScope, id model.SenderKeyIdentity) (model.SenderKeyRecord, error)
}

// Backup handles gRPC endpoints of the backup service.
type Backup struct {
	backupv1.UnimplementedBackupServer
	backupService  BackupService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewBackup creates a new Backup handler.
func NewBackup(backupService BackupService, contextManager model.ContextManager, logger *logger.Logger) *Backup {
	return &Backup{
		backupService:  backupService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// PutSenderKey stores a record under the caller's own subtree.
func (h *Backup) PutSenderKey(ctx context.Context, req *backupv1.PutSenderKeyRequest) (*backupv1.PutSenderKeyResponse, error) {
	scope, id, err := h.resolve(ctx, req.Ref)
	if err != nil {
		return nil, err
	}

	if err := h.backupService.Put(ctx, scope, id, model.SenderKeyRecord(req.Payload)); err != nil {
		h.logger.Error("Backup handler: put sender key failed",
			"user_id", scope.UserID,
			"distribution_id", id.DistributionID,
			"error", err.Error())
		return nil, handleError(err)
	}

	return &backupv1.PutSenderKeyResponse{}, nil
}

// GetSenderKey returns a record from the caller's own subtree.
func (h *Backup) GetSenderKey(ctx context.Context, req *backupv1.GetSenderKeyRequest) (*backupv1.GetSenderKeyResponse, error) {
	scope, id, err := h.resolve(ctx, req.Ref)
	if err != nil {
		return nil, err
	}

	record, err := h.backupService.Get(ctx, scope, id)
	if err != nil {
		if status.Code(handleError(err)) == codes.Internal {
			h.logger.Error("Backup handler: get sender key failed",
				"user_id", scope.UserID,
				"distribution_id", id.DistributionID,
				"error", err.Error())
		}
		return nil, handleError(err)
	}

	return &backupv1.GetSenderKeyResponse{Payload: record}, nil
}

func (h *Backup) resolve(ctx context.Context, ref backupv1.SenderKeyRef) (model.BackupScope, model.SenderKeyIdentity, error) {
	userID, ok := h.contextManager.GetUserIDFromContext(ctx)
	if !ok {
		return model.BackupScope{}, model.SenderKeyIdentity{}, status.Error(codes.Unauthenticated, "user ID not found in context")
	}

	distributionID, err := uuid.Parse(ref.DistributionID)
	if err != nil {
		return model.BackupScope{}, model.SenderKeyIdentity{}, status.Error(codes.InvalidArgument, fmt.Sprintf("invalid distribution id: %v", err))
	}

	scope := model.BackupScope{UserID: userID, SpaceID: ref.SpaceID}
	id := model.SenderKeyIdentity{
		Sender:         model.Address{Name: ref.Address, DeviceID: ref.DeviceID},
		DistributionID: distributionID,
	}
	return scope, id, nil
}
