// Package remote is the client side of the senderkeys.Backup service.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/dtroode/senderkeys/internal/api/grpc/backupv1"
	"github.com/dtroode/senderkeys/internal/model"
)

// envelope is the document stored for every record. The identity fields
// are checked on read so a misplaced document is never returned.
type envelope struct {
	Address        string `json:"address"`
	DeviceID       uint32 `json:"device_id"`
	DistributionID string `json:"distribution_id"`
	Record         []byte `json:"record"`
}

// Backup implements model.RemoteBackup over gRPC.
type Backup struct {
	client  backupv1.BackupClient
	timeout time.Duration
}

var _ model.RemoteBackup = (*Backup)(nil)

// New creates a remote backup on top of a Backup service client. A positive
// timeout bounds every call.
func New(client backupv1.BackupClient, timeout time.Duration) *Backup {
	return &Backup{client: client, timeout: timeout}
}

// Dial opens a connection to the backup server. perRPC may be nil.
func Dial(addr string, useTLS bool, perRPC credentials.PerRPCCredentials) (*grpc.ClientConn, error) {
	transport := insecure.NewCredentials()
	if useTLS {
		transport = credentials.NewClientTLSFromCert(nil, "")
	}

	opts := []grpc.DialOption{grpc.WithTransportCredentials(transport)}
	if perRPC != nil {
		opts = append(opts, grpc.WithPerRPCCredentials(perRPC))
	}

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to backup server %s: %w", addr, err)
	}
	return conn, nil
}

// Put uploads record under scope, replacing any previous document.
func (b *Backup) Put(ctx context.Context, scope model.BackupScope, id model.SenderKeyIdentity, record model.SenderKeyRecord) error {
	payload, err := json.Marshal(envelope{
		Address:        id.Sender.Name,
		DeviceID:       id.Sender.DeviceID,
		DistributionID: id.DistributionID.String(),
		Record:         record,
	})
	if err != nil {
		return fmt.Errorf("failed to encode sender key document: %w", err)
	}

	ctx, cancel := b.bound(ctx)
	defer cancel()

	_, err = b.client.PutSenderKey(ctx, &backupv1.PutSenderKeyRequest{
		Ref:     ref(scope, id),
		Payload: payload,
	})
	if err != nil {
		return fmt.Errorf("failed to upload sender key: %w", translate(err))
	}
	return nil
}

// Get downloads the record stored under scope. A missing document is
// model.ErrNotFound, an unreadable one model.ErrDeserialization.
func (b *Backup) Get(ctx context.Context, scope model.BackupScope, id model.SenderKeyIdentity) (model.SenderKeyRecord, error) {
	ctx, cancel := b.bound(ctx)
	defer cancel()

	resp, err := b.client.GetSenderKey(ctx, &backupv1.GetSenderKeyRequest{Ref: ref(scope, id)})
	if err != nil {
		return nil, fmt.Errorf("failed to download sender key: %w", translate(err))
	}

	var doc envelope
	if err := json.Unmarshal(resp.Payload, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrDeserialization, err)
	}
	if doc.Address != id.Sender.Name ||
		doc.DeviceID != id.Sender.DeviceID ||
		doc.DistributionID != id.DistributionID.String() {
		return nil, fmt.Errorf("%w: document belongs to %s.%d in %s",
			model.ErrDeserialization, doc.Address, doc.DeviceID, doc.DistributionID)
	}
	if len(doc.Record) == 0 {
		return nil, fmt.Errorf("%w: document has no record", model.ErrDeserialization)
	}
	return doc.Record, nil
}

func (b *Backup) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, b.timeout)
}

func ref(scope model.BackupScope, id model.SenderKeyIdentity) backupv1.SenderKeyRef {
	return backupv1.SenderKeyRef{
		SpaceID:        scope.SpaceID,
		DistributionID: id.DistributionID.String(),
		Address:        id.Sender.Name,
		DeviceID:       id.Sender.DeviceID,
	}
}

func translate(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.NotFound:
		return model.ErrNotFound
	case codes.Unauthenticated:
		return fmt.Errorf("%w: %s", model.ErrNotAuthenticated, st.Message())
	case codes.DataLoss:
		return fmt.Errorf("%w: %s", model.ErrDeserialization, st.Message())
	default:
		return err
	}
}
