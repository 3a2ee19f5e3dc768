package model

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strconv"

	"github.com/google/uuid"
)

// Address identifies one device of a message sender.
type Address struct {
	Name     string
	DeviceID uint32
}

// String returns the address in name.device form.
func (a Address) String() string {
	return a.Name + "." + strconv.FormatUint(uint64(a.DeviceID), 10)
}

// SenderKeyIdentity uniquely identifies one sender-key record.
type SenderKeyIdentity struct {
	Sender         Address
	DistributionID uuid.UUID
}

// Validate reports whether all identity parts are present.
func (id SenderKeyIdentity) Validate() error {
	if id.Sender.Name == "" {
		return fmt.Errorf("%w: sender address is empty", ErrInvalidIdentity)
	}
	if id.DistributionID == uuid.Nil {
		return fmt.Errorf("%w: distribution id is empty", ErrInvalidIdentity)
	}
	return nil
}

func (id SenderKeyIdentity) String() string {
	return id.DistributionID.String() + "/" + id.Sender.String()
}

// SenderKeyRecord is serialized ratchet state. The store never looks inside it.
type SenderKeyRecord []byte

// Clone returns a copy that does not share memory with r.
func (r SenderKeyRecord) Clone() SenderKeyRecord {
	if r == nil {
		return nil
	}
	out := make(SenderKeyRecord, len(r))
	copy(out, r)
	return out
}

// BackupScope selects the per-user, per-space subtree of the remote backup.
type BackupScope struct {
	UserID  uuid.UUID
	SpaceID string
}

// DocumentPath returns the remote path of a record within the scope.
func (s BackupScope) DocumentPath(id SenderKeyIdentity) string {
	space := s.SpaceID
	if space == "" {
		space = "null"
	}
	return path.Join(
		"spaces", url.PathEscape(space),
		"space_members", s.UserID.String(),
		"sender_key_records", id.DistributionID.String(),
		url.PathEscape(id.Sender.Name)+"."+strconv.FormatUint(uint64(id.Sender.DeviceID), 10),
	)
}

// DurableStore is the local persistent tier.
type DurableStore interface {
	Get(ctx context.Context, id SenderKeyIdentity) (SenderKeyRecord, error)
	Put(ctx context.Context, id SenderKeyIdentity, record SenderKeyRecord) error
}

// RemoteBackup is the per-user remote tier.
type RemoteBackup interface {
	Put(ctx context.Context, scope BackupScope, id SenderKeyIdentity, record SenderKeyRecord) error
	Get(ctx context.Context, scope BackupScope, id SenderKeyIdentity) (SenderKeyRecord, error)
}

// CurrentUserProvider reports the authenticated user, if any.
type CurrentUserProvider interface {
	CurrentUser(ctx context.Context) (uuid.UUID, bool)
}
