// Package signalstore exposes the sender-key store to the libsignal group
// cipher.
package signalstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mau.fi/libsignal/groups/state/record"
	"go.mau.fi/libsignal/groups/state/store"
	"go.mau.fi/libsignal/protocol"
	"go.mau.fi/libsignal/serialize"

	"github.com/dtroode/senderkeys/internal/logger"
	"github.com/dtroode/senderkeys/internal/model"
)

var serializer = serialize.NewProtoBufSerializer()

// Records is the part of senderkey.Store the adapter needs.
type Records interface {
	Store(ctx context.Context, id model.SenderKeyIdentity, record model.SenderKeyRecord) error
	Load(ctx context.Context, id model.SenderKeyIdentity) (model.SenderKeyRecord, bool, error)
}

// SenderKeyStore implements the libsignal group sender-key store. Group ids
// must be distribution uuids.
type SenderKeyStore struct {
	records Records
	logger  *logger.Logger
}

var _ store.SenderKey = (*SenderKeyStore)(nil)

// New creates an adapter over records.
func New(records Records, logger *logger.Logger) *SenderKeyStore {
	return &SenderKeyStore{
		records: records,
		logger:  logger.Component("signalstore"),
	}
}

// StoreSenderKey saves keyRecord. A record already held for the name is kept.
func (s *SenderKeyStore) StoreSenderKey(ctx context.Context, senderKeyName *protocol.SenderKeyName, keyRecord *record.SenderKey) error {
	id, err := identity(senderKeyName)
	if err != nil {
		return err
	}
	return s.records.Store(ctx, id, keyRecord.Serialize())
}

// LoadSenderKey returns the stored record. A missing record and one that no
// longer decodes both come back empty, so the peer is asked to resend its key.
func (s *SenderKeyStore) LoadSenderKey(ctx context.Context, senderKeyName *protocol.SenderKeyName) (*record.SenderKey, error) {
	id, err := identity(senderKeyName)
	if err != nil {
		return nil, err
	}

	raw, ok, err := s.records.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return record.NewSenderKey(serializer.SenderKeyRecord, serializer.SenderKeyState), nil
	}

	rec, err := DecodeRecord(raw)
	if err != nil {
		s.logger.Error("failed to deserialize sender key record",
			"sender", id.Sender.String(), "distribution_id", id.DistributionID.String(), "error", err)
		return record.NewSenderKey(serializer.SenderKeyRecord, serializer.SenderKeyState), nil
	}
	return rec, nil
}

// ValidateRecord reports whether raw decodes as a libsignal sender-key record.
// It is meant for senderkey.WithRecordValidator.
func ValidateRecord(raw model.SenderKeyRecord) error {
	_, err := DecodeRecord(raw)
	return err
}

// DecodeRecord parses raw as a libsignal sender-key record.
func DecodeRecord(raw model.SenderKeyRecord) (*record.SenderKey, error) {
	return record.NewSenderKeyFromBytes(raw, serializer.SenderKeyRecord, serializer.SenderKeyState)
}

// Name returns the libsignal name under which id is stored.
func Name(id model.SenderKeyIdentity) *protocol.SenderKeyName {
	return protocol.NewSenderKeyName(id.DistributionID.String(),
		protocol.NewSignalAddress(id.Sender.Name, id.Sender.DeviceID))
}

func identity(name *protocol.SenderKeyName) (model.SenderKeyIdentity, error) {
	if name == nil || name.Sender() == nil {
		return model.SenderKeyIdentity{}, fmt.Errorf("%w: sender key name is empty", model.ErrInvalidIdentity)
	}
	distributionID, err := uuid.Parse(name.GroupID())
	if err != nil {
		return model.SenderKeyIdentity{}, fmt.Errorf("%w: group id is not a distribution id: %w", model.ErrInvalidIdentity, err)
	}

	id := model.SenderKeyIdentity{
		Sender:         model.Address{Name: name.Sender().Name(), DeviceID: name.Sender().DeviceID()},
		DistributionID: distributionID,
	}
	if err := id.Validate(); err != nil {
		return model.SenderKeyIdentity{}, err
	}
	return id, nil
}
