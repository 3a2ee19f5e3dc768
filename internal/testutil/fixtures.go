package testutil

import (
	"github.com/google/uuid"

	"github.com/dtroode/senderkeys/internal/model"
)

// NewIdentity returns an identity with a fresh distribution id.
func NewIdentity(name string, deviceID uint32) model.SenderKeyIdentity {
	return model.SenderKeyIdentity{
		Sender:         model.Address{Name: name, DeviceID: deviceID},
		DistributionID: uuid.New(),
	}
}
