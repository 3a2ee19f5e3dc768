package context

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"

	"github.com/dtroode/senderkeys/internal/model"
)

// userIDKey is the incoming metadata key carrying the authenticated user.
const userIDKey = "x-senderkeys-user-id"

var _ model.ContextManager = (*Manager)(nil)

// Manager stores the authenticated user id in incoming gRPC metadata, where
// handlers of the backup service read it.
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// SetUserIDToContext replaces any user id present in the incoming metadata,
// so a client can never choose its own identity.
func (m *Manager) SetUserIDToContext(ctx context.Context, userID uuid.UUID) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		md = md.Copy()
	} else {
		md = metadata.MD{}
	}
	md.Set(userIDKey, userID.String())

	return metadata.NewIncomingContext(ctx, md)
}

func (m *Manager) GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return uuid.Nil, false
	}

	values := md.Get(userIDKey)
	if len(values) != 1 {
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(values[0])
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, false
	}

	return userID, true
}
