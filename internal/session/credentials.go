package session

import (
	"context"
	"fmt"

	"google.golang.org/grpc/credentials"

	"github.com/dtroode/senderkeys/internal/model"
)

// Bearer attaches the session access token to every backup call.
type Bearer struct {
	session    *File
	requireTLS bool
}

var _ credentials.PerRPCCredentials = (*Bearer)(nil)

func (b *Bearer) GetRequestMetadata(_ context.Context, _ ...string) (map[string]string, error) {
	token := b.session.token()
	if token == "" {
		return nil, fmt.Errorf("%w: log in first", model.ErrNotAuthenticated)
	}
	return map[string]string{"authorization": "Bearer " + token}, nil
}

func (b *Bearer) RequireTransportSecurity() bool {
	return b.requireTLS
}
