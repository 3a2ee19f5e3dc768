package middleware

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dtroode/senderkeys/internal/mocks"
	"github.com/dtroode/senderkeys/internal/model"
	"github.com/dtroode/senderkeys/internal/testutil"
)

func TestAuthenticate_AuthFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		mdAuthHeader   string
		callTokenSvc   bool
		tokenSvcUserID uuid.UUID
		tokenSvcErr    error
		wantGRPCCode   codes.Code
		wantErr        bool
		expectSetCtx   bool
	}{
		{
			name:         "missing authorization header",
			mdAuthHeader: "",
			wantGRPCCode: codes.Unauthenticated,
			wantErr:      true,
		},
		{
			name:         "wrong scheme",
			mdAuthHeader: "Basic dXNlcjpwYXNz",
			wantGRPCCode: codes.Unauthenticated,
			wantErr:      true,
		},
		{
			name:         "invalid token",
			mdAuthHeader: "Bearer invalid",
			callTokenSvc: true,
			tokenSvcErr:  model.ErrInvalidToken,
			wantGRPCCode: codes.Unauthenticated,
			wantErr:      true,
		},
		{
			name:           "nil user id from token",
			mdAuthHeader:   "Bearer token",
			callTokenSvc:   true,
			tokenSvcUserID: uuid.Nil,
			wantGRPCCode:   codes.Unauthenticated,
			wantErr:        true,
		},
		{
			name:           "valid token",
			mdAuthHeader:   "Bearer token",
			callTokenSvc:   true,
			tokenSvcUserID: uuid.New(),
			wantGRPCCode:   codes.OK,
			expectSetCtx:   true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lg := testutil.MakeNoopLogger()
			cm := mocks.NewContextManager(t)

			if tt.expectSetCtx {
				cm.On("SetUserIDToContext", mock.Anything, tt.tokenSvcUserID).Return(context.Background())
			}

			svc := mocks.NewTokenService(t)
			if tt.callTokenSvc {
				svc.On("GetUserID", mock.Anything, mock.AnythingOfType("string")).Return(tt.tokenSvcUserID, tt.tokenSvcErr).Once()
			}
			m := NewAuthenticate(svc, cm, lg)

			ctx := context.Background()
			if tt.mdAuthHeader != "" {
				ctx = metadata.NewIncomingContext(ctx, metadata.Pairs("authorization", tt.mdAuthHeader))
			}

			newCtx, err := m.AuthFunc(ctx)

			if tt.wantErr {
				assert.Error(t, err)
				st, ok := status.FromError(err)
				assert.True(t, ok)
				assert.Equal(t, tt.wantGRPCCode, st.Code())
				assert.Nil(t, newCtx)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, newCtx)
			}
		})
	}
}
