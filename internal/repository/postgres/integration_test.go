//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dtroode/senderkeys/internal/model"
	repo "github.com/dtroode/senderkeys/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "senderkeys_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/senderkeys_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestBackupRepository_UpsertGet(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, conn.Ping(ctx))

	br := repo.NewBackupRepository(conn)
	userID := uuid.New()
	id := model.SenderKeyIdentity{
		Sender:         model.Address{Name: "alice", DeviceID: 3},
		DistributionID: uuid.New(),
	}
	spaceID := id.DistributionID.String()

	_, err = br.Get(ctx, userID, spaceID, id)
	require.ErrorIs(t, err, model.ErrNotFound)

	first, err := br.Upsert(ctx, model.SenderKeyBackup{
		UserID:    userID,
		SpaceID:   spaceID,
		Identity:  id,
		ObjectKey: "spaces/a/key-1",
		Size:      3,
		Checksum:  []byte{1, 2, 3},
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, first.ID)

	second, err := br.Upsert(ctx, model.SenderKeyBackup{
		UserID:    userID,
		SpaceID:   spaceID,
		Identity:  id,
		ObjectKey: "spaces/a/key-2",
		Size:      4,
		Checksum:  []byte{4, 5, 6},
	})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	got, err := br.Get(ctx, userID, spaceID, id)
	require.NoError(t, err)
	require.Equal(t, first.ID, got.ID)
	require.Equal(t, "spaces/a/key-2", got.ObjectKey)
	require.Equal(t, int64(4), got.Size)
	require.Equal(t, []byte{4, 5, 6}, got.Checksum)

	_, err = br.Get(ctx, uuid.New(), spaceID, id)
	require.ErrorIs(t, err, model.ErrNotFound)
}
