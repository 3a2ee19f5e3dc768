package senderkey

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/senderkeys/internal/model"
	"github.com/dtroode/senderkeys/internal/testutil"
)

type memDurable struct {
	mu      sync.Mutex
	records map[model.SenderKeyIdentity]model.SenderKeyRecord
	getErr  error
	putErr  error
	gets    atomic.Int32
	puts    atomic.Int32
}

func newMemDurable() *memDurable {
	return &memDurable{records: make(map[model.SenderKeyIdentity]model.SenderKeyRecord)}
}

func (d *memDurable) Get(_ context.Context, id model.SenderKeyIdentity) (model.SenderKeyRecord, error) {
	d.gets.Add(1)
	if d.getErr != nil {
		return nil, d.getErr
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	rec, ok := d.records[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return rec.Clone(), nil
}

func (d *memDurable) Put(_ context.Context, id model.SenderKeyIdentity, record model.SenderKeyRecord) error {
	d.puts.Add(1)
	if d.putErr != nil {
		return d.putErr
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.records[id] = record.Clone()
	return nil
}

func (d *memDurable) get(id model.SenderKeyIdentity) (model.SenderKeyRecord, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	rec, ok := d.records[id]
	return rec, ok
}

type memRemote struct {
	mu      sync.Mutex
	records map[string]model.SenderKeyRecord
	scopes  []model.BackupScope
	getErr  error
	putErr  error
	block   chan struct{}
	gets    atomic.Int32
	puts    atomic.Int32
}

func newMemRemote() *memRemote {
	return &memRemote{records: make(map[string]model.SenderKeyRecord)}
}

func (r *memRemote) Put(_ context.Context, scope model.BackupScope, id model.SenderKeyIdentity, record model.SenderKeyRecord) error {
	r.puts.Add(1)
	if r.putErr != nil {
		return r.putErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scopes = append(r.scopes, scope)
	r.records[scope.DocumentPath(id)] = record.Clone()
	return nil
}

func (r *memRemote) Get(ctx context.Context, scope model.BackupScope, id model.SenderKeyIdentity) (model.SenderKeyRecord, error) {
	r.gets.Add(1)
	if r.block != nil {
		select {
		case <-r.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if r.getErr != nil {
		return nil, r.getErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[scope.DocumentPath(id)]
	if !ok {
		return nil, model.ErrNotFound
	}
	return rec.Clone(), nil
}

func (r *memRemote) seed(scope model.BackupScope, id model.SenderKeyIdentity, record model.SenderKeyRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[scope.DocumentPath(id)] = record
}

type staticUser struct {
	id uuid.UUID
	ok bool
}

func (u staticUser) CurrentUser(context.Context) (uuid.UUID, bool) {
	return u.id, u.ok
}

func loggedIn() staticUser {
	return staticUser{id: uuid.New(), ok: true}
}

func defaultScope(user staticUser, id model.SenderKeyIdentity) model.BackupScope {
	return model.BackupScope{UserID: user.id, SpaceID: id.DistributionID.String()}
}

func closeStore(t *testing.T, s *Store) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Close(ctx))
}

func TestStore_FirstWriteWins(t *testing.T) {
	ctx := context.Background()
	durable := newMemDurable()
	remote := newMemRemote()
	user := loggedIn()
	s := New(NewCache(), durable, remote, user, testutil.MakeNoopLogger())
	id := testutil.NewIdentity("alice", 1)

	require.NoError(t, s.Store(ctx, id, model.SenderKeyRecord("first")))
	require.NoError(t, s.Store(ctx, id, model.SenderKeyRecord("second")))

	got, ok, err := s.Load(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, model.SenderKeyRecord("first"), got)

	closeStore(t, s)
	assert.Equal(t, int32(1), durable.puts.Load())
	assert.Equal(t, int32(1), remote.puts.Load())
	stored, ok := durable.get(id)
	require.True(t, ok)
	assert.Equal(t, model.SenderKeyRecord("first"), stored)
}

func TestStore_LoadMissingLeavesCacheEmpty(t *testing.T) {
	cache := NewCache()
	durable := newMemDurable()
	remote := newMemRemote()
	s := New(cache, durable, remote, loggedIn(), testutil.MakeNoopLogger())
	defer closeStore(t, s)

	got, ok, err := s.Load(context.Background(), testutil.NewIdentity("bob", 2))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.Equal(t, 0, cache.Len())
	assert.Equal(t, int32(1), durable.gets.Load())
	assert.Equal(t, int32(1), remote.gets.Load())
}

func TestStore_RoundTripServedFromCache(t *testing.T) {
	ctx := context.Background()
	durable := newMemDurable()
	remote := newMemRemote()
	s := New(NewCache(), durable, remote, loggedIn(), testutil.MakeNoopLogger())
	defer closeStore(t, s)
	id := testutil.NewIdentity("carol", 3)

	require.NoError(t, s.Store(ctx, id, model.SenderKeyRecord("state")))

	got, ok, err := s.Load(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, model.SenderKeyRecord("state"), got)
	assert.Zero(t, durable.gets.Load())
	assert.Zero(t, remote.gets.Load())
}

func TestStore_LoadBackfillsFromDurable(t *testing.T) {
	ctx := context.Background()
	durable := newMemDurable()
	remote := newMemRemote()
	id := testutil.NewIdentity("dave", 1)
	durable.records[id] = model.SenderKeyRecord("persisted")

	s := New(NewCache(), durable, remote, loggedIn(), testutil.MakeNoopLogger())
	defer closeStore(t, s)

	for i := 0; i < 2; i++ {
		got, ok, err := s.Load(ctx, id)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, model.SenderKeyRecord("persisted"), got)
	}
	assert.Equal(t, int32(1), durable.gets.Load())
	assert.Zero(t, remote.gets.Load())
}

func TestStore_LoadBackfillsFromRemote(t *testing.T) {
	ctx := context.Background()
	cache := NewCache()
	durable := newMemDurable()
	remote := newMemRemote()
	user := loggedIn()
	id := testutil.NewIdentity("erin", 4)
	remote.seed(defaultScope(user, id), id, model.SenderKeyRecord("backup"))

	s := New(cache, durable, remote, user, testutil.MakeNoopLogger())

	got, ok, err := s.Load(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, model.SenderKeyRecord("backup"), got)
	assert.Equal(t, 1, cache.Len())

	closeStore(t, s)
	stored, ok := durable.get(id)
	require.True(t, ok)
	assert.Equal(t, model.SenderKeyRecord("backup"), stored)
	assert.Zero(t, remote.puts.Load())
}

func TestStore_ConcurrentStoresHaveOneWinner(t *testing.T) {
	ctx := context.Background()
	durable := newMemDurable()
	remote := newMemRemote()
	s := New(NewCache(), durable, remote, loggedIn(), testutil.MakeNoopLogger())
	id := testutil.NewIdentity("frank", 1)

	const writers = 32
	candidates := make(map[string]struct{}, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		record := fmt.Sprintf("record-%d", i)
		candidates[record] = struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Store(ctx, id, model.SenderKeyRecord(record)))
		}()
	}
	wg.Wait()

	got, ok, err := s.Load(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, candidates, string(got))

	for i := 0; i < 5; i++ {
		again, _, err := s.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, got, again)
	}

	closeStore(t, s)
	assert.Equal(t, int32(1), durable.puts.Load())
	assert.Equal(t, int32(1), remote.puts.Load())
	stored, _ := durable.get(id)
	assert.Equal(t, got, stored)
}

func TestStore_MarkSharedWithStaysInMemory(t *testing.T) {
	durable := newMemDurable()
	remote := newMemRemote()
	s := New(NewCache(), durable, remote, loggedIn(), testutil.MakeNoopLogger())

	a := model.Address{Name: "alice", DeviceID: 1}
	b := model.Address{Name: "bob", DeviceID: 2}
	s.MarkSharedWith(a, b)
	s.MarkSharedWith(a)

	assert.True(t, s.shared.Contains(a))
	assert.True(t, s.shared.Contains(b))
	assert.Equal(t, 2, s.shared.Len())

	closeStore(t, s)
	assert.Zero(t, durable.puts.Load())
	assert.Zero(t, remote.puts.Load())
}

func TestStore_SharedWithQueriesUnsupported(t *testing.T) {
	s := New(NewCache(), nil, nil, nil, testutil.MakeNoopLogger())
	defer closeStore(t, s)
	s.MarkSharedWith(model.Address{Name: "alice", DeviceID: 1})

	for i := 0; i < 2; i++ {
		addrs, err := s.GetSharedWith(uuid.New())
		assert.ErrorIs(t, err, model.ErrUnsupportedUsage)
		assert.Nil(t, addrs)

		err = s.ClearSharedWith(model.Address{Name: "alice", DeviceID: 1})
		assert.ErrorIs(t, err, model.ErrUnsupportedUsage)
	}
	assert.Equal(t, 1, s.shared.Len())
}

func TestStore_CorruptedRemoteIsAbsent(t *testing.T) {
	tests := []struct {
		name     string
		getErr   error
		record   model.SenderKeyRecord
		validate RecordValidator
	}{
		{
			name:   "backup reports deserialization failure",
			getErr: fmt.Errorf("decode envelope: %w", model.ErrDeserialization),
		},
		{
			name:   "validator rejects payload",
			record: model.SenderKeyRecord("garbage"),
			validate: func(model.SenderKeyRecord) error {
				return errors.New("bad protobuf")
			},
		},
		{
			name:   "empty payload",
			record: model.SenderKeyRecord{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			cache := NewCache()
			remote := newMemRemote()
			remote.getErr = tt.getErr
			user := loggedIn()
			id := testutil.NewIdentity("grace", 1)
			if tt.record != nil {
				remote.seed(defaultScope(user, id), id, tt.record)
			}

			s := New(cache, newMemDurable(), remote, user, testutil.MakeBufferLogger(&buf),
				WithRecordValidator(tt.validate))
			defer closeStore(t, s)

			got, ok, err := s.Load(context.Background(), id)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Nil(t, got)
			assert.Equal(t, 0, cache.Len())
			assert.Contains(t, buf.String(), "failed to deserialize")

			resent := model.SenderKeyRecord("resent by peer")
			require.NoError(t, s.Store(context.Background(), id, resent))

			got, ok, err = s.Load(context.Background(), id)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, resent, got)
		})
	}
}

func TestStore_CorruptedDurableFallsThroughToRemote(t *testing.T) {
	durable := newMemDurable()
	remote := newMemRemote()
	user := loggedIn()
	id := testutil.NewIdentity("heidi", 1)
	durable.records[id] = model.SenderKeyRecord("broken")
	remote.seed(defaultScope(user, id), id, model.SenderKeyRecord("good"))

	validate := func(r model.SenderKeyRecord) error {
		if string(r) == "broken" {
			return errors.New("truncated")
		}
		return nil
	}
	s := New(NewCache(), durable, remote, user, testutil.MakeNoopLogger(), WithRecordValidator(validate))

	got, ok, err := s.Load(context.Background(), id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, model.SenderKeyRecord("good"), got)

	closeStore(t, s)
	stored, _ := durable.get(id)
	assert.Equal(t, model.SenderKeyRecord("good"), stored)
}

func TestStore_LoadReturnsIOErrors(t *testing.T) {
	t.Run("durable", func(t *testing.T) {
		cache := NewCache()
		durable := newMemDurable()
		durable.getErr = errors.New("disk I/O error")
		s := New(cache, durable, newMemRemote(), loggedIn(), testutil.MakeNoopLogger())
		defer closeStore(t, s)

		_, ok, err := s.Load(context.Background(), testutil.NewIdentity("ivan", 1))
		require.Error(t, err)
		assert.ErrorIs(t, err, durable.getErr)
		assert.False(t, ok)
		assert.Equal(t, 0, cache.Len())
	})

	t.Run("remote", func(t *testing.T) {
		cache := NewCache()
		remote := newMemRemote()
		remote.getErr = errors.New("connection refused")
		s := New(cache, newMemDurable(), remote, loggedIn(), testutil.MakeNoopLogger())
		defer closeStore(t, s)

		_, ok, err := s.Load(context.Background(), testutil.NewIdentity("ivan", 1))
		require.Error(t, err)
		assert.ErrorIs(t, err, remote.getErr)
		assert.False(t, ok)
		assert.Equal(t, 0, cache.Len())
	})
}

func TestStore_WithoutUser(t *testing.T) {
	ctx := context.Background()
	durable := newMemDurable()
	remote := newMemRemote()
	s := New(NewCache(), durable, remote, staticUser{}, testutil.MakeNoopLogger())
	id := testutil.NewIdentity("judy", 1)

	missing := testutil.NewIdentity("judy", 2)
	_, ok, err := s.Load(ctx, missing)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, remote.gets.Load())

	require.NoError(t, s.Store(ctx, id, model.SenderKeyRecord("local only")))
	got, ok, err := s.Load(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, model.SenderKeyRecord("local only"), got)

	closeStore(t, s)
	assert.Zero(t, durable.puts.Load())
	assert.Zero(t, remote.puts.Load())
}

func TestStore_PersistenceFailuresAreLogged(t *testing.T) {
	var buf bytes.Buffer
	cache := NewCache()
	durable := newMemDurable()
	durable.putErr = errors.New("database is locked")
	remote := newMemRemote()
	remote.putErr = errors.New("unavailable")
	s := New(cache, durable, remote, loggedIn(), testutil.MakeBufferLogger(&buf))
	id := testutil.NewIdentity("ken", 1)

	require.NoError(t, s.Store(context.Background(), id, model.SenderKeyRecord("state")))
	closeStore(t, s)

	_, ok := cache.Get(id)
	assert.True(t, ok)
	out := buf.String()
	assert.Contains(t, out, "failed to save sender key locally")
	assert.Contains(t, out, "failed to back up sender key")
	assert.Contains(t, out, model.ErrStorage.Error())
	assert.Equal(t, int32(1), durable.puts.Load())
	assert.Equal(t, int32(1), remote.puts.Load())
}

func TestStore_ConcurrentLoadsShareOneLookup(t *testing.T) {
	remote := newMemRemote()
	remote.block = make(chan struct{})
	user := loggedIn()
	id := testutil.NewIdentity("leo", 1)
	remote.seed(defaultScope(user, id), id, model.SenderKeyRecord("shared"))

	s := New(NewCache(), newMemDurable(), remote, user, testutil.MakeNoopLogger())
	defer closeStore(t, s)

	const readers = 16
	var wg sync.WaitGroup
	results := make(chan model.SenderKeyRecord, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, ok, err := s.Load(context.Background(), id)
			assert.NoError(t, err)
			assert.True(t, ok)
			results <- got
		}()
	}

	require.Eventually(t, func() bool { return remote.gets.Load() == 1 }, time.Second, time.Millisecond)
	close(remote.block)
	wg.Wait()
	close(results)

	for got := range results {
		assert.Equal(t, model.SenderKeyRecord("shared"), got)
	}
	assert.Equal(t, int32(1), remote.gets.Load())
}

func TestStore_CancelledLoadLeavesNoEntry(t *testing.T) {
	cache := NewCache()
	remote := newMemRemote()
	remote.block = make(chan struct{})
	user := loggedIn()
	id := testutil.NewIdentity("mallory", 1)
	remote.seed(defaultScope(user, id), id, model.SenderKeyRecord("late"))

	s := New(cache, newMemDurable(), remote, user, testutil.MakeNoopLogger())
	defer closeStore(t, s)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		for remote.gets.Load() == 0 {
			time.Sleep(time.Millisecond)
		}
		cancel()
	}()

	_, ok, err := s.Load(ctx, id)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())

	close(remote.block)
	got, ok, err := s.Load(context.Background(), id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, model.SenderKeyRecord("late"), got)
}

func TestStore_InvalidInput(t *testing.T) {
	cache := NewCache()
	s := New(cache, nil, nil, nil, testutil.MakeNoopLogger())
	defer closeStore(t, s)
	ctx := context.Background()

	err := s.Store(ctx, model.SenderKeyIdentity{DistributionID: uuid.New()}, model.SenderKeyRecord("x"))
	assert.ErrorIs(t, err, model.ErrInvalidIdentity)

	err = s.Store(ctx, testutil.NewIdentity("nick", 1), nil)
	assert.ErrorIs(t, err, model.ErrEmptyRecord)

	_, _, err = s.Load(ctx, model.SenderKeyIdentity{Sender: model.Address{Name: "nick"}})
	assert.ErrorIs(t, err, model.ErrInvalidIdentity)
	assert.Equal(t, 0, cache.Len())
}

func TestStore_StoreAfterClose(t *testing.T) {
	var buf bytes.Buffer
	durable := newMemDurable()
	s := New(NewCache(), durable, newMemRemote(), loggedIn(), testutil.MakeBufferLogger(&buf))
	closeStore(t, s)

	id := testutil.NewIdentity("olivia", 1)
	require.NoError(t, s.Store(context.Background(), id, model.SenderKeyRecord("late")))

	got, ok, err := s.Load(context.Background(), id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, model.SenderKeyRecord("late"), got)
	assert.Zero(t, durable.puts.Load())
	assert.Contains(t, buf.String(), model.ErrStoreClosed.Error())
}

func TestStore_WithSpaceResolver(t *testing.T) {
	remote := newMemRemote()
	user := loggedIn()
	s := New(NewCache(), nil, remote, user, testutil.MakeNoopLogger(),
		WithSpaceResolver(func(uuid.UUID) string { return "space-1" }),
		WithWriterLanes(1),
		WithWriteTimeout(time.Second),
	)
	id := testutil.NewIdentity("peggy", 1)

	require.NoError(t, s.Store(context.Background(), id, model.SenderKeyRecord("state")))
	closeStore(t, s)

	require.Len(t, remote.scopes, 1)
	assert.Equal(t, model.BackupScope{UserID: user.id, SpaceID: "space-1"}, remote.scopes[0])
}

func TestStore_SharedCacheAcrossStores(t *testing.T) {
	cache := NewCache()
	first := New(cache, nil, nil, nil, testutil.MakeNoopLogger())
	second := New(cache, nil, nil, nil, testutil.MakeNoopLogger())
	defer closeStore(t, first)
	defer closeStore(t, second)
	id := testutil.NewIdentity("quinn", 1)

	require.NoError(t, first.Store(context.Background(), id, model.SenderKeyRecord("one")))
	require.NoError(t, second.Store(context.Background(), id, model.SenderKeyRecord("two")))

	got, ok, err := second.Load(context.Background(), id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, model.SenderKeyRecord("one"), got)
}
