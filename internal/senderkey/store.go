// Package senderkey implements the group sender-key store: an in-memory cache
// in front of a local durable store and a per-user remote backup.
//
// Lookups go cache, durable, remote and backfill every faster tier on a hit.
// Writes land in the cache synchronously and reach the slower tiers through
// ordered background lanes. The first record stored for an identity wins for
// the rest of the process.
package senderkey

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/dtroode/senderkeys/internal/logger"
	"github.com/dtroode/senderkeys/internal/model"
)

const (
	defaultWriteTimeout = 30 * time.Second
	defaultWriterLanes  = 4
)

// SpaceResolver maps a distribution id to the space owning it.
type SpaceResolver func(distributionID uuid.UUID) string

// RecordValidator checks that record bytes deserialize into ratchet state.
type RecordValidator func(record model.SenderKeyRecord) error

type options struct {
	spaceOf      SpaceResolver
	validate     RecordValidator
	writeTimeout time.Duration
	writerLanes  int
}

// Option configures a Store.
type Option func(*options)

// WithSpaceResolver overrides the default space lookup, which uses the
// distribution id itself as the space id.
func WithSpaceResolver(resolver SpaceResolver) Option {
	return func(o *options) {
		if resolver != nil {
			o.spaceOf = resolver
		}
	}
}

// WithRecordValidator sets the check applied to records read from the durable and remote tiers.
func WithRecordValidator(validate RecordValidator) Option {
	return func(o *options) { o.validate = validate }
}

// WithWriteTimeout bounds one background persistence job.
func WithWriteTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.writeTimeout = timeout
		}
	}
}

// WithWriterLanes sets the number of ordered persistence lanes.
func WithWriterLanes(lanes int) Option {
	return func(o *options) {
		if lanes > 0 {
			o.writerLanes = lanes
		}
	}
}

// Store coordinates the three sender-key tiers. A nil durable or remote
// backend disables that tier.
type Store struct {
	cache    *Cache
	shared   *SharingSet
	durable  model.DurableStore
	remote   model.RemoteBackup
	users    model.CurrentUserProvider
	logger   *logger.Logger
	spaceOf  SpaceResolver
	validate RecordValidator
	writer   *persister
	flights  singleflight.Group
}

// New creates a Store on top of an existing cache. Close must be called to
// flush pending background writes.
func New(
	cache *Cache,
	durable model.DurableStore,
	remote model.RemoteBackup,
	users model.CurrentUserProvider,
	logger *logger.Logger,
	opts ...Option,
) *Store {
	o := options{
		spaceOf:      func(distributionID uuid.UUID) string { return distributionID.String() },
		writeTimeout: defaultWriteTimeout,
		writerLanes:  defaultWriterLanes,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if cache == nil {
		cache = NewCache()
	}

	return &Store{
		cache:    cache,
		shared:   NewSharingSet(),
		durable:  durable,
		remote:   remote,
		users:    users,
		logger:   logger.Component("senderkey"),
		spaceOf:  o.spaceOf,
		validate: o.validate,
		writer:   newPersister(o.writerLanes, o.writeTimeout),
	}
}

// Store saves record for id unless a record is already cached for it, in
// which case the call does nothing. Durable and remote writes happen in the
// background; their failures are logged and never returned.
func (s *Store) Store(ctx context.Context, id model.SenderKeyIdentity, record model.SenderKeyRecord) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if len(record) == 0 {
		return model.ErrEmptyRecord
	}

	log := s.with(id)
	if _, inserted := s.cache.PutIfAbsent(id, record); !inserted {
		log.Debug("sender key already exists, ignoring store")
		return nil
	}

	userID, ok := s.currentUser(ctx)
	if !ok {
		log.Debug("sender key kept in memory only", "reason", model.ErrNotAuthenticated.Error())
		return nil
	}

	scope := model.BackupScope{UserID: userID, SpaceID: s.spaceOf(id.DistributionID)}
	s.persist(ctx, id, record.Clone(), &scope)
	return nil
}

// Load returns the record for id and whether one was found. Missing and
// corrupted records are both reported as absent; only I/O failures and
// cancellation produce an error.
func (s *Store) Load(ctx context.Context, id model.SenderKeyIdentity) (model.SenderKeyRecord, bool, error) {
	if err := id.Validate(); err != nil {
		return nil, false, err
	}
	if record, ok := s.cache.Get(id); ok {
		return record, true, nil
	}

	for {
		ch := s.flights.DoChan(id.String(), func() (any, error) {
			return s.loadSlow(ctx, id)
		})

		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		case res := <-ch:
			if res.Err != nil {
				// The shared lookup belonged to a caller that gave up.
				if res.Shared && isContextErr(res.Err) && ctx.Err() == nil {
					continue
				}
				return nil, false, res.Err
			}
			record, _ := res.Val.(model.SenderKeyRecord)
			if record == nil {
				return nil, false, nil
			}
			return record.Clone(), true, nil
		}
	}
}

// MarkSharedWith records that addresses already received the distribution.
func (s *Store) MarkSharedWith(addresses ...model.Address) {
	s.shared.Add(addresses...)
}

// GetSharedWith is not part of the supported usage pattern and always fails.
func (s *Store) GetSharedWith(_ uuid.UUID) ([]model.Address, error) {
	return nil, fmt.Errorf("get sender key shared with: %w", model.ErrUnsupportedUsage)
}

// ClearSharedWith is not part of the supported usage pattern and always fails.
func (s *Store) ClearSharedWith(_ ...model.Address) error {
	return fmt.Errorf("clear sender key shared with: %w", model.ErrUnsupportedUsage)
}

// Close stops background persistence and waits for queued writes.
func (s *Store) Close(ctx context.Context) error {
	return s.writer.close(ctx)
}

func (s *Store) loadSlow(ctx context.Context, id model.SenderKeyIdentity) (model.SenderKeyRecord, error) {
	if record, ok := s.cache.Get(id); ok {
		return record, nil
	}

	record, err := s.loadDurable(ctx, id)
	if err != nil {
		return nil, err
	}
	if record != nil {
		return s.backfill(ctx, id, record, false)
	}

	if s.remote == nil {
		return nil, nil
	}
	userID, ok := s.currentUser(ctx)
	if !ok {
		s.with(id).Debug("skipping remote sender key lookup", "reason", model.ErrNotAuthenticated.Error())
		return nil, nil
	}
	scope := model.BackupScope{UserID: userID, SpaceID: s.spaceOf(id.DistributionID)}

	record, err = s.loadRemote(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}
	return s.backfill(ctx, id, record, true)
}

func (s *Store) loadDurable(ctx context.Context, id model.SenderKeyIdentity) (model.SenderKeyRecord, error) {
	if s.durable == nil {
		return nil, nil
	}
	record, err := s.durable.Get(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return nil, nil
	}
	if err == nil {
		err = s.check(record)
	}
	if errors.Is(err, model.ErrDeserialization) {
		s.with(id).Warn("ignoring unreadable sender key in local store", "error", err)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load sender key from local store: %w", err)
	}
	return record, nil
}

func (s *Store) loadRemote(ctx context.Context, scope model.BackupScope, id model.SenderKeyIdentity) (model.SenderKeyRecord, error) {
	record, err := s.remote.Get(ctx, scope, id)
	if errors.Is(err, model.ErrNotFound) {
		return nil, nil
	}
	if err == nil {
		err = s.check(record)
	}
	if errors.Is(err, model.ErrDeserialization) {
		s.with(id).Error("failed to deserialize sender key record from backup", "error", err)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load sender key from backup: %w", err)
	}
	return record, nil
}

// backfill caches a record found in a slower tier. Nothing is written when
// the caller has already given up. A concurrent Store that got there first
// keeps its record.
func (s *Store) backfill(ctx context.Context, id model.SenderKeyIdentity, record model.SenderKeyRecord, fromRemote bool) (model.SenderKeyRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cached, inserted := s.cache.PutIfAbsent(id, record)
	if inserted && fromRemote {
		s.persist(ctx, id, cached.Clone(), nil)
	}
	return cached, nil
}

// persist queues the durable write and, when scope is set, the remote upload.
func (s *Store) persist(ctx context.Context, id model.SenderKeyIdentity, record model.SenderKeyRecord, scope *model.BackupScope) {
	log := s.with(id)
	submitted := s.writer.submit(ctx, id, func(ctx context.Context) {
		if s.durable != nil {
			if err := s.durable.Put(ctx, id, record); err != nil {
				log.Error("failed to save sender key locally", "error", fmt.Errorf("%w: %w", model.ErrStorage, err))
			}
		}
		if scope != nil && s.remote != nil {
			if err := s.remote.Put(ctx, *scope, id, record); err != nil {
				log.Error("failed to back up sender key", "error", fmt.Errorf("%w: %w", model.ErrStorage, err), "space_id", scope.SpaceID)
			}
		}
	})
	if !submitted {
		log.Warn("record kept in memory only", "error", model.ErrStoreClosed)
	}
}

func (s *Store) check(record model.SenderKeyRecord) error {
	if len(record) == 0 {
		return fmt.Errorf("%w: empty payload", model.ErrDeserialization)
	}
	if s.validate == nil {
		return nil
	}
	if err := s.validate(record); err != nil {
		return fmt.Errorf("%w: %w", model.ErrDeserialization, err)
	}
	return nil
}

func (s *Store) currentUser(ctx context.Context) (uuid.UUID, bool) {
	if s.users == nil {
		return uuid.Nil, false
	}
	return s.users.CurrentUser(ctx)
}

func (s *Store) with(id model.SenderKeyIdentity) *slog.Logger {
	return s.logger.With("sender", id.Sender.String(), "distribution_id", id.DistributionID.String())
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
