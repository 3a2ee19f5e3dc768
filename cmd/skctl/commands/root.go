// Package commands implements the skctl command line client.
package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.mau.fi/util/dbutil"
	"google.golang.org/grpc"

	"github.com/dtroode/senderkeys/internal/api/grpc/backupv1"
	"github.com/dtroode/senderkeys/internal/backup/remote"
	"github.com/dtroode/senderkeys/internal/backup/seal"
	"github.com/dtroode/senderkeys/internal/config"
	"github.com/dtroode/senderkeys/internal/logger"
	"github.com/dtroode/senderkeys/internal/model"
	"github.com/dtroode/senderkeys/internal/repository/sqlite"
	"github.com/dtroode/senderkeys/internal/senderkey"
	"github.com/dtroode/senderkeys/internal/session"
	"github.com/dtroode/senderkeys/internal/signalstore"
)

type app struct {
	home           string
	offline        bool
	validateSignal bool

	cfg    *config.ClientConfig
	logger *logger.Logger
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "skctl",
		Short:        "Group sender key store client",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}

	root.PersistentFlags().StringVar(&a.home, "home", "", "client directory (default $SENDERKEYS_HOME or the user config dir)")
	root.PersistentFlags().BoolVar(&a.offline, "offline", false, "do not use the remote backup")
	root.PersistentFlags().BoolVar(&a.validateSignal, "signal", false, "treat records as libsignal sender key records")

	root.AddCommand(
		a.sessionCmd(),
		a.storeCmd(),
		a.loadCmd(),
		a.keygenCmd(),
		a.devTokenCmd(),
	)
	return root
}

func (a *app) setup() error {
	if err := config.LoadDotenvIfPresent(".env"); err != nil {
		return err
	}
	if a.home != "" {
		if err := os.Setenv("SENDERKEYS_HOME", a.home); err != nil {
			return err
		}
	}

	cfg, err := config.NewClientConfig()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return fmt.Errorf("failed to create %s: %w", cfg.Home, err)
	}

	a.cfg = cfg
	a.logger = logger.New(cfg.LogLevel)
	return nil
}

// openStore wires the local database, the session and, unless offline, the
// remote backup into a sender key store. The returned func flushes pending
// writes and releases everything.
func (a *app) openStore(ctx context.Context) (*senderkey.Store, func() error, error) {
	db, err := sqlite.Open(ctx, a.cfg.LocalDBPath)
	if err != nil {
		return nil, nil, err
	}

	sess, err := session.Open(a.cfg.SessionPath())
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	backup, conn, err := a.remoteBackup(sess)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	opts := []senderkey.Option{
		senderkey.WithWriterLanes(a.cfg.Store.WriterLanes),
		senderkey.WithWriteTimeout(a.cfg.Store.WriteTimeout),
	}
	if a.validateSignal {
		opts = append(opts, senderkey.WithRecordValidator(signalstore.ValidateRecord))
	}

	store := senderkey.New(nil, sqlite.NewSenderKeyRepository(db), backup, sess, a.logger, opts...)

	return store, func() error { return a.release(store, conn, db) }, nil
}

func (a *app) remoteBackup(sess *session.File) (model.RemoteBackup, *grpc.ClientConn, error) {
	if a.offline || a.cfg.Backup.Address == "" {
		return nil, nil, nil
	}

	conn, err := remote.Dial(a.cfg.Backup.Address, a.cfg.Backup.UseTLS, sess.Credentials(a.cfg.Backup.UseTLS))
	if err != nil {
		return nil, nil, err
	}

	var backup model.RemoteBackup = remote.New(backupv1.NewBackupClient(conn), a.cfg.Backup.Timeout)
	if a.cfg.Backup.AgeIdentity != "" {
		identity, err := seal.LoadIdentity(a.cfg.Backup.AgeIdentity)
		if err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
		backup = seal.New(backup, identity)
	}
	return backup, conn, nil
}

func (a *app) release(store *senderkey.Store, conn *grpc.ClientConn, db *dbutil.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Store.WriteTimeout)
	defer cancel()

	var errs []error
	if err := store.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := db.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
