package commands

import (
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dtroode/senderkeys/internal/model"
	"github.com/dtroode/senderkeys/internal/senderkey"
	"github.com/dtroode/senderkeys/internal/signalstore"
)

func (a *app) storeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "store <address> <device> <distribution-id> <base64-record>",
		Short: "Store a sender key record unless one already exists",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			id, err := parseIdentity(args[0], args[1], args[2])
			if err != nil {
				return err
			}
			record, err := base64.StdEncoding.DecodeString(args[3])
			if err != nil {
				return fmt.Errorf("invalid record: %w", err)
			}

			store, release, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if cerr := release(); cerr != nil && err == nil {
					err = cerr
				}
			}()

			if err := a.storeRecord(cmd, store, id, record); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "stored")
			return nil
		},
	}
}

func (a *app) loadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <address> <device> <distribution-id>",
		Short: "Print a sender key record as base64",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			id, err := parseIdentity(args[0], args[1], args[2])
			if err != nil {
				return err
			}

			store, release, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if cerr := release(); cerr != nil && err == nil {
					err = cerr
				}
			}()

			record, ok, err := a.loadRecord(cmd, store, id)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "absent")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), base64.StdEncoding.EncodeToString(record))
			return nil
		},
	}
}

// storeRecord saves record, going through the libsignal store when --signal
// is set so that undecodable input is rejected up front.
func (a *app) storeRecord(cmd *cobra.Command, store *senderkey.Store, id model.SenderKeyIdentity, raw model.SenderKeyRecord) error {
	if !a.validateSignal {
		return store.Store(cmd.Context(), id, raw)
	}

	rec, err := signalstore.DecodeRecord(raw)
	if err != nil {
		return fmt.Errorf("invalid sender key record: %w", err)
	}
	return signalstore.New(store, a.logger).StoreSenderKey(cmd.Context(), signalstore.Name(id), rec)
}

func (a *app) loadRecord(cmd *cobra.Command, store *senderkey.Store, id model.SenderKeyIdentity) (model.SenderKeyRecord, bool, error) {
	if !a.validateSignal {
		return store.Load(cmd.Context(), id)
	}

	rec, err := signalstore.New(store, a.logger).LoadSenderKey(cmd.Context(), signalstore.Name(id))
	if err != nil {
		return nil, false, err
	}
	if rec.IsEmpty() {
		return nil, false, nil
	}
	return rec.Serialize(), true, nil
}

func parseIdentity(address, device, distribution string) (model.SenderKeyIdentity, error) {
	deviceID, err := strconv.ParseUint(device, 10, 32)
	if err != nil {
		return model.SenderKeyIdentity{}, fmt.Errorf("invalid device id: %w", err)
	}
	distributionID, err := uuid.Parse(distribution)
	if err != nil {
		return model.SenderKeyIdentity{}, fmt.Errorf("invalid distribution id: %w", err)
	}

	id := model.SenderKeyIdentity{
		Sender:         model.Address{Name: address, DeviceID: uint32(deviceID)},
		DistributionID: distributionID,
	}
	return id, id.Validate()
}
