// Package seal encrypts records with age before they leave the device.
package seal

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"filippo.io/age"

	"github.com/dtroode/senderkeys/internal/model"
)

// Backup wraps a remote backup so the server only ever sees ciphertext.
type Backup struct {
	next      model.RemoteBackup
	identity  *age.X25519Identity
	recipient *age.X25519Recipient
}

var _ model.RemoteBackup = (*Backup)(nil)

// New creates a sealing decorator around next.
func New(next model.RemoteBackup, identity *age.X25519Identity) *Backup {
	return &Backup{
		next:      next,
		identity:  identity,
		recipient: identity.Recipient(),
	}
}

// Put encrypts record and forwards it.
func (b *Backup) Put(ctx context.Context, scope model.BackupScope, id model.SenderKeyIdentity, record model.SenderKeyRecord) error {
	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, b.recipient)
	if err != nil {
		return fmt.Errorf("failed to seal sender key: %w", err)
	}
	if _, err := w.Write(record); err != nil {
		return fmt.Errorf("failed to seal sender key: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to seal sender key: %w", err)
	}

	return b.next.Put(ctx, scope, id, buf.Bytes())
}

// Get fetches and decrypts a record. Ciphertext that does not open with the
// local identity is reported as model.ErrDeserialization.
func (b *Backup) Get(ctx context.Context, scope model.BackupScope, id model.SenderKeyIdentity) (model.SenderKeyRecord, error) {
	sealed, err := b.next.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	r, err := age.Decrypt(bytes.NewReader(sealed), b.identity)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrDeserialization, err)
	}
	record, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrDeserialization, err)
	}
	return record, nil
}

// GenerateIdentity creates a fresh X25519 identity.
func GenerateIdentity() (*age.X25519Identity, error) {
	id, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("failed to generate age identity: %w", err)
	}
	return id, nil
}

// WriteIdentity stores identity at path with owner-only permissions.
// An existing file is only replaced when force is set.
func WriteIdentity(path string, identity *age.X25519Identity, force bool) error {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create identity file: %w", err)
	}
	defer f.Close()

	content := fmt.Sprintf("# public key: %s\n%s\n", identity.Recipient(), identity)
	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("failed to write identity file: %w", err)
	}
	return nil
}

// LoadIdentity reads the first X25519 identity from path. Comment and blank
// lines are skipped.
func LoadIdentity(path string) (*age.X25519Identity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open identity file: %w", err)
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		id, err := age.ParseX25519Identity(line)
		if err != nil {
			return nil, fmt.Errorf("failed to parse identity: %w", err)
		}
		return id, nil
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("failed to read identity file: %w", err)
	}
	return nil, fmt.Errorf("no age identity in %s", path)
}
