// Package session keeps the logged-in user of the client on disk.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/dtroode/senderkeys/internal/model"
)

// FileName is the session file inside the client home directory.
const FileName = "session.toml"

// ErrNoSession is returned when nobody is logged in.
var ErrNoSession = errors.New("no active session")

// State is the persisted login.
type State struct {
	Version     int       `toml:"version"`
	UserID      string    `toml:"user_id"`
	AccessToken string    `toml:"access_token"`
	Server      string    `toml:"server,omitempty"`
	LoggedInAt  time.Time `toml:"logged_in_at"`
}

// File is a session stored in a TOML file. It implements
// model.CurrentUserProvider.
type File struct {
	path string

	mu     sync.RWMutex
	state  State
	userID uuid.UUID
}

var _ model.CurrentUserProvider = (*File)(nil)

// Open reads the session at path. A missing file yields a logged out session.
func Open(path string) (*File, error) {
	f := &File{path: path}

	var s State
	if _, err := toml.DecodeFile(path, &s); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return f, nil
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if s.UserID == "" {
		return f, nil
	}

	userID, err := uuid.Parse(s.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: invalid user id: %w", err)
	}
	f.state = s
	f.userID = userID
	return f, nil
}

// Path returns the session file location.
func (f *File) Path() string {
	return f.path
}

// CurrentUser returns the logged-in user.
func (f *File) CurrentUser(_ context.Context) (uuid.UUID, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.userID, f.userID != uuid.Nil
}

// State returns a copy of the stored login.
func (f *File) State() (State, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.userID == uuid.Nil {
		return State{}, ErrNoSession
	}
	return f.state, nil
}

// Login replaces the session with userID and token and writes it to disk.
func (f *File) Login(userID uuid.UUID, token, server string) error {
	if userID == uuid.Nil {
		return fmt.Errorf("%w: user id is empty", model.ErrNotAuthenticated)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("%w: access token is empty", model.ErrNotAuthenticated)
	}

	s := State{
		Version:     1,
		UserID:      userID.String(),
		AccessToken: token,
		Server:      strings.TrimSpace(server),
		LoggedInAt:  time.Now().UTC().Truncate(time.Second),
	}
	if err := write(f.path, s); err != nil {
		return err
	}

	f.mu.Lock()
	f.state = s
	f.userID = userID
	f.mu.Unlock()
	return nil
}

// Logout removes the session file.
func (f *File) Logout() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}

	f.mu.Lock()
	f.state = State{}
	f.userID = uuid.Nil
	f.mu.Unlock()
	return nil
}

// Credentials returns per-call credentials sending the session token.
func (f *File) Credentials(requireTLS bool) *Bearer {
	return &Bearer{session: f, requireTLS: requireTLS}
}

func (f *File) token() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state.AccessToken
}

func write(path string, s State) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	out, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	defer out.Close()

	if err := toml.NewEncoder(out).Encode(s); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}
