package utils

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	homedir "github.com/mitchellh/go-homedir"
)

const lockRetryDelay = 100 * time.Millisecond

// SnapshotLock serializes inventory writes between processes sharing one
// database: a CLI command and a running web server.
type SnapshotLock struct {
	f *flock.Flock
}

// NewSnapshotLock returns the lock for dbPath. The lock file lives beside the
// database as "<db>.lock".
func NewSnapshotLock(dbPath string) (*SnapshotLock, error) {
	p, err := GetAbsDBPath(dbPath)
	if err != nil {
		return nil, err
	}
	return &SnapshotLock{f: flock.New(p + ".lock")}, nil
}

// Lock blocks until the lock is held or ctx is done.
func (l *SnapshotLock) Lock(ctx context.Context) error {
	ok, err := l.f.TryLock()
	if err == nil && !ok {
		Log.Warnf("Waiting for another dispensa process to release %s", l.f.Path())
		ok, err = l.f.TryLockContext(ctx, lockRetryDelay)
	}
	if err != nil {
		return fmt.Errorf("lock %s: %w", l.f.Path(), err)
	}
	if !ok {
		return fmt.Errorf("lock %s: not acquired", l.f.Path())
	}
	return nil
}

func (l *SnapshotLock) Unlock() error {
	err := l.f.Unlock()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("unlock %s: %w", l.f.Path(), err)
	}
	return nil
}

func (l *SnapshotLock) Path() string { return l.f.Path() }

// GetAbsDBPath resolves dbPath, defaulting to ~/.config/dispensa/dispensa.sqlite.
func GetAbsDBPath(dbPath string) (string, error) {
	if dbPath != "" {
		return filepath.Abs(dbPath)
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "dispensa", "dispensa.sqlite"), nil
}
