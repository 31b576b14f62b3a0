//go:build !unix

package db

import (
	"errors"
	"os"
	"time"
)

// lockFile falls back to an exclusive create. A lock file left behind by a
// crashed process has to be removed by hand.
func lockFile(path string, timeout time.Duration) (*os.File, error) {
	deadline := time.Now().Add(timeout)
	for {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o600)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, os.ErrExist) || time.Now().After(deadline) {
			return nil, errors.Join(ErrUnavailable, errors.New("ledger file is locked by another process"), err)
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func unlockFile(f *os.File) error {
	name := f.Name()
	err := f.Close()
	_ = os.Remove(name)
	return err
}
