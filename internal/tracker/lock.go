package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"
	"time"
)

// Lock is the content of the lock file held by a running rerun process.
type Lock struct {
	PID       int       `json:"pid"`
	StartedAt time.Time `json:"started_at"`
	RunID     string    `json:"run_id"`
}

// ErrLockHeld is returned when another live process owns the report directory.
var ErrLockHeld = errors.New("rerun lock is held")

// AcquireLock takes the report directory lock for runID. A lock left by a
// dead process is removed and taken over. The returned func releases it.
func (w *Writer) AcquireLock(runID string) (func() error, error) {
	return w.acquireLock(runID, true)
}

func (w *Writer) acquireLock(runID string, reclaim bool) (func() error, error) {
	data, err := json.MarshalIndent(Lock{PID: os.Getpid(), StartedAt: time.Now(), RunID: runID}, "", "    ")
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(w.LockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if errors.Is(err, fs.ErrExist) {
		existing, readErr := w.readLock()
		if readErr == nil && existing.PID > 0 {
			if processAlive(existing.PID) {
				return nil, fmt.Errorf("%w by pid %d (run_id=%s)", ErrLockHeld, existing.PID, existing.RunID)
			}
			if reclaim && os.Remove(w.LockPath) == nil {
				return w.acquireLock(runID, false)
			}
		}
		return nil, fmt.Errorf("%w (lock file exists)", ErrLockHeld)
	}
	if err != nil {
		return nil, err
	}

	_, err = f.Write(data)
	if err == nil {
		err = f.Sync()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(w.LockPath)
		return nil, err
	}

	return func() error { return os.Remove(w.LockPath) }, nil
}

func (w *Writer) readLock() (Lock, error) {
	var l Lock
	b, err := os.ReadFile(w.LockPath)
	if err != nil {
		return l, err
	}
	return l, json.Unmarshal(b, &l)
}

func processAlive(pid int) bool {
	// Signal 0 checks existence and permission without delivering anything.
	return syscall.Kill(pid, 0) == nil
}
