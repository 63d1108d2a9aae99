package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// ErrAlreadyRunning means another pipeline process holds the lock.
var ErrAlreadyRunning = errors.New("pipeline already running")

// FileLock is a PID-based lock file guarding against overlapping runs.
// A lock whose recorded process no longer exists is treated as stale
// and silently replaced, so a crashed run never wedges the schedule.
type FileLock struct {
	Path string
	Log  *zap.Logger

	// Alive reports whether the pid belongs to a live process.
	// Swappable for tests; nil means the real check.
	Alive func(pid int) bool
}

type lockInfo struct {
	PID       int       `json:"pid"`
	StartedAt time.Time `json:"started_at"`
}

// Acquire takes the lock or returns ErrAlreadyRunning.
func (l *FileLock) Acquire() error {
	log := l.Log
	if log == nil {
		log = zap.NewNop()
	}
	alive := l.Alive
	if alive == nil {
		alive = processAlive
	}

	if data, err := os.ReadFile(l.Path); err == nil {
		var info lockInfo
		if err := json.Unmarshal(data, &info); err != nil || info.PID == 0 {
			log.Warn("corrupted lock file found, removing", zap.String("path", l.Path))
		} else if alive(info.PID) {
			log.Warn("pipeline already running",
				zap.Int("pid", info.PID),
				zap.Time("started_at", info.StartedAt))
			return fmt.Errorf("%w (pid %d, started %s)",
				ErrAlreadyRunning, info.PID, info.StartedAt.Format(time.RFC3339))
		} else {
			log.Info("stale lock file found, removing", zap.Int("pid", info.PID))
		}
		if err := os.Remove(l.Path); err != nil {
			return fmt.Errorf("failed to remove stale lock file: %w", err)
		}
	}

	info := lockInfo{PID: os.Getpid(), StartedAt: time.Now()}
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal lock file: %w", err)
	}
	if err := os.WriteFile(l.Path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write lock file: %w", err)
	}
	return nil
}

// Release removes the lock file. Safe to call when not held.
func (l *FileLock) Release() {
	_ = os.Remove(l.Path)
}

// processAlive sends signal 0, which tests for existence without
// touching the process.
func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}
