// FILE: file.go
package logpipe

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// FileSink appends one line per record to <dir>/<name><ext> and rotates
// when the cumulative size would exceed maxSize. Rotation shifts the
// numbered backups up, deletes the oldest beyond maxCount-1, renames the
// active file to suffix .1, and reopens a fresh file. I/O failures are
// absorbed: the sink reports itself unavailable for the retry cooldown,
// then offers itself again so a transient failure never kills file
// logging for the process lifetime.
type FileSink struct {
	mu        sync.Mutex
	dir       string
	name      string
	ext       string
	maxSize   int64
	maxCount  int
	file      *os.File
	size      int64
	available bool
	retryAt   time.Time
	closed    bool
}

// NewFileSink creates a file sink. ext includes the leading dot
// ("" for none). maxSize <= 0 disables rotation; maxCount < 2 keeps a
// single backup.
func NewFileSink(dir, name, ext string, maxSize int64, maxCount int) *FileSink {
	if maxCount < 2 {
		maxCount = 2
	}
	f := &FileSink{
		dir:      dir,
		name:     name,
		ext:      ext,
		maxSize:  maxSize,
		maxCount: maxCount,
	}
	if err := f.open(); err != nil {
		f.markFailed()
	} else {
		f.available = true
	}
	return f
}

// markFailed flags the sink unavailable until the retry cooldown
// elapses. Caller holds f.mu.
func (f *FileSink) markFailed() {
	f.available = false
	f.retryAt = time.Now().Add(reconnectCooldown)
}

// activePath returns the path of the file currently appended to.
func (f *FileSink) activePath() string {
	return filepath.Join(f.dir, f.name+f.ext)
}

func (f *FileSink) backupPath(i int) string {
	return filepath.Join(f.dir, fmt.Sprintf("%s.%d%s", f.name, i, f.ext))
}

func (f *FileSink) Write(rec Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return pipeErrorf("file sink closed")
	}
	if f.file == nil {
		if err := f.open(); err != nil {
			f.markFailed()
			return err
		}
	}

	line := rec.formatLine() + "\n"
	if f.maxSize > 0 && f.size+int64(len(line)) > f.maxSize {
		if err := f.rotate(); err != nil {
			f.markFailed()
			return err
		}
	}

	n, err := f.file.WriteString(line)
	f.size += int64(n)
	if err != nil {
		// Drop the handle so the next attempt after the cooldown
		// reopens instead of writing into a broken descriptor.
		_ = f.file.Close()
		f.file = nil
		f.markFailed()
		return errors.Wrapf(err, "logpipe: write to %s failed", f.activePath())
	}
	f.available = true
	return nil
}

func (f *FileSink) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.file == nil {
		return nil
	}
	return f.file.Sync()
}

func (f *FileSink) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	f.available = false
	if f.file == nil {
		return nil
	}
	err := combineErrors(f.file.Sync(), f.file.Close())
	f.file = nil
	return err
}

// IsAvailable reports true while the sink is healthy, and again once
// the retry cooldown after a failure has elapsed so Write can attempt
// to reopen.
func (f *FileSink) IsAvailable() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false
	}
	if f.available {
		return true
	}
	return time.Now().After(f.retryAt)
}

// Size returns the byte count written to the active file.
func (f *FileSink) Size() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.size
}

// open creates the directory if needed and opens the active file in
// append mode, picking up the size of an existing file.
func (f *FileSink) open() error {
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return errors.Wrapf(err, "logpipe: create log directory %s failed", f.dir)
	}
	file, err := os.OpenFile(f.activePath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrapf(err, "logpipe: open %s failed", f.activePath())
	}
	f.file = file
	f.size = 0
	if fi, errStat := file.Stat(); errStat == nil {
		f.size = fi.Size()
	}
	return nil
}

// rotate shifts <name>.i<ext> to <name>.(i+1)<ext> from the top down,
// deleting the oldest beyond maxCount-1, then renames the active file
// to suffix .1 and reopens a fresh one.
func (f *FileSink) rotate() error {
	if f.file != nil {
		_ = f.file.Sync()
		_ = f.file.Close()
		f.file = nil
	}

	for i := f.maxCount - 1; i >= 1; i-- {
		path := f.backupPath(i)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if i == f.maxCount-1 {
			_ = os.Remove(path)
		} else {
			_ = os.Rename(path, f.backupPath(i+1))
		}
	}

	if err := os.Rename(f.activePath(), f.backupPath(1)); err != nil {
		// Active file could not be archived; keep appending to it
		// rather than lose records.
		reopenErr := f.open()
		return combineErrors(errors.Wrap(err, "logpipe: rotate rename failed"), reopenErr)
	}

	return f.open()
}
