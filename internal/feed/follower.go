package feed

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Follower tails a file and feeds every complete line to a Reader.
// A truncated file is read again from the start.
type Follower struct {
	reader   *Reader
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
	filePath string
	done     chan struct{}
	stopped  chan struct{}
	mu       sync.Mutex
	running  bool

	offset  int64
	partial []byte
}

// NewFollower creates a follower for path.
func NewFollower(path string, reader *Reader, logger *slog.Logger) (*Follower, error) {
	if logger == nil {
		logger = slog.Default()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Follower{
		reader:   reader,
		logger:   logger,
		watcher:  watcher,
		filePath: path,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}, nil
}

// Start reads the current contents, then follows appends.
func (f *Follower) Start() error {
	f.mu.Lock()
	if f.running {
		f.mu.Unlock()
		return nil
	}
	f.running = true
	f.mu.Unlock()

	// Watch the directory containing the file (more reliable for writes)
	if err := f.watcher.Add(filepath.Dir(f.filePath)); err != nil {
		return err
	}

	f.readNew()
	go f.watch()
	return nil
}

func (f *Follower) watch() {
	defer close(f.stopped)
	filename := filepath.Base(f.filePath)

	for {
		select {
		case event, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				f.readNew()
			}

		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			f.logger.Warn("feed watcher error", "error", err)

		case <-f.done:
			return
		}
	}
}

// readNew consumes bytes appended since the last read.
func (f *Follower) readNew() {
	file, err := os.Open(f.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			f.logger.Warn("failed to open feed file", "path", f.filePath, "error", err)
		}
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		f.logger.Warn("failed to stat feed file", "path", f.filePath, "error", err)
		return
	}
	if info.Size() < f.offset {
		f.logger.Debug("feed file truncated, reading from start", "path", f.filePath)
		f.offset = 0
		f.partial = nil
	}
	if _, err := file.Seek(f.offset, io.SeekStart); err != nil {
		f.logger.Warn("failed to seek feed file", "path", f.filePath, "error", err)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		f.logger.Warn("failed to read feed file", "path", f.filePath, "error", err)
		return
	}
	f.offset += int64(len(data))

	data = append(f.partial, data...)
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		f.reader.HandleLine(string(data[:i]))
		data = data[i+1:]
	}
	f.partial = append([]byte(nil), data...)
}

// Stop stops following and waits for the watch loop to exit.
func (f *Follower) Stop() error {
	f.mu.Lock()
	if !f.running {
		f.mu.Unlock()
		return nil
	}
	f.running = false
	close(f.done)
	err := f.watcher.Close()
	f.mu.Unlock()

	<-f.stopped
	return err
}
