package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// DefaultSettleDelay is how long a file must stay quiet before it is handed off.
const DefaultSettleDelay = 300 * time.Millisecond

// WatchOptions configures WatchDirectory.
type WatchOptions struct {
	// Extensions limits which files are reported, e.g. ".conf". Empty reports everything.
	Extensions []string
	// SettleDelay waits for writers to finish before calling the handler.
	SettleDelay time.Duration
	// IncludeExisting reports files already present when the watch starts.
	IncludeExisting bool
}

// Watcher reports files dropped into a directory.
type Watcher struct {
	dir     string
	opts    WatchOptions
	exts    map[string]bool
	handler func(path string)

	procMutex sync.Mutex
	procMap   map[string]bool
}

func NewWatcher(dir string, opts WatchOptions, handler func(path string)) *Watcher {
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = DefaultSettleDelay
	}
	exts := make(map[string]bool, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		exts[strings.ToLower(ext)] = true
	}
	return &Watcher{
		dir:     dir,
		opts:    opts,
		exts:    exts,
		handler: handler,
		procMap: make(map[string]bool),
	}
}

// WatchDirectory blocks until ctx is done, calling handler once per file that
// is created or written in dir.
func WatchDirectory(ctx context.Context, dir string, opts WatchOptions, handler func(path string)) error {
	return NewWatcher(dir, opts, handler).Run(ctx)
}

func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("failed to create watch directory: %w", err)
	}
	fileInfo, err := os.Stat(w.dir)
	if err != nil {
		return fmt.Errorf("directory does not exist: %s", w.dir)
	}
	if !fileInfo.IsDir() {
		return fmt.Errorf("%s is not a directory", w.dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return err
	}
	log.Infof("Watching directory: %s", w.dir)

	if w.opts.IncludeExisting {
		entries, err := os.ReadDir(w.dir)
		if err != nil {
			log.Errorf("Error listing %s: %v", w.dir, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				w.dispatch(ctx, filepath.Join(w.dir, entry.Name()))
			}
		}
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			w.dispatch(ctx, event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error(err)
		case <-ctx.Done():
			log.Info("Watcher closed")
			return nil
		}
	}
}

func (w *Watcher) matches(path string) bool {
	if len(w.exts) == 0 {
		return true
	}
	return w.exts[strings.ToLower(filepath.Ext(path))]
}

func (w *Watcher) dispatch(ctx context.Context, path string) {
	if !w.matches(path) {
		return
	}

	w.procMutex.Lock()
	if w.procMap[path] {
		w.procMutex.Unlock()
		return
	}
	w.procMap[path] = true
	w.procMutex.Unlock()

	go func(file string) {
		defer func() {
			w.procMutex.Lock()
			delete(w.procMap, file)
			w.procMutex.Unlock()
		}()

		if !w.settle(ctx, file) {
			return
		}
		w.handler(file)
	}(path)
}

// settle waits until the file size stops changing.
func (w *Watcher) settle(ctx context.Context, path string) bool {
	var lastSize int64 = -1
	for {
		fi, err := os.Stat(path)
		if err != nil {
			return false
		}
		if fi.IsDir() {
			return false
		}
		if fi.Size() == lastSize {
			return true
		}
		lastSize = fi.Size()

		select {
		case <-ctx.Done():
			return false
		case <-time.After(w.opts.SettleDelay):
		}
	}
}
