package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"checkit-dashboard/internal/background"
	"checkit-dashboard/pkg/logger"
)

const (
	ReloadJobName = "navigation_reload"
	SweepJobName  = "toggle_state_sweep"
)

// NavigationWatcher reports changes to the navigation file. It watches the
// parent directory because editors usually replace files by rename, which
// drops a watch placed on the file itself.
type NavigationWatcher struct {
	watcher  *fsnotify.Watcher
	file     string
	target   string
	debounce time.Duration
	onChange func()
	log      *logrus.Entry

	mu    sync.Mutex
	timer *time.Timer
}

func NewNavigationWatcher(file string, debounce time.Duration, onChange func()) (*NavigationWatcher, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve navigation file: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &NavigationWatcher{
		watcher:  fsw,
		file:     abs,
		debounce: debounce,
		onChange: onChange,
		log:      logger.Logger.WithField("component", "navigation-watcher"),
	}
	if w.debounce <= 0 {
		w.debounce = 100 * time.Millisecond
	}

	dirs := []string{filepath.Dir(abs)}

	// fsnotify does not follow symlinks, so the target directory is watched too.
	if info, err := os.Lstat(abs); err == nil && info.Mode()&os.ModeSymlink != 0 {
		if target, err := filepath.EvalSymlinks(abs); err == nil {
			w.target = target
			if dir := filepath.Dir(target); dir != dirs[0] {
				dirs = append(dirs, dir)
			}
		} else {
			w.log.WithError(err).Warn("Failed to resolve navigation file symlink")
		}
	}

	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	return w, nil
}

// Start processes file events until ctx is cancelled.
func (w *NavigationWatcher) Start(ctx context.Context) {
	w.log.WithField("file", w.file).Info("Watching navigation file")

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.relevant(event) {
				w.log.Debugf("fsnotify event: %s op=%v", event.Name, event.Op)
				w.schedule()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Error("Navigation watcher error")
		case <-ctx.Done():
			w.Close()
			return
		}
	}
}

func (w *NavigationWatcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Clean(event.Name)
	return name == w.file || (w.target != "" && name == w.target)
}

// schedule fires onChange once the file has been quiet for the debounce
// interval, so a burst of writes triggers a single reload of the final file.
func (w *NavigationWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.log.WithField("file", filepath.Base(w.file)).Info("Navigation file changed")
		if w.onChange != nil {
			w.onChange()
		}
	})
}

func (w *NavigationWatcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

type Reloader interface {
	Reload() error
}

type Sweeper interface {
	SweepStates() int
}

// ReloadJob re-reads the navigation file. Retries cover reads that race with
// an editor that is still writing.
func ReloadJob(r Reloader) background.Job {
	return background.Job{
		Name:        ReloadJobName,
		Timeout:     10 * time.Second,
		RetryPolicy: background.RetryPolicy{MaxRetries: 2, Backoff: 500 * time.Millisecond},
		Run: func(ctx context.Context) error {
			return r.Reload()
		},
	}
}

func SweepJob(s Sweeper) background.Job {
	return background.Job{
		Name:    SweepJobName,
		Timeout: 30 * time.Second,
		Run: func(ctx context.Context) error {
			if removed := s.SweepStates(); removed > 0 {
				logger.Info("Expired navigation state swept", map[string]interface{}{"sessions": removed})
			}
			return nil
		},
	}
}
