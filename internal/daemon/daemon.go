package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"

	"paperflow/internal/config"
	"paperflow/internal/logging"
	"paperflow/internal/pipeline"
)

// LockFileName is the flock file guarding against concurrent instances. The
// one-shot run command takes the same lock so a manual run never races an
// active daemon.
const LockFileName = "paperflowd.lock"

// Daemon runs passes continuously: on an interval, and early whenever the
// source folders change.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	pipe   *pipeline.Pipeline

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
}

// New constructs a daemon around an initialized pipeline.
func New(cfg *config.Config, pipe *pipeline.Pipeline, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || pipe == nil || logger == nil {
		return nil, errors.New("daemon requires config, pipeline, and logger")
	}
	lockPath := filepath.Join(cfg.Paths.LogDir, LockFileName)
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		pipe:     pipe,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// LockPath returns the path of the single-instance lock file.
func (d *Daemon) LockPath() string {
	return d.lockPath
}

// Running reports whether the daemon loop is active.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// Run acquires the instance lock and processes until the context is
// cancelled. An immediate pass runs at startup, then passes repeat on the
// configured interval, with folder activity pulling the next pass forward
// after a short debounce.
func (d *Daemon) Run(ctx context.Context) error {
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another paperflow instance holds %s", d.lockPath)
	}
	defer func() {
		if err := d.lock.Unlock(); err != nil {
			d.logger.Warn("failed to release instance lock", logging.Error(err))
		}
	}()

	if err := d.cfg.EnsureDirectories(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create folder watcher: %w", err)
	}
	defer watcher.Close()
	for _, folder := range config.SourceFolders() {
		dir := filepath.Join(d.cfg.Paths.ProcessDir, folder)
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	d.running.Store(true)
	defer d.running.Store(false)
	d.logger.Info("daemon started",
		logging.String("process_dir", d.cfg.Paths.ProcessDir),
		logging.String("lock", d.lockPath),
		logging.Duration("interval", d.interval()),
	)

	d.runPass(ctx)

	ticker := time.NewTicker(d.interval())
	defer ticker.Stop()

	debounce := time.NewTimer(d.debounce())
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("daemon stopping")
			return nil
		case <-ticker.C:
			d.runPass(ctx)
		case <-debounce.C:
			d.runPass(ctx)
		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("folder watch channel closed")
			}
			if relevant(event) {
				d.logger.Debug("folder activity", logging.String("path", event.Name), logging.String("op", event.Op.String()))
				debounce.Reset(d.debounce())
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("folder watch error channel closed")
			}
			d.logger.Warn("folder watch error", logging.Error(err))
		}
	}
}

func (d *Daemon) runPass(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	summary, err := d.pipe.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		d.logger.Error("pass failed", logging.Error(err))
		return
	}
	if !summary.Clean() {
		d.logger.Warn("pass completed with failures",
			logging.Int("failed", summary.Failed),
			logging.Int("relocation_failures", summary.RelocationFailures),
		)
	}
}

// relevant filters watch events down to the ones that can introduce a new
// deliverable file. Writes count: a file still being copied in triggers the
// debounce again and the pass only starts once it settles.
func relevant(event fsnotify.Event) bool {
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename)
}

func (d *Daemon) interval() time.Duration {
	if d.cfg.Workflow.PassInterval > 0 {
		return time.Duration(d.cfg.Workflow.PassInterval) * time.Second
	}
	return 5 * time.Minute
}

func (d *Daemon) debounce() time.Duration {
	if d.cfg.Workflow.WatchDebounce > 0 {
		return time.Duration(d.cfg.Workflow.WatchDebounce) * time.Second
	}
	return 2 * time.Second
}
