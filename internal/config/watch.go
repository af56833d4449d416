package config

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/rileyhilliard/dbdash/internal/errors"
	"github.com/rileyhilliard/dbdash/internal/logger"
)

// Watcher reloads a config file whenever it changes on disk.
type Watcher struct {
	path     string
	fs       *fsnotify.Watcher
	onChange func(*Config)
	onError  func(error)
	log      logger.Logger

	done chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// Watch starts watching path. Each change is re-read and validated; valid
// configs go to onChange and failures to onError (which may be nil). The
// directory is watched so editors that replace the file are handled.
func Watch(path string, onChange func(*Config), onError func(error), log logger.Logger) (*Watcher, error) {
	if log == nil {
		log = logger.Noop()
	}
	if onError == nil {
		onError = func(error) {}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig, "Couldn't resolve config path", "")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig, "Couldn't start config watcher", "")
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't watch config directory", "Check the directory exists and is readable")
	}

	w := &Watcher{
		path:     abs,
		fs:       fw,
		onChange: onChange,
		onError:  onError,
		log:      log,
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			w.log.Debug("config %s changed (%s)", w.path, ev.Op)
			w.reload()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.onError(errors.WrapWithCode(err, errors.ErrConfig, "Config watcher failed", ""))
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err == nil {
		err = Validate(cfg)
	}
	if err != nil {
		w.log.Warn("ignoring invalid config change: %s", errors.Summary(err))
		w.onError(err)
		return
	}
	w.onChange(cfg)
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
		w.wg.Wait()
	})
	return err
}
