package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce is how long a file must stay unchanged before it is re-read.
const debounce = 100 * time.Millisecond

// Reload is a profile that was re-read after its file changed.
type Reload struct {
	Path    string
	Profile *Profile
}

// Watcher re-reads profile files when they change. Reloads and errors are
// delivered on separate channels; both are closed by Close.
type Watcher struct {
	watcher *fsnotify.Watcher
	files   map[string]bool
	dirs    map[string]bool
	Reloads chan Reload
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher watches each path. A directory matches every YAML file in it;
// a file is watched through its parent directory so atomic saves are seen.
func NewWatcher(paths ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	files := make(map[string]bool)
	dirs := make(map[string]bool)
	watched := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = w.Close()
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			_ = w.Close()
			return nil, err
		}
		dir := abs
		if info.IsDir() {
			dirs[dir] = true
		} else {
			dir = filepath.Dir(abs)
			files[abs] = true
		}
		if watched[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
		watched[dir] = true
	}

	watcher := &Watcher{
		watcher: w,
		files:   files,
		dirs:    dirs,
		Reloads: make(chan Reload, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Reloads)
		close(w.Errors)
	})
	return err
}

// run collects events per file and reloads a file once it has been quiet
// for the debounce interval, so a save that writes twice is read once.
func (w *Watcher) run() {
	defer close(w.done)
	pending := make(map[string]bool)
	quiet := time.NewTimer(debounce)
	quiet.Stop()
	defer quiet.Stop()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !w.matches(event.Name) {
				continue
			}
			pending[event.Name] = true
			quiet.Reset(debounce)
		case <-quiet.C:
			for path := range pending {
				delete(pending, path)
				if !w.reload(path) {
					return
				}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendErr(err)
		case <-w.closeCh:
			return
		}
	}
}

// reload reports false when the watcher closed while delivering.
func (w *Watcher) reload(path string) bool {
	p, err := Load(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			w.sendErr(err)
		}
		return true
	}
	select {
	case w.Reloads <- Reload{Path: path, Profile: p}:
		return true
	case <-w.closeCh:
		return false
	}
}

// sendErr drops the error if the previous one was never read.
func (w *Watcher) sendErr(err error) {
	select {
	case w.Errors <- err:
	default:
	}
}

func (w *Watcher) matches(path string) bool {
	if w.files[path] {
		return true
	}
	return w.dirs[filepath.Dir(path)] && isProfileFile(path)
}

func isProfileFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
