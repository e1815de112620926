package navmap

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// Watcher reports changed level files. A file is reported once it has been quiet
// for the debounce window, so a save spread over several writes yields one event
// after the last write.
type Watcher struct {
	watcher    *fsnotify.Watcher
	extensions map[string]struct{}
	Events     chan string
	Errors     chan error
	settled    chan settledFile
	closeCh    chan struct{}
	done       chan struct{}
	once       sync.Once
}

// NewWatcher watches the given files or directories for changes to files with one
// of the extensions (".png", ".yaml", ...). No extensions means every file.
func NewWatcher(extensions []string, paths ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, p := range paths {
		if err := w.Add(p); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher:    w,
		extensions: make(map[string]struct{}, len(extensions)),
		Events:     make(chan string, 16),
		Errors:     make(chan error, 1),
		settled:    make(chan settledFile, 16),
		closeCh:    make(chan struct{}),
		done:       make(chan struct{}),
	}
	for _, ext := range extensions {
		watcher.extensions[strings.ToLower(ext)] = struct{}{}
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
	})
	return err
}

type settledFile struct {
	name       string
	generation uint64
}

type pendingFile struct {
	timer      *time.Timer
	generation uint64
}

func (w *Watcher) run() {
	pending := make(map[string]*pendingFile)
	var generation uint64
	defer func() {
		for _, p := range pending {
			p.timer.Stop()
		}
		close(w.Events)
		close(w.Errors)
		close(w.done)
	}()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !w.matches(event.Name) {
				continue
			}
			if p, ok := pending[event.Name]; ok {
				p.timer.Stop()
			}
			generation++
			settled := settledFile{name: event.Name, generation: generation}
			pending[event.Name] = &pendingFile{
				generation: generation,
				timer: time.AfterFunc(watchDebounce, func() {
					select {
					case w.settled <- settled:
					case <-w.closeCh:
					}
				}),
			}
		case settled := <-w.settled:
			// timers replaced by a later event may still deliver
			if p, ok := pending[settled.name]; !ok || p.generation != settled.generation {
				continue
			}
			delete(pending, settled.name)
			select {
			case w.Events <- settled.name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) matches(name string) bool {
	if len(w.extensions) == 0 {
		return true
	}
	_, ok := w.extensions[strings.ToLower(filepath.Ext(name))]
	return ok
}
