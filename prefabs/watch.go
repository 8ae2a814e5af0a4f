package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeKind says what a changed file under Dir feeds.
type ChangeKind int

const (
	ChangeConfig ChangeKind = iota
	ChangePrefab
	ChangeScene
	ChangeScript
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeConfig:
		return "config"
	case ChangePrefab:
		return "prefab"
	case ChangeScene:
		return "scene"
	case ChangeScript:
		return "script"
	default:
		return "unknown"
	}
}

// Change is one debounced file change.
type Change struct {
	Path string
	Kind ChangeKind
}

const (
	scenesDir  = "scenes"
	scriptsDir = "scripts"
	debounce   = 100 * time.Millisecond
)

// WatchDirs lists the directories hot reload covers: prefabs and config in
// Dir, scenes and tengo scripts in their subdirectories.
func WatchDirs() []string {
	return []string{Dir, filepath.Join(Dir, scenesDir), filepath.Join(Dir, scriptsDir)}
}

// ClassifyChange maps a path to the kind of data it holds. Files that are
// neither yaml nor tengo are ignored.
func ClassifyChange(path string) (ChangeKind, bool) {
	switch {
	case IsScriptFile(path):
		return ChangeScript, true
	case !IsSpecFile(path):
		return 0, false
	case filepath.Base(filepath.Dir(path)) == scenesDir:
		return ChangeScene, true
	case filepath.Base(path) == ConfigFile:
		return ChangeConfig, true
	default:
		return ChangePrefab, true
	}
}

// Watcher reports changed prefab files. Events and Errors are closed once the
// watcher stops, Events first.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan Change
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

// NewWatcher watches WatchDirs.
func NewWatcher() (*Watcher, error) {
	return newWatcher(WatchDirs()...)
}

func newWatcher(dirs ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		watcher: fw,
		Events:  make(chan Change, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer func() {
		close(w.Events)
		close(w.Errors)
	}()

	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			kind, ok := ClassifyChange(event.Name)
			if !ok {
				continue
			}
			now := time.Now()
			if t, seen := last[event.Name]; seen && now.Sub(t) < debounce {
				continue
			}
			last[event.Name] = now

			select {
			case w.Events <- Change{Path: event.Name, Kind: kind}:
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

func IsSpecFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func IsScriptFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".tengo"
}
