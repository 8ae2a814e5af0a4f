package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestClassifyChange(t *testing.T) {
	tests := []struct {
		path   string
		want   ChangeKind
		wantOK bool
	}{
		{path: "prefabs/config.yaml", want: ChangeConfig, wantOK: true},
		{path: "prefabs/crate.yaml", want: ChangePrefab, wantOK: true},
		{path: "prefabs/glass.YML", want: ChangePrefab, wantOK: true},
		{path: "prefabs/scenes/stack.yaml", want: ChangeScene, wantOK: true},
		{path: "prefabs/scenes/config.yaml", want: ChangeScene, wantOK: true},
		{path: "prefabs/scripts/plank.tengo", want: ChangeScript, wantOK: true},
		{path: "prefabs/scripts/notes.txt"},
		{path: "prefabs/.crate.yaml.swp"},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			got, ok := ClassifyChange(tc.path)
			if ok != tc.wantOK {
				t.Fatalf("expected ok=%v, got %v", tc.wantOK, ok)
			}
			if ok && got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestWatchDirsCoverScenesAndScripts(t *testing.T) {
	dirs := WatchDirs()
	want := []string{Dir, filepath.Join(Dir, "scenes"), filepath.Join(Dir, "scripts")}
	if len(dirs) != len(want) {
		t.Fatalf("expected %v, got %v", want, dirs)
	}
	for i := range want {
		if dirs[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, dirs)
		}
	}
}

func TestWatcherReportsChangesAndCloses(t *testing.T) {
	dir := t.TempDir()
	scripts := filepath.Join(dir, "scripts")
	if err := os.Mkdir(scripts, 0o755); err != nil {
		t.Fatal(err)
	}
	w, err := newWatcher(dir, scripts)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}

	path := filepath.Join(scripts, "plank.tengo")
	if err := os.WriteFile(path, []byte("shatter := false"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case change := <-w.Events:
		if change.Path != path || change.Kind != ChangeScript {
			t.Fatalf("unexpected change %+v", change)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no change reported")
	}

	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	deadline := time.After(2 * time.Second)
	for eventsOpen := true; eventsOpen; {
		select {
		case _, eventsOpen = <-w.Events:
		case <-deadline:
			t.Fatalf("events channel not closed")
		}
	}
	select {
	case _, ok := <-w.Errors:
		if ok {
			// a buffered error may precede the close
			if _, ok = <-w.Errors; ok {
				t.Fatalf("errors channel not closed")
			}
		}
	case <-deadline:
		t.Fatalf("errors channel not closed")
	}
}
