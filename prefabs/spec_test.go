package prefabs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/milk9111/locomotion/locomotion"
)

func TestEmbeddedCharacterMatchesDefaults(t *testing.T) {
	spec, err := LoadCharacterSpec("character.yaml")
	if err != nil {
		t.Fatalf("load character: %v", err)
	}
	if spec.Tuning != locomotion.DefaultTuning() {
		t.Fatalf("embedded tuning drifted from defaults: %+v", spec.Tuning)
	}
	if spec.GroundProbe.Length != 0.75 || spec.Body.Height != 1 {
		t.Fatalf("unexpected body setup %+v %+v", spec.Body, spec.GroundProbe)
	}
	if spec.Camera.Offset.Vec3().Z() != -10 {
		t.Fatalf("unexpected camera offset %v", spec.Camera.Offset.Vec3())
	}
}

func TestParseCharacterSpec(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
		check   func(t *testing.T, spec CharacterSpec)
	}{
		{
			name: "empty_keeps_defaults",
			data: "",
			check: func(t *testing.T, spec CharacterSpec) {
				if spec.Tuning != locomotion.DefaultTuning() {
					t.Fatalf("expected default tuning, got %+v", spec.Tuning)
				}
			},
		},
		{
			name: "partial_tuning_override",
			data: "tuning:\n  max_speed: 12\n  dash_cooldown: 0.5\n",
			check: func(t *testing.T, spec CharacterSpec) {
				want := locomotion.DefaultTuning()
				want.MaxSpeed = 12
				want.DashCooldown = 0.5
				if spec.Tuning != want {
					t.Fatalf("expected %+v, got %+v", want, spec.Tuning)
				}
			},
		},
		{
			name:    "tuning_out_of_range",
			data:    "tuning:\n  max_speed: 25\n",
			wantErr: locomotion.ErrInvalidTuning,
		},
		{
			name:    "upward_gravity",
			data:    "gravity:\n  y: 9.81\n",
			wantErr: ErrInvalidSpec,
		},
		{
			name:    "zero_probe",
			data:    "ground_probe:\n  length: 0\n",
			wantErr: ErrInvalidSpec,
		},
		{
			name: "script_reference",
			data: "script: run_jump_dash.tengo\n",
			check: func(t *testing.T, spec CharacterSpec) {
				if _, err := LoadScript(spec.Script); err != nil {
					t.Fatalf("script %q not loadable: %v", spec.Script, err)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			spec, err := ParseCharacterSpec([]byte(tc.data))
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tc.check(t, spec)
		})
	}
}

func TestParseCharacterSpecRejectsMalformedYAML(t *testing.T) {
	if _, err := ParseCharacterSpec([]byte("tuning: [")); err == nil {
		t.Fatal("expected a yaml error")
	}
}

func TestLoadArenaSpec(t *testing.T) {
	arena, err := LoadArenaSpec("prefabs/arena.yaml")
	if err != nil {
		t.Fatalf("load arena: %v", err)
	}
	if len(arena.Platforms) == 0 || arena.Platforms[0].Name != "floor" {
		t.Fatalf("unexpected platforms %+v", arena.Platforms)
	}
	if _, err := LoadArenaSpec("missing.yaml"); err == nil {
		t.Fatal("expected an error for a missing prefab")
	}
}

func TestCleanPaths(t *testing.T) {
	tests := []struct {
		in         string
		wantPrefab string
		wantScript string
	}{
		{"", "", ""},
		{"character.yaml", "character.yaml", "scripts/character.yaml"},
		{"prefabs/arena.yaml", "arena.yaml", "scripts/arena.yaml"},
		{"prefabs/scripts/run.tengo", "scripts/run.tengo", "scripts/run.tengo"},
		{"run.tengo", "run.tengo", "scripts/run.tengo"},
	}
	for _, tc := range tests {
		if got := cleanPrefabPath(tc.in); got != tc.wantPrefab {
			t.Errorf("cleanPrefabPath(%q) = %q, want %q", tc.in, got, tc.wantPrefab)
		}
		if got := cleanScriptPath(tc.in); got != tc.wantScript {
			t.Errorf("cleanScriptPath(%q) = %q, want %q", tc.in, got, tc.wantScript)
		}
	}
}

func TestWatcherAccept(t *testing.T) {
	w := &Watcher{}
	last := map[string]time.Time{}
	now := time.Unix(100, 0)

	tests := []struct {
		name  string
		event fsnotify.Event
		at    time.Time
		want  bool
	}{
		{"yaml_write", fsnotify.Event{Name: "character.yaml", Op: fsnotify.Write}, now, true},
		{"burst_is_debounced", fsnotify.Event{Name: "character.yaml", Op: fsnotify.Write}, now.Add(50 * time.Millisecond), false},
		{"after_debounce", fsnotify.Event{Name: "character.yaml", Op: fsnotify.Write}, now.Add(time.Second), true},
		{"script_create", fsnotify.Event{Name: "scripts/run.TENGO", Op: fsnotify.Create}, now, true},
		{"chmod_ignored", fsnotify.Event{Name: "arena.yml", Op: fsnotify.Chmod}, now, false},
		{"other_file_ignored", fsnotify.Event{Name: "notes.txt", Op: fsnotify.Write}, now, false},
	}
	for _, tc := range tests {
		if got := w.accept(tc.event, last, tc.at); got != tc.want {
			t.Errorf("%s: accept = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestWatcherReportsEditsAndCloses(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}

	path := filepath.Join(dir, "character.yaml")
	if err := os.WriteFile(path, []byte("name: edited\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-w.Events:
		if filepath.Base(got) != "character.yaml" {
			t.Fatalf("unexpected event %q", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watch event")
	}

	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	for range w.Events {
	}
	if _, ok := <-w.Errors; ok {
		t.Fatal("expected errors channel to be closed")
	}
}
