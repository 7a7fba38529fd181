package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Editor.Zoom != 100 || cfg.Editor.GridSize != 0.25 {
		t.Errorf("Unexpected editor defaults: %+v", cfg.Editor)
	}
	if cfg.Playback.Speed != 1 || cfg.Playback.FPS != 30 || cfg.Playback.RebuildDelay != 150*time.Millisecond {
		t.Errorf("Unexpected playback defaults: %+v", cfg.Playback)
	}
	if cfg.Defaults.Ease != "power1.out" || cfg.Paths.Timelines != "timelines" {
		t.Errorf("Unexpected defaults: %+v %+v", cfg.Defaults, cfg.Paths)
	}
	if cfg.Workers < 1 {
		t.Errorf("Expected at least one worker, got %d", cfg.Workers)
	}
}

func TestLoadOverridesAndNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tweenline.yaml")
	data := `
editor:
  zoom: 200
  snapToGrid: true
  gridSize: -1
  positionPolicy: relative
playback:
  loop: true
  rebuildDelay: 300ms
preview:
  preset: "16:9"
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Editor.Zoom != 200 || !cfg.Editor.SnapToGrid || cfg.Editor.PositionPolicy != "relative" {
		t.Errorf("File values lost: %+v", cfg.Editor)
	}
	if cfg.Editor.GridSize != 0.25 {
		t.Errorf("Bad grid size should fall back, got %f", cfg.Editor.GridSize)
	}
	if !cfg.Playback.Loop || cfg.Playback.RebuildDelay != 300*time.Millisecond || cfg.Playback.FPS != 30 {
		t.Errorf("Unexpected playback: %+v", cfg.Playback)
	}
	if cfg.Preview.Width != 1280 || cfg.Preview.Height != 720 {
		t.Errorf("Preset not applied: %+v", cfg.Preview)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected an error for a missing explicit file")
	}

	wd, _ := os.Getwd()
	defer os.Chdir(wd)
	os.Chdir(t.TempDir())
	cfg, err := Load("")
	if err != nil || cfg.Editor.Zoom != 100 {
		t.Errorf("Expected defaults without a config file, got %v %+v", err, cfg)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("editor: [unclosed"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("Expected a parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := Default()
	cfg.Playback.Loop = true
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !back.Playback.Loop || back.Playback.RebuildDelay != cfg.Playback.RebuildDelay {
		t.Errorf("Round trip lost values: %+v", back.Playback)
	}
}

func TestTweenDefaults(t *testing.T) {
	cfg := Default()
	cfg.Defaults.Type = "fromTo"
	d := cfg.TweenDefaults()
	if d.Type != "fromTo" || d.Duration != 1 || d.Target != ".box" {
		t.Errorf("Unexpected tween defaults %+v", d)
	}
}
