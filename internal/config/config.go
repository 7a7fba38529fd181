package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/tweenline/internal/tween"
)

// DefaultFile ищется в рабочей директории, если --config не задан.
const DefaultFile = "tweenline.yaml"

type Config struct {
	Editor   EditorConfig   `yaml:"editor"`
	Playback PlaybackConfig `yaml:"playback"`
	Defaults TweenDefaults  `yaml:"defaults"`
	Preview  PreviewConfig  `yaml:"preview"`
	Paths    PathsConfig    `yaml:"paths"`

	Workers      int    `yaml:"workers"`
	ShowStats    bool   `yaml:"showStats"`
	BuildVersion string `yaml:"-"`
}

type EditorConfig struct {
	Zoom           float64 `yaml:"zoom"` // пикселей в секунду
	SnapToGrid     bool    `yaml:"snapToGrid"`
	GridSize       float64 `yaml:"gridSize"`
	CellWidth      int     `yaml:"cellWidth"` // пикселей на колонку терминала
	PositionPolicy string  `yaml:"positionPolicy"`
}

type PlaybackConfig struct {
	Speed        float64       `yaml:"speed"`
	Loop         bool          `yaml:"loop"`
	FPS          int           `yaml:"fps"`
	RebuildDelay time.Duration `yaml:"rebuildDelay"`
}

type TweenDefaults struct {
	Duration float64 `yaml:"duration"`
	Ease     string  `yaml:"ease"`
	Target   string  `yaml:"target"`
	Type     string  `yaml:"type"`
}

type PreviewConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Preset string `yaml:"preset"`
}

type PathsConfig struct {
	Timelines    string `yaml:"timelines"`
	Output       string `yaml:"output"`
	BenchmarkLog string `yaml:"benchmarkLog"`
}

// Default возвращает конфигурацию на случай, когда файла нет.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			Zoom:           100,
			GridSize:       0.25,
			CellWidth:      10,
			PositionPolicy: "literal",
		},
		Playback: PlaybackConfig{
			Speed:        1,
			FPS:          30,
			RebuildDelay: 150 * time.Millisecond,
		},
		Defaults: TweenDefaults{
			Duration: 1,
			Ease:     "power1.out",
			Target:   ".box",
			Type:     "to",
		},
		Preview: PreviewConfig{
			Width:  1280,
			Height: 360,
		},
		Paths: PathsConfig{
			Timelines:    "timelines",
			Output:       "output",
			BenchmarkLog: "benchmark.log",
		},
		Workers: runtime.NumCPU(),
	}
}

// Load читает path поверх значений по умолчанию. Пустой путь пробует
// DefaultFile и молча оставляет умолчания, если его нет.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Normalize заменяет негодные значения умолчаниями и применяет пресет
// превью.
func (c *Config) Normalize() {
	d := Default()
	if c.Editor.Zoom <= 0 {
		c.Editor.Zoom = d.Editor.Zoom
	}
	if c.Editor.GridSize <= 0 {
		c.Editor.GridSize = d.Editor.GridSize
	}
	if c.Editor.CellWidth <= 0 {
		c.Editor.CellWidth = d.Editor.CellWidth
	}
	if c.Playback.Speed <= 0 {
		c.Playback.Speed = d.Playback.Speed
	}
	if c.Playback.FPS <= 0 {
		c.Playback.FPS = d.Playback.FPS
	}
	if c.Playback.RebuildDelay <= 0 {
		c.Playback.RebuildDelay = d.Playback.RebuildDelay
	}
	if c.Defaults.Duration <= 0 {
		c.Defaults.Duration = d.Defaults.Duration
	}
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	c.ApplyPreset()
	if c.Preview.Width <= 0 || c.Preview.Height <= 0 {
		c.Preview.Width, c.Preview.Height = d.Preview.Width, d.Preview.Height
	}
}

// ApplyPreset задаёт размер превью по имени пресета.
func (c *Config) ApplyPreset() {
	switch c.Preview.Preset {
	case "wide", "32:9":
		c.Preview.Width, c.Preview.Height = 1280, 360
	case "16:9":
		c.Preview.Width, c.Preview.Height = 1280, 720
	case "4:3":
		c.Preview.Width, c.Preview.Height = 1024, 768
	}
}

// TweenDefaults возвращает начальные значения новых твинов.
func (c *Config) TweenDefaults() tween.Defaults {
	typ, _ := tween.ParseType(c.Defaults.Type)
	return tween.Defaults{
		Duration: c.Defaults.Duration,
		Ease:     c.Defaults.Ease,
		Target:   c.Defaults.Target,
		Type:     typ,
	}
}

// Save сохраняет конфиг в YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
