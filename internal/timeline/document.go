// Package timeline owns the editable tween sequence and its YAML documents.
package timeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/tweenline/internal/system"
	"github.com/ivlev/tweenline/internal/tween"
)

// DocumentVersion is written into every saved document.
const DocumentVersion = "1.0"

// Settings are the timeline-wide options handed to the engine on build.
type Settings struct {
	DefaultEase     string  `yaml:"defaultEase,omitempty"`
	DefaultDuration float64 `yaml:"defaultDuration,omitempty"`
	Repeat          int     `yaml:"repeat,omitempty"` // -1 repeats forever
	Yoyo            bool    `yaml:"yoyo,omitempty"`
	Delay           float64 `yaml:"delay,omitempty"`
}

// DefaultSettings match a fresh timeline in the editor.
func DefaultSettings() Settings {
	return Settings{
		DefaultEase:     "power1.out",
		DefaultDuration: 1,
	}
}

// Document is a saved timeline.
type Document struct {
	Version  string        `yaml:"version"`
	Name     string        `yaml:"name,omitempty"`
	Settings Settings      `yaml:"settings"`
	Tweens   []tween.Tween `yaml:"tweens"`
}

// Document snapshots the model for saving.
func (m *Model) Document(name string) *Document {
	return &Document{
		Version:  DocumentVersion,
		Name:     name,
		Settings: m.Settings(),
		Tweens:   m.Tweens(),
	}
}

// FromDocument builds a model from a loaded document. Tweens without an id
// get one.
func FromDocument(doc *Document, defaults tween.Defaults, policy PositionPolicy) *Model {
	ts := make([]tween.Tween, len(doc.Tweens))
	for i, t := range doc.Tweens {
		if t.ID == "" {
			t.ID = tween.NewID()
		}
		if t.Type == "" {
			t.Type = tween.To
		}
		ts[i] = t
	}
	m := NewModel(defaults, policy, ts...)
	s := doc.Settings
	if s.DefaultEase == "" && s.DefaultDuration == 0 {
		d := DefaultSettings()
		s.DefaultEase, s.DefaultDuration = d.DefaultEase, d.DefaultDuration
	}
	m.settings = s
	return m
}

// WriteDocument writes a document as YAML.
func WriteDocument(doc *Document, path string) error {
	if doc.Version == "" {
		doc.Version = DocumentVersion
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode timeline: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// ReadDocument reads a YAML document.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse timeline %s: %w", path, err)
	}
	if doc.Version == "" {
		doc.Version = DocumentVersion
	}
	return &doc, nil
}

// GenerateDocumentPath creates a timestamped document filename in dir.
func GenerateDocumentPath(dir string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("timeline_%s.yaml", timestamp))
}

// FindLatestDocument finds the most recently modified document in dir.
func FindLatestDocument(dir string) (string, error) {
	path, err := system.FindLatest(dir, ".yaml", ".yml")
	if err != nil {
		return "", fmt.Errorf("find timeline: %w", err)
	}
	return path, nil
}
