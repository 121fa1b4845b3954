package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/scatterbrush/internal/scatter"
)

// Snapshot is the on-disk form of a store.
type Snapshot struct {
	Name      string             `yaml:"name,omitempty"`
	Settings  scatter.Settings   `yaml:"settings"`
	Instances []scatter.Instance `yaml:"instances"`
}

// Snapshot captures the settings and every instance.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{Name: s.name, Settings: s.settings, Instances: s.All()}
}

// Restore replaces the store contents with snap and drops the index.
func (s *Store) Restore(snap Snapshot) {
	s.name = snap.Name
	s.settings = snap.Settings
	s.points = scatter.BatchOf(snap.Instances...)
	s.index = nil
}

// WriteYAML encodes the store snapshot to w.
func (s *Store) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s.Snapshot()); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return enc.Close()
}

// ReadYAML decodes a snapshot from r into a new store. Settings missing from
// the document keep their defaults.
func ReadYAML(r io.Reader) (*Store, error) {
	snap := Snapshot{Settings: scatter.DefaultSettings()}
	if err := yaml.NewDecoder(r).Decode(&snap); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	s := New(snap.Settings)
	s.Restore(snap)
	return s, nil
}

// SaveFile writes the snapshot to path, creating parent directories.
func (s *Store) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.WriteYAML(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadFile reads a snapshot from path.
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := ReadYAML(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return s, nil
}
