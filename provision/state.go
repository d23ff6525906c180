package provision

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// State is the persistent content of a [Memory] platform.
type State struct {
	Categories []*Category `json:"categories,omitempty" yaml:"categories,omitempty"`
	Channels   []*Channel  `json:"channels,omitempty"   yaml:"channels,omitempty"`
	Roles      []*Role     `json:"roles,omitempty"      yaml:"roles,omitempty"`
	Members    []*Member   `json:"members,omitempty"    yaml:"members,omitempty"`
	LastID     uint64      `json:"last_id"              yaml:"last_id"`
}

// isJSON reports whether path names a JSON document. Everything else is
// YAML.
func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// LoadState reads a state file. A missing file is an empty state.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return new(State), nil
	}

	if err != nil {
		return nil, ErrState.With(slog.String("path", path)).Wrap(err)
	}

	return DecodeState(data, path)
}

// DecodeState parses a state document. YAML is a superset of JSON, so one
// decoder handles both formats; path is used only in errors.
func DecodeState(data []byte, path string) (*State, error) {
	s := new(State)

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, ErrState.With(slog.String("path", path)).Wrap(err)
	}

	return s, nil
}

// Encode renders s as JSON when path has a .json extension, YAML otherwise.
func (s *State) Encode(path string) ([]byte, error) {
	if isJSON(path) {
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, ErrState.Wrap(err)
		}

		return append(data, '\n'), nil
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, ErrState.Wrap(err)
	}

	return data, nil
}

// Save writes s to path, creating parent directories as needed.
func (s *State) Save(path string) error {
	data, err := s.Encode(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return ErrState.With(slog.String("path", path)).Wrap(err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ErrState.With(slog.String("path", path)).Wrap(err)
	}

	return nil
}

// clone returns a deep copy of s.
func (s *State) clone() *State {
	c := &State{
		Categories: make([]*Category, len(s.Categories)),
		Channels:   make([]*Channel, len(s.Channels)),
		Roles:      make([]*Role, len(s.Roles)),
		Members:    make([]*Member, len(s.Members)),
		LastID:     s.LastID,
	}

	for k, v := range s.Categories {
		cp := *v
		cp.Overwrites = cloneOverwrites(v.Overwrites)
		c.Categories[k] = &cp
	}

	for k, v := range s.Channels {
		cp := *v
		cp.Overwrites = cloneOverwrites(v.Overwrites)
		c.Channels[k] = &cp
	}

	for k, v := range s.Roles {
		cp := *v
		c.Roles[k] = &cp
	}

	for k, v := range s.Members {
		cp := *v
		c.Members[k] = &cp
	}

	return c
}

func cloneOverwrites(ows []Overwrite) []Overwrite {
	if ows == nil {
		return nil
	}

	c := make([]Overwrite, len(ows))
	for k, ow := range ows {
		ow.Allow = append([]string(nil), ow.Allow...)
		c[k] = ow
	}

	return c
}
