package provision

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"unicode/utf8"
)

// Limits enforced by [Memory], matching those of common chat platforms.
const (
	MaxNameLength          = 100
	MaxChannelsPerCategory = 50
)

// Memory is an in-process [Platform] and [Resolver] backed by a [State].
// It is safe for concurrent use.
type Memory struct {
	mu    sync.Mutex
	state *State
}

// NewMemory returns a platform holding a copy of s. A nil s is an empty
// platform.
func NewMemory(s *State) *Memory {
	if s == nil {
		s = new(State)
	}

	return &Memory{state: s.clone()}
}

// Snapshot returns a copy of the current state.
func (m *Memory) Snapshot() *State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state.clone()
}

func (m *Memory) nextID() string {
	m.state.LastID++

	return strconv.FormatUint(m.state.LastID, 10)
}

// Category implements [Platform].
func (m *Memory) Category(_ context.Context, nameOrID string) (*Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c := m.category(nameOrID); c != nil {
		cp := *c
		cp.Overwrites = cloneOverwrites(c.Overwrites)

		return &cp, nil
	}

	return nil, ErrNotFound.With(slog.String("category", nameOrID))
}

func (m *Memory) category(nameOrID string) *Category {
	if isDigits(nameOrID) {
		for _, c := range m.state.Categories {
			if c.ID == nameOrID {
				return c
			}
		}
	}

	for _, c := range m.state.Categories {
		if c.Name == nameOrID {
			return c
		}
	}

	return nil
}

// CreateCategory implements [Platform].
func (m *Memory) CreateCategory(
	_ context.Context,
	name string,
	overwrites []Overwrite,
) (*Category, error) {
	if err := validName(name); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c := &Category{
		ID:         m.nextID(),
		Name:       name,
		Overwrites: cloneOverwrites(overwrites),
	}
	m.state.Categories = append(m.state.Categories, c)

	cp := *c
	cp.Overwrites = cloneOverwrites(c.Overwrites)

	return &cp, nil
}

// CreateChannel implements [Platform].
func (m *Memory) CreateChannel(_ context.Context, spec ChannelSpec) (*Channel, error) {
	if err := validName(spec.Name); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if spec.CategoryID != "" {
		if !m.hasCategoryID(spec.CategoryID) {
			return nil, ErrNotFound.With(slog.String("category", spec.CategoryID))
		}

		if m.count(spec.CategoryID) >= MaxChannelsPerCategory {
			return nil, ErrCategoryFull.With(
				slog.String("category", spec.CategoryID),
				slog.Int("limit", MaxChannelsPerCategory),
			)
		}
	}

	ch := &Channel{
		ID:         m.nextID(),
		Name:       spec.Name,
		Type:       spec.Type,
		CategoryID: spec.CategoryID,
		Overwrites: cloneOverwrites(spec.Overwrites),
	}
	m.state.Channels = append(m.state.Channels, ch)

	cp := *ch
	cp.Overwrites = cloneOverwrites(ch.Overwrites)

	return &cp, nil
}

func (m *Memory) hasCategoryID(id string) bool {
	for _, c := range m.state.Categories {
		if c.ID == id {
			return true
		}
	}

	return false
}

func (m *Memory) count(categoryID string) int {
	n := 0

	for _, ch := range m.state.Channels {
		if ch.CategoryID == categoryID {
			n++
		}
	}

	return n
}

// DeleteChannel implements [Platform].
func (m *Memory) DeleteChannel(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k, ch := range m.state.Channels {
		if ch.ID == id {
			m.state.Channels = append(m.state.Channels[:k], m.state.Channels[k+1:]...)

			return nil
		}
	}

	return ErrNotFound.With(slog.String("channel", id))
}

// Channels implements [Platform].
func (m *Memory) Channels(_ context.Context, categoryID string) ([]*Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*Channel

	for _, ch := range m.state.Channels {
		if categoryID == "" || ch.CategoryID == categoryID {
			cp := *ch
			cp.Overwrites = cloneOverwrites(ch.Overwrites)
			out = append(out, &cp)
		}
	}

	return out, nil
}

// Role implements [Resolver].
func (m *Memory) Role(_ context.Context, nameOrID string) (*Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.state.Roles {
		if r.Name == nameOrID {
			cp := *r

			return &cp, nil
		}
	}

	if isDigits(nameOrID) {
		for _, r := range m.state.Roles {
			if r.ID == nameOrID {
				cp := *r

				return &cp, nil
			}
		}
	}

	return nil, ErrNotFound.With(slog.String("role", nameOrID))
}

// Member implements [Resolver].
func (m *Memory) Member(_ context.Context, id string) (*Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.state.Members {
		if u.ID == id {
			cp := *u

			return &cp, nil
		}
	}

	return nil, ErrNotFound.With(slog.String("member", id))
}

func validName(name string) error {
	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		return ErrInvalidName.With(
			slog.String("name", name),
			slog.Int("max_length", MaxNameLength),
		)
	}

	return nil
}
