package provision_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/chanplate/pattern"
	"github.com/ardnew/chanplate/plan"
	"github.com/ardnew/chanplate/provision"
)

func seed() *provision.State {
	return &provision.State{
		Categories: []*provision.Category{
			{ID: "1", Name: "A"},
			{ID: "2", Name: "B"},
			{
				ID:   "3",
				Name: "Template",
				Overwrites: []provision.Overwrite{
					{Target: provision.TargetRole, ID: "10", Allow: []string{"view_channel"}},
				},
			},
		},
		Channels: []*provision.Channel{
			{ID: "20", Name: "Room1", CategoryID: "1"},
			{ID: "21", Name: "Room2", CategoryID: "1"},
			{ID: "22", Name: "Room3", CategoryID: "1"},
			{ID: "23", Name: "Room4", CategoryID: "1"},
			{ID: "24", Name: "Room2", CategoryID: "2"},
			{ID: "25", Name: "lobby"},
			{ID: "26", Name: "notes", CategoryID: "3"},
			{
				ID: "27", Name: "stage", Type: provision.ChannelVoice, CategoryID: "3",
				Overwrites: []provision.Overwrite{
					{Target: provision.TargetMember, ID: "1001", Allow: []string{"speak"}},
				},
			},
		},
		Roles: []*provision.Role{
			{ID: "10", Name: "mods"},
			{ID: "42", Name: "alpha"},
			{ID: "7", Name: "42"},
		},
		Members: []*provision.Member{{ID: "1001", Name: "ada"}},
		LastID:  100,
	}
}

func names(chs []*provision.Channel) []string {
	out := make([]string, 0, len(chs))
	for _, ch := range chs {
		out = append(out, ch.Name)
	}

	return out
}

func TestParseChannelType(t *testing.T) {
	tests := map[string]provision.ChannelType{
		"text":         provision.ChannelText,
		"Voice":        provision.ChannelVoice,
		" FORUM ":      provision.ChannelForum,
		"announcement": provision.ChannelAnnouncement,
		"stage":        provision.ChannelStage,
		"news":         provision.ChannelText,
		"":             provision.ChannelText,
	}

	for in, want := range tests {
		assert.Equal(t, want, provision.ParseChannelType(in), "ParseChannelType(%q)", in)
	}

	assert.Equal(t, []string{"text", "voice", "forum", "announcement", "stage"}, provision.ChannelTypes())
	assert.Equal(t, "ChannelType(9)", provision.ChannelType(9).String())
}

func TestPermissionMap(t *testing.T) {
	src := map[string]string{"View": "view_channel", "post": "send_messages"}
	pm := provision.NewPermissionMap(src)
	src["post"] = "changed"

	got, ok := pm.Lookup("VIEW")
	assert.True(t, ok)
	assert.Equal(t, "view_channel", got)

	got, ok = pm.Lookup(" post ")
	assert.True(t, ok)
	assert.Equal(t, "send_messages", got)

	_, ok = pm.Lookup("fly")
	assert.False(t, ok)

	assert.Equal(t, []string{"post", "view"}, pm.Keys())
	assert.Equal(t,
		[]string{"attach", "connect", "manage", "read", "send", "speak", "view"},
		provision.DefaultPermissionMap().Keys())

	var zero provision.PermissionMap
	_, ok = zero.Lookup("view")
	assert.False(t, ok)
}

func TestParsePermissions(t *testing.T) {
	ctx := context.Background()
	m := provision.NewMemory(seed())

	got, skipped := provision.ParsePermissions(ctx,
		"@mods:view, @mods:SEND, 1001:connect, @ghost:view, 999:view, nocolon, "+
			"@mods:fly, plain:view, @mods:view, @42:read, ",
		m, provision.DefaultPermissionMap())

	want := []provision.Overwrite{
		{Target: provision.TargetRole, ID: "10", Allow: []string{"view_channel", "send_messages"}},
		{Target: provision.TargetMember, ID: "1001", Allow: []string{"connect"}},
		{Target: provision.TargetRole, ID: "7", Allow: []string{"read_message_history"}},
	}
	assert.Equal(t, want, got)
	assert.Equal(t, []string{"@ghost:view", "999:view", "nocolon", "@mods:fly", "plain:view"}, skipped)

	got, _ = provision.ParsePermissions(ctx, "@10:manage", m, provision.DefaultPermissionMap())
	assert.Equal(t, []provision.Overwrite{
		{Target: provision.TargetRole, ID: "10", Allow: []string{"manage_channels"}},
	}, got)

	got, skipped = provision.ParsePermissions(ctx, "@mods:view", nil, provision.DefaultPermissionMap())
	assert.Empty(t, got)
	assert.Equal(t, []string{"@mods:view"}, skipped)
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	m := provision.NewMemory(seed())
	p := provision.New(m)

	r, err := p.Create(ctx, "[Study, 1...3]", provision.CreateOptions{
		Category:    "Rooms",
		Type:        provision.ChannelVoice,
		Permissions: "@mods:view, 1001:speak",
	})
	require.NoError(t, err)

	_, err = uuid.Parse(r.Batch)
	require.NoError(t, err, "batch id %q", r.Batch)

	assert.Equal(t, provision.OpCreate, r.Operation)
	assert.Equal(t, "Rooms", r.Category)
	assert.Equal(t, []string{"Study1", "Study2", "Study3"}, r.Done)
	assert.Empty(t, r.Failures)
	assert.Equal(t, "Created 3 channels: Study1, Study2, Study3", r.String())

	cat, err := m.Category(ctx, "Rooms")
	require.NoError(t, err)

	chs, err := m.Channels(ctx, cat.ID)
	require.NoError(t, err)
	require.Len(t, chs, 3)

	for _, ch := range chs {
		assert.Equal(t, provision.ChannelVoice, ch.Type)
		assert.Equal(t, []provision.Overwrite{
			{Target: provision.TargetRole, ID: "10", Allow: []string{"view_channel"}},
			{Target: provision.TargetMember, ID: "1001", Allow: []string{"speak"}},
		}, ch.Overwrites)
	}
}

func TestCreate_Filtered(t *testing.T) {
	ctx := context.Background()
	m := provision.NewMemory(nil)

	r, err := provision.New(m).Create(ctx, "[1...6, if i % 2 == 0]", provision.CreateOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "4", "6"}, r.Done)

	chs, err := m.Channels(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "4", "6"}, names(chs))
	assert.Empty(t, chs[0].CategoryID)
}

func TestCreate_ExistingCategoryByID(t *testing.T) {
	ctx := context.Background()
	m := provision.NewMemory(seed())

	r, err := provision.New(m).Create(ctx, "Lab{A...B}", provision.CreateOptions{Category: "2"})
	require.NoError(t, err)
	assert.Equal(t, "B", r.Category)

	chs, err := m.Channels(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, []string{"Room2", "LabA", "LabB"}, names(chs))
	assert.Len(t, m.Snapshot().Categories, 3)
}

func TestCreate_PartialFailure(t *testing.T) {
	ctx := context.Background()
	m := provision.NewMemory(seed())

	r, err := provision.New(m).Create(ctx, "[a,,b]", provision.CreateOptions{Category: "A"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "", "b"}, r.Names)
	assert.Equal(t, []string{"a", "b"}, r.Done)
	require.Len(t, r.Failures, 1)
	assert.ErrorIs(t, r.Failures[0].Err, provision.ErrInvalidName)
	assert.Contains(t, r.String(), "Created 2 channels: a, b")
}

func TestCreate_CategoryFull(t *testing.T) {
	ctx := context.Background()
	m := provision.NewMemory(nil)

	r, err := provision.New(m).Create(ctx, "[Seat, 1...52]", provision.CreateOptions{Category: "Hall"})
	require.NoError(t, err)
	assert.Len(t, r.Done, provision.MaxChannelsPerCategory)
	require.Len(t, r.Failures, 2)
	assert.Equal(t, "Seat51", r.Failures[0].Name)
	assert.ErrorIs(t, r.Failures[1].Err, provision.ErrCategoryFull)
}

func TestCreate_Errors(t *testing.T) {
	ctx := context.Background()
	m := provision.NewMemory(seed())
	p := provision.New(m, provision.WithPlanOptions(plan.WithLimit(10)))

	_, err := p.Create(ctx, "[Team, A...c]", provision.CreateOptions{Category: "New"})
	require.ErrorIs(t, err, pattern.ErrFormat)

	_, err = p.Create(ctx, "[1...11]", provision.CreateOptions{})
	require.ErrorIs(t, err, pattern.ErrLimit)

	canceled, cancel := context.WithCancel(ctx)
	cancel()

	_, err = p.Create(canceled, "[1...3]", provision.CreateOptions{})
	require.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, seed().Categories[0].Name, m.Snapshot().Categories[0].Name)
	assert.Len(t, m.Snapshot().Categories, 3, "no category created for an invalid template")
	assert.Len(t, m.Snapshot().Channels, 8)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		template string
		category string
		done     []string
		left     []string
		summary  string
	}{
		{
			name:     "filtered template in category",
			template: "[Room, 1...4, if i % 2 == 0]",
			category: "A",
			done:     []string{"Room2", "Room4"},
			left:     []string{"Room1", "Room3", "Room2", "lobby", "notes", "stage"},
			summary:  "Deleted 2 channels from A",
		},
		{
			name:     "template everywhere",
			template: "[Room2, lobby, missing]",
			done:     []string{"Room2", "lobby"},
			left:     []string{"Room1", "Room3", "Room4", "Room2", "notes", "stage"},
			summary:  "Deleted 2 channels",
		},
		{
			name:     "repeated name removes each match",
			template: "[Room2, Room2]",
			done:     []string{"Room2", "Room2"},
			left:     []string{"Room1", "Room3", "Room4", "lobby", "notes", "stage"},
			summary:  "Deleted 2 channels",
		},
		{
			name:     "whole category",
			category: "1",
			done:     []string{"Room1", "Room2", "Room3", "Room4"},
			left:     []string{"Room2", "lobby", "notes", "stage"},
			summary:  "Deleted 4 channels from A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := provision.NewMemory(seed())

			r, err := provision.New(m).Remove(ctx, tt.template, tt.category)
			require.NoError(t, err)
			assert.Equal(t, provision.OpRemove, r.Operation)
			assert.Equal(t, tt.done, r.Done)
			assert.Equal(t, tt.summary, r.String())

			chs, err := m.Channels(ctx, "")
			require.NoError(t, err)
			assert.Equal(t, tt.left, names(chs))
		})
	}
}

func TestRemove_Errors(t *testing.T) {
	ctx := context.Background()
	p := provision.New(provision.NewMemory(seed()))

	_, err := p.Remove(ctx, "", "")
	require.ErrorIs(t, err, provision.ErrNoTarget)

	_, err = p.Remove(ctx, "[1...3]", "Nowhere")
	require.ErrorIs(t, err, provision.ErrNotFound)

	_, err = p.Remove(ctx, "[1...3:0]", "")
	require.ErrorIs(t, err, pattern.ErrFormat)
}

// flaky fails to delete the channels it names.
type flaky struct {
	*provision.Memory
	fail map[string]bool
}

func (f flaky) DeleteChannel(ctx context.Context, id string) error {
	if f.fail[id] {
		return errors.New("permission denied")
	}

	return f.Memory.DeleteChannel(ctx, id)
}

func TestRemove_PartialFailure(t *testing.T) {
	ctx := context.Background()
	m := provision.NewMemory(seed())

	r, err := provision.New(flaky{Memory: m, fail: map[string]bool{"21": true}}).
		Remove(ctx, "", "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"Room1", "Room3", "Room4"}, r.Done)
	require.Len(t, r.Failures, 1)
	assert.Equal(t, "Room2", r.Failures[0].Name)
	assert.Contains(t, r.String(), "failed Room2: permission denied")
}

func TestClone(t *testing.T) {
	ctx := context.Background()
	m := provision.NewMemory(seed())

	r, err := provision.New(m).Clone(ctx, "Template", "🎓 [3...4] suffix")
	require.NoError(t, err)
	assert.Equal(t, []string{"🎓 3 suffix", "🎓 4 suffix"}, r.Done)
	assert.Equal(t, "Clone complete\n• 🎓 3 suffix → 2 channels\n• 🎓 4 suffix → 2 channels", r.String())

	for _, name := range r.Done {
		cat, err := m.Category(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, seed().Categories[2].Overwrites, cat.Overwrites)

		chs, err := m.Channels(ctx, cat.ID)
		require.NoError(t, err)
		require.Len(t, chs, 2)
		assert.Equal(t, "notes", chs[0].Name)
		assert.Equal(t, provision.ChannelText, chs[0].Type)
		assert.Equal(t, "stage", chs[1].Name)
		assert.Equal(t, provision.ChannelVoice, chs[1].Type)
		assert.Equal(t, seed().Channels[7].Overwrites, chs[1].Overwrites)
	}
}

func TestClone_PlainTargetByID(t *testing.T) {
	ctx := context.Background()
	m := provision.NewMemory(seed())

	r, err := provision.New(m).Clone(ctx, "3", "Backup")
	require.NoError(t, err)
	assert.Equal(t, []provision.CloneResult{{Name: "Backup", Channels: 2}}, r.Clones)

	_, err = provision.New(m).Clone(ctx, "Missing", "Backup")
	require.ErrorIs(t, err, provision.ErrNotFound)

	_, err = provision.New(m).Clone(ctx, "Template", "Bad [Wk, A...1]")
	require.ErrorIs(t, err, pattern.ErrFormat)
}

func TestClone_Limit(t *testing.T) {
	ctx := context.Background()
	m := provision.NewMemory(seed())
	p := provision.New(m, provision.WithPlanOptions(plan.WithLimit(3)))

	_, err := p.Create(ctx, "[1...10]", provision.CreateOptions{})
	require.ErrorIs(t, err, pattern.ErrLimit)

	_, err = p.Clone(ctx, "Template", "Copy [1...10]")
	require.ErrorIs(t, err, pattern.ErrLimit)
	assert.Len(t, m.Snapshot().Categories, 3, "no category cloned past the limit")

	r, err := p.Clone(ctx, "Template", "Copy [1...3]")
	require.NoError(t, err)
	assert.Equal(t, []string{"Copy 1", "Copy 2", "Copy 3"}, r.Done)
}

func TestPreview(t *testing.T) {
	p := provision.New(provision.NewMemory(nil))

	pv, err := p.Preview(context.Background(), "[Seat, 1...30]")
	require.NoError(t, err)
	assert.Equal(t, 30, pv.Total)
	assert.Len(t, pv.Names, plan.DefaultPreviewSize)
	assert.Equal(t, 5, pv.More())

	pv, err = p.Preview(context.Background(), "[1...3, if i > 5]")
	require.NoError(t, err)
	assert.Equal(t, "No results generated", pv.String())
}

func TestState_SaveLoad(t *testing.T) {
	for _, ext := range []string{"yaml", "json"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "state."+ext)

			m := provision.NewMemory(seed())
			_, err := provision.New(m).Create(context.Background(), "[x, y]",
				provision.CreateOptions{Category: "New", Type: provision.ChannelForum})
			require.NoError(t, err)

			want := m.Snapshot()
			require.NoError(t, want.Save(path))

			got, err := provision.LoadState(path)
			require.NoError(t, err)
			assert.Equal(t, want.LastID, got.LastID)
			assert.Equal(t, want.Categories, got.Categories)
			assert.Equal(t, want.Channels, got.Channels)
			assert.Equal(t, want.Roles, got.Roles)
			assert.Equal(t, want.Members, got.Members)
		})
	}
}

func TestState_Decode(t *testing.T) {
	const doc = `
categories:
  - id: "5"
    name: Ops
channels:
  - id: "6"
    name: alerts
    type: announcement
    category: "5"
    overwrites:
      - target: role
        id: "9"
        allow: [view_channel]
last_id: 6
`
	s, err := provision.DecodeState([]byte(doc), "inline.yaml")
	require.NoError(t, err)
	require.Len(t, s.Channels, 1)
	assert.Equal(t, provision.ChannelAnnouncement, s.Channels[0].Type)
	assert.Equal(t, provision.TargetRole, s.Channels[0].Overwrites[0].Target)

	_, err = provision.DecodeState([]byte("channels: [{target: nobody}]\nchannels: {"), "bad.yaml")
	require.ErrorIs(t, err, provision.ErrState)

	empty, err := provision.LoadState(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Empty(t, empty.Channels)
}

func TestMemory_Concurrent(t *testing.T) {
	ctx := context.Background()
	m := provision.NewMemory(nil)

	cat, err := m.CreateCategory(ctx, "Busy", nil)
	require.NoError(t, err)

	done := make(chan error)

	for k := range 20 {
		go func() {
			_, err := m.CreateChannel(ctx, provision.ChannelSpec{
				Name:       fmt.Sprintf("c%d", k),
				CategoryID: cat.ID,
			})
			done <- err
		}()
	}

	for range 20 {
		require.NoError(t, <-done)
	}

	chs, err := m.Channels(ctx, cat.ID)
	require.NoError(t, err)
	assert.Len(t, chs, 20)
	assert.Equal(t, uint64(21), m.Snapshot().LastID)
}
