package provision

import (
	"fmt"
	"strings"
)

// ChannelType is the kind of channel to create.
type ChannelType int

// Channel types. The zero value is a text channel.
const (
	ChannelText ChannelType = iota
	ChannelVoice
	ChannelForum
	ChannelAnnouncement
	ChannelStage
)

var channelTypeName = [...]string{
	ChannelText:         "text",
	ChannelVoice:        "voice",
	ChannelForum:        "forum",
	ChannelAnnouncement: "announcement",
	ChannelStage:        "stage",
}

// ChannelTypes returns the names of all channel types.
func ChannelTypes() []string { return append([]string(nil), channelTypeName[:]...) }

func (t ChannelType) String() string {
	if t < 0 || int(t) >= len(channelTypeName) {
		return fmt.Sprintf("ChannelType(%d)", int(t))
	}

	return channelTypeName[t]
}

// ParseChannelType returns the channel type named s, ignoring case.
// Unrecognized names are text channels.
func ParseChannelType(s string) ChannelType {
	s = strings.ToLower(strings.TrimSpace(s))

	for t, name := range channelTypeName {
		if name == s {
			return ChannelType(t)
		}
	}

	return ChannelText
}

// MarshalText implements encoding.TextMarshaler.
func (t ChannelType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ChannelType) UnmarshalText(text []byte) error {
	*t = ParseChannelType(string(text))

	return nil
}

// Category groups channels and carries default permission overwrites.
type Category struct {
	ID         string      `json:"id"                   yaml:"id"`
	Name       string      `json:"name"                 yaml:"name"`
	Overwrites []Overwrite `json:"overwrites,omitempty" yaml:"overwrites,omitempty"`
}

// Channel is a channel that exists on the platform.
type Channel struct {
	ID         string      `json:"id"                   yaml:"id"`
	Name       string      `json:"name"                 yaml:"name"`
	Type       ChannelType `json:"type"                 yaml:"type"`
	CategoryID string      `json:"category,omitempty"   yaml:"category,omitempty"`
	Overwrites []Overwrite `json:"overwrites,omitempty" yaml:"overwrites,omitempty"`
}

// ChannelSpec describes a channel to create.
type ChannelSpec struct {
	Name       string
	Type       ChannelType
	CategoryID string
	Overwrites []Overwrite
}

// Role is a named group of members.
type Role struct {
	ID   string `json:"id"   yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Member is a user of the platform.
type Member struct {
	ID   string `json:"id"   yaml:"id"`
	Name string `json:"name" yaml:"name"`
}
