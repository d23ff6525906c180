package provision

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
)

// PermissionMap maps short permission keys, as written in a permission
// specification, to platform capability names. A PermissionMap is
// immutable once made.
type PermissionMap struct {
	m map[string]string
}

// NewPermissionMap makes a PermissionMap from key/capability pairs. Keys
// are matched case-insensitively.
func NewPermissionMap(pairs map[string]string) PermissionMap {
	m := make(map[string]string, len(pairs))
	for key, capability := range pairs {
		m[strings.ToLower(strings.TrimSpace(key))] = capability
	}

	return PermissionMap{m: m}
}

// DefaultPermissionMap returns the standard permission keys.
func DefaultPermissionMap() PermissionMap {
	return NewPermissionMap(map[string]string{
		"view":    "view_channel",
		"send":    "send_messages",
		"connect": "connect",
		"speak":   "speak",
		"manage":  "manage_channels",
		"read":    "read_message_history",
		"attach":  "attach_files",
	})
}

// Lookup returns the capability for key, ignoring case.
func (pm PermissionMap) Lookup(key string) (string, bool) {
	capability, ok := pm.m[strings.ToLower(strings.TrimSpace(key))]

	return capability, ok
}

// Keys returns the permission keys in sorted order.
func (pm PermissionMap) Keys() []string {
	return slices.Sorted(maps.Keys(pm.m))
}

// TargetKind identifies what an [Overwrite] applies to.
type TargetKind int

// Overwrite targets.
const (
	TargetRole TargetKind = iota
	TargetMember
)

func (k TargetKind) String() string {
	switch k {
	case TargetRole:
		return "role"
	case TargetMember:
		return "member"
	default:
		return fmt.Sprintf("TargetKind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k TargetKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *TargetKind) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "role":
		*k = TargetRole
	case "member":
		*k = TargetMember
	default:
		return ErrState.With(slog.String("target", string(text))).
			Wrap(fmt.Errorf("unknown overwrite target"))
	}

	return nil
}

// Overwrite grants capabilities on a channel or category to one role or
// member.
type Overwrite struct {
	Target TargetKind `json:"target" yaml:"target"`
	ID     string     `json:"id"     yaml:"id"`
	Allow  []string   `json:"allow"  yaml:"allow"`
}

// Resolver finds the roles and members named in a permission specification.
type Resolver interface {
	// Role finds a role by name, or by ID when nameOrID is numeric and no
	// role has that name.
	Role(ctx context.Context, nameOrID string) (*Role, error)
	// Member finds a member by numeric ID.
	Member(ctx context.Context, id string) (*Member, error)
}

// ParsePermissions parses a comma-separated list of target:key entries,
// such as "@moderators:manage, 123456:connect", into overwrites.
//
// A target is @ followed by a role name or ID, or a numeric member ID.
// Entries without a colon, with a key missing from pm, or whose target
// cannot be resolved are skipped and returned, trimmed, in skipped. Several
// entries for one target are merged into a single overwrite, in order of
// first appearance.
func ParsePermissions(
	ctx context.Context,
	spec string,
	r Resolver,
	pm PermissionMap,
) (out []Overwrite, skipped []string) {
	index := map[string]int{}

	for entry := range strings.SplitSeq(spec, ",") {
		entry = strings.TrimSpace(entry)

		target, key, ok := strings.Cut(entry, ":")
		if !ok {
			if entry != "" {
				skipped = append(skipped, entry)
			}

			continue
		}

		capability, ok := pm.Lookup(key)
		if !ok {
			skipped = append(skipped, entry)

			continue
		}

		ow, ok := resolveTarget(ctx, strings.TrimSpace(target), r)
		if !ok {
			skipped = append(skipped, entry)

			continue
		}

		id := ow.Target.String() + ":" + ow.ID
		if k, seen := index[id]; seen {
			if !slices.Contains(out[k].Allow, capability) {
				out[k].Allow = append(out[k].Allow, capability)
			}

			continue
		}

		ow.Allow = []string{capability}
		index[id] = len(out)
		out = append(out, ow)
	}

	return out, skipped
}

func resolveTarget(ctx context.Context, target string, r Resolver) (Overwrite, bool) {
	if r == nil {
		return Overwrite{}, false
	}

	if name, ok := strings.CutPrefix(target, "@"); ok {
		role, err := r.Role(ctx, name)
		if err != nil || role == nil {
			return Overwrite{}, false
		}

		return Overwrite{Target: TargetRole, ID: role.ID}, true
	}

	if !isDigits(target) {
		return Overwrite{}, false
	}

	member, err := r.Member(ctx, target)
	if err != nil || member == nil {
		return Overwrite{}, false
	}

	return Overwrite{Target: TargetMember, ID: member.ID}, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}
