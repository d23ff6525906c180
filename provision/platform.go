package provision

import "context"

// Platform is the chat platform channels are provisioned on.
type Platform interface {
	// Category finds a category by numeric ID, then by name. It returns
	// ErrNotFound when neither matches.
	Category(ctx context.Context, nameOrID string) (*Category, error)
	CreateCategory(ctx context.Context, name string, overwrites []Overwrite) (*Category, error)
	CreateChannel(ctx context.Context, spec ChannelSpec) (*Channel, error)
	DeleteChannel(ctx context.Context, id string) error
	// Channels lists the channels of a category in position order, or every
	// channel when categoryID is empty.
	Channels(ctx context.Context, categoryID string) ([]*Channel, error)
}
