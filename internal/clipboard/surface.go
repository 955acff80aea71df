package clipboard

import "context"

// Surface places markup in an off-screen container the strategies copy from.
type Surface interface {
	Attach(ctx context.Context, markup string) (Container, error)
}

// Container is an attached off-screen copy of the payload markup.
type Container interface {
	// WriteItems performs a structured multi-representation clipboard write.
	WriteItems(ctx context.Context, items []Item) error
	// CopySelection selects the container's contents and runs the legacy
	// copy command.
	CopySelection(ctx context.Context) error
	// Detach removes the container. Callers invoke it exactly once.
	Detach(ctx context.Context) error
}
