package hosted

import (
	"context"

	"github.com/jmgilman/gitview/backend"
)

// Push does nothing: writes already land on GitHub.
func (b *Backend) Push(context.Context, backend.RemoteOptions) error {
	return nil
}

// Pull does nothing: refs are never cached, so reads always see GitHub's
// current state.
func (b *Backend) Pull(context.Context, backend.RemoteOptions) error {
	return nil
}

// Fetch does nothing for the same reason as Pull.
func (b *Backend) Fetch(context.Context, backend.RemoteOptions) error {
	return nil
}
