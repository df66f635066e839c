package cmdutils

import (
	"context"
	"sync"

	"github.com/hoardpkg/hoard/internal/state"
)

// Factory hands commands their application state, building it on first use
// so that help/completion never touch the network.
type Factory struct {
	once  sync.Once
	state *state.AppState
	err   error
}

// NewFactory creates an empty factory.
func NewFactory() *Factory {
	return &Factory{}
}

// State returns the lazily-built AppState.
func (f *Factory) State(ctx context.Context) (*state.AppState, error) {
	f.once.Do(func() {
		f.state, f.err = state.New(ctx)
	})
	return f.state, f.err
}
