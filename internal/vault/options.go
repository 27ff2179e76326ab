package vault

import (
	"time"

	"github.com/dmitrijs2005/gophvault/internal/cryptox"
	"github.com/dmitrijs2005/gophvault/internal/logging"
)

// Option is a functional option for configuring a Manager.
type Option func(*Manager)

// WithParams sets the stretching parameters used for new vaults and for
// record nonces. Opened vaults use the cost parameters stored in their
// header; only ChunkSize is taken from here.
func WithParams(p cryptox.Params) Option {
	return func(m *Manager) {
		m.params = p
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(m *Manager) {
		m.log = l
	}
}

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}
