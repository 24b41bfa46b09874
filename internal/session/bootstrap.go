package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"plannest/internal/service"
)

// Bootstrapper performs the one-time startup identity check.
type Bootstrapper struct {
	identity service.Identity
	store    *Store
	once     sync.Once
}

// NewBootstrapper creates a bootstrapper that fills store from identity.
func NewBootstrapper(identity service.Identity, store *Store) *Bootstrapper {
	return &Bootstrapper{identity: identity, store: store}
}

// Run asks the API who the current user is, at most once per Bootstrapper.
// Any failure leaves the store settled and anonymous; it is logged, never returned.
// Later calls return the current snapshot without another request.
func (b *Bootstrapper) Run(ctx context.Context) Session {
	b.once.Do(func() {
		b.run(ctx)
	})
	return b.store.Snapshot()
}

func (b *Bootstrapper) run(ctx context.Context) {
	logger := zerolog.Ctx(ctx)
	b.store.SetLoading(true)

	user, err := b.identity.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			logger.Debug().Msg("no active session")
		} else {
			logger.Debug().Err(err).Msg("identity check failed")
		}
		b.store.ClearUser()
		return
	}

	logger.Debug().Str("user_id", user.ID).Msg("session restored")
	b.store.SetUser(user)
}
