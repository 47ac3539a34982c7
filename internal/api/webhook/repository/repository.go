package webhookRepository

import (
	"time"

	"ProjectBodycheck/internal/entity"
	"golang.org/x/net/context"
)

// Store is the session store behind the collection state machine: get/put
// with expiry, delete. The in-memory implementation backs tests and
// single-process deployments; the Redis one survives multiple bot
// instances behind a load balancer.
type Store interface {
	Get(ctx context.Context, userID string) (entity.UserSession, error)
	Put(ctx context.Context, session entity.UserSession) error
	Delete(ctx context.Context, userID string) error
}

// DefaultSessionTTL is the inactivity window after which pending slots are
// discarded.
const DefaultSessionTTL = 15 * time.Minute
