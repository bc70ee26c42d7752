package deps

import (
	"context"
	"time"

	"github.com/sohamroyc/Api-directory/internal/controller"
	"github.com/sohamroyc/Api-directory/internal/index"
	"github.com/sohamroyc/Api-directory/internal/logger"
	"github.com/sohamroyc/Api-directory/internal/metrics"
)

// Pinger reports whether the persisted store answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KeyLister lists the keys held by the persisted store (redis only).
type KeyLister interface {
	Keys(ctx context.Context) ([]string, error)
}

// DiscoveryInfo describes the configured discovery provider.
type DiscoveryInfo interface {
	Configured() bool
	Model() string
}

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	TimeNow        func() time.Time       // for testing, defaults to time.Now
	AllowedHosts   []string               // Host headers allowed to access the server
	AllowedCIDRS   []string               // IPs allowed to access readyz/infra/metrics
	TrustProxy     bool                   // true if running behind a trusted reverse proxy (e.g., cloudflared)
	RequestTimeout time.Duration          // per-request timeout, discovery excluded
	AuthRateLimit  int                    // signup/login attempts per IP per minute, 0 disables
	Controller     *controller.Controller // view state and user actions
	Index          *index.MemoryIndex     // in-memory catalog
	Store          Pinger                 // persisted store health
	StoreBackend   string                 // "redis" | "leveldb" | "memory"
	StoreKeys      KeyLister              // persisted keys for /infra, nil to skip
	Discovery      DiscoveryInfo          // discovery provider status
	Metrics        *metrics.Metrics       // nil disables /metrics
}

// Now returns TimeNow() or time.Now() when unset.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
