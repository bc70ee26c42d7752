package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/sohamroyc/Api-directory/internal/catalog"
	"github.com/sohamroyc/Api-directory/internal/domain"
	"github.com/sohamroyc/Api-directory/internal/index"
	"github.com/sohamroyc/Api-directory/internal/logger"
	"github.com/sohamroyc/Api-directory/internal/metrics"
	"github.com/sohamroyc/Api-directory/internal/sources/seed"
	"github.com/sohamroyc/Api-directory/internal/store"
)

// SessionRestorer reconstitutes the persisted session.
type SessionRestorer interface {
	Restore(ctx context.Context) (domain.Session, bool, error)
}

// StateSyncer loads the persisted state into memory on startup
type StateSyncer struct {
	state    *store.State
	index    *index.MemoryIndex
	session  SessionRestorer
	seedFile string
	logger   logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewStateSyncer creates a new state syncer. seedFile may be empty to use
// the built-in seed catalog.
func NewStateSyncer(
	state *store.State,
	idx *index.MemoryIndex,
	session SessionRestorer,
	seedFile string,
	log logger.Logger,
	m *metrics.Metrics,
) *StateSyncer {
	return &StateSyncer{
		state:    state,
		index:    idx,
		session:  session,
		seedFile: seedFile,
		logger:   log,
		metrics:  m,
		now:      time.Now,
	}
}

// Sync loads the catalog (or the seeds when none is persisted), the latest
// discovery sources and the session. Malformed persisted data fails the sync.
// Seeds are not written back; the first mutation persists them.
func (ss *StateSyncer) Sync(ctx context.Context) error {
	ss.logger.Info("syncing persisted state to memory")

	listings, found, err := ss.state.Listings(ctx)
	if err != nil {
		return err
	}
	if !found {
		listings, err = ss.seeds()
		if err != nil {
			return err
		}
		ss.logger.Info("no persisted catalog, using seeds",
			logger.Int("count", len(listings)))
	}
	ss.index.Replace(listings)
	ss.metrics.CatalogSize(len(listings))

	sources, found, err := ss.state.Sources(ctx)
	if err != nil {
		return err
	}
	if found {
		ss.index.SetSources(sources)
	}

	sess, ok, err := ss.session.Restore(ctx)
	if err != nil {
		return err
	}

	fields := []logger.Field{
		logger.Int("listings", len(listings)),
		logger.Int("sources", len(sources)),
		logger.Bool("logged_in", ok),
	}
	if ok {
		fields = append(fields, logger.String("user_id", sess.User.ID))
	}
	ss.logger.Info("synced persisted state", fields...)

	return nil
}

func (ss *StateSyncer) seeds() ([]domain.ApiListing, error) {
	if ss.seedFile == "" {
		return catalog.Seed(ss.now()), nil
	}

	file, err := seed.NewLoader(ss.seedFile).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load seeds: %w", err)
	}
	listings, err := seed.NewMapper().MapListings(file)
	if err != nil {
		return nil, fmt.Errorf("failed to map seeds: %w", err)
	}
	return listings, nil
}
