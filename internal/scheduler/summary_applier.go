package scheduler

import (
	"context"
	"sync"

	"github.com/sohamroyc/Api-directory/internal/catalog"
	"github.com/sohamroyc/Api-directory/internal/domain"
	"github.com/sohamroyc/Api-directory/internal/index"
	"github.com/sohamroyc/Api-directory/internal/logger"
	"github.com/sohamroyc/Api-directory/internal/store"
)

const summaryQueueSize = 32

// SummaryApplier is the single consumer of background summarization results.
// Producers Submit updates from any goroutine; the applier attaches them to
// the catalog by listing id and flushes the catalog to the store.
// Updates are applied in arrival order. Nothing guarantees that a submitted
// summary is ever produced or applied.
type SummaryApplier struct {
	state    *store.State
	index    *index.MemoryIndex
	logger   logger.Logger
	updates  chan catalog.SummaryUpdate
	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	// mu orders Submit against Stop: once stopped is set, no send is in flight.
	mu      sync.RWMutex
	stopped bool
}

// NewSummaryApplier creates a new applier
func NewSummaryApplier(state *store.State, idx *index.MemoryIndex, log logger.Logger) *SummaryApplier {
	return &SummaryApplier{
		state:   state,
		index:   idx,
		logger:  log,
		updates: make(chan catalog.SummaryUpdate, summaryQueueSize),
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start begins consuming updates
func (sa *SummaryApplier) Start(ctx context.Context) {
	go func() {
		defer close(sa.done)
		for {
			select {
			case u := <-sa.updates:
				sa.apply(ctx, u)
			case <-sa.stopCh:
				sa.drain(ctx)
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop applies what is already queued, then stops the applier.
// It must only be called after Start.
func (sa *SummaryApplier) Stop() {
	sa.stopOnce.Do(func() {
		sa.mu.Lock()
		sa.stopped = true
		close(sa.stopCh)
		sa.mu.Unlock()
	})
	<-sa.done
}

// Submit queues an update. It reports false when the applier is stopped,
// in which case the update is dropped.
func (sa *SummaryApplier) Submit(u catalog.SummaryUpdate) bool {
	sa.mu.RLock()
	defer sa.mu.RUnlock()

	if sa.stopped {
		sa.logger.Debug("summary dropped after shutdown", logger.String("id", u.ListingID))
		return false
	}
	select {
	case sa.updates <- u:
		return true
	case <-sa.done:
		// consumer exited on context cancellation
		return false
	}
}

func (sa *SummaryApplier) drain(ctx context.Context) {
	for {
		select {
		case u := <-sa.updates:
			sa.apply(ctx, u)
		default:
			return
		}
	}
}

func (sa *SummaryApplier) apply(ctx context.Context, u catalog.SummaryUpdate) {
	if _, ok := sa.index.Get(u.ListingID); !ok {
		sa.logger.Debug("summary for unknown listing ignored", logger.String("id", u.ListingID))
		return
	}

	_, err := sa.index.Commit(ctx, func(cur []domain.ApiListing) []domain.ApiListing {
		return catalog.AttachSummary(cur, u.ListingID, u.Summary)
	}, sa.state.SaveListings)
	if err != nil {
		sa.logger.Error("failed to persist summary",
			logger.String("id", u.ListingID),
			logger.Error(err))
		return
	}

	sa.logger.Info("summary attached", logger.String("id", u.ListingID))
}
