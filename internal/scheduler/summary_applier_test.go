package scheduler

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sohamroyc/Api-directory/internal/catalog"
	"github.com/sohamroyc/Api-directory/internal/domain"
	"github.com/sohamroyc/Api-directory/internal/index"
	"github.com/sohamroyc/Api-directory/internal/logger"
	"github.com/sohamroyc/Api-directory/internal/store"
	"github.com/sohamroyc/Api-directory/internal/store/memory"
)

func newApplier(listings ...domain.ApiListing) (*SummaryApplier, *index.MemoryIndex, *store.State) {
	state := store.NewState(memory.New())
	idx := index.NewMemoryIndex()
	idx.Replace(listings)
	return NewSummaryApplier(state, idx, logger.Nop()), idx, state
}

func TestSummaryApplier_AttachesByIDAndFlushes(t *testing.T) {
	ctx := context.Background()
	applier, idx, state := newApplier(
		domain.ApiListing{ID: "1", Name: "Twin"},
		domain.ApiListing{ID: "2", Name: "Twin"},
	)
	applier.Start(ctx)

	require.True(t, applier.Submit(catalog.SummaryUpdate{ListingID: "2", Summary: "the second twin"}))

	require.Eventually(t, func() bool {
		l, _ := idx.Get("2")
		return l.AISummary != ""
	}, time.Second, 5*time.Millisecond)
	applier.Stop()

	first, _ := idx.Get("1")
	assert.Empty(t, first.AISummary)

	persisted, found, err := state.Listings(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "the second twin", persisted[1].AISummary)
	assert.Empty(t, persisted[0].AISummary)
}

func TestSummaryApplier_UnknownIDIsIgnored(t *testing.T) {
	ctx := context.Background()
	applier, idx, state := newApplier(domain.ApiListing{ID: "1"})
	applier.Start(ctx)

	require.True(t, applier.Submit(catalog.SummaryUpdate{ListingID: "evicted", Summary: "late"}))
	applier.Stop()

	l, _ := idx.Get("1")
	assert.Empty(t, l.AISummary)

	_, found, err := state.Listings(ctx)
	require.NoError(t, err)
	assert.False(t, found, "nothing to flush")
}

func TestSummaryApplier_StopDrainsQueued(t *testing.T) {
	ctx := context.Background()
	applier, idx, _ := newApplier(domain.ApiListing{ID: "1"}, domain.ApiListing{ID: "2"})

	// Queue before the consumer runs.
	require.True(t, applier.Submit(catalog.SummaryUpdate{ListingID: "1", Summary: "one"}))
	require.True(t, applier.Submit(catalog.SummaryUpdate{ListingID: "2", Summary: "two"}))

	applier.Start(ctx)
	applier.Stop()

	for _, l := range idx.All() {
		assert.NotEmpty(t, l.AISummary, "listing %s", l.ID)
	}
}

func TestSummaryApplier_SubmitAfterStopIsDropped(t *testing.T) {
	applier, idx, _ := newApplier(domain.ApiListing{ID: "1"})
	applier.Start(context.Background())
	applier.Stop()
	applier.Stop()

	assert.False(t, applier.Submit(catalog.SummaryUpdate{ListingID: "1", Summary: "late"}))
	l, _ := idx.Get("1")
	assert.Empty(t, l.AISummary)
}

func TestSummaryApplier_AcceptedUpdatesSurviveConcurrentStop(t *testing.T) {
	const n = 64
	listings := make([]domain.ApiListing, n)
	for i := range listings {
		listings[i] = domain.ApiListing{ID: fmt.Sprintf("l%d", i)}
	}
	applier, idx, _ := newApplier(listings...)
	applier.Start(context.Background())

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted []string
		start    = make(chan struct{})
	)
	for _, l := range listings {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			<-start
			if applier.Submit(catalog.SummaryUpdate{ListingID: id, Summary: "s-" + id}) {
				mu.Lock()
				accepted = append(accepted, id)
				mu.Unlock()
			}
		}(l.ID)
	}
	close(start)
	applier.Stop()
	wg.Wait()

	for _, id := range accepted {
		l, ok := idx.Get(id)
		require.True(t, ok)
		assert.Equal(t, "s-"+id, l.AISummary, "accepted update for %s was lost", id)
	}
}
