package controller

import (
	"context"
	"time"

	"github.com/sohamroyc/Api-directory/internal/catalog"
	"github.com/sohamroyc/Api-directory/internal/domain"
	"github.com/sohamroyc/Api-directory/internal/logger"
	"github.com/sohamroyc/Api-directory/internal/metrics"
)

// RefreshResult lists the listings a discovery actually added.
type RefreshResult struct {
	Category string
	Added    []domain.ApiListing
}

// Refresh runs one discovery for the selected category ("Most Popular" for
// All), merges the new listings into the catalog and replaces the sources.
// The first few added listings are then summarized in the background; those
// summaries reach the catalog through the SummarySink, in any order or never.
//
// ctx bounds the discovery call only. Summaries run detached from it.
// A failed discovery leaves the catalog untouched and is returned after
// being logged.
func (c *Controller) Refresh(ctx context.Context) (RefreshResult, error) {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return RefreshResult{}, ErrRefreshRunning
	}
	c.loading = true
	topic := string(c.category)
	if c.category == domain.CategoryAll {
		topic = MostPopular
	}
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	log := c.deps.Logger

	start := time.Now()
	res, err := c.deps.Discoverer.Discover(ctx, topic)
	if err != nil {
		log.Error("discovery failed", logger.String("category", topic), logger.Error(err))
		c.deps.Metrics.Discovery(metrics.ResultError, 0)
		return RefreshResult{Category: topic}, err
	}

	var added []domain.ApiListing
	listings, err := c.deps.Index.Commit(ctx, func(cur []domain.ApiListing) []domain.ApiListing {
		added = catalog.Fresh(cur, res.Listings)
		return catalog.Merge(cur, res.Listings)
	}, c.deps.State.SaveListings)
	if err != nil {
		// The in-memory catalog stays authoritative until the next flush.
		log.Error("failed to persist catalog", logger.Error(err))
	}

	c.deps.Index.SetSources(res.Sources)
	if err := c.deps.State.SaveSources(ctx, res.Sources); err != nil {
		log.Error("failed to persist discovery sources", logger.Error(err))
	}

	c.deps.Metrics.Discovery(metrics.ResultOK, len(added))
	c.deps.Metrics.CatalogSize(len(listings))
	log.Info("catalog refreshed",
		logger.String("category", topic),
		logger.Int("proposed", len(res.Listings)),
		logger.Int("added", len(added)),
		logger.Int("size", len(listings)),
		logger.Duration("took", time.Since(start)),
	)

	c.summarize(context.WithoutCancel(ctx), added)
	return RefreshResult{Category: topic, Added: added}, nil
}

func (c *Controller) summarize(ctx context.Context, added []domain.ApiListing) {
	n := min(c.summarizeFirst, len(added))
	for _, l := range added[:n] {
		c.pending.Add(1)
		go func(l domain.ApiListing) {
			defer c.pending.Done()
			summary := c.deps.Discoverer.Summarize(ctx, l.Name, l.Description)
			if !c.deps.Summaries.Submit(catalog.SummaryUpdate{ListingID: l.ID, Summary: summary}) {
				c.deps.Logger.Debug("summary not applied", logger.String("id", l.ID))
			}
		}(l)
	}
}

// WaitSummaries blocks until every background summarization started so far
// has submitted its result or ctx is done.
func (c *Controller) WaitSummaries(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
