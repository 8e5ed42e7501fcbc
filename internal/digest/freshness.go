package digest

import (
	"context"

	"newsdigest/internal/model"
)

// decision is the per-request freshness verdict for one category, derived
// from stored facts on every call rather than kept as live state.
type decision int

const (
	// decisionNoCache: no cache state exists, full refresh.
	decisionNoCache decision = iota
	// decisionExpired: cache older than the TTL, refresh with the prior
	// fence-post still in play.
	decisionExpired
	// decisionStale: a newer article appeared on the listing, incremental
	// refresh from the fence-post.
	decisionStale
	// decisionFresh: serve cached articles.
	decisionFresh
)

// evaluate decides how to serve a category. The newest-url probe asks the
// listing for a single item; an unreachable listing counts as a mismatch so
// the refresh attempt itself gets to fail soft.
func (d *Digester) evaluate(ctx context.Context, category string) (decision, *model.CategoryCacheState, error) {
	state, err := d.cacheStates.Get(ctx, category)
	if err != nil {
		return decisionNoCache, nil, err
	}
	if state == nil {
		return decisionNoCache, nil, nil
	}

	if d.now().Sub(state.CachedAt) > d.cacheTTL {
		return decisionExpired, state, nil
	}

	var currentNewest string
	if probe := d.listing.FetchListing(ctx, category, 1); len(probe) > 0 {
		currentNewest = probe[0].URL
	}

	if state.LatestSeenURL != currentNewest {
		return decisionStale, state, nil
	}

	return decisionFresh, state, nil
}
