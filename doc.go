// Package sharedstops answers "which stations can I reach directly from both A
// and B" over a static GTFS feed.
//
// A FeedStore loads and memoises feeds; a Session binds to one feed source,
// validates query parameters and caches derived tables until the feed is
// reloaded.
//
//	store := sharedstops.NewFeedStore(nil, logger)
//	sess := sharedstops.NewSession(store, "feed.zip", sharedstops.Options{Logger: logger})
//	cmp, err := sess.Compare(ctx, sharedstops.DefaultParams("ParentX", "ParentZ"))
package sharedstops
