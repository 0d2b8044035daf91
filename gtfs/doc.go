/*
Package gtfs loads a static GTFS schedule archive into an immutable, indexed Feed.

The loader reads the five tables the query pipeline needs (stops.txt, routes.txt,
trips.txt, stop_times.txt, calendar.txt) plus the optional agency.txt. A missing
table, a missing required column or an unparseable value aborts the load with a
*FeedLoadError. Softer problems (duplicate ids, dangling parent_station references)
are kept as warnings on the Feed.

# Basic Usage

Load from a local file:

	feed, err := gtfs.LoadFromFile("gtfs.zip")
	if err != nil {
	    var loadErr *gtfs.FeedLoadError
	    if errors.As(err, &loadErr) {
	        // archive missing or malformed
	    }
	    return err
	}

Load from bytes (HTTP download, object storage, embedded fixture):

	feed, err := gtfs.LoadFromBytes(zipBytes)

# Immutability

Every accessor returns a copy. Parse once per session and share the *Feed
read-only between callers; derivations never modify it.

# Times

stop_times values are parsed into offsets from midnight of the service day.
Values past 24:00:00 are kept as is (25:10:00 is 25h10m) so post-midnight
service compares correctly against hour windows.
*/
package gtfs
