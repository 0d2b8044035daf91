// Package config loads the YAML configuration and validates it with struct tags.
//
// Feeds are listed under feeds[] and picked by name with SelectFeed. Query
// defaults (Monday to Friday, 06-22) are filled in after validation so a
// minimal file only needs a feed path.
package config
