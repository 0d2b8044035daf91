package query

import (
	"fmt"
	"strings"
)

// InvalidFilterError is returned when a query parameter cannot be interpreted.
// The query yields no rows.
type InvalidFilterError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidFilterError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// DataIntegrityError describes a row dropped during enrichment because a
// referenced key does not exist in the feed
type DataIntegrityError struct {
	Table   string // table of the dropped row
	Key     string // identity of the dropped row
	Missing string // the unresolved reference, e.g. "stop_id=X9"
}

func (e *DataIntegrityError) Error() string {
	var b strings.Builder
	b.WriteString(e.Table)
	b.WriteString(" row ")
	b.WriteString(e.Key)
	b.WriteString(" dropped: unresolved ")
	b.WriteString(e.Missing)
	return b.String()
}
