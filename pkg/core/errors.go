package core

import (
	"errors"
	"fmt"
)

// ErrUnavailable marks a logical database that is absent or unreachable.
// Query layers treat it as zero matches so partial deployments keep working.
var ErrUnavailable = errors.New("database unavailable")

// UnknownSourceError reports a request naming a search type with no handler.
// Unlike backing-store failures it is surfaced to the caller: asking for a
// bogus index must not look like an empty result.
type UnknownSourceError struct {
	Name string
}

func (e *UnknownSourceError) Error() string {
	return fmt.Sprintf("unsupported search type: %s", e.Name)
}

// UnknownSpeciesError reports a request for a species that is not configured.
type UnknownSpeciesError struct {
	Name string
}

func (e *UnknownSpeciesError) Error() string {
	return fmt.Sprintf("unknown species: %s", e.Name)
}
