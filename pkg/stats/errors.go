package stats

import (
	"errors"
	"fmt"
)

// ErrUnresolvedPopulation is matched by every *UnresolvedPopulationError.
var ErrUnresolvedPopulation = errors.New("population not resolved")

// UnresolvedPopulationError means no population figure exists for a region
// code. Rankings drop such candidates silently.
type UnresolvedPopulationError struct {
	Code string
}

func (e *UnresolvedPopulationError) Error() string {
	return fmt.Sprintf("no population for region code '%s'", e.Code)
}

func (e *UnresolvedPopulationError) Is(target error) bool {
	return target == ErrUnresolvedPopulation
}

// PinNotFoundError means the pinned reference entity is missing from the
// ranking candidates. It always propagates.
type PinNotFoundError struct {
	Label string
}

func (e *PinNotFoundError) Error() string {
	return fmt.Sprintf("pinned entity '%s' not found among ranked countries", e.Label)
}

// UnknownEntityError is returned when selecting an entity that is not in the dataset.
type UnknownEntityError struct {
	Entity string
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("unknown entity '%s'", e.Entity)
}

// NoDataError is returned when headline stats have nothing to report.
type NoDataError struct {
	Entity string
	Reason string
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no data for '%s': %s", e.Entity, e.Reason)
}
