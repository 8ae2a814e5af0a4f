package fracture

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedShapeKind = errors.New("fracture: unsupported shape kind")
	ErrDegenerateShape      = errors.New("fracture: polygon fixture has no vertices")
	ErrNotAttached          = errors.New("fracture: target has no attached body")
	ErrWorldMutation        = errors.New("fracture: world mutation failed")
	ErrGatewayFull          = errors.New("fracture: gateway entity limit reached")
)

// WorldMutationError reports a gateway failure after fracture started
// mutating the world. Pieces created before the failure are not rolled back.
type WorldMutationError struct {
	Op      string
	Fixture int
	Err     error
}

func (e *WorldMutationError) Error() string {
	if e.Fixture < 0 {
		return fmt.Sprintf("%s: %s: %v", ErrWorldMutation, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s fixture %d: %v", ErrWorldMutation, e.Op, e.Fixture, e.Err)
}

func (e *WorldMutationError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrWorldMutation) hold for every WorldMutationError.
func (e *WorldMutationError) Is(target error) bool {
	return target == ErrWorldMutation
}
