// Package pipeline provides the frame types, lifecycle state and stage
// contracts shared by the decode and present stages.
package pipeline

import (
	"context"
)

// Stage is one loop of the player. Execute blocks until the loop ends and
// reports its counters; it does not return errors for conditions that only
// end playback.
type Stage[In, Out any] interface {
	Execute(ctx context.Context, input In) (Out, error)
}

// DecodeStage is the producer loop contract.
type DecodeStage = Stage[DecodeInput, DecodeResult]

// PresentStage is the consumer loop contract.
type PresentStage = Stage[PresentInput, PresentResult]
