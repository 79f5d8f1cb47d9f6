// Package advance implements the stage that steps an animation by one
// frame.
package advance

import (
	"context"
	"fmt"

	"github.com/user/imgload/pkg/compositor"
	"github.com/user/imgload/pkg/pipeline"
	"github.com/user/imgload/pkg/ports"
)

// Stage decodes the next frame of a sequence and composites it over the
// canvas currently displayed.
type Stage struct {
	logger ports.Logger
}

// New creates a new advance stage.
func New(logger ports.Logger) *Stage {
	return &Stage{
		logger: logger.WithComponent("advance"),
	}
}

// Execute decodes input.Index and composites it according to the disposal
// directive of the frame being replaced. input.Previous is never modified.
func (s *Stage) Execute(ctx context.Context, input pipeline.AdvanceInput) (pipeline.AdvanceResult, error) {
	frame, meta, err := input.Sequence.DecodeFrame(input.Index)
	if err != nil {
		return pipeline.AdvanceResult{}, fmt.Errorf("%w: frame %d: %v", ports.ErrDecodeFailure, input.Index, err)
	}

	if err := pipeline.Checkpoint(ctx); err != nil {
		return pipeline.AdvanceResult{}, err
	}

	s.logger.Debug("Compositing frame %d (previous disposal %s)", input.Index, input.Disposal)

	canvas := compositor.Compose(input.Previous, frame, meta, input.Index, input.Disposal, input.Width, input.Height)

	return pipeline.AdvanceResult{
		Canvas:   canvas,
		Metadata: meta,
	}, nil
}
