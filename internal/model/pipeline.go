package model

import (
	"context"

	"github.com/google/uuid"
)

// AnalysisPipeline is the external transcription/analysis service. Results
// for Trigger arrive asynchronously through the pipeline callback endpoint;
// Ask is synchronous.
type AnalysisPipeline interface {
	Trigger(ctx context.Context, recordingID uuid.UUID, audioKey string) error
	Ask(ctx context.Context, recordingID uuid.UUID, question string) (answer string, err error)
}
