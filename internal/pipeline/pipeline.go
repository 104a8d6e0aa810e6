package pipeline

import (
	"context"
	"errors"
	"time"

	"chatdesk/internal/knowledge"
	"chatdesk/internal/logger"
	"chatdesk/internal/metrics"
	"chatdesk/internal/models"
)

// ErrNoTerminalStage means every stage continued without producing a
// response. The compose stage is terminal by contract, so this is an
// implementation bug and must fail loudly.
var ErrNoTerminalStage = errors.New("pipeline finished without a terminal stage")

// Context is the single mutable value one request's stages share. It is
// owned exclusively by the executing request and discarded afterwards.
type Context struct {
	Request      models.ChatRequest
	KB           *knowledge.Base
	Conversation *models.ConversationContext

	Intent         models.Intent
	Entities       map[string]string
	MergedEntities map[string]string
	NextState      models.State
	Reply          string
}

// Outcome is a terminal response that halts the pipeline.
type Outcome struct {
	Status   int
	Response *models.ChatResponse
}

// Stage is one unit of the ordered executor. Returning a nil Outcome and nil
// error continues with the next stage; a non-nil Outcome halts immediately;
// an error propagates unmodified to the caller.
type Stage interface {
	Name() string
	Run(ctx context.Context, pc *Context) (*Outcome, error)
}

// Pipeline runs stages strictly in registration order.
type Pipeline struct {
	stages []Stage
}

func New(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Execute runs every stage until one halts. Each invocation is timed and
// logged regardless of how it ends; errors are never swallowed here.
func (p *Pipeline) Execute(ctx context.Context, pc *Context) (*Outcome, error) {
	for _, stage := range p.stages {
		start := time.Now()
		outcome, err := stage.Run(ctx, pc)
		elapsed := time.Since(start)

		label := "continue"
		switch {
		case err != nil:
			label = "error"
		case outcome != nil:
			label = "halt"
		}
		logger.Debug().
			Str("stage", stage.Name()).
			Str("outcome", label).
			Dur("duration", elapsed).
			Msg("pipeline stage")
		metrics.StageDuration.WithLabelValues(stage.Name(), label).Observe(elapsed.Seconds())

		if err != nil {
			return nil, err
		}
		if outcome != nil {
			return outcome, nil
		}
	}
	return nil, ErrNoTerminalStage
}
