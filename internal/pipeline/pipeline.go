// Package pipeline implements the three-stage price comparison workflow:
// resolve product URLs, extract prices, synthesize a report. Stages run in
// strict sequence over a shared State; a step-wide error short-circuits the
// remaining stages.
package pipeline

import (
	"context"

	"github.com/anish/priceguard/internal/observability"
)

// Stage is one pipeline step. Run consumes a State and returns a new one;
// it never panics across the boundary, converting failures into
// State.Error instead.
type Stage interface {
	Name() string
	Run(ctx context.Context, st State) State
}

// Pipeline chains stages and enforces the skip-on-error policy, so calling
// surfaces do not each have to check State.Error between steps.
type Pipeline struct {
	Stages []Stage
	Logger *observability.Logger
}

func New(logger *observability.Logger, stages ...Stage) *Pipeline {
	return &Pipeline{Stages: stages, Logger: logger}
}

// Run executes the stages in order for the given product query. If a stage
// records a step-wide error, the remaining stages are skipped and the
// partially filled state is returned.
func (p *Pipeline) Run(ctx context.Context, query string) State {
	st := State{ProductQuery: query}

	for _, stage := range p.Stages {
		if st.Failed() {
			break
		}
		observability.SetStatus(observability.Stage(stage.Name()), query)
		if p.Logger != nil {
			p.Logger.LogStep(query, stage.Name(), "start")
		}
		st = stage.Run(ctx, st)
		if p.Logger != nil {
			status := "done"
			if st.Failed() {
				status = "failed"
			}
			p.Logger.LogStep(query, stage.Name(), status)
		}
	}

	observability.SetStatus(observability.StageIdle, "")
	if p.Logger != nil {
		score := 0.0
		if st.Confidence != nil {
			score = *st.Confidence
		}
		p.Logger.LogPipeline(query, score, st.Error)
	}
	return st
}
