package gateway

import (
	"context"

	"github.com/anish/priceguard/internal/pipeline"
)

// Messenger defines the interface for chat gateways (Telegram, Discord).
type Messenger interface {
	// Start begins the message listening loop and blocks until stopped.
	Start() error
	// Send sends a message to a specific chat
	Send(chatID string, text string) error
	// Stop gracefully shuts down the gateway
	Stop() error
}

// Runner runs the price pipeline for one query. *pipeline.Pipeline
// satisfies this.
type Runner interface {
	Run(ctx context.Context, query string) pipeline.State
}

// Archiver persists completed runs and lists past ones.
type Archiver interface {
	SaveRun(st pipeline.State) (int64, error)
}

// reply formats a pipeline result for a chat surface. Step-wide failures
// are rendered distinctly from a normal report.
func reply(st pipeline.State) string {
	if st.Failed() {
		return "⚠️ " + st.Error
	}
	return st.FinalReport
}
