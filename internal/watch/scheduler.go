package watch

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/anish/priceguard/internal/pipeline"
)

// Runner runs the price pipeline for one query. *pipeline.Pipeline
// satisfies this.
type Runner interface {
	Run(ctx context.Context, query string) pipeline.State
}

// Messenger delivers price alerts to a chat surface.
type Messenger interface {
	Send(chatID string, text string) error
}

// Saver archives completed runs.
type Saver interface {
	SaveRun(st pipeline.State) (int64, error)
}

// Scheduler periodically re-checks every watchlist entry. Each check is a
// full pipeline run; results are archived and an alert is sent when the
// lowest extracted price reaches the entry's target.
type Scheduler struct {
	Pipeline Runner
	Store    Saver
	Gateway  Messenger
	List     *Watchlist
	Interval time.Duration
}

func NewScheduler(p Runner, store Saver, gateway Messenger, list *Watchlist, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{Pipeline: p, Store: store, Gateway: gateway, List: list, Interval: interval}
}

// Start blocks until the context is cancelled, checking the watchlist once
// per interval.
func (s *Scheduler) Start(ctx context.Context) {
	if len(s.List.Products) == 0 {
		log.Println("Watch scheduler: empty watchlist, nothing to do")
		return
	}
	log.Printf("Watch scheduler: tracking %d products every %v", len(s.List.Products), s.Interval)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.checkAll(ctx)
		}
	}
}

func (s *Scheduler) checkAll(ctx context.Context) {
	for _, entry := range s.List.Products {
		if ctx.Err() != nil {
			return
		}
		s.check(ctx, entry)
	}
}

func (s *Scheduler) check(ctx context.Context, entry Entry) {
	st := s.Pipeline.Run(ctx, entry.Query)

	if s.Store != nil {
		if _, err := s.Store.SaveRun(st); err != nil {
			log.Printf("Watch scheduler: failed to archive run for %q: %v", entry.Query, err)
		}
	}

	if st.Failed() {
		log.Printf("Watch scheduler: check failed for %q: %s", entry.Query, st.Error)
		return
	}

	valid := st.ValidPrices()
	if len(valid) == 0 {
		return
	}
	lowest := valid[0]
	for _, p := range valid[1:] {
		if p < lowest {
			lowest = p
		}
	}

	if entry.TargetPrice <= 0 || lowest > entry.TargetPrice {
		return
	}

	alert := fmt.Sprintf("🔔 Price alert: %s is down to $%.2f (target $%.2f)\n\n%s",
		entry.Query, lowest, entry.TargetPrice, st.FinalReport)

	if s.Gateway == nil || entry.ChatID == "" {
		log.Print(alert)
		return
	}
	if err := s.Gateway.Send(entry.ChatID, alert); err != nil {
		log.Printf("Watch scheduler: failed to send alert for %q: %v", entry.Query, err)
	}
}
