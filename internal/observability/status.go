package observability

import (
	"sync"
	"time"
)

// Stage names the pipeline stage currently executing, for status reporting
// from gateways and the serve-mode heartbeat.
type Stage string

const (
	StageIdle    Stage = "idle"
	StageSearch  Stage = "search"
	StageExtract Stage = "extract"
	StageReport  Stage = "report"
)

type systemStatus struct {
	mu            sync.RWMutex
	currentStage  Stage
	activeQuery   string
	lastHeartbeat time.Time
}

var globalStatus = &systemStatus{
	currentStage:  StageIdle,
	lastHeartbeat: time.Now(),
}

// SetStatus records the stage and query currently being processed.
func SetStatus(stage Stage, query string) {
	globalStatus.mu.Lock()
	defer globalStatus.mu.Unlock()
	globalStatus.currentStage = stage
	globalStatus.activeQuery = query
}

// GetStatus retrieves the current stage, active query and last heartbeat.
func GetStatus() (Stage, string, time.Time) {
	globalStatus.mu.RLock()
	defer globalStatus.mu.RUnlock()
	return globalStatus.currentStage, globalStatus.activeQuery, globalStatus.lastHeartbeat
}

// Heartbeat updates the last heartbeat time.
func Heartbeat() {
	globalStatus.mu.Lock()
	defer globalStatus.mu.Unlock()
	globalStatus.lastHeartbeat = time.Now()
}
