package syncrun

import "time"

type Kind string

const (
	KindLeague  Kind = "league"
	KindTeams   Kind = "teams"
	KindMatches Kind = "matches"
)

type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Run is the audit record of one sync invocation.
type Run struct {
	ID         string
	Kind       Kind
	LeagueID   *int64
	Trigger    string
	Status     Status
	Result     []byte
	Error      string
	TraceID    string
	StartedAt  time.Time
	FinishedAt *time.Time
}

func (r Run) Finished() bool {
	return r.Status == StatusCompleted || r.Status == StatusFailed
}
