package syncrun

import "context"

type Repository interface {
	Create(ctx context.Context, run Run) error
	// Finish stores the terminal status, result payload and error of a run.
	Finish(ctx context.Context, run Run) error
	GetByID(ctx context.Context, runID string) (Run, bool, error)
	ListRecent(ctx context.Context, leagueID *int64, limit int) ([]Run, error)
}
