package cron

import (
	"context"
	"log/slog"
	"time"
)

// StaleEvicter drops cached state that belongs to a previous day.
type StaleEvicter interface {
	EvictStale(ctx context.Context) error
}

// RevocationPruner forgets revoked tokens that have expired.
type RevocationPruner interface {
	PruneRevokedTokens() int
}

type HousekeepingJobs struct {
	punchClock StaleEvicter
	tokens     RevocationPruner
}

func NewHousekeepingJobs(punchClock StaleEvicter, tokens RevocationPruner) *HousekeepingJobs {
	return &HousekeepingJobs{punchClock: punchClock, tokens: tokens}
}

func (j *HousekeepingJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("evict_stale_attendance_status", 1*time.Hour, j.punchClock.EvictStale)
	scheduler.AddJob("prune_revoked_tokens", 15*time.Minute, j.PruneRevokedTokens)
}

func (j *HousekeepingJobs) PruneRevokedTokens(ctx context.Context) error {
	if removed := j.tokens.PruneRevokedTokens(); removed > 0 {
		slog.Info("Cron: pruned revoked tokens", "count", removed)
	}
	return nil
}
