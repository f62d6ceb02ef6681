package jobs

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/thereayou/voxus/internal/logger"
	"github.com/thereayou/voxus/internal/services"
)

// Reconciler makes stored connection flags agree with the live connections.
type Reconciler interface {
	ReconcileConnections(ctx context.Context, live services.LiveConnections) (*services.Reconciled, error)
}

// Announcer is told about every user whose flag the job corrected.
type Announcer interface {
	AnnouncePresence(ctx context.Context, userID uint, online bool)
}

type PresenceJob struct {
	reconciler Reconciler
	presence   services.LiveConnections
	announcer  Announcer
	timeout    time.Duration
}

func NewPresenceJob(reconciler Reconciler, presence services.LiveConnections, announcer Announcer) *PresenceJob {
	return &PresenceJob{
		reconciler: reconciler,
		presence:   presence,
		announcer:  announcer,
		timeout:    30 * time.Second,
	}
}

// Run performs one reconciliation pass.
func (j *PresenceJob) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	fixed, err := j.reconciler.ReconcileConnections(ctx, j.presence)
	if fixed == nil {
		fixed = &services.Reconciled{}
	}
	if err != nil {
		logger.Error("presence reconciliation failed", "err", err, "offline", len(fixed.Offline), "online", len(fixed.Online))
	}
	if j.announcer != nil {
		for _, userID := range fixed.Offline {
			j.announcer.AnnouncePresence(ctx, userID, false)
		}
		for _, userID := range fixed.Online {
			j.announcer.AnnouncePresence(ctx, userID, true)
		}
	}
	if len(fixed.Offline)+len(fixed.Online) > 0 {
		logger.Info("connection flags corrected", "offline", fixed.Offline, "online", fixed.Online)
	}
}

// Start schedules Run every interval until the returned scheduler is stopped.
func (j *PresenceJob) Start(ctx context.Context, interval time.Duration) (*gocron.Scheduler, error) {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	if _, err := s.Every(interval).WaitForSchedule().Do(j.Run, ctx); err != nil {
		return nil, err
	}
	s.StartAsync()
	return s, nil
}
