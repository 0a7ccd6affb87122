package jobs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"geovista-api/services"
)

// SessionCleanupJob periodically removes expired login sessions.
type SessionCleanupJob struct {
	auth   *services.AuthService
	log    *logrus.Logger
	ticker *time.Ticker
	done   chan bool
}

func NewSessionCleanupJob(auth *services.AuthService, log *logrus.Logger, interval time.Duration) *SessionCleanupJob {
	return &SessionCleanupJob{
		auth:   auth,
		log:    log,
		ticker: time.NewTicker(interval),
		done:   make(chan bool),
	}
}

// Start begins the cleanup loop. It runs once immediately, then on schedule.
func (j *SessionCleanupJob) Start() {
	j.log.Info("session cleanup job started")

	go func() {
		j.cleanup()

		for {
			select {
			case <-j.ticker.C:
				j.cleanup()
			case <-j.done:
				j.log.Info("session cleanup job stopped")
				return
			}
		}
	}()
}

func (j *SessionCleanupJob) Stop() {
	j.ticker.Stop()
	j.done <- true
}

func (j *SessionCleanupJob) cleanup() {
	removed, err := j.auth.CleanupExpiredSessions(context.Background())
	if err != nil {
		j.log.WithError(err).Error("session cleanup failed")
		return
	}
	if removed > 0 {
		j.log.WithField("removed", removed).Info("expired sessions removed")
	}
}
