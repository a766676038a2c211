package jobs

import (
	"context"
	"log/slog"
	"time"
)

// Expirer отменяет заявки без ответа, слот которых скоро начнется
type Expirer interface {
	ExpireStale(ctx context.Context, lead time.Duration, limit int) (int, error)
}

// ReservationExpirationJob periodically cancels requests the owner never answered
type ReservationExpirationJob struct {
	expirer   Expirer
	interval  time.Duration
	lead      time.Duration
	batchSize int
	ticker    *time.Ticker
	done      chan bool
}

// NewReservationExpirationJob creates a new reservation expiration job.
// A lead shorter than interval is raised to interval.
func NewReservationExpirationJob(expirer Expirer, interval, lead time.Duration, batchSize int) *ReservationExpirationJob {
	if interval <= 0 {
		interval = time.Minute
	}
	if lead < interval {
		lead = interval
	}
	return &ReservationExpirationJob{
		expirer:   expirer,
		interval:  interval,
		lead:      lead,
		batchSize: batchSize,
		done:      make(chan bool),
	}
}

// Start runs an initial check and then one check per interval
func (j *ReservationExpirationJob) Start(ctx context.Context) {
	slog.Info("Starting reservation expiration job",
		"check_interval", j.interval.String(), "lead", j.lead.String(), "batch_size", j.batchSize)

	j.ticker = time.NewTicker(j.interval)

	go func() {
		j.checkExpired(ctx)
		for {
			select {
			case <-j.ticker.C:
				j.checkExpired(ctx)
			case <-ctx.Done():
				return
			case <-j.done:
				slog.Info("Reservation expiration job stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the background job
func (j *ReservationExpirationJob) Stop() {
	if j.ticker != nil {
		j.ticker.Stop()
	}
	close(j.done)
}

func (j *ReservationExpirationJob) checkExpired(ctx context.Context) {
	start := time.Now()
	expired, err := j.expirer.ExpireStale(ctx, j.lead, j.batchSize)
	if err != nil {
		slog.Error("Failed to expire stale reservations", "error", err)
		return
	}
	if expired == 0 {
		slog.Debug("No stale reservations found")
		return
	}
	slog.Info("Expired stale reservations",
		"count", expired, "elapsed_time", time.Since(start).String())
}
