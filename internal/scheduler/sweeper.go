package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"school-transport/internal/data/entity"
	"school-transport/internal/data/repository"
	"school-transport/internal/metrics"
	"school-transport/internal/notifier"
	"school-transport/internal/usecase"

	"go.uber.org/zap"
)

// Sweeper drives the date-based booking transitions the HTTP layer never
// sees: activating paid bookings whose start date has arrived and expiring
// bookings whose end date has passed. It also publishes expiry warnings
// for subscriptions ending soon.
type Sweeper struct {
	bookings  repository.BookingRepository
	lifecycle usecase.LifecycleService
	notify    notifier.Notifier
	metrics   *metrics.Collector
	log       *zap.Logger

	sweepInterval   time.Duration
	warningInterval time.Duration
	warningWindow   time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type Config struct {
	SweepInterval   time.Duration
	WarningInterval time.Duration
	WarningWindow   time.Duration
}

func NewSweeper(
	bookings repository.BookingRepository,
	lifecycle usecase.LifecycleService,
	notify notifier.Notifier,
	m *metrics.Collector,
	cfg Config,
	log *zap.Logger,
) *Sweeper {
	return &Sweeper{
		bookings:        bookings,
		lifecycle:       lifecycle,
		notify:          notify,
		metrics:         m,
		log:             log.With(zap.String("component", "sweeper")),
		sweepInterval:   cfg.SweepInterval,
		warningInterval: cfg.WarningInterval,
		warningWindow:   cfg.WarningWindow,
	}
}

// Start launches the sweep loops. Both run an immediate pass on start so a
// restarted process catches up without waiting a full interval.
func (s *Sweeper) Start(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.SweepStatuses(ctx, time.Now())
		ticker := time.NewTicker(s.sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.SweepStatuses(ctx, now)
			}
		}
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.SendExpiryWarnings(ctx, time.Now())
		ticker := time.NewTicker(s.warningInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.SendExpiryWarnings(ctx, now)
			}
		}
	}()
}

// Stop cancels the loops and waits for any in-flight pass to finish.
func (s *Sweeper) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// SweepStatuses runs one full pass: activations first, then expiries. A
// booking the state machine rejects is logged and skipped, never retried
// in the same pass and never allowed to abort the rest.
func (s *Sweeper) SweepStatuses(ctx context.Context, now time.Time) {
	start := time.Now()

	due, err := s.bookings.FindDueForActivation(ctx, now)
	if err != nil {
		s.log.Error("Failed to find bookings due for activation", zap.Error(err))
	} else {
		for _, booking := range due {
			s.apply(ctx, booking, entity.EventStartDateReached, "activated")
		}
	}

	expired, err := s.bookings.FindDueForExpiry(ctx, now)
	if err != nil {
		s.log.Error("Failed to find bookings due for expiry", zap.Error(err))
	} else {
		for _, booking := range expired {
			s.apply(ctx, booking, entity.EventEndDateReached, "expired")
		}
	}

	if s.metrics != nil {
		s.metrics.ObserveSweep(time.Since(start))
	}
}

func (s *Sweeper) apply(ctx context.Context, booking *entity.Booking, event entity.BookingEvent, label string) {
	if _, err := s.lifecycle.Transition(ctx, booking, event); err != nil {
		var invalid *usecase.InvalidTransitionError
		if errors.As(err, &invalid) {
			s.log.Warn("Sweep skipped booking with rejected transition",
				zap.String("booking_id", booking.ID.String()),
				zap.String("status", string(invalid.Status)),
				zap.String("event", string(invalid.Event)),
			)
			if s.metrics != nil {
				s.metrics.SweepSkipped.Inc()
			}
			return
		}
		s.log.Error("Sweep failed to transition booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("event", string(event)),
		)
		return
	}

	if s.metrics != nil {
		s.metrics.SweepTransitions.WithLabelValues(label).Inc()
	}

	if s.notify != nil {
		if err := s.notify.BookingEvent(booking, event); err != nil {
			s.log.Warn("Failed to publish sweep notification",
				zap.Error(err),
				zap.String("booking_id", booking.ID.String()),
			)
		}
	}
}

// SendExpiryWarnings publishes a warning for every active booking ending
// within the configured window.
func (s *Sweeper) SendExpiryWarnings(ctx context.Context, now time.Time) {
	if s.notify == nil {
		return
	}

	ending, err := s.bookings.FindEndingWithin(ctx, now, s.warningWindow)
	if err != nil {
		s.log.Error("Failed to find bookings ending soon", zap.Error(err))
		return
	}

	for _, booking := range ending {
		if booking.EndDate == nil {
			continue
		}
		if err := s.notify.ExpiryWarning(booking, *booking.EndDate); err != nil {
			s.log.Warn("Failed to publish expiry warning",
				zap.Error(err),
				zap.String("booking_id", booking.ID.String()),
			)
		}
	}

	if len(ending) > 0 {
		s.log.Info("Published expiry warnings", zap.Int("count", len(ending)))
	}
}
