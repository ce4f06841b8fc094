package retention

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"messaging-service/internal/observability"
	"messaging-service/internal/repositories"
)

// Policies configures the retention windows in days. A zero window disables
// that policy; the policies are independent, not an all-or-nothing switch.
type Policies struct {
	MessageDays      int
	NotificationDays int
	ReportDays       int
}

// policyTimeout bounds a single policy run so a slow sweep cannot starve
// foreground traffic indefinitely.
const policyTimeout = 2 * time.Minute

// Sweeper periodically purges aged messages, notifications and resolved
// reports. It has an explicit lifecycle so tests can drive RunOnce
// synchronously without the timer.
type Sweeper struct {
	conversations repositories.ConversationRepository
	messages      repositories.MessageRepository
	notifications repositories.NotificationRepository
	reports       repositories.ReportRepository
	policies      Policies
	interval      time.Duration
	logger        zerolog.Logger
	now           func() time.Time

	runMu sync.Mutex
	stop  chan struct{}
	done  chan struct{}
}

// NewSweeper constructs a Sweeper.
func NewSweeper(
	conversations repositories.ConversationRepository,
	messages repositories.MessageRepository,
	notifications repositories.NotificationRepository,
	reports repositories.ReportRepository,
	policies Policies,
	interval time.Duration,
	logger zerolog.Logger,
) *Sweeper {
	return &Sweeper{
		conversations: conversations,
		messages:      messages,
		notifications: notifications,
		reports:       reports,
		policies:      policies,
		interval:      interval,
		logger:        logger,
		now:           time.Now,
	}
}

// Start launches the sweep loop. Calling Start on a running sweeper is a
// no-op.
func (s *Sweeper) Start() {
	if s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info().Dur("interval", s.interval).Msg("retention sweeper started")
		for {
			select {
			case <-ticker.C:
				s.RunOnce(context.Background())
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop halts the sweep loop and waits for it to exit.
func (s *Sweeper) Stop() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	<-s.done
	s.stop = nil
	s.logger.Info().Msg("retention sweeper stopped")
}

// RunOnce executes all enabled policies. A sweep already in progress makes
// this call a no-op, so overlapping timer ticks never run concurrently.
// Policy failures are isolated: one failing policy does not stop the others.
func (s *Sweeper) RunOnce(ctx context.Context) {
	if !s.runMu.TryLock() {
		s.logger.Warn().Msg("sweep already in progress, skipping")
		return
	}
	defer s.runMu.Unlock()

	s.sweepMessages(ctx)
	s.sweepNotifications(ctx)
	s.sweepReports(ctx)
}

func (s *Sweeper) sweepMessages(ctx context.Context) {
	if s.policies.MessageDays <= 0 {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, policyTimeout)
	defer cancel()

	cutoff := s.cutoff(s.policies.MessageDays)
	conversationIDs, purged, err := s.messages.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		observability.IncSweeperFailure("messages")
		s.logger.Error().Err(err).Time("cutoff", cutoff).Msg("message purge failed")
		return
	}
	observability.AddSweeperPurged("messages", purged)

	// Previews of every touched conversation are re-derived once, after the
	// purge, so listings never show a deleted message.
	for _, conversationID := range conversationIDs {
		if err := s.conversations.RefreshPreview(ctx, conversationID); err != nil {
			observability.IncCascadeFailure("preview_refresh")
			s.logger.Error().Err(err).
				Int("conversation_id", conversationID).
				Msg("preview refresh failed after purge")
		}
	}

	s.logger.Info().
		Int("purged", purged).
		Int("conversations_touched", len(conversationIDs)).
		Time("cutoff", cutoff).
		Msg("message retention sweep completed")
}

func (s *Sweeper) sweepNotifications(ctx context.Context) {
	if s.policies.NotificationDays <= 0 {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, policyTimeout)
	defer cancel()

	cutoff := s.cutoff(s.policies.NotificationDays)
	purged, err := s.notifications.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		observability.IncSweeperFailure("notifications")
		s.logger.Error().Err(err).Time("cutoff", cutoff).Msg("notification purge failed")
		return
	}
	observability.AddSweeperPurged("notifications", purged)

	s.logger.Info().
		Int("purged", purged).
		Time("cutoff", cutoff).
		Msg("notification retention sweep completed")
}

func (s *Sweeper) sweepReports(ctx context.Context) {
	if s.policies.ReportDays <= 0 {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, policyTimeout)
	defer cancel()

	cutoff := s.cutoff(s.policies.ReportDays)
	purged, err := s.reports.PurgeResolvedOlderThan(ctx, cutoff)
	if err != nil {
		observability.IncSweeperFailure("reports")
		s.logger.Error().Err(err).Time("cutoff", cutoff).Msg("report purge failed")
		return
	}
	observability.AddSweeperPurged("reports", purged)

	s.logger.Info().
		Int("purged", purged).
		Time("cutoff", cutoff).
		Msg("report retention sweep completed")
}

func (s *Sweeper) cutoff(days int) time.Time {
	return s.now().AddDate(0, 0, -days)
}
