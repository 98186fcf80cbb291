package usecase

import (
	"context"
	"log/slog"
)

// SweepChallenges removes challenges whose window closed longer ago than the
// configured retention. It runs on a schedule, never on a request path.
func (s *Usecase) SweepChallenges(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "SweepChallenges")
	defer span.End()

	retention := s.cfg.GetHour("otp.sweep.retention_hours")
	if retention <= 0 {
		retention = defaultSweepRetention
	}

	removed, err := s.repoDB.DeleteStaleChallenges(ctx, s.clock.Now().Add(-retention))
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete stale otp challenges", "error", err)
		return err
	}

	if removed > 0 {
		slog.InfoContext(ctx, "stale otp challenges removed", "count", removed)
	}

	return nil
}
