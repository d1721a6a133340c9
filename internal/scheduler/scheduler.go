// Package scheduler drives the simulation engine at a fixed tick rate and
// hands snapshots to the broadcast layer.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"marketsim/pkg/contracts/domain"
)

// Engine is the producer-side surface the scheduler drives.
type Engine interface {
	Tick()
	Snapshot() domain.Snapshot
}

// Publisher receives snapshots for fan-out. Publish must never block; slow
// consumers are the publisher's problem, not the tick loop's.
type Publisher interface {
	Publish(snapshot domain.Snapshot)
}

// Scheduler runs the tick loop with drift correction: the n-th tick is
// scheduled at start + n*interval, so per-tick processing time never
// accumulates into schedule error.
type Scheduler struct {
	engine         Engine
	publisher      Publisher
	interval       time.Duration
	broadcastEvery int
	logger         *slog.Logger

	onTick func(d time.Duration) // metrics hook, may be nil
}

// New builds a scheduler. broadcastEvery snapshots are published once per
// that many ticks.
func New(engine Engine, publisher Publisher, interval time.Duration, broadcastEvery int, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		engine:         engine,
		publisher:      publisher,
		interval:       interval,
		broadcastEvery: broadcastEvery,
		logger:         logger.With(slog.String("component", "scheduler")),
	}
}

// OnTick registers a per-tick observation callback receiving the tick's
// processing duration.
func (s *Scheduler) OnTick(fn func(d time.Duration)) { s.onTick = fn }

// Run blocks until ctx is cancelled. A panic inside a tick is logged and the
// loop continues on the next scheduled tick; the engine never terminates on a
// tick failure.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("simulation loop started",
		slog.Duration("tick_interval", s.interval),
		slog.Int("broadcast_every", s.broadcastEvery))

	next := time.Now()
	ticks := 0

	for {
		started := time.Now()
		s.safeTick(ctx)
		ticks++

		if s.onTick != nil {
			s.onTick(time.Since(started))
		}

		if ticks%s.broadcastEvery == 0 {
			s.publisher.Publish(s.engine.Snapshot())
		}

		next = next.Add(s.interval)
		sleep := time.Until(next)
		if sleep < 0 {
			sleep = 0
		}

		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("simulation loop stopped", slog.Int("ticks", ticks))
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// safeTick contains tick panics: the failed tick's mutations are whatever the
// engine already applied, randomness is fresh next tick, so a retry would be
// meaningless.
func (s *Scheduler) safeTick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "tick failed", slog.Any("panic", r))
		}
	}()
	s.engine.Tick()
}
