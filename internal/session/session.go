package session

import (
	"context"
	"fmt"
	"time"

	"prodigy/internal/engine"
	"prodigy/internal/logger"
)

// Starter skills for a brand-new user, one per domain.
var seedSkills = []engine.SkillInput{
	{Name: "Strength Training", Domain: engine.DomainPhysical},
	{Name: "Meditation", Domain: engine.DomainMental},
	{Name: "Programming", Domain: engine.DomainTechnical},
	{Name: "Digital Art", Domain: engine.DomainCreative},
}

type Options struct {
	Clock   engine.Clock
	Logger  *logger.Logger
	Engine  []engine.Option
	NoSeeds bool
}

// Session binds one user's engine to a gateway. Every command runs against
// the in-memory engine and is persisted before Run returns. A Session is not
// safe for concurrent use.
type Session struct {
	id      Identity
	gw      Gateway
	clock   engine.Clock
	log     *logger.Logger
	engOpts []engine.Option
	eng     *engine.Engine
}

// Open loads the user's snapshot (or starts a fresh state), brings it up to
// date with a tick and persists the result.
func Open(ctx context.Context, gw Gateway, id Identity, opts Options) (*Session, error) {
	s := &Session{
		id:    id,
		gw:    gw,
		clock: opts.Clock,
		log:   opts.Logger,
	}
	if s.clock == nil {
		s.clock = engine.SystemClock{}
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	s.log = s.log.With("user", id.UserID)
	s.engOpts = append([]engine.Option{engine.WithLogger(s.log)}, opts.Engine...)

	data, err := gw.Load(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	now := s.clock.Now()

	if data == nil {
		s.eng = engine.New(id.UserID, s.engOpts...)
		if !opts.NoSeeds {
			for _, in := range seedSkills {
				if _, err := s.eng.AddSkill(in, now); err != nil {
					return nil, fmt.Errorf("seed skills: %w", err)
				}
			}
		}
		s.log.Info("started new profile", "role", id.Role)
	} else {
		s.eng, err = engine.FromSnapshot(data, s.engOpts...)
		if err != nil {
			return nil, fmt.Errorf("load snapshot for %s: %w", id.UserID, err)
		}
	}

	if err := s.Run(ctx, func(*engine.Engine, time.Time) error { return nil }); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) Identity() Identity     { return s.id }
func (s *Session) Now() time.Time         { return s.clock.Now() }
func (s *Session) Engine() *engine.Engine { return s.eng }

// Run ticks the engine, applies fn and saves the snapshot together with the
// events the command produced. When fn fails the engine is rolled back to
// its previous state and nothing is saved.
func (s *Session) Run(ctx context.Context, fn func(e *engine.Engine, now time.Time) error) error {
	now := s.clock.Now()
	before := s.eng.Snapshot()

	tick := s.eng.Tick(now)
	if len(tick.Failed) > 0 || len(tick.Expired) > 0 {
		s.log.Info("missed quests settled", "failed", len(tick.Failed), "expired", len(tick.Expired))
	}

	if err := fn(s.eng, now); err != nil {
		s.rollback(before)
		return err
	}
	return s.save(ctx)
}

func (s *Session) rollback(st engine.State) {
	s.eng = engine.FromState(st, s.engOpts...)
}

func (s *Session) save(ctx context.Context) error {
	data, err := s.eng.MarshalSnapshot()
	if err != nil {
		return err
	}
	events := s.eng.DrainEvents()
	if err := s.gw.Save(ctx, s.id, engine.CurrentSnapshotVersion, data, events); err != nil {
		s.log.Error("save failed", "error", err)
		return fmt.Errorf("save snapshot: %w", err)
	}
	s.log.Debug("snapshot saved", "bytes", len(data), "events", len(events))
	return nil
}
