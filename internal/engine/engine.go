package engine

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"prodigy/internal/logger"
)

const (
	DefaultDailyMin = 3
	DefaultDailyMax = 5
)

// Engine owns one user's progression state. It is not safe for concurrent
// use; the host serializes calls.
type Engine struct {
	state State
	cat   *Catalog
	loc   *time.Location
	log   *logger.Logger
	newID func() string

	dailyMin int
	dailyMax int

	events []Event
}

type Option func(*Engine)

func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

func WithCatalog(c *Catalog) Option {
	return func(e *Engine) {
		if c != nil {
			e.cat = c
		}
	}
}

// WithLocation sets the timezone calendar days are evaluated in.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithDailyRange bounds the size of each generated daily batch.
func WithDailyRange(min, max int) Option {
	return func(e *Engine) {
		if min < 1 || max < min {
			return
		}
		e.dailyMin, e.dailyMax = min, max
	}
}

// WithIDGenerator replaces the UUIDv7 generator (tests use predictable ids).
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

func newEngine(opts []Option) *Engine {
	e := &Engine{
		cat:      DefaultCatalog(),
		loc:      time.UTC,
		log:      logger.Nop(),
		newID:    func() string { return uuid.Must(uuid.NewV7()).String() },
		dailyMin: DefaultDailyMin,
		dailyMax: DefaultDailyMax,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// New creates an engine with a fresh state for userID.
func New(userID string, opts ...Option) *Engine {
	e := newEngine(opts)
	e.state = NewState(userID, e.cat)
	return e
}

// FromState wraps an already migrated state.
func FromState(st State, opts ...Option) *Engine {
	e := newEngine(opts)
	e.state = st
	normalizeState(&e.state, e.cat)
	return e
}

// FromSnapshot decodes, migrates and wraps a persisted snapshot.
func FromSnapshot(data []byte, opts ...Option) (*Engine, error) {
	e := newEngine(opts)
	st, err := LoadSnapshot(data, e.cat)
	if err != nil {
		return nil, err
	}
	e.state = st
	return e, nil
}

// NewState returns the initial state of a brand-new user.
func NewState(userID string, cat *Catalog) State {
	if cat == nil {
		cat = DefaultCatalog()
	}
	st := State{
		Version: CurrentSnapshotVersion,
		UserID:  strings.TrimSpace(userID),
		User: User{
			Level:      1,
			Rank:       RankE,
			Milestones: cat.NewMilestones(),
		},
	}
	normalizeState(&st, cat)
	return st
}

func (e *Engine) Catalog() *Catalog        { return e.cat }
func (e *Engine) Location() *time.Location { return e.loc }

func (e *Engine) today(now time.Time) Day { return DayOf(now, e.loc) }

// User returns a copy of the user record.
func (e *Engine) User() User {
	return cloneState(e.state).User
}

func (e *Engine) Skills() []Skill {
	return cloneState(e.state).Skills
}

func (e *Engine) Quests() []Quest {
	return cloneState(e.state).Quests
}

func (e *Engine) Chains() []QuestChain {
	return cloneState(e.state).Chains
}

func (e *Engine) DomainRank(d Domain) Rank {
	if r, ok := e.state.DomainRanks[d]; ok {
		return r
	}
	return RankE
}

func (e *Engine) Quest(id string) (Quest, bool) {
	q := e.state.quest(id)
	if q == nil {
		return Quest{}, false
	}
	return cloneQuest(*q), true
}

func (e *Engine) Skill(id string) (Skill, bool) {
	sk := e.state.skill(id)
	if sk == nil {
		return Skill{}, false
	}
	return cloneState(State{Skills: []Skill{*sk}}).Skills[0], true
}

// AddProgressNote appends a free-form entry to the user's progress history.
func (e *Engine) AddProgressNote(notes string, now time.Time) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return
	}
	e.state.User.ProgressHistory = append(e.state.User.ProgressHistory, ProgressNote{At: now, Notes: notes})
}

// ResetPenalties clears the penalty accumulator. Policy for when to call it
// (for example once RedemptionDone reaches RedemptionRequired) belongs to the host.
func (e *Engine) ResetPenalties(now time.Time) {
	e.state.User.Penalties = Penalties{}
	e.emit(EventPenaltiesReset, now, "", 0, "")
	e.log.Info("penalties reset", "user", e.state.UserID)
}

// RedemptionSatisfied reports whether an open redemption obligation has been worked off.
func (e *Engine) RedemptionSatisfied() bool {
	p := e.state.User.Penalties
	return p.RedemptionRequired > 0 && p.RedemptionDone >= p.RedemptionRequired
}
