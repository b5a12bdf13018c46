package engine

import (
	"encoding/json"
	"fmt"
	"time"
)

// Snapshot versions:
//
//	0: progression only (skills, quests, ranks), no version field; also
//	   browser-store exports with a numeric streak
//	1: user progress history
//	2: economy (coins, streak, penalties, boosts, items, milestones)
//	3: quest chains, cosmetics, daily refresh marker, per-skill lifetime XP
const CurrentSnapshotVersion = 3

// Snapshot returns a deep copy of the full state for persistence.
func (e *Engine) Snapshot() State {
	return cloneState(e.state)
}

// MarshalSnapshot encodes the engine state as JSON.
func (e *Engine) MarshalSnapshot() ([]byte, error) {
	st := e.Snapshot()
	st.Version = CurrentSnapshotVersion
	data, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// LoadSnapshot decodes a persisted snapshot of any known version and migrates it
// to the current one. Absent fields are defaulted; structural problems are errors.
func LoadSnapshot(data []byte, cat *Catalog) (State, error) {
	if cat == nil {
		cat = DefaultCatalog()
	}
	if len(data) == 0 {
		return State{}, SnapshotError{Reason: "empty payload"}
	}

	data = unwrapPersistEnvelope(data)

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, SnapshotError{Reason: err.Error()}
	}
	return Migrate(st, st.Version, cat)
}

// unwrapPersistEnvelope returns the inner state of a browser-store export
// ({"state": {...}, "version": n}). Its version numbers are unrelated to
// ours and the inner state carries none, so it loads as version 0.
func unwrapPersistEnvelope(data []byte) []byte {
	var env struct {
		State json.RawMessage `json:"state"`
		User  json.RawMessage `json:"user"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return data
	}
	if len(env.State) == 0 || env.State[0] != '{' || len(env.User) != 0 {
		return data
	}
	return env.State
}

// UnmarshalJSON also accepts the legacy shape, a bare day count.
func (s *Streak) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		n = max(n, 0)
		*s = Streak{Current: n, Longest: n}
		return nil
	}
	type plain Streak
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = Streak(p)
	return nil
}

// UnmarshalJSON also accepts legacy notes stamped with "date".
func (n *ProgressNote) UnmarshalJSON(data []byte) error {
	type plain ProgressNote
	var p struct {
		plain
		Date *time.Time `json:"date"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*n = ProgressNote(p.plain)
	if n.At.IsZero() && p.Date != nil {
		n.At = *p.Date
	}
	return nil
}

// Migrate upgrades st from fromVersion to CurrentSnapshotVersion, filling
// defaults for fields introduced after fromVersion.
func Migrate(st State, fromVersion int, cat *Catalog) (State, error) {
	if cat == nil {
		cat = DefaultCatalog()
	}
	if fromVersion < 0 || fromVersion > CurrentSnapshotVersion {
		return State{}, SnapshotError{Version: fromVersion, Reason: fmt.Sprintf("unsupported version (current is %d)", CurrentSnapshotVersion)}
	}
	if err := validateState(&st, fromVersion); err != nil {
		return State{}, err
	}

	if fromVersion < 1 {
		if st.User.ProgressHistory == nil {
			st.User.ProgressHistory = []ProgressNote{}
		}
	}
	if fromVersion < 2 {
		if st.User.Milestones == nil {
			st.User.Milestones = cat.NewMilestones()
		}
		if st.User.OwnedItemIDs == nil {
			st.User.OwnedItemIDs = []string{}
		}
		if st.User.ActiveBoosts == nil {
			st.User.ActiveBoosts = []Boost{}
		}
	}
	if fromVersion < 3 {
		if st.Chains == nil {
			st.Chains = []QuestChain{}
		}
		// Lifetime XP did not exist; the current remainder is the best lower bound.
		sum := 0
		for i := range st.Skills {
			if st.Skills[i].TotalXP < st.Skills[i].XP {
				st.Skills[i].TotalXP = st.Skills[i].XP
			}
			sum += st.Skills[i].TotalXP
		}
		// The user total can never trail the skills it was earned through.
		if st.User.TotalXP < sum {
			st.User.TotalXP = sum
		}
	}

	normalizeState(&st, cat)
	st.Version = CurrentSnapshotVersion
	return st, nil
}

func validateState(st *State, version int) error {
	if st.User.Coins < 0 {
		return SnapshotError{Version: version, Reason: "negative coin balance"}
	}
	if st.User.TotalXP < 0 {
		return SnapshotError{Version: version, Reason: "negative total xp"}
	}
	seen := map[string]bool{}
	for _, q := range st.Quests {
		if q.ID == "" {
			return SnapshotError{Version: version, Reason: "quest without id"}
		}
		if seen[q.ID] {
			return SnapshotError{Version: version, Reason: fmt.Sprintf("duplicate quest id %q", q.ID)}
		}
		seen[q.ID] = true
		switch q.Status {
		case "", QuestActive, QuestCompleted, QuestFailed, QuestExpired:
		default:
			return SnapshotError{Version: version, Reason: fmt.Sprintf("quest %q has unknown status %q", q.ID, q.Status)}
		}
	}
	for _, sk := range st.Skills {
		if sk.ID == "" {
			return SnapshotError{Version: version, Reason: "skill without id"}
		}
		if sk.XP < 0 {
			return SnapshotError{Version: version, Reason: fmt.Sprintf("skill %q has negative xp", sk.ID)}
		}
	}
	return nil
}

// normalizeState fills nil collections and recomputes every derived field.
func normalizeState(st *State, cat *Catalog) {
	u := &st.User
	if u.ProgressHistory == nil {
		u.ProgressHistory = []ProgressNote{}
	}
	if u.OwnedItemIDs == nil {
		u.OwnedItemIDs = []string{}
	}
	if u.ActiveBoosts == nil {
		u.ActiveBoosts = []Boost{}
	}
	if u.Milestones == nil {
		u.Milestones = cat.NewMilestones()
	}
	if st.Skills == nil {
		st.Skills = []Skill{}
	}
	if st.Quests == nil {
		st.Quests = []Quest{}
	}
	if st.Chains == nil {
		st.Chains = []QuestChain{}
	}

	for i := range st.Skills {
		sk := &st.Skills[i]
		if !sk.Domain.IsValid() {
			sk.Domain = DefaultDomain
		}
		if sk.Level < 1 {
			sk.Level = 1
		}
		if sk.XPToNextLevel <= 0 {
			sk.XPToNextLevel = DefaultXPToNextLevel
		}
		// Old snapshots may carry an un-normalized remainder.
		for sk.XP >= sk.XPToNextLevel {
			sk.XP -= sk.XPToNextLevel
			sk.Level++
			sk.XPToNextLevel = nextThreshold(sk.XPToNextLevel)
		}
	}
	for i := range st.Quests {
		q := &st.Quests[i]
		if q.Status == "" {
			q.Status = QuestActive
			if q.CompletedAt != nil {
				q.Status = QuestCompleted
			}
		}
		if !q.Domain.IsValid() {
			q.Domain = DefaultDomain
		}
		if !q.Difficulty.IsValid() {
			q.Difficulty = DifficultyMedium
		}
	}

	u.Level = LevelForTotalXP(u.TotalXP)
	u.Rank = RankForXP(u.TotalXP)
	st.DomainRanks = make(map[Domain]Rank, len(Domains))
	for _, d := range Domains {
		st.DomainRanks[d] = RankForXP(domainXP(st.Skills, d))
	}
}

func cloneQuest(q Quest) Quest {
	if q.Deadline != nil {
		d := *q.Deadline
		q.Deadline = &d
	}
	if q.CompletedAt != nil {
		c := *q.CompletedAt
		q.CompletedAt = &c
	}
	if q.Punishment != nil {
		p := *q.Punishment
		q.Punishment = &p
	}
	q.CompletionCriteria = append([]string(nil), q.CompletionCriteria...)
	return q
}

func cloneState(src State) State {
	dst := src

	u := &dst.User
	u.ActiveBoosts = append([]Boost{}, src.User.ActiveBoosts...)
	u.OwnedItemIDs = append([]string{}, src.User.OwnedItemIDs...)
	u.EquippedBadges = append([]string(nil), src.User.EquippedBadges...)
	u.ProgressHistory = append([]ProgressNote{}, src.User.ProgressHistory...)
	u.Milestones = make([]Milestone, len(src.User.Milestones))
	for i, m := range src.User.Milestones {
		m.RewardItemIDs = append([]string(nil), m.RewardItemIDs...)
		u.Milestones[i] = m
	}

	dst.Skills = make([]Skill, len(src.Skills))
	for i, sk := range src.Skills {
		sk.History = append([]HistoryEntry(nil), sk.History...)
		dst.Skills[i] = sk
	}
	dst.Quests = make([]Quest, len(src.Quests))
	for i, q := range src.Quests {
		dst.Quests[i] = cloneQuest(q)
	}
	dst.Chains = make([]QuestChain, len(src.Chains))
	for i, c := range src.Chains {
		c.QuestIDs = append([]string(nil), c.QuestIDs...)
		dst.Chains[i] = c
	}
	dst.DomainRanks = make(map[Domain]Rank, len(src.DomainRanks))
	for k, v := range src.DomainRanks {
		dst.DomainRanks[k] = v
	}
	return dst
}
