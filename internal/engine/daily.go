package engine

import (
	"hash/fnv"
	"math"
	"math/rand/v2"
	"time"
)

type TickResult struct {
	Day       Day
	Refreshed bool
	Failed    []string // daily quests missed on the previous day
	Generated []string
	Expired   []string // non-daily quests past their deadline
}

// Tick drives every time-based rule. The host calls it on startup and before
// each command; calling it repeatedly within one day is harmless.
func (e *Engine) Tick(now time.Time) *TickResult {
	today := e.today(now)
	res := &TickResult{Day: today}

	for i := range e.state.Quests {
		q := &e.state.Quests[i]
		if q.IsDaily || !pastDeadline(q, now) {
			continue
		}
		if e.expireQuest(q, now) {
			res.Expired = append(res.Expired, q.ID)
		}
	}

	// A freeze must stay visible for the day after its expiry, when the
	// gap it covers is evaluated.
	s := &e.state.User.Streak
	if s.FreezeActive && !s.FreezeExpiresDay.IsZero() && today.After(s.FreezeExpiresDay.AddDays(1)) {
		s.FreezeActive = false
		s.FreezeExpiresDay = ""
	}

	last := e.state.LastDailyRefresh
	if !last.IsZero() && !today.After(last) {
		return res
	}

	// Leftover dailies belong to the last refreshed day, which is the day missed.
	missed := last
	if missed.IsZero() {
		missed = today.AddDays(-1)
	}
	for _, q := range e.activeDailies() {
		if e.failQuest(q, now, missed) != nil {
			res.Failed = append(res.Failed, q)
		}
	}
	e.dropDailies()
	res.Generated = e.generateDailies(today, now)
	e.state.LastDailyRefresh = today
	res.Refreshed = true

	e.emit(EventDailyRefresh, now, "", len(res.Generated), string(today))
	e.log.Info("daily quests refreshed", "user", e.state.UserID, "day", today,
		"failed", len(res.Failed), "generated", len(res.Generated))
	return res
}

func (e *Engine) activeDailies() []string {
	var ids []string
	for _, q := range e.state.Quests {
		if q.IsDaily && q.Status == QuestActive {
			ids = append(ids, q.ID)
		}
	}
	return ids
}

func (e *Engine) dropDailies() {
	kept := e.state.Quests[:0]
	for _, q := range e.state.Quests {
		if !q.IsDaily {
			kept = append(kept, q)
		}
	}
	e.state.Quests = kept
}

// dailyRand is seeded from the user and the day so the batch for a given
// day is reproducible.
func dailyRand(userID string, day Day) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(userID))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(day))
	seed := h.Sum64()
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// generateDailies adds a domain-balanced batch of daily quests for day. Coin
// rewards carry the streak multiplier in effect at generation time.
func (e *Engine) generateDailies(day Day, now time.Time) []string {
	rng := dailyRand(e.state.UserID, day)
	n := e.dailyMin
	if e.dailyMax > e.dailyMin {
		n += rng.IntN(e.dailyMax - e.dailyMin + 1)
	}
	offset := rng.IntN(len(Domains))
	deadline := day.AddDays(1).Start(e.loc)
	mult := StreakMultiplier(e.state.User.Streak.Current)

	used := map[Domain]map[int]bool{}
	var ids []string
	for i := 0; i < n; i++ {
		d := Domains[(offset+i)%len(Domains)]
		templates := e.cat.Daily[d]
		if len(templates) == 0 {
			continue
		}
		if used[d] == nil {
			used[d] = map[int]bool{}
		}
		idx := pickUnused(rng, len(templates), used[d])
		used[d][idx] = true
		t := templates[idx]

		reward := e.cat.RewardFor(t.Difficulty)
		id, err := e.AddQuest(QuestInput{
			Title:       t.Title,
			Description: t.Description,
			Domain:      d,
			Difficulty:  t.Difficulty,
			XPReward:    reward.XP,
			CoinReward:  int(math.Floor(float64(reward.Coins)*mult + roundingSlack)),
			Deadline:    &deadline,
			IsDaily:     true,
			Criteria:    t.Criteria,
			Punishment:  t.Punishment,
		}, now)
		if err != nil {
			e.log.Warn("skipping daily template", "domain", d, "error", err)
			continue
		}
		e.state.quest(id).StreakApplied = true
		ids = append(ids, id)
	}
	return ids
}

// pickUnused draws an index in [0,n) not in used, falling back to any index
// once every template has been drawn.
func pickUnused(rng *rand.Rand, n int, used map[int]bool) int {
	free := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if !used[i] {
			free = append(free, i)
		}
	}
	if len(free) == 0 {
		return rng.IntN(n)
	}
	return free[rng.IntN(len(free))]
}
