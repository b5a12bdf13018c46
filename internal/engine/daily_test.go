package engine

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dailies(e *Engine) []Quest {
	var out []Quest
	for _, q := range e.Quests() {
		if q.IsDaily {
			out = append(out, q)
		}
	}
	return out
}

func TestTickGeneratesBalancedBatch(t *testing.T) {
	e := newTestEngine(t)
	res := e.Tick(day0)

	require.True(t, res.Refreshed)
	assert.Equal(t, DayOf(day0, time.UTC), res.Day)
	assert.GreaterOrEqual(t, len(res.Generated), DefaultDailyMin)
	assert.LessOrEqual(t, len(res.Generated), DefaultDailyMax)
	assert.Equal(t, DayOf(day0, time.UTC), e.Snapshot().LastDailyRefresh)

	perDomain := map[Domain]int{}
	titles := map[string]bool{}
	tomorrow := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	for _, q := range dailies(e) {
		perDomain[q.Domain]++
		assert.False(t, titles[q.Title], "template %q repeated", q.Title)
		titles[q.Title] = true
		assert.True(t, q.StreakApplied)
		require.NotNil(t, q.Deadline)
		assert.True(t, tomorrow.Equal(*q.Deadline))
		assert.Equal(t, QuestActive, q.Status)
	}
	lo, hi := math.MaxInt, 0
	for _, d := range Domains {
		lo = min(lo, perDomain[d])
		hi = max(hi, perDomain[d])
	}
	assert.LessOrEqual(t, hi-lo, 1)
}

func TestTickSameDayIsNoop(t *testing.T) {
	e := newTestEngine(t)
	e.Tick(day0)
	before := e.Snapshot()

	res := e.Tick(day0.Add(10 * time.Hour))
	assert.False(t, res.Refreshed)
	assert.Equal(t, before, e.Snapshot())
}

func TestTickBackwardClockDoesNotRefresh(t *testing.T) {
	e := newTestEngine(t)
	e.Tick(day0.Add(days(1)))
	before := e.Snapshot()

	res := e.Tick(day0)
	assert.False(t, res.Refreshed)
	assert.Equal(t, before, e.Snapshot())
}

func TestDailyGenerationIsDeterministic(t *testing.T) {
	titlesFor := func(user string) []string {
		e := New(user)
		e.Tick(day0)
		var out []string
		for _, q := range dailies(e) {
			out = append(out, q.Title)
		}
		return out
	}
	assert.Equal(t, titlesFor("alice"), titlesFor("alice"))
}

// setPunishment overrides the punishment of a generated quest so tests do
// not depend on which templates were drawn.
func setPunishment(t *testing.T, e *Engine, id string, p *Punishment) {
	t.Helper()
	q := e.state.quest(id)
	require.NotNil(t, q)
	q.Punishment = p
}

func TestDailyRefreshFailsMissedQuests(t *testing.T) {
	e := newTestEngine(t)
	first := e.Tick(day0)
	require.GreaterOrEqual(t, len(first.Generated), 3)
	require.NotNil(t, e.CompleteQuest(first.Generated[0], day0.Add(time.Hour)))

	coinQuest, xpQuest := first.Generated[1], first.Generated[2]
	for _, id := range first.Generated[1:] {
		setPunishment(t, e, id, nil)
	}
	setPunishment(t, e, coinQuest, &Punishment{Kind: PunishCoinLoss, Amount: 40})
	setPunishment(t, e, xpQuest, &Punishment{Kind: PunishXPPenalty, Amount: 25})

	xq, _ := e.Quest(xpQuest)
	skill := addSkill(t, e, "Target", xq.Domain)
	e.AwardXP(skill, 90, day0.Add(time.Hour))
	e.state.User.Coins = 1000

	next := e.Tick(day0.Add(days(1)))
	require.True(t, next.Refreshed)
	assert.ElementsMatch(t, first.Generated[1:], next.Failed)

	assert.Equal(t, 960, e.User().Coins)
	sk, _ := e.Skill(skill)
	assert.Equal(t, 65, sk.XP)

	// All of yesterday's misses count as one missed day.
	assert.Equal(t, Penalties{
		ConsecutiveMissedDays: 1,
		CoinEarningPenaltyPct: CoinPenaltyStepPct,
		StreakDecayPct:        StreakDecayStepPct,
		RedemptionRequired:    RedemptionTasksNeeded,
		LastMissedDay:         DayOf(day0, time.UTC),
	}, e.User().Penalties)

	// Yesterday's batch is replaced wholesale.
	for _, id := range first.Generated {
		_, ok := e.Quest(id)
		assert.False(t, ok)
	}
	assert.Len(t, dailies(e), len(next.Generated))
}

func TestPenaltiesGrowPerMissedDay(t *testing.T) {
	e := newTestEngine(t)
	e.Tick(day0)
	for i := 1; i <= 3; i++ {
		res := e.Tick(day0.Add(days(i)))
		require.NotEmpty(t, res.Failed)
	}

	p := e.User().Penalties
	assert.Equal(t, 3, p.ConsecutiveMissedDays)
	assert.Equal(t, 15, p.CoinEarningPenaltyPct)
	assert.Equal(t, 9, p.StreakDecayPct)
	assert.Equal(t, DayOf(day0.Add(days(2)), time.UTC), p.LastMissedDay)
}

func TestFreezeCoversEveryBreakOfOneMissedDay(t *testing.T) {
	e := newTestEngine(t)
	e.state.User.Streak = Streak{Current: 10, Longest: 10, LastUpdatedDay: DayOf(day0.Add(-days(1)), time.UTC)}
	first := e.Tick(day0)
	require.GreaterOrEqual(t, len(first.Generated), 3)
	for _, id := range first.Generated {
		setPunishment(t, e, id, nil)
	}
	setPunishment(t, e, first.Generated[0], &Punishment{Kind: PunishStreakBreak})
	setPunishment(t, e, first.Generated[1], &Punishment{Kind: PunishStreakBreak})
	e.ActivateBoost(mustItem(t, e, "streak-freeze"), day0)

	next := e.Tick(day0.Add(days(1)))
	require.True(t, next.Refreshed)
	s := e.User().Streak
	assert.Equal(t, 10, s.Current)
	assert.False(t, s.FreezeActive)
	assert.Equal(t, DayOf(day0, time.UTC), s.FrozenDay)

	// Finishing today's dailies bridges the frozen day.
	for _, id := range next.Generated {
		require.NotNil(t, e.CompleteQuest(id, day0.Add(days(1)+time.Hour)))
	}
	assert.Equal(t, 11, e.User().Streak.Current)
}

func TestDailyRewardsCarryStreakMultiplier(t *testing.T) {
	e := newTestEngine(t)
	e.state.User.Streak = Streak{Current: 7, Longest: 7, LastUpdatedDay: DayOf(day0.Add(-days(1)), time.UTC)}
	res := e.Tick(day0)

	for _, q := range dailies(e) {
		base := e.Catalog().RewardFor(q.Difficulty).Coins
		assert.Equal(t, int(math.Floor(float64(base)*1.1+1e-9)), q.CoinReward, q.Title)
	}

	q, _ := e.Quest(res.Generated[0])
	done := e.CompleteQuest(q.ID, day0)
	require.NotNil(t, done)
	assert.Equal(t, q.CoinReward, done.CoinsAwarded, "streak is not applied twice")
}

func TestTickExpiresOverdueQuests(t *testing.T) {
	e := newTestEngine(t)
	deadline := day0.Add(time.Hour)
	late := addQuest(t, e, QuestInput{Title: "File taxes", Deadline: &deadline})
	open := addQuest(t, e, QuestInput{Title: "Someday"})

	res := e.Tick(day0.Add(2 * time.Hour))
	assert.Equal(t, []string{late}, res.Expired)

	q, _ := e.Quest(late)
	assert.Equal(t, QuestExpired, q.Status)
	q, _ = e.Quest(open)
	assert.Equal(t, QuestActive, q.Status)
	assert.Zero(t, e.User().Penalties.ConsecutiveMissedDays)
}

func TestTickClearsStaleFreeze(t *testing.T) {
	e := newTestEngine(t)
	e.ActivateBoost(mustItem(t, e, "streak-freeze"), day0)

	e.Tick(day0.Add(days(2)))
	assert.True(t, e.User().Streak.FreezeActive)

	e.Tick(day0.Add(days(3)))
	assert.False(t, e.User().Streak.FreezeActive)
}

func TestTickHonorsLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	e := newTestEngine(t, WithLocation(tokyo))

	// 20:00 UTC on March 2 is already March 3 in Tokyo.
	res := e.Tick(time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC))
	assert.Equal(t, Day("2026-03-03"), res.Day)
}
