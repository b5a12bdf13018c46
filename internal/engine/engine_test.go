package engine

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// day0 is a Monday morning; tests derive every other instant from it.
var day0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	n := 0
	ids := WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	})
	return New("tester", append([]Option{ids}, opts...)...)
}

func addSkill(t *testing.T, e *Engine, name string, d Domain) string {
	t.Helper()
	id, err := e.AddSkill(SkillInput{Name: name, Domain: d}, day0)
	require.NoError(t, err)
	return id
}

func addQuest(t *testing.T, e *Engine, in QuestInput) string {
	t.Helper()
	id, err := e.AddQuest(in, day0)
	require.NoError(t, err)
	return id
}

func TestXPBoundaries(t *testing.T) {
	assert.Equal(t, 0, XPRequiredForLevel(1))
	assert.Equal(t, 500, XPRequiredForLevel(2))

	assert.Equal(t, 1, LevelForTotalXP(0))
	assert.Equal(t, 1, LevelForTotalXP(499))
	assert.Equal(t, 2, LevelForTotalXP(500))

	l7 := XPRequiredForLevel(7)
	assert.Equal(t, 6, LevelForTotalXP(l7-1))
	assert.Equal(t, 7, LevelForTotalXP(l7))
}

func TestApplyXPCarriesRemainderAcrossLevels(t *testing.T) {
	sk := Skill{Level: 1, XPToNextLevel: 100}

	levels, applied := ApplyXP(&sk, 250, day0)

	assert.Equal(t, 2, levels)
	assert.Equal(t, 250, applied)
	assert.Equal(t, 3, sk.Level)
	assert.Equal(t, 30, sk.XP)
	assert.Equal(t, 144, sk.XPToNextLevel)
	assert.Equal(t, 250, sk.TotalXP)
	require.Len(t, sk.History, 1)
	assert.Equal(t, "Gained 250 XP (+2 level, now 3)", sk.History[0].Note)
}

func TestApplyXPNeverLowersLevel(t *testing.T) {
	sk := Skill{Level: 1, XPToNextLevel: DefaultXPToNextLevel}
	for _, amount := range []float64{1, 99, 37.9, 250, 1000, 5, 12345} {
		before := sk.Level
		ApplyXP(&sk, amount, day0)
		assert.GreaterOrEqual(t, sk.Level, before)
		assert.GreaterOrEqual(t, sk.XP, 0)
		assert.Less(t, sk.XP, sk.XPToNextLevel)
	}
}

func TestApplyXPRejectsMalformedAmounts(t *testing.T) {
	for _, amount := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -5, 0, 0.5} {
		sk := Skill{Level: 2, XP: 10, XPToNextLevel: 120}
		levels, applied := ApplyXP(&sk, amount, day0)
		assert.Zero(t, levels, "amount %v", amount)
		assert.Zero(t, applied, "amount %v", amount)
		assert.Equal(t, Skill{Level: 2, XP: 10, XPToNextLevel: 120}, sk)
	}
}

func TestNextThresholdAlwaysGrows(t *testing.T) {
	assert.Equal(t, 120, nextThreshold(100))
	assert.Equal(t, 2, nextThreshold(1))
	assert.Equal(t, 144, nextThreshold(120))
}

func TestRankBoundaries(t *testing.T) {
	cases := []struct {
		xp   int
		want Rank
	}{
		{0, RankE},
		{249, RankE},
		{250, RankD},
		{749, RankD},
		{750, RankC},
		{1499, RankC},
		{1500, RankB},
		{3000, RankA},
		{5000, RankS},
		{7499, RankS},
		{7500, RankSS},
		{9999, RankSS},
		{10000, RankSSS},
		{1_000_000, RankSSS},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RankForXP(tc.xp), "xp=%d", tc.xp)
	}
}

func TestRankIsMonotonic(t *testing.T) {
	prev := rankIndex(RankForXP(0))
	for xp := 1; xp <= 12000; xp++ {
		cur := rankIndex(RankForXP(xp))
		require.GreaterOrEqual(t, cur, prev, "xp=%d", xp)
		prev = cur
	}
}

func TestNextRank(t *testing.T) {
	next, at, ok := NextRank(RankE)
	require.True(t, ok)
	assert.Equal(t, RankD, next)
	assert.Equal(t, 250, at)

	_, _, ok = NextRank(RankSSS)
	assert.False(t, ok)
}

func TestAwardXPUpdatesUserAndDomainRank(t *testing.T) {
	e := newTestEngine(t)
	run := addSkill(t, e, "Running", DomainPhysical)

	levels, ok := e.AwardXP(run, 300, day0)
	require.True(t, ok)
	assert.Equal(t, 2, levels)

	sk, _ := e.Skill(run)
	assert.Equal(t, 3, sk.Level)
	assert.Equal(t, 80, sk.XP)

	u := e.User()
	assert.Equal(t, 300, u.TotalXP)
	assert.Equal(t, 1, u.Level)
	assert.Equal(t, RankD, u.Rank)
	assert.Equal(t, RankD, e.DomainRank(DomainPhysical))
	assert.Equal(t, RankE, e.DomainRank(DomainMental))

	var kinds []EventKind
	for _, ev := range e.DrainEvents() {
		kinds = append(kinds, ev.Kind)
	}
	assert.Contains(t, kinds, EventLevelUp)
	assert.Contains(t, kinds, EventRankUp)
	assert.Empty(t, e.DrainEvents())
}

func TestAwardXPIgnoresBadInput(t *testing.T) {
	e := newTestEngine(t)
	run := addSkill(t, e, "Running", DomainPhysical)

	_, ok := e.AwardXP("missing", 100, day0)
	assert.False(t, ok)
	_, ok = e.AwardXP(run, math.NaN(), day0)
	assert.False(t, ok)
	_, ok = e.AwardXP(run, -40, day0)
	assert.False(t, ok)

	assert.Zero(t, e.User().TotalXP)
}

func TestDomainRankUsesLifetimeXP(t *testing.T) {
	e := newTestEngine(t)
	a := addSkill(t, e, "Guitar", DomainCreative)
	b := addSkill(t, e, "Drawing", DomainCreative)

	e.AwardXP(a, 400, day0)
	e.AwardXP(b, 400, day0)

	// Both skills levelled, so their remainders are small, but lifetime XP is 800.
	assert.Equal(t, RankC, e.DomainRank(DomainCreative))
}

func TestDomainProgress(t *testing.T) {
	e := newTestEngine(t)
	a := addSkill(t, e, "Lifting", DomainPhysical)
	addSkill(t, e, "Yoga", DomainPhysical)
	e.AwardXP(a, 130, day0)

	q1 := addQuest(t, e, QuestInput{Title: "Squat", Domain: DomainPhysical})
	addQuest(t, e, QuestInput{Title: "Bench", Domain: DomainPhysical})
	addQuest(t, e, QuestInput{Title: "Read", Domain: DomainMental})
	require.NotNil(t, e.CompleteQuest(q1, day0))

	p := e.DomainProgress(DomainPhysical)
	assert.Equal(t, 2, p.Level)
	// Lifting gets 130 + 50 quest XP: level 2 with 80 of 120; Yoga is untouched.
	assert.Equal(t, 80, p.XP)
	assert.Equal(t, 220, p.XPToNextLevel)
	assert.Equal(t, 1, p.CompletedQuests)
	assert.Equal(t, 2, p.TotalQuests)
	assert.InDelta(t, 50.0, p.AverageScore, 1e-9)

	empty := e.DomainProgress(DomainTechnical)
	assert.Zero(t, empty.TotalQuests)
	assert.Zero(t, empty.AverageScore)
}

func TestAchievements(t *testing.T) {
	e := newTestEngine(t)
	assert.Zero(t, CountEarned(e.Achievements()))

	q := addQuest(t, e, QuestInput{Title: "Anything"})
	e.CompleteQuest(q, day0)

	earned := map[string]bool{}
	for _, a := range e.Achievements() {
		earned[a.ID] = a.Earned
	}
	assert.True(t, earned["first_quest"])
	assert.False(t, earned["productive"])
}
