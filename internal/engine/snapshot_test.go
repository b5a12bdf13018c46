package engine

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	skill := addSkill(t, e, "Climbing", DomainPhysical)
	e.AwardXP(skill, 420, day0)
	e.state.User.Coins = 600
	require.True(t, e.PurchaseItem("xp-boost-2x", day0))
	require.True(t, e.ActivateItem("xp-boost-2x", day0))
	e.Tick(day0)
	e.AddProgressNote("first week", day0)

	data, err := e.MarshalSnapshot()
	require.NoError(t, err)

	loaded, err := FromSnapshot(data)
	require.NoError(t, err)

	want, got := e.Snapshot(), loaded.Snapshot()
	assert.Equal(t, CurrentSnapshotVersion, got.Version)
	assert.Equal(t, want.User.Coins, got.User.Coins)
	assert.Equal(t, want.User.TotalXP, got.User.TotalXP)
	assert.Equal(t, want.User.Rank, got.User.Rank)
	assert.Equal(t, want.DomainRanks, got.DomainRanks)
	assert.Equal(t, want.LastDailyRefresh, got.LastDailyRefresh)
	assert.Len(t, got.Quests, len(want.Quests))
	assert.Len(t, got.User.ProgressHistory, 1)
	assert.Equal(t, 2.0, loaded.BestMultiplier(BoostXP, day0))

	sk, ok := loaded.Skill(skill)
	require.True(t, ok)
	assert.Equal(t, 420, sk.TotalXP)
}

func TestSnapshotIsACopy(t *testing.T) {
	e := newTestEngine(t)
	q := addQuest(t, e, QuestInput{Title: "Original", Criteria: []string{"a"}})

	snap := e.Snapshot()
	snap.Quests[0].Title = "Mutated"
	snap.Quests[0].CompletionCriteria[0] = "b"

	got, _ := e.Quest(q)
	assert.Equal(t, "Original", got.Title)
	assert.Equal(t, []string{"a"}, got.CompletionCriteria)
}

func TestMigrateVersionZero(t *testing.T) {
	data := []byte(`{
		"userId": "legacy",
		"skills": [
			{"id": "s1", "name": "Run", "domain": "Physical", "level": 1, "xp": 250, "xpToNextLevel": 100}
		],
		"quests": [
			{"id": "q1", "title": "Jog", "domain": "Physical", "difficulty": "Easy", "xpReward": 25, "coinReward": 15},
			{"id": "q2", "title": "Stretch", "domain": "Yoga", "difficulty": "Weird", "completedAt": "2026-01-01T10:00:00Z"}
		]
	}`)

	st, err := LoadSnapshot(data, nil)
	require.NoError(t, err)

	assert.Equal(t, CurrentSnapshotVersion, st.Version)
	assert.Len(t, st.User.Milestones, 3)
	assert.NotNil(t, st.User.OwnedItemIDs)
	assert.NotNil(t, st.User.ProgressHistory)
	assert.NotNil(t, st.Chains)
	assert.Len(t, st.DomainRanks, len(Domains))

	sk := st.Skills[0]
	assert.Equal(t, 3, sk.Level)
	assert.Equal(t, 30, sk.XP)
	assert.Equal(t, 250, sk.TotalXP)
	assert.Equal(t, RankD, st.DomainRanks[DomainPhysical])

	// The user total is rebuilt from the skills it was earned through.
	assert.Equal(t, 250, st.User.TotalXP)
	assert.Equal(t, RankD, st.User.Rank)

	assert.Equal(t, QuestActive, st.Quests[0].Status)
	assert.Equal(t, QuestCompleted, st.Quests[1].Status)
	assert.Equal(t, DefaultDomain, st.Quests[1].Domain)
	assert.Equal(t, DifficultyMedium, st.Quests[1].Difficulty)
}

const browserStoreState = `{
	"user": {
		"name": "Hunter",
		"title": "Novice Explorer",
		"rank": "D",
		"totalXp": 300,
		"joinDate": "2025-11-01T08:00:00.000Z",
		"streak": 4,
		"lastActive": "2026-01-02T21:00:00.000Z",
		"progressHistory": [
			{"date": "2026-01-02T21:00:00.000Z", "metrics": {"pushups": 40}, "notes": "felt strong"}
		]
	},
	"skills": [
		{"id": "s1", "name": "Running", "domain": "Physical", "level": 2, "xp": 40, "xpToNextLevel": 120,
			"metrics": {"progressHistory": [{"date": "2026-01-02T21:00:00.000Z", "value": 140, "notes": "Gained 40 XP"}]}}
	],
	"quests": [
		{"id": "q1", "title": "5k", "domain": "Physical", "difficulty": "Hard", "type": "daily",
			"xpReward": 100, "coinReward": 75, "completed": false, "status": "active",
			"createdAt": "2026-01-02T08:00:00.000Z", "completionCriteria": ["under 30 min"]}
	],
	"achievements": [],
	"domainRanks": {"Physical": "D", "Mental": "E", "Technical": "E", "Creative": "E"}
}`

func TestLoadBrowserStoreSnapshot(t *testing.T) {
	check := func(t *testing.T, st State) {
		assert.Equal(t, CurrentSnapshotVersion, st.Version)
		assert.Equal(t, 300, st.User.TotalXP)
		assert.Equal(t, RankD, st.User.Rank)
		assert.Equal(t, Streak{Current: 4, Longest: 4}, st.User.Streak)
		require.Len(t, st.User.ProgressHistory, 1)
		assert.Equal(t, "felt strong", st.User.ProgressHistory[0].Notes)
		assert.Equal(t, time.Date(2026, 1, 2, 21, 0, 0, 0, time.UTC), st.User.ProgressHistory[0].At.UTC())
		assert.Len(t, st.User.Milestones, 3)

		require.Len(t, st.Skills, 1)
		assert.Equal(t, 2, st.Skills[0].Level)
		assert.Equal(t, 40, st.Skills[0].TotalXP)
		require.Len(t, st.Quests, 1)
		assert.Equal(t, QuestActive, st.Quests[0].Status)
		assert.Equal(t, []string{"under 30 min"}, st.Quests[0].CompletionCriteria)
	}

	t.Run("bare state", func(t *testing.T) {
		st, err := LoadSnapshot([]byte(browserStoreState), nil)
		require.NoError(t, err)
		check(t, st)
	})
	t.Run("persist envelope", func(t *testing.T) {
		st, err := LoadSnapshot([]byte(`{"state": `+browserStoreState+`, "version": 1}`), nil)
		require.NoError(t, err)
		check(t, st)
	})
}

func TestStreakDecodesBothShapes(t *testing.T) {
	var s Streak
	require.NoError(t, json.Unmarshal([]byte(`7`), &s))
	assert.Equal(t, Streak{Current: 7, Longest: 7}, s)

	require.NoError(t, json.Unmarshal([]byte(`{"current": 2, "longest": 9, "freezeActive": true}`), &s))
	assert.Equal(t, Streak{Current: 2, Longest: 9, FreezeActive: true}, s)

	assert.Error(t, json.Unmarshal([]byte(`"seven"`), &s))
}

func TestMigrateVersionTwoKeepsEconomy(t *testing.T) {
	data := []byte(`{
		"version": 2,
		"userId": "u",
		"user": {"coins": 320, "totalXp": 900, "ownedItemIds": ["streak-freeze"],
			"milestones": [{"id": "streak-7", "thresholdDays": 7, "rewardCoins": 100, "claimed": true}]}
	}`)
	st, err := LoadSnapshot(data, nil)
	require.NoError(t, err)

	assert.Equal(t, 320, st.User.Coins)
	assert.Equal(t, RankC, st.User.Rank)
	assert.Equal(t, 2, st.User.Level)
	assert.Equal(t, []string{"streak-freeze"}, st.User.OwnedItemIDs)
	require.Len(t, st.User.Milestones, 1)
	assert.True(t, st.User.Milestones[0].Claimed)
}

func TestLoadSnapshotRejectsBrokenInput(t *testing.T) {
	cases := map[string]string{
		"empty":          ``,
		"bad json":       `{"version": `,
		"future version": `{"version": 99}`,
		"negative coins": `{"version": 3, "user": {"coins": -5}}`,
		"duplicate ids":  `{"version": 3, "quests": [{"id": "a", "title": "x"}, {"id": "a", "title": "y"}]}`,
		"unknown status": `{"version": 3, "quests": [{"id": "a", "title": "x", "status": "paused"}]}`,
		"negative xp":    `{"version": 3, "skills": [{"id": "s", "name": "x", "xp": -1}]}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadSnapshot([]byte(payload), nil)
			var snapErr SnapshotError
			assert.True(t, errors.As(err, &snapErr), "got %v", err)
		})
	}
}
