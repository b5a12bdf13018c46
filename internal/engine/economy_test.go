package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustItem(t *testing.T, e *Engine, id string) ShopItem {
	t.Helper()
	it, ok := e.Catalog().Item(id)
	require.True(t, ok, "catalog item %s", id)
	return it
}

func TestSpendCoins(t *testing.T) {
	e := newTestEngine(t)
	e.state.User.Coins = 50

	assert.False(t, e.SpendCoins(60))
	assert.Equal(t, 50, e.User().Coins)
	assert.False(t, e.SpendCoins(-1))
	assert.True(t, e.SpendCoins(0))
	assert.True(t, e.SpendCoins(50))
	assert.Zero(t, e.User().Coins)
}

func TestStreakMultiplier(t *testing.T) {
	cases := map[int]float64{0: 1, 6: 1, 7: 1.1, 29: 1.1, 30: 1.25, 99: 1.25, 100: 1.5, 365: 1.5}
	for days, want := range cases {
		assert.Equal(t, want, StreakMultiplier(days), "days=%d", days)
	}
}

func TestAddCoinsScaling(t *testing.T) {
	e := newTestEngine(t)
	assert.Equal(t, 35, e.AddCoins(35, day0))

	e.state.User.Streak.Current = 7
	assert.Equal(t, 38, e.AddCoins(35, day0))

	e.state.User.Penalties.CoinEarningPenaltyPct = 5
	e.state.User.Streak.Current = 0
	assert.Equal(t, 19, e.AddCoins(20, day0))

	e.state.User.Penalties = Penalties{}
	e.state.User.Streak.Current = 7
	e.ActivateBoost(mustItem(t, e, "coin-boost-2x"), day0)
	assert.Equal(t, 77, e.AddCoins(35, day0))

	assert.Zero(t, e.AddCoins(0, day0))
	assert.Zero(t, e.AddCoins(-10, day0))
}

func TestBestMultiplierDoesNotStack(t *testing.T) {
	e := newTestEngine(t)
	e.ActivateBoost(mustItem(t, e, "xp-boost-2x"), day0)
	e.ActivateBoost(mustItem(t, e, "xp-boost-3x"), day0)

	assert.Equal(t, 3.0, e.BestMultiplier(BoostXP, day0))
	assert.Equal(t, 1.0, e.BestMultiplier(BoostCoin, day0))
	assert.Equal(t, 2.0, e.BestMultiplier(BoostXP, day0.Add(2*time.Hour)))
	assert.Equal(t, 1.0, e.BestMultiplier(BoostXP, day0.Add(25*time.Hour)))

	// Expired boosts stay recorded; only queries filter them.
	assert.Len(t, e.User().ActiveBoosts, 2)
	assert.Len(t, e.ActiveBoosts(day0.Add(2*time.Hour)), 1)
	assert.Empty(t, e.ActiveBoosts(day0.Add(25*time.Hour)))
}

func TestXPBoostScalesQuestXP(t *testing.T) {
	e := newTestEngine(t)
	addSkill(t, e, "Reading", DomainMental)
	e.ActivateBoost(mustItem(t, e, "xp-boost-2x"), day0)

	res := e.CompleteQuest(addQuest(t, e, QuestInput{Title: "Read a chapter", Domain: DomainMental}), day0)
	require.NotNil(t, res)
	assert.Equal(t, 100, res.XPAwarded)
	assert.Equal(t, 35, res.CoinsAwarded)
}

func TestPurchaseItem(t *testing.T) {
	e := newTestEngine(t)
	e.state.User.Coins = 1000

	assert.True(t, e.PurchaseItem("streak-freeze", day0))
	assert.Equal(t, 800, e.User().Coins)
	assert.True(t, e.Owns("streak-freeze"))

	assert.False(t, e.PurchaseItem("streak-freeze", day0), "already owned")
	assert.False(t, e.PurchaseItem("no-such-item", day0))
	assert.False(t, e.PurchaseItem("badge-streak-30", day0), "reward only")
	assert.Equal(t, 800, e.User().Coins)

	e.state.User.Coins = 100
	assert.False(t, e.PurchaseItem("frame-neon", day0))
	assert.Equal(t, 100, e.User().Coins)
	assert.False(t, e.Owns("frame-neon"))
}

func TestActivateConsumable(t *testing.T) {
	e := newTestEngine(t)
	e.state.User.Coins = 200
	require.True(t, e.PurchaseItem("streak-freeze", day0))

	require.True(t, e.ActivateItem("streak-freeze", day0))
	s := e.User().Streak
	assert.True(t, s.FreezeActive)
	assert.Equal(t, DayOf(day0, time.UTC).AddDays(1), s.FreezeExpiresDay)
	assert.False(t, e.Owns("streak-freeze"))

	assert.False(t, e.ActivateItem("streak-freeze", day0))
}

func TestActivateCosmeticToggles(t *testing.T) {
	e := newTestEngine(t)
	e.state.User.Coins = 1000
	require.True(t, e.PurchaseItem("badge-early-riser", day0))
	require.True(t, e.PurchaseItem("frame-neon", day0))

	require.True(t, e.ActivateItem("badge-early-riser", day0))
	require.True(t, e.ActivateItem("frame-neon", day0))
	u := e.User()
	assert.Equal(t, []string{"badge-early-riser"}, u.EquippedBadges)
	assert.Equal(t, "frame-neon", u.EquippedFrame)

	require.True(t, e.ActivateItem("badge-early-riser", day0))
	require.True(t, e.ActivateItem("frame-neon", day0))
	u = e.User()
	assert.Empty(t, u.EquippedBadges)
	assert.Empty(t, u.EquippedFrame)
	assert.True(t, e.Owns("badge-early-riser"))
	assert.True(t, e.Owns("frame-neon"))
}

func TestShopHidesRewardOnlyItems(t *testing.T) {
	e := newTestEngine(t)
	shop := e.Shop()
	require.NotEmpty(t, shop)
	for _, it := range shop {
		assert.False(t, it.RewardOnly, it.ID)
	}
	assert.Len(t, shop, 6)
}
