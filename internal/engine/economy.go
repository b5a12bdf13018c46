package engine

import (
	"math"
	"time"
)

const (
	MaxCoinPenaltyPct     = 50
	CoinPenaltyStepPct    = 5
	MaxStreakDecayPct     = 15
	StreakDecayStepPct    = 3
	RedemptionTasksNeeded = 3
)

// roundingSlack absorbs float error such as 0.95*20 = 18.999999999999996.
const roundingSlack = 1e-9

// StreakMultiplier returns the coin multiplier for a streak length.
func StreakMultiplier(days int) float64 {
	switch {
	case days >= 100:
		return 1.5
	case days >= 30:
		return 1.25
	case days >= 7:
		return 1.1
	default:
		return 1.0
	}
}

func (e *Engine) penaltyFactor() float64 {
	pct := e.state.User.Penalties.CoinEarningPenaltyPct
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return 1 - float64(pct)/100
}

// BestMultiplier returns the largest multiplier among boosts of kind that have
// not expired at now, or 1 when there are none. Boosts never stack.
func (e *Engine) BestMultiplier(kind BoostKind, now time.Time) float64 {
	best := 1.0
	for _, b := range e.state.User.ActiveBoosts {
		if b.Kind != kind || !b.ExpiresAt.After(now) {
			continue
		}
		if b.Multiplier > best {
			best = b.Multiplier
		}
	}
	return best
}

// ActiveBoosts returns the boosts still running at now.
func (e *Engine) ActiveBoosts(now time.Time) []Boost {
	var out []Boost
	for _, b := range e.state.User.ActiveBoosts {
		if b.ExpiresAt.After(now) {
			out = append(out, b)
		}
	}
	return out
}

// coinReward computes base × streak × penalty × boost, floored once at the end.
// streakApplied skips the streak factor for rewards that already carry it.
func (e *Engine) coinReward(base int, streakApplied bool, now time.Time) int {
	if base <= 0 {
		return 0
	}
	amount := float64(base)
	if !streakApplied {
		amount *= StreakMultiplier(e.state.User.Streak.Current)
	}
	amount *= e.penaltyFactor()
	amount *= e.BestMultiplier(BoostCoin, now)
	return int(math.Floor(amount + roundingSlack))
}

// AddCoins credits a base reward after streak, penalty and boost scaling and
// returns the amount actually credited.
func (e *Engine) AddCoins(base int, now time.Time) int {
	return e.Credit(e.coinReward(base, false, now))
}

// Credit adds a fixed amount with no scaling.
func (e *Engine) Credit(amount int) int {
	if amount <= 0 {
		return 0
	}
	e.state.User.Coins += amount
	return amount
}

// SpendCoins debits amount if the balance covers it. It never leaves the
// balance negative.
func (e *Engine) SpendCoins(amount int) bool {
	if amount < 0 {
		return false
	}
	if amount > e.state.User.Coins {
		return false
	}
	e.state.User.Coins -= amount
	return true
}

// deductCoins removes up to amount, flooring the balance at zero.
func (e *Engine) deductCoins(amount int) int {
	if amount <= 0 {
		return 0
	}
	if amount > e.state.User.Coins {
		amount = e.state.User.Coins
	}
	e.state.User.Coins -= amount
	return amount
}

// xpReward scales a quest XP reward by the best active XP boost.
func (e *Engine) xpReward(base int, now time.Time) float64 {
	if base <= 0 {
		return 0
	}
	return math.Floor(float64(base)*e.BestMultiplier(BoostXP, now) + roundingSlack)
}

// Shop lists the purchasable catalog items.
func (e *Engine) Shop() []ShopItem {
	var out []ShopItem
	for _, it := range e.cat.Shop {
		if !it.RewardOnly {
			out = append(out, it)
		}
	}
	return out
}

// Owns reports whether the user currently holds itemID.
func (e *Engine) Owns(itemID string) bool {
	return e.state.User.owns(itemID)
}

// PurchaseItem buys an item into the inventory. It fails for unknown,
// reward-only or already owned items and for an insufficient balance.
func (e *Engine) PurchaseItem(itemID string, now time.Time) bool {
	item, ok := e.cat.Item(itemID)
	if !ok || item.RewardOnly {
		return false
	}
	if e.state.User.owns(item.ID) {
		return false
	}
	if !e.SpendCoins(item.Price) {
		return false
	}
	e.state.User.grant(item.ID)
	e.emit(EventItemPurchased, now, item.ID, item.Price, item.Name)
	e.log.Debug("item purchased", "item", item.ID, "price", item.Price, "balance", e.state.User.Coins)
	return true
}

// ActivateItem uses an owned item. Consumables leave the inventory; cosmetics
// toggle their equipped flag and stay owned.
func (e *Engine) ActivateItem(itemID string, now time.Time) bool {
	item, ok := e.cat.Item(itemID)
	if !ok || !e.state.User.owns(item.ID) {
		return false
	}
	e.ActivateBoost(item, now)
	if item.Kind.IsConsumable() {
		e.state.User.revoke(item.ID)
	}
	e.emit(EventItemActivated, now, item.ID, 0, string(item.Kind))
	return true
}

// ActivateBoost applies an item's effect without any ownership bookkeeping.
func (e *Engine) ActivateBoost(item ShopItem, now time.Time) {
	u := &e.state.User
	switch item.Kind {
	case ItemStreakFreeze:
		days := int(item.Value)
		if days < 1 {
			days = 1
		}
		expires := e.today(now).AddDays(days)
		if !u.Streak.FreezeActive || expires.After(u.Streak.FreezeExpiresDay) {
			u.Streak.FreezeExpiresDay = expires
		}
		u.Streak.FreezeActive = true
	case ItemXPMultiplier, ItemCoinMultiplier:
		kind := BoostXP
		if item.Kind == ItemCoinMultiplier {
			kind = BoostCoin
		}
		if item.Value <= 1 || item.DurationHours <= 0 {
			return
		}
		u.ActiveBoosts = append(u.ActiveBoosts, Boost{
			ItemID:     item.ID,
			Kind:       kind,
			Multiplier: item.Value,
			ExpiresAt:  now.Add(time.Duration(item.DurationHours) * time.Hour),
		})
		e.log.Debug("boost activated", "item", item.ID, "kind", kind, "multiplier", item.Value)
	case ItemFrame:
		if u.EquippedFrame == item.ID {
			u.EquippedFrame = ""
		} else {
			u.EquippedFrame = item.ID
		}
	case ItemBadge:
		for i, id := range u.EquippedBadges {
			if id == item.ID {
				u.EquippedBadges = append(u.EquippedBadges[:i], u.EquippedBadges[i+1:]...)
				return
			}
		}
		u.EquippedBadges = append(u.EquippedBadges, item.ID)
	}
}
