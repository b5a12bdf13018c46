package engine

import (
	"fmt"
	"math"
	"time"
)

const (
	// UserLevelCoef drives the global user level curve: XP_req = 500 * (Level-1)^1.5
	UserLevelCoef = 500.0

	// DefaultXPToNextLevel is the first threshold of a freshly created skill.
	DefaultXPToNextLevel = 100

	// LevelGrowthFactor is applied to a skill threshold once per level gained.
	LevelGrowthFactor = 1.2

	// MaxSingleAward bounds one award so integer XP cannot overflow.
	MaxSingleAward = 1_000_000_000
)

// XPRequiredForLevel returns the total XP a user needs to be at the given level.
// Level 1 requires 0 XP.
func XPRequiredForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	req := UserLevelCoef * math.Pow(float64(level-1), 1.5)
	// Use ceil to avoid making thresholds easier due to floating point rounding.
	return int(math.Ceil(req))
}

// LevelForTotalXP returns the highest level L such that totalXP >= XPRequiredForLevel(L).
func LevelForTotalXP(totalXP int) int {
	if totalXP <= 0 {
		return 1
	}

	// Exponential search upper bound, then binary search.
	low := 1
	high := 2
	for XPRequiredForLevel(high) <= totalXP {
		low = high
		high *= 2
		if high > 1_000_000 {
			break
		}
	}

	for low+1 < high {
		mid := low + (high-low)/2
		if XPRequiredForLevel(mid) <= totalXP {
			low = mid
		} else {
			high = mid
		}
	}
	return low
}

var rankThresholds = []struct {
	min  int
	rank Rank
}{
	{10000, RankSSS},
	{7500, RankSS},
	{5000, RankS},
	{3000, RankA},
	{1500, RankB},
	{750, RankC},
	{250, RankD},
	{0, RankE},
}

// RankForXP maps an XP total onto the fixed E..SSS tier table.
func RankForXP(xp int) Rank {
	for _, t := range rankThresholds {
		if xp >= t.min {
			return t.rank
		}
	}
	return RankE
}

// rankIndex orders ranks from E (0) upward; unknown ranks sort lowest.
func rankIndex(r Rank) int {
	for i, t := range rankThresholds {
		if t.rank == r {
			return len(rankThresholds) - 1 - i
		}
	}
	return -1
}

// NextRank returns the tier after r and the XP at which it starts.
// ok is false at SSS.
func NextRank(r Rank) (next Rank, threshold int, ok bool) {
	for i := len(rankThresholds) - 1; i > 0; i-- {
		if rankThresholds[i].rank == r {
			return rankThresholds[i-1].rank, rankThresholds[i-1].min, true
		}
	}
	return "", 0, false
}

// normalizeAmount converts an upstream XP amount into a whole positive award.
// Corrupt input (NaN, Inf, <= 0, < 1 after flooring) yields ok=false.
func normalizeAmount(amount float64) (int, bool) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, false
	}
	if amount > MaxSingleAward {
		amount = MaxSingleAward
	}
	n := int(math.Floor(amount))
	if n <= 0 {
		return 0, false
	}
	return n, true
}

// nextThreshold grows a level threshold by LevelGrowthFactor, always by at least one.
func nextThreshold(cur int) int {
	next := int(math.Floor(float64(cur) * LevelGrowthFactor))
	if next <= cur {
		next = cur + 1
	}
	return next
}

// ApplyXP applies amount to the skill, consuming one threshold per level gained
// and compounding the threshold on each step. It returns the number of levels
// gained and the whole XP actually applied (0 for a rejected amount).
func ApplyXP(sk *Skill, amount float64, now time.Time) (levelsGained int, applied int) {
	if sk == nil {
		return 0, 0
	}
	gain, ok := normalizeAmount(amount)
	if !ok {
		return 0, 0
	}

	if sk.Level < 1 {
		sk.Level = 1
	}
	if sk.XPToNextLevel <= 0 {
		sk.XPToNextLevel = DefaultXPToNextLevel
	}

	xp := sk.XP + gain
	for xp >= sk.XPToNextLevel {
		xp -= sk.XPToNextLevel
		sk.Level++
		sk.XPToNextLevel = nextThreshold(sk.XPToNextLevel)
		levelsGained++
	}
	sk.XP = xp
	sk.TotalXP += gain

	note := fmt.Sprintf("Gained %d XP", gain)
	if levelsGained > 0 {
		note = fmt.Sprintf("Gained %d XP (+%d level, now %d)", gain, levelsGained, sk.Level)
	}
	sk.History = append(sk.History, HistoryEntry{At: now, Value: sk.XP, Note: note})
	return levelsGained, gain
}

// deductXP lowers the skill's current XP without ever removing a level.
func deductXP(sk *Skill, amount int, now time.Time) int {
	if sk == nil || amount <= 0 {
		return 0
	}
	lost := amount
	if lost > sk.XP {
		lost = sk.XP
	}
	sk.XP -= lost
	sk.History = append(sk.History, HistoryEntry{At: now, Value: sk.XP, Note: fmt.Sprintf("Lost %d XP (penalty)", lost)})
	return lost
}

// domainXP sums the lifetime XP of every skill in the domain.
func domainXP(skills []Skill, d Domain) int {
	total := 0
	for i := range skills {
		if skills[i].Domain == d {
			total += skills[i].TotalXP
		}
	}
	return total
}
